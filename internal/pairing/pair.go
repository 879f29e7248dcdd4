package pairing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// pairBatchParallelism bounds concurrent pairing key exchanges. Tuples
// are independent; the bound only protects the management endpoints.
const pairBatchParallelism = 8

// PairVolumes establishes one replication relationship per tuple. All
// tuples are validated before the first mutating RPC; a validation
// failure on any tuple aborts the whole batch. Past validation, tuples
// proceed independently: one tuple's RPC failure never blocks, delays or
// rolls back another, and partial completion is a normal, reported
// outcome. Dry-run aware.
func (o *Orchestrator) PairVolumes(ctx context.Context, req PairRequest) ([]TupleResult, error) {
	if len(req.Tuples) == 0 {
		return nil, validationf("pair.tuples", "no volume pairs supplied")
	}
	if _, err := o.Reader().RequirePaired(ctx); err != nil {
		return nil, err
	}

	// Validation pass: both member volumes of every tuple, before any
	// mutation anywhere. Sizes are equal past validation, so one per
	// candidate is enough.
	type candidate struct {
		tuple Tuple
		size  int64
	}
	candidates := make([]candidate, 0, len(req.Tuples))
	for _, t := range req.Tuples {
		srcVol, err := o.Src.GetVolume(ctx, t.Src)
		if err != nil {
			return nil, remoteErr("SRC", fmt.Sprintf("GetVolume(%d)", t.Src), err)
		}
		dstVol, err := o.Dst.GetVolume(ctx, t.Dst)
		if err != nil {
			return nil, remoteErr("DST", fmt.Sprintf("GetVolume(%d)", t.Dst), err)
		}
		if verr := ValidatePairTuple(srcVol, dstVol); verr != nil {
			return nil, verr
		}
		candidates = append(candidates, candidate{tuple: t, size: srcVol.TotalSize})
	}

	results := make([]TupleResult, len(candidates))
	if o.suppressed(ActionPairVolumes) {
		for i, c := range candidates {
			results[i] = TupleResult{
				Tuple: c.tuple,
				Detail: fmt.Sprintf("would pair SRC volume %d with DST volume %d (%s)",
					c.tuple.Src, c.tuple.Dst, humanize.IBytes(uint64(c.size))),
				Planned: true,
			}
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pairBatchParallelism)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			results[i] = o.pairOne(gctx, c.tuple, c.size)
			// Tuple errors live in the result slice, never in the
			// group: a failed tuple must not cancel its siblings.
			return nil
		})
	}
	_ = g.Wait()

	return results, batchOutcome(string(ActionPairVolumes), results)
}

func (o *Orchestrator) pairOne(ctx context.Context, t Tuple, size int64) TupleResult {
	key, err := o.Src.StartVolumePairing(ctx, t.Src)
	if err != nil {
		return TupleResult{Tuple: t, Err: remoteErr("SRC", fmt.Sprintf("StartVolumePairing(%d)", t.Src), err)}
	}
	if err := o.Dst.CompleteVolumePairing(ctx, t.Dst, key); err != nil {
		return TupleResult{Tuple: t, Err: remoteErr("DST", fmt.Sprintf("CompleteVolumePairing(%d)", t.Dst), err)}
	}
	slog.Info("Volume pair established.", "src", t.Src, "dst", t.Dst)
	return TupleResult{Tuple: t, Detail: fmt.Sprintf("paired SRC volume %d with DST volume %d (%s)",
		t.Src, t.Dst, humanize.IBytes(uint64(size)))}
}

// UnpairVolume removes exactly one volume pairing. Batches larger than
// one tuple are rejected as a safety limit; the tuple must be part of the
// currently validated mutual pair set. Dry-run aware.
func (o *Orchestrator) UnpairVolume(ctx context.Context, req UnpairRequest) (TupleResult, error) {
	if _, err := o.Reader().RequirePaired(ctx); err != nil {
		return TupleResult{}, err
	}
	cross, err := o.Reader().MutualVolumePairs(ctx)
	if err != nil {
		return TupleResult{}, err
	}
	if verr := ValidateUnpairSingleton(req.Tuples, cross.Tuples()); verr != nil {
		return TupleResult{}, verr
	}
	t := req.Tuples[0]

	if o.suppressed(ActionUnpairVolume) {
		return TupleResult{
			Tuple:   t,
			Detail:  fmt.Sprintf("would remove the pair records of SRC volume %d and DST volume %d", t.Src, t.Dst),
			Planned: true,
		}, nil
	}

	if err := o.Src.DeleteVolumePair(ctx, t.Src); err != nil {
		return TupleResult{}, remoteErr("SRC", fmt.Sprintf("DeleteVolumePair(%d)", t.Src), err)
	}
	if err := o.Dst.DeleteVolumePair(ctx, t.Dst); err != nil {
		// SRC already removed its side; the relationship is now
		// one-sided and will show up as a DST finding.
		return TupleResult{}, fmt.Errorf("SRC side unpaired but DST removal failed, pair %s is now one-sided at DST: %w",
			t, remoteErr("DST", fmt.Sprintf("DeleteVolumePair(%d)", t.Dst), err))
	}
	slog.Info("Volume pair removed.", "src", t.Src, "dst", t.Dst)
	return TupleResult{Tuple: t, Detail: fmt.Sprintf("unpaired SRC volume %d and DST volume %d", t.Src, t.Dst)}, nil
}
