package pairing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
)

// ResizeVolumes grows both members of each tuple by the same delta.
// Every tuple is validated before the first mutation; past that, tuples
// proceed independently. Per tuple the order is pause, grow DST, grow
// SRC, resume: the replication target is always at least as large as its
// source, so a mid-sequence failure leaves a state that upsize-remote or
// a retry can finish. Dry-run aware.
func (o *Orchestrator) ResizeVolumes(ctx context.Context, req ResizeRequest) ([]TupleResult, error) {
	if len(req.Tuples) == 0 {
		return nil, validationf("resize.tuples", "no volume pairs supplied")
	}
	if _, err := o.Reader().RequirePaired(ctx); err != nil {
		return nil, err
	}
	cross, err := o.Reader().MutualVolumePairs(ctx)
	if err != nil {
		return nil, err
	}
	valid := make(map[Tuple]bool, len(cross.Valid))
	for _, t := range cross.Tuples() {
		valid[t] = true
	}

	type candidate struct {
		tuple   Tuple
		newSize int64
	}
	candidates := make([]candidate, 0, len(req.Tuples))
	for _, t := range req.Tuples {
		if !valid[t] {
			return nil, validationf("resize.known-pair",
				"tuple %s is not in the validated pair set; run volume mismatched to inspect", t)
		}
		srcVol, err := o.Src.GetVolume(ctx, t.Src)
		if err != nil {
			return nil, remoteErr("SRC", fmt.Sprintf("GetVolume(%d)", t.Src), err)
		}
		dstVol, err := o.Dst.GetVolume(ctx, t.Dst)
		if err != nil {
			return nil, remoteErr("DST", fmt.Sprintf("GetVolume(%d)", t.Dst), err)
		}
		if verr := ValidateResize(req.DeltaBytes, srcVol, dstVol); verr != nil {
			return nil, verr
		}
		candidates = append(candidates, candidate{tuple: t, newSize: srcVol.TotalSize + req.DeltaBytes})
	}

	results := make([]TupleResult, 0, len(candidates))
	if o.suppressed(ActionResize) {
		for _, c := range candidates {
			results = append(results, TupleResult{
				Tuple: c.tuple,
				Detail: fmt.Sprintf("would grow volumes %s by %s to %s",
					c.tuple, humanize.IBytes(uint64(req.DeltaBytes)), humanize.IBytes(uint64(c.newSize))),
				Planned: true,
			})
		}
		return results, nil
	}

	for _, c := range candidates {
		results = append(results, o.resizeOne(ctx, c.tuple, c.newSize))
	}
	return results, batchOutcome(string(ActionResize), results)
}

func (o *Orchestrator) resizeOne(ctx context.Context, t Tuple, newSize int64) TupleResult {
	if err := o.Src.SetVolumePairedStatus(ctx, t.Src, true); err != nil {
		return TupleResult{Tuple: t, Err: remoteErr("SRC", fmt.Sprintf("SetVolumePairedStatus(%d, pause)", t.Src), err)}
	}
	if err := o.Dst.ResizeVolume(ctx, t.Dst, newSize); err != nil {
		return TupleResult{Tuple: t, Err: fmt.Errorf("pair %s left paused with DST not grown: %w",
			t, remoteErr("DST", fmt.Sprintf("ResizeVolume(%d)", t.Dst), err))}
	}
	if err := o.Src.ResizeVolume(ctx, t.Src, newSize); err != nil {
		return TupleResult{Tuple: t, Err: fmt.Errorf("pair %s left paused with only DST grown: %w",
			t, remoteErr("SRC", fmt.Sprintf("ResizeVolume(%d)", t.Src), err))}
	}
	if err := o.Src.SetVolumePairedStatus(ctx, t.Src, false); err != nil {
		return TupleResult{Tuple: t, Err: fmt.Errorf("pair %s grown but still paused: %w",
			t, remoteErr("SRC", fmt.Sprintf("SetVolumePairedStatus(%d, resume)", t.Src), err))}
	}
	slog.Info("Volume pair resized.", "src", t.Src, "dst", t.Dst, "newSize", newSize)
	return TupleResult{Tuple: t, Detail: fmt.Sprintf("grew volumes %s to %s", t, humanize.IBytes(uint64(newSize)))}
}

// UpsizeRemote grows one lagging DST volume to its SRC peer's exact size,
// repairing the equal-size precondition the other actions rely on.
// Replication is paused during the grow and resumed only when the pair is
// in the normal readWrite to replicationTarget direction afterwards; an
// abnormal direction leaves it paused for the operator.
func (o *Orchestrator) UpsizeRemote(ctx context.Context, req UpsizeRemoteRequest) (TupleResult, error) {
	if _, err := o.Reader().RequirePaired(ctx); err != nil {
		return TupleResult{}, err
	}
	cross, err := o.Reader().MutualVolumePairs(ctx)
	if err != nil {
		return TupleResult{}, err
	}
	t := req.Tuple
	found := false
	for _, v := range cross.Tuples() {
		if v == t {
			found = true
			break
		}
	}
	if !found {
		return TupleResult{}, validationf("upsize.known-pair",
			"tuple %s is not in the validated pair set; run volume mismatched to inspect", t)
	}

	srcVol, err := o.Src.GetVolume(ctx, t.Src)
	if err != nil {
		return TupleResult{}, remoteErr("SRC", fmt.Sprintf("GetVolume(%d)", t.Src), err)
	}
	dstVol, err := o.Dst.GetVolume(ctx, t.Dst)
	if err != nil {
		return TupleResult{}, remoteErr("DST", fmt.Sprintf("GetVolume(%d)", t.Dst), err)
	}
	if verr := ValidateUpsizeRemote(srcVol, dstVol); verr != nil {
		return TupleResult{}, verr
	}

	if err := o.Src.SetVolumePairedStatus(ctx, t.Src, true); err != nil {
		return TupleResult{}, remoteErr("SRC", fmt.Sprintf("SetVolumePairedStatus(%d, pause)", t.Src), err)
	}
	if err := o.Dst.ResizeVolume(ctx, t.Dst, srcVol.TotalSize); err != nil {
		return TupleResult{}, fmt.Errorf("pair %s left paused with DST not grown: %w",
			t, remoteErr("DST", fmt.Sprintf("ResizeVolume(%d)", t.Dst), err))
	}

	// Re-read both sides and resume only from a verified normal state.
	srcVol, err = o.Src.GetVolume(ctx, t.Src)
	if err != nil {
		return TupleResult{}, fmt.Errorf("pair %s grown but still paused: %w",
			t, remoteErr("SRC", fmt.Sprintf("GetVolume(%d)", t.Src), err))
	}
	dstVol, err = o.Dst.GetVolume(ctx, t.Dst)
	if err != nil {
		return TupleResult{}, fmt.Errorf("pair %s grown but still paused: %w",
			t, remoteErr("DST", fmt.Sprintf("GetVolume(%d)", t.Dst), err))
	}
	if srcVol.TotalSize != dstVol.TotalSize {
		return TupleResult{}, fmt.Errorf("pair %s did not converge after the grow (SRC %s, DST %s); replication left paused",
			t, humanize.IBytes(uint64(srcVol.TotalSize)), humanize.IBytes(uint64(dstVol.TotalSize)))
	}
	if srcVol.Access != AccessReadWrite || dstVol.Access != AccessReplicationTarget {
		slog.Warn("Pair grown but direction is abnormal; leaving replication paused.",
			"src", t.Src, "dst", t.Dst, "srcAccess", srcVol.Access, "dstAccess", dstVol.Access)
		return TupleResult{
			Tuple: t,
			Detail: fmt.Sprintf("DST volume %d grown to %s; replication left paused because direction is SRC=%s DST=%s",
				t.Dst, humanize.IBytes(uint64(dstVol.TotalSize)), srcVol.Access, dstVol.Access),
		}, nil
	}
	if err := o.Src.SetVolumePairedStatus(ctx, t.Src, false); err != nil {
		return TupleResult{}, fmt.Errorf("pair %s grown but still paused: %w",
			t, remoteErr("SRC", fmt.Sprintf("SetVolumePairedStatus(%d, resume)", t.Src), err))
	}
	slog.Info("Remote volume caught up.", "src", t.Src, "dst", t.Dst, "size", srcVol.TotalSize)
	return TupleResult{
		Tuple:  t,
		Detail: fmt.Sprintf("grew DST volume %d to %s and resumed replication", t.Dst, humanize.IBytes(uint64(srcVol.TotalSize))),
	}, nil
}
