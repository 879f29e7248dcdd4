package pairing

import (
	"context"
	"fmt"
	"log/slog"
)

// ReverseReplication flips the replication direction of every validated
// volume pair: the current readWrite side becomes replicationTarget and
// vice versa. There is no subset selection; the flip is site-wide.
//
// A mandatory countdown precedes the first mutation; canceling the
// context during it aborts with no changes made. Past the countdown the
// batch has no cross-volume
// atomicity: each pair is paused, flipped and resumed on its own, and a
// failed pair never undoes a completed one.
func (o *Orchestrator) ReverseReplication(ctx context.Context, req ReverseRequest) ([]TupleResult, error) {
	if _, err := o.Reader().RequirePaired(ctx); err != nil {
		return nil, err
	}
	cross, err := o.Reader().MutualVolumePairs(ctx)
	if err != nil {
		return nil, err
	}
	if verr := ValidateNonEmptySet(string(ActionReverse), cross.Valid); verr != nil {
		return nil, verr
	}

	srcIDs := make([]int, 0, len(cross.Valid))
	dstIDs := make([]int, 0, len(cross.Valid))
	for _, m := range cross.Valid {
		srcIDs = append(srcIDs, m.Src.LocalVolumeID)
		dstIDs = append(dstIDs, m.Dst.LocalVolumeID)
	}
	srcVols, err := o.Src.ListVolumes(ctx, ListVolumesFilter{IDs: srcIDs, PairedOnly: true})
	if err != nil {
		return nil, remoteErr("SRC", "ListVolumes", err)
	}
	dstVols, err := o.Dst.ListVolumes(ctx, ListVolumesFilter{IDs: dstIDs, PairedOnly: true})
	if err != nil {
		return nil, remoteErr("DST", "ListVolumes", err)
	}
	if verr := ValidateReverseSet(srcVols, dstVols); verr != nil {
		return nil, verr
	}

	newSrcMode := srcVols[0].Access.Opposite()
	newDstMode := dstVols[0].Access.Opposite()

	delay := req.Delay
	if delay <= 0 {
		delay = o.ReverseDelay
	}
	slog.Warn("Reversing replication direction for all paired volumes. Cancel now to abort.",
		"pairs", len(cross.Valid),
		"srcBecomes", newSrcMode,
		"dstBecomes", newDstMode,
		"delay", delay)
	if err := o.Sleep.Sleep(ctx, delay); err != nil {
		return nil, fmt.Errorf("reversal aborted during countdown: %w", err)
	}

	results := make([]TupleResult, 0, len(cross.Valid))
	for _, m := range cross.Valid {
		results = append(results, o.reverseOne(ctx, m.Tuple(), newSrcMode, newDstMode))
	}
	return results, batchOutcome(string(ActionReverse), results)
}

// reverseOne pauses both sides, flips both access modes, then resumes.
// The side gaining readWrite is flipped last so no window exists with two
// writable members.
func (o *Orchestrator) reverseOne(ctx context.Context, t Tuple, newSrcMode, newDstMode AccessMode) TupleResult {
	if err := o.Dst.SetVolumePairedStatus(ctx, t.Dst, true); err != nil {
		return TupleResult{Tuple: t, Err: remoteErr("DST", fmt.Sprintf("SetVolumePairedStatus(%d, pause)", t.Dst), err)}
	}
	if err := o.Src.SetVolumePairedStatus(ctx, t.Src, true); err != nil {
		return TupleResult{Tuple: t, Err: remoteErr("SRC", fmt.Sprintf("SetVolumePairedStatus(%d, pause)", t.Src), err)}
	}

	flips := []struct {
		side string
		site SiteClient
		id   int
		mode AccessMode
	}{
		{"SRC", o.Src, t.Src, newSrcMode},
		{"DST", o.Dst, t.Dst, newDstMode},
	}
	if newSrcMode == AccessReadWrite {
		flips[0], flips[1] = flips[1], flips[0]
	}
	for _, f := range flips {
		if err := f.site.SetVolumeAccess(ctx, f.id, f.mode); err != nil {
			return TupleResult{Tuple: t, Err: remoteErr(f.side, fmt.Sprintf("SetVolumeAccess(%d, %s)", f.id, f.mode), err)}
		}
	}

	if err := o.Dst.SetVolumePairedStatus(ctx, t.Dst, false); err != nil {
		return TupleResult{Tuple: t, Err: remoteErr("DST", fmt.Sprintf("SetVolumePairedStatus(%d, resume)", t.Dst), err)}
	}
	if err := o.Src.SetVolumePairedStatus(ctx, t.Src, false); err != nil {
		return TupleResult{Tuple: t, Err: remoteErr("SRC", fmt.Sprintf("SetVolumePairedStatus(%d, resume)", t.Src), err)}
	}

	slog.Info("Reversed replication direction.", "src", t.Src, "dst", t.Dst, "srcMode", newSrcMode)
	return TupleResult{
		Tuple:  t,
		Detail: fmt.Sprintf("SRC volume %d is now %s, DST volume %d is now %s", t.Src, newSrcMode, t.Dst, newDstMode),
	}
}
