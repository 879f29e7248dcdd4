package pairing

import (
	"context"
	"fmt"
	"log/slog"
)

// SetReplicationMode applies a replication mode to paired SRC volumes.
// With an empty scope every mutually paired volume is updated; a scope
// must be a subset of the paired set. The mode is a SRC-side property, so
// only SRC receives RPCs.
func (o *Orchestrator) SetReplicationMode(ctx context.Context, req SetModeRequest) ([]TupleResult, error) {
	if !req.Mode.IsValid() {
		return nil, validationf("set-mode.mode", "unknown replication mode %q", req.Mode)
	}
	if _, err := o.Reader().RequirePaired(ctx); err != nil {
		return nil, err
	}
	cross, err := o.Reader().MutualVolumePairs(ctx)
	if err != nil {
		return nil, err
	}
	if verr := ValidateNonEmptySet(string(ActionSetMode), cross.Valid); verr != nil {
		return nil, verr
	}

	targets := cross.Tuples()
	if len(req.Scope) > 0 {
		bySrcID := make(map[int]Tuple, len(targets))
		paired := make(map[int]bool, len(targets))
		for _, t := range targets {
			bySrcID[t.Src] = t
			paired[t.Src] = true
		}
		if verr := ValidateModeScope(req.Scope, paired); verr != nil {
			return nil, verr
		}
		targets = targets[:0]
		for _, id := range req.Scope {
			targets = append(targets, bySrcID[id])
		}
	}

	results := make([]TupleResult, 0, len(targets))
	for _, t := range targets {
		res := TupleResult{
			Tuple:  t,
			Detail: fmt.Sprintf("SRC volume %d replication mode set to %s", t.Src, req.Mode),
		}
		if err := o.Src.SetVolumeReplicationMode(ctx, t.Src, req.Mode); err != nil {
			res.Err = remoteErr("SRC", fmt.Sprintf("SetVolumeReplicationMode(%d, %s)", t.Src, req.Mode), err)
			res.Detail = ""
		}
		results = append(results, res)
	}
	slog.Info("Replication mode updated.", "mode", req.Mode, "volumes", len(targets))
	return results, batchOutcome(string(ActionSetMode), results)
}

// SetReplicationStatus pauses or resumes replication on every mutually
// paired SRC volume. No subset selection; partial pausing leaves the site
// in a state the rest of the tool cannot reason about.
func (o *Orchestrator) SetReplicationStatus(ctx context.Context, req SetStatusRequest) ([]TupleResult, error) {
	if _, err := o.Reader().RequirePaired(ctx); err != nil {
		return nil, err
	}
	cross, err := o.Reader().MutualVolumePairs(ctx)
	if err != nil {
		return nil, err
	}
	if verr := ValidateNonEmptySet(string(ActionSetStatus), cross.Valid); verr != nil {
		return nil, verr
	}

	verb := "resumed"
	if req.Pause {
		verb = "paused"
	}
	results := make([]TupleResult, 0, len(cross.Valid))
	for _, m := range cross.Valid {
		t := m.Tuple()
		res := TupleResult{
			Tuple:  t,
			Detail: fmt.Sprintf("replication %s on SRC volume %d", verb, t.Src),
		}
		if err := o.Src.SetVolumePairedStatus(ctx, t.Src, req.Pause); err != nil {
			res.Err = remoteErr("SRC", fmt.Sprintf("SetVolumePairedStatus(%d, pause=%t)", t.Src, req.Pause), err)
			res.Detail = ""
		}
		results = append(results, res)
	}
	slog.Info("Replication status updated.", "state", verb, "volumes", len(cross.Valid))
	return results, batchOutcome(string(ActionSetStatus), results)
}

// SetSiteAccess forces the access mode of every paired SRC volume. It is
// a one-sided repair and takeover tool: it touches SRC only, skips no
// validation of the peer, and accepts any valid access mode including
// readWrite on a current replication target. It still refuses to run when
// the SRC pair records themselves cannot be listed.
func (o *Orchestrator) SetSiteAccess(ctx context.Context, req SetSiteAccessRequest) ([]TupleResult, error) {
	if !req.Mode.IsValid() {
		return nil, validationf("set-access.mode", "unknown access mode %q", req.Mode)
	}
	srcPairs, err := o.Reader().PairedVolumes(ctx, o.Src, "SRC")
	if err != nil {
		return nil, err
	}
	if len(srcPairs) == 0 {
		return nil, validationf("set-access.volumes", "SRC has no volume pair records to act on")
	}

	results := make([]TupleResult, 0, len(srcPairs))
	for _, p := range srcPairs {
		t := Tuple{Src: p.LocalVolumeID, Dst: p.RemoteVolumeID}
		res := TupleResult{
			Tuple:  t,
			Detail: fmt.Sprintf("SRC volume %d access set to %s", p.LocalVolumeID, req.Mode),
		}
		if err := o.Src.SetVolumeAccess(ctx, p.LocalVolumeID, req.Mode); err != nil {
			res.Err = remoteErr("SRC", fmt.Sprintf("SetVolumeAccess(%d, %s)", p.LocalVolumeID, req.Mode), err)
			res.Detail = ""
		}
		results = append(results, res)
	}
	slog.Warn("Forced access mode on SRC volumes.", "mode", req.Mode, "volumes", len(srcPairs))
	return results, batchOutcome(string(ActionSetSiteAccess), results)
}
