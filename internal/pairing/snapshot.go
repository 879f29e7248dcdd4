package pairing

import (
	"context"
	"fmt"
	"log/slog"
)

// SnapshotPairedVolumes takes one snapshot per mutually paired SRC volume.
// Snapshots of replicating volumes transfer to the peer, so DST receives
// no RPCs. Per-volume failures are reported, never rolled back.
func (o *Orchestrator) SnapshotPairedVolumes(ctx context.Context, req SnapshotRequest) ([]TupleResult, error) {
	if verr := ValidateSnapshot(req.Retention, req.Name); verr != nil {
		return nil, verr
	}
	if _, err := o.Reader().RequirePaired(ctx); err != nil {
		return nil, err
	}
	cross, err := o.Reader().MutualVolumePairs(ctx)
	if err != nil {
		return nil, err
	}
	if verr := ValidateNonEmptySet(string(ActionSnapshot), cross.Valid); verr != nil {
		return nil, verr
	}

	results := make([]TupleResult, 0, len(cross.Valid))
	for _, m := range cross.Valid {
		t := m.Tuple()
		snap, err := o.Src.CreateSnapshot(ctx, t.Src, req.Retention, req.Name)
		if err != nil {
			results = append(results, TupleResult{
				Tuple: t,
				Err:   remoteErr("SRC", fmt.Sprintf("CreateSnapshot(%d)", t.Src), err),
			})
			continue
		}
		results = append(results, TupleResult{
			Tuple:  t,
			Detail: fmt.Sprintf("snapshot %d (%q) of SRC volume %d expires %s", snap.ID, snap.Name, t.Src, snap.ExpiryTime),
		})
	}
	slog.Info("Snapshot sweep finished.", "name", req.Name, "retention", req.Retention, "volumes", len(cross.Valid))
	return results, batchOutcome(string(ActionSnapshot), results)
}
