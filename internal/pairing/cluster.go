package pairing

import (
	"context"
	"fmt"
	"log/slog"
)

// PairClusters establishes the mutual cluster relationship. Legal only
// when both sides report zero existing relationships; any record on
// either side rejects the action before a single mutating RPC.
func (o *Orchestrator) PairClusters(ctx context.Context) (LinkState, error) {
	state, err := o.Reader().ReadLink(ctx)
	if err != nil {
		return LinkState{}, err
	}
	if verr := ValidateClusterPairAbsent(state); verr != nil {
		return state, verr
	}

	key, err := o.Src.StartClusterPairing(ctx)
	if err != nil {
		return state, remoteErr("SRC", "StartClusterPairing", err)
	}
	pairID, err := o.Dst.CompleteClusterPairing(ctx, key)
	if err != nil {
		return state, remoteErr("DST", "CompleteClusterPairing", err)
	}
	slog.Info("Cluster pairing completed.",
		"src", o.Src.ClusterName(),
		"dst", o.Dst.ClusterName(),
		"dstPairID", pairID)

	// Re-derive rather than trusting the mutation responses.
	return o.Reader().ReadLink(ctx)
}

// UnpairClusters removes the mutual relationship on both sides. Rejected
// while any volume pair record exists anywhere, valid or not.
func (o *Orchestrator) UnpairClusters(ctx context.Context) (LinkState, error) {
	state, err := o.Reader().RequirePaired(ctx)
	if err != nil {
		return state, err
	}

	srcPairs, err := o.Reader().PairedVolumes(ctx, o.Src, "SRC")
	if err != nil {
		return state, err
	}
	dstPairs, err := o.Reader().PairedVolumes(ctx, o.Dst, "DST")
	if err != nil {
		return state, err
	}
	if verr := ValidateClusterUnpair(len(srcPairs), len(dstPairs)); verr != nil {
		return state, verr
	}

	// Each side deletes by its own local pair ID.
	if err := o.Src.DeleteClusterPair(ctx, state.SrcPairs[0].PairID); err != nil {
		return state, remoteErr("SRC", "DeleteClusterPair", err)
	}
	if err := o.Dst.DeleteClusterPair(ctx, state.DstPairs[0].PairID); err != nil {
		return state, fmt.Errorf("SRC side removed but DST removal failed, link is now one-sided: %w",
			remoteErr("DST", "DeleteClusterPair", err))
	}
	slog.Info("Cluster pairing removed.", "uuid", state.PairUUID)

	return o.Reader().ReadLink(ctx)
}

// DetachSite unilaterally tears down replication at SRC for takeover when
// DST is unreachable: every SRC volume pair record is deleted, then the
// SRC cluster pair. DST is left with broken records on purpose; they must
// be cleaned up there before the sites can ever pair again.
func (o *Orchestrator) DetachSite(ctx context.Context) ([]TupleResult, error) {
	srcPairs, err := o.Reader().PairedVolumes(ctx, o.Src, "SRC")
	if err != nil {
		return nil, err
	}

	results := make([]TupleResult, 0, len(srcPairs))
	for _, p := range srcPairs {
		res := TupleResult{
			Tuple:  Tuple{Src: p.LocalVolumeID, Dst: p.RemoteVolumeID},
			Detail: fmt.Sprintf("removed SRC-side pair record %s", p.UUID),
		}
		if err := o.Src.DeleteVolumePair(ctx, p.LocalVolumeID); err != nil {
			res.Err = remoteErr("SRC", "DeleteVolumePair", err)
			res.Detail = ""
		}
		results = append(results, res)
	}
	if err := batchOutcome(string(ActionDetachSite), results); err != nil {
		// Leave the cluster pair in place while volume records remain.
		return results, err
	}

	clusterPairs, err := o.Src.ListClusterPairs(ctx)
	if err != nil {
		return results, remoteErr("SRC", "ListClusterPairs", err)
	}
	for _, cp := range clusterPairs {
		if err := o.Src.DeleteClusterPair(ctx, cp.PairID); err != nil {
			return results, remoteErr("SRC", "DeleteClusterPair", err)
		}
		slog.Warn("Removed SRC cluster pair record unilaterally; DST now holds a broken relationship.",
			"pairID", cp.PairID, "uuid", cp.UUID)
	}
	return results, nil
}
