package pairing

import (
	"context"
	"fmt"
	"log/slog"
)

// StateReader derives pairing state from fresh per-site snapshots. It
// holds no state of its own: every call re-queries both sites, so the
// result is a point-in-time view and nothing more.
type StateReader struct {
	Src SiteClient
	Dst SiteClient
}

// ReadLink fetches both sites' cluster-pair records and derives the link
// status. Paired requires exactly one record per side, each naming the
// other site, with one shared UUID; everything else is Unpaired (both
// empty) or Ambiguous.
func (r *StateReader) ReadLink(ctx context.Context) (LinkState, error) {
	srcPairs, err := r.Src.ListClusterPairs(ctx)
	if err != nil {
		return LinkState{}, remoteErr("SRC", "ListClusterPairs", err)
	}
	dstPairs, err := r.Dst.ListClusterPairs(ctx)
	if err != nil {
		return LinkState{}, remoteErr("DST", "ListClusterPairs", err)
	}

	state := LinkState{SrcPairs: srcPairs, DstPairs: dstPairs}

	switch {
	case len(srcPairs) == 0 && len(dstPairs) == 0:
		state.Status = LinkUnpaired
		state.Reason = "neither cluster has a pairing relationship"
	case len(srcPairs) != 1 || len(dstPairs) != 1:
		state.Status = LinkAmbiguous
		state.InconsistentSite = sideWithCountIssue(len(srcPairs), len(dstPairs))
		state.Reason = fmt.Sprintf("pair record count SRC/DST: %d/%d, need exactly 1/1", len(srcPairs), len(dstPairs))
	default:
		state = deriveMutual(state, srcPairs[0], dstPairs[0], r.Src.ClusterName(), r.Dst.ClusterName())
	}

	slog.Debug("Derived cluster link state.",
		"status", state.Status,
		"srcPairs", len(srcPairs),
		"dstPairs", len(dstPairs),
		"reason", state.Reason)
	return state, nil
}

func deriveMutual(state LinkState, sp, dp ClusterPair, srcName, dstName string) LinkState {
	switch {
	case sp.UUID != dp.UUID:
		state.Status = LinkAmbiguous
		state.InconsistentSite = "SRC/DST"
		state.Reason = fmt.Sprintf("pair UUIDs disagree: SRC holds %s, DST holds %s", sp.UUID, dp.UUID)
	case sp.PeerName != dstName:
		state.Status = LinkAmbiguous
		state.InconsistentSite = "SRC"
		state.Reason = fmt.Sprintf("SRC is paired with %q, not with DST cluster %q", sp.PeerName, dstName)
	case dp.PeerName != srcName:
		state.Status = LinkAmbiguous
		state.InconsistentSite = "DST"
		state.Reason = fmt.Sprintf("DST is paired with %q, not with SRC cluster %q", dp.PeerName, srcName)
	case sp.Status != ClusterPairConnected || dp.Status != ClusterPairConnected:
		state.Status = LinkAmbiguous
		state.InconsistentSite = sideWithStatusIssue(sp.Status, dp.Status)
		state.Reason = fmt.Sprintf("pair status SRC/DST: %s/%s, need Connected/Connected", sp.Status, dp.Status)
	default:
		state.Status = LinkPaired
		state.PairUUID = sp.UUID
	}
	return state
}

func sideWithCountIssue(src, dst int) string {
	switch {
	case src != 1 && dst != 1:
		return "SRC/DST"
	case src != 1:
		return "SRC"
	default:
		return "DST"
	}
}

func sideWithStatusIssue(src, dst ClusterPairStatus) string {
	switch {
	case src != ClusterPairConnected && dst != ClusterPairConnected:
		return "SRC/DST"
	case src != ClusterPairConnected:
		return "SRC"
	default:
		return "DST"
	}
}

// RequirePaired is the fail-fast gate every mutating action runs first.
// It returns the link state when Paired and a StateInconsistencyError
// naming the offending side otherwise.
func (r *StateReader) RequirePaired(ctx context.Context) (LinkState, error) {
	state, err := r.ReadLink(ctx)
	if err != nil {
		return LinkState{}, err
	}
	if state.Status != LinkPaired {
		return state, &StateInconsistencyError{
			Site:   state.InconsistentSite,
			Status: state.Status,
			Reason: state.Reason,
		}
	}
	return state, nil
}

// PairedVolumes returns the requested site's volume-pair records, filtered
// to the given local volume IDs when any are supplied. A fresh snapshot
// every call; results are never reused across actions.
func (r *StateReader) PairedVolumes(ctx context.Context, site SiteClient, side string, ids ...int) ([]VolumePair, error) {
	pairs, err := site.ListVolumePairs(ctx, ids...)
	if err != nil {
		return nil, remoteErr(side, "ListVolumePairs", err)
	}
	return pairs, nil
}

// AccountFindings checks each site's paired volume set for tenant-account
// spread. Advisory only: a spread never invalidates a pairing, it just
// usually means a volume was paired under the wrong account.
func (r *StateReader) AccountFindings(ctx context.Context) ([]Finding, error) {
	sides := []struct {
		name string
		site SiteClient
	}{
		{"SRC", r.Src},
		{"DST", r.Dst},
	}
	var findings []Finding
	for _, s := range sides {
		vols, err := s.site.ListVolumes(ctx, ListVolumesFilter{PairedOnly: true})
		if err != nil {
			return nil, remoteErr(s.name, "ListVolumes", err)
		}
		if f := AccountSpread(s.name, vols); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings, nil
}

// MutualVolumePairs reads both sides and returns only the structurally
// reciprocal pairs, running the mismatch detector over the two views.
func (r *StateReader) MutualVolumePairs(ctx context.Context) (CrossResult, error) {
	srcView, err := r.PairedVolumes(ctx, r.Src, "SRC")
	if err != nil {
		return CrossResult{}, err
	}
	dstView, err := r.PairedVolumes(ctx, r.Dst, "DST")
	if err != nil {
		return CrossResult{}, err
	}
	return Cross(srcView, dstView), nil
}
