package pairing

import (
	"fmt"
	"sort"
)

// FindingKind classifies one detected asymmetry between the two sites'
// volume-pair views.
type FindingKind uint8

const (
	// FindingOneSided: the named site holds a pair record with no
	// reciprocal record on the other site.
	FindingOneSided FindingKind = iota + 1
	// FindingUUIDConflict: both sites hold reciprocal records but
	// disagree on the pair UUID. Neither side's view is trusted.
	FindingUUIDConflict
	// FindingSizeDrift: a reciprocal pair whose member volumes report
	// different sizes, usually after a unilateral resize.
	FindingSizeDrift
	// FindingMixedAccounts: one site's paired volumes span multiple
	// tenant accounts. Advisory only.
	FindingMixedAccounts
)

func (k FindingKind) String() string {
	switch k {
	case FindingOneSided:
		return "one_sided"
	case FindingUUIDConflict:
		return "uuid_conflict"
	case FindingSizeDrift:
		return "size_drift"
	case FindingMixedAccounts:
		return "mixed_accounts"
	default:
		return "unknown"
	}
}

// Finding names one mismatched relationship precisely enough to be used
// as input to a corrective action: the offending site, the local volume
// ID there, the pair UUID it holds, and the remote ID it references.
type Finding struct {
	Kind FindingKind
	// Site is the cluster name of the side holding the offending record.
	Site           string
	LocalVolumeID  int
	UUID           string
	RemoteVolumeID int
	Detail         string
}

// MatchedPair is a structurally reciprocal volume pair: the SRC record and
// DST record reference each other by ID and agree on the pair UUID.
type MatchedPair struct {
	Src VolumePair
	Dst VolumePair
}

// Tuple returns the (SRC, DST) volume ID tuple of a matched pair.
func (m MatchedPair) Tuple() Tuple {
	return Tuple{Src: m.Src.LocalVolumeID, Dst: m.Dst.LocalVolumeID}
}

// CrossResult is the detector's output: the validated pair set plus all
// findings. Identical inputs always produce identical results.
type CrossResult struct {
	Valid    []MatchedPair
	Findings []Finding
}

// Tuples returns the validated set as operator-facing ID tuples.
func (r CrossResult) Tuples() []Tuple {
	out := make([]Tuple, 0, len(r.Valid))
	for _, m := range r.Valid {
		out = append(out, m.Tuple())
	}
	return out
}

// Cross cross-references the two sites' independently obtained volume-pair
// views. Read-only and side-effect free; safe to run against production at
// any time. srcName and dstName default to "SRC" and "DST" in findings
// when the caller has no cluster names (see CrossNamed).
func Cross(srcView, dstView []VolumePair) CrossResult {
	return CrossNamed(srcView, dstView, "SRC", "DST")
}

// CrossNamed is Cross with explicit site names for findings.
func CrossNamed(srcView, dstView []VolumePair, srcName, dstName string) CrossResult {
	// Key each view by local volume ID. Duplicate local IDs collapse to
	// the last record; the storage system does not produce duplicates.
	dstByLocal := make(map[int]VolumePair, len(dstView))
	for _, p := range dstView {
		dstByLocal[p.LocalVolumeID] = p
	}
	srcByLocal := make(map[int]VolumePair, len(srcView))
	for _, p := range srcView {
		srcByLocal[p.LocalVolumeID] = p
	}

	var result CrossResult

	// SRC pass: each SRC record needs a DST record whose local ID is the
	// SRC record's remote ID and whose remote ID points back.
	for _, sp := range sortedByLocalID(srcView) {
		dp, ok := dstByLocal[sp.RemoteVolumeID]
		if !ok || dp.RemoteVolumeID != sp.LocalVolumeID {
			result.Findings = append(result.Findings, Finding{
				Kind:           FindingOneSided,
				Site:           srcName,
				LocalVolumeID:  sp.LocalVolumeID,
				UUID:           sp.UUID,
				RemoteVolumeID: sp.RemoteVolumeID,
				Detail: fmt.Sprintf("volume %d is paired at %s under %s but %s holds no reciprocal record for volume %d",
					sp.LocalVolumeID, srcName, sp.UUID, dstName, sp.RemoteVolumeID),
			})
			continue
		}
		if sp.UUID != dp.UUID {
			// Conflicting UUIDs for what looks like the same pair:
			// conservatively a mismatch, never auto-resolved.
			result.Findings = append(result.Findings, Finding{
				Kind:           FindingUUIDConflict,
				Site:           srcName,
				LocalVolumeID:  sp.LocalVolumeID,
				UUID:           sp.UUID,
				RemoteVolumeID: sp.RemoteVolumeID,
				Detail: fmt.Sprintf("volumes %d/%d reference each other but %s holds UUID %s while %s holds %s",
					sp.LocalVolumeID, dp.LocalVolumeID, srcName, sp.UUID, dstName, dp.UUID),
			})
			continue
		}
		if sp.LocalVolumeSize > 0 && dp.LocalVolumeSize > 0 && sp.LocalVolumeSize != dp.LocalVolumeSize {
			result.Findings = append(result.Findings, Finding{
				Kind:           FindingSizeDrift,
				Site:           srcName,
				LocalVolumeID:  sp.LocalVolumeID,
				UUID:           sp.UUID,
				RemoteVolumeID: sp.RemoteVolumeID,
				Detail: fmt.Sprintf("pair %s: volume %d at %s is %d bytes, volume %d at %s is %d bytes",
					sp.UUID, sp.LocalVolumeID, srcName, sp.LocalVolumeSize, dp.LocalVolumeID, dstName, dp.LocalVolumeSize),
			})
			// Size drift does not invalidate the pairing itself; the
			// pair stays in the valid set so upsize-remote can target it.
		}
		result.Valid = append(result.Valid, MatchedPair{Src: sp, Dst: dp})
	}

	// DST pass: symmetric one-sided check only; reciprocal pairs were
	// already fully compared above.
	for _, dp := range sortedByLocalID(dstView) {
		sp, ok := srcByLocal[dp.RemoteVolumeID]
		if !ok || sp.RemoteVolumeID != dp.LocalVolumeID {
			result.Findings = append(result.Findings, Finding{
				Kind:           FindingOneSided,
				Site:           dstName,
				LocalVolumeID:  dp.LocalVolumeID,
				UUID:           dp.UUID,
				RemoteVolumeID: dp.RemoteVolumeID,
				Detail: fmt.Sprintf("volume %d is paired at %s under %s but %s holds no reciprocal record for volume %d",
					dp.LocalVolumeID, dstName, dp.UUID, srcName, dp.RemoteVolumeID),
			})
		}
	}

	return result
}

// AccountSpread flags a paired volume set spanning more than one account.
// Fed from ListVolumes results, not pair records, because pair records do
// not carry account IDs.
func AccountSpread(siteName string, volumes []Volume) *Finding {
	accounts := map[int]bool{}
	for _, v := range volumes {
		if v.Paired {
			accounts[v.AccountID] = true
		}
	}
	if len(accounts) <= 1 {
		return nil
	}
	return &Finding{
		Kind:   FindingMixedAccounts,
		Site:   siteName,
		Detail: fmt.Sprintf("paired volumes at %s span %d accounts", siteName, len(accounts)),
	}
}

func sortedByLocalID(view []VolumePair) []VolumePair {
	out := append([]VolumePair(nil), view...)
	sort.Slice(out, func(i, j int) bool { return out[i].LocalVolumeID < out[j].LocalVolumeID })
	return out
}
