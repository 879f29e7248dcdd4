package pairing

import (
	"time"

	"github.com/dustin/go-humanize"
)

const (
	gib = int64(1) << 30
	tib = int64(1) << 40

	// maxVolumeSize is the platform ceiling for a single volume.
	maxVolumeSize = 16 * tib

	// Single-call growth window. The lower bound keeps accidental
	// byte-count typos from issuing no-op resizes; the upper input bound
	// exists independently of the 1 TiB / 2x gate below.
	minResizeDelta = 1 * gib
	maxResizeDelta = 100 * gib

	minSnapshotRetention = 1 * time.Hour
	maxSnapshotRetention = 720 * time.Hour
)

// Precondition validators. Pure accept/reject: no validator issues an RPC
// or mutates anything; callers gather the state first.

// ValidatePairTuple checks one (SRC, DST) candidate before pairing.
func ValidatePairTuple(srcVol, dstVol Volume) *ValidationError {
	if srcVol.Paired {
		return validationf("pair.src-unpaired",
			"SRC volume %d already has a replication relationship", srcVol.ID)
	}
	if dstVol.Paired {
		return validationf("pair.dst-unpaired",
			"DST volume %d already has a replication relationship", dstVol.ID)
	}
	if srcVol.Access == dstVol.Access {
		return validationf("pair.opposite-access",
			"volumes %d/%d share access mode %s; exactly one side must be readWrite",
			srcVol.ID, dstVol.ID, srcVol.Access)
	}
	if srcVol.Access != AccessReadWrite || dstVol.Access != AccessReplicationTarget {
		return validationf("pair.direction",
			"replication must run readWrite->replicationTarget, got SRC=%s DST=%s; swap SRC/DST or fix the volume modes",
			srcVol.Access, dstVol.Access)
	}
	if srcVol.TotalSize != dstVol.TotalSize {
		return validationf("pair.equal-size",
			"volume sizes differ: SRC %d is %s, DST %d is %s",
			srcVol.ID, humanize.IBytes(uint64(srcVol.TotalSize)),
			dstVol.ID, humanize.IBytes(uint64(dstVol.TotalSize)))
	}
	if srcVol.BlockSize != dstVol.BlockSize {
		return validationf("pair.equal-block-size",
			"block sizes differ: SRC %d uses %d, DST %d uses %d; one volume must be recreated",
			srcVol.ID, srcVol.BlockSize, dstVol.ID, dstVol.BlockSize)
	}
	return nil
}

// ValidateUnpairSingleton enforces the one-tuple-per-unpair safety limit
// and requires the tuple to be part of the validated mutual pair set.
func ValidateUnpairSingleton(tuples []Tuple, valid []Tuple) *ValidationError {
	if len(tuples) == 0 {
		return validationf("unpair.singleton",
			"no volume pair supplied; unpair removes nothing rather than everything")
	}
	if len(tuples) > 1 {
		return validationf("unpair.singleton",
			"%d pairs supplied; unpair accepts exactly one (SRC,DST) tuple per action as a safety limit", len(tuples))
	}
	for _, v := range valid {
		if v == tuples[0] {
			return nil
		}
	}
	return validationf("unpair.known-pair",
		"tuple %s is not in the validated pair set; run volume mismatched to inspect", tuples[0])
}

// ResizeBound returns the largest growth delta allowed for a volume of
// the given size: min(1 TiB, 2x current size).
func ResizeBound(currentSize int64) int64 {
	bound := 2 * currentSize
	if bound > tib {
		bound = tib
	}
	return bound
}

// ValidateResize checks one resize tuple. Both member volumes must exist,
// be equal-sized, and run in the readWrite->replicationTarget direction;
// the delta must fit the per-call growth bound, the input window, and the
// platform's maximum volume size. The growth bound is checked before the
// input window so an oversized delta is rejected citing the computed
// min(1 TiB, 2x) limit rather than the fixed window.
func ValidateResize(delta int64, srcVol, dstVol Volume) *ValidationError {
	if srcVol.TotalSize != dstVol.TotalSize {
		return validationf("resize.equal-size",
			"volumes %d/%d are not the same size (%s vs %s); fix with upsize-remote first",
			srcVol.ID, dstVol.ID,
			humanize.IBytes(uint64(srcVol.TotalSize)), humanize.IBytes(uint64(dstVol.TotalSize)))
	}
	if bound := ResizeBound(srcVol.TotalSize); delta > bound {
		return validationf("resize.growth-bound",
			"growth of %s on volume %d exceeds the per-call bound of %s (min of 1 TiB and 2x the current %s)",
			humanize.IBytes(uint64(delta)), srcVol.ID,
			humanize.IBytes(uint64(bound)), humanize.IBytes(uint64(srcVol.TotalSize)))
	}
	if delta < minResizeDelta || delta > maxResizeDelta {
		return validationf("resize.delta-window",
			"growth delta %s outside the supported window of %s to %s per call",
			humanize.IBytes(uint64(delta)), humanize.IBytes(uint64(minResizeDelta)), humanize.IBytes(uint64(maxResizeDelta)))
	}
	if newSize := srcVol.TotalSize + delta; newSize > maxVolumeSize {
		return validationf("resize.max-volume-size",
			"growing volumes %d/%d to %s exceeds the platform maximum of %s",
			srcVol.ID, dstVol.ID, humanize.IBytes(uint64(newSize)), humanize.IBytes(uint64(maxVolumeSize)))
	}
	if srcVol.Access != AccessReadWrite || dstVol.Access != AccessReplicationTarget {
		return validationf("resize.direction",
			"resize requires SRC=readWrite and DST=replicationTarget, got SRC=%s DST=%s",
			srcVol.Access, dstVol.Access)
	}
	return nil
}

// ValidateUpsizeRemote checks the catch-up growth of a lagging DST volume.
func ValidateUpsizeRemote(srcVol, dstVol Volume) *ValidationError {
	if dstVol.TotalSize >= srcVol.TotalSize {
		return validationf("upsize.dst-smaller",
			"DST volume %d (%s) is not smaller than SRC volume %d (%s); nothing to catch up",
			dstVol.ID, humanize.IBytes(uint64(dstVol.TotalSize)),
			srcVol.ID, humanize.IBytes(uint64(srcVol.TotalSize)))
	}
	return nil
}

// ValidateClusterPairAbsent gates cluster pairing: creation is legal only
// when both sides report zero existing relationships.
func ValidateClusterPairAbsent(state LinkState) *ValidationError {
	if len(state.SrcPairs) == 0 && len(state.DstPairs) == 0 {
		return nil
	}
	return validationf("cluster-pair.exclusive",
		"existing pair records found (SRC/DST: %d/%d); clusters must have zero relationships before pairing",
		len(state.SrcPairs), len(state.DstPairs))
}

// ValidateClusterUnpair gates cluster unpairing on an empty volume-pair
// set. Any record on either side blocks, valid or not.
func ValidateClusterUnpair(srcPairCount, dstPairCount int) *ValidationError {
	if srcPairCount == 0 && dstPairCount == 0 {
		return nil
	}
	return validationf("cluster-unpair.no-volume-pairs",
		"%d volume pair records remain (SRC: %d, DST: %d); unpair all volumes first",
		srcPairCount+dstPairCount, srcPairCount, dstPairCount)
}

// ValidateNonEmptySet rejects site-wide actions against an empty paired set.
func ValidateNonEmptySet(action string, pairs []MatchedPair) *ValidationError {
	if len(pairs) > 0 {
		return nil
	}
	return validationf(action+".paired-set",
		"no mutually paired volumes found; pair volumes before running %s", action)
}

// ValidateModeScope requires every scoped volume ID to be in the
// currently paired set at SRC.
func ValidateModeScope(scope []int, pairedSrcIDs map[int]bool) *ValidationError {
	for _, id := range scope {
		if !pairedSrcIDs[id] {
			return validationf("set-mode.scope",
				"volume %d is not in the currently paired set at SRC", id)
		}
	}
	return nil
}

// ValidateReverseSet requires uniform access modes per side and opposite
// modes across sides before a site-wide direction flip.
func ValidateReverseSet(srcVols, dstVols []Volume) *ValidationError {
	srcMode, err := uniformAccess("SRC", srcVols)
	if err != nil {
		return err
	}
	dstMode, err := uniformAccess("DST", dstVols)
	if err != nil {
		return err
	}
	if srcMode == dstMode {
		return validationf("reverse.opposite-access",
			"both sides report access mode %s; a healthy pair set has opposite modes", srcMode)
	}
	return nil
}

func uniformAccess(side string, vols []Volume) (AccessMode, *ValidationError) {
	if len(vols) == 0 {
		return "", validationf("reverse.paired-set", "no paired volumes found at %s", side)
	}
	mode := vols[0].Access
	for _, v := range vols[1:] {
		if v.Access != mode {
			return "", validationf("reverse.uniform-access",
				"%s volumes are in mixed access modes (%s and %s); repair before reversing",
				side, mode, v.Access)
		}
	}
	return mode, nil
}

// ValidateSnapshot checks retention bounds and the snapshot name.
func ValidateSnapshot(retention time.Duration, name string) *ValidationError {
	if retention < minSnapshotRetention || retention > maxSnapshotRetention {
		return validationf("snapshot.retention",
			"retention %s outside the supported window of %s to %s", retention, minSnapshotRetention, maxSnapshotRetention)
	}
	if name == "" {
		return validationf("snapshot.name", "snapshot name must not be empty")
	}
	return nil
}
