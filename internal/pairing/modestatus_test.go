package pairing_test

import (
	"context"
	"errors"
	"testing"

	"mirrorctl/internal/pairing"
)

func TestSetReplicationMode(t *testing.T) {
	t.Run("applies the mode to every paired SRC volume", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		pairedVolumes(src, dst, 101, 501, 1<<30)
		pairedVolumes(src, dst, 102, 502, 1<<30)

		results, err := o.SetReplicationMode(context.Background(), pairing.SetModeRequest{Mode: pairing.ModeSnapshotsOnly})
		if err != nil {
			t.Fatalf("SetReplicationMode: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		pairs, _ := src.ListVolumePairs(context.Background())
		for _, p := range pairs {
			if p.Mode != pairing.ModeSnapshotsOnly {
				t.Fatalf("volume %d mode = %s, want SnapshotsOnly", p.LocalVolumeID, p.Mode)
			}
		}
		mustCalls(t, dst, "SetVolumeReplicationMode", 0)
	})

	t.Run("scope limits the update to named volumes", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		pairedVolumes(src, dst, 101, 501, 1<<30)
		pairedVolumes(src, dst, 102, 502, 1<<30)

		results, err := o.SetReplicationMode(context.Background(), pairing.SetModeRequest{
			Mode:  pairing.ModeSync,
			Scope: []int{101},
		})
		if err != nil {
			t.Fatalf("SetReplicationMode: %v", err)
		}
		if len(results) != 1 || results[0].Tuple.Src != 101 {
			t.Fatalf("expected one result for volume 101, got %+v", results)
		}
		pairs, _ := src.ListVolumePairs(context.Background(), 102)
		if pairs[0].Mode != pairing.ModeAsync {
			t.Fatalf("out-of-scope volume was modified: %s", pairs[0].Mode)
		}
	})

	t.Run("scope outside the paired set is rejected", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		pairedVolumes(src, dst, 101, 501, 1<<30)

		_, err := o.SetReplicationMode(context.Background(), pairing.SetModeRequest{
			Mode:  pairing.ModeSync,
			Scope: []int{999},
		})
		var verr *pairing.ValidationError
		if !errors.As(err, &verr) || verr.Invariant != "set-mode.scope" {
			t.Fatalf("expected set-mode.scope, got %v", err)
		}
		mustCalls(t, src, "SetVolumeReplicationMode", 0)
	})

	t.Run("empty paired set is rejected", func(t *testing.T) {
		_, _, o := newPairedHarness(t)
		_, err := o.SetReplicationMode(context.Background(), pairing.SetModeRequest{Mode: pairing.ModeAsync})
		var verr *pairing.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected a validation error, got %v", err)
		}
	})
}

func TestSetReplicationStatus(t *testing.T) {
	t.Run("pauses and resumes the whole set", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		pairedVolumes(src, dst, 101, 501, 1<<30)
		pairedVolumes(src, dst, 102, 502, 1<<30)

		if _, err := o.SetReplicationStatus(context.Background(), pairing.SetStatusRequest{Pause: true}); err != nil {
			t.Fatalf("pause: %v", err)
		}
		pairs, _ := src.ListVolumePairs(context.Background())
		for _, p := range pairs {
			if p.State != "PausedManual" {
				t.Fatalf("volume %d state = %s, want PausedManual", p.LocalVolumeID, p.State)
			}
		}

		if _, err := o.SetReplicationStatus(context.Background(), pairing.SetStatusRequest{Pause: false}); err != nil {
			t.Fatalf("resume: %v", err)
		}
		pairs, _ = src.ListVolumePairs(context.Background())
		for _, p := range pairs {
			if p.State != "Active" {
				t.Fatalf("volume %d state = %s, want Active", p.LocalVolumeID, p.State)
			}
		}
		mustCalls(t, dst, "SetVolumePairedStatus", 0)
	})

	t.Run("per-volume failures are aggregated", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		pairedVolumes(src, dst, 101, 501, 1<<30)
		pairedVolumes(src, dst, 102, 502, 1<<30)
		src.SetVolumePairedStatusErr = func(ctx context.Context, id int, paused bool) error {
			if id == 101 {
				return errors.New("boom")
			}
			return nil
		}

		results, err := o.SetReplicationStatus(context.Background(), pairing.SetStatusRequest{Pause: true})
		var perr *pairing.PartialBatchError
		if !errors.As(err, &perr) {
			t.Fatalf("expected a partial batch error, got %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		pairs, _ := src.ListVolumePairs(context.Background(), 102)
		if pairs[0].State != "PausedManual" {
			t.Fatalf("unaffected volume should still be paused, got %s", pairs[0].State)
		}
	})
}

func TestSetSiteAccess(t *testing.T) {
	t.Run("forces the mode on every SRC volume with a pair record", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		pairedVolumes(src, dst, 101, 501, 1<<30)
		pairedVolumes(src, dst, 102, 502, 1<<30)

		results, err := o.SetSiteAccess(context.Background(), pairing.SetSiteAccessRequest{Mode: pairing.AccessReplicationTarget})
		if err != nil {
			t.Fatalf("SetSiteAccess: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		for _, id := range []int{101, 102} {
			v, _ := src.GetVolume(context.Background(), id)
			if v.Access != pairing.AccessReplicationTarget {
				t.Fatalf("volume %d access = %s, want replicationTarget", id, v.Access)
			}
		}
		mustCalls(t, dst, "SetVolumeAccess", 0)
	})

	t.Run("works on a one-sided site", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		pairedVolumes(src, dst, 101, 501, 1<<30)
		dst.BreakVolumePair(501)

		results, err := o.SetSiteAccess(context.Background(), pairing.SetSiteAccessRequest{Mode: pairing.AccessReadWrite})
		if err != nil {
			t.Fatalf("SetSiteAccess: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(results))
		}
	})

	t.Run("no pair records is rejected", func(t *testing.T) {
		_, _, o := newPairedHarness(t)
		_, err := o.SetSiteAccess(context.Background(), pairing.SetSiteAccessRequest{Mode: pairing.AccessReadWrite})
		var verr *pairing.ValidationError
		if !errors.As(err, &verr) || verr.Invariant != "set-access.volumes" {
			t.Fatalf("expected set-access.volumes, got %v", err)
		}
	})
}
