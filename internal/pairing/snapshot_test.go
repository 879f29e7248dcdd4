package pairing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mirrorctl/internal/pairing"
)

func TestSnapshotPairedVolumes(t *testing.T) {
	t.Run("snapshots every paired SRC volume", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		pairedVolumes(src, dst, 101, 501, 1<<30)
		pairedVolumes(src, dst, 102, 502, 1<<30)

		results, err := o.SnapshotPairedVolumes(context.Background(), pairing.SnapshotRequest{
			Retention: 24 * time.Hour,
			Name:      "nightly",
		})
		if err != nil {
			t.Fatalf("SnapshotPairedVolumes: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		mustCalls(t, src, "CreateSnapshot", 2)
		mustCalls(t, dst, "CreateSnapshot", 0)
	})

	t.Run("retention outside the window is rejected without RPCs", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		pairedVolumes(src, dst, 101, 501, 1<<30)

		_, err := o.SnapshotPairedVolumes(context.Background(), pairing.SnapshotRequest{
			Retention: 10 * time.Minute,
			Name:      "nightly",
		})
		var verr *pairing.ValidationError
		if !errors.As(err, &verr) || verr.Invariant != "snapshot.retention" {
			t.Fatalf("expected snapshot.retention, got %v", err)
		}
		mustCalls(t, src, "CreateSnapshot", 0)
	})

	t.Run("a failed volume does not stop the sweep", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		pairedVolumes(src, dst, 101, 501, 1<<30)
		pairedVolumes(src, dst, 102, 502, 1<<30)
		src.CreateSnapshotErr = func(ctx context.Context, id int) error {
			if id == 101 {
				return errors.New("boom")
			}
			return nil
		}

		results, err := o.SnapshotPairedVolumes(context.Background(), pairing.SnapshotRequest{
			Retention: 24 * time.Hour,
			Name:      "nightly",
		})
		var perr *pairing.PartialBatchError
		if !errors.As(err, &perr) {
			t.Fatalf("expected a partial batch error, got %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		mustCalls(t, src, "CreateSnapshot", 2)
	})
}
