package pairing_test

import (
	"context"
	"errors"
	"testing"

	"mirrorctl/internal/pairing"
)

func TestPrimeDestination(t *testing.T) {
	t.Run("creates replication targets from templates", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		qos := &pairing.QoS{MinIOPS: 50, MaxIOPS: 1000, BurstIOPS: 2000}
		src.AddVolume(pairing.Volume{ID: 101, AccountID: 7, Name: "db-data", TotalSize: 1 << 30, Access: pairing.AccessReadWrite, QoS: qos})
		src.AddVolume(pairing.Volume{ID: 102, AccountID: 7, Name: "db-logs", TotalSize: 2 << 30, Access: pairing.AccessReadWrite})

		results, err := o.PrimeDestination(context.Background(), pairing.PrimeRequest{
			SrcAccountID: 7,
			DstAccountID: 9,
			SrcVolumeIDs: []int{101, 102},
		})
		if err != nil {
			t.Fatalf("PrimeDestination: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		for _, r := range results {
			if r.Err != nil {
				t.Fatalf("template %d failed: %v", r.Tuple.Src, r.Err)
			}
			created, err := dst.GetVolume(context.Background(), r.Tuple.Dst)
			if err != nil {
				t.Fatalf("created volume %d missing: %v", r.Tuple.Dst, err)
			}
			if created.Access != pairing.AccessReplicationTarget {
				t.Fatalf("volume %d access = %s, want replicationTarget", created.ID, created.Access)
			}
			if created.AccountID != 9 {
				t.Fatalf("volume %d account = %d, want 9", created.ID, created.AccountID)
			}
		}
		// Names and sizes are carried over verbatim.
		first, _ := dst.GetVolume(context.Background(), results[0].Tuple.Dst)
		if first.Name != "db-data" || first.TotalSize != 1<<30 {
			t.Fatalf("template properties not carried: %+v", first)
		}
		if first.QoS == nil || first.QoS.MaxIOPS != 1000 {
			t.Fatalf("QoS not carried: %+v", first.QoS)
		}
	})

	t.Run("template owned by another account is rejected", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		src.AddVolume(pairing.Volume{ID: 101, AccountID: 8, Name: "other", TotalSize: 1 << 30})

		_, err := o.PrimeDestination(context.Background(), pairing.PrimeRequest{
			SrcAccountID: 7,
			DstAccountID: 9,
			SrcVolumeIDs: []int{101},
		})
		var verr *pairing.ValidationError
		if !errors.As(err, &verr) || verr.Invariant != "prime.account-owns-volume" {
			t.Fatalf("expected prime.account-owns-volume, got %v", err)
		}
		mustCalls(t, dst, "CreateVolume", 0)
	})

	t.Run("paired template is rejected before anything is created", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		pairedVolumes(src, dst, 101, 501, 1<<30)
		srcVol, _ := src.GetVolume(context.Background(), 101)
		srcVol.AccountID = 7
		src.AddVolume(srcVol)

		_, err := o.PrimeDestination(context.Background(), pairing.PrimeRequest{
			SrcAccountID: 7,
			DstAccountID: 9,
			SrcVolumeIDs: []int{101},
		})
		var verr *pairing.ValidationError
		if !errors.As(err, &verr) || verr.Invariant != "prime.template-unpaired" {
			t.Fatalf("expected prime.template-unpaired, got %v", err)
		}
		mustCalls(t, dst, "CreateVolume", 0)
	})

	t.Run("a failed creation does not stop the rest", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		src.AddVolume(pairing.Volume{ID: 101, AccountID: 7, Name: "a", TotalSize: 1 << 30})
		src.AddVolume(pairing.Volume{ID: 102, AccountID: 7, Name: "b", TotalSize: 1 << 30})
		dst.CreateVolumeErr = func(ctx context.Context, req pairing.CreateVolumeRequest) error {
			if req.Name == "a" {
				return errors.New("boom")
			}
			return nil
		}

		results, err := o.PrimeDestination(context.Background(), pairing.PrimeRequest{
			SrcAccountID: 7,
			DstAccountID: 9,
			SrcVolumeIDs: []int{101, 102},
		})
		var perr *pairing.PartialBatchError
		if !errors.As(err, &perr) {
			t.Fatalf("expected a partial batch error, got %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
	})
}
