package pairing_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mirrorctl/internal/adapter/fake"
	"mirrorctl/internal/pairing"
)

func TestPairClusters(t *testing.T) {
	t.Run("pairs two clean clusters", func(t *testing.T) {
		_, _, o := newHarness(t)

		state, err := o.PairClusters(context.Background())
		if err != nil {
			t.Fatalf("PairClusters: %v", err)
		}
		if state.Status != pairing.LinkPaired {
			t.Fatalf("link status = %s, want %s (%s)", state.Status, pairing.LinkPaired, state.Reason)
		}
		if state.PairUUID == "" {
			t.Fatal("paired state carries no pair UUID")
		}
	})

	t.Run("existing record blocks before any mutation", func(t *testing.T) {
		src, _, o := newHarness(t)
		src.AddClusterPair(pairing.ClusterPair{UUID: "stale", PeerName: "elsewhere", Status: pairing.ClusterPairConnected})

		_, err := o.PairClusters(context.Background())
		var verr *pairing.ValidationError
		if !errors.As(err, &verr) || verr.Invariant != "cluster-pair.exclusive" {
			t.Fatalf("expected cluster-pair.exclusive, got %v", err)
		}
		mustCalls(t, src, "StartClusterPairing", 0)
	})

	t.Run("DST completion failure leaves SRC pending", func(t *testing.T) {
		src, dst, o := newHarness(t)
		dst.CompleteClusterPairingErr = func(ctx context.Context, key string) error {
			return errors.New("boom")
		}

		_, err := o.PairClusters(context.Background())
		var rerr *pairing.RemoteCallError
		if !errors.As(err, &rerr) || rerr.Site != "DST" {
			t.Fatalf("expected a DST remote error, got %v", err)
		}
		pairs, _ := src.ListClusterPairs(context.Background())
		if len(pairs) != 1 || pairs[0].Status != pairing.ClusterPairPending {
			t.Fatalf("SRC should hold one pending record, got %+v", pairs)
		}
	})
}

func TestUnpairClusters(t *testing.T) {
	t.Run("removes both sides of a clean pairing", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)

		state, err := o.UnpairClusters(context.Background())
		if err != nil {
			t.Fatalf("UnpairClusters: %v", err)
		}
		if state.Status != pairing.LinkUnpaired {
			t.Fatalf("link status = %s, want %s", state.Status, pairing.LinkUnpaired)
		}
		mustCalls(t, src, "DeleteClusterPair", 1)
		mustCalls(t, dst, "DeleteClusterPair", 1)
	})

	t.Run("remaining volume pairs block unpairing", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		pairedVolumes(src, dst, 101, 501, 1<<30)

		_, err := o.UnpairClusters(context.Background())
		var verr *pairing.ValidationError
		if !errors.As(err, &verr) || verr.Invariant != "cluster-unpair.no-volume-pairs" {
			t.Fatalf("expected cluster-unpair.no-volume-pairs, got %v", err)
		}
		mustCalls(t, src, "DeleteClusterPair", 0)
	})

	t.Run("refuses on an ambiguous link", func(t *testing.T) {
		src, dst, o := newHarness(t)
		fake.LinkClusters(src, dst)
		src.AddClusterPair(pairing.ClusterPair{UUID: "extra", PeerName: "elsewhere", Status: pairing.ClusterPairConnected})

		_, err := o.UnpairClusters(context.Background())
		var serr *pairing.StateInconsistencyError
		if !errors.As(err, &serr) {
			t.Fatalf("expected a state inconsistency, got %v", err)
		}
		if serr.Site != "SRC" {
			t.Fatalf("inconsistent side = %s, want SRC", serr.Site)
		}
	})
}

func TestDetachSite(t *testing.T) {
	t.Run("removes SRC records and leaves DST broken", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		pairedVolumes(src, dst, 101, 501, 1<<30)
		pairedVolumes(src, dst, 102, 502, 1<<30)

		results, err := o.DetachSite(context.Background())
		if err != nil {
			t.Fatalf("DetachSite: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 tuple results, got %d", len(results))
		}
		srcPairs, _ := src.ListVolumePairs(context.Background())
		if len(srcPairs) != 0 {
			t.Fatalf("SRC volume pair records remain: %+v", srcPairs)
		}
		srcClusterPairs, _ := src.ListClusterPairs(context.Background())
		if len(srcClusterPairs) != 0 {
			t.Fatalf("SRC cluster pair records remain: %+v", srcClusterPairs)
		}
		dstPairs, _ := dst.ListVolumePairs(context.Background())
		if len(dstPairs) != 2 {
			t.Fatalf("DST records must be left in place, got %d", len(dstPairs))
		}
		mustCalls(t, dst, "DeleteVolumePair", 0)
		mustCalls(t, dst, "DeleteClusterPair", 0)
	})

	t.Run("keeps the cluster pair while volume deletions fail", func(t *testing.T) {
		src, dst, o := newPairedHarness(t)
		pairedVolumes(src, dst, 101, 501, 1<<30)
		src.DeleteVolumePairErr = func(ctx context.Context, localID int) error {
			return errors.New("boom")
		}

		_, err := o.DetachSite(context.Background())
		if err == nil || !strings.Contains(err.Error(), "site-detach") {
			t.Fatalf("expected a batch error, got %v", err)
		}
		pairs, _ := src.ListClusterPairs(context.Background())
		if len(pairs) != 1 {
			t.Fatalf("cluster pair must survive a failed volume teardown, got %d records", len(pairs))
		}
	})
}
