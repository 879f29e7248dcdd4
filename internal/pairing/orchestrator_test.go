package pairing_test

import (
	"context"
	"testing"
	"time"

	"mirrorctl/internal/adapter/fake"
	"mirrorctl/internal/pairing"
)

// instantSleeper skips countdowns so tests run without waiting.
func instantSleeper() pairing.Sleeper {
	return pairing.SleeperFunc(func(ctx context.Context, d time.Duration) error {
		return ctx.Err()
	})
}

// newHarness returns two linked fake sites and an orchestrator over them.
// The clusters are not paired yet.
func newHarness(t *testing.T) (*fake.Site, *fake.Site, *pairing.Orchestrator) {
	t.Helper()
	src, dst := fake.NewSitePair()
	o := pairing.NewOrchestrator(src, dst)
	o.Sleep = instantSleeper()
	return src, dst, o
}

// newPairedHarness is newHarness with the cluster pairing already in place.
func newPairedHarness(t *testing.T) (*fake.Site, *fake.Site, *pairing.Orchestrator) {
	t.Helper()
	src, dst, o := newHarness(t)
	fake.LinkClusters(src, dst)
	return src, dst, o
}

// pairedVolumes seeds a readWrite SRC volume and a replicationTarget DST
// volume of the given size and links them as a mutual pair.
func pairedVolumes(src, dst *fake.Site, srcID, dstID int, size int64) {
	src.AddVolume(pairing.Volume{ID: srcID, TotalSize: size, Access: pairing.AccessReadWrite})
	dst.AddVolume(pairing.Volume{ID: dstID, TotalSize: size, Access: pairing.AccessReplicationTarget})
	fake.LinkVolumes(src, dst, srcID, dstID)
}

func mustCalls(t *testing.T, s *fake.Site, method string, want int) {
	t.Helper()
	if got := len(s.Calls(method)); got != want {
		t.Fatalf("%s called %d times, want %d", method, got, want)
	}
}
