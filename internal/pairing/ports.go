package pairing

import (
	"context"
	"time"
)

// ListVolumesFilter narrows a ListVolumes call. Zero value lists every
// active volume on the site.
type ListVolumesFilter struct {
	// AccountID restricts results to one tenant account when > 0.
	AccountID int
	// IDs restricts results to the given volume IDs when non-empty.
	IDs []int
	// PairedOnly restricts results to volumes with at least one
	// replication relationship.
	PairedOnly bool
}

// CreateVolumeRequest carries the properties a primed destination volume
// inherits from its source template.
type CreateVolumeRequest struct {
	AccountID   int
	Name        string
	TotalSize   int64
	BlockSize   int
	QoS         *QoS
	QoSPolicyID int
}

// SiteClient is one authenticated per-site session. Implementations own
// per-RPC timeouts and transport retries; the pairing core sequences calls
// and never retries a mutation itself.
//
// Cluster pairing and volume pairing are key exchanges: the side that will
// replicate outward issues a pairing key, the other side completes with
// it. The orchestrator owns the exchange ordering.
type SiteClient interface {
	// ClusterName identifies the site in findings and reports.
	ClusterName() string
	// Address is the site's management endpoint, used in reports only.
	Address() string

	ListClusterPairs(ctx context.Context) ([]ClusterPair, error)
	StartClusterPairing(ctx context.Context) (key string, err error)
	CompleteClusterPairing(ctx context.Context, key string) (pairID int, err error)
	DeleteClusterPair(ctx context.Context, pairID int) error

	ListVolumes(ctx context.Context, filter ListVolumesFilter) ([]Volume, error)
	GetVolume(ctx context.Context, id int) (Volume, error)
	CreateVolume(ctx context.Context, req CreateVolumeRequest) (Volume, error)
	ResizeVolume(ctx context.Context, id int, newSize int64) error
	SetVolumeAccess(ctx context.Context, id int, mode AccessMode) error

	ListVolumePairs(ctx context.Context, ids ...int) ([]VolumePair, error)
	StartVolumePairing(ctx context.Context, localID int) (key string, err error)
	CompleteVolumePairing(ctx context.Context, localID int, key string) error
	DeleteVolumePair(ctx context.Context, localID int) error
	SetVolumeReplicationMode(ctx context.Context, id int, mode ReplicationMode) error
	SetVolumePairedStatus(ctx context.Context, id int, paused bool) error

	CreateSnapshot(ctx context.Context, id int, retention time.Duration, name string) (Snapshot, error)
}

// Sleeper abstracts the reversal countdown so tests run without waiting.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to the Sleeper interface.
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// RealSleeper waits on the wall clock and aborts when ctx is canceled.
func RealSleeper() Sleeper {
	return SleeperFunc(func(ctx context.Context, d time.Duration) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	})
}
