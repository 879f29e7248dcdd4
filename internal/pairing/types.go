package pairing

import "fmt"

// AccessMode is a volume's access property. Exactly one side of a healthy
// replication pair is ReadWrite; the other side is ReplicationTarget.
type AccessMode string

const (
	AccessReadWrite         AccessMode = "readWrite"
	AccessReplicationTarget AccessMode = "replicationTarget"
	AccessReadOnly          AccessMode = "readOnly"
	AccessLocked            AccessMode = "locked"
)

func (m AccessMode) IsValid() bool {
	switch m {
	case AccessReadWrite, AccessReplicationTarget, AccessReadOnly, AccessLocked:
		return true
	default:
		return false
	}
}

// Opposite returns the counterpart access mode for the other side of a
// pair. Only meaningful for the two replication modes.
func (m AccessMode) Opposite() AccessMode {
	switch m {
	case AccessReadWrite:
		return AccessReplicationTarget
	case AccessReplicationTarget:
		return AccessReadWrite
	default:
		return m
	}
}

// ParseAccessMode accepts the two settable access modes, case-insensitively
// on the first letter variants operators actually type.
func ParseAccessMode(s string) (AccessMode, error) {
	switch s {
	case "readWrite", "readwrite":
		return AccessReadWrite, nil
	case "replicationTarget", "replicationtarget":
		return AccessReplicationTarget, nil
	default:
		return "", fmt.Errorf("access mode must be readWrite or replicationTarget, not %q", s)
	}
}

// ReplicationMode selects how data moves across a volume pair.
type ReplicationMode string

const (
	ModeAsync         ReplicationMode = "Async"
	ModeSync          ReplicationMode = "Sync"
	ModeSnapshotsOnly ReplicationMode = "SnapshotsOnly"
)

func (m ReplicationMode) IsValid() bool {
	switch m {
	case ModeAsync, ModeSync, ModeSnapshotsOnly:
		return true
	default:
		return false
	}
}

func ParseReplicationMode(s string) (ReplicationMode, error) {
	switch s {
	case "Async", "async":
		return ModeAsync, nil
	case "Sync", "sync":
		return ModeSync, nil
	case "SnapshotsOnly", "snapshotsonly":
		return ModeSnapshotsOnly, nil
	default:
		return "", fmt.Errorf("replication mode must be Async, Sync or SnapshotsOnly, not %q", s)
	}
}

// ClusterPairStatus is the status one site reports for its cluster pair.
type ClusterPairStatus string

const (
	ClusterPairPending      ClusterPairStatus = "Pending"
	ClusterPairConnected    ClusterPairStatus = "Connected"
	ClusterPairDisconnected ClusterPairStatus = "Disconnected"
)

// ClusterPair is one site's record of its peering relationship.
type ClusterPair struct {
	// PairID is local to the reporting site; the two sides of one
	// relationship usually hold different pair IDs.
	PairID int
	// UUID is shared by both sides of one relationship.
	UUID        string
	PeerName    string
	PeerAddress string
	Status      ClusterPairStatus
}

// Volume is the subset of a volume record the pairing core needs.
type Volume struct {
	ID        int
	AccountID int
	Name      string
	TotalSize int64
	BlockSize int
	Access    AccessMode
	// QoS is carried opaquely so primed destination volumes inherit the
	// source settings without the core interpreting them.
	QoS *QoS
	// QoSPolicyID is set when the volume references a shared policy
	// instead of inline QoS settings.
	QoSPolicyID int
	Paired      bool
}

// QoS holds per-volume quality of service settings.
type QoS struct {
	MinIOPS   int64 `json:"minIOPS"`
	MaxIOPS   int64 `json:"maxIOPS"`
	BurstIOPS int64 `json:"burstIOPS"`
}

// VolumePair is one site's record of a volume replication relationship,
// as reported by that site. LocalVolumeID is local to the reporting site.
type VolumePair struct {
	LocalVolumeID    int
	RemoteVolumeID   int
	UUID             string
	ClusterPairID    int
	Mode             ReplicationMode
	State            string
	LocalVolumeName  string
	RemoteVolumeName string
	// LocalVolumeSize is the reporting site's view of its member volume,
	// used by the mismatch detector to surface unilateral resizes.
	LocalVolumeSize int64
}

// Tuple names one (SRC volume ID, DST volume ID) pair as supplied by the
// operator. The same shape is reused in results so a failed tuple can be
// fed straight back into a corrective action.
type Tuple struct {
	Src int
	Dst int
}

func (t Tuple) String() string {
	return fmt.Sprintf("%d,%d", t.Src, t.Dst)
}

// Snapshot is the result of a CreateSnapshot call.
type Snapshot struct {
	ID         int
	VolumeID   int
	Name       string
	ExpiryTime string
}

// LinkStatus is the derived state of the cluster-level relationship.
type LinkStatus string

const (
	// LinkPaired means both sites report exactly one cluster pair, each
	// naming the other, with matching UUIDs.
	LinkPaired LinkStatus = "Paired"
	// LinkUnpaired means neither site reports any cluster pair.
	LinkUnpaired LinkStatus = "Unpaired"
	// LinkAmbiguous covers everything else: one-sided records, foreign
	// peers, multiple relationships, or UUID disagreement.
	LinkAmbiguous LinkStatus = "Ambiguous"
)

// LinkState is a point-in-time view of the cluster pairing, derived from
// two fresh per-site snapshots and never cached across actions.
type LinkState struct {
	Status           LinkStatus
	SrcPairs         []ClusterPair
	DstPairs         []ClusterPair
	// PairUUID is set only when Status is LinkPaired.
	PairUUID string
	// InconsistentSite names the side whose records block a Paired
	// derivation ("SRC", "DST" or "SRC/DST"). Empty when Paired.
	InconsistentSite string
	// Reason explains a non-Paired status in operator terms.
	Reason string
}
