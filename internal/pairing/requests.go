package pairing

import "time"

// Action identifies one orchestrated workflow.
type Action string

const (
	ActionPairClusters   Action = "cluster-pair"
	ActionUnpairClusters Action = "cluster-unpair"
	ActionPairVolumes    Action = "volume-pair"
	ActionUnpairVolume   Action = "volume-unpair"
	ActionPrime          Action = "volume-prime"
	ActionReverse        Action = "volume-reverse"
	ActionSetMode        Action = "volume-set-mode"
	ActionSetStatus      Action = "volume-set-status"
	ActionSnapshot       Action = "volume-snapshot"
	ActionResize         Action = "volume-resize"
	ActionUpsizeRemote   Action = "volume-upsize-remote"
	ActionSetSiteAccess  Action = "site-set-access"
	ActionDetachSite     Action = "site-detach"
)

// Capability states how an action treats the global dry-run flag. Actions
// not marked dry-run aware execute regardless of the flag; that is a
// documented property of the action, not an oversight.
type Capability uint8

const (
	AlwaysExecutes Capability = iota
	DryRunAware
)

var actionCapabilities = map[Action]Capability{
	ActionPairClusters:   AlwaysExecutes,
	ActionUnpairClusters: AlwaysExecutes,
	ActionPairVolumes:    DryRunAware,
	ActionUnpairVolume:   DryRunAware,
	ActionPrime:          AlwaysExecutes,
	ActionReverse:        AlwaysExecutes,
	ActionSetMode:        AlwaysExecutes,
	ActionSetStatus:      AlwaysExecutes,
	ActionSnapshot:       AlwaysExecutes,
	ActionResize:         DryRunAware,
	ActionUpsizeRemote:   AlwaysExecutes,
	ActionSetSiteAccess:  AlwaysExecutes,
	ActionDetachSite:     AlwaysExecutes,
}

// CapabilityOf reports whether an action honors the dry-run flag.
func CapabilityOf(a Action) Capability {
	return actionCapabilities[a]
}

// Typed request payloads, one per action. The boundary layer parses raw
// flag strings into these exactly once; the core never sees untyped text.

// PairRequest pairs each (SRC,DST) tuple independently.
type PairRequest struct {
	Tuples []Tuple
}

// UnpairRequest removes exactly one volume pairing.
type UnpairRequest struct {
	Tuples []Tuple
}

// PrimeRequest creates candidate volumes at DST modeled on SRC templates.
// It creates no pairing.
type PrimeRequest struct {
	SrcAccountID int
	DstAccountID int
	SrcVolumeIDs []int
}

// ReverseRequest flips replication direction for the whole paired set.
type ReverseRequest struct {
	// Delay is the operator-abortable window before the first mutation.
	// Zero means the orchestrator default.
	Delay time.Duration
}

// SetModeRequest changes the replication mode on SRC pairs. An empty
// scope targets every currently paired SRC volume.
type SetModeRequest struct {
	Mode  ReplicationMode
	Scope []int
}

// SetStatusRequest pauses or resumes replication on every SRC pair.
type SetStatusRequest struct {
	Pause bool
}

// SnapshotRequest snapshots every paired SRC volume individually.
type SnapshotRequest struct {
	Retention time.Duration
	Name      string
}

// ResizeRequest grows both sides of each tuple by the same delta.
type ResizeRequest struct {
	DeltaBytes int64
	Tuples     []Tuple
}

// UpsizeRemoteRequest grows one DST volume to its SRC peer's exact size.
type UpsizeRemoteRequest struct {
	Tuple Tuple
}

// SetSiteAccessRequest unilaterally sets the access mode on every paired
// SRC volume. DST is untouched.
type SetSiteAccessRequest struct {
	Mode AccessMode
}
