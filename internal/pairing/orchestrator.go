package pairing

import (
	"time"
)

// defaultReverseDelay is the operator-abortable window before a direction
// flip starts mutating volumes.
const defaultReverseDelay = 15 * time.Second

// Orchestrator sequences the per-action RPC workflows against the two
// site sessions. It holds both sessions for the run's duration only and
// re-derives all pairing state from fresh snapshots inside each action.
//
// The dry-run flag is consulted once per action, before the first
// mutating RPC, and only for actions whose capability is DryRunAware
// (volume pair, unpair and resize). Every other action executes
// regardless of the flag.
type Orchestrator struct {
	Src SiteClient
	Dst SiteClient

	// DryRun replaces mutating RPCs of dry-run-aware actions with
	// descriptions of what would have been issued.
	DryRun bool

	// ReverseDelay overrides the countdown before a direction flip.
	ReverseDelay time.Duration

	// Sleep drives the countdown; tests install an instant sleeper.
	Sleep Sleeper

	reader *StateReader
}

// NewOrchestrator wires an orchestrator over two site sessions.
func NewOrchestrator(src, dst SiteClient) *Orchestrator {
	return &Orchestrator{
		Src:          src,
		Dst:          dst,
		ReverseDelay: defaultReverseDelay,
		Sleep:        RealSleeper(),
		reader:       &StateReader{Src: src, Dst: dst},
	}
}

// Reader exposes the orchestrator's state reader for read-only commands.
func (o *Orchestrator) Reader() *StateReader {
	if o.reader == nil {
		o.reader = &StateReader{Src: o.Src, Dst: o.Dst}
	}
	return o.reader
}

// suppressed reports whether the given action's mutations are suppressed
// by the dry-run flag.
func (o *Orchestrator) suppressed(a Action) bool {
	return o.DryRun && CapabilityOf(a) == DryRunAware
}
