package pairing

import (
	"fmt"
	"strings"
)

// ValidationError is a rejected precondition. It is always produced before
// the first mutating RPC of an action and aborts the whole action.
type ValidationError struct {
	// Invariant names the violated rule in a stable, grep-able form.
	Invariant string
	// Detail is operator-facing text with the offending values.
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("precondition %s: %s", e.Invariant, e.Detail)
}

func validationf(invariant, format string, a ...any) *ValidationError {
	return &ValidationError{Invariant: invariant, Detail: fmt.Sprintf(format, a...)}
}

// StateInconsistencyError means the two sites disagree about the pairing
// relationship. The action aborts; this tool never auto-repairs.
type StateInconsistencyError struct {
	// Site names the side holding the inconsistent records
	// ("SRC", "DST" or "SRC/DST").
	Site   string
	Status LinkStatus
	Reason string
}

func (e *StateInconsistencyError) Error() string {
	return fmt.Sprintf("cluster link is %s (inconsistent side: %s): %s", e.Status, e.Site, e.Reason)
}

// RemoteCallError wraps a failed adapter RPC with enough context to name
// the site and operation in reports.
type RemoteCallError struct {
	Site string
	Op   string
	Err  error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s at %s: %v", e.Op, e.Site, e.Err)
}

func (e *RemoteCallError) Unwrap() error { return e.Err }

func remoteErr(site, op string, err error) *RemoteCallError {
	return &RemoteCallError{Site: site, Op: op, Err: err}
}

// TupleResult is the outcome of one tuple inside a batch action. Err is
// nil on success. Completed mutations are never rolled back, so a result
// list may mix successes and failures.
type TupleResult struct {
	Tuple Tuple
	// Detail describes what was done (or would be done, under dry run).
	Detail string
	// Planned marks a dry-run result: nothing was issued.
	Planned bool
	Err     error
}

// PartialBatchError reports a batch in which some tuples succeeded and
// others failed. The full per-tuple result list is carried so failed
// tuples can be retried verbatim.
type PartialBatchError struct {
	Action  string
	Results []TupleResult
}

func (e *PartialBatchError) Error() string {
	var failed []string
	succeeded := 0
	for _, r := range e.Results {
		if r.Err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", r.Tuple, r.Err))
		} else {
			succeeded++
		}
	}
	return fmt.Sprintf("%s: %d/%d tuples failed (completed tuples stand): %s",
		e.Action, len(failed), len(e.Results), strings.Join(failed, "; "))
}

// batchOutcome folds per-tuple results into the action's error value:
// nil when everything succeeded, the sole error when everything failed
// uniformly is still reported per tuple, PartialBatchError otherwise.
func batchOutcome(action string, results []TupleResult) error {
	anyErr := false
	for _, r := range results {
		if r.Err != nil {
			anyErr = true
			break
		}
	}
	if !anyErr {
		return nil
	}
	return &PartialBatchError{Action: action, Results: results}
}
