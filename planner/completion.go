package planner

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/MertKocakaplan/aceit-sub001/model"
)

var (
	// ErrActionInFlight is returned when a completion action is requested
	// while another one has not resolved yet. Callers are expected to
	// disable the triggering control until the in-flight action settles.
	ErrActionInFlight = errors.New("a completion action is already in flight")

	// ErrNoPendingOutcome is returned by Submit/Skip/Cancel when no slot is
	// awaiting outcome capture.
	ErrNoPendingOutcome = errors.New("no slot is awaiting outcome input")
)

// Outcome is the optional correct/wrong/blank question tally attached when
// a slot is completed. All counts are non-negative; zero values mean the
// user skipped entry.
type Outcome struct {
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
	Blank   int `json:"blank"`
}

// PlanMutator is the slice of the plan service the completion workflow
// needs: one atomic mutation that sets a slot's completion flag together
// with its outcome. A nil outcome clears any stored counts.
type PlanMutator interface {
	SetSlotCompletion(ctx context.Context, slotID uint, completed bool, outcome *Outcome) error
}

// WorkflowState is the completion workflow's position in its state machine.
type WorkflowState int

const (
	StateIdle WorkflowState = iota
	StateAwaitingOutcome
	StateCommitting
)

// String implements fmt.Stringer.
func (s WorkflowState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingOutcome:
		return "awaiting_outcome"
	case StateCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// CompletionWorkflow governs the transition of a study slot between
// incomplete and complete, with optional outcome capture:
//
//	Idle -> AwaitingOutcomeInput -> Committing -> Idle
//
// Marking an already-complete slot incomplete skips outcome capture and
// commits directly. Only one action may be in flight at a time; the slot's
// local completion flag is never flipped before the mutator confirms, and
// the refresh callback runs strictly after a successful commit so a refresh
// can never race ahead of the write it reflects. A failed commit returns
// the workflow to Idle without preserving form state.
type CompletionWorkflow struct {
	mutator PlanMutator
	refresh func(ctx context.Context) error

	mu     sync.Mutex
	state  WorkflowState
	slotID uint
}

// NewCompletionWorkflow builds a workflow over the given mutator. refresh
// may be nil when the caller re-fetches the plan by other means.
func NewCompletionWorkflow(mutator PlanMutator, refresh func(ctx context.Context) error) *CompletionWorkflow {
	return &CompletionWorkflow{
		mutator: mutator,
		refresh: refresh,
		state:   StateIdle,
	}
}

// State reports the workflow's current state.
func (w *CompletionWorkflow) State() WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// PendingSlot returns the slot awaiting outcome input, if any.
func (w *CompletionWorkflow) PendingSlot() (uint, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slotID, w.state == StateAwaitingOutcome
}

// Toggle requests a completion change for slot. For a complete slot it
// commits "incomplete, no outcome" immediately and never opens capture.
// For an incomplete slot it moves to AwaitingOutcomeInput; the caller then
// resolves it with Submit, Skip or Cancel.
func (w *CompletionWorkflow) Toggle(ctx context.Context, slot *model.StudySlot) error {
	w.mu.Lock()
	if w.state != StateIdle {
		w.mu.Unlock()
		return ErrActionInFlight
	}

	if slot.Completed {
		w.state = StateCommitting
		w.slotID = slot.ID
		w.mu.Unlock()
		return w.commit(ctx, slot.ID, false, nil)
	}

	w.state = StateAwaitingOutcome
	w.slotID = slot.ID
	w.mu.Unlock()
	return nil
}

// Submit parses the captured fields and commits "complete" with the parsed
// outcome. Each field is read as a non-negative integer; empty or invalid
// input defaults to zero.
func (w *CompletionWorkflow) Submit(ctx context.Context, correct, wrong, blank string) error {
	outcome := &Outcome{
		Correct: parseCount(correct),
		Wrong:   parseCount(wrong),
		Blank:   parseCount(blank),
	}
	return w.resolve(ctx, outcome)
}

// Skip commits "complete" with a forced zero outcome, ignoring any captured
// field values ("didn't solve questions").
func (w *CompletionWorkflow) Skip(ctx context.Context) error {
	return w.resolve(ctx, &Outcome{})
}

// Cancel abandons outcome capture with no mutation and no refresh.
func (w *CompletionWorkflow) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateAwaitingOutcome {
		return ErrNoPendingOutcome
	}
	w.state = StateIdle
	w.slotID = 0
	return nil
}

func (w *CompletionWorkflow) resolve(ctx context.Context, outcome *Outcome) error {
	w.mu.Lock()
	if w.state != StateAwaitingOutcome {
		w.mu.Unlock()
		return ErrNoPendingOutcome
	}
	slotID := w.slotID
	w.state = StateCommitting
	w.mu.Unlock()

	return w.commit(ctx, slotID, true, outcome)
}

func (w *CompletionWorkflow) commit(ctx context.Context, slotID uint, completed bool, outcome *Outcome) error {
	err := w.mutator.SetSlotCompletion(ctx, slotID, completed, outcome)

	w.mu.Lock()
	w.state = StateIdle
	w.slotID = 0
	w.mu.Unlock()

	if err != nil {
		return err
	}
	if w.refresh != nil {
		return w.refresh(ctx)
	}
	return nil
}

func parseCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
