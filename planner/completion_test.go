package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/MertKocakaplan/aceit-sub001/model"
)

// fakeMutator records completion mutations and can be told to fail.
type fakeMutator struct {
	calls []mutation
	err   error
	log   *[]string
}

type mutation struct {
	slotID    uint
	completed bool
	outcome   *Outcome
}

func (f *fakeMutator) SetSlotCompletion(_ context.Context, slotID uint, completed bool, outcome *Outcome) error {
	f.calls = append(f.calls, mutation{slotID: slotID, completed: completed, outcome: outcome})
	if f.log != nil {
		*f.log = append(*f.log, "commit")
	}
	return f.err
}

func TestToggleIncompleteOpensCapture(t *testing.T) {
	mutator := &fakeMutator{}
	w := NewCompletionWorkflow(mutator, nil)
	slot := &model.StudySlot{ID: 7, Completed: false}

	if err := w.Toggle(context.Background(), slot); err != nil {
		t.Fatal(err)
	}

	if w.State() != StateAwaitingOutcome {
		t.Errorf("state = %v, want awaiting_outcome", w.State())
	}
	if len(mutator.calls) != 0 {
		t.Errorf("no mutation should be issued before the capture form resolves")
	}
	if id, ok := w.PendingSlot(); !ok || id != 7 {
		t.Errorf("pending slot = %d/%v, want 7/true", id, ok)
	}
}

func TestToggleCompleteCommitsDirectly(t *testing.T) {
	mutator := &fakeMutator{}
	w := NewCompletionWorkflow(mutator, nil)
	slot := &model.StudySlot{ID: 3, Completed: true}

	if err := w.Toggle(context.Background(), slot); err != nil {
		t.Fatal(err)
	}

	if len(mutator.calls) != 1 {
		t.Fatalf("got %d mutations, want 1", len(mutator.calls))
	}
	call := mutator.calls[0]
	if call.slotID != 3 || call.completed || call.outcome != nil {
		t.Errorf("mutation = %+v, want {3 false nil}", call)
	}
	if w.State() != StateIdle {
		t.Errorf("state = %v, want idle", w.State())
	}
}

func TestSubmitParsesCounts(t *testing.T) {
	mutator := &fakeMutator{}
	w := NewCompletionWorkflow(mutator, nil)
	slot := &model.StudySlot{ID: 9}

	if err := w.Toggle(context.Background(), slot); err != nil {
		t.Fatal(err)
	}
	if err := w.Submit(context.Background(), "3", "1", ""); err != nil {
		t.Fatal(err)
	}

	call := mutator.calls[0]
	if !call.completed {
		t.Error("submit must mark the slot complete")
	}
	want := Outcome{Correct: 3, Wrong: 1, Blank: 0}
	if call.outcome == nil || *call.outcome != want {
		t.Errorf("outcome = %+v, want %+v", call.outcome, want)
	}
}

func TestSubmitDefaultsInvalidInputToZero(t *testing.T) {
	mutator := &fakeMutator{}
	w := NewCompletionWorkflow(mutator, nil)

	if err := w.Toggle(context.Background(), &model.StudySlot{ID: 1}); err != nil {
		t.Fatal(err)
	}
	if err := w.Submit(context.Background(), "abc", "-4", "2"); err != nil {
		t.Fatal(err)
	}

	want := Outcome{Correct: 0, Wrong: 0, Blank: 2}
	if got := mutator.calls[0].outcome; got == nil || *got != want {
		t.Errorf("outcome = %+v, want %+v", got, want)
	}
}

func TestSkipForcesZeroOutcome(t *testing.T) {
	mutator := &fakeMutator{}
	w := NewCompletionWorkflow(mutator, nil)

	if err := w.Toggle(context.Background(), &model.StudySlot{ID: 2}); err != nil {
		t.Fatal(err)
	}
	if err := w.Skip(context.Background()); err != nil {
		t.Fatal(err)
	}

	call := mutator.calls[0]
	if !call.completed || call.outcome == nil || *call.outcome != (Outcome{}) {
		t.Errorf("skip must commit completed=true outcome {0,0,0}, got %+v", call)
	}
}

func TestCancelDiscardsWithoutMutation(t *testing.T) {
	refreshed := false
	mutator := &fakeMutator{}
	w := NewCompletionWorkflow(mutator, func(context.Context) error {
		refreshed = true
		return nil
	})

	if err := w.Toggle(context.Background(), &model.StudySlot{ID: 4}); err != nil {
		t.Fatal(err)
	}
	if err := w.Cancel(); err != nil {
		t.Fatal(err)
	}

	if len(mutator.calls) != 0 {
		t.Error("cancel must not issue a mutation")
	}
	if refreshed {
		t.Error("cancel must not trigger a refresh")
	}
	if w.State() != StateIdle {
		t.Errorf("state = %v, want idle", w.State())
	}
}

func TestRefreshRunsAfterCommit(t *testing.T) {
	var order []string
	mutator := &fakeMutator{log: &order}
	w := NewCompletionWorkflow(mutator, func(context.Context) error {
		order = append(order, "refresh")
		return nil
	})

	if err := w.Toggle(context.Background(), &model.StudySlot{ID: 5, Completed: true}); err != nil {
		t.Fatal(err)
	}

	if len(order) != 2 || order[0] != "commit" || order[1] != "refresh" {
		t.Errorf("order = %v, want [commit refresh]", order)
	}
}

func TestCommitFailureReturnsToIdleWithoutRefresh(t *testing.T) {
	refreshed := false
	wantErr := errors.New("service unavailable")
	mutator := &fakeMutator{err: wantErr}
	w := NewCompletionWorkflow(mutator, func(context.Context) error {
		refreshed = true
		return nil
	})

	if err := w.Toggle(context.Background(), &model.StudySlot{ID: 6}); err != nil {
		t.Fatal(err)
	}
	err := w.Submit(context.Background(), "1", "0", "0")
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}

	if refreshed {
		t.Error("failed commit must not refresh")
	}
	if w.State() != StateIdle {
		t.Errorf("state = %v, want idle", w.State())
	}
}

func TestSecondToggleRejectedWhileCapturing(t *testing.T) {
	mutator := &fakeMutator{}
	w := NewCompletionWorkflow(mutator, nil)

	if err := w.Toggle(context.Background(), &model.StudySlot{ID: 1}); err != nil {
		t.Fatal(err)
	}
	err := w.Toggle(context.Background(), &model.StudySlot{ID: 2})
	if !errors.Is(err, ErrActionInFlight) {
		t.Errorf("err = %v, want ErrActionInFlight", err)
	}
}

func TestResolveWithoutPendingCapture(t *testing.T) {
	w := NewCompletionWorkflow(&fakeMutator{}, nil)

	if err := w.Skip(context.Background()); !errors.Is(err, ErrNoPendingOutcome) {
		t.Errorf("Skip err = %v, want ErrNoPendingOutcome", err)
	}
	if err := w.Cancel(); !errors.Is(err, ErrNoPendingOutcome) {
		t.Errorf("Cancel err = %v, want ErrNoPendingOutcome", err)
	}
}
