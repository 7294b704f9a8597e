package entities

import "testing"

func TestCanProceedGatesOnPredecessor(t *testing.T) {
	session := WizardSession{CurrentStep: FirstStep}

	if !session.CanProceed(1) {
		t.Fatalf("step 1 must always be reachable")
	}
	if session.CanProceed(2) {
		t.Fatalf("step 2 must be gated until step 1 completes")
	}

	session.MarkCompleted(1)
	if !session.CanProceed(2) {
		t.Fatalf("step 2 should open once step 1 is completed")
	}
	if session.CanProceed(4) {
		t.Fatalf("step 4 must stay gated until step 3 completes")
	}
}

func TestMarkCompletedIsIdempotent(t *testing.T) {
	session := WizardSession{}
	session.MarkCompleted(1)
	session.MarkCompleted(1)

	if len(session.CompletedSteps) != 1 {
		t.Fatalf("expected one completed step entry, got %d", len(session.CompletedSteps))
	}
}

func TestKindForStepCoversAllSteps(t *testing.T) {
	for step := FirstStep; step <= LastStep; step++ {
		kind, ok := KindForStep(step)
		if !ok {
			t.Fatalf("step %d has no kind", step)
		}
		back, ok := StepForKind(kind)
		if !ok || back != step {
			t.Fatalf("kind %s did not round-trip to step %d", kind, step)
		}
	}
	if _, ok := KindForStep(LastStep + 1); ok {
		t.Fatalf("step beyond the last must have no kind")
	}
}

func TestObjectiveApplyMergesOverPrevious(t *testing.T) {
	goal := "awareness"
	name := "Spring Launch"
	budget := 2500.0
	base := Objective{}.Apply(ObjectivePatch{Goal: &goal, Name: &name, Budget: &budget})

	timeline := "Q2"
	newGoal := "conversion"
	merged := base.Apply(ObjectivePatch{Goal: &newGoal, Name: &name, Timeline: &timeline})

	if merged.Goal != "conversion" {
		t.Fatalf("expected goal replaced, got %q", merged.Goal)
	}
	if merged.Budget == nil || *merged.Budget != 2500.0 {
		t.Fatalf("expected budget preserved through merge")
	}
	if merged.Timeline != "Q2" {
		t.Fatalf("expected timeline set, got %q", merged.Timeline)
	}
}
