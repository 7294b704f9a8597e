package unit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	campaignwizard "brandpilot/contexts/campaign-planning/campaign-wizard"
	domainerrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	httptransport "brandpilot/contexts/campaign-planning/campaign-wizard/transport/http"
)

func TestNavigateBlocksJumpPastIncompleteStep(t *testing.T) {
	module := campaignwizard.NewInMemoryModule(testProfiles(), nil)
	session := startedSession(t, module)

	_, err := module.Handler.NavigateHandler(context.Background(), session.SessionID, httptransport.NavigateRequest{
		Action: "goto",
		Step:   3,
	})
	if !errors.Is(err, domainerrors.ErrStepNotReachable) {
		t.Fatalf("expected step not reachable, got %v", err)
	}

	_, err = module.Handler.NavigateHandler(context.Background(), session.SessionID, httptransport.NavigateRequest{
		Action: "next",
	})
	if !errors.Is(err, domainerrors.ErrStepNotReachable) {
		t.Fatalf("expected next to be gated, got %v", err)
	}
}

func TestNavigateBackAndRevisitCompletedStep(t *testing.T) {
	module := campaignwizard.NewInMemoryModule(testProfiles(), nil)
	session := startedSession(t, module)
	session = completeObjective(t, module, session.SessionID)

	back, err := module.Handler.NavigateHandler(context.Background(), session.SessionID, httptransport.NavigateRequest{
		Action: "prev",
	})
	if err != nil {
		t.Fatalf("navigate prev failed: %v", err)
	}
	if back.Session.CurrentStep != 1 {
		t.Fatalf("expected step 1 after prev, got %d", back.Session.CurrentStep)
	}

	forward, err := module.Handler.NavigateHandler(context.Background(), session.SessionID, httptransport.NavigateRequest{
		Action: "goto",
		Step:   2,
	})
	if err != nil {
		t.Fatalf("revisit of opened step failed: %v", err)
	}
	if forward.Session.CurrentStep != 2 {
		t.Fatalf("expected step 2, got %d", forward.Session.CurrentStep)
	}
}

func TestNavigatePrevFlushesPreviewIntoDraft(t *testing.T) {
	module := campaignwizard.NewInMemoryModule(testProfiles(), nil)
	ctx := context.Background()
	session := startedSession(t, module)

	preview, _ := json.Marshal(map[string]string{"goal": "half-typed goal"})
	if err := module.Handler.UpdatePreviewHandler(ctx, session.SessionID, httptransport.PreviewRequest{
		Data: preview,
	}); err != nil {
		t.Fatalf("update preview failed: %v", err)
	}

	result, err := module.Handler.NavigateHandler(ctx, session.SessionID, httptransport.NavigateRequest{
		Action: "prev",
	})
	if err != nil {
		t.Fatalf("navigate prev failed: %v", err)
	}
	if result.Session.DraftID == "" {
		t.Fatalf("expected preview flushed into a draft on prev")
	}

	drafts, err := module.Handler.ListDraftsHandler(ctx, "company-1", nil)
	if err != nil {
		t.Fatalf("list drafts failed: %v", err)
	}
	if len(drafts.Items) != 1 {
		t.Fatalf("expected one draft, got %d", len(drafts.Items))
	}
}

func TestCompleteStepRejectsKindMismatch(t *testing.T) {
	module := campaignwizard.NewInMemoryModule(testProfiles(), nil)
	session := startedSession(t, module)

	_, err := module.Handler.CompleteStepHandler(context.Background(), session.SessionID, httptransport.CompleteStepRequest{
		Kind: "audience",
		Audience: &httptransport.AudienceDTO{
			Personas: []httptransport.PersonaDTO{{Name: "Anyone"}},
		},
	})
	if !errors.Is(err, domainerrors.ErrStepKindMismatch) {
		t.Fatalf("expected kind mismatch, got %v", err)
	}
}

func TestCompleteObjectiveRequiresGoalAndName(t *testing.T) {
	module := campaignwizard.NewInMemoryModule(testProfiles(), nil)
	session := startedSession(t, module)

	timeline := "Q4"
	_, err := module.Handler.CompleteStepHandler(context.Background(), session.SessionID, httptransport.CompleteStepRequest{
		Kind:      "objective",
		Objective: &httptransport.ObjectivePatchDTO{Timeline: &timeline},
	})
	if !errors.Is(err, domainerrors.ErrMissingObjective) {
		t.Fatalf("expected missing objective, got %v", err)
	}
}

func TestObjectiveRecompletionMergesOverPreviousValues(t *testing.T) {
	module := campaignwizard.NewInMemoryModule(testProfiles(), nil)
	ctx := context.Background()
	session := startedSession(t, module)

	budget := 5000.0
	first, err := module.Handler.CompleteStepHandler(ctx, session.SessionID, httptransport.CompleteStepRequest{
		Kind: "objective",
		Objective: &httptransport.ObjectivePatchDTO{
			Goal:   strPtr("awareness"),
			Name:   strPtr("Launch"),
			Budget: &budget,
		},
	})
	if err != nil {
		t.Fatalf("first objective completion failed: %v", err)
	}
	if first.Session.Campaign.Objective.Budget == nil {
		t.Fatalf("expected budget stored")
	}

	if _, err := module.Handler.NavigateHandler(ctx, session.SessionID, httptransport.NavigateRequest{
		Action: "prev",
	}); err != nil {
		t.Fatalf("navigate prev failed: %v", err)
	}

	timeline := "Q1"
	second, err := module.Handler.CompleteStepHandler(ctx, session.SessionID, httptransport.CompleteStepRequest{
		Kind: "objective",
		Objective: &httptransport.ObjectivePatchDTO{
			Goal:     strPtr("conversion"),
			Name:     strPtr("Launch"),
			Timeline: &timeline,
		},
	})
	if err != nil {
		t.Fatalf("second objective completion failed: %v", err)
	}

	objective := second.Session.Campaign.Objective
	if objective.Goal != "conversion" {
		t.Fatalf("expected goal replaced, got %q", objective.Goal)
	}
	if objective.Budget == nil || *objective.Budget != 5000.0 {
		t.Fatalf("expected budget preserved by the merge")
	}
	if objective.Timeline != "Q1" {
		t.Fatalf("expected timeline set, got %q", objective.Timeline)
	}
}

func TestStartSessionResumesFromDraft(t *testing.T) {
	module := campaignwizard.NewInMemoryModule(testProfiles(), nil)
	ctx := context.Background()

	session := startedSession(t, module)
	session = completeObjective(t, module, session.SessionID)
	if session.DraftID == "" {
		t.Fatalf("expected draft saved")
	}

	resumed, err := module.Handler.StartSessionHandler(ctx, httptransport.StartSessionRequest{
		CompanyID:   "company-1",
		DraftID:     session.DraftID,
		InitialStep: 2,
	})
	if err != nil {
		t.Fatalf("resume from draft failed: %v", err)
	}
	if resumed.Session.CurrentStep != 2 {
		t.Fatalf("expected resumed session at step 2, got %d", resumed.Session.CurrentStep)
	}
	if resumed.Session.Campaign.Objective.Goal != "brand awareness" {
		t.Fatalf("expected objective hydrated from draft, got %q", resumed.Session.Campaign.Objective.Goal)
	}
	if len(resumed.Session.CompletedSteps) != 1 || resumed.Session.CompletedSteps[0] != 1 {
		t.Fatalf("expected step 1 pre-marked completed, got %v", resumed.Session.CompletedSteps)
	}
}

func TestStartSessionInitialStepWithoutDraftRejected(t *testing.T) {
	module := campaignwizard.NewInMemoryModule(testProfiles(), nil)

	_, err := module.Handler.StartSessionHandler(context.Background(), httptransport.StartSessionRequest{
		CompanyID:   "company-1",
		InitialStep: 3,
	})
	if !errors.Is(err, domainerrors.ErrStepNotReachable) {
		t.Fatalf("expected step not reachable without a draft, got %v", err)
	}
}
