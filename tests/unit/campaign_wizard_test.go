package unit

import (
	"context"
	"testing"
	"time"

	campaignwizard "brandpilot/contexts/campaign-planning/campaign-wizard"
	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	httptransport "brandpilot/contexts/campaign-planning/campaign-wizard/transport/http"
)

func testProfiles() []entities.CompanySnapshot {
	return []entities.CompanySnapshot{
		{
			CompanyID:         "company-1",
			Name:              "Acme Outdoor",
			Country:           "US",
			BusinessObjective: "grow direct sales",
			ValueProposition:  "durable gear for weekend hikers",
			ActiveAccounts: []entities.SocialAccount{
				{Platform: "instagram", Username: "acmeoutdoor"},
			},
		},
	}
}

func strPtr(v string) *string { return &v }

func startedSession(t *testing.T, module campaignwizard.Module) httptransport.SessionDTO {
	t.Helper()
	resp, err := module.Handler.StartSessionHandler(context.Background(), httptransport.StartSessionRequest{
		CompanyID: "company-1",
	})
	if err != nil {
		t.Fatalf("start session failed: %v", err)
	}
	return resp.Session
}

func completeObjective(t *testing.T, module campaignwizard.Module, sessionID string) httptransport.SessionDTO {
	t.Helper()
	resp, err := module.Handler.CompleteStepHandler(context.Background(), sessionID, httptransport.CompleteStepRequest{
		Kind: "objective",
		Objective: &httptransport.ObjectivePatchDTO{
			Goal: strPtr("brand awareness"),
			Name: strPtr("Fall Hiking Push"),
		},
	})
	if err != nil {
		t.Fatalf("complete objective failed: %v", err)
	}
	return resp.Session
}

func completeAudience(t *testing.T, module campaignwizard.Module, sessionID string) httptransport.SessionDTO {
	t.Helper()
	resp, err := module.Handler.CompleteStepHandler(context.Background(), sessionID, httptransport.CompleteStepRequest{
		Kind: "audience",
		Audience: &httptransport.AudienceDTO{
			Personas: []httptransport.PersonaDTO{
				{Name: "Weekend Hiker", AgeRange: "25-40", Interests: []string{"hiking", "camping"}},
			},
			Analysis: "outdoor enthusiasts who buy gear online",
		},
	})
	if err != nil {
		t.Fatalf("complete audience failed: %v", err)
	}
	return resp.Session
}

func TestWizardFullFlowCompletesCampaign(t *testing.T) {
	module := campaignwizard.NewInMemoryModule(testProfiles(), nil)
	ctx := context.Background()

	session := startedSession(t, module)
	if session.CurrentStep != 1 || session.CurrentStepKind != "objective" {
		t.Fatalf("expected new session at objective step, got %d/%s", session.CurrentStep, session.CurrentStepKind)
	}
	if session.Campaign.Company.Name != "Acme Outdoor" {
		t.Fatalf("expected company profile hydrated, got %q", session.Campaign.Company.Name)
	}

	session = completeObjective(t, module, session.SessionID)
	if session.CurrentStep != 2 {
		t.Fatalf("expected auto-advance to step 2, got %d", session.CurrentStep)
	}
	if session.DraftID == "" {
		t.Fatalf("expected draft saved after first completed step")
	}

	session = completeAudience(t, module, session.SessionID)
	if session.CurrentStep != 3 {
		t.Fatalf("expected step 3, got %d", session.CurrentStep)
	}

	strategyResp, err := module.Handler.GenerateStrategyHandler(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("generate strategy failed: %v", err)
	}
	if strategyResp.Strategy.Positioning == "" {
		t.Fatalf("expected generated positioning")
	}

	stepResp, err := module.Handler.CompleteStepHandler(ctx, session.SessionID, httptransport.CompleteStepRequest{
		Kind:     "strategy",
		Strategy: &strategyResp.Strategy,
	})
	if err != nil {
		t.Fatalf("complete strategy failed: %v", err)
	}
	session = stepResp.Session
	if session.StrategyID == "" {
		t.Fatalf("expected strategy id recorded as side effect")
	}

	startDate := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	calendarResp, err := module.Handler.GenerateCalendarHandler(ctx, session.SessionID, httptransport.GenerateCalendarRequest{
		Platforms:    []string{"instagram", "twitter"},
		StartDate:    startDate,
		DurationDays: 2,
	})
	if err != nil {
		t.Fatalf("generate calendar failed: %v", err)
	}
	if len(calendarResp.Calendar.Items) != 4 {
		t.Fatalf("expected 2 platforms x 2 days = 4 items, got %d", len(calendarResp.Calendar.Items))
	}

	edited, err := module.Handler.EditCalendarItemHandler(ctx, session.SessionID, calendarResp.Calendar.Items[0].ItemID, httptransport.EditCalendarItemRequest{
		Hook: strPtr("New season, new trails"),
	})
	if err != nil {
		t.Fatalf("edit calendar item failed: %v", err)
	}
	if edited.Calendar.Items[0].Hook != "New season, new trails" {
		t.Fatalf("expected edited hook, got %q", edited.Calendar.Items[0].Hook)
	}

	// Confirming with no payload commits the pending working copy.
	stepResp, err = module.Handler.CompleteStepHandler(ctx, session.SessionID, httptransport.CompleteStepRequest{
		Kind: "calendar",
	})
	if err != nil {
		t.Fatalf("complete calendar failed: %v", err)
	}
	session = stepResp.Session
	if session.PendingCalendar != nil {
		t.Fatalf("expected pending calendar cleared after commit")
	}
	if session.Campaign.Calendar.Items[0].Hook != "New season, new trails" {
		t.Fatalf("expected committed calendar to carry the edit")
	}
	if session.CalendarID == "" {
		t.Fatalf("expected calendar id recorded as side effect")
	}

	contentResp, err := module.Handler.CreateContentHandler(ctx, session.SessionID, httptransport.CreateContentRequest{})
	if err != nil {
		t.Fatalf("create content failed: %v", err)
	}
	if contentResp.Succeeded != contentResp.Total || contentResp.Total != 4 {
		t.Fatalf("expected 4/4 content items, got %d/%d", contentResp.Succeeded, contentResp.Total)
	}

	stepResp, err = module.Handler.CompleteStepHandler(ctx, session.SessionID, httptransport.CompleteStepRequest{
		Kind:    "content",
		Content: contentResp.Items,
	})
	if err != nil {
		t.Fatalf("complete content failed: %v", err)
	}
	session = stepResp.Session

	scheduleResp, err := module.Handler.SchedulePostsHandler(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("schedule posts failed: %v", err)
	}
	if scheduleResp.Succeeded != scheduleResp.Total {
		t.Fatalf("expected all posts scheduled, got %d/%d", scheduleResp.Succeeded, scheduleResp.Total)
	}

	stepResp, err = module.Handler.CompleteStepHandler(ctx, session.SessionID, httptransport.CompleteStepRequest{
		Kind:     "schedule",
		Schedule: scheduleResp.Posts,
	})
	if err != nil {
		t.Fatalf("complete schedule failed: %v", err)
	}
	session = stepResp.Session

	measureResp, err := module.Handler.CaptureMeasurementsHandler(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("capture measurements failed: %v", err)
	}

	stepResp, err = module.Handler.CompleteStepHandler(ctx, session.SessionID, httptransport.CompleteStepRequest{
		Kind:        "measurement",
		Measurement: &measureResp.Measurements,
	})
	if err != nil {
		t.Fatalf("complete measurement failed: %v", err)
	}
	session = stepResp.Session

	if session.Status != "completed" {
		t.Fatalf("expected completed session, got %q", session.Status)
	}

	pending, err := module.Store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	foundCompletion := false
	for _, row := range pending {
		if row.EventType == "campaign.wizard_completed" {
			foundCompletion = true
		}
	}
	if !foundCompletion {
		t.Fatalf("expected campaign.wizard_completed event in outbox")
	}

	completed := true
	drafts, err := module.Handler.ListDraftsHandler(ctx, "company-1", &completed)
	if err != nil {
		t.Fatalf("list drafts failed: %v", err)
	}
	if len(drafts.Items) != 1 {
		t.Fatalf("expected one completed draft, got %d", len(drafts.Items))
	}
}

func TestWizardFunnelDistributionPrefersPendingCalendar(t *testing.T) {
	module := campaignwizard.NewInMemoryModule(testProfiles(), nil)
	ctx := context.Background()

	session := startedSession(t, module)
	session = completeObjective(t, module, session.SessionID)
	_ = completeAudience(t, module, session.SessionID)

	strategyResp, err := module.Handler.GenerateStrategyHandler(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("generate strategy failed: %v", err)
	}
	if _, err := module.Handler.CompleteStepHandler(ctx, session.SessionID, httptransport.CompleteStepRequest{
		Kind:     "strategy",
		Strategy: &strategyResp.Strategy,
	}); err != nil {
		t.Fatalf("complete strategy failed: %v", err)
	}

	startDate := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	if _, err := module.Handler.GenerateCalendarHandler(ctx, session.SessionID, httptransport.GenerateCalendarRequest{
		Platforms:    []string{"instagram"},
		StartDate:    startDate,
		DurationDays: 4,
	}); err != nil {
		t.Fatalf("generate calendar failed: %v", err)
	}

	funnel, err := module.Handler.FunnelDistributionHandler(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("funnel distribution failed: %v", err)
	}
	if funnel.ItemCount != 4 {
		t.Fatalf("expected distribution over the pending calendar's 4 items, got %d", funnel.ItemCount)
	}
	total := 0
	for _, count := range funnel.Distribution {
		total += count
	}
	if total != funnel.ItemCount {
		t.Fatalf("distribution counts %d do not sum to item count %d", total, funnel.ItemCount)
	}
}
