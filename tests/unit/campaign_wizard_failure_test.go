package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	campaignwizard "brandpilot/contexts/campaign-planning/campaign-wizard"
	"brandpilot/contexts/campaign-planning/campaign-wizard/adapters/memory"
	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	domainerrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"
	httptransport "brandpilot/contexts/campaign-planning/campaign-wizard/transport/http"
)

// failingDrafts rejects every write so tests can observe the warning path.
type failingDrafts struct {
	ports.DraftRepository
}

func (failingDrafts) UpsertDraft(context.Context, string, string, entities.CampaignData, string) (string, error) {
	return "", errors.New("draft store offline")
}

// flakyOutbox fails a fixed number of appends before delegating.
type flakyOutbox struct {
	ports.OutboxWriter
	failures int
}

func (o *flakyOutbox) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	if o.failures > 0 {
		o.failures--
		return errors.New("outbox unavailable")
	}
	return o.OutboxWriter.AppendOutbox(ctx, envelope)
}

// failingStrategyGen simulates a remote generator outage.
type failingStrategyGen struct{}

func (failingStrategyGen) GenerateStrategy(context.Context, ports.StrategyInput) (entities.Strategy, error) {
	return entities.Strategy{}, errors.New("upstream timeout")
}

func moduleWithOverrides(override func(*campaignwizard.Dependencies)) campaignwizard.Module {
	store := memory.NewStore(testProfiles())
	deps := campaignwizard.Dependencies{
		Sessions:    store,
		Drafts:      store,
		Audiences:   store,
		Strategies:  store,
		Calendars:   store,
		Profiles:    store,
		StrategyGen: store,
		CalendarGen: store,
		ContentGen:  store,
		Scheduler:   store,
		Analytics:   store,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
	}
	override(&deps)
	module := campaignwizard.NewModule(deps)
	module.Store = store
	return module
}

func TestCompleteStepRecordsWarningWhenDraftSaveFails(t *testing.T) {
	module := moduleWithOverrides(func(deps *campaignwizard.Dependencies) {
		deps.Drafts = failingDrafts{DraftRepository: deps.Drafts}
	})

	session := startedSession(t, module)
	session = completeObjective(t, module, session.SessionID)

	// The merge and the advance survive the failed draft save.
	if session.CurrentStep != 2 {
		t.Fatalf("expected advance to step 2 despite draft failure, got %d", session.CurrentStep)
	}
	if len(session.CompletedSteps) != 1 || session.CompletedSteps[0] != 1 {
		t.Fatalf("expected step 1 completed, got %v", session.CompletedSteps)
	}
	if session.DraftID != "" {
		t.Fatalf("failed save must not assign a draft id, got %q", session.DraftID)
	}
	if len(session.SaveWarnings) != 1 {
		t.Fatalf("expected one save warning, got %v", session.SaveWarnings)
	}
	warning := session.SaveWarnings[0]
	if warning.Operation != "save_campaign_draft" {
		t.Fatalf("unexpected warning operation %q", warning.Operation)
	}
	if warning.Message == "" || warning.OccurredAt == "" {
		t.Fatalf("warning must carry message and timestamp, got %+v", warning)
	}
}

func TestGenerateStrategyFailureLeavesSessionUnchanged(t *testing.T) {
	module := moduleWithOverrides(func(deps *campaignwizard.Dependencies) {
		deps.StrategyGen = failingStrategyGen{}
	})
	ctx := context.Background()

	session := startedSession(t, module)
	_ = completeObjective(t, module, session.SessionID)
	before := completeAudience(t, module, session.SessionID)

	_, err := module.Handler.GenerateStrategyHandler(ctx, session.SessionID)
	if !errors.Is(err, domainerrors.ErrGenerationFailed) {
		t.Fatalf("expected generation failure, got %v", err)
	}

	after, err := module.Handler.GetSessionHandler(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if after.Session.CurrentStep != before.CurrentStep {
		t.Fatalf("remote failure must not move the wizard, got step %d", after.Session.CurrentStep)
	}
	if after.Session.Campaign.Strategy.Positioning != "" || len(after.Session.Campaign.Strategy.ContentPillars) != 0 {
		t.Fatalf("remote failure must not commit a strategy, got %+v", after.Session.Campaign.Strategy)
	}
	if after.Session.UpdatedAt != before.UpdatedAt {
		t.Fatalf("remote failure must not touch the session")
	}
}

func TestStartSessionUnknownCompanyRejected(t *testing.T) {
	module := campaignwizard.NewInMemoryModule(testProfiles(), nil)
	_, err := module.Handler.StartSessionHandler(context.Background(), httptransport.StartSessionRequest{
		CompanyID: "company-404",
	})
	if !errors.Is(err, domainerrors.ErrMissingCompanyProfile) {
		t.Fatalf("expected missing company profile, got %v", err)
	}
}

func TestCompletionEventFailureLeavesDraftOpen(t *testing.T) {
	outbox := &flakyOutbox{failures: 1}
	module := moduleWithOverrides(func(deps *campaignwizard.Dependencies) {
		outbox.OutboxWriter = deps.Outbox
		deps.Outbox = outbox
	})
	ctx := context.Background()

	futureDate := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	calendar := httptransport.CalendarDTO{
		Items: []httptransport.CalendarItemDTO{
			{ItemID: "item-1", Platform: "twitter", Date: futureDate, Time: "10:00", ContentType: "text", FunnelStage: "awareness", Hook: "launch"},
		},
		SelectedPlatforms: []string{"twitter"},
		DurationDays:      1,
		StartDate:         futureDate,
	}
	sessionID := sessionAtContentStep(t, module, calendar)

	if _, err := module.Handler.CompleteStepHandler(ctx, sessionID, httptransport.CompleteStepRequest{
		Kind: "content",
		Content: []httptransport.ContentItemDTO{
			{ItemID: "item-1", Platform: "twitter", ContentType: "text", Text: "caption", Status: "completed"},
		},
	}); err != nil {
		t.Fatalf("complete content failed: %v", err)
	}
	scheduleResp, err := module.Handler.SchedulePostsHandler(ctx, sessionID)
	if err != nil {
		t.Fatalf("schedule posts failed: %v", err)
	}
	if _, err := module.Handler.CompleteStepHandler(ctx, sessionID, httptransport.CompleteStepRequest{
		Kind:     "schedule",
		Schedule: scheduleResp.Posts,
	}); err != nil {
		t.Fatalf("complete schedule failed: %v", err)
	}
	measureResp, err := module.Handler.CaptureMeasurementsHandler(ctx, sessionID)
	if err != nil {
		t.Fatalf("capture measurements failed: %v", err)
	}

	measurement := httptransport.CompleteStepRequest{
		Kind:        "measurement",
		Measurement: &measureResp.Measurements,
	}
	if _, err := module.Handler.CompleteStepHandler(ctx, sessionID, measurement); err == nil {
		t.Fatalf("expected completion to fail while the outbox is down")
	}

	sessionResp, err := module.Handler.GetSessionHandler(ctx, sessionID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if sessionResp.Session.Status != "active" || sessionResp.Session.CurrentStep != 7 {
		t.Fatalf("failed completion must leave the session active at step 7, got %s/%d",
			sessionResp.Session.Status, sessionResp.Session.CurrentStep)
	}
	completed := true
	drafts, err := module.Handler.ListDraftsHandler(ctx, "company-1", &completed)
	if err != nil {
		t.Fatalf("list drafts failed: %v", err)
	}
	if len(drafts.Items) != 0 {
		t.Fatalf("draft must stay open while the session is active, got %d completed", len(drafts.Items))
	}

	// The outbox recovers and the same completion goes through.
	resp, err := module.Handler.CompleteStepHandler(ctx, sessionID, measurement)
	if err != nil {
		t.Fatalf("retried completion failed: %v", err)
	}
	if resp.Session.Status != "completed" {
		t.Fatalf("expected completed session, got %q", resp.Session.Status)
	}
	drafts, err = module.Handler.ListDraftsHandler(ctx, "company-1", &completed)
	if err != nil {
		t.Fatalf("list drafts failed: %v", err)
	}
	if len(drafts.Items) != 1 {
		t.Fatalf("expected one completed draft after recovery, got %d", len(drafts.Items))
	}
}
