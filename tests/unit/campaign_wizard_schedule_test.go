package unit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	campaignwizard "brandpilot/contexts/campaign-planning/campaign-wizard"
	domainerrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"
	httptransport "brandpilot/contexts/campaign-planning/campaign-wizard/transport/http"
)

// flakyScheduler fails a fixed number of calls before succeeding.
type flakyScheduler struct {
	failures int
	calls    int
}

func (s *flakyScheduler) SchedulePost(context.Context, ports.PostRequest) (string, error) {
	s.calls++
	if s.failures > 0 {
		s.failures--
		return "", errors.New("scheduler unavailable")
	}
	return fmt.Sprintf("job-%d", s.calls), nil
}

// sessionAtContentStep walks a session through objective, audience, strategy
// and calendar using an explicit calendar payload so tests control the
// platform and content type of every item.
func sessionAtContentStep(t *testing.T, module campaignwizard.Module, calendar httptransport.CalendarDTO) string {
	t.Helper()
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

	if _, err := module.Handler.CompleteStepHandler(ctx, session.SessionID, httptransport.CompleteStepRequest{
		Kind:     "calendar",
		Calendar: &calendar,
	}); err != nil {
		t.Fatalf("complete calendar failed: %v", err)
	}
	return session.SessionID
}

func TestSchedulePostsFailsItemOnCapabilityMismatch(t *testing.T) {
	module := campaignwizard.NewInMemoryModule(testProfiles(), nil)
	ctx := context.Background()

	futureDate := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	calendar := httptransport.CalendarDTO{
		Items: []httptransport.CalendarItemDTO{
			{ItemID: "item-text-tiktok", Platform: "tiktok", Date: futureDate, Time: "10:00", ContentType: "text", FunnelStage: "awareness", Hook: "hook one"},
			{ItemID: "item-video-tiktok", Platform: "tiktok", Date: futureDate, Time: "11:00", ContentType: "video", FunnelStage: "awareness", Hook: "hook two"},
		},
		SelectedPlatforms: []string{"tiktok"},
		DurationDays:      1,
		StartDate:         futureDate,
	}
	sessionID := sessionAtContentStep(t, module, calendar)

	if _, err := module.Handler.CompleteStepHandler(ctx, sessionID, httptransport.CompleteStepRequest{
		Kind: "content",
		Content: []httptransport.ContentItemDTO{
			{ItemID: "item-text-tiktok", Platform: "tiktok", ContentType: "text", Text: "caption", Status: "completed"},
			{ItemID: "item-video-tiktok", Platform: "tiktok", ContentType: "video", Text: "caption", MediaURL: "https://cdn.example.com/v.mp4", Status: "completed"},
		},
	}); err != nil {
		t.Fatalf("complete content failed: %v", err)
	}

	resp, err := module.Handler.SchedulePostsHandler(ctx, sessionID)
	if err != nil {
		t.Fatalf("schedule posts failed: %v", err)
	}
	if resp.Total != 2 || resp.Succeeded != 1 {
		t.Fatalf("expected 1/2 scheduled, got %d/%d", resp.Succeeded, resp.Total)
	}

	var failed, scheduled *httptransport.ScheduledPostDTO
	for i := range resp.Posts {
		switch resp.Posts[i].Status {
		case "failed":
			failed = &resp.Posts[i]
		case "scheduled":
			scheduled = &resp.Posts[i]
		}
	}
	if failed == nil || failed.ItemID != "item-text-tiktok" {
		t.Fatalf("expected the text item to fail, got %+v", resp.Posts)
	}
	if !strings.Contains(failed.Error, "does not accept") {
		t.Fatalf("expected capability error message, got %q", failed.Error)
	}
	if scheduled == nil || scheduled.JobID == "" {
		t.Fatalf("expected the video item to schedule with a job id")
	}
}

func TestScheduledAtRespectsMinimumLead(t *testing.T) {
	module := campaignwizard.NewInMemoryModule(testProfiles(), nil)
	ctx := context.Background()

	// Calendar date is tomorrow; with the 25 hour minimum lead the post must
	// be pushed at least one extra day out.
	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	calendar := httptransport.CalendarDTO{
		Items: []httptransport.CalendarItemDTO{
			{ItemID: "item-1", Platform: "twitter", Date: tomorrow, Time: "00:30", ContentType: "text", FunnelStage: "awareness", Hook: "soon"},
		},
		SelectedPlatforms: []string{"twitter"},
		DurationDays:      1,
		StartDate:         tomorrow,
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

	resp, err := module.Handler.SchedulePostsHandler(ctx, sessionID)
	if err != nil {
		t.Fatalf("schedule posts failed: %v", err)
	}
	if resp.Succeeded != 1 {
		t.Fatalf("expected scheduled post, got %+v", resp.Posts)
	}

	scheduledAt, err := time.Parse(time.RFC3339, resp.Posts[0].ScheduledAt)
	if err != nil {
		t.Fatalf("parse scheduled_at failed: %v", err)
	}
	if scheduledAt.Before(time.Now().UTC().Add(25 * time.Hour)) {
		t.Fatalf("scheduled time %s violates the 25 hour lead", scheduledAt)
	}
}

func TestRetryScheduledPostKeepsSingleEntry(t *testing.T) {
	module := campaignwizard.NewInMemoryModule(testProfiles(), nil)
	ctx := context.Background()

	futureDate := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	calendar := httptransport.CalendarDTO{
		Items: []httptransport.CalendarItemDTO{
			{ItemID: "item-bad", Platform: "youtube", Date: futureDate, Time: "10:00", ContentType: "image", FunnelStage: "consideration", Hook: "thumb"},
		},
		SelectedPlatforms: []string{"youtube"},
		DurationDays:      1,
		StartDate:         futureDate,
	}
	sessionID := sessionAtContentStep(t, module, calendar)

	if _, err := module.Handler.CompleteStepHandler(ctx, sessionID, httptransport.CompleteStepRequest{
		Kind: "content",
		Content: []httptransport.ContentItemDTO{
			{ItemID: "item-bad", Platform: "youtube", ContentType: "image", MediaURL: "https://cdn.example.com/i.png", Status: "completed"},
		},
	}); err != nil {
		t.Fatalf("complete content failed: %v", err)
	}

	scheduleResp, err := module.Handler.SchedulePostsHandler(ctx, sessionID)
	if err != nil {
		t.Fatalf("schedule posts failed: %v", err)
	}
	if scheduleResp.Succeeded != 0 {
		t.Fatalf("expected the image-on-youtube post to fail")
	}

	if _, err := module.Handler.CompleteStepHandler(ctx, sessionID, httptransport.CompleteStepRequest{
		Kind:     "schedule",
		Schedule: scheduleResp.Posts,
	}); err != nil {
		t.Fatalf("complete schedule failed: %v", err)
	}

	retry, err := module.Handler.RetryScheduleHandler(ctx, sessionID, "item-bad")
	if err != nil {
		t.Fatalf("retry handler failed: %v", err)
	}
	if retry.Post.Status != "failed" {
		t.Fatalf("capability mismatch cannot succeed on retry, got %q", retry.Post.Status)
	}
	if retry.Post.RetryCount != 1 {
		t.Fatalf("expected retry count 1, got %d", retry.Post.RetryCount)
	}

	sessionResp, err := module.Handler.GetSessionHandler(ctx, sessionID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if len(sessionResp.Session.Campaign.Schedule) != 1 {
		t.Fatalf("retry must not duplicate schedule entries, got %d", len(sessionResp.Session.Campaign.Schedule))
	}

	_, err = module.Handler.RetryScheduleHandler(ctx, sessionID, "missing-item")
	if !errors.Is(err, domainerrors.ErrScheduleItemNotFound) {
		t.Fatalf("expected schedule item not found, got %v", err)
	}
}

func TestRetryTransitionsFailedPostToScheduled(t *testing.T) {
	module := moduleWithOverrides(func(deps *campaignwizard.Dependencies) {
		deps.Scheduler = &flakyScheduler{failures: 1}
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
	if scheduleResp.Succeeded != 0 || scheduleResp.Posts[0].Status != "failed" {
		t.Fatalf("expected the first attempt to fail, got %+v", scheduleResp.Posts)
	}
	if _, err := module.Handler.CompleteStepHandler(ctx, sessionID, httptransport.CompleteStepRequest{
		Kind:     "schedule",
		Schedule: scheduleResp.Posts,
	}); err != nil {
		t.Fatalf("complete schedule failed: %v", err)
	}

	retry, err := module.Handler.RetryScheduleHandler(ctx, sessionID, "item-1")
	if err != nil {
		t.Fatalf("retry handler failed: %v", err)
	}
	if retry.Post.Status != "scheduled" {
		t.Fatalf("expected retry to schedule the post, got %q", retry.Post.Status)
	}
	if retry.Post.RetryCount != 1 {
		t.Fatalf("expected retry count 1, got %d", retry.Post.RetryCount)
	}
	if retry.Post.Error != "" {
		t.Fatalf("successful retry must clear the error, got %q", retry.Post.Error)
	}
	if retry.Post.JobID == "" || retry.Post.ScheduledAt == "" {
		t.Fatalf("scheduled post must carry job id and timestamp, got %+v", retry.Post)
	}

	sessionResp, err := module.Handler.GetSessionHandler(ctx, sessionID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	schedule := sessionResp.Session.Campaign.Schedule
	if len(schedule) != 1 || schedule[0].Status != "scheduled" {
		t.Fatalf("retry must replace the failed entry in place, got %+v", schedule)
	}
}

func TestRemoveScheduledPost(t *testing.T) {
	module := campaignwizard.NewInMemoryModule(testProfiles(), nil)
	ctx := context.Background()

	futureDate := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	calendar := httptransport.CalendarDTO{
		Items: []httptransport.CalendarItemDTO{
			{ItemID: "item-1", Platform: "twitter", Date: futureDate, Time: "10:00", ContentType: "text", FunnelStage: "awareness", Hook: "one"},
			{ItemID: "item-2", Platform: "twitter", Date: futureDate, Time: "12:00", ContentType: "text", FunnelStage: "conversion", Hook: "two"},
		},
		SelectedPlatforms: []string{"twitter"},
		DurationDays:      1,
		StartDate:         futureDate,
	}
	sessionID := sessionAtContentStep(t, module, calendar)

	if _, err := module.Handler.CompleteStepHandler(ctx, sessionID, httptransport.CompleteStepRequest{
		Kind: "content",
		Content: []httptransport.ContentItemDTO{
			{ItemID: "item-1", Platform: "twitter", ContentType: "text", Text: "a", Status: "completed"},
			{ItemID: "item-2", Platform: "twitter", ContentType: "text", Text: "b", Status: "completed"},
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

	// Only failed posts can be retried.
	if _, err := module.Handler.RetryScheduleHandler(ctx, sessionID, "item-1"); !errors.Is(err, domainerrors.ErrRetryNotFailed) {
		t.Fatalf("expected retry-not-failed, got %v", err)
	}

	if err := module.Handler.RemoveScheduleHandler(ctx, sessionID, "item-1"); err != nil {
		t.Fatalf("remove schedule failed: %v", err)
	}

	sessionResp, err := module.Handler.GetSessionHandler(ctx, sessionID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if len(sessionResp.Session.Campaign.Schedule) != 1 || sessionResp.Session.Campaign.Schedule[0].ItemID != "item-2" {
		t.Fatalf("expected only item-2 to remain, got %+v", sessionResp.Session.Campaign.Schedule)
	}
}
