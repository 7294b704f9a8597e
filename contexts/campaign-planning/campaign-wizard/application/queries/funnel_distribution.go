package queries

import (
	"context"
	"log/slog"

	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"
)

type FunnelDistributionResult struct {
	Distribution map[entities.FunnelStage]int
	ItemCount    int
}

// FunnelDistributionUseCase summarizes the calendar's items per funnel stage.
// It prefers the pending working copy so the display tracks unconfirmed
// edits.
type FunnelDistributionUseCase struct {
	Sessions ports.SessionRepository
	Logger   *slog.Logger
}

func (uc FunnelDistributionUseCase) Execute(ctx context.Context, sessionID string) (FunnelDistributionResult, error) {
	session, err := uc.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return FunnelDistributionResult{}, err
	}

	calendar := session.Aggregate.Calendar
	if session.PendingCalendar != nil {
		calendar = *session.PendingCalendar
	}
	return FunnelDistributionResult{
		Distribution: calendar.FunnelDistribution(),
		ItemCount:    len(calendar.Items),
	}, nil
}
