package queries

import (
	"context"
	"log/slog"

	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"
)

type GetSessionUseCase struct {
	Sessions ports.SessionRepository
	Logger   *slog.Logger
}

func (uc GetSessionUseCase) Execute(ctx context.Context, sessionID string) (entities.WizardSession, error) {
	return uc.Sessions.GetSession(ctx, sessionID)
}
