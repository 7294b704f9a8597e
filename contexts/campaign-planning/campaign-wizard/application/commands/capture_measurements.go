package commands

import (
	"context"
	"fmt"
	"log/slog"

	application "brandpilot/contexts/campaign-planning/campaign-wizard/application"
	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	domainerrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"
)

type CaptureMeasurementsCommand struct {
	SessionID string
}

// CaptureMeasurementsUseCase fetches the analytics snapshot the measurement
// step commits as the wizard's terminal payload.
type CaptureMeasurementsUseCase struct {
	Sessions  ports.SessionRepository
	Analytics ports.Analytics
	Clock     ports.Clock
	Logger    *slog.Logger
}

type CaptureMeasurementsResult struct {
	Measurements entities.Measurements
}

func (uc CaptureMeasurementsUseCase) Execute(ctx context.Context, cmd CaptureMeasurementsCommand) (CaptureMeasurementsResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	session, err := uc.Sessions.GetSession(ctx, cmd.SessionID)
	if err != nil {
		return CaptureMeasurementsResult{}, err
	}

	snapshot, err := uc.Analytics.Snapshot(ctx, session.CompanyID)
	if err != nil {
		return CaptureMeasurementsResult{}, fmt.Errorf("%w: %v", domainerrors.ErrGenerationFailed, err)
	}
	if snapshot.CapturedAt.IsZero() {
		snapshot.CapturedAt = uc.Clock.Now().UTC()
	}

	logger.Info("measurement snapshot captured",
		"event", "wizard_measurements_captured",
		"module", "campaign-planning/campaign-wizard",
		"layer", "application",
		"session_id", session.SessionID,
	)
	return CaptureMeasurementsResult{Measurements: snapshot}, nil
}
