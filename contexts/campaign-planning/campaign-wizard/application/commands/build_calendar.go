package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	application "brandpilot/contexts/campaign-planning/campaign-wizard/application"
	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	domainerrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"
)

type GenerateCalendarCommand struct {
	SessionID    string
	Platforms    []string
	StartDate    string
	DurationDays int
}

// GenerateCalendarUseCase is the calendar step's generation path. The result
// becomes the session's pending working copy: regenerating replaces it
// wholesale, EditCalendarItem patches it in place, and CompleteStep commits
// it into the aggregate.
type GenerateCalendarUseCase struct {
	Sessions  ports.SessionRepository
	Generator ports.CalendarGenerator
	IDGen     ports.IDGenerator
	Clock     ports.Clock
	Logger    *slog.Logger
}

type GenerateCalendarResult struct {
	Calendar entities.Calendar
}

func (uc GenerateCalendarUseCase) Execute(ctx context.Context, cmd GenerateCalendarCommand) (GenerateCalendarResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	session, err := uc.Sessions.GetSession(ctx, cmd.SessionID)
	if err != nil {
		return GenerateCalendarResult{}, err
	}

	platforms := normalizePlatforms(cmd.Platforms)
	if len(platforms) == 0 {
		return GenerateCalendarResult{}, domainerrors.ErrNoPlatformSelected
	}
	for _, platform := range platforms {
		if !entities.IsSupportedPlatform(platform) {
			return GenerateCalendarResult{}, fmt.Errorf("%w: %q", domainerrors.ErrUnsupportedPlatform, platform)
		}
	}

	calendar, err := uc.Generator.GenerateCalendar(ctx, ports.CalendarInput{
		Company:      session.Aggregate.Company,
		Strategy:     session.Aggregate.Strategy,
		Platforms:    platforms,
		StartDate:    strings.TrimSpace(cmd.StartDate),
		DurationDays: cmd.DurationDays,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrRateLimited) {
			return GenerateCalendarResult{}, err
		}
		return GenerateCalendarResult{}, fmt.Errorf("%w: %v", domainerrors.ErrGenerationFailed, err)
	}

	calendar.SelectedPlatforms = platforms
	calendar.StartDate = strings.TrimSpace(cmd.StartDate)
	calendar.DurationDays = cmd.DurationDays
	for index := range calendar.Items {
		if calendar.Items[index].ItemID != "" {
			continue
		}
		itemID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return GenerateCalendarResult{}, err
		}
		calendar.Items[index].ItemID = itemID
	}

	session.PendingCalendar = &calendar
	session.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Sessions.UpdateSession(ctx, session); err != nil {
		return GenerateCalendarResult{}, err
	}

	logger.Info("content calendar generated",
		"event", "wizard_calendar_generated",
		"module", "campaign-planning/campaign-wizard",
		"layer", "application",
		"session_id", session.SessionID,
		"item_count", len(calendar.Items),
		"platform_count", len(platforms),
	)
	return GenerateCalendarResult{Calendar: calendar}, nil
}

type EditCalendarItemCommand struct {
	SessionID string
	ItemID    string
	Patch     entities.CalendarItemPatch
}

// EditCalendarItemUseCase applies a field-level edit to one entry of the
// pending calendar before it is confirmed.
type EditCalendarItemUseCase struct {
	Sessions ports.SessionRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

type EditCalendarItemResult struct {
	Calendar entities.Calendar
}

func (uc EditCalendarItemUseCase) Execute(ctx context.Context, cmd EditCalendarItemCommand) (EditCalendarItemResult, error) {
	session, err := uc.Sessions.GetSession(ctx, cmd.SessionID)
	if err != nil {
		return EditCalendarItemResult{}, err
	}
	if session.PendingCalendar == nil {
		return EditCalendarItemResult{}, domainerrors.ErrCalendarItemNotFound
	}
	if !session.PendingCalendar.PatchItem(cmd.ItemID, cmd.Patch) {
		return EditCalendarItemResult{}, domainerrors.ErrCalendarItemNotFound
	}

	session.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Sessions.UpdateSession(ctx, session); err != nil {
		return EditCalendarItemResult{}, err
	}
	return EditCalendarItemResult{Calendar: *session.PendingCalendar}, nil
}

func normalizePlatforms(platforms []string) []string {
	normalized := make([]string, 0, len(platforms))
	seen := make(map[string]bool, len(platforms))
	for _, platform := range platforms {
		value := strings.ToLower(strings.TrimSpace(platform))
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		normalized = append(normalized, value)
	}
	return normalized
}
