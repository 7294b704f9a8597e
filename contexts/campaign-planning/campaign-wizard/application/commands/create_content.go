package commands

import (
	"context"
	"log/slog"
	"time"

	application "brandpilot/contexts/campaign-planning/campaign-wizard/application"
	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	domainerrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"
)

type CreateContentCommand struct {
	SessionID string
	ItemIDs   []string
}

// CreateContentUseCase runs the content-creation queue: the selected calendar
// entries are processed one at a time, in calendar order, through the
// generator matching each entry's content type. Items fail individually; a
// failure never aborts the rest of the queue. The Throttle pause between
// items keeps request bursts off the generation service.
type CreateContentUseCase struct {
	Sessions  ports.SessionRepository
	Generator ports.ContentGenerator
	Throttle  time.Duration
	Logger    *slog.Logger
}

type CreateContentResult struct {
	Items     []entities.ContentItem
	Succeeded int
	Total     int
}

func (uc CreateContentUseCase) Execute(ctx context.Context, cmd CreateContentCommand) (CreateContentResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	session, err := uc.Sessions.GetSession(ctx, cmd.SessionID)
	if err != nil {
		return CreateContentResult{}, err
	}

	selected := make(map[string]bool, len(cmd.ItemIDs))
	for _, itemID := range cmd.ItemIDs {
		selected[itemID] = true
	}

	queue := make([]entities.CalendarItem, 0, len(cmd.ItemIDs))
	for _, item := range session.Aggregate.Calendar.Items {
		if len(selected) == 0 || selected[item.ItemID] {
			queue = append(queue, item)
		}
	}
	if len(queue) == 0 {
		return CreateContentResult{}, domainerrors.ErrCalendarItemNotFound
	}

	persona, _ := session.Aggregate.Audience.First()
	brandTone := session.Aggregate.Strategy.ToneOfVoice

	results := make([]entities.ContentItem, len(queue))
	for index, entry := range queue {
		results[index] = entities.ContentItem{
			ItemID:      entry.ItemID,
			Platform:    entry.Platform,
			ContentType: entry.ContentType,
			Status:      entities.ContentStatusPending,
		}
	}

	succeeded := 0
	for index, entry := range queue {
		if index > 0 {
			if err := pause(ctx, uc.Throttle); err != nil {
				return CreateContentResult{}, err
			}
		}

		item := &results[index]
		item.Status = entities.ContentStatusCreating
		result, err := uc.generateFor(ctx, ports.ContentInput{
			BrandTone: brandTone,
			Persona:   persona,
			Item:      entry,
		}, entry.ContentType)
		if err != nil {
			item.Status = entities.ContentStatusError
			item.Error = err.Error()
			logger.Warn("content generation failed",
				"event", "wizard_content_item_failed",
				"module", "campaign-planning/campaign-wizard",
				"layer", "application",
				"session_id", session.SessionID,
				"item_id", entry.ItemID,
				"content_type", string(entry.ContentType),
				"error", err.Error(),
			)
		} else {
			item.Status = entities.ContentStatusCompleted
			item.Text = result.Text
			item.MediaURL = result.MediaURL
			succeeded++
		}
	}

	logger.Info("content creation queue finished",
		"event", "wizard_content_created",
		"module", "campaign-planning/campaign-wizard",
		"layer", "application",
		"session_id", session.SessionID,
		"succeeded", succeeded,
		"total", len(queue),
	)
	return CreateContentResult{
		Items:     results,
		Succeeded: succeeded,
		Total:     len(queue),
	}, nil
}

func (uc CreateContentUseCase) generateFor(
	ctx context.Context,
	input ports.ContentInput,
	contentType entities.ContentType,
) (ports.ContentResult, error) {
	switch contentType {
	case entities.ContentTypeImage:
		return uc.Generator.GenerateImage(ctx, input)
	case entities.ContentTypeVideo:
		return uc.Generator.GenerateVideo(ctx, input)
	default:
		return uc.Generator.GenerateText(ctx, input)
	}
}

func pause(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
