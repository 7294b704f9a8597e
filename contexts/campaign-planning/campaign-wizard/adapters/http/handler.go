package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"brandpilot/contexts/campaign-planning/campaign-wizard/application/commands"
	"brandpilot/contexts/campaign-planning/campaign-wizard/application/queries"
	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	domainerrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	httptransport "brandpilot/contexts/campaign-planning/campaign-wizard/transport/http"
)

type Handler struct {
	StartSession        commands.StartSessionUseCase
	CompleteStep        commands.CompleteStepUseCase
	Navigate            commands.NavigateUseCase
	UpdatePreview       commands.UpdatePreviewUseCase
	GenerateStrategy    commands.GenerateStrategyUseCase
	GenerateCalendar    commands.GenerateCalendarUseCase
	EditCalendarItem    commands.EditCalendarItemUseCase
	CreateContent       commands.CreateContentUseCase
	SchedulePosts       commands.SchedulePostsUseCase
	RetrySchedule       commands.RetryScheduledPostUseCase
	RemoveSchedule      commands.RemoveScheduledPostUseCase
	CaptureMeasurements commands.CaptureMeasurementsUseCase
	GetSession          queries.GetSessionUseCase
	FunnelDistribution  queries.FunnelDistributionUseCase
	ListDrafts          queries.ListDraftsUseCase
	Logger              *slog.Logger
}

func (h Handler) StartSessionHandler(
	ctx context.Context,
	req httptransport.StartSessionRequest,
) (httptransport.SessionResponse, error) {
	result, err := h.StartSession.Execute(ctx, commands.StartSessionCommand{
		CompanyID:   req.CompanyID,
		DraftID:     req.DraftID,
		InitialStep: req.InitialStep,
	})
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return httptransport.SessionResponse{Session: mapSession(result.Session)}, nil
}

func (h Handler) GetSessionHandler(ctx context.Context, sessionID string) (httptransport.SessionResponse, error) {
	session, err := h.GetSession.Execute(ctx, sessionID)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return httptransport.SessionResponse{Session: mapSession(session)}, nil
}

func (h Handler) CompleteStepHandler(
	ctx context.Context,
	sessionID string,
	req httptransport.CompleteStepRequest,
) (httptransport.SessionResponse, error) {
	payload, err := payloadFromRequest(req)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	result, err := h.CompleteStep.Execute(ctx, commands.CompleteStepCommand{
		SessionID: sessionID,
		Payload:   payload,
	})
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return httptransport.SessionResponse{Session: mapSession(result.Session)}, nil
}

func (h Handler) NavigateHandler(
	ctx context.Context,
	sessionID string,
	req httptransport.NavigateRequest,
) (httptransport.SessionResponse, error) {
	action, ok := navigateAction(req.Action)
	if !ok {
		return httptransport.SessionResponse{}, domainerrors.ErrStepNotReachable
	}
	result, err := h.Navigate.Execute(ctx, commands.NavigateCommand{
		SessionID:  sessionID,
		Action:     action,
		TargetStep: req.Step,
	})
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return httptransport.SessionResponse{Session: mapSession(result.Session)}, nil
}

func (h Handler) UpdatePreviewHandler(
	ctx context.Context,
	sessionID string,
	req httptransport.PreviewRequest,
) error {
	return h.UpdatePreview.Execute(ctx, commands.UpdatePreviewCommand{
		SessionID: sessionID,
		Data:      req.Data,
	})
}

func (h Handler) GenerateStrategyHandler(ctx context.Context, sessionID string) (httptransport.GenerateStrategyResponse, error) {
	result, err := h.GenerateStrategy.Execute(ctx, commands.GenerateStrategyCommand{SessionID: sessionID})
	if err != nil {
		return httptransport.GenerateStrategyResponse{}, err
	}
	return httptransport.GenerateStrategyResponse{Strategy: mapStrategy(result.Strategy)}, nil
}

func (h Handler) GenerateCalendarHandler(
	ctx context.Context,
	sessionID string,
	req httptransport.GenerateCalendarRequest,
) (httptransport.GenerateCalendarResponse, error) {
	result, err := h.GenerateCalendar.Execute(ctx, commands.GenerateCalendarCommand{
		SessionID:    sessionID,
		Platforms:    req.Platforms,
		StartDate:    req.StartDate,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		return httptransport.GenerateCalendarResponse{}, err
	}
	return httptransport.GenerateCalendarResponse{Calendar: mapCalendar(result.Calendar)}, nil
}

func (h Handler) EditCalendarItemHandler(
	ctx context.Context,
	sessionID string,
	itemID string,
	req httptransport.EditCalendarItemRequest,
) (httptransport.GenerateCalendarResponse, error) {
	patch := entities.CalendarItemPatch{
		Platform: req.Platform,
		Date:     req.Date,
		Time:     req.Time,
		Hook:     req.Hook,
		Copy:     req.Copy,
	}
	if req.ContentType != nil {
		contentType := entities.ContentType(*req.ContentType)
		patch.ContentType = &contentType
	}
	if req.FunnelStage != nil {
		stage := entities.FunnelStage(*req.FunnelStage)
		patch.FunnelStage = &stage
	}
	result, err := h.EditCalendarItem.Execute(ctx, commands.EditCalendarItemCommand{
		SessionID: sessionID,
		ItemID:    itemID,
		Patch:     patch,
	})
	if err != nil {
		return httptransport.GenerateCalendarResponse{}, err
	}
	return httptransport.GenerateCalendarResponse{Calendar: mapCalendar(result.Calendar)}, nil
}

func (h Handler) CreateContentHandler(
	ctx context.Context,
	sessionID string,
	req httptransport.CreateContentRequest,
) (httptransport.CreateContentResponse, error) {
	result, err := h.CreateContent.Execute(ctx, commands.CreateContentCommand{
		SessionID: sessionID,
		ItemIDs:   req.ItemIDs,
	})
	if err != nil {
		return httptransport.CreateContentResponse{}, err
	}
	items := make([]httptransport.ContentItemDTO, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, mapContentItem(item))
	}
	return httptransport.CreateContentResponse{
		Items:     items,
		Succeeded: result.Succeeded,
		Total:     result.Total,
	}, nil
}

func (h Handler) SchedulePostsHandler(ctx context.Context, sessionID string) (httptransport.SchedulePostsResponse, error) {
	result, err := h.SchedulePosts.Execute(ctx, commands.SchedulePostsCommand{SessionID: sessionID})
	if err != nil {
		return httptransport.SchedulePostsResponse{}, err
	}
	posts := make([]httptransport.ScheduledPostDTO, 0, len(result.Posts))
	for _, post := range result.Posts {
		posts = append(posts, mapScheduledPost(post))
	}
	return httptransport.SchedulePostsResponse{
		Posts:     posts,
		Succeeded: result.Succeeded,
		Total:     result.Total,
	}, nil
}

func (h Handler) RetryScheduleHandler(
	ctx context.Context,
	sessionID string,
	itemID string,
) (httptransport.RetryScheduledPostResponse, error) {
	result, err := h.RetrySchedule.Execute(ctx, commands.RetryScheduledPostCommand{
		SessionID: sessionID,
		ItemID:    itemID,
	})
	if err != nil {
		return httptransport.RetryScheduledPostResponse{}, err
	}
	return httptransport.RetryScheduledPostResponse{Post: mapScheduledPost(result.Post)}, nil
}

func (h Handler) RemoveScheduleHandler(ctx context.Context, sessionID string, itemID string) error {
	return h.RemoveSchedule.Execute(ctx, commands.RemoveScheduledPostCommand{
		SessionID: sessionID,
		ItemID:    itemID,
	})
}

func (h Handler) CaptureMeasurementsHandler(ctx context.Context, sessionID string) (httptransport.MeasurementsResponse, error) {
	result, err := h.CaptureMeasurements.Execute(ctx, commands.CaptureMeasurementsCommand{SessionID: sessionID})
	if err != nil {
		return httptransport.MeasurementsResponse{}, err
	}
	return httptransport.MeasurementsResponse{Measurements: mapMeasurements(result.Measurements)}, nil
}

func (h Handler) FunnelDistributionHandler(ctx context.Context, sessionID string) (httptransport.FunnelDistributionResponse, error) {
	result, err := h.FunnelDistribution.Execute(ctx, sessionID)
	if err != nil {
		return httptransport.FunnelDistributionResponse{}, err
	}
	distribution := make(map[string]int, len(result.Distribution))
	for stage, count := range result.Distribution {
		distribution[string(stage)] = count
	}
	return httptransport.FunnelDistributionResponse{
		Distribution: distribution,
		ItemCount:    result.ItemCount,
	}, nil
}

func (h Handler) ListDraftsHandler(
	ctx context.Context,
	companyID string,
	completed *bool,
) (httptransport.ListDraftsResponse, error) {
	records, err := h.ListDrafts.Execute(ctx, queries.ListDraftsQuery{
		CompanyID: companyID,
		Completed: completed,
	})
	if err != nil {
		return httptransport.ListDraftsResponse{}, err
	}
	items := make([]httptransport.DraftDTO, 0, len(records))
	for _, record := range records {
		items = append(items, httptransport.DraftDTO{
			DraftID:   record.DraftID,
			CompanyID: record.CompanyID,
			StepName:  record.StepName,
			Completed: record.Completed,
			CreatedAt: record.CreatedAt.Format(time.RFC3339),
			UpdatedAt: record.UpdatedAt.Format(time.RFC3339),
		})
	}
	return httptransport.ListDraftsResponse{Items: items}, nil
}

func navigateAction(raw string) (commands.NavigateAction, bool) {
	switch raw {
	case "goto":
		return commands.NavigateActionGoTo, true
	case "next":
		return commands.NavigateActionNext, true
	case "prev":
		return commands.NavigateActionPrev, true
	default:
		return "", false
	}
}

func payloadFromRequest(req httptransport.CompleteStepRequest) (entities.StepPayload, error) {
	kind := entities.StepKind(req.Kind)
	if _, ok := entities.StepForKind(kind); !ok {
		return entities.StepPayload{}, domainerrors.ErrStepKindMismatch
	}

	payload := entities.StepPayload{Kind: kind}
	if req.Objective != nil {
		payload.Objective = &entities.ObjectivePatch{
			Goal:          req.Objective.Goal,
			Name:          req.Objective.Name,
			TargetMetrics: req.Objective.TargetMetrics,
			Timeline:      req.Objective.Timeline,
			Budget:        req.Objective.Budget,
		}
	}
	if req.Audience != nil {
		audience := toAudience(*req.Audience)
		payload.Audience = &audience
	}
	if req.Strategy != nil {
		strategy := toStrategy(*req.Strategy)
		payload.Strategy = &strategy
	}
	if req.Calendar != nil {
		calendar := toCalendar(*req.Calendar)
		payload.Calendar = &calendar
	}
	if req.Content != nil {
		content := make([]entities.ContentItem, 0, len(req.Content))
		for _, item := range req.Content {
			content = append(content, toContentItem(item))
		}
		payload.Content = content
	}
	if req.Schedule != nil {
		schedule := make([]entities.ScheduledPost, 0, len(req.Schedule))
		for _, post := range req.Schedule {
			converted, err := toScheduledPost(post)
			if err != nil {
				return entities.StepPayload{}, err
			}
			schedule = append(schedule, converted)
		}
		payload.Schedule = schedule
	}
	if req.Measurement != nil {
		measurement, err := toMeasurements(*req.Measurement)
		if err != nil {
			return entities.StepPayload{}, err
		}
		payload.Measurement = &measurement
	}
	return payload, nil
}
