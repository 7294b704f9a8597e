package httpadapter

import (
	"fmt"
	"time"

	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	domainerrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	httptransport "brandpilot/contexts/campaign-planning/campaign-wizard/transport/http"
)

func mapSession(session entities.WizardSession) httptransport.SessionDTO {
	kind, _ := entities.KindForStep(session.CurrentStep)

	dto := httptransport.SessionDTO{
		SessionID:       session.SessionID,
		CompanyID:       session.CompanyID,
		CurrentStep:     session.CurrentStep,
		CurrentStepKind: string(kind),
		CompletedSteps:  session.CompletedSteps,
		DraftID:         session.DraftID,
		StrategyID:      session.StrategyID,
		CalendarID:      session.CalendarID,
		Campaign:        mapCampaign(session.Aggregate),
		Status:          string(session.Status),
		CreatedAt:       session.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       session.UpdatedAt.Format(time.RFC3339),
	}
	if session.PendingCalendar != nil {
		calendar := mapCalendar(*session.PendingCalendar)
		dto.PendingCalendar = &calendar
	}
	for _, warning := range session.SaveWarnings {
		dto.SaveWarnings = append(dto.SaveWarnings, httptransport.SaveWarningDTO{
			Operation:  warning.Operation,
			Message:    warning.Message,
			OccurredAt: warning.OccurredAt.Format(time.RFC3339),
		})
	}
	return dto
}

func mapCampaign(data entities.CampaignData) httptransport.CampaignDataDTO {
	dto := httptransport.CampaignDataDTO{
		Objective:    mapObjective(data.Objective),
		Company:      mapCompany(data.Company),
		Audience:     mapAudience(data.Audience),
		Strategy:     mapStrategy(data.Strategy),
		Calendar:     mapCalendar(data.Calendar),
		Measurements: mapMeasurements(data.Measurements),
	}
	for _, item := range data.Content {
		dto.Content = append(dto.Content, mapContentItem(item))
	}
	for _, post := range data.Schedule {
		dto.Schedule = append(dto.Schedule, mapScheduledPost(post))
	}
	return dto
}

func mapObjective(objective entities.Objective) httptransport.ObjectiveDTO {
	return httptransport.ObjectiveDTO{
		Goal:          objective.Goal,
		Name:          objective.Name,
		TargetMetrics: objective.TargetMetrics,
		Timeline:      objective.Timeline,
		Budget:        objective.Budget,
	}
}

func mapCompany(company entities.CompanySnapshot) httptransport.CompanyDTO {
	dto := httptransport.CompanyDTO{
		CompanyID:         company.CompanyID,
		Name:              company.Name,
		Country:           company.Country,
		BusinessObjective: company.BusinessObjective,
		ValueProposition:  company.ValueProposition,
		Website:           company.Website,
	}
	for _, account := range company.ActiveAccounts {
		dto.ActiveAccounts = append(dto.ActiveAccounts, httptransport.SocialAccountDTO{
			Platform: account.Platform,
			Username: account.Username,
		})
	}
	return dto
}

func mapPersona(persona entities.Persona) httptransport.PersonaDTO {
	return httptransport.PersonaDTO{
		Name:       persona.Name,
		AgeRange:   persona.AgeRange,
		Gender:     persona.Gender,
		Location:   persona.Location,
		Interests:  persona.Interests,
		PainPoints: persona.PainPoints,
	}
}

func mapAudience(audience entities.AudienceSelection) httptransport.AudienceDTO {
	dto := httptransport.AudienceDTO{Analysis: audience.Analysis}
	for _, persona := range audience.Personas {
		dto.Personas = append(dto.Personas, mapPersona(persona))
	}
	if audience.Primary != nil {
		primary := mapPersona(*audience.Primary)
		dto.Primary = &primary
	}
	return dto
}

func mapStrategy(strategy entities.Strategy) httptransport.StrategyDTO {
	return httptransport.StrategyDTO{
		Positioning:    strategy.Positioning,
		ToneOfVoice:    strategy.ToneOfVoice,
		ContentPillars: strategy.ContentPillars,
		PlatformFocus:  strategy.PlatformFocus,
		KeyMessages:    strategy.KeyMessages,
	}
}

func mapCalendar(calendar entities.Calendar) httptransport.CalendarDTO {
	dto := httptransport.CalendarDTO{
		SelectedPlatforms: calendar.SelectedPlatforms,
		DurationDays:      calendar.DurationDays,
		StartDate:         calendar.StartDate,
	}
	for _, item := range calendar.Items {
		dto.Items = append(dto.Items, httptransport.CalendarItemDTO{
			ItemID:      item.ItemID,
			Platform:    item.Platform,
			Date:        item.Date,
			Time:        item.Time,
			ContentType: string(item.ContentType),
			FunnelStage: string(item.FunnelStage),
			Hook:        item.Hook,
			Copy:        item.Copy,
		})
	}
	return dto
}

func mapContentItem(item entities.ContentItem) httptransport.ContentItemDTO {
	return httptransport.ContentItemDTO{
		ItemID:      item.ItemID,
		Platform:    item.Platform,
		ContentType: string(item.ContentType),
		Text:        item.Text,
		MediaURL:    item.MediaURL,
		Status:      string(item.Status),
		Error:       item.Error,
	}
}

func mapScheduledPost(post entities.ScheduledPost) httptransport.ScheduledPostDTO {
	dto := httptransport.ScheduledPostDTO{
		ItemID:      post.ItemID,
		Platform:    post.Platform,
		ContentType: string(post.ContentType),
		JobID:       post.JobID,
		Status:      string(post.Status),
		Error:       post.Error,
		RetryCount:  post.RetryCount,
	}
	if !post.ScheduledAt.IsZero() {
		dto.ScheduledAt = post.ScheduledAt.Format(time.RFC3339)
	}
	return dto
}

func mapMeasurements(measurements entities.Measurements) httptransport.MeasurementsDTO {
	dto := httptransport.MeasurementsDTO{
		TotalReach:     measurements.TotalReach,
		Engagements:    measurements.Engagements,
		EngagementRate: measurements.EngagementRate,
		FollowersDelta: measurements.FollowersDelta,
	}
	for _, metrics := range measurements.ByPlatform {
		dto.ByPlatform = append(dto.ByPlatform, httptransport.PlatformMetricsDTO{
			Platform:    metrics.Platform,
			Reach:       metrics.Reach,
			Engagements: metrics.Engagements,
		})
	}
	if !measurements.CapturedAt.IsZero() {
		dto.CapturedAt = measurements.CapturedAt.Format(time.RFC3339)
	}
	return dto
}

func toPersona(dto httptransport.PersonaDTO) entities.Persona {
	return entities.Persona{
		Name:       dto.Name,
		AgeRange:   dto.AgeRange,
		Gender:     dto.Gender,
		Location:   dto.Location,
		Interests:  dto.Interests,
		PainPoints: dto.PainPoints,
	}
}

func toAudience(dto httptransport.AudienceDTO) entities.AudienceSelection {
	audience := entities.AudienceSelection{Analysis: dto.Analysis}
	for _, persona := range dto.Personas {
		audience.Personas = append(audience.Personas, toPersona(persona))
	}
	if dto.Primary != nil {
		primary := toPersona(*dto.Primary)
		audience.Primary = &primary
	}
	return audience
}

func toStrategy(dto httptransport.StrategyDTO) entities.Strategy {
	return entities.Strategy{
		Positioning:    dto.Positioning,
		ToneOfVoice:    dto.ToneOfVoice,
		ContentPillars: dto.ContentPillars,
		PlatformFocus:  dto.PlatformFocus,
		KeyMessages:    dto.KeyMessages,
	}
}

func toCalendar(dto httptransport.CalendarDTO) entities.Calendar {
	calendar := entities.Calendar{
		SelectedPlatforms: dto.SelectedPlatforms,
		DurationDays:      dto.DurationDays,
		StartDate:         dto.StartDate,
	}
	for _, item := range dto.Items {
		calendar.Items = append(calendar.Items, entities.CalendarItem{
			ItemID:      item.ItemID,
			Platform:    item.Platform,
			Date:        item.Date,
			Time:        item.Time,
			ContentType: entities.ContentType(item.ContentType),
			FunnelStage: entities.FunnelStage(item.FunnelStage),
			Hook:        item.Hook,
			Copy:        item.Copy,
		})
	}
	return calendar
}

func toContentItem(dto httptransport.ContentItemDTO) entities.ContentItem {
	return entities.ContentItem{
		ItemID:      dto.ItemID,
		Platform:    dto.Platform,
		ContentType: entities.ContentType(dto.ContentType),
		Text:        dto.Text,
		MediaURL:    dto.MediaURL,
		Status:      entities.ContentStatus(dto.Status),
		Error:       dto.Error,
	}
}

func toScheduledPost(dto httptransport.ScheduledPostDTO) (entities.ScheduledPost, error) {
	post := entities.ScheduledPost{
		ItemID:      dto.ItemID,
		Platform:    dto.Platform,
		ContentType: entities.ContentType(dto.ContentType),
		JobID:       dto.JobID,
		Status:      entities.ScheduleStatus(dto.Status),
		Error:       dto.Error,
		RetryCount:  dto.RetryCount,
	}
	if dto.ScheduledAt != "" {
		scheduledAt, err := time.Parse(time.RFC3339, dto.ScheduledAt)
		if err != nil {
			return entities.ScheduledPost{}, fmt.Errorf("%w: scheduled_at: %v", domainerrors.ErrInvalidStepPayload, err)
		}
		post.ScheduledAt = scheduledAt.UTC()
	}
	return post, nil
}

func toMeasurements(dto httptransport.MeasurementsDTO) (entities.Measurements, error) {
	measurements := entities.Measurements{
		TotalReach:     dto.TotalReach,
		Engagements:    dto.Engagements,
		EngagementRate: dto.EngagementRate,
		FollowersDelta: dto.FollowersDelta,
	}
	for _, metrics := range dto.ByPlatform {
		measurements.ByPlatform = append(measurements.ByPlatform, entities.PlatformMetrics{
			Platform:    metrics.Platform,
			Reach:       metrics.Reach,
			Engagements: metrics.Engagements,
		})
	}
	if dto.CapturedAt != "" {
		capturedAt, err := time.Parse(time.RFC3339, dto.CapturedAt)
		if err != nil {
			return entities.Measurements{}, fmt.Errorf("%w: captured_at: %v", domainerrors.ErrInvalidStepPayload, err)
		}
		measurements.CapturedAt = capturedAt.UTC()
	}
	return measurements, nil
}
