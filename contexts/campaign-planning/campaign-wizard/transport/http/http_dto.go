package http

import "encoding/json"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StartSessionRequest struct {
	CompanyID   string `json:"company_id"`
	DraftID     string `json:"draft_id,omitempty"`
	InitialStep int    `json:"initial_step,omitempty"`
}

type ObjectiveDTO struct {
	Goal          string             `json:"goal"`
	Name          string             `json:"name"`
	TargetMetrics map[string]float64 `json:"target_metrics,omitempty"`
	Timeline      string             `json:"timeline,omitempty"`
	Budget        *float64           `json:"budget,omitempty"`
}

type ObjectivePatchDTO struct {
	Goal          *string            `json:"goal"`
	Name          *string            `json:"name"`
	TargetMetrics map[string]float64 `json:"target_metrics"`
	Timeline      *string            `json:"timeline"`
	Budget        *float64           `json:"budget"`
}

type SocialAccountDTO struct {
	Platform string `json:"platform"`
	Username string `json:"username"`
}

type CompanyDTO struct {
	CompanyID         string             `json:"company_id"`
	Name              string             `json:"name"`
	Country           string             `json:"country,omitempty"`
	BusinessObjective string             `json:"business_objective,omitempty"`
	ValueProposition  string             `json:"value_proposition,omitempty"`
	Website           string             `json:"website,omitempty"`
	ActiveAccounts    []SocialAccountDTO `json:"active_accounts,omitempty"`
}

type PersonaDTO struct {
	Name       string   `json:"name"`
	AgeRange   string   `json:"age_range,omitempty"`
	Gender     string   `json:"gender,omitempty"`
	Location   string   `json:"location,omitempty"`
	Interests  []string `json:"interests,omitempty"`
	PainPoints []string `json:"pain_points,omitempty"`
}

type AudienceDTO struct {
	Personas []PersonaDTO `json:"personas,omitempty"`
	Primary  *PersonaDTO  `json:"primary,omitempty"`
	Analysis string       `json:"analysis,omitempty"`
}

type StrategyDTO struct {
	Positioning    string   `json:"positioning"`
	ToneOfVoice    string   `json:"tone_of_voice"`
	ContentPillars []string `json:"content_pillars,omitempty"`
	PlatformFocus  []string `json:"platform_focus,omitempty"`
	KeyMessages    []string `json:"key_messages,omitempty"`
}

type CalendarItemDTO struct {
	ItemID      string `json:"item_id"`
	Platform    string `json:"platform"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ContentType string `json:"content_type"`
	FunnelStage string `json:"funnel_stage"`
	Hook        string `json:"hook,omitempty"`
	Copy        string `json:"copy,omitempty"`
}

type CalendarDTO struct {
	Items             []CalendarItemDTO `json:"items"`
	SelectedPlatforms []string          `json:"selected_platforms"`
	DurationDays      int               `json:"duration_days"`
	StartDate         string            `json:"start_date"`
}

type ContentItemDTO struct {
	ItemID      string `json:"item_id"`
	Platform    string `json:"platform"`
	ContentType string `json:"content_type"`
	Text        string `json:"text,omitempty"`
	MediaURL    string `json:"media_url,omitempty"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}

type ScheduledPostDTO struct {
	ItemID      string `json:"item_id"`
	Platform    string `json:"platform"`
	ContentType string `json:"content_type"`
	ScheduledAt string `json:"scheduled_at,omitempty"`
	JobID       string `json:"job_id,omitempty"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	RetryCount  int    `json:"retry_count"`
}

type PlatformMetricsDTO struct {
	Platform    string `json:"platform"`
	Reach       int64  `json:"reach"`
	Engagements int64  `json:"engagements"`
}

type MeasurementsDTO struct {
	TotalReach     int64                `json:"total_reach"`
	Engagements    int64                `json:"engagements"`
	EngagementRate float64              `json:"engagement_rate"`
	FollowersDelta int                  `json:"followers_delta"`
	ByPlatform     []PlatformMetricsDTO `json:"by_platform,omitempty"`
	CapturedAt     string               `json:"captured_at,omitempty"`
}

type CampaignDataDTO struct {
	Objective    ObjectiveDTO       `json:"objective"`
	Company      CompanyDTO         `json:"company"`
	Audience     AudienceDTO        `json:"audience"`
	Strategy     StrategyDTO        `json:"strategy"`
	Calendar     CalendarDTO        `json:"calendar"`
	Content      []ContentItemDTO   `json:"content,omitempty"`
	Schedule     []ScheduledPostDTO `json:"schedule,omitempty"`
	Measurements MeasurementsDTO    `json:"measurements"`
}

type SaveWarningDTO struct {
	Operation  string `json:"operation"`
	Message    string `json:"message"`
	OccurredAt string `json:"occurred_at"`
}

type SessionDTO struct {
	SessionID       string           `json:"session_id"`
	CompanyID       string           `json:"company_id"`
	CurrentStep     int              `json:"current_step"`
	CurrentStepKind string           `json:"current_step_kind"`
	CompletedSteps  []int            `json:"completed_steps"`
	DraftID         string           `json:"draft_id,omitempty"`
	StrategyID      string           `json:"strategy_id,omitempty"`
	CalendarID      string           `json:"calendar_id,omitempty"`
	Campaign        CampaignDataDTO  `json:"campaign"`
	PendingCalendar *CalendarDTO     `json:"pending_calendar,omitempty"`
	SaveWarnings    []SaveWarningDTO `json:"save_warnings,omitempty"`
	Status          string           `json:"status"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

type SessionResponse struct {
	Session SessionDTO `json:"session"`
}

type CompleteStepRequest struct {
	Kind        string             `json:"kind"`
	Objective   *ObjectivePatchDTO `json:"objective,omitempty"`
	Audience    *AudienceDTO       `json:"audience,omitempty"`
	Strategy    *StrategyDTO       `json:"strategy,omitempty"`
	Calendar    *CalendarDTO       `json:"calendar,omitempty"`
	Content     []ContentItemDTO   `json:"content,omitempty"`
	Schedule    []ScheduledPostDTO `json:"schedule,omitempty"`
	Measurement *MeasurementsDTO   `json:"measurement,omitempty"`
}

type NavigateRequest struct {
	Action string `json:"action"`
	Step   int    `json:"step,omitempty"`
}

type PreviewRequest struct {
	Data json.RawMessage `json:"data"`
}

type GenerateStrategyResponse struct {
	Strategy StrategyDTO `json:"strategy"`
}

type GenerateCalendarRequest struct {
	Platforms    []string `json:"platforms"`
	StartDate    string   `json:"start_date"`
	DurationDays int      `json:"duration_days"`
}

type GenerateCalendarResponse struct {
	Calendar CalendarDTO `json:"calendar"`
}

type EditCalendarItemRequest struct {
	Platform    *string `json:"platform"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	ContentType *string `json:"content_type"`
	FunnelStage *string `json:"funnel_stage"`
	Hook        *string `json:"hook"`
	Copy        *string `json:"copy"`
}

type CreateContentRequest struct {
	ItemIDs []string `json:"item_ids"`
}

type CreateContentResponse struct {
	Items     []ContentItemDTO `json:"items"`
	Succeeded int              `json:"succeeded"`
	Total     int              `json:"total"`
}

type SchedulePostsResponse struct {
	Posts     []ScheduledPostDTO `json:"posts"`
	Succeeded int                `json:"succeeded"`
	Total     int                `json:"total"`
}

type RetryScheduledPostResponse struct {
	Post ScheduledPostDTO `json:"post"`
}

type MeasurementsResponse struct {
	Measurements MeasurementsDTO `json:"measurements"`
}

type FunnelDistributionResponse struct {
	Distribution map[string]int `json:"distribution"`
	ItemCount    int            `json:"item_count"`
}

type DraftDTO struct {
	DraftID   string `json:"draft_id"`
	CompanyID string `json:"company_id"`
	StepName  string `json:"step_name"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ListDraftsResponse struct {
	Items []DraftDTO `json:"items"`
}
