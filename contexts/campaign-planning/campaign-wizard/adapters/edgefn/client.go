// Package edgefn calls the serverless generation functions that produce
// strategies, calendars, content, and scheduled posts, and exposes them
// through the campaign-wizard ports.
package edgefn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"brandpilot/contexts/campaign-planning/campaign-wizard/domain/entities"
	domainerrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	"brandpilot/contexts/campaign-planning/campaign-wizard/ports"
)

const defaultTimeout = 90 * time.Second

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

var (
	_ ports.StrategyGenerator = (*Client)(nil)
	_ ports.CalendarGenerator = (*Client)(nil)
	_ ports.ContentGenerator  = (*Client)(nil)
	_ ports.PostScheduler     = (*Client)(nil)
	_ ports.Analytics         = (*Client)(nil)
)

func (c *Client) invoke(ctx context.Context, function string, input any, output any) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("edgefn %s: encode request: %w", function, err)
	}

	url := c.baseURL + "/functions/v1/" + function
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("edgefn %s: build request: %w", function, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("edgefn %s: %w", function, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("edge function invoked",
		"event", "edgefn.invoked",
		"function", function,
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	if resp.StatusCode == http.StatusTooManyRequests {
		return domainerrors.ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("edgefn %s: status %d: %s", function, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	if output == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(output); err != nil {
		return fmt.Errorf("edgefn %s: decode response: %w", function, err)
	}
	return nil
}

type strategyRequest struct {
	CompanyName       string             `json:"company_name"`
	BusinessObjective string             `json:"business_objective"`
	ValueProposition  string             `json:"value_proposition"`
	CampaignGoal      string             `json:"campaign_goal"`
	CampaignName      string             `json:"campaign_name"`
	TargetMetrics     map[string]float64 `json:"target_metrics,omitempty"`
	Audiences         []personaWire      `json:"audiences"`
}

type personaWire struct {
	Name       string   `json:"name"`
	AgeRange   string   `json:"age_range,omitempty"`
	Gender     string   `json:"gender,omitempty"`
	Location   string   `json:"location,omitempty"`
	Interests  []string `json:"interests,omitempty"`
	PainPoints []string `json:"pain_points,omitempty"`
}

type strategyWire struct {
	Positioning    string   `json:"positioning"`
	ToneOfVoice    string   `json:"tone_of_voice"`
	ContentPillars []string `json:"content_pillars"`
	PlatformFocus  []string `json:"platform_focus"`
	KeyMessages    []string `json:"key_messages"`
}

func (c *Client) GenerateStrategy(ctx context.Context, input ports.StrategyInput) (entities.Strategy, error) {
	req := strategyRequest{
		CompanyName:       input.Company.Name,
		BusinessObjective: input.Company.BusinessObjective,
		ValueProposition:  input.Company.ValueProposition,
		CampaignGoal:      input.Objective.Goal,
		CampaignName:      input.Objective.Name,
		TargetMetrics:     input.Objective.TargetMetrics,
	}
	for _, persona := range input.Audiences {
		req.Audiences = append(req.Audiences, personaWire{
			Name:       persona.Name,
			AgeRange:   persona.AgeRange,
			Gender:     persona.Gender,
			Location:   persona.Location,
			Interests:  persona.Interests,
			PainPoints: persona.PainPoints,
		})
	}

	var wire struct {
		Strategy strategyWire `json:"strategy"`
	}
	if err := c.invoke(ctx, "generate-strategy", req, &wire); err != nil {
		return entities.Strategy{}, err
	}
	return entities.Strategy{
		Positioning:    wire.Strategy.Positioning,
		ToneOfVoice:    wire.Strategy.ToneOfVoice,
		ContentPillars: wire.Strategy.ContentPillars,
		PlatformFocus:  wire.Strategy.PlatformFocus,
		KeyMessages:    wire.Strategy.KeyMessages,
	}, nil
}

type calendarRequest struct {
	CompanyName  string       `json:"company_name"`
	Strategy     strategyWire `json:"strategy"`
	Platforms    []string     `json:"platforms"`
	StartDate    string       `json:"start_date"`
	DurationDays int          `json:"duration_days"`
}

type calendarItemWire struct {
	ItemID      string `json:"item_id"`
	Platform    string `json:"platform"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ContentType string `json:"content_type"`
	FunnelStage string `json:"funnel_stage"`
	Hook        string `json:"hook"`
	Copy        string `json:"copy"`
}

func (c *Client) GenerateCalendar(ctx context.Context, input ports.CalendarInput) (entities.Calendar, error) {
	req := calendarRequest{
		CompanyName: input.Company.Name,
		Strategy: strategyWire{
			Positioning:    input.Strategy.Positioning,
			ToneOfVoice:    input.Strategy.ToneOfVoice,
			ContentPillars: input.Strategy.ContentPillars,
			PlatformFocus:  input.Strategy.PlatformFocus,
			KeyMessages:    input.Strategy.KeyMessages,
		},
		Platforms:    input.Platforms,
		StartDate:    input.StartDate,
		DurationDays: input.DurationDays,
	}

	var wire struct {
		Items []calendarItemWire `json:"items"`
	}
	if err := c.invoke(ctx, "generate-calendar", req, &wire); err != nil {
		return entities.Calendar{}, err
	}

	calendar := entities.Calendar{
		SelectedPlatforms: input.Platforms,
		DurationDays:      input.DurationDays,
		StartDate:         input.StartDate,
	}
	for _, item := range wire.Items {
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
	return calendar, nil
}

type contentRequest struct {
	BrandTone   string      `json:"brand_tone"`
	Persona     personaWire `json:"persona"`
	Platform    string      `json:"platform"`
	ContentType string      `json:"content_type"`
	FunnelStage string      `json:"funnel_stage"`
	Hook        string      `json:"hook"`
	Copy        string      `json:"copy"`
}

type contentResponse struct {
	Text     string `json:"text"`
	MediaURL string `json:"media_url"`
}

func (c *Client) generateContent(ctx context.Context, function string, input ports.ContentInput) (ports.ContentResult, error) {
	req := contentRequest{
		BrandTone: input.BrandTone,
		Persona: personaWire{
			Name:       input.Persona.Name,
			AgeRange:   input.Persona.AgeRange,
			Gender:     input.Persona.Gender,
			Location:   input.Persona.Location,
			Interests:  input.Persona.Interests,
			PainPoints: input.Persona.PainPoints,
		},
		Platform:    input.Item.Platform,
		ContentType: string(input.Item.ContentType),
		FunnelStage: string(input.Item.FunnelStage),
		Hook:        input.Item.Hook,
		Copy:        input.Item.Copy,
	}

	var wire contentResponse
	if err := c.invoke(ctx, function, req, &wire); err != nil {
		return ports.ContentResult{}, err
	}
	return ports.ContentResult{Text: wire.Text, MediaURL: wire.MediaURL}, nil
}

func (c *Client) GenerateText(ctx context.Context, input ports.ContentInput) (ports.ContentResult, error) {
	return c.generateContent(ctx, "create-text-content", input)
}

func (c *Client) GenerateImage(ctx context.Context, input ports.ContentInput) (ports.ContentResult, error) {
	return c.generateContent(ctx, "create-image-content", input)
}

func (c *Client) GenerateVideo(ctx context.Context, input ports.ContentInput) (ports.ContentResult, error) {
	return c.generateContent(ctx, "create-video-content", input)
}

type schedulePostRequest struct {
	Username    string   `json:"username"`
	Platforms   []string `json:"platforms"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	MediaURLs   []string `json:"media_urls,omitempty"`
	PostType    string   `json:"post_type"`
	ScheduledAt string   `json:"scheduled_at"`
	AsyncUpload bool     `json:"async_upload"`
}

func (c *Client) SchedulePost(ctx context.Context, request ports.PostRequest) (string, error) {
	req := schedulePostRequest{
		Username:    request.CompanyUsername,
		Platforms:   request.Platforms,
		Title:       request.Title,
		Content:     request.Content,
		MediaURLs:   request.MediaURLs,
		PostType:    request.PostType,
		ScheduledAt: request.ScheduledAt.UTC().Format(time.RFC3339),
		AsyncUpload: request.AsyncUpload,
	}

	var wire struct {
		JobID string `json:"job_id"`
	}
	if err := c.invoke(ctx, "schedule-post", req, &wire); err != nil {
		return "", err
	}
	if wire.JobID == "" {
		return "", fmt.Errorf("%w: scheduler returned no job id", domainerrors.ErrSchedulingFailed)
	}
	return wire.JobID, nil
}

type analyticsResponse struct {
	TotalReach     int64   `json:"total_reach"`
	Engagements    int64   `json:"engagements"`
	EngagementRate float64 `json:"engagement_rate"`
	FollowersDelta int     `json:"followers_delta"`
	ByPlatform     []struct {
		Platform    string `json:"platform"`
		Reach       int64  `json:"reach"`
		Engagements int64  `json:"engagements"`
	} `json:"by_platform"`
	CapturedAt string `json:"captured_at"`
}

func (c *Client) Snapshot(ctx context.Context, companyID string) (entities.Measurements, error) {
	req := struct {
		CompanyID string `json:"company_id"`
	}{CompanyID: companyID}

	var wire analyticsResponse
	if err := c.invoke(ctx, "campaign-analytics", req, &wire); err != nil {
		return entities.Measurements{}, err
	}

	measurements := entities.Measurements{
		TotalReach:     wire.TotalReach,
		Engagements:    wire.Engagements,
		EngagementRate: wire.EngagementRate,
		FollowersDelta: wire.FollowersDelta,
	}
	for _, metrics := range wire.ByPlatform {
		measurements.ByPlatform = append(measurements.ByPlatform, entities.PlatformMetrics{
			Platform:    metrics.Platform,
			Reach:       metrics.Reach,
			Engagements: metrics.Engagements,
		})
	}
	if wire.CapturedAt != "" {
		if capturedAt, err := time.Parse(time.RFC3339, wire.CapturedAt); err == nil {
			measurements.CapturedAt = capturedAt.UTC()
		}
	}
	return measurements, nil
}
