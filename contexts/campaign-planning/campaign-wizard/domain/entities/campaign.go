package entities

import (
	"strings"
	"time"
)

// CampaignData is the aggregate assembled across the wizard steps. Each step
// owns exactly one slot; slots are only written through an explicit step
// completion and grow monotonically until the measurement step closes the
// campaign.
type CampaignData struct {
	Objective    Objective
	Company      CompanySnapshot
	Audience     AudienceSelection
	Strategy     Strategy
	Calendar     Calendar
	Content      []ContentItem
	Schedule     []ScheduledPost
	Measurements Measurements
}

type Objective struct {
	Goal          string
	Name          string
	TargetMetrics map[string]float64
	Timeline      string
	Budget        *float64
}

// ObjectivePatch carries the objective step's output. Nil fields keep the
// previous value; a non-nil TargetMetrics map replaces the whole map.
type ObjectivePatch struct {
	Goal          *string
	Name          *string
	TargetMetrics map[string]float64
	Timeline      *string
	Budget        *float64
}

func (o Objective) Apply(patch ObjectivePatch) Objective {
	merged := o
	if patch.Goal != nil {
		merged.Goal = strings.TrimSpace(*patch.Goal)
	}
	if patch.Name != nil {
		merged.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.TargetMetrics != nil {
		metrics := make(map[string]float64, len(patch.TargetMetrics))
		for key, value := range patch.TargetMetrics {
			metrics[key] = value
		}
		merged.TargetMetrics = metrics
	}
	if patch.Timeline != nil {
		merged.Timeline = strings.TrimSpace(*patch.Timeline)
	}
	if patch.Budget != nil {
		value := *patch.Budget
		merged.Budget = &value
	}
	return merged
}

func (p ObjectivePatch) HasRequiredFields() bool {
	return p.Goal != nil && strings.TrimSpace(*p.Goal) != "" &&
		p.Name != nil && strings.TrimSpace(*p.Name) != ""
}

type SocialAccount struct {
	Platform string
	Username string
}

// CompanySnapshot is hydrated once from the company profile provider when a
// session starts and stays read-only inside the wizard.
type CompanySnapshot struct {
	CompanyID         string
	Name              string
	Country           string
	BusinessObjective string
	ValueProposition  string
	Website           string
	ActiveAccounts    []SocialAccount
}

// HasStrategyEssentials reports whether the profile carries the fields the
// strategy generator treats as hard preconditions.
func (c CompanySnapshot) HasStrategyEssentials() bool {
	return strings.TrimSpace(c.Name) != "" &&
		strings.TrimSpace(c.BusinessObjective) != "" &&
		strings.TrimSpace(c.ValueProposition) != ""
}

func (c CompanySnapshot) PrimaryUsername() string {
	for _, account := range c.ActiveAccounts {
		if strings.TrimSpace(account.Username) != "" {
			return account.Username
		}
	}
	return ""
}

type Persona struct {
	Name       string
	AgeRange   string
	Gender     string
	Location   string
	Interests  []string
	PainPoints []string
}

// AudienceSelection holds the audience step's output. Historic payloads came
// in two shapes (a persona list or a single primary persona); Normalized
// folds both into one array so downstream steps read a single form.
type AudienceSelection struct {
	Personas []Persona
	Primary  *Persona
	Analysis string
}

func (a AudienceSelection) Normalized() []Persona {
	personas := make([]Persona, 0, len(a.Personas)+1)
	if a.Primary != nil {
		personas = append(personas, *a.Primary)
	}
	for _, persona := range a.Personas {
		if a.Primary != nil && persona.Name == a.Primary.Name {
			continue
		}
		personas = append(personas, persona)
	}
	return personas
}

// First returns the "first selected audience" projection consumed by the
// strategy, content and scheduling steps.
func (a AudienceSelection) First() (Persona, bool) {
	personas := a.Normalized()
	if len(personas) == 0 {
		return Persona{}, false
	}
	return personas[0], true
}

type Strategy struct {
	Positioning    string
	ToneOfVoice    string
	ContentPillars []string
	PlatformFocus  []string
	KeyMessages    []string
}

func (s Strategy) IsZero() bool {
	return s.Positioning == "" &&
		s.ToneOfVoice == "" &&
		len(s.ContentPillars) == 0 &&
		len(s.PlatformFocus) == 0 &&
		len(s.KeyMessages) == 0
}

type PlatformMetrics struct {
	Platform    string
	Reach       int64
	Engagements int64
}

type Measurements struct {
	TotalReach     int64
	Engagements    int64
	EngagementRate float64
	FollowersDelta int
	ByPlatform     []PlatformMetrics
	CapturedAt     time.Time
}
