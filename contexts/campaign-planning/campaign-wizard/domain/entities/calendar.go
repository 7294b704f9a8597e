package entities

import "strings"

type FunnelStage string
type ContentType string

const (
	FunnelStageAwareness     FunnelStage = "awareness"
	FunnelStageConsideration FunnelStage = "consideration"
	FunnelStageConversion    FunnelStage = "conversion"
	FunnelStageLoyalty       FunnelStage = "loyalty"

	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
	ContentTypeVideo ContentType = "video"
)

type CalendarItem struct {
	ItemID      string
	Platform    string
	Date        string // 2006-01-02
	Time        string // 15:04
	ContentType ContentType
	FunnelStage FunnelStage
	Hook        string
	Copy        string
}

type Calendar struct {
	Items             []CalendarItem
	SelectedPlatforms []string
	DurationDays      int
	StartDate         string
}

// CalendarItemPatch is a field-level edit of one generated entry. Nil fields
// keep the generated value.
type CalendarItemPatch struct {
	Platform    *string
	Date        *string
	Time        *string
	ContentType *ContentType
	FunnelStage *FunnelStage
	Hook        *string
	Copy        *string
}

func (c Calendar) ItemByID(itemID string) (CalendarItem, bool) {
	for _, item := range c.Items {
		if item.ItemID == strings.TrimSpace(itemID) {
			return item, true
		}
	}
	return CalendarItem{}, false
}

func (c *Calendar) PatchItem(itemID string, patch CalendarItemPatch) bool {
	for index := range c.Items {
		if c.Items[index].ItemID != strings.TrimSpace(itemID) {
			continue
		}
		item := &c.Items[index]
		if patch.Platform != nil {
			item.Platform = strings.TrimSpace(*patch.Platform)
		}
		if patch.Date != nil {
			item.Date = strings.TrimSpace(*patch.Date)
		}
		if patch.Time != nil {
			item.Time = strings.TrimSpace(*patch.Time)
		}
		if patch.ContentType != nil {
			item.ContentType = *patch.ContentType
		}
		if patch.FunnelStage != nil {
			item.FunnelStage = *patch.FunnelStage
		}
		if patch.Hook != nil {
			item.Hook = *patch.Hook
		}
		if patch.Copy != nil {
			item.Copy = *patch.Copy
		}
		return true
	}
	return false
}

// FunnelDistribution is a display-only summary of items per funnel stage.
func (c Calendar) FunnelDistribution() map[FunnelStage]int {
	distribution := make(map[FunnelStage]int, 4)
	for _, item := range c.Items {
		distribution[item.FunnelStage]++
	}
	return distribution
}

func IsSupportedContentType(value ContentType) bool {
	switch value {
	case ContentTypeText, ContentTypeImage, ContentTypeVideo:
		return true
	default:
		return false
	}
}

func IsSupportedFunnelStage(value FunnelStage) bool {
	switch value {
	case FunnelStageAwareness, FunnelStageConsideration, FunnelStageConversion, FunnelStageLoyalty:
		return true
	default:
		return false
	}
}
