package entities

type ContentStatus string

const (
	ContentStatusPending   ContentStatus = "pending"
	ContentStatusCreating  ContentStatus = "creating"
	ContentStatusCompleted ContentStatus = "completed"
	ContentStatusError     ContentStatus = "error"
)

// ContentItem is one calendar entry's generation result. ItemID matches the
// originating CalendarItem.
type ContentItem struct {
	ItemID      string
	Platform    string
	ContentType ContentType
	Text        string
	MediaURL    string
	Status      ContentStatus
	Error       string
}

func CompletedContent(items []ContentItem) []ContentItem {
	completed := make([]ContentItem, 0, len(items))
	for _, item := range items {
		if item.Status == ContentStatusCompleted {
			completed = append(completed, item)
		}
	}
	return completed
}
