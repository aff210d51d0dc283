package episode

import "time"

// Episode represents one ingested content unit (a video or media release)
// belonging to exactly one creator.
type Episode struct {
	ID           string    `json:"id"`
	CreatorID    string    `json:"creator_id"`
	ExternalID   string    `json:"external_id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	PublishedAt  time.Time `json:"published_at"`
	MediaURL     *string   `json:"media_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Filter holds the parameters for a paginated episode search.
type Filter struct {
	CreatorID string
	Query     string // ILIKE search against title
}

// Global field names for validation
const (
	FieldCreatorID    = "creator_id"
	FieldExternalID   = "external_id"
	FieldTitle        = "title"
	FieldPublishedAt  = "published_at"
	FieldMediaURL     = "media_url"
	FieldThumbnailURL = "thumbnail_url"
)
