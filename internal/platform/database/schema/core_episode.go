package schema

// CoreEpisodeTable represents the 'core.episode' table
type CoreEpisodeTable struct {
	Table        string
	ID           string
	CreatorID    string
	ExternalID   string
	Title        string
	Description  string
	PublishedAt  string
	MediaURL     string
	ThumbnailURL string
	Tags         string
	CreatedAt    string
	UpdatedAt    string
}

// CoreEpisode is the schema definition for core.episode
var CoreEpisode = CoreEpisodeTable{
	Table:        "core.episode",
	ID:           "id",
	CreatorID:    "creatorid",
	ExternalID:   "externalid",
	Title:        "title",
	Description:  "description",
	PublishedAt:  "publishedat",
	MediaURL:     "mediaurl",
	ThumbnailURL: "thumbnailurl",
	Tags:         "tags",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}
