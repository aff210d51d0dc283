package ingest

import (
	"encoding/json"
	"time"
)

// Batch is a provider export: creators with their episodes and the places
// and products featured in each. The engine never talks to a provider's
// API directly; batches arrive in this already-structured shape.
type Batch struct {
	Creators []CreatorRecord `json:"creators"`
}

type CreatorRecord struct {
	Name     string          `json:"name"`
	Bio      *string         `json:"bio"`
	ImageURL *string         `json:"image_url"`
	Episodes []EpisodeRecord `json:"episodes"`
}

type EpisodeRecord struct {
	ExternalID   string          `json:"external_id"`
	Title        string          `json:"title"`
	Description  *string         `json:"description"`
	PublishedAt  time.Time       `json:"published_at"`
	MediaURL     *string         `json:"media_url"`
	ThumbnailURL *string         `json:"thumbnail_url"`
	Tags         []string        `json:"tags"`
	Places       []PlaceRecord   `json:"places"`
	Products     []ProductRecord `json:"products"`
}

type PlaceRecord struct {
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	Description    *string         `json:"description"`
	RestaurantInfo json.RawMessage `json:"restaurant_info"`
	AffiliateURL   string          `json:"affiliate_url"`
	Tags           []string        `json:"tags"`
}

type ProductRecord struct {
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	PurchaseURL *string  `json:"purchase_url"`
	Tags        []string `json:"tags"`
}

// RecordError ties a failure to the record that caused it.
type RecordError struct {
	Identifier string `json:"identifier"`
	Error      string `json:"error"`
}

// Summary is the batch report. Created and Existing count entity upserts
// across all kinds; Failed counts creator records that aborted. A re-run of
// the same batch lands everything in Existing.
type Summary struct {
	Created  int           `json:"created"`
	Existing int           `json:"existing"`
	Failed   int           `json:"failed"`
	Errors   []RecordError `json:"errors"`
}
