package creator

import "time"

// Status is the lifecycle state of a creator profile.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Creator represents a public figure whose episodes are catalogued.
type Creator struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Bio       *string    `json:"bio"`
	ImageURL  *string    `json:"image_url"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"` // soft-delete tracker
}

// Patch holds optional field-level changes for an existing creator.
// Nil fields are left untouched. The id is never part of a patch.
type Patch struct {
	Name     *string
	Slug     *string
	Bio      *string
	ImageURL *string
	Status   *Status
}

// Filter holds the parameters for a paginated creator search.
type Filter struct {
	Query  string // ILIKE search against name
	Status string
}

// Global field names for validation
const (
	FieldName     = "name"
	FieldSlug     = "slug"
	FieldBio      = "bio"
	FieldImageURL = "image_url"
	FieldStatus   = "status"
)
