package place

import (
	"encoding/json"
	"time"
)

// LinkStatus is the monetization state of a place's affiliate link.
//
// # State Machine
//
// unset → pending → active, with a side branch * → flagged and the
// reversible pair active ⇄ inactive. Transitions are owned by the
// affiliate lifecycle manager; this package only stores the envelope.
type LinkStatus string

const (
	LinkUnset    LinkStatus = "unset"
	LinkPending  LinkStatus = "pending"
	LinkActive   LinkStatus = "active"
	LinkInactive LinkStatus = "inactive"
	LinkFlagged  LinkStatus = "flagged"
)

// LinkSwitch is the monetization lifecycle payload of a place.
type LinkSwitch struct {
	Status       LinkStatus `json:"status"`
	OriginalURL  string     `json:"original_url"`
	LastVerified *time.Time `json:"last_verified,omitempty"`
	Notes        string     `json:"notes"`
}

// AffiliateInfo is the envelope embedded in every place row.
//
// RestaurantInfo is free-form provider metadata (verification status, data
// source, rating, business hours, ...). The engine stores and returns it
// verbatim and never interprets it.
type AffiliateInfo struct {
	LinkSwitch     LinkSwitch      `json:"linkswitch"`
	RestaurantInfo json.RawMessage `json:"restaurant_info,omitempty"`
}

// NewAffiliateInfo returns the envelope for a freshly created place.
func NewAffiliateInfo() AffiliateInfo {
	return AffiliateInfo{LinkSwitch: LinkSwitch{Status: LinkUnset}}
}

// Place represents a physical location featured in one or more episodes.
//
// CreatorID is a denormalized convenience pointer to the owning creator; the
// authoritative association runs through the episode link table.
type Place struct {
	ID          string        `json:"id"`
	CreatorID   *string       `json:"creator_id"`
	Name        string        `json:"name"`
	Address     string        `json:"address"`
	Description string        `json:"description"`
	Affiliate   AffiliateInfo `json:"affiliate_info"`
	Tags        []string      `json:"tags"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	DeletedAt   *time.Time    `json:"-"` // soft-delete tracker
}

// Patch holds optional field-level changes for an existing place.
// Nil fields are left untouched. The id and the affiliate envelope are
// never part of a patch; the envelope moves only through the lifecycle
// manager so that state transitions cannot be bypassed by a correction.
type Patch struct {
	Name        *string
	Address     *string
	Description *string
	Tags        []string
}

// Filter holds the parameters for a paginated place search.
type Filter struct {
	CreatorID  string
	Query      string // ILIKE search against name and address
	LinkStatus string
}

// Global field names for validation
const (
	FieldName         = "name"
	FieldAddress      = "address"
	FieldDescription  = "description"
	FieldAffiliateURL = "affiliate_url"
)
