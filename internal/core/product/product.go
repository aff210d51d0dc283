package product

import "time"

// Product represents an item (gear, clothing, merchandise) featured or used
// in episodes. Like places, products hang off a creator and attach to
// episodes through a link table.
type Product struct {
	ID          string     `json:"id"`
	CreatorID   *string    `json:"creator_id"`
	Name        string     `json:"name"`
	Brand       string     `json:"brand"`
	Category    string     `json:"category"`
	Price       *float64   `json:"price"`
	PurchaseURL *string    `json:"purchase_url"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"` // soft-delete tracker
}

// Patch holds optional field-level changes for an existing product.
// Nil fields are left untouched.
type Patch struct {
	Name        *string
	Brand       *string
	Category    *string
	Price       *float64
	PurchaseURL *string
	Tags        []string
}

// Filter holds the parameters for a paginated product search.
type Filter struct {
	CreatorID string
	Category  string
	Query     string // ILIKE search against name and brand
}

// Global field names for validation
const (
	FieldName        = "name"
	FieldBrand       = "brand"
	FieldCategory    = "category"
	FieldPrice       = "price"
	FieldPurchaseURL = "purchase_url"
)
