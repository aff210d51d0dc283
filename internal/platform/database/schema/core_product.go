package schema

// CoreProductTable represents the 'core.product' table
type CoreProductTable struct {
	Table       string
	ID          string
	CreatorID   string
	Name        string
	Brand       string
	Category    string
	Price       string
	PurchaseURL string
	Tags        string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// CoreProduct is the schema definition for core.product
var CoreProduct = CoreProductTable{
	Table:       "core.product",
	ID:          "id",
	CreatorID:   "creatorid",
	Name:        "name",
	Brand:       "brand",
	Category:    "category",
	Price:       "price",
	PurchaseURL: "purchaseurl",
	Tags:        "tags",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}
