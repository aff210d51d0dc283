package schema

// CorePlaceTable represents the 'core.place' table
type CorePlaceTable struct {
	Table         string
	ID            string
	CreatorID     string
	Name          string
	Address       string
	Description   string
	AffiliateInfo string
	Tags          string
	CreatedAt     string
	UpdatedAt     string
	DeletedAt     string
}

// CorePlace is the schema definition for core.place
var CorePlace = CorePlaceTable{
	Table:         "core.place",
	ID:            "id",
	CreatorID:     "creatorid",
	Name:          "name",
	Address:       "address",
	Description:   "description",
	AffiliateInfo: "affiliateinfo",
	Tags:          "tags",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	DeletedAt:     "deletedat",
}

func (t CorePlaceTable) Columns() []string {
	return []string{t.ID, t.CreatorID, t.Name, t.Address, t.Description, t.AffiliateInfo, t.Tags, t.CreatedAt, t.UpdatedAt, t.DeletedAt}
}
