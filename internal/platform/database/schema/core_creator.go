package schema

// CoreCreatorTable represents the 'core.creator' table
type CoreCreatorTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	Bio       string
	ImageURL  string
	Status    string
	CreatedAt string
	UpdatedAt string
	DeletedAt string
}

// CoreCreator is the schema definition for core.creator
var CoreCreator = CoreCreatorTable{
	Table:     "core.creator",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	Bio:       "bio",
	ImageURL:  "imageurl",
	Status:    "status",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
	DeletedAt: "deletedat",
}

func (t CoreCreatorTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug, t.Bio, t.ImageURL, t.Status, t.CreatedAt, t.UpdatedAt, t.DeletedAt}
}
