package correction

import "time"

// EntityKind names a correctable entity. Creators and episodes carry clean
// provider identities; places and products are the harvested, error-prone
// half of the catalogue and the only correction targets.
type EntityKind string

const (
	EntityPlace   EntityKind = "place"
	EntityProduct EntityKind = "product"
)

// Valid reports whether the kind names a correctable entity.
func (k EntityKind) Valid() bool {
	return k == EntityPlace || k == EntityProduct
}

// Change is one audited field mutation. A correction touching three fields
// produces three changes sharing a note.
type Change struct {
	ID         string     `json:"id"`
	EntityKind EntityKind `json:"entity_kind"`
	EntityID   string     `json:"entity_id"`
	Field      string     `json:"field"`
	Before     string     `json:"before"`
	After      string     `json:"after"`
	Note       string     `json:"note"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Input is an operator-submitted correction. Fields maps field names to
// their new values in string form; numeric fields parse on apply.
type Input struct {
	Kind   EntityKind
	ID     string
	Fields map[string]string
	Note   string
}
