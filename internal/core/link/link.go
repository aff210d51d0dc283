package link

import "time"

// Kind selects which join table a link operation targets.
type Kind string

const (
	KindPlace   Kind = "place"
	KindProduct Kind = "product"
)

// Valid reports whether the kind names a known join table.
func (k Kind) Valid() bool {
	return k == KindPlace || k == KindProduct
}

// Link is one row of a join table.
type Link struct {
	EpisodeID string    `json:"episode_id"`
	TargetID  string    `json:"target_id"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// Result reports the outcome of a link attempt. AlreadyLinked is true when
// the pair existed before the call; the call is still a success.
type Result struct {
	Link          Link `json:"link"`
	AlreadyLinked bool `json:"already_linked"`
}

// Orphan is a target row no episode references. Orphans are reported, never
// auto-deleted.
type Orphan struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
}
