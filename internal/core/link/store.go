package link

import "context"

type Repository interface {
	// Insert adds the pair to the join table for the kind. inserted is false
	// when the pair already existed.
	Insert(context context.Context, kind Kind, episodeID, targetID string) (inserted bool, err error)

	// Delete removes the pair. Returns dberr.ErrNotFound when no such link
	// exists.
	Delete(context context.Context, kind Kind, episodeID, targetID string) error

	// ListByEpisode returns the links of one episode across both kinds.
	ListByEpisode(context context.Context, episodeID string) ([]Link, error)

	// ListOrphans returns live places and products without a single link.
	ListOrphans(context context.Context) ([]Orphan, error)
}

// Checker verifies that a link endpoint exists before a row is written.
// Each entity repository satisfies this with its Exists method.
type Checker interface {
	Exists(context context.Context, id string) (bool, error)
}
