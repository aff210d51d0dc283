package creator

import "context"

type Repository interface {
	List(context context.Context, f Filter, limit, offset int) ([]*Creator, int, error)
	Get(context context.Context, id string) (*Creator, error)
	GetBySlug(context context.Context, slug string) (*Creator, error)
	Create(context context.Context, c *Creator) error
	Update(context context.Context, id string, p Patch) (*Creator, error)
	SoftDelete(context context.Context, id string) error
	Exists(context context.Context, id string) (bool, error)

	// HasEpisodes reports whether any episode references the creator.
	// The slug is immutable once this returns true.
	HasEpisodes(context context.Context, id string) (bool, error)
}
