package product

import "context"

type Repository interface {
	List(context context.Context, f Filter, limit, offset int) ([]*Product, int, error)
	Get(context context.Context, id string) (*Product, error)

	// FindByName resolves the (creator, name) natural key among live rows.
	// The name comparison is case-insensitive.
	FindByName(context context.Context, creatorID *string, name string) (*Product, error)

	Create(context context.Context, p *Product) error
	Update(context context.Context, id string, p Patch) (*Product, error)
	SoftDelete(context context.Context, id string) error
	Exists(context context.Context, id string) (bool, error)

	// ListByEpisode returns all products linked to the episode.
	ListByEpisode(context context.Context, episodeID string) ([]*Product, error)
}
