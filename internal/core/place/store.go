package place

import "context"

type Repository interface {
	List(context context.Context, f Filter, limit, offset int) ([]*Place, int, error)
	Get(context context.Context, id string) (*Place, error)

	// FindByName resolves the (creator, name) natural key among live rows.
	// The name comparison is case-insensitive.
	FindByName(context context.Context, creatorID *string, name string) (*Place, error)

	Create(context context.Context, p *Place) error
	Update(context context.Context, id string, p Patch) (*Place, error)

	// UpdateAffiliate replaces the affiliate envelope. Only the lifecycle
	// manager calls this.
	UpdateAffiliate(context context.Context, id string, info AffiliateInfo) error

	SoftDelete(context context.Context, id string) error
	Exists(context context.Context, id string) (bool, error)

	// ListByEpisode returns all places linked to the episode.
	ListByEpisode(context context.Context, episodeID string) ([]*Place, error)

	// ListActiveByCreator returns the monetization projection: places owned
	// by the creator whose linkswitch status is active. Flagged places never
	// appear here.
	ListActiveByCreator(context context.Context, creatorID string) ([]*Place, error)
}
