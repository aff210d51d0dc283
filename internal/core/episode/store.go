package episode

import "context"

type Repository interface {
	List(context context.Context, f Filter, limit, offset int) ([]*Episode, int, error)
	Get(context context.Context, id string) (*Episode, error)
	GetByExternalID(context context.Context, externalID string) (*Episode, error)
	Create(context context.Context, e *Episode) error
	Delete(context context.Context, id string) error
	Exists(context context.Context, id string) (bool, error)
}
