package place

import (
	"context"
	"log/slog"

	"github.com/quangdng/spotline/internal/platform/apperr"
	"github.com/quangdng/spotline/internal/platform/validate"
	"github.com/quangdng/spotline/pkg/uuidv7"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// UpsertInput is a harvested location record. CreatorID may be nil for
// places harvested without a subject attribution; they still dedupe among
// themselves under the nil creator bucket.
type UpsertInput struct {
	CreatorID      *string
	Name           string
	Address        string
	Description    *string
	RestaurantInfo []byte
	Tags           []string
}

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Place, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) Get(context context.Context, id string) (*Place, error) {
	return service.repo.Get(context, id)
}

// Upsert inserts a place keyed by (creator, lowercased name).
//
// A hit whose stored address matches is a re-ingest of the same venue: the
// stored row is returned untouched and created is false. A hit with a
// conflicting address means two distinct venues collide on one natural key,
// which is reported as DUPLICATE_KEY rather than silently merged.
func (service *Service) Upsert(context context.Context, input UpsertInput) (place *Place, created bool, err error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 300)
	validator.Required(FieldAddress, input.Address).MaxLen(FieldAddress, input.Address, 500)
	if input.CreatorID != nil {
		validator.UUID("creator_id", *input.CreatorID)
	}
	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	existing, err := service.repo.FindByName(context, input.CreatorID, input.Name)
	if err == nil {
		if existing.Address != input.Address {
			return nil, false, apperr.Duplicate("Place", input.Name)
		}
		return existing, false, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, false, err
	}

	place = &Place{
		ID:        uuidv7.New(),
		CreatorID: input.CreatorID,
		Name:      input.Name,
		Address:   input.Address,
		Affiliate: NewAffiliateInfo(),
		Tags:      input.Tags,
	}
	if input.Description != nil {
		place.Description = *input.Description
	}
	if len(input.RestaurantInfo) > 0 {
		place.Affiliate.RestaurantInfo = input.RestaurantInfo
	}
	if err := service.repo.Create(context, place); err != nil {
		// Lost insert race: a concurrent upsert landed the same natural
		// key first, so adopt the stored row.
		if apperr.IsConflict(err) {
			winner, findErr := service.repo.FindByName(context, input.CreatorID, input.Name)
			if findErr != nil {
				return nil, false, err
			}
			if winner.Address != input.Address {
				return nil, false, apperr.Duplicate("Place", input.Name)
			}
			return winner, false, nil
		}
		return nil, false, err
	}

	service.logger.Info("place_created",
		slog.String("place_id", place.ID),
		slog.String("name", place.Name),
	)
	return place, true, nil
}

// Update applies a partial correction to an existing place. The affiliate
// envelope is not patchable here.
func (service *Service) Update(context context.Context, id string, patch Patch) (*Place, error) {
	validator := &validate.Validator{}
	if patch.Name != nil {
		validator.Required(FieldName, *patch.Name).MaxLen(FieldName, *patch.Name, 300)
	}
	if patch.Address != nil {
		validator.Required(FieldAddress, *patch.Address).MaxLen(FieldAddress, *patch.Address, 500)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	updated, err := service.repo.Update(context, id, patch)
	if err != nil {
		return nil, err
	}

	service.logger.Info("place_updated", slog.String("place_id", id))
	return updated, nil
}

func (service *Service) Delete(context context.Context, id string) error {
	if err := service.repo.SoftDelete(context, id); err != nil {
		return err
	}

	service.logger.Warn("place_deleted", slog.String("place_id", id))
	return nil
}

func (service *Service) ListByEpisode(context context.Context, episodeID string) ([]*Place, error) {
	return service.repo.ListByEpisode(context, episodeID)
}

func (service *Service) ListActiveByCreator(context context.Context, creatorID string) ([]*Place, error) {
	return service.repo.ListActiveByCreator(context, creatorID)
}
