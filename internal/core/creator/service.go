package creator

import (
	"context"
	"log/slog"

	"github.com/quangdng/spotline/internal/platform/apperr"
	"github.com/quangdng/spotline/internal/platform/validate"
	"github.com/quangdng/spotline/pkg/slug"
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

// UpsertInput is a harvested person record from a catalog provider.
type UpsertInput struct {
	Name     string
	Bio      *string
	ImageURL *string
}

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Creator, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) Get(context context.Context, id string) (*Creator, error) {
	return service.repo.Get(context, id)
}

func (service *Service) GetBySlug(context context.Context, slug string) (*Creator, error) {
	return service.repo.GetBySlug(context, slug)
}

// Upsert inserts a creator keyed by the slug derived from its name.
//
// The operation is idempotent: if a live creator already owns the slug, the
// stored row is returned untouched and created is false. A slug hit whose
// stored name differs is a natural-key collision and is reported as
// DUPLICATE_KEY rather than silently overwritten.
func (service *Service) Upsert(context context.Context, input UpsertInput) (creator *Creator, created bool, err error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 200)
	if input.ImageURL != nil {
		validator.URL(FieldImageURL, *input.ImageURL)
	}
	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	naturalKey := slug.From(input.Name)
	if naturalKey == "" {
		return nil, false, validate.RequiredError(FieldName, "Name does not reduce to a usable slug")
	}

	existing, err := service.repo.GetBySlug(context, naturalKey)
	if err == nil {
		if existing.Name != input.Name {
			return nil, false, apperr.Duplicate("Creator", naturalKey)
		}
		return existing, false, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, false, err
	}

	creator = &Creator{
		ID:       uuidv7.New(),
		Name:     input.Name,
		Slug:     naturalKey,
		Bio:      input.Bio,
		ImageURL: input.ImageURL,
		Status:   StatusActive,
	}
	if err := service.repo.Create(context, creator); err != nil {
		// Lost insert race: a concurrent upsert landed the same slug
		// first, so adopt the stored row.
		if apperr.IsConflict(err) {
			winner, findErr := service.repo.GetBySlug(context, naturalKey)
			if findErr != nil {
				return nil, false, err
			}
			if winner.Name != input.Name {
				return nil, false, apperr.Duplicate("Creator", naturalKey)
			}
			return winner, false, nil
		}
		return nil, false, err
	}

	service.logger.Info("creator_created",
		slog.String("creator_id", creator.ID),
		slog.String("slug", creator.Slug),
	)
	return creator, true, nil
}

// Update applies a partial correction to an existing creator.
//
// The slug may only change while no episode references the creator yet.
func (service *Service) Update(context context.Context, id string, patch Patch) (*Creator, error) {
	validator := &validate.Validator{}
	if patch.Name != nil {
		validator.Required(FieldName, *patch.Name).MaxLen(FieldName, *patch.Name, 200)
	}
	if patch.Slug != nil {
		validator.Slug(FieldSlug, *patch.Slug)
	}
	if patch.ImageURL != nil {
		validator.URL(FieldImageURL, *patch.ImageURL)
	}
	if patch.Status != nil {
		validator.OneOf(FieldStatus, string(*patch.Status), string(StatusActive), string(StatusInactive))
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if patch.Slug != nil {
		referenced, err := service.repo.HasEpisodes(context, id)
		if err != nil {
			return nil, err
		}
		if referenced {
			return nil, validate.RequiredError(FieldSlug, "Slug is immutable once episodes reference the creator")
		}
	}

	updated, err := service.repo.Update(context, id, patch)
	if err != nil {
		return nil, err
	}

	service.logger.Info("creator_updated", slog.String("creator_id", id))
	return updated, nil
}

func (service *Service) Delete(context context.Context, id string) error {
	if err := service.repo.SoftDelete(context, id); err != nil {
		return err
	}

	service.logger.Warn("creator_deleted", slog.String("creator_id", id))
	return nil
}
