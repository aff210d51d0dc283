package episode

import (
	"context"
	"log/slog"
	"time"

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

// UpsertInput is a structured episode record as returned by a content
// metadata provider. The engine never speaks a provider's wire protocol;
// it only consumes this shape.
type UpsertInput struct {
	CreatorID    string
	ExternalID   string
	Title        string
	Description  *string
	PublishedAt  time.Time
	MediaURL     *string
	ThumbnailURL *string
	Tags         []string
}

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Episode, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) Get(context context.Context, id string) (*Episode, error) {
	return service.repo.Get(context, id)
}

// Upsert inserts an episode keyed by the provider's external content id.
//
// Re-ingesting the same record is a no-op: the stored episode is returned
// untouched and created is false. An external-id hit that belongs to a
// different creator is a natural-key collision (DUPLICATE_KEY), since two
// providers must never share one content id across subjects.
func (service *Service) Upsert(context context.Context, input UpsertInput) (episode *Episode, created bool, err error) {
	validator := &validate.Validator{}
	validator.Required(FieldCreatorID, input.CreatorID).UUID(FieldCreatorID, input.CreatorID)
	validator.Required(FieldExternalID, input.ExternalID).MaxLen(FieldExternalID, input.ExternalID, 128)
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 500)
	validator.Custom(FieldPublishedAt, input.PublishedAt.IsZero(), "This field is required")
	if input.MediaURL != nil {
		validator.URL(FieldMediaURL, *input.MediaURL)
	}
	if input.ThumbnailURL != nil {
		validator.URL(FieldThumbnailURL, *input.ThumbnailURL)
	}
	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	existing, err := service.repo.GetByExternalID(context, input.ExternalID)
	if err == nil {
		if existing.CreatorID != input.CreatorID {
			return nil, false, apperr.Duplicate("Episode", input.ExternalID)
		}
		return existing, false, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, false, err
	}

	episode = &Episode{
		ID:           uuidv7.New(),
		CreatorID:    input.CreatorID,
		ExternalID:   input.ExternalID,
		Title:        input.Title,
		Description:  input.Description,
		PublishedAt:  input.PublishedAt,
		MediaURL:     input.MediaURL,
		ThumbnailURL: input.ThumbnailURL,
		Tags:         input.Tags,
	}
	if err := service.repo.Create(context, episode); err != nil {
		// Lost insert race: a concurrent upsert landed the same external
		// id first, so adopt the stored row.
		if apperr.IsConflict(err) {
			winner, findErr := service.repo.GetByExternalID(context, input.ExternalID)
			if findErr != nil {
				return nil, false, err
			}
			if winner.CreatorID != input.CreatorID {
				return nil, false, apperr.Duplicate("Episode", input.ExternalID)
			}
			return winner, false, nil
		}
		return nil, false, err
	}

	service.logger.Info("episode_created",
		slog.String("episode_id", episode.ID),
		slog.String("external_id", episode.ExternalID),
	)
	return episode, true, nil
}

func (service *Service) Delete(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("episode_deleted", slog.String("episode_id", id))
	return nil
}
