package link

import (
	"context"
	"log/slog"

	"github.com/quangdng/spotline/internal/platform/apperr"
	"github.com/quangdng/spotline/internal/platform/validate"
)

type Service struct {
	repo     Repository
	episodes Checker
	places   Checker
	products Checker
	logger   *slog.Logger
}

func NewService(repo Repository, episodes, places, products Checker, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		episodes: episodes,
		places:   places,
		products: products,
		logger:   logger,
	}
}

// Link attaches a place or product to an episode.
//
// Both endpoints are verified first; a missing endpoint is NOT_FOUND, never
// a silent foreign-key failure. Linking an already linked pair is a no-op
// reported through Result.AlreadyLinked, so re-ingesting a batch that links
// twice cannot fail or duplicate.
func (service *Service) Link(context context.Context, kind Kind, episodeID, targetID string) (*Result, error) {
	if err := service.check(context, kind, episodeID, targetID); err != nil {
		return nil, err
	}

	inserted, err := service.repo.Insert(context, kind, episodeID, targetID)
	if err != nil {
		return nil, err
	}

	if inserted {
		service.logger.Info("link_created",
			slog.String("kind", string(kind)),
			slog.String("episode_id", episodeID),
			slog.String("target_id", targetID),
		)
	}
	return &Result{
		Link:          Link{EpisodeID: episodeID, TargetID: targetID, Kind: kind},
		AlreadyLinked: !inserted,
	}, nil
}

// Unlink detaches a place or product from an episode. The entity rows stay;
// only the association goes.
func (service *Service) Unlink(context context.Context, kind Kind, episodeID, targetID string) error {
	if err := service.check(context, kind, episodeID, targetID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, kind, episodeID, targetID); err != nil {
		return err
	}

	service.logger.Info("link_deleted",
		slog.String("kind", string(kind)),
		slog.String("episode_id", episodeID),
		slog.String("target_id", targetID),
	)
	return nil
}

func (service *Service) ListByEpisode(context context.Context, episodeID string) ([]Link, error) {
	return service.repo.ListByEpisode(context, episodeID)
}

func (service *Service) ListOrphans(context context.Context) ([]Orphan, error) {
	return service.repo.ListOrphans(context)
}

func (service *Service) check(context context.Context, kind Kind, episodeID, targetID string) error {
	validator := &validate.Validator{}
	validator.UUID("episode_id", episodeID)
	validator.UUID("target_id", targetID)
	validator.Custom("kind", !kind.Valid(), "Kind must be place or product")
	if err := validator.Err(); err != nil {
		return err
	}

	exists, err := service.episodes.Exists(context, episodeID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Episode")
	}

	target := service.places
	resource := "Place"
	if kind == KindProduct {
		target = service.products
		resource = "Product"
	}
	exists, err = target.Exists(context, targetID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound(resource)
	}
	return nil
}
