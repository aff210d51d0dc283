package product

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

// UpsertInput is a harvested item record from a catalog provider.
type UpsertInput struct {
	CreatorID   *string
	Name        string
	Brand       string
	Category    string
	Price       *float64
	PurchaseURL *string
	Tags        []string
}

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) Get(context context.Context, id string) (*Product, error) {
	return service.repo.Get(context, id)
}

// Upsert inserts a product keyed by (creator, lowercased name).
//
// A hit whose stored brand matches is a re-ingest: the stored row is
// returned untouched and created is false. A hit with a conflicting brand
// is a natural-key collision (DUPLICATE_KEY).
func (service *Service) Upsert(context context.Context, input UpsertInput) (product *Product, created bool, err error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 300)
	validator.MaxLen(FieldBrand, input.Brand, 200)
	validator.MaxLen(FieldCategory, input.Category, 100)
	if input.CreatorID != nil {
		validator.UUID("creator_id", *input.CreatorID)
	}
	if input.Price != nil {
		validator.Custom(FieldPrice, *input.Price < 0, "Price must not be negative")
	}
	if input.PurchaseURL != nil {
		validator.URL(FieldPurchaseURL, *input.PurchaseURL)
	}
	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	existing, err := service.repo.FindByName(context, input.CreatorID, input.Name)
	if err == nil {
		if existing.Brand != input.Brand {
			return nil, false, apperr.Duplicate("Product", input.Name)
		}
		return existing, false, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, false, err
	}

	product = &Product{
		ID:          uuidv7.New(),
		CreatorID:   input.CreatorID,
		Name:        input.Name,
		Brand:       input.Brand,
		Category:    input.Category,
		Price:       input.Price,
		PurchaseURL: input.PurchaseURL,
		Tags:        input.Tags,
	}
	if err := service.repo.Create(context, product); err != nil {
		// Lost insert race: a concurrent upsert landed the same natural
		// key first, so adopt the stored row.
		if apperr.IsConflict(err) {
			winner, findErr := service.repo.FindByName(context, input.CreatorID, input.Name)
			if findErr != nil {
				return nil, false, err
			}
			if winner.Brand != input.Brand {
				return nil, false, apperr.Duplicate("Product", input.Name)
			}
			return winner, false, nil
		}
		return nil, false, err
	}

	service.logger.Info("product_created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)
	return product, true, nil
}

// Update applies a partial correction to an existing product.
func (service *Service) Update(context context.Context, id string, patch Patch) (*Product, error) {
	validator := &validate.Validator{}
	if patch.Name != nil {
		validator.Required(FieldName, *patch.Name).MaxLen(FieldName, *patch.Name, 300)
	}
	if patch.Price != nil {
		validator.Custom(FieldPrice, *patch.Price < 0, "Price must not be negative")
	}
	if patch.PurchaseURL != nil {
		validator.URL(FieldPurchaseURL, *patch.PurchaseURL)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	updated, err := service.repo.Update(context, id, patch)
	if err != nil {
		return nil, err
	}

	service.logger.Info("product_updated", slog.String("product_id", id))
	return updated, nil
}

func (service *Service) Delete(context context.Context, id string) error {
	if err := service.repo.SoftDelete(context, id); err != nil {
		return err
	}

	service.logger.Warn("product_deleted", slog.String("product_id", id))
	return nil
}

func (service *Service) ListByEpisode(context context.Context, episodeID string) ([]*Product, error) {
	return service.repo.ListByEpisode(context, episodeID)
}
