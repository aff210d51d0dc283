package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/quangdng/spotline/internal/core/creator"
	"github.com/quangdng/spotline/internal/core/episode"
	"github.com/quangdng/spotline/internal/core/link"
	"github.com/quangdng/spotline/internal/core/place"
	"github.com/quangdng/spotline/internal/core/product"
)

// The pipeline depends on narrow slices of the domain services so tests can
// stand in fakes without a database.

type CreatorUpserter interface {
	Upsert(context context.Context, input creator.UpsertInput) (*creator.Creator, bool, error)
}

type EpisodeUpserter interface {
	Upsert(context context.Context, input episode.UpsertInput) (*episode.Episode, bool, error)
}

type PlaceUpserter interface {
	Upsert(context context.Context, input place.UpsertInput) (*place.Place, bool, error)
}

type ProductUpserter interface {
	Upsert(context context.Context, input product.UpsertInput) (*product.Product, bool, error)
}

type Linker interface {
	Link(context context.Context, kind link.Kind, episodeID, targetID string) (*link.Result, error)
}

type URLSetter interface {
	SetURL(context context.Context, placeID, rawURL string) (*place.Place, error)
}

// Pipeline ingests provider batches with bounded concurrency. Each creator
// record is one unit of work; the shared limiter paces units so a large
// batch cannot outrun the provider's rate budget.
type Pipeline struct {
	creators    CreatorUpserter
	episodes    EpisodeUpserter
	places      PlaceUpserter
	products    ProductUpserter
	linker      Linker
	affiliate   URLSetter
	limiter     *rate.Limiter
	concurrency int
	logger      *slog.Logger
}

func NewPipeline(
	creators CreatorUpserter,
	episodes EpisodeUpserter,
	places PlaceUpserter,
	products ProductUpserter,
	linker Linker,
	affiliate URLSetter,
	limiter *rate.Limiter,
	concurrency int,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		creators:    creators,
		episodes:    episodes,
		places:      places,
		products:    products,
		linker:      linker,
		affiliate:   affiliate,
		limiter:     limiter,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run processes the batch and reports per-record outcomes. A failing
// creator record is isolated: it lands in the summary's error list while
// every other record still runs. Only context cancellation stops the batch
// early. The whole batch is safe to re-run because every write underneath
// is an idempotent upsert.
func (pipeline *Pipeline) Run(context context.Context, batch Batch) (*Summary, error) {
	summary := &Summary{}
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(context)
	group.SetLimit(pipeline.concurrency)

	for _, record := range batch.Creators {
		record := record
		group.Go(func() error {
			if err := pipeline.limiter.Wait(groupCtx); err != nil {
				return err
			}

			created, existing, err := pipeline.ingestCreator(groupCtx, record)

			mu.Lock()
			defer mu.Unlock()
			summary.Created += created
			summary.Existing += existing
			if err != nil {
				summary.Failed++
				summary.Errors = append(summary.Errors, RecordError{
					Identifier: record.Name,
					Error:      err.Error(),
				})
				pipeline.logger.Error("ingest_record_failed",
					slog.String("creator", record.Name),
					slog.String("error", err.Error()),
				)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	pipeline.logger.Info("ingest_batch_finished",
		slog.Int("created", summary.Created),
		slog.Int("existing", summary.Existing),
		slog.Int("failed", summary.Failed),
	)
	return summary, nil
}

// ingestCreator walks one creator record depth-first. Counts accumulated
// before a failure are kept so the summary reflects partial progress.
func (pipeline *Pipeline) ingestCreator(context context.Context, record CreatorRecord) (created, existing int, err error) {
	tally := func(wasCreated bool) {
		if wasCreated {
			created++
		} else {
			existing++
		}
	}

	owner, wasCreated, err := pipeline.creators.Upsert(context, creator.UpsertInput{
		Name:     record.Name,
		Bio:      record.Bio,
		ImageURL: record.ImageURL,
	})
	if err != nil {
		return created, existing, fmt.Errorf("creator %q: %w", record.Name, err)
	}
	tally(wasCreated)

	for _, episodeRecord := range record.Episodes {
		ep, wasCreated, err := pipeline.episodes.Upsert(context, episode.UpsertInput{
			CreatorID:    owner.ID,
			ExternalID:   episodeRecord.ExternalID,
			Title:        episodeRecord.Title,
			Description:  episodeRecord.Description,
			PublishedAt:  episodeRecord.PublishedAt,
			MediaURL:     episodeRecord.MediaURL,
			ThumbnailURL: episodeRecord.ThumbnailURL,
			Tags:         episodeRecord.Tags,
		})
		if err != nil {
			return created, existing, fmt.Errorf("episode %q: %w", episodeRecord.ExternalID, err)
		}
		tally(wasCreated)

		for _, placeRecord := range episodeRecord.Places {
			p, wasCreated, err := pipeline.places.Upsert(context, place.UpsertInput{
				CreatorID:      &owner.ID,
				Name:           placeRecord.Name,
				Address:        placeRecord.Address,
				Description:    placeRecord.Description,
				RestaurantInfo: placeRecord.RestaurantInfo,
				Tags:           placeRecord.Tags,
			})
			if err != nil {
				return created, existing, fmt.Errorf("place %q: %w", placeRecord.Name, err)
			}
			tally(wasCreated)

			if _, err := pipeline.linker.Link(context, link.KindPlace, ep.ID, p.ID); err != nil {
				return created, existing, fmt.Errorf("link place %q: %w", placeRecord.Name, err)
			}

			// Harvested affiliate URLs enter the lifecycle as pending.
			// Only a freshly created place takes one; an existing place's
			// lifecycle state is never touched by re-ingest.
			if wasCreated && placeRecord.AffiliateURL != "" {
				if _, err := pipeline.affiliate.SetURL(context, p.ID, placeRecord.AffiliateURL); err != nil {
					return created, existing, fmt.Errorf("affiliate url for %q: %w", placeRecord.Name, err)
				}
			}
		}

		for _, productRecord := range episodeRecord.Products {
			pr, wasCreated, err := pipeline.products.Upsert(context, product.UpsertInput{
				CreatorID:   &owner.ID,
				Name:        productRecord.Name,
				Brand:       productRecord.Brand,
				Category:    productRecord.Category,
				Price:       productRecord.Price,
				PurchaseURL: productRecord.PurchaseURL,
				Tags:        productRecord.Tags,
			})
			if err != nil {
				return created, existing, fmt.Errorf("product %q: %w", productRecord.Name, err)
			}
			tally(wasCreated)

			if _, err := pipeline.linker.Link(context, link.KindProduct, ep.ID, pr.ID); err != nil {
				return created, existing, fmt.Errorf("link product %q: %w", productRecord.Name, err)
			}
		}
	}

	return created, existing, nil
}
