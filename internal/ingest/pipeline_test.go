package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/quangdng/spotline/internal/core/creator"
	"github.com/quangdng/spotline/internal/core/episode"
	"github.com/quangdng/spotline/internal/core/link"
	"github.com/quangdng/spotline/internal/core/place"
	"github.com/quangdng/spotline/internal/core/product"
)

// fakeCatalog fakes every upserter at once, keyed by natural keys, so a
// batch can be run twice against the same state.
type fakeCatalog struct {
	mu       sync.Mutex
	creators map[string]*creator.Creator
	episodes map[string]*episode.Episode
	places   map[string]*place.Place
	products map[string]*product.Product
	links    map[string]bool
	urls     []string

	failCreator string // creator name that always errors
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		creators: map[string]*creator.Creator{},
		episodes: map[string]*episode.Episode{},
		places:   map[string]*place.Place{},
		products: map[string]*product.Product{},
		links:    map[string]bool{},
	}
}

func (catalog *fakeCatalog) Upsert(_ context.Context, input creator.UpsertInput) (*creator.Creator, bool, error) {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()
	if input.Name == catalog.failCreator {
		return nil, false, errors.New("provider rejected record")
	}
	if existing, ok := catalog.creators[input.Name]; ok {
		return existing, false, nil
	}
	created := &creator.Creator{ID: "creator-" + input.Name, Name: input.Name}
	catalog.creators[input.Name] = created
	return created, true, nil
}

type episodeUpserter struct{ catalog *fakeCatalog }

func (u episodeUpserter) Upsert(_ context.Context, input episode.UpsertInput) (*episode.Episode, bool, error) {
	u.catalog.mu.Lock()
	defer u.catalog.mu.Unlock()
	if existing, ok := u.catalog.episodes[input.ExternalID]; ok {
		return existing, false, nil
	}
	created := &episode.Episode{ID: "episode-" + input.ExternalID, ExternalID: input.ExternalID, CreatorID: input.CreatorID}
	u.catalog.episodes[input.ExternalID] = created
	return created, true, nil
}

type placeUpserter struct{ catalog *fakeCatalog }

func (u placeUpserter) Upsert(_ context.Context, input place.UpsertInput) (*place.Place, bool, error) {
	u.catalog.mu.Lock()
	defer u.catalog.mu.Unlock()
	if existing, ok := u.catalog.places[input.Name]; ok {
		return existing, false, nil
	}
	created := &place.Place{ID: "place-" + input.Name, Name: input.Name, CreatorID: input.CreatorID}
	u.catalog.places[input.Name] = created
	return created, true, nil
}

type productUpserter struct{ catalog *fakeCatalog }

func (u productUpserter) Upsert(_ context.Context, input product.UpsertInput) (*product.Product, bool, error) {
	u.catalog.mu.Lock()
	defer u.catalog.mu.Unlock()
	if existing, ok := u.catalog.products[input.Name]; ok {
		return existing, false, nil
	}
	created := &product.Product{ID: "product-" + input.Name, Name: input.Name}
	u.catalog.products[input.Name] = created
	return created, true, nil
}

type fakeLinker struct{ catalog *fakeCatalog }

func (l fakeLinker) Link(_ context.Context, kind link.Kind, episodeID, targetID string) (*link.Result, error) {
	l.catalog.mu.Lock()
	defer l.catalog.mu.Unlock()
	key := string(kind) + "/" + episodeID + "/" + targetID
	already := l.catalog.links[key]
	l.catalog.links[key] = true
	return &link.Result{AlreadyLinked: already}, nil
}

type fakeURLSetter struct{ catalog *fakeCatalog }

func (s fakeURLSetter) SetURL(_ context.Context, placeID, rawURL string) (*place.Place, error) {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()
	s.catalog.urls = append(s.catalog.urls, placeID+"="+rawURL)
	return nil, nil
}

func newTestPipeline(catalog *fakeCatalog) *Pipeline {
	return NewPipeline(
		catalog,
		episodeUpserter{catalog},
		placeUpserter{catalog},
		productUpserter{catalog},
		fakeLinker{catalog},
		fakeURLSetter{catalog},
		rate.NewLimiter(rate.Inf, 1),
		4,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func sampleBatch() Batch {
	return Batch{Creators: []CreatorRecord{
		{
			Name: "Khoai Lang Thang",
			Episodes: []EpisodeRecord{
				{
					ExternalID:  "yt-abc123",
					Title:       "Hanoi Street Food 1",
					PublishedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
					Places: []PlaceRecord{
						{Name: "Pho Thin", Address: "13 Lo Duc", AffiliateURL: "https://linkswitch.io/r/pho-thin"},
					},
					Products: []ProductRecord{
						{Name: "Travel Tripod", Brand: "Peak"},
					},
				},
			},
		},
		{
			Name: "Chan La Ca",
			Episodes: []EpisodeRecord{
				{
					ExternalID:  "yt-def456",
					Title:       "Saigon By Night 1",
					PublishedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
				},
			},
		},
	}}
}

func TestRun_FreshBatch(t *testing.T) {
	catalog := newFakeCatalog()
	pipeline := newTestPipeline(catalog)

	summary, err := pipeline.Run(context.Background(), sampleBatch())
	require.NoError(t, err)

	// 2 creators + 2 episodes + 1 place + 1 product
	assert.Equal(t, 6, summary.Created)
	assert.Equal(t, 0, summary.Existing)
	assert.Equal(t, 0, summary.Failed)
	assert.Len(t, catalog.urls, 1)
}

func TestRun_ReRunIsIdempotent(t *testing.T) {
	catalog := newFakeCatalog()
	pipeline := newTestPipeline(catalog)

	_, err := pipeline.Run(context.Background(), sampleBatch())
	require.NoError(t, err)

	summary, err := pipeline.Run(context.Background(), sampleBatch())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 6, summary.Existing)
	assert.Equal(t, 0, summary.Failed)

	// Existing places keep their lifecycle state: no second SetURL.
	assert.Len(t, catalog.urls, 1)
}

func TestRun_FailureIsolatedPerRecord(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.failCreator = "Khoai Lang Thang"
	pipeline := newTestPipeline(catalog)

	summary, err := pipeline.Run(context.Background(), sampleBatch())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "Khoai Lang Thang", summary.Errors[0].Identifier)

	// The other record still went through.
	assert.Contains(t, catalog.creators, "Chan La Ca")
	assert.Equal(t, 2, summary.Created)
}

func TestRun_CancelledContextStopsBatch(t *testing.T) {
	catalog := newFakeCatalog()
	pipeline := newTestPipeline(catalog)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Run(cancelled, sampleBatch())
	require.Error(t, err)
}
