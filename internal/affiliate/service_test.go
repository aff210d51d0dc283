package affiliate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/spotline/internal/core/place"
	"github.com/quangdng/spotline/internal/platform/apperr"
)

type fakePlaceRepo struct {
	place.Repository
	byID map[string]*place.Place
}

func newFakePlaceRepo(places ...*place.Place) *fakePlaceRepo {
	repo := &fakePlaceRepo{byID: map[string]*place.Place{}}
	for _, p := range places {
		repo.byID[p.ID] = p
	}
	return repo
}

func (repo *fakePlaceRepo) Get(_ context.Context, id string) (*place.Place, error) {
	p, ok := repo.byID[id]
	if !ok {
		return nil, apperr.NotFound("Place")
	}
	clone := *p
	return &clone, nil
}

func (repo *fakePlaceRepo) UpdateAffiliate(_ context.Context, id string, info place.AffiliateInfo) error {
	p, ok := repo.byID[id]
	if !ok {
		return apperr.NotFound("Place")
	}
	p.Affiliate = info
	return nil
}

type fakeFetcher struct {
	body string
	err  error
}

func (fetcher *fakeFetcher) Fetch(context.Context, string) (string, error) {
	return fetcher.body, fetcher.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPlace(status place.LinkStatus, url string) *place.Place {
	return &place.Place{
		ID:   "0198a3f2-0000-7000-8000-000000000001",
		Name: "Pho Thin",
		Affiliate: place.AffiliateInfo{
			LinkSwitch: place.LinkSwitch{Status: status, OriginalURL: url},
		},
	}
}

func newTestService(repo *fakePlaceRepo, fetch Fetcher) *Service {
	return NewService(repo, fetch, "linkswitch.io", discardLogger())
}

func TestSetURL_FromUnset(t *testing.T) {
	p := testPlace(place.LinkUnset, "")
	service := newTestService(newFakePlaceRepo(p), nil)

	updated, err := service.SetURL(context.Background(), p.ID, "https://linkswitch.io/r/pho-thin")
	require.NoError(t, err)
	assert.Equal(t, place.LinkPending, updated.Affiliate.LinkSwitch.Status)
	assert.Equal(t, "https://linkswitch.io/r/pho-thin", updated.Affiliate.LinkSwitch.OriginalURL)
}

func TestSetURL_RejectsForeignDomain(t *testing.T) {
	p := testPlace(place.LinkUnset, "")
	service := newTestService(newFakePlaceRepo(p), nil)

	_, err := service.SetURL(context.Background(), p.ID, "https://evil.example.com/r/pho-thin")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestSetURL_RejectsSuffixTrickDomain(t *testing.T) {
	p := testPlace(place.LinkUnset, "")
	service := newTestService(newFakePlaceRepo(p), nil)

	_, err := service.SetURL(context.Background(), p.ID, "https://notlinkswitch.io/r/pho-thin")
	require.Error(t, err)
}

func TestSetURL_RejectedWhileActive(t *testing.T) {
	p := testPlace(place.LinkActive, "https://linkswitch.io/r/old")
	service := newTestService(newFakePlaceRepo(p), nil)

	_, err := service.SetURL(context.Background(), p.ID, "https://linkswitch.io/r/new")
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", apperr.As(err).Code)
}

func TestActivate_FromPending(t *testing.T) {
	p := testPlace(place.LinkPending, "https://linkswitch.io/r/pho-thin")
	service := newTestService(newFakePlaceRepo(p), nil)

	updated, err := service.Activate(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, place.LinkActive, updated.Affiliate.LinkSwitch.Status)
	require.NotNil(t, updated.Affiliate.LinkSwitch.LastVerified)
}

func TestActivate_WithoutURL(t *testing.T) {
	p := testPlace(place.LinkPending, "")
	service := newTestService(newFakePlaceRepo(p), nil)

	_, err := service.Activate(context.Background(), p.ID)
	require.Error(t, err)
}

func TestActivate_FromFlagged(t *testing.T) {
	p := testPlace(place.LinkFlagged, "https://linkswitch.io/r/pho-thin")
	service := newTestService(newFakePlaceRepo(p), nil)

	_, err := service.Activate(context.Background(), p.ID)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", apperr.As(err).Code)
}

func TestDeactivateActivate_RoundTripKeepsURL(t *testing.T) {
	p := testPlace(place.LinkActive, "https://linkswitch.io/r/pho-thin")
	service := newTestService(newFakePlaceRepo(p), nil)

	paused, err := service.Deactivate(context.Background(), p.ID, "seasonal closure")
	require.NoError(t, err)
	assert.Equal(t, place.LinkInactive, paused.Affiliate.LinkSwitch.Status)
	assert.Equal(t, "seasonal closure", paused.Affiliate.LinkSwitch.Notes)

	resumed, err := service.Activate(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, place.LinkActive, resumed.Affiliate.LinkSwitch.Status)
	assert.Equal(t, "https://linkswitch.io/r/pho-thin", resumed.Affiliate.LinkSwitch.OriginalURL)
}

func TestDeactivate_RejectedWhilePending(t *testing.T) {
	p := testPlace(place.LinkPending, "https://linkswitch.io/r/pho-thin")
	service := newTestService(newFakePlaceRepo(p), nil)

	_, err := service.Deactivate(context.Background(), p.ID, "nope")
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", apperr.As(err).Code)
}

func TestFlag_FromAnyState(t *testing.T) {
	for _, status := range []place.LinkStatus{place.LinkUnset, place.LinkPending, place.LinkActive, place.LinkInactive} {
		p := testPlace(status, "https://linkswitch.io/r/pho-thin")
		service := newTestService(newFakePlaceRepo(p), nil)

		flagged, err := service.Flag(context.Background(), p.ID, "stale listing")
		require.NoError(t, err, "flag from %s", status)
		assert.Equal(t, place.LinkFlagged, flagged.Affiliate.LinkSwitch.Status)
		assert.Equal(t, "stale listing", flagged.Affiliate.LinkSwitch.Notes)
	}
}

func TestResolve_WithStoredURLGoesPending(t *testing.T) {
	p := testPlace(place.LinkFlagged, "https://linkswitch.io/r/pho-thin")
	service := newTestService(newFakePlaceRepo(p), nil)

	resolved, err := service.Resolve(context.Background(), p.ID, "listing fixed upstream")
	require.NoError(t, err)
	assert.Equal(t, place.LinkPending, resolved.Affiliate.LinkSwitch.Status)
}

func TestResolve_WithoutURLGoesUnset(t *testing.T) {
	p := testPlace(place.LinkFlagged, "")
	service := newTestService(newFakePlaceRepo(p), nil)

	resolved, err := service.Resolve(context.Background(), p.ID, "cleared")
	require.NoError(t, err)
	assert.Equal(t, place.LinkUnset, resolved.Affiliate.LinkSwitch.Status)
}

func TestLastVerified_Monotonic(t *testing.T) {
	p := testPlace(place.LinkPending, "https://linkswitch.io/r/pho-thin")
	repo := newFakePlaceRepo(p)
	service := newTestService(repo, nil)

	later := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return later }
	_, err := service.Activate(context.Background(), p.ID)
	require.NoError(t, err)

	_, err = service.Deactivate(context.Background(), p.ID, "pause")
	require.NoError(t, err)

	// Clock jumps backwards between verifications.
	service.now = func() time.Time { return later.Add(-time.Hour) }
	resumed, err := service.Activate(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, later, *resumed.Affiliate.LinkSwitch.LastVerified)
}

func TestReverify_CleanPassStampsVerification(t *testing.T) {
	p := testPlace(place.LinkActive, "https://linkswitch.io/r/pho-thin")
	service := newTestService(newFakePlaceRepo(p), &fakeFetcher{body: "<h1>Pho Thin</h1> best noodles"})

	verified, err := service.Reverify(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, place.LinkActive, verified.Affiliate.LinkSwitch.Status)
	require.NotNil(t, verified.Affiliate.LinkSwitch.LastVerified)
}

func TestReverify_MismatchFlags(t *testing.T) {
	p := testPlace(place.LinkActive, "https://linkswitch.io/r/pho-thin")
	service := newTestService(newFakePlaceRepo(p), &fakeFetcher{body: "<h1>Different Restaurant</h1>"})

	flagged, err := service.Reverify(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, place.LinkFlagged, flagged.Affiliate.LinkSwitch.Status)
	assert.Contains(t, flagged.Affiliate.LinkSwitch.Notes, "mismatch")
}

func TestReverify_FetchFailureFlags(t *testing.T) {
	p := testPlace(place.LinkActive, "https://linkswitch.io/r/pho-thin")
	service := newTestService(newFakePlaceRepo(p), &fakeFetcher{err: errors.New("connection refused")})

	flagged, err := service.Reverify(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, place.LinkFlagged, flagged.Affiliate.LinkSwitch.Status)
	assert.Contains(t, flagged.Affiliate.LinkSwitch.Notes, "fetch failed")
}

func TestReverify_RejectedWhenNotActive(t *testing.T) {
	p := testPlace(place.LinkPending, "https://linkswitch.io/r/pho-thin")
	service := newTestService(newFakePlaceRepo(p), &fakeFetcher{body: "Pho Thin"})

	_, err := service.Reverify(context.Background(), p.ID)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", apperr.As(err).Code)
}
