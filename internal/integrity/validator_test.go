package integrity

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/spotline/internal/core/link"
)

type fakeStore struct {
	duplicatePlaces   []DuplicateName
	duplicateProducts []DuplicateName
	affiliateRows     []AffiliateRow
	episodeRows       []EpisodeRow
}

func (store *fakeStore) DuplicatePlaceNames(context.Context) ([]DuplicateName, error) {
	return store.duplicatePlaces, nil
}

func (store *fakeStore) DuplicateProductNames(context.Context) ([]DuplicateName, error) {
	return store.duplicateProducts, nil
}

func (store *fakeStore) AffiliateRows(context.Context) ([]AffiliateRow, error) {
	return store.affiliateRows, nil
}

func (store *fakeStore) AffiliateRow(_ context.Context, placeID string) (*AffiliateRow, error) {
	for _, row := range store.affiliateRows {
		if row.PlaceID == placeID {
			return &row, nil
		}
	}
	return &AffiliateRow{PlaceID: placeID}, nil
}

func (store *fakeStore) EpisodeRows(context.Context) ([]EpisodeRow, error) {
	return store.episodeRows, nil
}

type fakeOrphans struct {
	orphans []link.Orphan
}

func (lister *fakeOrphans) ListOrphans(context.Context) ([]link.Orphan, error) {
	return lister.orphans, nil
}

type staticFetcher struct {
	body string
}

func (fetcher *staticFetcher) Fetch(context.Context, string) (string, error) {
	return fetcher.body, nil
}

func newTestValidator(store *fakeStore, orphans *fakeOrphans, fetch Fetcher) *Validator {
	return NewValidator(store, orphans, fetch, "linkswitch.io", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func findingsOfKind(report *Report, kind FindingKind) []Finding {
	var matched []Finding
	for _, finding := range report.Findings {
		if finding.Kind == kind {
			matched = append(matched, finding)
		}
	}
	return matched
}

func TestRun_CleanCatalogue(t *testing.T) {
	validator := newTestValidator(&fakeStore{}, &fakeOrphans{}, nil)

	report, err := validator.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, report.Findings)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))
}

func TestRun_DuplicateNames(t *testing.T) {
	creatorID := "0198a3f2-0000-7000-8000-0000000000aa"
	store := &fakeStore{
		duplicatePlaces: []DuplicateName{{CreatorID: &creatorID, Name: "pho thin", Count: 2}},
	}
	validator := newTestValidator(store, &fakeOrphans{}, nil)

	report, err := validator.Run(context.Background(), false)
	require.NoError(t, err)

	found := findingsOfKind(report, KindDuplicateName)
	require.Len(t, found, 1)
	assert.Equal(t, SeverityError, found[0].Severity)
	assert.Equal(t, 1, report.Counts[KindDuplicateName])
}

func TestRun_Orphans(t *testing.T) {
	orphans := &fakeOrphans{orphans: []link.Orphan{
		{ID: "p1", Kind: link.KindPlace, Name: "Forgotten Cafe"},
		{ID: "pr1", Kind: link.KindProduct, Name: "Old Tripod"},
	}}
	validator := newTestValidator(&fakeStore{}, orphans, nil)

	report, err := validator.Run(context.Background(), false)
	require.NoError(t, err)

	found := findingsOfKind(report, KindOrphaned)
	require.Len(t, found, 2)
	assert.Equal(t, "place", found[0].EntityKind)
	assert.Equal(t, "product", found[1].EntityKind)
}

func TestRun_URLChecks(t *testing.T) {
	store := &fakeStore{affiliateRows: []AffiliateRow{
		{PlaceID: "p1", Name: "Pho Thin", URL: "://broken", Status: "pending"},
		{PlaceID: "p2", Name: "Bun Cha", URL: "https://elsewhere.example.com/r/bun-cha", Status: "active"},
		{PlaceID: "p3", Name: "Banh Mi 25", URL: "https://linkswitch.io/r/banh-mi-25", Status: "active"},
	}}
	validator := newTestValidator(store, &fakeOrphans{}, nil)

	report, err := validator.Run(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, findingsOfKind(report, KindMalformedURL), 1)
	require.Len(t, findingsOfKind(report, KindForeignURL), 1)
	assert.Empty(t, findingsOfKind(report, KindURLMismatch))
}

func TestRun_PlausibilityMismatch(t *testing.T) {
	store := &fakeStore{affiliateRows: []AffiliateRow{
		{PlaceID: "p1", Name: "Pho Thin", URL: "https://linkswitch.io/r/pho-thin", Status: "active"},
	}}
	validator := newTestValidator(store, &fakeOrphans{}, &staticFetcher{body: "<h1>Some Other Page</h1>"})

	report, err := validator.Run(context.Background(), true)
	require.NoError(t, err)

	found := findingsOfKind(report, KindURLMismatch)
	require.Len(t, found, 1)
	assert.Equal(t, SeverityWarning, found[0].Severity)
}

func TestRun_NumberingGap(t *testing.T) {
	store := &fakeStore{episodeRows: []EpisodeRow{
		{EpisodeID: "e1", CreatorID: "c1", Title: "Hanoi Street Food 1"},
		{EpisodeID: "e2", CreatorID: "c1", Title: "Hanoi Street Food 2"},
		{EpisodeID: "e4", CreatorID: "c1", Title: "Hanoi Street Food 4"},
		{EpisodeID: "e5", CreatorID: "c1", Title: "Behind the scenes"},
	}}
	validator := newTestValidator(store, &fakeOrphans{}, nil)

	report, err := validator.Run(context.Background(), false)
	require.NoError(t, err)

	found := findingsOfKind(report, KindNumberingGap)
	require.Len(t, found, 1)
	assert.Equal(t, "c1", found[0].EntityID)
	assert.Contains(t, found[0].Detail, "[3]")
}

func TestRun_NoGapAcrossCreators(t *testing.T) {
	store := &fakeStore{episodeRows: []EpisodeRow{
		{EpisodeID: "e1", CreatorID: "c1", Title: "Tour 1"},
		{EpisodeID: "e2", CreatorID: "c2", Title: "Review 3"},
	}}
	validator := newTestValidator(store, &fakeOrphans{}, nil)

	report, err := validator.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, findingsOfKind(report, KindNumberingGap))
}

func TestRunForEntity_PlaceURL(t *testing.T) {
	store := &fakeStore{affiliateRows: []AffiliateRow{
		{PlaceID: "p1", Name: "Pho Thin", URL: "https://elsewhere.example.com/x", Status: "pending"},
	}}
	validator := newTestValidator(store, &fakeOrphans{}, nil)

	findings, err := validator.RunForEntity(context.Background(), "place", "p1")
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, KindForeignURL, findings[0].Kind)
}

func TestMissingNumbers(t *testing.T) {
	assert.Nil(t, missingNumbers([]int{7}))
	assert.Nil(t, missingNumbers([]int{1, 2, 3}))
	assert.Equal(t, []int{3}, missingNumbers([]int{1, 2, 4}))
	assert.Equal(t, []int{3, 4}, missingNumbers([]int{5, 2, 1}))
}
