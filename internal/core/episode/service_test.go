package episode

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/spotline/internal/platform/apperr"
)

type fakeRepository struct {
	Repository
	byExternalID map[string]*Episode
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byExternalID: map[string]*Episode{}}
}

func (repo *fakeRepository) GetByExternalID(_ context.Context, externalID string) (*Episode, error) {
	e, ok := repo.byExternalID[externalID]
	if !ok {
		return nil, apperr.NotFound("Episode")
	}
	return e, nil
}

func (repo *fakeRepository) Create(_ context.Context, e *Episode) error {
	repo.byExternalID[e.ExternalID] = e
	return nil
}

const creatorID = "0198a3f2-0000-7000-8000-000000000001"
const otherCreatorID = "0198a3f2-0000-7000-8000-000000000002"

func sampleInput() UpsertInput {
	return UpsertInput{
		CreatorID:   creatorID,
		ExternalID:  "yt-abc123",
		Title:       "Hanoi Street Food 1",
		PublishedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestService(repo Repository) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestUpsert_CreatesOnFirstSight(t *testing.T) {
	service := newTestService(newFakeRepository())

	created, wasCreated, err := service.Upsert(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.True(t, wasCreated)
	assert.NotEmpty(t, created.ID)
}

func TestUpsert_ReIngestIsNoOp(t *testing.T) {
	service := newTestService(newFakeRepository())

	first, _, err := service.Upsert(context.Background(), sampleInput())
	require.NoError(t, err)

	input := sampleInput()
	input.Title = "Retitled After Upload"
	second, wasCreated, err := service.Upsert(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Hanoi Street Food 1", second.Title)
}

func TestUpsert_ExternalIDUnderDifferentCreator(t *testing.T) {
	service := newTestService(newFakeRepository())

	_, _, err := service.Upsert(context.Background(), sampleInput())
	require.NoError(t, err)

	input := sampleInput()
	input.CreatorID = otherCreatorID
	_, _, err = service.Upsert(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_KEY", apperr.As(err).Code)
}

// racingRepository simulates losing an insert race: the external-id lookup
// misses, the insert hits the unique index, and only then does the winner
// appear.
type racingRepository struct {
	*fakeRepository
	winner *Episode
}

func (repo *racingRepository) Create(_ context.Context, _ *Episode) error {
	repo.byExternalID[repo.winner.ExternalID] = repo.winner
	return apperr.Conflict("A record with the same key already exists")
}

func TestUpsert_LostInsertRaceAdoptsWinner(t *testing.T) {
	winner := &Episode{
		ID:         "0198a3f2-0000-7000-8000-00000000000a",
		CreatorID:  creatorID,
		ExternalID: "yt-abc123",
		Title:      "Hanoi Street Food 1",
	}
	service := newTestService(&racingRepository{fakeRepository: newFakeRepository(), winner: winner})

	stored, wasCreated, err := service.Upsert(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, winner.ID, stored.ID)
}

func TestUpsert_MissingRequiredFields(t *testing.T) {
	service := newTestService(newFakeRepository())

	input := sampleInput()
	input.PublishedAt = time.Time{}
	_, _, err := service.Upsert(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}
