package product

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/spotline/internal/platform/apperr"
)

type fakeRepository struct {
	Repository
	rows []*Product
}

func (repo *fakeRepository) FindByName(_ context.Context, creatorID *string, name string) (*Product, error) {
	for _, row := range repo.rows {
		sameCreator := (row.CreatorID == nil && creatorID == nil) ||
			(row.CreatorID != nil && creatorID != nil && *row.CreatorID == *creatorID)
		if sameCreator && strings.EqualFold(row.Name, name) {
			return row, nil
		}
	}
	return nil, apperr.NotFound("Product")
}

func (repo *fakeRepository) Create(_ context.Context, p *Product) error {
	repo.rows = append(repo.rows, p)
	return nil
}

var creatorID = "0198a3f2-0000-7000-8000-000000000001"

func newTestService(repo Repository) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestUpsert_CreatesOnFirstSight(t *testing.T) {
	service := newTestService(&fakeRepository{})

	created, wasCreated, err := service.Upsert(context.Background(), UpsertInput{
		CreatorID: &creatorID,
		Name:      "Travel Tripod X2",
		Brand:     "Peak Design",
	})
	require.NoError(t, err)
	assert.True(t, wasCreated)
	assert.NotEmpty(t, created.ID)
}

func TestUpsert_CaseInsensitiveNaturalKey(t *testing.T) {
	service := newTestService(&fakeRepository{})

	first, _, err := service.Upsert(context.Background(), UpsertInput{
		CreatorID: &creatorID,
		Name:      "Travel Tripod X2",
		Brand:     "Peak Design",
	})
	require.NoError(t, err)

	second, wasCreated, err := service.Upsert(context.Background(), UpsertInput{
		CreatorID: &creatorID,
		Name:      "TRAVEL TRIPOD X2",
		Brand:     "Peak Design",
	})
	require.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, first.ID, second.ID)
}

func TestUpsert_ConflictingBrand(t *testing.T) {
	service := newTestService(&fakeRepository{})

	_, _, err := service.Upsert(context.Background(), UpsertInput{
		CreatorID: &creatorID,
		Name:      "Travel Tripod X2",
		Brand:     "Peak Design",
	})
	require.NoError(t, err)

	_, _, err = service.Upsert(context.Background(), UpsertInput{
		CreatorID: &creatorID,
		Name:      "Travel Tripod X2",
		Brand:     "Knockoff Co",
	})
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_KEY", apperr.As(err).Code)
}

func TestUpsert_NegativePriceRejected(t *testing.T) {
	service := newTestService(&fakeRepository{})

	price := -5.0
	_, _, err := service.Upsert(context.Background(), UpsertInput{
		CreatorID: &creatorID,
		Name:      "Travel Tripod X2",
		Price:     &price,
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

// racingRepository simulates losing an insert race: the lookup misses, the
// insert hits the unique index, and only then does the winner's row appear.
type racingRepository struct {
	fakeRepository
	winner *Product
}

func (repo *racingRepository) Create(_ context.Context, _ *Product) error {
	repo.rows = append(repo.rows, repo.winner)
	return apperr.Conflict("A record with the same key already exists")
}

func TestUpsert_LostInsertRaceAdoptsWinner(t *testing.T) {
	winner := &Product{
		ID:        "0198a3f2-0000-7000-8000-00000000000a",
		CreatorID: nil,
		Name:      "Travel Tripod X2",
		Brand:     "Peak Design",
	}
	service := newTestService(&racingRepository{winner: winner})

	stored, wasCreated, err := service.Upsert(context.Background(), UpsertInput{
		Name:  "Travel Tripod X2",
		Brand: "Peak Design",
	})
	require.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, winner.ID, stored.ID)
}
