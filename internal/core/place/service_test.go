package place

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
	rows []*Place
}

func (repo *fakeRepository) FindByName(_ context.Context, creatorID *string, name string) (*Place, error) {
	for _, row := range repo.rows {
		sameCreator := (row.CreatorID == nil && creatorID == nil) ||
			(row.CreatorID != nil && creatorID != nil && *row.CreatorID == *creatorID)
		if sameCreator && strings.EqualFold(row.Name, name) {
			return row, nil
		}
	}
	return nil, apperr.NotFound("Place")
}

func (repo *fakeRepository) Create(_ context.Context, p *Place) error {
	repo.rows = append(repo.rows, p)
	return nil
}

var creatorID = "0198a3f2-0000-7000-8000-000000000001"

func newTestService(repo Repository) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestUpsert_NewPlaceStartsUnset(t *testing.T) {
	service := newTestService(&fakeRepository{})

	created, wasCreated, err := service.Upsert(context.Background(), UpsertInput{
		CreatorID: &creatorID,
		Name:      "Pho Thin",
		Address:   "13 Lo Duc, Hanoi",
	})
	require.NoError(t, err)
	assert.True(t, wasCreated)
	assert.Equal(t, LinkUnset, created.Affiliate.LinkSwitch.Status)
}

func TestUpsert_CaseInsensitiveNaturalKey(t *testing.T) {
	service := newTestService(&fakeRepository{})

	first, _, err := service.Upsert(context.Background(), UpsertInput{
		CreatorID: &creatorID,
		Name:      "Pho Thin",
		Address:   "13 Lo Duc, Hanoi",
	})
	require.NoError(t, err)

	second, wasCreated, err := service.Upsert(context.Background(), UpsertInput{
		CreatorID: &creatorID,
		Name:      "PHO THIN",
		Address:   "13 Lo Duc, Hanoi",
	})
	require.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, first.ID, second.ID)
}

func TestUpsert_ConflictingAddress(t *testing.T) {
	service := newTestService(&fakeRepository{})

	_, _, err := service.Upsert(context.Background(), UpsertInput{
		CreatorID: &creatorID,
		Name:      "Pho Thin",
		Address:   "13 Lo Duc, Hanoi",
	})
	require.NoError(t, err)

	_, _, err = service.Upsert(context.Background(), UpsertInput{
		CreatorID: &creatorID,
		Name:      "Pho Thin",
		Address:   "99 Somewhere Else",
	})
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_KEY", apperr.As(err).Code)
}

func TestUpsert_SameNameUnderDifferentCreators(t *testing.T) {
	otherCreator := "0198a3f2-0000-7000-8000-000000000002"
	service := newTestService(&fakeRepository{})

	_, _, err := service.Upsert(context.Background(), UpsertInput{
		CreatorID: &creatorID,
		Name:      "Pho Thin",
		Address:   "13 Lo Duc, Hanoi",
	})
	require.NoError(t, err)

	_, wasCreated, err := service.Upsert(context.Background(), UpsertInput{
		CreatorID: &otherCreator,
		Name:      "Pho Thin",
		Address:   "Another branch entirely",
	})
	require.NoError(t, err)
	assert.True(t, wasCreated)
}

// racingRepository simulates losing an insert race: the lookup misses, the
// insert hits the unique index, and only then does the winner's row appear.
type racingRepository struct {
	fakeRepository
	winner *Place
}

func (repo *racingRepository) Create(_ context.Context, _ *Place) error {
	repo.rows = append(repo.rows, repo.winner)
	return apperr.Conflict("A record with the same key already exists")
}

func TestUpsert_LostInsertRaceAdoptsWinner(t *testing.T) {
	winner := &Place{
		ID:        "0198a3f2-0000-7000-8000-00000000000a",
		CreatorID: nil,
		Name:      "Pho Thin",
		Address:   "13 Lo Duc, Hanoi",
		Affiliate: NewAffiliateInfo(),
	}
	service := newTestService(&racingRepository{winner: winner})

	stored, wasCreated, err := service.Upsert(context.Background(), UpsertInput{
		Name:    "Pho Thin",
		Address: "13 Lo Duc, Hanoi",
	})
	require.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, winner.ID, stored.ID)
}

func TestUpsert_LostInsertRaceWithConflictingAddress(t *testing.T) {
	winner := &Place{
		ID:        "0198a3f2-0000-7000-8000-00000000000a",
		CreatorID: nil,
		Name:      "Pho Thin",
		Address:   "99 Somewhere Else",
		Affiliate: NewAffiliateInfo(),
	}
	service := newTestService(&racingRepository{winner: winner})

	_, _, err := service.Upsert(context.Background(), UpsertInput{
		Name:    "Pho Thin",
		Address: "13 Lo Duc, Hanoi",
	})
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_KEY", apperr.As(err).Code)
}

func TestUpsert_MissingAddressRejected(t *testing.T) {
	service := newTestService(&fakeRepository{})

	_, _, err := service.Upsert(context.Background(), UpsertInput{
		CreatorID: &creatorID,
		Name:      "Pho Thin",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}
