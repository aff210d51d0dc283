package link

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/spotline/internal/platform/apperr"
)

type memoryRepository struct {
	Repository
	pairs map[string]bool
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{pairs: map[string]bool{}}
}

func pairKey(kind Kind, episodeID, targetID string) string {
	return string(kind) + "/" + episodeID + "/" + targetID
}

func (repo *memoryRepository) Insert(_ context.Context, kind Kind, episodeID, targetID string) (bool, error) {
	key := pairKey(kind, episodeID, targetID)
	if repo.pairs[key] {
		return false, nil
	}
	repo.pairs[key] = true
	return true, nil
}

func (repo *memoryRepository) Delete(_ context.Context, kind Kind, episodeID, targetID string) error {
	key := pairKey(kind, episodeID, targetID)
	if !repo.pairs[key] {
		return apperr.NotFound("Link")
	}
	delete(repo.pairs, key)
	return nil
}

type staticChecker bool

func (exists staticChecker) Exists(context.Context, string) (bool, error) {
	return bool(exists), nil
}

const (
	episodeID = "0198a3f2-0000-7000-8000-0000000000e1"
	targetID  = "0198a3f2-0000-7000-8000-0000000000a1"
)

func newTestService(repo Repository, episodes, places, products staticChecker) *Service {
	return NewService(repo, episodes, places, products, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLink_CreatesPair(t *testing.T) {
	service := newTestService(newMemoryRepository(), true, true, true)

	result, err := service.Link(context.Background(), KindPlace, episodeID, targetID)
	require.NoError(t, err)
	assert.False(t, result.AlreadyLinked)
}

func TestLink_DuplicatePairIsNoOp(t *testing.T) {
	service := newTestService(newMemoryRepository(), true, true, true)

	_, err := service.Link(context.Background(), KindPlace, episodeID, targetID)
	require.NoError(t, err)

	result, err := service.Link(context.Background(), KindPlace, episodeID, targetID)
	require.NoError(t, err)
	assert.True(t, result.AlreadyLinked)
}

func TestLink_SamePairDifferentKind(t *testing.T) {
	service := newTestService(newMemoryRepository(), true, true, true)

	_, err := service.Link(context.Background(), KindPlace, episodeID, targetID)
	require.NoError(t, err)

	// A place link does not occupy the product join table.
	result, err := service.Link(context.Background(), KindProduct, episodeID, targetID)
	require.NoError(t, err)
	assert.False(t, result.AlreadyLinked)
}

func TestLink_MissingEpisode(t *testing.T) {
	service := newTestService(newMemoryRepository(), false, true, true)

	_, err := service.Link(context.Background(), KindPlace, episodeID, targetID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestLink_MissingTarget(t *testing.T) {
	service := newTestService(newMemoryRepository(), true, false, true)

	_, err := service.Link(context.Background(), KindPlace, episodeID, targetID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestLink_InvalidKind(t *testing.T) {
	service := newTestService(newMemoryRepository(), true, true, true)

	_, err := service.Link(context.Background(), Kind("creator"), episodeID, targetID)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestUnlink_RemovesPair(t *testing.T) {
	repo := newMemoryRepository()
	service := newTestService(repo, true, true, true)

	_, err := service.Link(context.Background(), KindPlace, episodeID, targetID)
	require.NoError(t, err)

	require.NoError(t, service.Unlink(context.Background(), KindPlace, episodeID, targetID))
	assert.Empty(t, repo.pairs)
}

func TestUnlink_MissingPair(t *testing.T) {
	service := newTestService(newMemoryRepository(), true, true, true)

	err := service.Unlink(context.Background(), KindPlace, episodeID, targetID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
