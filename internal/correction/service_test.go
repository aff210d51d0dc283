package correction

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/spotline/internal/core/place"
	"github.com/quangdng/spotline/internal/core/product"
	"github.com/quangdng/spotline/internal/integrity"
	"github.com/quangdng/spotline/internal/platform/apperr"
)

type memoryStore struct {
	changes []Change
}

func (store *memoryStore) Append(_ context.Context, changes []Change) error {
	store.changes = append(store.changes, changes...)
	return nil
}

func (store *memoryStore) History(_ context.Context, kind EntityKind, entityID string) ([]Change, error) {
	var matched []Change
	for i := len(store.changes) - 1; i >= 0; i-- {
		change := store.changes[i]
		if change.EntityKind == kind && change.EntityID == entityID {
			matched = append(matched, change)
		}
	}
	return matched, nil
}

func (store *memoryStore) Get(_ context.Context, auditID string) (*Change, error) {
	for _, change := range store.changes {
		if change.ID == auditID {
			clone := change
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Audit entry")
}

type fakePlaceEditor struct {
	place *place.Place
}

func (editor *fakePlaceEditor) Get(context.Context, string) (*place.Place, error) {
	clone := *editor.place
	return &clone, nil
}

func (editor *fakePlaceEditor) Update(_ context.Context, _ string, patch place.Patch) (*place.Place, error) {
	if patch.Name != nil {
		editor.place.Name = *patch.Name
	}
	if patch.Address != nil {
		editor.place.Address = *patch.Address
	}
	if patch.Description != nil {
		editor.place.Description = *patch.Description
	}
	clone := *editor.place
	return &clone, nil
}

type fakeProductEditor struct {
	product *product.Product
}

func (editor *fakeProductEditor) Get(context.Context, string) (*product.Product, error) {
	clone := *editor.product
	return &clone, nil
}

func (editor *fakeProductEditor) Update(_ context.Context, _ string, patch product.Patch) (*product.Product, error) {
	if patch.Name != nil {
		editor.product.Name = *patch.Name
	}
	if patch.Brand != nil {
		editor.product.Brand = *patch.Brand
	}
	if patch.Price != nil {
		editor.product.Price = patch.Price
	}
	clone := *editor.product
	return &clone, nil
}

type noFindings struct{}

func (noFindings) RunForEntity(context.Context, string, string) ([]integrity.Finding, error) {
	return nil, nil
}

const placeID = "0198a3f2-0000-7000-8000-000000000010"

func newTestService(store *memoryStore, places *fakePlaceEditor, products *fakeProductEditor) *Service {
	if places == nil {
		places = &fakePlaceEditor{place: &place.Place{ID: placeID}}
	}
	if products == nil {
		products = &fakeProductEditor{product: &product.Product{ID: placeID}}
	}
	return NewService(store, places, products, noFindings{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCorrect_WritesOneChangePerField(t *testing.T) {
	store := &memoryStore{}
	editor := &fakePlaceEditor{place: &place.Place{ID: placeID, Name: "Pho Thinn", Address: "13 Lo Duc"}}
	service := newTestService(store, editor, nil)

	result, err := service.Correct(context.Background(), Input{
		Kind: EntityPlace,
		ID:   placeID,
		Fields: map[string]string{
			"name":    "Pho Thin",
			"address": "13 Lo Duc", // unchanged, must not be audited
		},
		Note: "fix harvested typo",
	})
	require.NoError(t, err)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, "name", result.Changes[0].Field)
	assert.Equal(t, "Pho Thinn", result.Changes[0].Before)
	assert.Equal(t, "Pho Thin", result.Changes[0].After)
	assert.Equal(t, "fix harvested typo", result.Changes[0].Note)

	updated := result.Entity.(*place.Place)
	assert.Equal(t, placeID, updated.ID)
	assert.Equal(t, "Pho Thin", updated.Name)
}

func TestCorrect_NoOpRejected(t *testing.T) {
	store := &memoryStore{}
	editor := &fakePlaceEditor{place: &place.Place{ID: placeID, Name: "Pho Thin"}}
	service := newTestService(store, editor, nil)

	_, err := service.Correct(context.Background(), Input{
		Kind:   EntityPlace,
		ID:     placeID,
		Fields: map[string]string{"name": "Pho Thin"},
	})
	require.Error(t, err)
	assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
	assert.Empty(t, store.changes)
}

func TestCorrect_UnknownFieldRejected(t *testing.T) {
	service := newTestService(&memoryStore{}, nil, nil)

	_, err := service.Correct(context.Background(), Input{
		Kind:   EntityPlace,
		ID:     placeID,
		Fields: map[string]string{"affiliate_url": "https://linkswitch.io/x"},
	})
	require.Error(t, err)
}

func TestCorrect_ProductPrice(t *testing.T) {
	store := &memoryStore{}
	price := 49.99
	editor := &fakeProductEditor{product: &product.Product{ID: placeID, Name: "Tripod", Price: &price}}
	service := newTestService(store, nil, editor)

	result, err := service.Correct(context.Background(), Input{
		Kind:   EntityProduct,
		ID:     placeID,
		Fields: map[string]string{"price": "39.99"},
		Note:   "price drop",
	})
	require.NoError(t, err)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, "49.99", result.Changes[0].Before)
	assert.Equal(t, "39.99", result.Changes[0].After)
}

func TestHistory_NewestFirst(t *testing.T) {
	store := &memoryStore{}
	editor := &fakePlaceEditor{place: &place.Place{ID: placeID, Name: "A"}}
	service := newTestService(store, editor, nil)

	_, err := service.Correct(context.Background(), Input{
		Kind: EntityPlace, ID: placeID, Fields: map[string]string{"name": "B"},
	})
	require.NoError(t, err)
	_, err = service.Correct(context.Background(), Input{
		Kind: EntityPlace, ID: placeID, Fields: map[string]string{"name": "C"},
	})
	require.NoError(t, err)

	history, err := service.History(context.Background(), EntityPlace, placeID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "C", history[0].After)
	assert.Equal(t, "B", history[1].After)
}

func TestRollback_RestoresValueAndIsAudited(t *testing.T) {
	store := &memoryStore{}
	editor := &fakePlaceEditor{place: &place.Place{ID: placeID, Name: "Pho Thin"}}
	service := newTestService(store, editor, nil)

	first, err := service.Correct(context.Background(), Input{
		Kind: EntityPlace, ID: placeID, Fields: map[string]string{"name": "Wrong Name"},
	})
	require.NoError(t, err)

	result, err := service.Rollback(context.Background(), first.Changes[0].ID, "")
	require.NoError(t, err)

	restored := result.Entity.(*place.Place)
	assert.Equal(t, "Pho Thin", restored.Name)

	// Rollback is a correction in its own right: two audit rows total.
	require.Len(t, store.changes, 2)
	assert.Equal(t, "Wrong Name", store.changes[1].Before)
	assert.Equal(t, "Pho Thin", store.changes[1].After)
	assert.Contains(t, store.changes[1].Note, "rollback of audit")
}
