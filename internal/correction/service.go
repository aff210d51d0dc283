package correction

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/quangdng/spotline/internal/core/place"
	"github.com/quangdng/spotline/internal/core/product"
	"github.com/quangdng/spotline/internal/integrity"
	"github.com/quangdng/spotline/internal/platform/apperr"
	"github.com/quangdng/spotline/internal/platform/validate"
	"github.com/quangdng/spotline/pkg/pointer"
	"github.com/quangdng/spotline/pkg/uuidv7"
)

// PlaceEditor is the slice of the place service a correction needs.
type PlaceEditor interface {
	Get(context context.Context, id string) (*place.Place, error)
	Update(context context.Context, id string, patch place.Patch) (*place.Place, error)
}

// ProductEditor is the slice of the product service a correction needs.
type ProductEditor interface {
	Get(context context.Context, id string) (*product.Product, error)
	Update(context context.Context, id string, patch product.Patch) (*product.Product, error)
}

// Rechecker re-runs the scoped integrity checks after a correction lands.
type Rechecker interface {
	RunForEntity(context context.Context, entityKind, entityID string) ([]integrity.Finding, error)
}

// Result bundles what a correction returns: the updated entity, the audit
// rows written and the fresh integrity findings for that entity.
type Result struct {
	Entity   any                 `json:"entity"`
	Changes  []Change            `json:"changes"`
	Findings []integrity.Finding `json:"findings"`
}

type Service struct {
	store    Store
	places   PlaceEditor
	products ProductEditor
	recheck  Rechecker
	logger   *slog.Logger
}

func NewService(store Store, places PlaceEditor, products ProductEditor, recheck Rechecker, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		places:   places,
		products: products,
		recheck:  recheck,
		logger:   logger,
	}
}

// Correct applies a field-level fix to a harvested entity.
//
// The entity id never changes, so episode links survive every correction.
// One audit row is written per field whose value actually changed; fields
// submitted with their current value are dropped silently. A correction
// where nothing changes is rejected so the audit trail never records
// no-ops. After the update the entity's integrity checks re-run and their
// findings come back with the result.
func (service *Service) Correct(context context.Context, input Input) (*Result, error) {
	validator := &validate.Validator{}
	validator.Custom("kind", !input.Kind.Valid(), "Kind must be place or product")
	validator.UUID("id", input.ID)
	validator.Custom("fields", len(input.Fields) == 0, "At least one field is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var entity any
	var changes []Change
	var err error
	switch input.Kind {
	case EntityPlace:
		entity, changes, err = service.correctPlace(context, input)
	case EntityProduct:
		entity, changes, err = service.correctProduct(context, input)
	}
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, apperr.Unprocessable("Correction does not change any field")
	}

	if err := service.store.Append(context, changes); err != nil {
		return nil, err
	}

	service.logger.Info("correction_applied",
		slog.String("entity_kind", string(input.Kind)),
		slog.String("entity_id", input.ID),
		slog.Int("fields", len(changes)),
	)

	findings, err := service.recheck.RunForEntity(context, string(input.Kind), input.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Entity: entity, Changes: changes, Findings: findings}, nil
}

// History returns the audit trail of one entity, newest change first.
func (service *Service) History(context context.Context, kind EntityKind, entityID string) ([]Change, error) {
	if !kind.Valid() {
		return nil, validate.RequiredError("kind", "Kind must be place or product")
	}
	return service.store.History(context, kind, entityID)
}

// Rollback restores the before-value of one audited change. It runs as a
// regular correction, so the rollback itself lands in the audit trail and
// can be rolled back in turn.
func (service *Service) Rollback(context context.Context, auditID, note string) (*Result, error) {
	change, err := service.store.Get(context, auditID)
	if err != nil {
		return nil, err
	}

	if note == "" {
		note = fmt.Sprintf("rollback of audit %s", change.ID)
	}
	return service.Correct(context, Input{
		Kind:   change.EntityKind,
		ID:     change.EntityID,
		Fields: map[string]string{change.Field: change.Before},
		Note:   note,
	})
}

func (service *Service) correctPlace(context context.Context, input Input) (any, []Change, error) {
	stored, err := service.places.Get(context, input.ID)
	if err != nil {
		return nil, nil, err
	}

	before := map[string]string{
		place.FieldName:        stored.Name,
		place.FieldAddress:     stored.Address,
		place.FieldDescription: stored.Description,
	}

	patch := place.Patch{}
	for field, value := range input.Fields {
		switch field {
		case place.FieldName:
			patch.Name = pointer.To(value)
		case place.FieldAddress:
			patch.Address = pointer.To(value)
		case place.FieldDescription:
			patch.Description = pointer.To(value)
		default:
			return nil, nil, validate.RequiredError(field, "Field is not correctable on a place")
		}
	}

	updated, err := service.places.Update(context, input.ID, patch)
	if err != nil {
		return nil, nil, err
	}

	after := map[string]string{
		place.FieldName:        updated.Name,
		place.FieldAddress:     updated.Address,
		place.FieldDescription: updated.Description,
	}
	return updated, service.diff(input, before, after), nil
}

func (service *Service) correctProduct(context context.Context, input Input) (any, []Change, error) {
	stored, err := service.products.Get(context, input.ID)
	if err != nil {
		return nil, nil, err
	}
	before := productFields(stored)

	patch := product.Patch{}
	for field, value := range input.Fields {
		switch field {
		case product.FieldName:
			patch.Name = pointer.To(value)
		case product.FieldBrand:
			patch.Brand = pointer.To(value)
		case product.FieldCategory:
			patch.Category = pointer.To(value)
		case product.FieldPrice:
			price, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, nil, validate.RequiredError(field, "Price must be a number")
			}
			patch.Price = &price
		case product.FieldPurchaseURL:
			patch.PurchaseURL = pointer.To(value)
		default:
			return nil, nil, validate.RequiredError(field, "Field is not correctable on a product")
		}
	}

	updated, err := service.products.Update(context, input.ID, patch)
	if err != nil {
		return nil, nil, err
	}
	return updated, service.diff(input, before, productFields(updated)), nil
}

// diff turns before/after snapshots into audit rows, keeping only the
// fields the operator submitted that actually moved.
func (service *Service) diff(input Input, before, after map[string]string) []Change {
	var changes []Change
	for field := range input.Fields {
		if before[field] == after[field] {
			continue
		}
		changes = append(changes, Change{
			ID:         uuidv7.New(),
			EntityKind: input.Kind,
			EntityID:   input.ID,
			Field:      field,
			Before:     before[field],
			After:      after[field],
			Note:       input.Note,
		})
	}
	return changes
}

func productFields(p *product.Product) map[string]string {
	fields := map[string]string{
		product.FieldName:     p.Name,
		product.FieldBrand:    p.Brand,
		product.FieldCategory: p.Category,
	}
	if p.Price != nil {
		fields[product.FieldPrice] = strconv.FormatFloat(*p.Price, 'f', -1, 64)
	} else {
		fields[product.FieldPrice] = ""
	}
	if p.PurchaseURL != nil {
		fields[product.FieldPurchaseURL] = *p.PurchaseURL
	} else {
		fields[product.FieldPurchaseURL] = ""
	}
	return fields
}
