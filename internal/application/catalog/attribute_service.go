package catalog

import (
	"context"

	"github.com/catalogsync/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// AttributeService exposes the attribute taxonomy for read access and seeds
// the fixed catalogs into the relational store so the parenthesized
// descriptor form resolves out of the box.
type AttributeService struct {
	attributeRepo catalog.AttributeRepository
	valueRepo     catalog.AttributeValueRepository
	log           *zap.Logger
}

// NewAttributeService creates a new AttributeService
func NewAttributeService(attributeRepo catalog.AttributeRepository, valueRepo catalog.AttributeValueRepository, log *zap.Logger) *AttributeService {
	return &AttributeService{
		attributeRepo: attributeRepo,
		valueRepo:     valueRepo,
		log:           log,
	}
}

// ListAttributes returns all attributes with their active values, both in
// display order
func (s *AttributeService) ListAttributes(ctx context.Context) ([]AttributeResponse, error) {
	attributes, err := s.attributeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]AttributeResponse, 0, len(attributes))
	for _, attribute := range attributes {
		values, err := s.valueRepo.FindByAttribute(ctx, attribute.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ToAttributeResponse(&attribute, values))
	}
	return out, nil
}

// SeedBuiltinCatalogs persists the three fixed catalogs as attribute rows.
// Seeding is idempotent: attributes are matched by name, values by remote
// identifier, and existing rows are left untouched. Alias entries sharing a
// remote identifier (e.g. "M" and "Size M") collapse to one row.
func (s *AttributeService) SeedBuiltinCatalogs(ctx context.Context) error {
	existing, err := s.attributeRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]*catalog.Attribute, len(existing))
	for i := range existing {
		byName[existing[i].Name] = &existing[i]
	}

	for order, bc := range []builtinCatalog{sizeTextCatalog, sizeNumberCatalog, colorCatalog} {
		attribute, seeded := byName[bc.attributeName]
		if !seeded {
			attribute, err = catalog.NewAttribute(bc.attributeName)
			if err != nil {
				return err
			}
			externalID := bc.externalID
			attribute.ExternalID = &externalID
			attribute.DisplayOrder = order
			if err := s.attributeRepo.Save(ctx, attribute); err != nil {
				return err
			}
		}

		if err := s.seedValues(ctx, attribute, bc); err != nil {
			return err
		}
	}

	s.log.Info("Builtin catalogs seeded")
	return nil
}

func (s *AttributeService) seedValues(ctx context.Context, attribute *catalog.Attribute, bc builtinCatalog) error {
	current, err := s.valueRepo.FindByAttribute(ctx, attribute.ID)
	if err != nil {
		return err
	}
	present := make(map[int64]bool, len(current))
	for _, v := range current {
		present[v.RemoteValueID()] = true
	}

	order := len(current)
	for _, bv := range bc.values {
		if present[bv.externalID] {
			continue
		}
		present[bv.externalID] = true

		value, err := catalog.NewAttributeValue(attribute.ID, bv.name, bv.code)
		if err != nil {
			return err
		}
		externalID := bv.externalID
		value.ExternalID = &externalID
		value.DisplayOrder = order
		order++
		if err := s.valueRepo.Save(ctx, value); err != nil {
			return err
		}
	}
	return nil
}
