package catalog

import (
	"context"

	"github.com/google/uuid"
)

// AttributeRepository defines the persistence port for attributes
type AttributeRepository interface {
	// FindAll returns all attributes ordered by display order
	FindAll(ctx context.Context) ([]Attribute, error)

	// Save persists an attribute (insert or update)
	Save(ctx context.Context, attribute *Attribute) error
}

// AttributeValueRepository defines the persistence port for attribute values
type AttributeValueRepository interface {
	// FindActiveByValue finds an active attribute value by its text
	// (case-insensitive exact match) with the owning attribute loaded
	FindActiveByValue(ctx context.Context, value string) (*AttributeValue, error)

	// FindByAttribute returns the active values of an attribute ordered by
	// display order
	FindByAttribute(ctx context.Context, attributeID uuid.UUID) ([]AttributeValue, error)

	// Save persists an attribute value (insert or update)
	Save(ctx context.Context, value *AttributeValue) error
}
