package persistence

import (
	"context"
	"errors"

	"github.com/catalogsync/backend/internal/domain/catalog"
	"github.com/catalogsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAttributeRepository implements AttributeRepository using GORM
type GormAttributeRepository struct {
	db *gorm.DB
}

var _ catalog.AttributeRepository = (*GormAttributeRepository)(nil)

// NewGormAttributeRepository creates a new GormAttributeRepository
func NewGormAttributeRepository(db *gorm.DB) *GormAttributeRepository {
	return &GormAttributeRepository{db: db}
}

// FindAll returns all attributes ordered by display order
func (r *GormAttributeRepository) FindAll(ctx context.Context) ([]catalog.Attribute, error) {
	var attributes []catalog.Attribute
	if err := r.db.WithContext(ctx).
		Order("display_order ASC, name ASC").
		Find(&attributes).Error; err != nil {
		return nil, err
	}
	return attributes, nil
}

// Save persists an attribute
func (r *GormAttributeRepository) Save(ctx context.Context, attribute *catalog.Attribute) error {
	return r.db.WithContext(ctx).Save(attribute).Error
}

// GormAttributeValueRepository implements AttributeValueRepository using GORM
type GormAttributeValueRepository struct {
	db *gorm.DB
}

var _ catalog.AttributeValueRepository = (*GormAttributeValueRepository)(nil)

// NewGormAttributeValueRepository creates a new GormAttributeValueRepository
func NewGormAttributeValueRepository(db *gorm.DB) *GormAttributeValueRepository {
	return &GormAttributeValueRepository{db: db}
}

// FindActiveByValue finds an active attribute value by its text, joined to
// its owning attribute. Matching is case-insensitive exact.
func (r *GormAttributeValueRepository) FindActiveByValue(ctx context.Context, value string) (*catalog.AttributeValue, error) {
	var attributeValue catalog.AttributeValue
	if err := r.db.WithContext(ctx).
		Preload("Attribute").
		Where("LOWER(value) = LOWER(?) AND active = ?", value, true).
		Order("display_order ASC").
		First(&attributeValue).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &attributeValue, nil
}

// FindByAttribute returns the active values of an attribute ordered by
// display order
func (r *GormAttributeValueRepository) FindByAttribute(ctx context.Context, attributeID uuid.UUID) ([]catalog.AttributeValue, error) {
	var values []catalog.AttributeValue
	if err := r.db.WithContext(ctx).
		Preload("Attribute").
		Where("attribute_id = ? AND active = ?", attributeID, true).
		Order("display_order ASC").
		Find(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// Save persists an attribute value
func (r *GormAttributeValueRepository) Save(ctx context.Context, value *catalog.AttributeValue) error {
	return r.db.WithContext(ctx).Save(value).Error
}
