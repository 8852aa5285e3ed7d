package catalog

import (
	"strings"

	"github.com/catalogsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Attribute represents a named axis of product variation (e.g. Color, Size).
// Attributes are immutable once referenced by saved variants.
type Attribute struct {
	shared.BaseEntity
	Name         string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	DisplayOrder int    `gorm:"not null;default:0" json:"displayOrder"`
	// ExternalID is the attribute identifier on the remote platform.
	// Nil when the attribute has not been mapped remotely.
	ExternalID *int64 `gorm:"index" json:"externalId,omitempty"`
}

// TableName returns the table name for GORM
func (Attribute) TableName() string {
	return "attributes"
}

// NewAttribute creates a new attribute
func NewAttribute(name string) (*Attribute, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Attribute name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Attribute name cannot exceed 100 characters")
	}
	return &Attribute{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// IsMapped returns true if the attribute has a remote identifier
func (a *Attribute) IsMapped() bool {
	return a.ExternalID != nil
}

// AttributeValue represents one concrete value on an attribute axis (e.g. Red).
// Only active values participate in variant generation.
type AttributeValue struct {
	shared.BaseEntity
	AttributeID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"attributeId"`
	Value        string          `gorm:"type:varchar(100);not null;index" json:"value"`
	Code         string          `gorm:"type:varchar(20)" json:"code,omitempty"`
	PriceExtra   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"priceExtra"`
	DisplayOrder int             `gorm:"not null;default:0" json:"displayOrder"`
	// ExternalID is the value identifier on the remote platform
	ExternalID *int64 `gorm:"index" json:"externalId,omitempty"`
	Active     bool   `gorm:"not null;default:true" json:"active"`

	Attribute Attribute `gorm:"foreignKey:AttributeID" json:"-"`
}

// TableName returns the table name for GORM
func (AttributeValue) TableName() string {
	return "attribute_values"
}

// NewAttributeValue creates a new attribute value belonging to an attribute
func NewAttributeValue(attributeID uuid.UUID, value, code string) (*AttributeValue, error) {
	value = strings.TrimSpace(value)
	if attributeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ATTRIBUTE", "Attribute ID is required")
	}
	if value == "" {
		return nil, shared.NewDomainError("INVALID_VALUE", "Attribute value cannot be empty")
	}
	if len(value) > 100 {
		return nil, shared.NewDomainError("INVALID_VALUE", "Attribute value cannot exceed 100 characters")
	}
	return &AttributeValue{
		BaseEntity:  shared.NewBaseEntity(),
		AttributeID: attributeID,
		Value:       value,
		Code:        code,
		PriceExtra:  decimal.Zero,
		Active:      true,
	}, nil
}

// CodeOrDefault returns the value's short code, or the generation-assigned
// suffix "1" when the value carries no distinct code
func (v *AttributeValue) CodeOrDefault() string {
	if v.Code != "" {
		return v.Code
	}
	return defaultCodeSuffix
}

// RemoteAttributeID returns the owning attribute's remote identifier, or 0
// when the attribute relation is not loaded or not mapped
func (v *AttributeValue) RemoteAttributeID() int64 {
	if v.Attribute.ExternalID == nil {
		return 0
	}
	return *v.Attribute.ExternalID
}

// RemoteValueID returns the value's remote identifier, or 0 when unmapped
func (v *AttributeValue) RemoteValueID() int64 {
	if v.ExternalID == nil {
		return 0
	}
	return *v.ExternalID
}

// AttributeLine pairs an attribute with the ordered, non-empty subset of its
// values selected for one product. Line order and value order are both
// significant: they determine generated naming and the canonical combination
// ordering.
type AttributeLine struct {
	AttributeID   *uuid.UUID       `json:"attributeId,omitempty"`
	AttributeName string           `json:"attributeName"`
	ExternalID    int64            `json:"externalId"`
	Values        []AttributeValue `json:"values"`
}

// IsEmpty returns true if the line carries no values
func (l AttributeLine) IsEmpty() bool {
	return len(l.Values) == 0
}
