package catalog

import (
	"strings"
	"time"

	"github.com/catalogsync/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product represents a catalog product row that is mirrored to the remote
// platform. It carries the base template fields, the linkage to the remote
// template, and the blob persisted after the last successful variant
// generation (the saved response), which feeds the replay path.
type Product struct {
	shared.BaseAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name        string          `gorm:"type:varchar(200);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	ListPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"listPrice"`
	// BaseCode links a child variant to its base product code. Empty for base
	// products; derived variant codes are built on top of it.
	BaseCode string `gorm:"type:varchar(50);index" json:"baseCode,omitempty"`
	// RemoteTemplateID identifies the product template on the remote platform
	RemoteTemplateID *int64 `gorm:"index" json:"remoteTemplateId,omitempty"`
	// SavedResponse holds the last successfully generated
	// {attributeLines, previewVariants} payload, opaque to the store
	SavedResponse datatypes.JSON `gorm:"type:jsonb" json:"savedResponse,omitempty"`
	Active        bool           `gorm:"not null;default:true" json:"active"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name string) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		ListPrice:         decimal.Zero,
		Active:            true,
	}, nil
}

// SetListPrice sets the product list price
func (p *Product) SetListPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "List price cannot be negative")
	}
	p.ListPrice = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// LinkRemoteTemplate records the remote template identifier for this product
func (p *Product) LinkRemoteTemplate(templateID int64) error {
	if templateID <= 0 {
		return shared.NewDomainError("INVALID_TEMPLATE_ID", "Remote template ID must be positive")
	}
	p.RemoteTemplateID = &templateID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// StoreSavedResponse persists a new saved response blob after a successful
// generation run
func (p *Product) StoreSavedResponse(payload []byte) error {
	if len(payload) == 0 {
		return shared.NewDomainError("INVALID_PAYLOAD", "Saved response payload cannot be empty")
	}
	p.SavedResponse = datatypes.JSON(payload)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// ClearSavedResponse removes the persisted saved response
func (p *Product) ClearSavedResponse() {
	p.SavedResponse = nil
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// HasSavedResponse returns true if a saved response blob is present
func (p *Product) HasSavedResponse() bool {
	return len(p.SavedResponse) > 0
}

// HasRemoteTemplate returns true if the product is linked to a remote template
func (p *Product) HasRemoteTemplate() bool {
	return p.RemoteTemplateID != nil
}

// VariantBaseCode returns the code used as the prefix for derived variant
// codes: the base product code for child variants, otherwise the product's
// own code
func (p *Product) VariantBaseCode() string {
	if p.BaseCode != "" {
		return p.BaseCode
	}
	return p.Code
}

// IsChildVariant returns true if the product references a base product code
func (p *Product) IsChildVariant() bool {
	return p.BaseCode != "" && p.BaseCode != p.Code
}

// validateProductCode validates the product code (SKU)
func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
