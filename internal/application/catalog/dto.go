package catalog

import (
	"time"

	"github.com/catalogsync/backend/internal/domain/catalog"
)

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID               string    `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	ListPrice        string    `json:"list_price"`
	BaseCode         string    `json:"base_code,omitempty"`
	RemoteTemplateID *int64    `json:"remote_template_id,omitempty"`
	HasSavedResponse bool      `json:"has_saved_response"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToProductResponse converts a product entity to a response DTO
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:               p.ID.String(),
		Code:             p.Code,
		Name:             p.Name,
		Description:      p.Description,
		ListPrice:        p.ListPrice.String(),
		BaseCode:         p.BaseCode,
		RemoteTemplateID: p.RemoteTemplateID,
		HasSavedResponse: p.HasSavedResponse(),
		Active:           p.Active,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// AttributeResponse represents an attribute with its values in API responses
type AttributeResponse struct {
	ID           string                   `json:"id"`
	Name         string                   `json:"name"`
	ExternalID   *int64                   `json:"external_id,omitempty"`
	DisplayOrder int                      `json:"display_order"`
	Values       []AttributeValueResponse `json:"values"`
}

// AttributeValueResponse represents one attribute value in API responses
type AttributeValueResponse struct {
	ID           string `json:"id"`
	Value        string `json:"value"`
	Code         string `json:"code,omitempty"`
	PriceExtra   string `json:"price_extra"`
	ExternalID   *int64 `json:"external_id,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

// ToAttributeResponse converts an attribute and its values to a response DTO
func ToAttributeResponse(a *catalog.Attribute, values []catalog.AttributeValue) AttributeResponse {
	valueDTOs := make([]AttributeValueResponse, 0, len(values))
	for _, v := range values {
		valueDTOs = append(valueDTOs, AttributeValueResponse{
			ID:           v.ID.String(),
			Value:        v.Value,
			Code:         v.Code,
			PriceExtra:   v.PriceExtra.String(),
			ExternalID:   v.ExternalID,
			DisplayOrder: v.DisplayOrder,
		})
	}
	return AttributeResponse{
		ID:           a.ID.String(),
		Name:         a.Name,
		ExternalID:   a.ExternalID,
		DisplayOrder: a.DisplayOrder,
		Values:       valueDTOs,
	}
}

// AttributeLineResponse represents a resolved attribute line in API responses
type AttributeLineResponse struct {
	AttributeName string   `json:"attribute_name"`
	ExternalID    int64    `json:"external_id"`
	Values        []string `json:"values"`
}

// ToAttributeLineResponses converts attribute lines to response DTOs
func ToAttributeLineResponses(lines []catalog.AttributeLine) []AttributeLineResponse {
	out := make([]AttributeLineResponse, 0, len(lines))
	for _, line := range lines {
		values := make([]string, 0, len(line.Values))
		for _, v := range line.Values {
			values = append(values, v.Value)
		}
		out = append(out, AttributeLineResponse{
			AttributeName: line.AttributeName,
			ExternalID:    line.ExternalID,
			Values:        values,
		})
	}
	return out
}
