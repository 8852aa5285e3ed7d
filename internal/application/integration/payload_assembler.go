package integration

import (
	"fmt"

	"github.com/catalogsync/backend/internal/domain/catalog"
	"github.com/catalogsync/backend/internal/domain/integration"
)

// PayloadAssembler maps variant candidates and their owning product template
// into the remote platform's full variant document shape.
//
// Field population follows a three-tier policy: identity and name fields are
// always derived from the candidate and product; inheritable fields are
// copied from the base template snapshot when present, else a fixed default;
// generation-owned fields (Id, pricing, attribute value references) are
// always set directly and never inherited. Every recognized remote field ends
// up populated exactly once.
type PayloadAssembler struct{}

// NewPayloadAssembler creates a new PayloadAssembler
func NewPayloadAssembler() *PayloadAssembler {
	return &PayloadAssembler{}
}

// AssembleVariant produces the full remote-schema document for one candidate
func (a *PayloadAssembler) AssembleVariant(
	candidate catalog.VariantCandidate,
	product *catalog.Product,
	template *integration.TemplateSnapshot,
	image string,
) integration.VariantDocument {
	if template == nil {
		template = integration.DefaultTemplateSnapshot()
	}

	listPrice, _ := product.ListPrice.Float64()

	doc := integration.VariantDocument{
		// Identity: always derived from the candidate and product name.
		// Id = 0 signals a new variant to the platform.
		ID:   0,
		Name: variantDisplayName(product.Name, candidate.Name),
		Code: candidate.Code,

		// Inheritable: base template when present, fixed defaults otherwise
		Active:         template.Active,
		Type:           template.Type,
		SaleOk:         template.SaleOk,
		PurchaseOk:     template.PurchaseOk,
		UomID:          template.UomID,
		UomPoID:        template.UomPoID,
		CategoryID:     template.CategoryID,
		TaxIDs:         append([]int64{}, template.TaxIDs...),
		SupplierTaxIDs: append([]int64{}, template.SupplierTaxIDs...),
		InvoicePolicy:  template.InvoicePolicy,
		PurchaseMethod: template.PurchaseMethod,
		CostMethod:     template.CostMethod,
		Weight:         template.Weight,
		Volume:         template.Volume,

		// Generation-owned: always set directly
		Barcode:         "",
		ListPrice:       listPrice,
		StandardPrice:   0,
		Image:           image,
		AttributeValues: assembleValueRefs(candidate.Values),
	}

	return doc
}

// AssembleLines maps resolved attribute lines to the remote template shape
func (a *PayloadAssembler) AssembleLines(lines []catalog.AttributeLine) []integration.RemoteAttributeLine {
	out := make([]integration.RemoteAttributeLine, 0, len(lines))
	for _, line := range lines {
		remote := integration.RemoteAttributeLine{
			AttributeID:   line.ExternalID,
			AttributeName: line.AttributeName,
			ValueIDs:      make([]int64, 0, len(line.Values)),
			ValueNames:    make([]string, 0, len(line.Values)),
		}
		for _, value := range line.Values {
			remote.ValueIDs = append(remote.ValueIDs, value.RemoteValueID())
			remote.ValueNames = append(remote.ValueNames, value.Value)
		}
		out = append(out, remote)
	}
	return out
}

// assembleValueRefs maps a candidate's value tuple to the remote
// attribute-value shape, preserving line order
func assembleValueRefs(values []catalog.AttributeValue) []integration.RemoteAttributeValue {
	refs := make([]integration.RemoteAttributeValue, 0, len(values))
	for _, value := range values {
		priceExtra, _ := value.PriceExtra.Float64()
		refs = append(refs, integration.RemoteAttributeValue{
			AttributeID: value.RemoteAttributeID(),
			ValueID:     value.RemoteValueID(),
			Name:        value.Value,
			PriceExtra:  priceExtra,
		})
	}
	return refs
}

// variantDisplayName derives the variant name from the product name and the
// candidate's attribute value join
func variantDisplayName(productName, candidateName string) string {
	if candidateName == "" {
		return productName
	}
	return fmt.Sprintf("%s (%s)", productName, candidateName)
}
