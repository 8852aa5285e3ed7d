package integration

// ---------------------------------------------------------------------------
// Variant Document
// ---------------------------------------------------------------------------

// Fixed defaults applied to inheritable fields when no base template document
// is available. These mirror the platform's documented defaults so the
// submitted document never relies on remote-side implicit defaulting.
const (
	DefaultProductType    = "product"
	DefaultInvoicePolicy  = "order"
	DefaultPurchaseMethod = "receive"
	DefaultCostMethod     = "standard"
	DefaultUomID          = int64(1)
	DefaultCategoryID     = int64(1)
)

// VariantDocument is the full remote-schema representation of one product
// variant. It is never partially filled: every recognized remote field is set
// to either a derived value or a documented default, so the document
// round-trips through the remote schema without the platform silently
// defaulting fields the caller intended to control.
type VariantDocument struct {
	// ID is the variant identifier on the platform; 0 signals a new variant
	ID      int64  `json:"Id"`
	Name    string `json:"Name"`
	Code    string `json:"Code"`
	Barcode string `json:"Barcode"`
	Active  bool   `json:"Active"`
	Type    string `json:"Type"`

	ListPrice     float64 `json:"ListPrice"`
	StandardPrice float64 `json:"StandardPrice"`

	SaleOk         bool    `json:"SaleOk"`
	PurchaseOk     bool    `json:"PurchaseOk"`
	UomID          int64   `json:"UomId"`
	UomPoID        int64   `json:"UomPoId"`
	CategoryID     int64   `json:"CategoryId"`
	TaxIDs         []int64 `json:"TaxIds"`
	SupplierTaxIDs []int64 `json:"SupplierTaxIds"`
	InvoicePolicy  string  `json:"InvoicePolicy"`
	PurchaseMethod string  `json:"PurchaseMethod"`
	CostMethod     string  `json:"CostMethod"`
	Weight         float64 `json:"Weight"`
	Volume         float64 `json:"Volume"`

	Image string `json:"Image,omitempty"`

	AttributeValues []RemoteAttributeValue `json:"AttributeValues"`
}

// RemoteAttributeValue is one attribute-value reference in the remote variant
// shape
type RemoteAttributeValue struct {
	AttributeID int64   `json:"AttributeId"`
	ValueID     int64   `json:"ValueId"`
	Name        string  `json:"Name"`
	PriceExtra  float64 `json:"PriceExtra"`
}

// RemoteAttributeLine is one attribute line in the remote template shape
type RemoteAttributeLine struct {
	AttributeID   int64    `json:"AttributeId"`
	AttributeName string   `json:"AttributeName"`
	ValueIDs      []int64  `json:"ValueIds"`
	ValueNames    []string `json:"ValueNames"`
}

// ---------------------------------------------------------------------------
// Template Snapshot
// ---------------------------------------------------------------------------

// TemplateSnapshot holds the inheritable fields of a base template document.
// A nil snapshot means no base template is available and the fixed defaults
// apply; a decoded snapshot already has defaults filled in for keys the
// document did not carry.
type TemplateSnapshot struct {
	Active         bool
	Type           string
	SaleOk         bool
	PurchaseOk     bool
	UomID          int64
	UomPoID        int64
	CategoryID     int64
	TaxIDs         []int64
	SupplierTaxIDs []int64
	InvoicePolicy  string
	PurchaseMethod string
	CostMethod     string
	Weight         float64
	Volume         float64
}

// DefaultTemplateSnapshot returns a snapshot carrying the fixed defaults
func DefaultTemplateSnapshot() *TemplateSnapshot {
	return &TemplateSnapshot{
		Active:         true,
		Type:           DefaultProductType,
		SaleOk:         true,
		PurchaseOk:     true,
		UomID:          DefaultUomID,
		UomPoID:        DefaultUomID,
		CategoryID:     DefaultCategoryID,
		TaxIDs:         []int64{},
		SupplierTaxIDs: []int64{},
		InvoicePolicy:  DefaultInvoicePolicy,
		PurchaseMethod: DefaultPurchaseMethod,
		CostMethod:     DefaultCostMethod,
	}
}

// SnapshotFromDocument decodes the inheritable fields of a fetched remote
// document, falling back to the fixed defaults for keys the document does not
// carry. A nil document yields the default snapshot.
func SnapshotFromDocument(doc RemoteDocument) *TemplateSnapshot {
	snapshot := DefaultTemplateSnapshot()
	if doc == nil {
		return snapshot
	}

	if v, ok := doc["Active"].(bool); ok {
		snapshot.Active = v
	}
	if v, ok := doc["Type"].(string); ok && v != "" {
		snapshot.Type = v
	}
	if v, ok := doc["SaleOk"].(bool); ok {
		snapshot.SaleOk = v
	}
	if v, ok := doc["PurchaseOk"].(bool); ok {
		snapshot.PurchaseOk = v
	}
	if v := asInt64(doc["UomId"]); v > 0 {
		snapshot.UomID = v
	}
	if v := asInt64(doc["UomPoId"]); v > 0 {
		snapshot.UomPoID = v
	} else {
		snapshot.UomPoID = snapshot.UomID
	}
	if v := asInt64(doc["CategoryId"]); v > 0 {
		snapshot.CategoryID = v
	}
	if ids := asInt64Slice(doc["TaxIds"]); ids != nil {
		snapshot.TaxIDs = ids
	}
	if ids := asInt64Slice(doc["SupplierTaxIds"]); ids != nil {
		snapshot.SupplierTaxIDs = ids
	}
	if v, ok := doc["InvoicePolicy"].(string); ok && v != "" {
		snapshot.InvoicePolicy = v
	}
	if v, ok := doc["PurchaseMethod"].(string); ok && v != "" {
		snapshot.PurchaseMethod = v
	}
	if v, ok := doc["CostMethod"].(string); ok && v != "" {
		snapshot.CostMethod = v
	}
	if v, ok := doc["Weight"].(float64); ok {
		snapshot.Weight = v
	}
	if v, ok := doc["Volume"].(float64); ok {
		snapshot.Volume = v
	}

	return snapshot
}

// asInt64Slice converts a decoded JSON array of numbers. Returns nil when the
// value is not an array.
func asInt64Slice(v any) []int64 {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	ids := make([]int64, 0, len(arr))
	for _, item := range arr {
		ids = append(ids, asInt64(item))
	}
	return ids
}
