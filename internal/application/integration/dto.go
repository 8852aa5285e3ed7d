package integration

import (
	"github.com/catalogsync/backend/internal/domain/catalog"
	"github.com/catalogsync/backend/internal/domain/integration"
)

// GenerateSyncRequest asks for a fresh variant set to be generated from a
// descriptor and synchronized to the remote platform
type GenerateSyncRequest struct {
	// ProductCode identifies the local product to synchronize
	ProductCode string
	// Descriptor is the free-text variant descriptor, in either the
	// parenthesized pipe-delimited or the flat comma-delimited form
	Descriptor string
	// Image is an optional base64 image payload applied to every variant
	Image string
}

// SavedPayload is the persisted saved-response blob: the attribute lines and
// the variant documents of the last successful generation. It is opaque to
// the store and interpreted only by the replay path.
type SavedPayload struct {
	AttributeLines  []catalog.AttributeLine       `json:"attributeLines"`
	PreviewVariants []integration.VariantDocument `json:"previewVariants"`
}

// SyncResult reports the outcome of a synchronization run
type SyncResult struct {
	// State is the terminal pipeline state
	State integration.SyncState `json:"state"`
	// TemplateID is the remote template the run submitted to
	TemplateID int64 `json:"template_id"`
	// VariantIDs are the identifiers the platform assigned to the submitted
	// variants
	VariantIDs []int64 `json:"variant_ids"`
	// VariantCount is the number of variants submitted
	VariantCount int `json:"variant_count"`
	// AttributeLines are the lines the variants were generated from
	AttributeLines []catalog.AttributeLine `json:"-"`
	// SavedResponse is the serialized SavedPayload the caller should persist
	// for future replay
	SavedResponse []byte `json:"-"`
}
