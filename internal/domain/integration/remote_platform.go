package integration

import (
	"context"
	"errors"
)

// ---------------------------------------------------------------------------
// Synchronization Errors
// ---------------------------------------------------------------------------

var (
	// ErrMissingCredential indicates no usable access token exists for the
	// requested credential type
	ErrMissingCredential = errors.New("integration: no usable credential found")
	// ErrPreconditionFailed indicates a replay was requested for a product
	// without a saved response or remote template linkage
	ErrPreconditionFailed = errors.New("integration: replay preconditions not met")
	// ErrRemoteAuth indicates the remote platform rejected the access token
	ErrRemoteAuth = errors.New("integration: remote authentication rejected")
	// ErrRemoteValidation indicates the remote platform rejected the submitted
	// document
	ErrRemoteValidation = errors.New("integration: remote platform rejected the document")
	// ErrRemoteServer indicates a remote server failure or network error
	ErrRemoteServer = errors.New("integration: remote platform unavailable")
	// ErrSyncInProgress indicates another synchronization run currently holds
	// the lock for the same product
	ErrSyncInProgress = errors.New("integration: sync already in progress for this product")
)

// ---------------------------------------------------------------------------
// SyncState
// ---------------------------------------------------------------------------

// SyncState represents the state of a synchronization run
type SyncState string

const (
	SyncStateIdle                   SyncState = "IDLE"
	SyncStateResolvingCredential    SyncState = "RESOLVING_CREDENTIAL"
	SyncStateFetchingRemoteTemplate SyncState = "FETCHING_REMOTE_TEMPLATE"
	SyncStateMerging                SyncState = "MERGING"
	SyncStateSubmitting             SyncState = "SUBMITTING"
	SyncStateSucceeded              SyncState = "SUCCEEDED"
	SyncStateFailed                 SyncState = "FAILED"
)

// String returns the string representation of SyncState
func (s SyncState) String() string {
	return string(s)
}

// IsTerminal returns true if the state is a final state
func (s SyncState) IsTerminal() bool {
	return s == SyncStateSucceeded || s == SyncStateFailed
}

// ---------------------------------------------------------------------------
// Remote Document
// ---------------------------------------------------------------------------

// Document keys recognized by the synchronization pipeline. All other keys of
// a fetched remote document are remote-owned and passed through untouched.
const (
	DocKeyID             = "Id"
	DocKeyVersion        = "Version"
	DocKeyVariants       = "ProductVariants"
	DocKeyAttributeLines = "AttributeLines"
)

// RemoteDocument is the full remote-schema product template document, decoded
// from JSON. The remote API accepts only whole-document updates, so the
// document is fetched, partially replaced, and submitted as one unit.
type RemoteDocument map[string]any

// TemplateID returns the document's template identifier, or 0 when absent
func (d RemoteDocument) TemplateID() int64 {
	return asInt64(d[DocKeyID])
}

// Version returns the document's optimistic-concurrency value, or nil when
// absent
func (d RemoteDocument) Version() any {
	return d[DocKeyVersion]
}

// ReplaceVariantSection replaces the variant list and attribute-line list of
// the document and re-asserts the version baseline. Every other key is left
// untouched.
func (d RemoteDocument) ReplaceVariantSection(variants []VariantDocument, lines []RemoteAttributeLine, version any) {
	d[DocKeyVariants] = variants
	d[DocKeyAttributeLines] = lines
	d[DocKeyVersion] = version
}

// asInt64 converts the loosely typed JSON numbers found in remote documents
func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}

// ---------------------------------------------------------------------------
// RemotePlatform Port Interface
// ---------------------------------------------------------------------------

// UpdateResult carries the outcome of a successful whole-document update
type UpdateResult struct {
	// TemplateID is the remote template identifier of the updated document
	TemplateID int64
	// VariantIDs are the identifiers the platform assigned to the submitted
	// variants, in submission order
	VariantIDs []int64
	// Document is the updated document as returned by the platform, when the
	// platform echoes one back
	Document RemoteDocument
}

// RemotePlatform defines the port interface for the remote commerce platform.
// Implementations classify failures into the sentinel errors above: auth
// rejections as ErrRemoteAuth, other client errors as ErrRemoteValidation
// carrying the remote message, server and transport failures as
// ErrRemoteServer. No retries are performed by implementations.
type RemotePlatform interface {
	// FetchTemplate retrieves the authoritative current document for a
	// product template
	FetchTemplate(ctx context.Context, token string, templateID int64) (RemoteDocument, error)

	// UpdateTemplate submits a whole document to the fixed update endpoint
	UpdateTemplate(ctx context.Context, token string, doc RemoteDocument) (*UpdateResult, error)
}

// ---------------------------------------------------------------------------
// SyncLocker Port Interface
// ---------------------------------------------------------------------------

// SyncLocker serializes synchronization runs per product. Callers acquire the
// lock keyed by product code before starting a run and release it on
// completion. Two concurrent runs for the same product would otherwise race
// on the same remote baseline, with only the platform's version field as
// defense.
type SyncLocker interface {
	// Acquire takes the lock for the given key, returning a release function.
	// ErrSyncInProgress is returned when the lock is already held.
	Acquire(ctx context.Context, key string) (release func(), err error)
}
