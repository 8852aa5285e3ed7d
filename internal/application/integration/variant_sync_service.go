package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	catalogapp "github.com/catalogsync/backend/internal/application/catalog"
	"github.com/catalogsync/backend/internal/domain/catalog"
	"github.com/catalogsync/backend/internal/domain/integration"
	"github.com/catalogsync/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// VariantSyncService orchestrates the two-phase fetch-merge-submit protocol
// against the remote platform. A run moves through
// ResolvingCredential → FetchingRemoteTemplate → Merging → Submitting and
// ends in Succeeded or Failed; there is no automatic retry across states.
//
// Two entry protocols are supported: the full generation path (descriptor →
// attribute lines → cartesian candidates → variant documents) and the replay
// path, which feeds a previously persisted saved-response payload directly
// into the pipeline. Both converge from the remote fetch onward.
//
// The service holds no mutual exclusion of its own: callers needing
// at-most-one-concurrent-sync-per-product acquire an integration.SyncLocker
// lock keyed by product code around the run.
type VariantSyncService struct {
	resolver       *catalogapp.AttributeResolverService
	assembler      *PayloadAssembler
	productRepo    catalog.ProductRepository
	credentialRepo integration.CredentialRepository
	platform       integration.RemotePlatform
	log            *zap.Logger
}

// NewVariantSyncService creates a new VariantSyncService
func NewVariantSyncService(
	resolver *catalogapp.AttributeResolverService,
	assembler *PayloadAssembler,
	productRepo catalog.ProductRepository,
	credentialRepo integration.CredentialRepository,
	platform integration.RemotePlatform,
	log *zap.Logger,
) *VariantSyncService {
	return &VariantSyncService{
		resolver:       resolver,
		assembler:      assembler,
		productRepo:    productRepo,
		credentialRepo: credentialRepo,
		platform:       platform,
		log:            log,
	}
}

// GenerateAndSync runs the full generation path: resolve the descriptor,
// expand the cartesian variant set, assemble remote documents, and submit
// them through the fetch-merge-submit protocol.
func (s *VariantSyncService) GenerateAndSync(ctx context.Context, req GenerateSyncRequest) (*SyncResult, error) {
	product, err := s.productRepo.FindByCode(ctx, req.ProductCode)
	if err != nil {
		return nil, err
	}
	if !product.HasRemoteTemplate() {
		return nil, fmt.Errorf("%w: product %s has no remote template", integration.ErrPreconditionFailed, product.Code)
	}

	lines, err := s.resolver.ResolveDescriptor(ctx, req.Descriptor)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		s.log.Warn("Descriptor resolved to no attribute lines, remote variants will be cleared",
			zap.String("product_code", product.Code),
			zap.String("descriptor", req.Descriptor))
	}

	run := s.newRun(product)
	return run.execute(ctx, func(template *integration.TemplateSnapshot) ([]integration.VariantDocument, []catalog.AttributeLine) {
		candidates := catalog.GenerateVariants(product.VariantBaseCode(), lines)
		variants := make([]integration.VariantDocument, 0, len(candidates))
		for _, candidate := range candidates {
			if candidate.HasCollision {
				s.log.Warn("Generated variant code collides",
					zap.String("product_code", product.Code),
					zap.String("variant_code", candidate.Code))
			}
			variants = append(variants, s.assembler.AssembleVariant(candidate, product, template, req.Image))
		}
		return variants, lines
	})
}

// Replay re-submits the previously persisted saved response without
// regenerating. A product lacking either the saved response blob or the
// remote template linkage fails with ErrPreconditionFailed before any
// credential or network interaction.
func (s *VariantSyncService) Replay(ctx context.Context, productCode string) (*SyncResult, error) {
	product, err := s.productRepo.FindByCode(ctx, productCode)
	if err != nil {
		return nil, err
	}
	if !product.HasSavedResponse() {
		return nil, fmt.Errorf("%w: product %s has no saved response", integration.ErrPreconditionFailed, product.Code)
	}
	if !product.HasRemoteTemplate() {
		return nil, fmt.Errorf("%w: product %s has no remote template", integration.ErrPreconditionFailed, product.Code)
	}

	var payload SavedPayload
	if err := json.Unmarshal(product.SavedResponse, &payload); err != nil {
		return nil, fmt.Errorf("%w: corrupt saved response: %v", integration.ErrPreconditionFailed, err)
	}

	run := s.newRun(product)
	return run.execute(ctx, func(_ *integration.TemplateSnapshot) ([]integration.VariantDocument, []catalog.AttributeLine) {
		return payload.PreviewVariants, payload.AttributeLines
	})
}

// syncRun tracks the state of one pipeline invocation
type syncRun struct {
	service *VariantSyncService
	product *catalog.Product
	state   integration.SyncState
	log     *zap.Logger
}

func (s *VariantSyncService) newRun(product *catalog.Product) *syncRun {
	return &syncRun{
		service: s,
		product: product,
		state:   integration.SyncStateIdle,
		log: s.log.With(
			zap.String("product_code", product.Code),
			zap.Int64("template_id", *product.RemoteTemplateID)),
	}
}

// transition moves the run to the next state and logs it
func (r *syncRun) transition(next integration.SyncState) {
	r.log.Debug("Sync state transition",
		zap.String("from", r.state.String()),
		zap.String("to", next.String()))
	r.state = next
}

// fail marks the run failed and passes the error through
func (r *syncRun) fail(err error) error {
	r.transition(integration.SyncStateFailed)
	r.log.Warn("Sync run failed", zap.Error(err))
	return err
}

// buildVariants produces the variant documents and attribute lines to merge;
// the generation path derives them from the fetched template snapshot, the
// replay path ignores it
type buildVariants func(template *integration.TemplateSnapshot) ([]integration.VariantDocument, []catalog.AttributeLine)

// execute drives the run from credential resolution to terminal state
func (r *syncRun) execute(ctx context.Context, build buildVariants) (*SyncResult, error) {
	// Credential resolution is repeated each run so externally rotated
	// tokens take effect immediately
	r.transition(integration.SyncStateResolvingCredential)
	credential, err := r.service.credentialRepo.FindLatestByType(ctx, integration.CredentialTypeRemoteAPI)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, r.fail(integration.ErrMissingCredential)
		}
		return nil, r.fail(fmt.Errorf("resolving credential: %w", err))
	}
	if !credential.IsUsable() {
		return nil, r.fail(integration.ErrMissingCredential)
	}
	token := credential.TokenValue()

	r.transition(integration.SyncStateFetchingRemoteTemplate)
	templateID := *r.product.RemoteTemplateID
	doc, err := r.service.platform.FetchTemplate(ctx, token, templateID)
	if err != nil {
		return nil, r.fail(err)
	}

	// Whole-document merge: only the variant section is replaced, the
	// version field is re-asserted to the fetched baseline, and every other
	// remote-owned key passes through untouched
	r.transition(integration.SyncStateMerging)
	variants, lines := build(integration.SnapshotFromDocument(doc))
	doc.ReplaceVariantSection(variants, r.service.assembler.AssembleLines(lines), doc.Version())
	cleaned := integration.StripMetadata(doc)

	r.transition(integration.SyncStateSubmitting)
	updated, err := r.service.platform.UpdateTemplate(ctx, token, cleaned)
	if err != nil {
		return nil, r.fail(err)
	}

	r.transition(integration.SyncStateSucceeded)
	r.log.Info("Sync run succeeded",
		zap.Int("variant_count", len(variants)),
		zap.Int("assigned_ids", len(updated.VariantIDs)))

	saved, err := json.Marshal(SavedPayload{
		AttributeLines:  lines,
		PreviewVariants: variants,
	})
	if err != nil {
		return nil, err
	}

	return &SyncResult{
		State:          r.state,
		TemplateID:     templateID,
		VariantIDs:     updated.VariantIDs,
		VariantCount:   len(variants),
		AttributeLines: lines,
		SavedResponse:  saved,
	}, nil
}
