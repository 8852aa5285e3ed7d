package catalog

import (
	"context"

	"github.com/catalogsync/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// ProductService handles product lookups and the saved-response lifecycle.
// Persisting the saved response after a successful synchronization run is the
// caller's responsibility, not the pipeline's; this service is where that
// responsibility lands.
type ProductService struct {
	productRepo catalog.ProductRepository
	log         *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, log *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		log:         log,
	}
}

// GetByCode returns the product with the given code
func (s *ProductService) GetByCode(ctx context.Context, code string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// StoreSavedResponse persists a freshly generated saved-response payload for
// a product so later runs can replay it without regenerating
func (s *ProductService) StoreSavedResponse(ctx context.Context, code string, payload []byte) error {
	product, err := s.productRepo.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if err := product.StoreSavedResponse(payload); err != nil {
		return err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return err
	}

	s.log.Info("Saved response stored",
		zap.String("product_code", product.Code),
		zap.Int("payload_bytes", len(payload)))
	return nil
}

// ClearSavedResponse removes a product's saved response, disabling replay
// until the next successful generation
func (s *ProductService) ClearSavedResponse(ctx context.Context, code string) error {
	product, err := s.productRepo.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	product.ClearSavedResponse()
	return s.productRepo.Save(ctx, product)
}
