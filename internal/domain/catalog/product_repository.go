package catalog

import "context"

// ProductRepository defines the persistence port for products
type ProductRepository interface {
	// FindByCode finds a product by its code
	FindByCode(ctx context.Context, code string) (*Product, error)

	// ExistsByCode checks if a product with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Save persists a product (insert or update)
	Save(ctx context.Context, product *Product) error
}
