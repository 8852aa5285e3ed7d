package persistence

import (
	"context"
	"errors"

	"github.com/catalogsync/backend/internal/domain/integration"
	"github.com/catalogsync/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCredentialRepository implements CredentialRepository using GORM
type GormCredentialRepository struct {
	db *gorm.DB
}

var _ integration.CredentialRepository = (*GormCredentialRepository)(nil)

// NewGormCredentialRepository creates a new GormCredentialRepository
func NewGormCredentialRepository(db *gorm.DB) *GormCredentialRepository {
	return &GormCredentialRepository{db: db}
}

// FindLatestByType returns the most recently created credential of the given
// type that carries a non-null token
func (r *GormCredentialRepository) FindLatestByType(ctx context.Context, credentialType integration.CredentialType) (*integration.Credential, error) {
	var credential integration.Credential
	if err := r.db.WithContext(ctx).
		Where("type = ? AND token IS NOT NULL", credentialType).
		Order("created_at DESC").
		First(&credential).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &credential, nil
}
