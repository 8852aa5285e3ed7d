package integration

import (
	"context"

	"github.com/catalogsync/backend/internal/domain/shared"
)

// CredentialType tags the integration a persisted token belongs to
type CredentialType string

const (
	// CredentialTypeRemoteAPI is the bearer token for the remote commerce
	// platform
	CredentialTypeRemoteAPI CredentialType = "remote_api"
)

// String returns the string representation of CredentialType
func (t CredentialType) String() string {
	return string(t)
}

// Credential is a persisted access token for a named integration. Rows are
// inserted or rotated externally and never mutated by this backend; multiple
// rows may exist per type and only the most recently created one with a
// non-null token is valid.
type Credential struct {
	shared.BaseEntity
	Type  CredentialType `gorm:"type:varchar(50);not null;index" json:"type"`
	Token *string        `gorm:"type:text" json:"-"`
}

// TableName returns the table name for GORM
func (Credential) TableName() string {
	return "credentials"
}

// IsUsable returns true if the credential carries a non-empty token
func (c *Credential) IsUsable() bool {
	return c.Token != nil && *c.Token != ""
}

// TokenValue returns the token value, or the empty string when absent
func (c *Credential) TokenValue() string {
	if c.Token == nil {
		return ""
	}
	return *c.Token
}

// CredentialRepository defines the read-only persistence port for credentials.
// Resolution is repeated per pipeline run; no caching happens anywhere, so a
// rotated token takes effect on the next run.
type CredentialRepository interface {
	// FindLatestByType returns the most recently created credential of the
	// given type that carries a non-null token. shared.ErrNotFound is
	// returned when no such row exists.
	FindLatestByType(ctx context.Context, credentialType CredentialType) (*Credential, error)
}
