package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/catalogsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockProductRepository creates a GormProductRepository with a mocked SQL connection
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormProductRepository(gormDB), mock, mockDB
}

func TestGormProductRepository_FindByCode(t *testing.T) {
	t.Run("finds existing product and uppercases the lookup code", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "code", "name", "list_price", "active", "version", "created_at", "updated_at"}).
			AddRow(productID, "TS", "Basic Tee", decimal.NewFromFloat(19.90), true, 1, time.Now(), time.Now())

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE code = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("TS", 1).
			WillReturnRows(rows)

		product, err := repo.FindByCode(context.Background(), "ts")

		require.NoError(t, err)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, "TS", product.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("translates record not found", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "products"`).
			WithArgs("NOPE", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByCode(context.Background(), "NOPE")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_ExistsByCode(t *testing.T) {
	repo, mock, mockDB := newMockProductRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE code = \$1`).
		WithArgs("TS").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByCode(context.Background(), "ts")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
