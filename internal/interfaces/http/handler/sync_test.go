package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalogapp "github.com/catalogsync/backend/internal/application/catalog"
	integrationapp "github.com/catalogsync/backend/internal/application/integration"
	"github.com/catalogsync/backend/internal/domain/catalog"
	"github.com/catalogsync/backend/internal/domain/integration"
	"github.com/catalogsync/backend/internal/domain/shared"
	"github.com/catalogsync/backend/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository implements catalog.ProductRepository for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockCredentialRepository implements integration.CredentialRepository for testing
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) FindLatestByType(ctx context.Context, credentialType integration.CredentialType) (*integration.Credential, error) {
	args := m.Called(ctx, credentialType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.Credential), args.Error(1)
}

// MockRemotePlatform implements integration.RemotePlatform for testing
type MockRemotePlatform struct {
	mock.Mock
}

func (m *MockRemotePlatform) FetchTemplate(ctx context.Context, token string, templateID int64) (integration.RemoteDocument, error) {
	args := m.Called(ctx, token, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(integration.RemoteDocument), args.Error(1)
}

func (m *MockRemotePlatform) UpdateTemplate(ctx context.Context, token string, doc integration.RemoteDocument) (*integration.UpdateResult, error) {
	args := m.Called(ctx, token, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.UpdateResult), args.Error(1)
}

// MockAttributeValueRepository implements catalog.AttributeValueRepository for testing
type MockAttributeValueRepository struct {
	mock.Mock
}

func (m *MockAttributeValueRepository) FindActiveByValue(ctx context.Context, value string) (*catalog.AttributeValue, error) {
	args := m.Called(ctx, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.AttributeValue), args.Error(1)
}

func (m *MockAttributeValueRepository) FindByAttribute(ctx context.Context, attributeID uuid.UUID) ([]catalog.AttributeValue, error) {
	args := m.Called(ctx, attributeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.AttributeValue), args.Error(1)
}

func (m *MockAttributeValueRepository) Save(ctx context.Context, value *catalog.AttributeValue) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

// syncTestEnv bundles the mocks behind a fully wired handler router
type syncTestEnv struct {
	router      *gin.Engine
	productRepo *MockProductRepository
	credRepo    *MockCredentialRepository
	platform    *MockRemotePlatform
	locker      *cache.InMemorySyncLock
}

func newSyncTestEnv(t *testing.T) *syncTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	productRepo := new(MockProductRepository)
	credRepo := new(MockCredentialRepository)
	platform := new(MockRemotePlatform)
	locker := cache.NewInMemorySyncLock(time.Minute)
	log := zap.NewNop()

	resolver := catalogapp.NewAttributeResolverService(new(MockAttributeValueRepository), log)
	syncService := integrationapp.NewVariantSyncService(
		resolver, integrationapp.NewPayloadAssembler(), productRepo, credRepo, platform, log)
	productService := catalogapp.NewProductService(productRepo, log)

	syncHandler := NewSyncHandler(syncService, productService, locker)

	router := gin.New()
	api := router.Group("/api/v1")
	syncHandler.RegisterRoutes(api)

	return &syncTestEnv{
		router:      router,
		productRepo: productRepo,
		credRepo:    credRepo,
		platform:    platform,
		locker:      locker,
	}
}

func (e *syncTestEnv) seedHappyPath(t *testing.T) {
	t.Helper()

	product, err := catalog.NewProduct("TS", "Basic Tee")
	require.NoError(t, err)
	require.NoError(t, product.SetListPrice(decimal.NewFromFloat(19.90)))
	require.NoError(t, product.LinkRemoteTemplate(42))

	token := "tok-123"
	e.productRepo.On("FindByCode", mock.Anything, "TS").Return(product, nil)
	e.productRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	e.credRepo.On("FindLatestByType", mock.Anything, integration.CredentialTypeRemoteAPI).
		Return(&integration.Credential{Type: integration.CredentialTypeRemoteAPI, Token: &token}, nil)
	e.platform.On("FetchTemplate", mock.Anything, "tok-123", int64(42)).
		Return(integration.RemoteDocument{"Id": float64(42), "Version": float64(7)}, nil)
	e.platform.On("UpdateTemplate", mock.Anything, "tok-123", mock.Anything).
		Return(&integration.UpdateResult{TemplateID: 42, VariantIDs: []int64{501}}, nil)
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSyncHandler_GenerateVariants(t *testing.T) {
	t.Run("returns the sync result and stores the saved response", func(t *testing.T) {
		env := newSyncTestEnv(t)
		env.seedHappyPath(t)

		rec := postJSON(env.router, "/api/v1/sync/products/ts/variants",
			gin.H{"descriptor": "Red"})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Success bool         `json:"success"`
			Data    SyncResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "SUCCEEDED", resp.Data.State)
		assert.Equal(t, int64(42), resp.Data.TemplateID)
		assert.Equal(t, []int64{501}, resp.Data.VariantIDs)
		assert.Equal(t, 1, resp.Data.VariantCount)
		require.Len(t, resp.Data.AttributeLines, 1)
		assert.Equal(t, "Color", resp.Data.AttributeLines[0].AttributeName)

		env.productRepo.AssertCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing descriptor is a 400", func(t *testing.T) {
		env := newSyncTestEnv(t)

		rec := postJSON(env.router, "/api/v1/sync/products/TS/variants", gin.H{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown product is a 404", func(t *testing.T) {
		env := newSyncTestEnv(t)
		env.productRepo.On("FindByCode", mock.Anything, "NOPE").Return(nil, shared.ErrNotFound)

		rec := postJSON(env.router, "/api/v1/sync/products/NOPE/variants",
			gin.H{"descriptor": "Red"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("product without remote template is a 412", func(t *testing.T) {
		env := newSyncTestEnv(t)
		product, err := catalog.NewProduct("TS", "Basic Tee")
		require.NoError(t, err)
		env.productRepo.On("FindByCode", mock.Anything, "TS").Return(product, nil)

		rec := postJSON(env.router, "/api/v1/sync/products/TS/variants",
			gin.H{"descriptor": "Red"})

		assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	})

	t.Run("held lock is a 409", func(t *testing.T) {
		env := newSyncTestEnv(t)
		_, err := env.locker.Acquire(context.Background(), "TS")
		require.NoError(t, err)

		rec := postJSON(env.router, "/api/v1/sync/products/TS/variants",
			gin.H{"descriptor": "Red"})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("remote rejection is a 422 carrying the remote message", func(t *testing.T) {
		env := newSyncTestEnv(t)
		product, err := catalog.NewProduct("TS", "Basic Tee")
		require.NoError(t, err)
		require.NoError(t, product.LinkRemoteTemplate(42))
		token := "tok-123"
		env.productRepo.On("FindByCode", mock.Anything, "TS").Return(product, nil)
		env.credRepo.On("FindLatestByType", mock.Anything, integration.CredentialTypeRemoteAPI).
			Return(&integration.Credential{Type: integration.CredentialTypeRemoteAPI, Token: &token}, nil)
		env.platform.On("FetchTemplate", mock.Anything, "tok-123", int64(42)).
			Return(integration.RemoteDocument{"Id": float64(42)}, nil)
		env.platform.On("UpdateTemplate", mock.Anything, "tok-123", mock.Anything).
			Return(nil, integration.ErrRemoteValidation)

		rec := postJSON(env.router, "/api/v1/sync/products/TS/variants",
			gin.H{"descriptor": "Red"})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing credential is a 412", func(t *testing.T) {
		env := newSyncTestEnv(t)
		product, err := catalog.NewProduct("TS", "Basic Tee")
		require.NoError(t, err)
		require.NoError(t, product.LinkRemoteTemplate(42))
		env.productRepo.On("FindByCode", mock.Anything, "TS").Return(product, nil)
		env.credRepo.On("FindLatestByType", mock.Anything, integration.CredentialTypeRemoteAPI).
			Return(nil, shared.ErrNotFound)

		rec := postJSON(env.router, "/api/v1/sync/products/TS/variants",
			gin.H{"descriptor": "Red"})

		assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	})
}

func TestSyncHandler_ReplayVariants(t *testing.T) {
	t.Run("replays the saved response", func(t *testing.T) {
		env := newSyncTestEnv(t)

		product, err := catalog.NewProduct("TS", "Basic Tee")
		require.NoError(t, err)
		require.NoError(t, product.LinkRemoteTemplate(42))
		saved, err := json.Marshal(integrationapp.SavedPayload{
			AttributeLines: []catalog.AttributeLine{{AttributeName: "Color", ExternalID: 3}},
			PreviewVariants: []integration.VariantDocument{
				{Name: "Basic Tee (Red)", Code: "TSRED"},
			},
		})
		require.NoError(t, err)
		require.NoError(t, product.StoreSavedResponse(saved))

		token := "tok-123"
		env.productRepo.On("FindByCode", mock.Anything, "TS").Return(product, nil)
		env.credRepo.On("FindLatestByType", mock.Anything, integration.CredentialTypeRemoteAPI).
			Return(&integration.Credential{Type: integration.CredentialTypeRemoteAPI, Token: &token}, nil)
		env.platform.On("FetchTemplate", mock.Anything, "tok-123", int64(42)).
			Return(integration.RemoteDocument{"Id": float64(42), "Version": float64(7)}, nil)
		env.platform.On("UpdateTemplate", mock.Anything, "tok-123", mock.Anything).
			Return(&integration.UpdateResult{TemplateID: 42, VariantIDs: []int64{501}}, nil)

		rec := postJSON(env.router, "/api/v1/sync/products/TS/variants/replay", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Data SyncResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Data.VariantCount)
	})

	t.Run("replay without a saved response is a 412", func(t *testing.T) {
		env := newSyncTestEnv(t)
		product, err := catalog.NewProduct("TS", "Basic Tee")
		require.NoError(t, err)
		require.NoError(t, product.LinkRemoteTemplate(42))
		env.productRepo.On("FindByCode", mock.Anything, "TS").Return(product, nil)

		rec := postJSON(env.router, "/api/v1/sync/products/TS/variants/replay", nil)

		assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
		env.credRepo.AssertNotCalled(t, "FindLatestByType", mock.Anything, mock.Anything)
	})
}

func TestProductHandler_GetByCode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	productRepo := new(MockProductRepository)
	productService := catalogapp.NewProductService(productRepo, zap.NewNop())
	productHandler := NewProductHandler(productService)

	router := gin.New()
	api := router.Group("/api/v1")
	productHandler.RegisterRoutes(api)

	t.Run("returns the product", func(t *testing.T) {
		product, err := catalog.NewProduct("TS", "Basic Tee")
		require.NoError(t, err)
		productRepo.On("FindByCode", mock.Anything, "TS").Return(product, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/ts", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Data catalogapp.ProductResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "TS", resp.Data.Code)
	})

	t.Run("unknown product is a 404", func(t *testing.T) {
		productRepo.On("FindByCode", mock.Anything, "NOPE").Return(nil, shared.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/nope", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
