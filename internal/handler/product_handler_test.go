package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopfront/internal/middleware"
	"shopfront/internal/model"
	"shopfront/internal/query"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogService is a mock implementation of service.CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context, params query.Params) (*model.PagedProducts, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PagedProducts), args.Error(1)
}

func (m *MockCatalogService) Get(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) Create(ctx context.Context, input *model.ProductInput, callerID string) (*model.Product, error) {
	args := m.Called(ctx, input, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) Update(ctx context.Context, id string, patch *model.ProductUpdate) (*model.Product, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// serveWithIdentity runs a request through the identity middleware so
// handlers see the caller the gateway headers describe.
func serveWithIdentity(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	middleware.Identity(h).ServeHTTP(rec, req)
	return rec
}

func TestProductHandler_List(t *testing.T) {
	t.Run("passes parsed params through", func(t *testing.T) {
		svc := new(MockCatalogService)
		h := NewProductHandler(svc, zerolog.Nop())

		page := &model.PagedProducts{
			Items:      []model.Product{{ID: "P001", Name: "Product 1"}},
			Pagination: model.PageInfo{Current: 2, Pages: 3, Total: 25, HasNext: true, HasPrev: true},
		}
		svc.On("List", mock.Anything, mock.MatchedBy(func(p query.Params) bool {
			return p.Page == 2 && p.Limit == 10 && p.Brand == "aurora" && p.Sort == "-price"
		})).Return(page, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/products?page=2&limit=10&brand=aurora&sort=-price", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var got model.PagedProducts
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, page.Pagination, got.Pagination)
		assert.Len(t, got.Items, 1)
		svc.AssertExpectations(t)
	})

	t.Run("service error surfaces as 500", func(t *testing.T) {
		svc := new(MockCatalogService)
		h := NewProductHandler(svc, zerolog.Nop())
		svc.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("database error"))

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp model.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, model.ErrCodeInternalError, resp.Error)
	})
}

func TestProductHandler_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockCatalogService)
		h := NewProductHandler(svc, zerolog.Nop())
		svc.On("Get", mock.Anything, "P001").Return(&model.Product{ID: "P001", Name: "Product 1"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/products/P001", nil)
		rec := httptest.NewRecorder()
		h.Get(rec, req, "P001")

		require.Equal(t, http.StatusOK, rec.Code)

		var got model.Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "P001", got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockCatalogService)
		h := NewProductHandler(svc, zerolog.Nop())
		svc.On("Get", mock.Anything, "missing").Return(nil, model.ErrProductNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/products/missing", nil)
		rec := httptest.NewRecorder()
		h.Get(rec, req, "missing")

		require.Equal(t, http.StatusNotFound, rec.Code)

		var resp model.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, model.ErrCodeProductNotFound, resp.Error)
	})
}

func TestProductHandler_Create(t *testing.T) {
	body := func() *bytes.Buffer {
		return bytes.NewBufferString(`{"name":"Aurora Headphones","price":199.99,"categoryId":"cat-1","brand":"Aurora","stock":10}`)
	}

	t.Run("success", func(t *testing.T) {
		svc := new(MockCatalogService)
		h := NewProductHandler(svc, zerolog.Nop())
		svc.On("Create", mock.Anything, mock.MatchedBy(func(in *model.ProductInput) bool {
			return in.Name == "Aurora Headphones" && in.CategoryID == "cat-1"
		}), "user-1").Return(&model.Product{ID: "P001", Name: "Aurora Headphones"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/products", body())
		req.Header.Set("X-User-Id", "user-1")
		req.Header.Set("X-User-Name", "Alice")
		rec := serveWithIdentity(h.Create, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing identity", func(t *testing.T) {
		svc := new(MockCatalogService)
		h := NewProductHandler(svc, zerolog.Nop())

		req := httptest.NewRequest(http.MethodPost, "/api/products", body())
		rec := serveWithIdentity(h.Create, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "Create")
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := new(MockCatalogService)
		h := NewProductHandler(svc, zerolog.Nop())

		req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString("{not json"))
		req.Header.Set("X-User-Id", "user-1")
		rec := serveWithIdentity(h.Create, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp model.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, model.ErrCodeInvalidJSON, resp.Error)
		svc.AssertNotCalled(t, "Create")
	})

	t.Run("category not found", func(t *testing.T) {
		svc := new(MockCatalogService)
		h := NewProductHandler(svc, zerolog.Nop())
		svc.On("Create", mock.Anything, mock.Anything, "user-1").Return(nil, model.ErrCategoryNotFound)

		req := httptest.NewRequest(http.MethodPost, "/api/products", body())
		req.Header.Set("X-User-Id", "user-1")
		rec := serveWithIdentity(h.Create, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProductHandler_Update(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockCatalogService)
		h := NewProductHandler(svc, zerolog.Nop())
		svc.On("Update", mock.Anything, "P001", mock.MatchedBy(func(patch *model.ProductUpdate) bool {
			return patch.Name != nil && *patch.Name == "New Name" && patch.Price == nil
		})).Return(&model.Product{ID: "P001", Name: "New Name"}, nil)

		req := httptest.NewRequest(http.MethodPut, "/api/products/P001", bytes.NewBufferString(`{"name":"New Name"}`))
		rec := httptest.NewRecorder()
		h.Update(rec, req, "P001")

		require.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("validation error maps to 400", func(t *testing.T) {
		svc := new(MockCatalogService)
		h := NewProductHandler(svc, zerolog.Nop())
		svc.On("Update", mock.Anything, "P001", mock.Anything).
			Return(nil, model.NewDomainError(model.ErrCodeInvalidInput, "price must not be negative"))

		req := httptest.NewRequest(http.MethodPut, "/api/products/P001", bytes.NewBufferString(`{"price":-5}`))
		rec := httptest.NewRecorder()
		h.Update(rec, req, "P001")

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProductHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockCatalogService)
		h := NewProductHandler(svc, zerolog.Nop())
		svc.On("Delete", mock.Anything, "P001").Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/products/P001", nil)
		rec := httptest.NewRecorder()
		h.Delete(rec, req, "P001")

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockCatalogService)
		h := NewProductHandler(svc, zerolog.Nop())
		svc.On("Delete", mock.Anything, "missing").Return(model.ErrProductNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/api/products/missing", nil)
		rec := httptest.NewRecorder()
		h.Delete(rec, req, "missing")

		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
