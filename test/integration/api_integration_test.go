package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"shopfront/internal/handler"
	"shopfront/internal/model"
	"shopfront/internal/repository"
	"shopfront/internal/router"
	"shopfront/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	categoryRepo := repository.NewCategoryRepository(testDB.Pool, logger)

	catalogService := service.NewCatalogService(productRepo, categoryRepo, logger)
	reviewService := service.NewReviewService(productRepo, logger)

	productHandler := handler.NewProductHandler(catalogService, logger)
	reviewHandler := handler.NewReviewHandler(reviewService, logger)

	return router.New(productHandler, reviewHandler, "test-api-key", logger)
}

func doRequest(server http.Handler, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("X-API-Key", "test-api-key")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestCatalogAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("GET /api/products returns a page envelope", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalogue(t, testDB.Pool)

		w := doRequest(server, http.MethodGet, "/api/products", nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var page model.PagedProducts
		require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
		assert.Len(t, page.Items, 5)
		assert.Equal(t, 5, page.Pagination.Total)
		assert.Equal(t, 1, page.Pagination.Pages)
		assert.False(t, page.Pagination.HasNext)
	})

	t.Run("GET /api/products with filters and pagination", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalogue(t, testDB.Pool)

		w := doRequest(server, http.MethodGet, "/api/products?category=cat-1&sort=price&page=1&limit=2", nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var page model.PagedProducts
		require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
		require.Len(t, page.Items, 2)
		assert.Equal(t, "P004", page.Items[0].ID)
		assert.Equal(t, "P001", page.Items[1].ID)
		assert.Equal(t, 3, page.Pagination.Total)
		assert.Equal(t, 2, page.Pagination.Pages)
		assert.True(t, page.Pagination.HasNext)
		assert.False(t, page.Pagination.HasPrev)
	})

	t.Run("GET /api/products with malformed params falls back to defaults", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalogue(t, testDB.Pool)

		w := doRequest(server, http.MethodGet, "/api/products?page=banana&limit=-3&minPrice=cheap", nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var page model.PagedProducts
		require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
		assert.Equal(t, 1, page.Pagination.Current)
		assert.Equal(t, 5, page.Pagination.Total)
	})

	t.Run("GET /api/products/{id} returns the product with joins", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalogue(t, testDB.Pool)

		w := doRequest(server, http.MethodGet, "/api/products/P001", nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var product model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
		assert.Equal(t, "P001", product.ID)
		assert.Equal(t, "Electronics", product.CategoryName)
		assert.Equal(t, "Admin", product.CreatedByName)
	})

	t.Run("GET /api/products/{id} returns 404 for missing product", func(t *testing.T) {
		w := doRequest(server, http.MethodGet, "/api/products/P999", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("requests without API key return 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GET /health returns 200 without API key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("POST /api/products creates a product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalogue(t, testDB.Pool)

		body := []byte(`{
			"name": "Glacier Water Bottle",
			"description": "Insulated steel bottle",
			"price": 24.99,
			"categoryId": "cat-2",
			"brand": "Glacier",
			"stock": 500,
			"tags": ["outdoor", "hydration"]
		}`)
		w := doRequest(server, http.MethodPost, "/api/products", body, map[string]string{
			"X-User-Id":   "user-admin",
			"X-User-Name": "Admin",
		})

		require.Equal(t, http.StatusCreated, w.Code)

		var product model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
		assert.NotEmpty(t, product.ID)
		assert.Equal(t, "Glacier Water Bottle", product.Name)
		assert.Equal(t, model.StatusActive, product.Status)
		assert.Equal(t, "Outdoor", product.CategoryName)
	})

	t.Run("POST /api/products without identity returns 401", func(t *testing.T) {
		body := []byte(`{"name":"X","price":1,"categoryId":"cat-1"}`)
		w := doRequest(server, http.MethodPost, "/api/products", body, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("PUT then DELETE round-trip", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalogue(t, testDB.Pool)

		w := doRequest(server, http.MethodPut, "/api/products/P004",
			[]byte(`{"price": 79.99, "featured": true}`), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var product model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
		assert.Equal(t, 79.99, product.Price)
		assert.True(t, product.Featured)

		w = doRequest(server, http.MethodDelete, "/api/products/P004", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doRequest(server, http.MethodGet, "/api/products/P004", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestReviewAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	postReview := func(productID, userID, userName string, rating int) *httptest.ResponseRecorder {
		body := []byte(fmt.Sprintf(`{"rating": %d, "comment": "review by %s"}`, rating, userName))
		return doRequest(server, http.MethodPost, "/api/products/"+productID+"/reviews", body, map[string]string{
			"X-User-Id":   userID,
			"X-User-Name": userName,
		})
	}

	getProduct := func(t *testing.T, id string) model.Product {
		t.Helper()
		w := doRequest(server, http.MethodGet, "/api/products/"+id, nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var product model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
		return product
	}

	t.Run("reviews recompute the aggregate", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalogue(t, testDB.Pool)

		require.Equal(t, http.StatusCreated, postReview("P001", "user-1", "Alice", 5).Code)
		require.Equal(t, http.StatusCreated, postReview("P001", "user-2", "Bob", 3).Code)
		require.Equal(t, http.StatusCreated, postReview("P001", "user-3", "Carol", 4).Code)

		product := getProduct(t, "P001")
		assert.Equal(t, 3, product.NumOfReviews)
		assert.Equal(t, 4.0, product.Ratings)
		assert.Len(t, product.Reviews, 3)
	})

	t.Run("second review by the same user returns 409", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalogue(t, testDB.Pool)

		require.Equal(t, http.StatusCreated, postReview("P001", "user-1", "Alice", 5).Code)

		w := postReview("P001", "user-1", "Alice", 1)
		assert.Equal(t, http.StatusConflict, w.Code)

		product := getProduct(t, "P001")
		assert.Equal(t, 1, product.NumOfReviews)
		assert.Equal(t, 5.0, product.Ratings)
	})

	t.Run("out-of-range rating returns 400", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalogue(t, testDB.Pool)

		w := postReview("P001", "user-1", "Alice", 6)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		product := getProduct(t, "P001")
		assert.Zero(t, product.NumOfReviews)
	})

	t.Run("review without identity returns 401", func(t *testing.T) {
		w := doRequest(server, http.MethodPost, "/api/products/P001/reviews",
			[]byte(`{"rating": 4}`), nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("review on a missing product returns 404", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalogue(t, testDB.Pool)

		w := postReview("P999", "user-1", "Alice", 4)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("concurrent reviews by distinct users lose no updates", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalogue(t, testDB.Pool)

		ratings := []int{5, 3, 4, 2, 5, 1, 4, 3}

		var wg sync.WaitGroup
		codes := make([]int, len(ratings))
		for i, rating := range ratings {
			wg.Add(1)
			go func() {
				defer wg.Done()
				user := fmt.Sprintf("user-%d", i+1)
				codes[i] = postReview("P002", user, user, rating).Code
			}()
		}
		wg.Wait()

		// Retries are bounded, so under heavy contention a submission may
		// give up with 503. Whatever landed must be reflected exactly.
		var succeeded int
		sum := 0
		for i, code := range codes {
			switch code {
			case http.StatusCreated:
				succeeded++
				sum += ratings[i]
			case http.StatusServiceUnavailable:
			default:
				t.Fatalf("unexpected status %d for user-%d", code, i+1)
			}
		}

		require.NotZero(t, succeeded)
		product := getProduct(t, "P002")
		assert.Equal(t, succeeded, product.NumOfReviews)
		assert.Len(t, product.Reviews, succeeded)
		assert.InDelta(t, float64(sum)/float64(succeeded), product.Ratings, 1e-9)
	})
}
