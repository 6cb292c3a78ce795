package router

import (
	"net/http"
	"strings"

	"shopfront/internal/handler"
	"shopfront/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	reviewHandler *handler.ReviewHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Product routes:
	//   /api/products              GET list, POST create
	//   /api/products/{id}         GET, PUT, DELETE
	//   /api/products/{id}/reviews POST
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/products"), "/")

		if rest == "" {
			switch r.Method {
			case http.MethodGet:
				productHandler.List(w, r)
			case http.MethodPost:
				productHandler.Create(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		parts := strings.Split(rest, "/")
		switch {
		case len(parts) == 1:
			switch r.Method {
			case http.MethodGet:
				productHandler.Get(w, r, parts[0])
			case http.MethodPut:
				productHandler.Update(w, r, parts[0])
			case http.MethodDelete:
				productHandler.Delete(w, r, parts[0])
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}

		case len(parts) == 2 && parts[1] == "reviews":
			if r.Method != http.MethodPost {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			reviewHandler.Create(w, r, parts[0])

		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}

	// Register product routes (both with and without trailing slash)
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth -> Identity
	var h http.Handler = mux
	h = middleware.Identity(h)
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
