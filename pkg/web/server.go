package web

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/venturelinkhq/venturelink/pkg/config"
)

// NewRouter builds the handler stack for the public HTTP API.
func NewRouter(ctx context.Context) http.Handler {
	cfg := config.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("http")

	router := mux.NewRouter()
	HealthController(ctx, router)
	AuthController(ctx, router)
	UserController(ctx, router)
	AffiliationController(ctx, router)
	router.PathPrefix("/").HandlerFunc(renderNotFound)

	// Recovery sits outermost so a panicking handler still produces a
	// logged 500 response.
	h := withLogging(logger, router)
	h = NewContextHandler(ctx)(h)
	h = handlers.CompressHandler(h)
	if cfg.HTTP.CORS.Enabled {
		h = handlers.CORS(
			handlers.AllowedOrigins(cfg.HTTP.CORS.AllowedOrigins),
			handlers.AllowedHeaders(cfg.HTTP.CORS.AllowedHeaders),
			handlers.AllowedMethods(cfg.HTTP.CORS.AllowedMethods),
		)(h)
	}
	return handlers.RecoveryHandler()(h)
}
