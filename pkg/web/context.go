package web

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/venturelinkhq/venturelink/pkg/backend"
	"github.com/venturelinkhq/venturelink/pkg/config"
	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/store"
)

// NewContextHandler copies the process-wide values (config, database, store,
// backend) from ctx into every request context and attaches a request-scoped
// logger.
func NewContextHandler(ctx context.Context) func(http.Handler) http.Handler {
	cfg := config.FromContext(ctx)
	dbx := db.FromContext(ctx)
	datastore := store.FromContext(ctx)
	be := backend.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger.With(
				"method", r.Method,
				"path", r.URL,
				"addr", r.RemoteAddr,
			)

			rctx := r.Context()
			rctx = config.WithContext(rctx, cfg)
			rctx = db.WithContext(rctx, dbx)
			rctx = store.WithContext(rctx, datastore)
			rctx = backend.WithContext(rctx, be)
			rctx = log.WithContext(rctx, reqLogger)

			next.ServeHTTP(w, r.WithContext(rctx))
		})
	}
}
