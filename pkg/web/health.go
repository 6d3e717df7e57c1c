package web

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/venturelinkhq/venturelink/pkg/db"
)

// HealthController registers the liveness and readiness probes.
func HealthController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/healthz", getLiveness)
	r.HandleFunc("/readyz", getReadiness)
}

func getLiveness(w http.ResponseWriter, _ *http.Request) {
	renderStatus(http.StatusOK)(w, nil)
}

// getReadiness reports 503 until the database answers a ping.
func getReadiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := db.FromContext(ctx).PingContext(ctx); err != nil {
		log.FromContext(ctx).Error("readiness probe failed", "err", err)
		renderStatus(http.StatusServiceUnavailable)(w, nil)
		return
	}
	renderStatus(http.StatusOK)(w, nil)
}
