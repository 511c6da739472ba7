package http

import (
	"net/http"
	"time"

	"github.com/rollcall-app/rollcall/pkg/httpx"
)

// LivezHandler is the liveness probe; it answers 200 whenever the process
// is up.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
