package http

import (
	"net/http"
	"time"

	"github.com/rollcall-app/rollcall/internal/rollcall/store"
	"github.com/rollcall-app/rollcall/pkg/httpx"
	"github.com/rollcall-app/rollcall/pkg/slogx"
)

// ReadyzHandler is the readiness probe; it pings the store so a wedged
// database takes the instance out of rotation.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Error("readiness check failed", "err", err)
			httpx.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  "unavailable",
				Uptime:  time.Since(startTime).String(),
				Version: version,
			})
			return
		}

		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
