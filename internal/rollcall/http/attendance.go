package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rollcall-app/rollcall/internal/rollcall/domain"
	"github.com/rollcall-app/rollcall/internal/rollcall/service"
	"github.com/rollcall-app/rollcall/pkg/httpx"
	"github.com/rollcall-app/rollcall/pkg/slogx"
)

// AttendanceHandler handles attendance marking and date queries.
type AttendanceHandler struct {
	AttendanceService *service.AttendanceService
}

type markRequest struct {
	Username string `json:"username"`
}

// HandleMark handles POST /api/attendance. Marking twice on the same day
// is not an error; the response wording tells the two cases apart.
func (h *AttendanceHandler) HandleMark(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req markRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}
	if req.Username == "" {
		writeMessage(w, http.StatusBadRequest, "username is required")
		return
	}

	result, day, err := h.AttendanceService.Mark(ctx, req.Username)
	switch {
	case err == nil:
		if result == domain.MarkAlreadyPresent {
			writeMessage(w, http.StatusOK, "attendance already recorded for "+day.String())
			return
		}
		writeMessage(w, http.StatusOK, "attendance recorded for "+day.String())
	case errors.Is(err, service.ErrUnknownAccount):
		writeMessage(w, http.StatusNotFound, "unknown account")
	default:
		log.Error("failed to mark attendance", "username", req.Username, "err", err)
		writeMessage(w, http.StatusInternalServerError, "failed to mark attendance")
	}
}

// HandleDates handles GET /api/attendance/dates?username=.
func (h *AttendanceHandler) HandleDates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	username := r.URL.Query().Get("username")
	if username == "" {
		writeMessage(w, http.StatusBadRequest, "username is required")
		return
	}

	days, err := h.AttendanceService.DatesFor(ctx, username)
	switch {
	case err == nil:
		dates := make([]string, 0, len(days))
		for _, d := range days {
			dates = append(dates, d.String())
		}
		httpx.WriteJSON(w, http.StatusOK, DatesResponse{Dates: dates})
	case errors.Is(err, service.ErrUnknownAccount):
		writeMessage(w, http.StatusNotFound, "unknown account")
	default:
		log.Error("failed to list attendance", "username", username, "err", err)
		writeMessage(w, http.StatusInternalServerError, "failed to list attendance")
	}
}
