package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rollcall-app/rollcall/internal/rollcall/service"
	"github.com/rollcall-app/rollcall/pkg/httpx"
	"github.com/rollcall-app/rollcall/pkg/slogx"
)

// LoginHandler handles POST /api/login. Every failure class collapses into
// one generic 401 so callers cannot probe which usernames exist or which
// factor was wrong.
type LoginHandler struct {
	AccountService *service.AccountService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	role, err := h.AccountService.Authenticate(ctx, req.Username, req.Password, req.OTP)
	switch {
	case err == nil:
		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusOK, LoginResponse{
			Role:    role.String(),
			Message: "login successful",
		})
	case errors.Is(err, service.ErrUnknownAccount),
		errors.Is(err, service.ErrNotActivated),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidOTP):
		writeMessage(w, http.StatusUnauthorized, "login failed")
	default:
		log.Error("login failed", "username", req.Username, "err", err)
		writeMessage(w, http.StatusInternalServerError, "login failed")
	}
}
