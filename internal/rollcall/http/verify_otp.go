package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rollcall-app/rollcall/internal/rollcall/service"
	"github.com/rollcall-app/rollcall/pkg/slogx"
)

// VerifyOTPHandler handles POST /api/verify-otp, the activation step that
// proves the user enrolled the secret in an authenticator.
type VerifyOTPHandler struct {
	AccountService *service.AccountService
}

type verifyOTPRequest struct {
	Username string `json:"username"`
	OTP      string `json:"otp"`

	// Secret is accepted for client compatibility but never trusted; the
	// code is always checked against the secret stored at registration.
	Secret string `json:"secret"`
}

func (h *VerifyOTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}
	if req.Username == "" || req.OTP == "" {
		writeMessage(w, http.StatusBadRequest, "username and otp are required")
		return
	}

	err := h.AccountService.Activate(ctx, req.Username, req.OTP)
	switch {
	case err == nil:
		writeMessage(w, http.StatusOK, "account activated")
	case errors.Is(err, service.ErrUnknownAccount):
		writeMessage(w, http.StatusNotFound, "unknown account")
	case errors.Is(err, service.ErrAlreadyActive):
		writeMessage(w, http.StatusConflict, "account already activated")
	case errors.Is(err, service.ErrInvalidOTP):
		writeMessage(w, http.StatusUnauthorized, "invalid one-time code")
	default:
		log.Error("activation failed", "username", req.Username, "err", err)
		writeMessage(w, http.StatusInternalServerError, "activation failed")
	}
}
