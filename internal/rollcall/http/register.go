package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rollcall-app/rollcall/internal/rollcall/qrstore"
	"github.com/rollcall-app/rollcall/internal/rollcall/service"
	"github.com/rollcall-app/rollcall/pkg/httpx"
	"github.com/rollcall-app/rollcall/pkg/slogx"
)

// RegisterHandler handles POST /api/register. It creates a pending account
// and hands back the TOTP secret plus a QR image URL for the authenticator.
type RegisterHandler struct {
	AccountService *service.AccountService
	QRCodes        *qrstore.Store
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "username and password are required")
		return
	}

	enrollment, err := h.AccountService.Register(ctx, req.Username, req.Password)
	if errors.Is(err, service.ErrDuplicateAccount) {
		writeMessage(w, http.StatusConflict, "username already taken")
		return
	}
	if err != nil {
		log.Error("registration failed", "username", req.Username, "err", err)
		writeMessage(w, http.StatusInternalServerError, "registration failed")
		return
	}

	resp := RegisterResponse{
		Message: "registered, scan the QR code and verify an OTP to activate",
		Secret:  enrollment.Secret,
	}

	if h.QRCodes != nil {
		name, err := h.QRCodes.Write(req.Username, enrollment.URI)
		if err != nil {
			// The secret in the body is still enough to enroll manually.
			log.Warn("failed to write QR image", "username", req.Username, "err", err)
		} else {
			resp.QRCodeURL = "/qrcodes/" + name
		}
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, resp)
}
