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

// BootstrapHandler handles POST /api/bootstrap: one-time creation of the
// first admin account on an empty system.
type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
	QRCodes          *qrstore.Store
}

type bootstrapRequest struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req bootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "username and password are required")
		return
	}

	enrollment, err := h.BootstrapService.Bootstrap(ctx, req.Token, req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrBootstrapAlready):
		writeMessage(w, http.StatusConflict, "system already bootstrapped")
		return
	case errors.Is(err, service.ErrBootstrapUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "invalid bootstrap token")
		return
	case errors.Is(err, service.ErrDuplicateAccount):
		writeMessage(w, http.StatusConflict, "username already taken")
		return
	default:
		log.Error("bootstrap failed", "username", req.Username, "err", err)
		writeMessage(w, http.StatusInternalServerError, "bootstrap failed")
		return
	}

	resp := RegisterResponse{
		Message: "admin registered, scan the QR code and verify an OTP to activate",
		Secret:  enrollment.Secret,
	}

	if h.QRCodes != nil {
		name, err := h.QRCodes.Write(req.Username, enrollment.URI)
		if err != nil {
			log.Warn("failed to write QR image", "username", req.Username, "err", err)
		} else {
			resp.QRCodeURL = "/qrcodes/" + name
		}
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, resp)
}
