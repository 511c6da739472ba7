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

// adminRequest is the shared body shape for the admin mutations. Each
// action reads the fields it needs and validates them itself.
type adminRequest struct {
	AdminUsername  string `json:"adminUsername"`
	TargetUsername string `json:"targetUsername"`
	NewPassword    string `json:"newPassword"`
	NewRole        string `json:"newRole"`
}

type adminActionFunc func(w http.ResponseWriter, r *http.Request)

// AdminHandler dispatches the privileged operations through a typed action
// table keyed by domain.AdminAction, one route per action.
type AdminHandler struct {
	AdminService *service.AdminService

	actions map[domain.AdminAction]adminActionFunc
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	h := &AdminHandler{AdminService: svc}
	h.actions = map[domain.AdminAction]adminActionFunc{
		domain.AdminResetPassword: h.handleResetPassword,
		domain.AdminChangeRole:    h.handleChangeRole,
		domain.AdminDeleteUser:    h.handleDeleteUser,
		domain.AdminListUsers:     h.handleListUsers,
	}
	return h
}

// Action returns the handler registered for a single admin action.
func (h *AdminHandler) Action(action domain.AdminAction) http.Handler {
	fn, ok := h.actions[action]
	if !ok {
		return http.NotFoundHandler()
	}
	return http.HandlerFunc(fn)
}

func (h *AdminHandler) decode(w http.ResponseWriter, r *http.Request) (adminRequest, bool) {
	var req adminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return adminRequest{}, false
	}
	if req.AdminUsername == "" {
		writeMessage(w, http.StatusBadRequest, "adminUsername is required")
		return adminRequest{}, false
	}
	return req, true
}

// writeAdminError maps the service sentinels shared by every admin action.
func writeAdminError(w http.ResponseWriter, r *http.Request, action domain.AdminAction, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		writeMessage(w, http.StatusForbidden, "admin privileges required")
	case errors.Is(err, service.ErrUnknownAccount):
		writeMessage(w, http.StatusNotFound, "unknown account")
	case errors.Is(err, service.ErrInvalidRole):
		writeMessage(w, http.StatusBadRequest, "role must be user or admin")
	default:
		slogx.FromContext(r.Context()).Error("admin action failed",
			"action", string(action), "err", err)
		writeMessage(w, http.StatusInternalServerError, "admin action failed")
	}
}

func (h *AdminHandler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	if req.TargetUsername == "" || req.NewPassword == "" {
		writeMessage(w, http.StatusBadRequest, "targetUsername and newPassword are required")
		return
	}

	if err := h.AdminService.ResetPassword(r.Context(), req.AdminUsername, req.TargetUsername, req.NewPassword); err != nil {
		writeAdminError(w, r, domain.AdminResetPassword, err)
		return
	}
	writeMessage(w, http.StatusOK, "password reset")
}

func (h *AdminHandler) handleChangeRole(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	if req.TargetUsername == "" || req.NewRole == "" {
		writeMessage(w, http.StatusBadRequest, "targetUsername and newRole are required")
		return
	}

	if err := h.AdminService.ChangeRole(r.Context(), req.AdminUsername, req.TargetUsername, req.NewRole); err != nil {
		writeAdminError(w, r, domain.AdminChangeRole, err)
		return
	}
	writeMessage(w, http.StatusOK, "role updated")
}

func (h *AdminHandler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	if req.TargetUsername == "" {
		writeMessage(w, http.StatusBadRequest, "targetUsername is required")
		return
	}

	if err := h.AdminService.DeleteUser(r.Context(), req.AdminUsername, req.TargetUsername); err != nil {
		writeAdminError(w, r, domain.AdminDeleteUser, err)
		return
	}
	writeMessage(w, http.StatusOK, "user deleted")
}

func (h *AdminHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	caller := r.URL.Query().Get("adminUsername")
	if caller == "" {
		writeMessage(w, http.StatusBadRequest, "adminUsername is required")
		return
	}

	users, err := h.AdminService.ListUsers(r.Context(), caller)
	if err != nil {
		writeAdminError(w, r, domain.AdminListUsers, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, UsersResponse{Users: users})
}
