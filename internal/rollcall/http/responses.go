package http

import (
	"net/http"

	"github.com/rollcall-app/rollcall/pkg/httpx"
)

// MessageResponse is the body for endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterResponse returns the enrollment material a new account needs to
// set up its authenticator.
type RegisterResponse struct {
	Message   string `json:"message"`
	Secret    string `json:"secret"`
	QRCodeURL string `json:"qrCodeUrl,omitempty"`
}

// LoginResponse reports a successful login and the account's role.
type LoginResponse struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// DatesResponse lists the days a user has attended, ascending.
type DatesResponse struct {
	Dates []string `json:"dates"`
}

// UsersResponse lists all registered usernames in registration order.
type UsersResponse struct {
	Users []string `json:"users"`
}

// HealthResponse is the body for the liveness and readiness probes.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	httpx.WriteJSON(w, status, MessageResponse{Message: message})
}

func writeBadJSON(w http.ResponseWriter) {
	writeMessage(w, http.StatusBadRequest, "invalid JSON body")
}
