package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rollcall-app/rollcall/internal/rollcall/domain"
	"github.com/rollcall-app/rollcall/internal/rollcall/qrstore"
	"github.com/rollcall-app/rollcall/internal/rollcall/service"
	"github.com/rollcall-app/rollcall/internal/rollcall/store"
	"github.com/rollcall-app/rollcall/pkg/httpx"
	"github.com/rollcall-app/rollcall/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	AccountService    *service.AccountService
	AttendanceService *service.AttendanceService
	AdminService      *service.AdminService
	BootstrapService  *service.BootstrapService
	QRCodes           *qrstore.Store
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerAttendance()
	r.registerAdmin()
	r.registerBootstrap()
	r.registerSystem()

	if r.QRCodes != nil {
		r.Mux.Handle("GET /qrcodes/", http.StripPrefix("/qrcodes/", r.QRCodes.Handler()))
	}
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	registerHandler := &RegisterHandler{
		AccountService: r.AccountService,
		QRCodes:        r.QRCodes,
	}
	verifyHandler := &VerifyOTPHandler{AccountService: r.AccountService}
	loginHandler := &LoginHandler{AccountService: r.AccountService}

	r.Mux.Handle("POST /api/register", registerHandler)
	r.Mux.Handle("POST /api/verify-otp", verifyHandler)
	r.Mux.Handle("POST /api/login", loginHandler)
}

func (r *Router) registerAttendance() {
	h := &AttendanceHandler{AttendanceService: r.AttendanceService}

	r.Mux.Handle("POST /api/attendance", http.HandlerFunc(h.HandleMark))
	r.Mux.Handle("GET /api/attendance/dates", http.HandlerFunc(h.HandleDates))
}

func (r *Router) registerAdmin() {
	h := NewAdminHandler(r.AdminService)

	r.Mux.Handle("POST /api/admin/reset-password", h.Action(domain.AdminResetPassword))
	r.Mux.Handle("POST /api/admin/change-role", h.Action(domain.AdminChangeRole))
	r.Mux.Handle("POST /api/admin/delete-user", h.Action(domain.AdminDeleteUser))
	r.Mux.Handle("GET /api/admin/list-users", h.Action(domain.AdminListUsers))
}

func (r *Router) registerBootstrap() {
	h := &BootstrapHandler{
		BootstrapService: r.BootstrapService,
		QRCodes:          r.QRCodes,
	}
	r.Mux.Handle("POST /api/bootstrap", h)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
