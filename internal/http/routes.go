package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
	"github.com/clinicore/clinic-access/internal/observability/statsd"
	"github.com/clinicore/clinic-access/internal/policy"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	StaffAuth   StaffAuthInterface
	PatientAuth PatientAuthInterface
	Sessions    SessionFactory
	Policy      *policy.Engine

	CookieDomain string
	Metrics      statsd.Sink
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	staffHandlers := &StaffHandlers{
		Svc:      services.StaffAuth,
		Sessions: services.Sessions,
		Logger:   services.Logger,
	}
	registerStaffAuthRoutes(mux, staffHandlers)

	if services.PatientAuth != nil {
		patientHandlers := &PatientHandlers{
			Svc:          services.PatientAuth,
			CookieDomain: services.CookieDomain,
			Logger:       services.Logger,
		}
		registerPatientAuthRoutes(mux, patientHandlers)
	}

	registerGuardedRoutes(mux, services)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = mux
	if services.Metrics != nil {
		handler = Metrics(services.Metrics)(handler)
	}
	return Recover(logger)(Logging(logger)(handler))
}

func registerStaffAuthRoutes(mux *http.ServeMux, h *StaffHandlers) {
	mux.HandleFunc("POST /auth/staff/login", h.Login)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/session", h.Session)
	mux.HandleFunc("POST /auth/session/extend", h.ExtendSession)
}

func registerPatientAuthRoutes(mux *http.ServeMux, h *PatientHandlers) {
	mux.HandleFunc("GET /auth/patient/login", h.Login)
	mux.HandleFunc("GET /auth/patient/callback", h.Callback)
	mux.HandleFunc("POST /auth/patient/logout", h.Logout)
	mux.HandleFunc("GET /auth/patient/status", h.Status)
}

// registerGuardedRoutes wires the role-gated surfaces and the authz check
// endpoint. The admin and doctor area roots exist so a front proxy can probe
// authorization with a subrequest; content behind them is served elsewhere.
func registerGuardedRoutes(mux *http.ServeMux, services RouterServices) {
	adminOnly := RequireRole(services.Sessions, domainauth.RoleAdmin)
	doctorOnly := RequireRole(services.Sessions, domainauth.RoleDoctor)
	staffOnly := RequireStaff(services.Sessions)
	extend := ExtendActivity(services.Sessions)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "authorized"})
	})

	mux.Handle("GET /admin/", extend(adminOnly(ok)))
	mux.Handle("GET /doctor/", extend(doctorOnly(ok)))

	if services.Policy != nil {
		authzHandlers := &AuthzHandlers{Engine: services.Policy}
		mux.Handle("POST /api/authz/check", staffOnly(http.HandlerFunc(authzHandlers.Check)))
	}
}
