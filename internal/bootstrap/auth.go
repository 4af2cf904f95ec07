package bootstrap

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clinicore/clinic-access/config"
	"github.com/clinicore/clinic-access/internal/adapters/cookiestore"
	"github.com/clinicore/clinic-access/internal/adapters/devauth"
	"github.com/clinicore/clinic-access/internal/adapters/oidc"
	"github.com/clinicore/clinic-access/internal/adapters/redisstore"
	"github.com/clinicore/clinic-access/internal/data"
	httpx "github.com/clinicore/clinic-access/internal/http"
	"github.com/clinicore/clinic-access/internal/observability/statsd"
	"github.com/clinicore/clinic-access/internal/policy"
	"github.com/clinicore/clinic-access/internal/service"
)

// AuthDeps groups dependencies for assembling the auth services.
type AuthDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Metrics     *statsd.Client
	Logger      *slog.Logger
}

// AuthContainer holds the assembled auth services and supporting pieces.
type AuthContainer struct {
	StaffAuth   *service.StaffAuthService
	PatientAuth *service.PatientAuthService
	Sessions    httpx.SessionFactory
	Policy      *policy.Engine
	Roles       *data.RoleRepo
	Credentials *data.CredentialRepo
}

// BuildAuthServices wires repositories, adapters, and services for the staff
// protocol, patient sign-in, session management, and the access policy.
func BuildAuthServices(deps AuthDeps) *AuthContainer {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	roleRepo := data.NewRoleRepo(deps.DB)
	credRepo := data.NewCredentialRepo(deps.DB, data.CredentialRepoConfig{
		BcryptCost:        cfg.Auth.Staff.BcryptCost,
		MaxFailedAttempts: cfg.Auth.Staff.MaxFailedAttempts,
		Lockout:           time.Duration(cfg.Auth.Staff.LockoutMinutes) * time.Minute,
	})
	ownershipRepo := data.NewOwnershipRepo(deps.DB)

	authMetrics := service.NewAuthMetrics()
	if deps.Metrics != nil {
		authMetrics.SetSink(deps.Metrics)
	}

	staffAuth := service.NewStaffAuthService(service.StaffAuthServiceOptions{
		Credentials: credRepo,
		Directory:   roleRepo,
		Metrics:     authMetrics,
		Logger:      logger,
	})

	primary := redisstore.NewStaffStore(deps.RedisClient, cfg.Session.RedisPrefix)
	sessions := func(w http.ResponseWriter, r *http.Request) *service.SessionManager {
		fallback := cookiestore.New(w, r, cookiestore.Config{
			Name:   cfg.Session.CookieName,
			Domain: cfg.HTTP.CookieDomain,
		})
		return service.NewSessionManager(service.SessionManagerOptions{
			Primary:  primary,
			Fallback: fallback,
			Logger:   logger,
		})
	}

	return &AuthContainer{
		StaffAuth:   staffAuth,
		PatientAuth: buildPatientAuth(deps, logger),
		Sessions:    sessions,
		Policy:      policy.NewEngine(ownershipRepo),
		Roles:       roleRepo,
		Credentials: credRepo,
	}
}

// buildPatientAuth creates the patient auth service based on the configured
// mode. Returns nil when the mode is misconfigured; the patient surface is
// then not mounted.
func buildPatientAuth(deps AuthDeps, logger *slog.Logger) *service.PatientAuthService {
	cfg := deps.Config
	sessionStore := redisstore.NewPatientStore(deps.RedisClient)

	switch cfg.Auth.PatientMode {
	case config.PatientAuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			SubjectID: cfg.Auth.DevAuth.SubjectID,
			Email:     cfg.Auth.DevAuth.Email,
		})
		if err != nil {
			logger.Warn("failed to create dev auth provider, patient auth disabled", "error", err)
			return nil
		}
		return service.NewPatientAuthService(service.PatientAuthServiceOptions{
			Provider: prov,
			Sessions: sessionStore,
		})

	case config.PatientAuthModeOAuth:
		oauth := cfg.Auth.OAuth
		if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
			logger.Warn("oauth patient mode selected but required config missing; patient auth disabled",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
			)
			return nil
		}
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			DiscoveryURL: oauth.DiscoveryURL,
		})
		if err != nil {
			logger.Warn("failed to create OIDC provider, patient auth disabled", "error", err)
			return nil
		}
		return service.NewPatientAuthService(service.PatientAuthServiceOptions{
			Provider: prov,
			Sessions: sessionStore,
		})

	default:
		return nil
	}
}
