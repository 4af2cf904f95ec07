package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/clinicore/clinic-access/config"
	httpx "github.com/clinicore/clinic-access/internal/http"
	"github.com/clinicore/clinic-access/internal/observability/statsd"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config  *config.AppConfig
	Auth    *AuthContainer
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil || cfg.Auth == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		StaffAuth:    cfg.Auth.StaffAuth,
		PatientAuth:  patientAuthOrNil(cfg.Auth),
		Sessions:     cfg.Auth.Sessions,
		Policy:       cfg.Auth.Policy,
		CookieDomain: appCfg.HTTP.CookieDomain,
		Metrics:      cfg.Metrics,
		Logger:       logger,
	})

	return startServer(logger, handler, appCfg.HTTP.Addr)
}

// patientAuthOrNil keeps a typed-nil *PatientAuthService from sneaking into
// the interface field and defeating the router's nil check.
func patientAuthOrNil(auth *AuthContainer) httpx.PatientAuthInterface {
	if auth.PatientAuth == nil {
		return nil
	}
	return auth.PatientAuth
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}

	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}

	return nil
}
