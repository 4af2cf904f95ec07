// Command clinic-access runs the authentication and access-control service
// for the clinic platform: staff sign-in, session management, patient
// sign-in, and the server-side access policy.
package main

import (
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // register the pgx database/sql driver

	"github.com/clinicore/clinic-access/internal/bootstrap"
)

func main() {
	if err := bootstrap.Run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}
