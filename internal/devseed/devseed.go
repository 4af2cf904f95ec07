// Package devseed populates a development database with staff accounts and
// credentials. Accounts are deliberately spread across all three role-record
// schema generations so the full resolver chain is exercised from the first
// sign-in.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/clinicore/clinic-access/internal/data"
	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB          *sql.DB
	Roles       *data.RoleRepo
	Credentials *data.CredentialRepo
}

// seedAccount describes one dev staff account. Schema selects which
// historical record shape the role record is written in.
type seedAccount struct {
	Schema    string // "canonical", "legacy", or "oldest"
	SubjectID string
	Email     string
	Role      domainauth.Role
	StaffID   string
	Name      string
	Password  string
}

func defaultAccounts() []seedAccount {
	return []seedAccount{
		{
			// Canonical: keyed by subject id, exact email field.
			Schema:    "canonical",
			SubjectID: "dev-admin-1",
			Email:     "admin@clinic.test",
			Role:      domainauth.RoleAdmin,
			StaffID:   "ADM1",
			Name:      "Dev Admin",
			Password:  "admin-dev-password",
		},
		{
			// Legacy: keyed by subject id, role found via the emailLower field.
			Schema:    "legacy",
			SubjectID: "dev-doctor-1",
			Email:     "Doctor@Clinic.Test",
			Role:      domainauth.RoleDoctor,
			StaffID:   "doc1",
			Name:      "Dev Doctor",
			Password:  "doctor-dev-password",
		},
		{
			// Oldest: keyed by the normalized email itself, no subject id.
			Schema:    "oldest",
			SubjectID: "dev-doctor-2",
			Email:     "doctor2@clinic.test",
			Role:      domainauth.RoleDoctor,
			StaffID:   "doc2",
			Name:      "Dev Doctor Two",
			Password:  "doctor2-dev-password",
		},
	}
}

// NewServices constructs the repositories needed for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		DB:          db,
		Roles:       data.NewRoleRepo(db),
		Credentials: data.NewCredentialRepo(db, data.CredentialRepoConfig{}),
	}
}

// Run seeds the development staff accounts. Existing records are upserted, so
// repeated runs converge instead of erroring.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	failures := 0
	for _, acct := range defaultAccounts() {
		if err := seedOne(ctx, svcs, acct); err != nil {
			failures++
			if logger != nil {
				logger.WarnContext(ctx, "failed to seed staff account",
					"email", acct.Email, "error", err)
			}
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "seeded staff account",
				"email", acct.Email, "role", string(acct.Role), "schema", acct.Schema)
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func seedOne(ctx context.Context, svcs Services, acct seedAccount) error {
	rec, err := recordFor(acct)
	if err != nil {
		return err
	}
	if upsertErr := svcs.Roles.Upsert(ctx, rec); upsertErr != nil {
		return fmt.Errorf("upsert role record: %w", upsertErr)
	}
	if credErr := svcs.Credentials.Create(ctx, acct.SubjectID, acct.Email, acct.Password); credErr != nil {
		return fmt.Errorf("create credential: %w", credErr)
	}
	return nil
}

// recordFor shapes the role record according to the account's schema
// generation.
func recordFor(acct seedAccount) (*domainauth.RoleRecord, error) {
	normalized := domainauth.NormalizeEmail(acct.Email)
	switch acct.Schema {
	case "canonical":
		return &domainauth.RoleRecord{
			DocKey:    acct.SubjectID,
			SubjectID: acct.SubjectID,
			Email:     acct.Email,
			Role:      acct.Role,
			StaffID:   acct.StaffID,
			Name:      acct.Name,
		}, nil
	case "legacy":
		return &domainauth.RoleRecord{
			DocKey:     acct.SubjectID,
			SubjectID:  acct.SubjectID,
			EmailLower: normalized,
			Role:       acct.Role,
			StaffID:    acct.StaffID,
			Name:       acct.Name,
		}, nil
	case "oldest":
		return &domainauth.RoleRecord{
			DocKey:  normalized,
			Email:   acct.Email,
			Role:    acct.Role,
			StaffID: acct.StaffID,
			Name:    acct.Name,
		}, nil
	default:
		return nil, fmt.Errorf("unknown seed schema %q", acct.Schema)
	}
}
