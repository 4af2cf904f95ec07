package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicore/clinic-access/internal/data/pgxutil"
	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
	apperrors "github.com/clinicore/clinic-access/internal/errors"
)

// CredentialRepo is the Postgres-backed credential store for staff accounts.
// It verifies bcrypt password hashes and enforces a consecutive-failure
// lockout. All failures map to the closed error taxonomy before leaving this
// package; row contents never do.
type CredentialRepo struct {
	DB *sql.DB

	bcryptCost  int
	maxAttempts int
	lockout     time.Duration
	now         func() time.Time
}

// CredentialRepoConfig tunes lockout and hashing behavior.
type CredentialRepoConfig struct {
	BcryptCost        int
	MaxFailedAttempts int
	Lockout           time.Duration
}

// NewCredentialRepo creates a new CredentialRepo.
func NewCredentialRepo(db *sql.DB, cfg CredentialRepoConfig) *CredentialRepo {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.MaxFailedAttempts == 0 {
		cfg.MaxFailedAttempts = 5
	}
	if cfg.Lockout == 0 {
		cfg.Lockout = 15 * time.Minute
	}
	return &CredentialRepo{
		DB:          db,
		bcryptCost:  cfg.BcryptCost,
		maxAttempts: cfg.MaxFailedAttempts,
		lockout:     cfg.Lockout,
		now:         time.Now,
	}
}

type credentialRow struct {
	EmailLower     string     `db:"email_lower"`
	SubjectID      string     `db:"subject_id"`
	PasswordHash   string     `db:"password_hash"`
	FailedAttempts int        `db:"failed_attempts"`
	LockedUntil    *time.Time `db:"locked_until"`
}

// SignIn verifies the password for the normalized email. An unknown email and
// a wrong password are indistinguishable to the caller.
func (r *CredentialRepo) SignIn(ctx context.Context, email, password string) (domainauth.Identity, error) {
	emailLower := domainauth.NormalizeEmail(email)

	var row credentialRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, `
			SELECT email_lower, subject_id, password_hash, failed_attempts, locked_until
			FROM staff_credentials WHERE email_lower = $1
		`, emailLower)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		var collectErr error
		row, collectErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[credentialRow])
		return collectErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainauth.Identity{}, apperrors.InvalidCredential("Invalid email or password.")
		}
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeNetworkError,
			"The sign-in service did not respond. Please try again.")
	}

	now := r.now()
	if row.LockedUntil != nil && now.Before(*row.LockedUntil) {
		return domainauth.Identity{}, apperrors.TooManyAttempts(
			"Too many failed sign-in attempts. Please try again later.")
	}

	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		locked := r.recordFailure(ctx, emailLower, row.FailedAttempts+1)
		if locked {
			return domainauth.Identity{}, apperrors.TooManyAttempts(
				"Too many failed sign-in attempts. Please try again later.")
		}
		return domainauth.Identity{}, apperrors.InvalidCredential("Invalid email or password.")
	}

	r.resetFailures(ctx, emailLower)
	return domainauth.Identity{SubjectID: row.SubjectID, Email: emailLower}, nil
}

// SignOut revokes authentication state for the subject by advancing its
// sign-out watermark. Anything issued before the watermark is dead.
func (r *CredentialRepo) SignOut(ctx context.Context, subjectID string) error {
	if subjectID == "" {
		return nil
	}
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx,
			`UPDATE staff_credentials SET signed_out_at = now() WHERE subject_id = $1`, subjectID)
		return execErr
	})
	return apperrors.MapDBError(err)
}

// Create stores credentials for a staff account. Used by administrative
// seeding, never by request paths.
func (r *CredentialRepo) Create(ctx context.Context, subjectID, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.bcryptCost)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "hash password")
	}
	err = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `
			INSERT INTO staff_credentials (email_lower, subject_id, password_hash)
			VALUES ($1, $2, $3)
			ON CONFLICT (email_lower) DO UPDATE SET
				subject_id = EXCLUDED.subject_id,
				password_hash = EXCLUDED.password_hash,
				failed_attempts = 0,
				locked_until = NULL
		`, domainauth.NormalizeEmail(email), subjectID, string(hash))
		return execErr
	})
	return apperrors.MapDBError(err)
}

// recordFailure bumps the failure counter and reports whether the account is
// now locked. Counter updates are best-effort: a storage error here must not
// change the sign-in outcome.
func (r *CredentialRepo) recordFailure(ctx context.Context, emailLower string, attempts int) bool {
	locked := attempts >= r.maxAttempts
	var lockedUntil *time.Time
	if locked {
		until := r.now().Add(r.lockout)
		lockedUntil = &until
	}
	_ = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `
			UPDATE staff_credentials SET failed_attempts = $2, locked_until = $3
			WHERE email_lower = $1
		`, emailLower, attempts, lockedUntil)
		return execErr
	})
	return locked
}

func (r *CredentialRepo) resetFailures(ctx context.Context, emailLower string) {
	_ = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `
			UPDATE staff_credentials SET failed_attempts = 0, locked_until = NULL
			WHERE email_lower = $1
		`, emailLower)
		return execErr
	})
}
