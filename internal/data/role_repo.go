package data

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/clinicore/clinic-access/internal/data/pgxutil"
	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
	apperrors "github.com/clinicore/clinic-access/internal/errors"
)

// RoleRepo is the Postgres-backed role directory. The role_records table
// carries all three historical schemas side by side: canonical records are
// keyed by subject id, one legacy generation adds an email_lower field, and
// the oldest generation is keyed directly by the normalized email with no
// subject id at all. The resolver's ordered strategies probe them in turn.
type RoleRepo struct {
	DB *sql.DB
}

// NewRoleRepo creates a new RoleRepo.
func NewRoleRepo(db *sql.DB) *RoleRepo {
	return &RoleRepo{DB: db}
}

// roleRecordRow mirrors the role_records table for pgx struct scanning.
type roleRecordRow struct {
	DocKey      string  `db:"doc_key"`
	SubjectID   *string `db:"subject_id"`
	Email       string  `db:"email"`
	EmailLower  *string `db:"email_lower"`
	Role        string  `db:"role"`
	StaffID     *string `db:"staff_id"`
	DisplayName *string `db:"display_name"`
}

func (row roleRecordRow) toDomain() *domainauth.RoleRecord {
	rec := &domainauth.RoleRecord{
		DocKey: row.DocKey,
		Email:  row.Email,
		Role:   domainauth.Role(row.Role),
	}
	if row.SubjectID != nil {
		rec.SubjectID = *row.SubjectID
	}
	if row.EmailLower != nil {
		rec.EmailLower = *row.EmailLower
	}
	if row.StaffID != nil {
		rec.StaffID = *row.StaffID
	}
	if row.DisplayName != nil {
		rec.Name = *row.DisplayName
	}
	return rec
}

const roleRecordColumns = `doc_key, subject_id, email, email_lower, role, staff_id, display_name`

// GetByKey performs a point read by record key.
func (r *RoleRepo) GetByKey(ctx context.Context, key string) (*domainauth.RoleRecord, error) {
	return r.getOne(ctx, `SELECT `+roleRecordColumns+` FROM role_records WHERE doc_key = $1`, key)
}

// FindByEmail queries on the exact email field. The input is expected to be
// normalized by the caller; comparison is still case-folded here so a record
// written with mixed case can never be missed.
func (r *RoleRepo) FindByEmail(ctx context.Context, email string) (*domainauth.RoleRecord, error) {
	return r.getOne(ctx,
		`SELECT `+roleRecordColumns+` FROM role_records WHERE lower(trim(email)) = $1 LIMIT 1`,
		domainauth.NormalizeEmail(email))
}

// FindByEmailLower queries on the legacy email_lower field.
func (r *RoleRepo) FindByEmailLower(ctx context.Context, emailLower string) (*domainauth.RoleRecord, error) {
	return r.getOne(ctx,
		`SELECT `+roleRecordColumns+` FROM role_records WHERE email_lower = $1 LIMIT 1`,
		domainauth.NormalizeEmail(emailLower))
}

// FindByStaffID queries on staffId, case-insensitively, constrained to the
// given role. A doctor's staff ID can never resolve through the admin login.
func (r *RoleRepo) FindByStaffID(ctx context.Context, staffID string, role domainauth.Role) (*domainauth.RoleRecord, error) {
	return r.getOne(ctx,
		`SELECT `+roleRecordColumns+` FROM role_records WHERE lower(staff_id) = lower($1) AND role = $2 LIMIT 1`,
		strings.TrimSpace(staffID), string(role))
}

// Upsert writes a role record by its key. Only trusted server-side paths
// (administrative seeding, admin tooling) call this; role is never inferred
// from client input.
func (r *RoleRepo) Upsert(ctx context.Context, rec *domainauth.RoleRecord) error {
	if rec == nil {
		return apperrors.Validation("role record is required")
	}
	if rec.DocKey == "" {
		return apperrors.Validation("role record key is required")
	}
	if _, err := domainauth.ParseRole(string(rec.Role)); err != nil {
		return apperrors.Validationf("role record has invalid role %q", rec.Role)
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `
			INSERT INTO role_records (doc_key, subject_id, email, email_lower, role, staff_id, display_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (doc_key) DO UPDATE SET
				subject_id = EXCLUDED.subject_id,
				email = EXCLUDED.email,
				email_lower = EXCLUDED.email_lower,
				role = EXCLUDED.role,
				staff_id = EXCLUDED.staff_id,
				display_name = EXCLUDED.display_name,
				updated_at = now()
		`,
			rec.DocKey,
			nullIfEmpty(rec.SubjectID),
			rec.Email,
			nullIfEmpty(rec.EmailLower),
			string(rec.Role),
			nullIfEmpty(rec.StaffID),
			nullIfEmpty(rec.Name),
		)
		return execErr
	})
	return apperrors.MapDBError(err)
}

func (r *RoleRepo) getOne(ctx context.Context, query string, args ...any) (*domainauth.RoleRecord, error) {
	var row roleRecordRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, query, args...)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		var collectErr error
		row, collectErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[roleRecordRow])
		return collectErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("role record not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return row.toDomain(), nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
