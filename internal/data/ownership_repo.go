package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/clinicore/clinic-access/internal/data/pgxutil"
	apperrors "github.com/clinicore/clinic-access/internal/errors"
)

// OwnershipRepo answers the ownership and participation questions the access
// policy needs: who a patient record belongs to, which doctor treats it, and
// who is allowed inside a conversation. It is read-only; the clinical services
// that write these tables are external to this service.
type OwnershipRepo struct {
	DB *sql.DB
}

// NewOwnershipRepo creates a new OwnershipRepo.
func NewOwnershipRepo(db *sql.DB) *OwnershipRepo {
	return &OwnershipRepo{DB: db}
}

type patientRecordRow struct {
	PatientSubjectID string `db:"patient_subject_id"`
	DoctorSubjectID  string `db:"doctor_subject_id"`
}

// PatientRecordOwner returns the owning patient and treating doctor subject
// ids for a patient record.
func (r *OwnershipRepo) PatientRecordOwner(ctx context.Context, recordID string) (patientSubjectID, doctorSubjectID string, err error) {
	var row patientRecordRow
	err = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, `
			SELECT patient_subject_id, doctor_subject_id
			FROM patient_records WHERE id = $1
		`, recordID)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		var collectErr error
		row, collectErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[patientRecordRow])
		return collectErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", apperrors.NotFound("patient record not found")
		}
		return "", "", apperrors.MapDBError(err)
	}
	return row.PatientSubjectID, row.DoctorSubjectID, nil
}

// ConversationParticipants returns the subject ids authorized to read a
// conversation.
func (r *OwnershipRepo) ConversationParticipants(ctx context.Context, conversationID string) ([]string, error) {
	var participants []string
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT participant_subject_ids FROM conversations WHERE id = $1
		`, conversationID).Scan(&participants)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("conversation not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return participants, nil
}
