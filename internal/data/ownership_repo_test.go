package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/clinicore/clinic-access/internal/errors"
	"github.com/clinicore/clinic-access/internal/testutil"
)

func TestOwnershipRepo_Integration_PatientRecordOwner(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewOwnershipRepo(db)
		ctx := context.Background()

		_, err := db.ExecContext(ctx, `
			INSERT INTO patient_records (id, patient_subject_id, doctor_subject_id)
			VALUES ('rec-1', 'pat-1', 'doc-1')
		`)
		require.NoError(t, err)

		patientID, doctorID, err := repo.PatientRecordOwner(ctx, "rec-1")
		require.NoError(t, err)
		assert.Equal(t, "pat-1", patientID)
		assert.Equal(t, "doc-1", doctorID)

		_, _, err = repo.PatientRecordOwner(ctx, "absent")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestOwnershipRepo_Integration_ConversationParticipants(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewOwnershipRepo(db)
		ctx := context.Background()

		_, err := db.ExecContext(ctx, `
			INSERT INTO conversations (id, participant_subject_ids)
			VALUES ('conv-1', ARRAY['pat-1', 'doc-1'])
		`)
		require.NoError(t, err)

		participants, err := repo.ConversationParticipants(ctx, "conv-1")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"pat-1", "doc-1"}, participants)

		_, err = repo.ConversationParticipants(ctx, "absent")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestOwnershipRepo_Integration_EmptyParticipantList(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewOwnershipRepo(db)
		ctx := context.Background()

		_, err := db.ExecContext(ctx, `INSERT INTO conversations (id) VALUES ('conv-empty')`)
		require.NoError(t, err)

		participants, err := repo.ConversationParticipants(ctx, "conv-empty")
		require.NoError(t, err)
		assert.Empty(t, participants)
	})
}
