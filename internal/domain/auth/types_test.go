package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = ParseRole(" Doctor ")
	require.NoError(t, err)
	assert.Equal(t, RoleDoctor, role)

	role, err = ParseRole("PATIENT")
	require.NoError(t, err)
	assert.Equal(t, RolePatient, role)

	_, err = ParseRole("superuser")
	assert.Error(t, err)

	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRole_IsStaff(t *testing.T) {
	assert.True(t, RoleAdmin.IsStaff())
	assert.True(t, RoleDoctor.IsStaff())
	assert.False(t, RolePatient.IsStaff())
	assert.False(t, Role("").IsStaff())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "doctor@clinic.test", NormalizeEmail("  Doctor@Clinic.Test "))
	assert.Equal(t, "a@b.c", NormalizeEmail("a@b.c"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func validSession() StaffSession {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return StaffSession{
		ID:         "sess-1",
		Email:      "admin@clinic.test",
		Role:       RoleAdmin,
		Name:       "Admin",
		LoggedInAt: now,
		ExpiresAt:  now.Add(SessionDurationShort),
	}
}

func TestStaffSession_Validate(t *testing.T) {
	assert.NoError(t, validSession().Validate())

	sess := validSession()
	sess.ID = ""
	assert.Error(t, sess.Validate())

	sess = validSession()
	sess.Email = ""
	assert.Error(t, sess.Validate())

	sess = validSession()
	sess.Role = RolePatient
	assert.Error(t, sess.Validate())

	sess = validSession()
	sess.Role = "owner"
	assert.Error(t, sess.Validate())

	sess = validSession()
	sess.LoggedInAt = time.Time{}
	assert.Error(t, sess.Validate())

	sess = validSession()
	sess.ExpiresAt = sess.LoggedInAt.Add(-time.Hour)
	assert.Error(t, sess.Validate())
}

func TestStaffSession_Expired(t *testing.T) {
	sess := validSession()

	assert.False(t, sess.Expired(sess.ExpiresAt.Add(-time.Minute)))
	assert.True(t, sess.Expired(sess.ExpiresAt))
	assert.True(t, sess.Expired(sess.ExpiresAt.Add(time.Minute)))
}

func TestStaffSession_Duration(t *testing.T) {
	sess := validSession()
	assert.Equal(t, SessionDurationShort, sess.Duration())

	sess.RememberDevice = true
	assert.Equal(t, SessionDurationExtended, sess.Duration())
}

func TestLandingRoute(t *testing.T) {
	assert.Equal(t, "/admin", LandingRoute(RoleAdmin))
	assert.Equal(t, "/doctor/dashboard", LandingRoute(RoleDoctor))
	assert.Equal(t, "/", LandingRoute(RolePatient))
}

func TestLoginSurface(t *testing.T) {
	assert.Equal(t, "/admin/login", LoginSurface(RoleAdmin))
	assert.Equal(t, "/doctor/login", LoginSurface(RoleDoctor))
	assert.Equal(t, "/login", LoginSurface(RolePatient))
}
