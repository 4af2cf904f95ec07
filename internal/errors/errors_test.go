package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NoProfileFound("no staff profile found")
	assert.Equal(t, "no staff profile found", err.Error())

	wrapped := Wrap(errors.New("socket closed"), ErrCodeNetworkError, "directory unreachable")
	assert.Equal(t, "directory unreachable: socket closed", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(cause, ErrCodeInternal, "wrapped")
	assert.ErrorIs(t, err, cause)
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "should be nil"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "should be %s", "nil"))
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsNoProfileFound(NoProfileFound("x")))
	assert.True(t, IsRoleMismatch(RoleMismatch("doctor", "x")))
	assert.True(t, IsInvalidCredential(InvalidCredential("x")))
	assert.True(t, IsTooManyAttempts(TooManyAttempts("x")))
	assert.True(t, IsNetworkError(NetworkError("x")))
	assert.True(t, IsMalformedSession(MalformedSession("x")))
	assert.True(t, IsNotFound(NotFound("x")))
	assert.True(t, IsConflict(Conflict("x")))
	assert.True(t, IsValidation(Validation("x")))

	assert.False(t, IsNotFound(Conflict("x")))
	assert.False(t, IsRoleMismatch(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestIsHelpers_WrappedChain(t *testing.T) {
	inner := NotFound("missing")
	outer := fmt.Errorf("lookup failed: %w", inner)
	assert.True(t, IsNotFound(outer))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeTooManyAttempts, GetCode(TooManyAttempts("x")))
	assert.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), GetCode(nil))
}

func TestGetActualRole(t *testing.T) {
	assert.Equal(t, "doctor", GetActualRole(RoleMismatch("doctor", "wrong surface")))
	assert.Equal(t, "", GetActualRole(NotFound("x")))
	assert.Equal(t, "", GetActualRole(errors.New("plain")))
}

func TestMapDBError(t *testing.T) {
	assert.Nil(t, MapDBError(nil))

	err := MapDBError(pgx.ErrNoRows)
	assert.True(t, IsNotFound(err))

	err = MapDBError(fmt.Errorf("query: %w", context.DeadlineExceeded))
	assert.True(t, IsNetworkError(err))

	err = MapDBError(context.Canceled)
	assert.True(t, IsNetworkError(err))

	err = MapDBError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	assert.True(t, IsConflict(err))

	err = MapDBError(&pgconn.PgError{Code: pgerrcode.SerializationFailure})
	assert.Equal(t, ErrCodeInternal, GetCode(err))

	plain := errors.New("not a db error")
	assert.Equal(t, plain, MapDBError(plain))
}
