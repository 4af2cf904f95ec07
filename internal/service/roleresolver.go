package service

import (
	"context"
	"fmt"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
	apperrors "github.com/clinicore/clinic-access/internal/errors"
	"github.com/clinicore/clinic-access/internal/ports"
)

// RoleResolver finds the authoritative role record for a subject, probing the
// directory's historical schemas as an ordered list of lookup strategies and
// stopping at the first hit:
//
//  1. point read by subject id (canonical scheme)
//  2. query by exact email field
//  3. query by legacy emailLower field
//  4. point read by normalized email as the record key (oldest scheme)
//
// Absence is a result, not an error; only infrastructure failures return an
// error, and callers map those into the taxonomy. Resolution has no side
// effects.
type RoleResolver struct {
	dir ports.RoleDirectory
}

// NewRoleResolver constructs a RoleResolver over the given directory.
func NewRoleResolver(dir ports.RoleDirectory) *RoleResolver {
	return &RoleResolver{dir: dir}
}

// ResolveResult reports whether a role record exists and, if so, which one.
type ResolveResult struct {
	Exists bool
	Record *domainauth.RoleRecord
}

// lookupStrategy is one probe in the ordered fallback chain. A strategy
// returns (nil, nil) when it lacks the input it needs and must be skipped.
type lookupStrategy struct {
	name string
	fn   func(ctx context.Context, subjectID, email string) (*domainauth.RoleRecord, error)
}

func (r *RoleResolver) strategies() []lookupStrategy {
	return []lookupStrategy{
		{name: "subject-id-key", fn: func(ctx context.Context, subjectID, _ string) (*domainauth.RoleRecord, error) {
			if subjectID == "" {
				return nil, nil
			}
			return r.dir.GetByKey(ctx, subjectID)
		}},
		{name: "email-field", fn: func(ctx context.Context, _, email string) (*domainauth.RoleRecord, error) {
			if email == "" {
				return nil, nil
			}
			return r.dir.FindByEmail(ctx, email)
		}},
		{name: "email-lower-field", fn: func(ctx context.Context, _, email string) (*domainauth.RoleRecord, error) {
			if email == "" {
				return nil, nil
			}
			return r.dir.FindByEmailLower(ctx, email)
		}},
		{name: "email-key", fn: func(ctx context.Context, _, email string) (*domainauth.RoleRecord, error) {
			if email == "" {
				return nil, nil
			}
			return r.dir.GetByKey(ctx, email)
		}},
	}
}

// Resolve runs the full strategy chain. Either input may be empty; strategies
// that lack their input are skipped. Email comparison is always normalized so
// case or whitespace differences never cause a false negative.
func (r *RoleResolver) Resolve(ctx context.Context, subjectID, email string) (ResolveResult, error) {
	email = domainauth.NormalizeEmail(email)

	for _, strat := range r.strategies() {
		rec, err := strat.fn(ctx, subjectID, email)
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return ResolveResult{}, fmt.Errorf("role lookup %s: %w", strat.name, err)
		}
		if rec != nil {
			return ResolveResult{Exists: true, Record: rec}, nil
		}
	}
	return ResolveResult{}, nil
}

// ResolveByEmail runs only the email-based strategies. Used for the pre-auth
// check, where no subject id exists yet.
func (r *RoleResolver) ResolveByEmail(ctx context.Context, email string) (ResolveResult, error) {
	return r.Resolve(ctx, "", email)
}
