// Package policy is the server-side access policy for clinical resources.
// Decisions are made from authenticated session facts plus ownership lookups;
// the policy denies by default and denies on any lookup failure.
package policy

import (
	"context"
	"fmt"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
)

// Action names an operation on a protected resource.
type Action string

const (
	ActionReadPatientRecord  Action = "patient_record:read"
	ActionWritePatientRecord Action = "patient_record:write"
	ActionReadConversation   Action = "conversation:read"
	ActionManageStaff        Action = "staff:manage"
	ActionViewDoctorPanel    Action = "doctor_panel:view"
	ActionViewAdminPanel     Action = "admin_panel:view"
)

// Principal is the authenticated subject a decision is made for.
type Principal struct {
	SubjectID string
	Role      domainauth.Role
}

// Request is a single access question: may this principal perform this action
// on this resource?
type Request struct {
	Principal  Principal
	Action     Action
	ResourceID string
}

// Decision is the outcome of an access check. Reason is a short operator-facing
// explanation, never shown to end users.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

// Directory answers the ownership and participation questions rules need.
// Implemented by data.OwnershipRepo.
type Directory interface {
	PatientRecordOwner(ctx context.Context, recordID string) (patientSubjectID, doctorSubjectID string, err error)
	ConversationParticipants(ctx context.Context, conversationID string) ([]string, error)
}

// Rule evaluates one action. A rule either decides or returns an error; an
// error is treated as a denial by the engine.
type Rule struct {
	Action   Action
	Evaluate func(ctx context.Context, dir Directory, req Request) (Decision, error)
}

// Engine evaluates access requests against a fixed rule set.
type Engine struct {
	dir   Directory
	rules map[Action]Rule
}

// NewEngine builds the engine with the standard clinic rule set.
func NewEngine(dir Directory) *Engine {
	e := &Engine{dir: dir, rules: make(map[Action]Rule)}
	for _, r := range defaultRules() {
		e.rules[r.Action] = r
	}
	return e
}

// Check evaluates a request. Unknown actions and rule errors both deny.
func (e *Engine) Check(ctx context.Context, req Request) Decision {
	if req.Principal.SubjectID == "" {
		return deny("unauthenticated")
	}
	rule, ok := e.rules[req.Action]
	if !ok {
		return deny(fmt.Sprintf("no rule for action %q", req.Action))
	}
	decision, err := rule.Evaluate(ctx, e.dir, req)
	if err != nil {
		return deny(fmt.Sprintf("lookup failed: %v", err))
	}
	return decision
}

func defaultRules() []Rule {
	return []Rule{
		{
			Action: ActionViewAdminPanel,
			Evaluate: func(_ context.Context, _ Directory, req Request) (Decision, error) {
				return requireRole(req.Principal, domainauth.RoleAdmin), nil
			},
		},
		{
			Action: ActionManageStaff,
			Evaluate: func(_ context.Context, _ Directory, req Request) (Decision, error) {
				return requireRole(req.Principal, domainauth.RoleAdmin), nil
			},
		},
		{
			Action: ActionViewDoctorPanel,
			Evaluate: func(_ context.Context, _ Directory, req Request) (Decision, error) {
				return requireRole(req.Principal, domainauth.RoleDoctor), nil
			},
		},
		{
			// A record is readable by its patient, the treating doctor, and
			// any admin.
			Action:   ActionReadPatientRecord,
			Evaluate: evaluatePatientRecord(true),
		},
		{
			// Writes exclude the patient; records are authored by staff.
			Action:   ActionWritePatientRecord,
			Evaluate: evaluatePatientRecord(false),
		},
		{
			Action: ActionReadConversation,
			Evaluate: func(ctx context.Context, dir Directory, req Request) (Decision, error) {
				if req.Principal.Role == domainauth.RoleAdmin {
					return allow("admin"), nil
				}
				participants, err := dir.ConversationParticipants(ctx, req.ResourceID)
				if err != nil {
					return Decision{}, err
				}
				for _, p := range participants {
					if p == req.Principal.SubjectID {
						return allow("participant"), nil
					}
				}
				return deny("not a participant"), nil
			},
		},
	}
}

func evaluatePatientRecord(patientMayAccess bool) func(ctx context.Context, dir Directory, req Request) (Decision, error) {
	return func(ctx context.Context, dir Directory, req Request) (Decision, error) {
		if req.Principal.Role == domainauth.RoleAdmin {
			return allow("admin"), nil
		}
		patientID, doctorID, err := dir.PatientRecordOwner(ctx, req.ResourceID)
		if err != nil {
			return Decision{}, err
		}
		switch req.Principal.Role {
		case domainauth.RoleDoctor:
			if req.Principal.SubjectID == doctorID {
				return allow("treating doctor"), nil
			}
			return deny("not the treating doctor"), nil
		case domainauth.RolePatient:
			if patientMayAccess && req.Principal.SubjectID == patientID {
				return allow("record owner"), nil
			}
			return deny("not permitted"), nil
		default:
			return deny("unknown role"), nil
		}
	}
}

func requireRole(p Principal, want domainauth.Role) Decision {
	if p.Role == want {
		return allow(string(want))
	}
	return deny(fmt.Sprintf("requires role %s", want))
}
