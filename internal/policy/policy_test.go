package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
)

// stubDirectory is a canned ownership directory for policy tests.
type stubDirectory struct {
	patientID    string
	doctorID     string
	participants []string
	err          error
}

func (d *stubDirectory) PatientRecordOwner(context.Context, string) (string, string, error) {
	return d.patientID, d.doctorID, d.err
}

func (d *stubDirectory) ConversationParticipants(context.Context, string) ([]string, error) {
	return d.participants, d.err
}

func TestEngine_Check_Unauthenticated(t *testing.T) {
	engine := NewEngine(&stubDirectory{})

	decision := engine.Check(context.Background(), Request{
		Principal: Principal{Role: domainauth.RoleAdmin},
		Action:    ActionViewAdminPanel,
	})

	assert.False(t, decision.Allowed)
	assert.Equal(t, "unauthenticated", decision.Reason)
}

func TestEngine_Check_UnknownActionDenied(t *testing.T) {
	engine := NewEngine(&stubDirectory{})

	decision := engine.Check(context.Background(), Request{
		Principal: Principal{SubjectID: "sub-1", Role: domainauth.RoleAdmin},
		Action:    Action("billing:void"),
	})

	assert.False(t, decision.Allowed)
}

func TestEngine_Check_PanelRules(t *testing.T) {
	engine := NewEngine(&stubDirectory{})
	ctx := context.Background()

	admin := Principal{SubjectID: "adm", Role: domainauth.RoleAdmin}
	doctor := Principal{SubjectID: "doc", Role: domainauth.RoleDoctor}
	patient := Principal{SubjectID: "pat", Role: domainauth.RolePatient}

	assert.True(t, engine.Check(ctx, Request{Principal: admin, Action: ActionViewAdminPanel}).Allowed)
	assert.False(t, engine.Check(ctx, Request{Principal: doctor, Action: ActionViewAdminPanel}).Allowed)
	assert.False(t, engine.Check(ctx, Request{Principal: patient, Action: ActionViewAdminPanel}).Allowed)

	assert.True(t, engine.Check(ctx, Request{Principal: doctor, Action: ActionViewDoctorPanel}).Allowed)
	// Admin and doctor are flat peers; neither subsumes the other.
	assert.False(t, engine.Check(ctx, Request{Principal: admin, Action: ActionViewDoctorPanel}).Allowed)

	assert.True(t, engine.Check(ctx, Request{Principal: admin, Action: ActionManageStaff}).Allowed)
	assert.False(t, engine.Check(ctx, Request{Principal: doctor, Action: ActionManageStaff}).Allowed)
}

func TestEngine_Check_PatientRecordRead(t *testing.T) {
	dir := &stubDirectory{patientID: "pat-1", doctorID: "doc-1"}
	engine := NewEngine(dir)
	ctx := context.Background()

	req := func(p Principal) Request {
		return Request{Principal: p, Action: ActionReadPatientRecord, ResourceID: "rec-1"}
	}

	assert.True(t, engine.Check(ctx, req(Principal{SubjectID: "adm", Role: domainauth.RoleAdmin})).Allowed)
	assert.True(t, engine.Check(ctx, req(Principal{SubjectID: "doc-1", Role: domainauth.RoleDoctor})).Allowed)
	assert.False(t, engine.Check(ctx, req(Principal{SubjectID: "doc-2", Role: domainauth.RoleDoctor})).Allowed)
	assert.True(t, engine.Check(ctx, req(Principal{SubjectID: "pat-1", Role: domainauth.RolePatient})).Allowed)
	assert.False(t, engine.Check(ctx, req(Principal{SubjectID: "pat-2", Role: domainauth.RolePatient})).Allowed)
}

func TestEngine_Check_PatientRecordWrite(t *testing.T) {
	dir := &stubDirectory{patientID: "pat-1", doctorID: "doc-1"}
	engine := NewEngine(dir)
	ctx := context.Background()

	req := func(p Principal) Request {
		return Request{Principal: p, Action: ActionWritePatientRecord, ResourceID: "rec-1"}
	}

	assert.True(t, engine.Check(ctx, req(Principal{SubjectID: "adm", Role: domainauth.RoleAdmin})).Allowed)
	assert.True(t, engine.Check(ctx, req(Principal{SubjectID: "doc-1", Role: domainauth.RoleDoctor})).Allowed)
	// The record owner may read but never write their own record.
	assert.False(t, engine.Check(ctx, req(Principal{SubjectID: "pat-1", Role: domainauth.RolePatient})).Allowed)
}

func TestEngine_Check_ConversationRead(t *testing.T) {
	dir := &stubDirectory{participants: []string{"pat-1", "doc-1"}}
	engine := NewEngine(dir)
	ctx := context.Background()

	req := func(p Principal) Request {
		return Request{Principal: p, Action: ActionReadConversation, ResourceID: "conv-1"}
	}

	assert.True(t, engine.Check(ctx, req(Principal{SubjectID: "pat-1", Role: domainauth.RolePatient})).Allowed)
	assert.True(t, engine.Check(ctx, req(Principal{SubjectID: "doc-1", Role: domainauth.RoleDoctor})).Allowed)
	assert.False(t, engine.Check(ctx, req(Principal{SubjectID: "doc-2", Role: domainauth.RoleDoctor})).Allowed)
	// Admins oversee all conversations.
	assert.True(t, engine.Check(ctx, req(Principal{SubjectID: "adm", Role: domainauth.RoleAdmin})).Allowed)
}

func TestEngine_Check_LookupErrorDenies(t *testing.T) {
	dir := &stubDirectory{err: errors.New("db down")}
	engine := NewEngine(dir)
	ctx := context.Background()

	decision := engine.Check(ctx, Request{
		Principal:  Principal{SubjectID: "doc-1", Role: domainauth.RoleDoctor},
		Action:     ActionReadPatientRecord,
		ResourceID: "rec-1",
	})
	assert.False(t, decision.Allowed)

	decision = engine.Check(ctx, Request{
		Principal:  Principal{SubjectID: "pat-1", Role: domainauth.RolePatient},
		Action:     ActionReadConversation,
		ResourceID: "conv-1",
	})
	assert.False(t, decision.Allowed)
}
