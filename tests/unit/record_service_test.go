package unit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"medcollab/internal/domain"
	"medcollab/internal/service/record"
	"medcollab/tests/mocks"
)

type recordFixture struct {
	fabric   *mocks.FabricClient
	userRepo *mocks.UserRepository
	notifSvc *mocks.NotificationService
	auditSvc *mocks.AuditService
	svc      record.Service
}

func newRecordFixture() *recordFixture {
	f := &recordFixture{
		fabric:   new(mocks.FabricClient),
		userRepo: new(mocks.UserRepository),
		notifSvc: new(mocks.NotificationService),
		auditSvc: new(mocks.AuditService),
	}
	f.svc = record.NewService(f.fabric, f.userRepo, f.auditSvc, testConfig())
	f.svc.SetNotificationService(f.notifSvc)
	return f
}

func TestRecordService_GetRecord(t *testing.T) {
	ctx := context.Background()
	patient := &domain.User{ID: uuid.New(), Role: string(domain.RolePatient)}
	doctor := &domain.User{ID: uuid.New(), Role: string(domain.RoleDoctor)}

	rec := &domain.Record{
		ID:         "REC-001",
		Owner:      patient.ID.String(),
		AccessList: []string{doctor.ID.String()},
	}

	t.Run("Owner Can Read", func(t *testing.T) {
		f := newRecordFixture()
		f.fabric.On("GetRecord", ctx, "REC-001").Return(rec, nil).Once()

		got, err := f.svc.GetRecord(ctx, patient, "REC-001")

		assert.NoError(t, err)
		assert.Equal(t, rec, got)
	})

	t.Run("Granted Doctor Can Read", func(t *testing.T) {
		f := newRecordFixture()
		f.fabric.On("GetRecord", ctx, "REC-001").Return(rec, nil).Once()

		got, err := f.svc.GetRecord(ctx, doctor, "REC-001")

		assert.NoError(t, err)
		assert.Equal(t, rec, got)
	})

	t.Run("Stranger Is Refused", func(t *testing.T) {
		f := newRecordFixture()
		f.fabric.On("GetRecord", ctx, "REC-001").Return(rec, nil).Once()

		stranger := &domain.User{ID: uuid.New(), Role: string(domain.RoleDoctor)}
		got, err := f.svc.GetRecord(ctx, stranger, "REC-001")

		assert.ErrorIs(t, err, record.ErrNoAccess)
		assert.Nil(t, got)
	})

	t.Run("Unknown Record", func(t *testing.T) {
		f := newRecordFixture()
		f.fabric.On("GetRecord", ctx, "ghost").Return(nil, nil).Once()

		got, err := f.svc.GetRecord(ctx, patient, "ghost")

		assert.ErrorIs(t, err, record.ErrRecordNotFound)
		assert.Nil(t, got)
	})
}

func TestRecordService_ListForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Doctors See Shared Records", func(t *testing.T) {
		f := newRecordFixture()
		doctor := &domain.User{ID: uuid.New(), Role: string(domain.RoleDoctor)}
		f.fabric.On("ListByDoctor", ctx, doctor.ID.String()).
			Return([]domain.Record{{ID: "REC-001"}}, nil).Once()

		records, err := f.svc.ListForUser(ctx, doctor)

		assert.NoError(t, err)
		assert.Len(t, records, 1)
		f.fabric.AssertNotCalled(t, "ListByPatient", ctx, doctor.ID.String())
	})

	t.Run("Patients See Their Own", func(t *testing.T) {
		f := newRecordFixture()
		patient := &domain.User{ID: uuid.New(), Role: string(domain.RolePatient)}
		f.fabric.On("ListByPatient", ctx, patient.ID.String()).
			Return([]domain.Record{{ID: "REC-002"}}, nil).Once()

		records, err := f.svc.ListForUser(ctx, patient)

		assert.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("Ledger Failure Degrades To Empty List", func(t *testing.T) {
		f := newRecordFixture()
		patient := &domain.User{ID: uuid.New(), Role: string(domain.RolePatient)}
		f.fabric.On("ListByPatient", ctx, patient.ID.String()).
			Return(nil, errors.New("proxy unreachable")).Once()

		records, err := f.svc.ListForUser(ctx, patient)

		assert.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})
}

func TestRecordService_RequestAccess(t *testing.T) {
	ctx := context.Background()
	doctor := &domain.User{ID: uuid.New(), FullName: "Gregory House", Role: string(domain.RoleDoctor)}
	patient := &domain.User{ID: uuid.New(), FullName: "Alice Martin", Role: string(domain.RolePatient)}
	input := domain.RequestAccessInput{RecordID: "REC-001", PatientID: patient.ID.String()}

	t.Run("Files A Request And Audits It", func(t *testing.T) {
		f := newRecordFixture()
		f.userRepo.On("GetByID", ctx, patient.ID).Return(patient, nil).Once()
		pending := &domain.Notification{ID: uuid.New(), Type: domain.NotifRequest, ActionRequired: true}
		f.notifSvc.On("NotifyAccessRequest", ctx, doctor, patient.ID, "REC-001").
			Return(pending, nil).Once()
		f.auditSvc.On("Log", ctx, mock.MatchedBy(func(in domain.CreateAuditLogInput) bool {
			return in.Action == domain.AuditAccessRequested && in.EntityID == "REC-001"
		})).Once()

		notif, err := f.svc.RequestAccess(ctx, doctor, input)

		assert.NoError(t, err)
		assert.Equal(t, pending, notif)
		// The ledger stays untouched until the patient decides.
		f.fabric.AssertNotCalled(t, "GrantAccess", ctx, "REC-001", doctor.ID.String())
		f.auditSvc.AssertExpectations(t)
	})

	t.Run("Unknown Patient", func(t *testing.T) {
		f := newRecordFixture()
		f.userRepo.On("GetByID", ctx, patient.ID).Return(nil, nil).Once()

		notif, err := f.svc.RequestAccess(ctx, doctor, input)

		assert.ErrorIs(t, err, record.ErrPatientUnknown)
		assert.Nil(t, notif)
	})
}

func TestRecordService_GrantAccess(t *testing.T) {
	ctx := context.Background()
	patient := &domain.User{ID: uuid.New(), FullName: "Alice Martin", Role: string(domain.RolePatient)}
	doctorID := uuid.New().String()
	input := domain.GrantAccessInput{RecordID: "REC-001", DoctorID: doctorID}
	rec := &domain.Record{ID: "REC-001", Owner: patient.ID.String()}

	t.Run("Owner Grants", func(t *testing.T) {
		f := newRecordFixture()
		f.fabric.On("GetRecord", ctx, "REC-001").Return(rec, nil).Once()
		f.fabric.On("GrantAccess", ctx, "REC-001", doctorID).Return(nil).Once()
		f.auditSvc.On("Log", ctx, mock.MatchedBy(func(in domain.CreateAuditLogInput) bool {
			return in.Action == domain.AuditAccessGranted
		})).Once()

		err := f.svc.GrantAccess(ctx, patient, input)

		assert.NoError(t, err)
		f.fabric.AssertExpectations(t)
	})

	t.Run("Non-Owner Is Refused", func(t *testing.T) {
		f := newRecordFixture()
		f.fabric.On("GetRecord", ctx, "REC-001").Return(rec, nil).Once()

		stranger := &domain.User{ID: uuid.New(), Role: string(domain.RolePatient)}
		err := f.svc.GrantAccess(ctx, stranger, input)

		assert.ErrorIs(t, err, record.ErrNotOwner)
		f.fabric.AssertNotCalled(t, "GrantAccess", ctx, "REC-001", doctorID)
	})
}

func TestRecordService_RevokeAccess(t *testing.T) {
	ctx := context.Background()
	patient := &domain.User{ID: uuid.New(), FullName: "Alice Martin", Role: string(domain.RolePatient)}
	doctorID := uuid.New()
	input := domain.GrantAccessInput{RecordID: "REC-001", DoctorID: doctorID.String()}
	rec := &domain.Record{ID: "REC-001", Owner: patient.ID.String(), AccessList: []string{doctorID.String()}}

	t.Run("Owner Revokes And The Doctor Is Warned", func(t *testing.T) {
		f := newRecordFixture()
		f.fabric.On("GetRecord", ctx, "REC-001").Return(rec, nil).Once()
		f.fabric.On("RevokeAccess", ctx, "REC-001", doctorID.String()).Return(nil).Once()
		f.auditSvc.On("Log", ctx, mock.MatchedBy(func(in domain.CreateAuditLogInput) bool {
			return in.Action == domain.AuditAccessRevoked
		})).Once()
		f.notifSvc.On("Push", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == doctorID && n.Type == domain.NotifWarning
		})).Return(nil).Once()

		err := f.svc.RevokeAccess(ctx, patient, input)

		assert.NoError(t, err)
		f.fabric.AssertExpectations(t)
		f.notifSvc.AssertExpectations(t)
	})

	t.Run("Ledger Failure Aborts Before Any Side Effect", func(t *testing.T) {
		f := newRecordFixture()
		f.fabric.On("GetRecord", ctx, "REC-001").Return(rec, nil).Once()
		f.fabric.On("RevokeAccess", ctx, "REC-001", doctorID.String()).
			Return(errors.New("ledger unavailable")).Once()

		err := f.svc.RevokeAccess(ctx, patient, input)

		assert.Error(t, err)
		f.notifSvc.AssertNotCalled(t, "Push", ctx, mock.Anything)
	})
}
