package unit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"medcollab/internal/domain"
	"medcollab/internal/service/collab"
	"medcollab/tests/mocks"
)

type collabFixture struct {
	caseRepo *mocks.CaseRepository
	userRepo *mocks.UserRepository
	notifSvc *mocks.NotificationService
	auditSvc *mocks.AuditService
	svc      collab.Service
}

func newCollabFixture() *collabFixture {
	f := &collabFixture{
		caseRepo: new(mocks.CaseRepository),
		userRepo: new(mocks.UserRepository),
		notifSvc: new(mocks.NotificationService),
		auditSvc: new(mocks.AuditService),
	}
	f.svc = collab.NewService(f.caseRepo, f.userRepo, f.notifSvc, nil, f.auditSvc, testConfig())
	return f
}

func TestCollabService_Create(t *testing.T) {
	ctx := context.Background()
	creator := &domain.User{ID: uuid.New(), FullName: "Gregory House", Role: string(domain.RoleDoctor)}
	patientID := uuid.New().String()

	t.Run("Success With Collaborators", func(t *testing.T) {
		f := newCollabFixture()
		collaborator := uuid.New()

		f.caseRepo.On("Create", ctx, mock.MatchedBy(func(c *domain.CollaborationCase) bool {
			return c.Title == "Unusual presentation" &&
				c.PatientID == patientID &&
				c.Status == domain.CaseOpen &&
				c.CreatedBy == creator.ID
		})).Return(nil).Once()
		f.auditSvc.On("Log", ctx, mock.MatchedBy(func(in domain.CreateAuditLogInput) bool {
			return in.Action == domain.AuditCaseOpened
		})).Once()
		f.notifSvc.On("Push", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == collaborator && n.Type == domain.NotifInfo
		})).Return(nil).Once()

		c, err := f.svc.Create(ctx, creator, domain.CreateCaseInput{
			Title:         "Unusual presentation",
			PatientID:     patientID,
			Collaborators: []string{collaborator.String()},
		})

		assert.NoError(t, err)
		assert.NotNil(t, c)
		f.caseRepo.AssertExpectations(t)
		f.notifSvc.AssertExpectations(t)
	})

	t.Run("Urgent Flag Sets The Status", func(t *testing.T) {
		f := newCollabFixture()
		f.caseRepo.On("Create", ctx, mock.MatchedBy(func(c *domain.CollaborationCase) bool {
			return c.Status == domain.CaseUrgent
		})).Return(nil).Once()
		f.auditSvc.On("Log", ctx, mock.Anything).Once()

		c, err := f.svc.Create(ctx, creator, domain.CreateCaseInput{
			Title:     "Crashing patient",
			PatientID: patientID,
			Urgent:    true,
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.CaseUrgent, c.Status)
	})

	t.Run("Patient Is Required", func(t *testing.T) {
		f := newCollabFixture()

		c, err := f.svc.Create(ctx, creator, domain.CreateCaseInput{Title: "No patient"})

		assert.ErrorIs(t, err, collab.ErrPatientRequired)
		assert.Nil(t, c)
	})
}

func TestCollabService_GetByID(t *testing.T) {
	ctx := context.Background()
	creator := &domain.User{ID: uuid.New(), Role: string(domain.RoleDoctor)}
	collaborator := &domain.User{ID: uuid.New(), Role: string(domain.RoleDoctor)}
	patient := &domain.User{ID: uuid.New(), Role: string(domain.RolePatient)}

	c := &domain.CollaborationCase{
		ID:            uuid.New(),
		Title:         "Unusual presentation",
		PatientID:     patient.ID.String(),
		Status:        domain.CaseOpen,
		CreatedBy:     creator.ID,
		Collaborators: []string{collaborator.ID.String()},
	}

	t.Run("Participants Can Read", func(t *testing.T) {
		f := newCollabFixture()
		f.caseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Times(3)

		for _, viewer := range []*domain.User{creator, collaborator, patient} {
			got, err := f.svc.GetByID(ctx, viewer, c.ID)
			assert.NoError(t, err)
			assert.Equal(t, c, got)
		}
	})

	t.Run("Outsider Is Refused", func(t *testing.T) {
		f := newCollabFixture()
		f.caseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Once()

		outsider := &domain.User{ID: uuid.New(), Role: string(domain.RoleDoctor)}
		got, err := f.svc.GetByID(ctx, outsider, c.ID)

		assert.ErrorIs(t, err, collab.ErrNotParticipant)
		assert.Nil(t, got)
	})

	t.Run("Unknown Case", func(t *testing.T) {
		f := newCollabFixture()
		id := uuid.New()
		f.caseRepo.On("GetByID", ctx, id).Return(nil, nil).Once()

		got, err := f.svc.GetByID(ctx, creator, id)

		assert.ErrorIs(t, err, collab.ErrCaseNotFound)
		assert.Nil(t, got)
	})
}

func TestCollabService_AddCollaborator(t *testing.T) {
	ctx := context.Background()
	creator := &domain.User{ID: uuid.New(), FullName: "Gregory House", Role: string(domain.RoleDoctor)}
	invitee := &domain.User{ID: uuid.New(), FullName: "James Wilson", Role: string(domain.RoleDoctor)}

	openCase := func() *domain.CollaborationCase {
		return &domain.CollaborationCase{
			ID:        uuid.New(),
			Title:     "Unusual presentation",
			PatientID: uuid.New().String(),
			Status:    domain.CaseOpen,
			CreatedBy: creator.ID,
		}
	}

	t.Run("Success", func(t *testing.T) {
		f := newCollabFixture()
		c := openCase()
		f.caseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		f.userRepo.On("GetByID", ctx, invitee.ID).Return(invitee, nil)
		f.caseRepo.On("AddCollaborator", ctx, c.ID, invitee.ID.String()).Return(nil).Once()
		f.notifSvc.On("Push", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == invitee.ID
		})).Return(nil).Once()

		err := f.svc.AddCollaborator(ctx, creator, c.ID, invitee.ID.String())

		assert.NoError(t, err)
		f.caseRepo.AssertExpectations(t)
	})

	t.Run("Closed Case Refuses New Collaborators", func(t *testing.T) {
		f := newCollabFixture()
		c := openCase()
		c.Status = domain.CaseClosed
		f.caseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Once()

		err := f.svc.AddCollaborator(ctx, creator, c.ID, invitee.ID.String())

		assert.ErrorIs(t, err, collab.ErrCaseClosed)
	})

	t.Run("Only Participants Can Invite", func(t *testing.T) {
		f := newCollabFixture()
		c := openCase()
		f.caseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Once()

		outsider := &domain.User{ID: uuid.New(), Role: string(domain.RoleDoctor)}
		err := f.svc.AddCollaborator(ctx, outsider, c.ID, invitee.ID.String())

		assert.ErrorIs(t, err, collab.ErrNotParticipant)
	})

	t.Run("Invitee Must Be A Doctor", func(t *testing.T) {
		f := newCollabFixture()
		c := openCase()
		somePatient := &domain.User{ID: uuid.New(), Role: string(domain.RolePatient)}
		f.caseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		f.userRepo.On("GetByID", ctx, somePatient.ID).Return(somePatient, nil).Once()

		err := f.svc.AddCollaborator(ctx, creator, c.ID, somePatient.ID.String())

		assert.ErrorIs(t, err, collab.ErrUnknownDoctor)
		f.caseRepo.AssertNotCalled(t, "AddCollaborator", ctx, c.ID, somePatient.ID.String())
	})
}

func TestCollabService_Close(t *testing.T) {
	ctx := context.Background()
	creator := &domain.User{ID: uuid.New(), FullName: "Gregory House", Role: string(domain.RoleDoctor)}
	patientID := uuid.New()

	openCase := func() *domain.CollaborationCase {
		return &domain.CollaborationCase{
			ID:        uuid.New(),
			Title:     "Unusual presentation",
			PatientID: patientID.String(),
			Status:    domain.CaseOpen,
			CreatedBy: creator.ID,
		}
	}

	t.Run("Success Notifies The Patient", func(t *testing.T) {
		f := newCollabFixture()
		c := openCase()
		closed := *c
		closed.Status = domain.CaseClosed

		f.caseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		f.caseRepo.On("Close", ctx, c.ID, mock.MatchedBy(func(d domain.FinalDecision) bool {
			return d.DoctorID == creator.ID.String() && d.Content == "Benign, discharge"
		})).Return(nil).Once()
		f.auditSvc.On("Log", ctx, mock.MatchedBy(func(in domain.CreateAuditLogInput) bool {
			return in.Action == domain.AuditCaseClosed
		})).Once()
		f.notifSvc.On("Push", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == patientID && n.Type == domain.NotifInfo
		})).Return(nil).Once()
		f.caseRepo.On("GetByID", ctx, c.ID).Return(&closed, nil).Once()

		got, err := f.svc.Close(ctx, creator, c.ID, domain.CloseCaseInput{Decision: "Benign, discharge"})

		assert.NoError(t, err)
		assert.Equal(t, domain.CaseClosed, got.Status)
		f.caseRepo.AssertExpectations(t)
		f.notifSvc.AssertExpectations(t)
	})

	t.Run("Closing Twice Fails", func(t *testing.T) {
		f := newCollabFixture()
		c := openCase()
		c.Status = domain.CaseClosed
		f.caseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Once()

		got, err := f.svc.Close(ctx, creator, c.ID, domain.CloseCaseInput{Decision: "again"})

		assert.ErrorIs(t, err, collab.ErrCaseClosed)
		assert.Nil(t, got)
	})

	t.Run("Only Participants Can Close", func(t *testing.T) {
		f := newCollabFixture()
		c := openCase()
		f.caseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Once()

		outsider := &domain.User{ID: uuid.New(), Role: string(domain.RoleDoctor)}
		got, err := f.svc.Close(ctx, outsider, c.ID, domain.CloseCaseInput{Decision: "x"})

		assert.ErrorIs(t, err, collab.ErrNotParticipant)
		assert.Nil(t, got)
	})
}
