package collab

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"medcollab/internal/config"
	"medcollab/internal/domain"
	"medcollab/internal/pkg/i18n"
	"medcollab/internal/repository"
	"medcollab/internal/service/audit"
	"medcollab/internal/service/email"
	"medcollab/internal/service/notification"
)

var (
	ErrCaseNotFound    = errors.New("case not found")
	ErrCaseClosed      = errors.New("case is already closed")
	ErrNotParticipant  = errors.New("doctor is not part of this case")
	ErrUnknownDoctor   = errors.New("collaborator is not a registered doctor")
	ErrPatientRequired = errors.New("case needs a patient")
)

type Service interface {
	Create(ctx context.Context, creator *domain.User, input domain.CreateCaseInput) (*domain.CollaborationCase, error)
	GetByID(ctx context.Context, viewer *domain.User, id uuid.UUID) (*domain.CollaborationCase, error)
	ListForUser(ctx context.Context, viewer *domain.User, params domain.PaginationParams) (domain.PaginatedResponse[domain.CollaborationCase], error)
	AddCollaborator(ctx context.Context, inviter *domain.User, id uuid.UUID, doctorID string) error
	Close(ctx context.Context, doctor *domain.User, id uuid.UUID, input domain.CloseCaseInput) (*domain.CollaborationCase, error)
}

type service struct {
	caseRepo repository.CaseRepository
	userRepo repository.UserRepository
	notifSvc notification.Service
	emailSvc email.Service
	auditSvc audit.Service
	cfg      *config.Config
}

func NewService(
	caseRepo repository.CaseRepository,
	userRepo repository.UserRepository,
	notifSvc notification.Service,
	emailSvc email.Service,
	auditSvc audit.Service,
	cfg *config.Config,
) Service {
	return &service{
		caseRepo: caseRepo,
		userRepo: userRepo,
		notifSvc: notifSvc,
		emailSvc: emailSvc,
		auditSvc: auditSvc,
		cfg:      cfg,
	}
}

func (s *service) Create(ctx context.Context, creator *domain.User, input domain.CreateCaseInput) (*domain.CollaborationCase, error) {
	if input.PatientID == "" {
		return nil, ErrPatientRequired
	}

	status := domain.CaseOpen
	if input.Urgent {
		status = domain.CaseUrgent
	}

	c := &domain.CollaborationCase{
		ID:            uuid.New(),
		Title:         input.Title,
		PatientID:     input.PatientID,
		RecordID:      input.RecordID,
		Description:   input.Description,
		Status:        status,
		CreatedBy:     creator.ID,
		Collaborators: input.Collaborators,
	}

	if err := s.caseRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, domain.CreateAuditLogInput{
		UserID:     creator.ID,
		Action:     domain.AuditCaseOpened,
		EntityType: "case",
		EntityID:   c.ID.String(),
		Details:    map[string]string{"patient_id": input.PatientID},
	})

	for _, collaborator := range input.Collaborators {
		s.inviteCollaborator(ctx, creator, c, collaborator)
	}

	return c, nil
}

func (s *service) GetByID(ctx context.Context, viewer *domain.User, id uuid.UUID) (*domain.CollaborationCase, error) {
	c, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}
	if !s.participates(viewer, c) {
		return nil, ErrNotParticipant
	}
	return c, nil
}

func (s *service) ListForUser(ctx context.Context, viewer *domain.User, params domain.PaginationParams) (domain.PaginatedResponse[domain.CollaborationCase], error) {
	var (
		cases []domain.CollaborationCase
		total int64
		err   error
	)

	if viewer.Role == string(domain.RoleDoctor) {
		cases, total, err = s.caseRepo.ListByDoctor(ctx, viewer.ID, params)
	} else {
		cases, total, err = s.caseRepo.ListByPatient(ctx, viewer.ID.String(), params)
	}
	if err != nil {
		return domain.PaginatedResponse[domain.CollaborationCase]{}, err
	}

	return domain.NewPaginatedResponse(cases, params.Page, params.PageSize, total), nil
}

func (s *service) AddCollaborator(ctx context.Context, inviter *domain.User, id uuid.UUID, doctorID string) error {
	c, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrCaseNotFound
	}
	if c.Status == domain.CaseClosed {
		return ErrCaseClosed
	}
	if !s.participates(inviter, c) {
		return ErrNotParticipant
	}

	parsed, err := uuid.Parse(doctorID)
	if err != nil {
		return ErrUnknownDoctor
	}
	doctor, err := s.userRepo.GetByID(ctx, parsed)
	if err != nil {
		return err
	}
	if doctor == nil || doctor.Role != string(domain.RoleDoctor) {
		return ErrUnknownDoctor
	}

	if err := s.caseRepo.AddCollaborator(ctx, id, doctorID); err != nil {
		return err
	}

	s.inviteCollaborator(ctx, inviter, c, doctorID)
	return nil
}

func (s *service) Close(ctx context.Context, doctor *domain.User, id uuid.UUID, input domain.CloseCaseInput) (*domain.CollaborationCase, error) {
	c, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}
	if c.Status == domain.CaseClosed {
		return nil, ErrCaseClosed
	}
	if !s.participates(doctor, c) {
		return nil, ErrNotParticipant
	}

	decision := domain.FinalDecision{
		DoctorID: doctor.ID.String(),
		Content:  input.Decision,
	}

	if err := s.caseRepo.Close(ctx, id, decision); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, domain.CreateAuditLogInput{
		UserID:     doctor.ID,
		Action:     domain.AuditCaseClosed,
		EntityType: "case",
		EntityID:   id.String(),
	})

	if patientID, err := uuid.Parse(c.PatientID); err == nil {
		notif := &domain.Notification{
			UserID: patientID,
			Type:   domain.NotifInfo,
			Message: i18n.Translate(s.cfg.DefaultLocale, "CASE_CLOSED", map[string]string{
				"case": c.Title,
			}),
			RecordID: c.RecordID,
		}
		if err := s.notifSvc.Push(ctx, notif); err != nil {
			log.Printf("collab: failed to notify patient %s of closed case: %v", c.PatientID, err)
		}
	}

	return s.caseRepo.GetByID(ctx, id)
}

func (s *service) participates(viewer *domain.User, c *domain.CollaborationCase) bool {
	id := viewer.ID.String()
	if c.CreatedBy == viewer.ID || c.PatientID == id {
		return true
	}
	for _, collaborator := range c.Collaborators {
		if collaborator == id {
			return true
		}
	}
	return false
}

func (s *service) inviteCollaborator(ctx context.Context, inviter *domain.User, c *domain.CollaborationCase, doctorID string) {
	parsed, err := uuid.Parse(doctorID)
	if err != nil {
		log.Printf("collab: skipping invite for malformed doctor id %q", doctorID)
		return
	}

	notif := &domain.Notification{
		UserID: parsed,
		Type:   domain.NotifInfo,
		Message: i18n.Translate(s.cfg.DefaultLocale, "CASE_INVITE", map[string]string{
			"doctor": inviter.FullName,
			"case":   c.Title,
		}),
	}
	if err := s.notifSvc.Push(ctx, notif); err != nil {
		log.Printf("collab: failed to notify collaborator %s: %v", doctorID, err)
	}

	if s.emailSvc != nil {
		if doctor, err := s.userRepo.GetByID(ctx, parsed); err == nil && doctor != nil {
			go func(toEmail, doctorName, inviterName, caseTitle string) {
				if err := s.emailSvc.SendCaseInviteEmail(context.Background(), toEmail, doctorName, inviterName, caseTitle); err != nil {
					log.Printf("collab: failed to send invite email: %v", err)
				}
			}(doctor.Email, doctor.FullName, inviter.FullName, c.Title)
		}
	}
}
