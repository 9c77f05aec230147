package record

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"medcollab/internal/config"
	"medcollab/internal/domain"
	"medcollab/internal/fabric"
	"medcollab/internal/pkg/i18n"
	"medcollab/internal/repository"
	"medcollab/internal/service/audit"
	"medcollab/internal/service/notification"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrNotOwner       = errors.New("record belongs to another patient")
	ErrNoAccess       = errors.New("no access to this record")
	ErrPatientUnknown = errors.New("patient not found")
)

type Service interface {
	GetRecord(ctx context.Context, viewer *domain.User, recordID string) (*domain.Record, error)
	ListForUser(ctx context.Context, viewer *domain.User) ([]domain.Record, error)
	RequestAccess(ctx context.Context, doctor *domain.User, input domain.RequestAccessInput) (*domain.Notification, error)
	GrantAccess(ctx context.Context, patient *domain.User, input domain.GrantAccessInput) error
	RevokeAccess(ctx context.Context, patient *domain.User, input domain.GrantAccessInput) error
	SetNotificationService(notifSvc notification.Service)
}

type service struct {
	fabric   fabric.Client
	userRepo repository.UserRepository
	notifSvc notification.Service
	auditSvc audit.Service
	cfg      *config.Config
}

func NewService(fabricClient fabric.Client, userRepo repository.UserRepository, auditSvc audit.Service, cfg *config.Config) Service {
	return &service{
		fabric:   fabricClient,
		userRepo: userRepo,
		auditSvc: auditSvc,
		cfg:      cfg,
	}
}

// SetNotificationService breaks the construction cycle between the record and
// notification services.
func (s *service) SetNotificationService(notifSvc notification.Service) {
	s.notifSvc = notifSvc
}

func (s *service) GetRecord(ctx context.Context, viewer *domain.User, recordID string) (*domain.Record, error) {
	record, err := s.fabric.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	viewerID := viewer.ID.String()
	if record.Owner != viewerID && !record.HasAccess(viewerID) {
		return nil, ErrNoAccess
	}
	return record, nil
}

// ListForUser returns the viewer's records: the ones they own for patients,
// the ones shared with them for doctors. Ledger failures degrade to an empty
// list so dashboards keep rendering.
func (s *service) ListForUser(ctx context.Context, viewer *domain.User) ([]domain.Record, error) {
	var (
		records []domain.Record
		err     error
	)

	if viewer.Role == string(domain.RoleDoctor) {
		records, err = s.fabric.ListByDoctor(ctx, viewer.ID.String())
	} else {
		records, err = s.fabric.ListByPatient(ctx, viewer.ID.String())
	}
	if err != nil {
		log.Printf("record: list failed for user %s, serving empty list: %v", viewer.ID, err)
		return []domain.Record{}, nil
	}
	if records == nil {
		records = []domain.Record{}
	}
	return records, nil
}

// RequestAccess files a pending access request with the record owner. Nothing
// touches the ledger until the patient accepts.
func (s *service) RequestAccess(ctx context.Context, doctor *domain.User, input domain.RequestAccessInput) (*domain.Notification, error) {
	patientID, err := uuid.Parse(input.PatientID)
	if err != nil {
		return nil, ErrPatientUnknown
	}

	patient, err := s.userRepo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientUnknown
	}

	notif, err := s.notifSvc.NotifyAccessRequest(ctx, doctor, patientID, input.RecordID)
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, domain.CreateAuditLogInput{
		UserID:     doctor.ID,
		Action:     domain.AuditAccessRequested,
		EntityType: "record",
		EntityID:   input.RecordID,
		Details:    map[string]string{"patient_id": input.PatientID},
	})

	return notif, nil
}

func (s *service) GrantAccess(ctx context.Context, patient *domain.User, input domain.GrantAccessInput) error {
	if err := s.assertOwner(ctx, patient, input.RecordID); err != nil {
		return err
	}

	if err := s.fabric.GrantAccess(ctx, input.RecordID, input.DoctorID); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, domain.CreateAuditLogInput{
		UserID:     patient.ID,
		Action:     domain.AuditAccessGranted,
		EntityType: "record",
		EntityID:   input.RecordID,
		Details:    map[string]string{"doctor_id": input.DoctorID},
	})

	return nil
}

func (s *service) RevokeAccess(ctx context.Context, patient *domain.User, input domain.GrantAccessInput) error {
	if err := s.assertOwner(ctx, patient, input.RecordID); err != nil {
		return err
	}

	if err := s.fabric.RevokeAccess(ctx, input.RecordID, input.DoctorID); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, domain.CreateAuditLogInput{
		UserID:     patient.ID,
		Action:     domain.AuditAccessRevoked,
		EntityType: "record",
		EntityID:   input.RecordID,
		Details:    map[string]string{"doctor_id": input.DoctorID},
	})

	if s.notifSvc != nil {
		if doctorID, err := uuid.Parse(input.DoctorID); err == nil {
			recordID := input.RecordID
			notif := &domain.Notification{
				UserID: doctorID,
				Type:   domain.NotifWarning,
				Message: i18n.Translate(s.cfg.DefaultLocale, "ACCESS_REVOKED", map[string]string{
					"patient": patient.FullName,
				}),
				RecordID: &recordID,
			}
			if err := s.notifSvc.Push(ctx, notif); err != nil {
				log.Printf("record: failed to notify doctor %s of revocation: %v", input.DoctorID, err)
			}
		}
	}

	return nil
}

func (s *service) assertOwner(ctx context.Context, patient *domain.User, recordID string) error {
	record, err := s.fabric.GetRecord(ctx, recordID)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrRecordNotFound
	}
	if record.Owner != patient.ID.String() {
		return ErrNotOwner
	}
	return nil
}
