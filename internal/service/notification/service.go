package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"medcollab/internal/config"
	"medcollab/internal/domain"
	"medcollab/internal/fabric"
	"medcollab/internal/pkg/i18n"
	"medcollab/internal/realtime"
	"medcollab/internal/repository"
	"medcollab/internal/service/email"
)

var (
	ErrNotFound        = errors.New("notification not found")
	ErrNotRequest      = errors.New("notification is not an access request")
	ErrAlreadyResolved = errors.New("access request already resolved")
	ErrNotReceiver     = errors.New("notification belongs to another user")
	ErrMissingSender   = errors.New("access request has no sender")
	ErrMissingRecord   = errors.New("access request has no record id")
)

type Service interface {
	Push(ctx context.Context, notif *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)

	NotifyAccessRequest(ctx context.Context, doctor *domain.User, patientID uuid.UUID, recordID string) (*domain.Notification, error)
	ResolveAccessRequest(ctx context.Context, id uuid.UUID, patient *domain.User, decision domain.AccessDecision) (*domain.Notification, error)

	// BindRealtime routes the feed's inbound socket events so that multiple
	// sessions of the same user converge on read state.
	BindRealtime(hub *realtime.Hub) realtime.Disposer
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	fabric    fabric.Client
	emailSvc  email.Service
	hub       *realtime.Hub
	cfg       *config.Config
}

func NewService(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	fabricClient fabric.Client,
	emailSvc email.Service,
	hub *realtime.Hub,
	cfg *config.Config,
) Service {
	return &service{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		fabric:    fabricClient,
		emailSvc:  emailSvc,
		hub:       hub,
		cfg:       cfg,
	}
}

// Push persists the notification and forwards it to the receiver's live
// sessions. The push event depends on who receives it: doctors listen on
// notify-doctor, patients on notify-patient.
func (s *service) Push(ctx context.Context, notif *domain.Notification) error {
	if notif.ID == uuid.Nil {
		notif.ID = uuid.New()
	}
	if notif.Time == "" {
		notif.Time = "Just now"
	}

	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return err
	}

	s.emit(ctx, notif)
	return nil
}

func (s *service) emit(ctx context.Context, notif *domain.Notification) {
	if s.hub == nil {
		return
	}

	event := realtime.EventNotifyPatient
	receiver, err := s.userRepo.GetByID(ctx, notif.UserID)
	if err != nil {
		log.Printf("notification: failed to load receiver %s: %v", notif.UserID, err)
		return
	}
	if receiver != nil && receiver.Role == string(domain.RoleDoctor) {
		event = realtime.EventNotifyDoctor
	}

	s.hub.EmitToUser(notif.UserID.String(), event, notif)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return s.notifRepo.GetByID(ctx, id)
}

// List returns the feed most-recent-first. A storage failure degrades to an
// empty feed instead of an error so the client keeps rendering.
func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		log.Printf("notification: list failed for user %s, serving empty feed: %v", userID, err)
		return domain.NewPaginatedResponse([]domain.Notification{}, params.Page, params.PageSize, 0), nil
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.notifRepo.MarkAsRead(ctx, id)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

// NotifyAccessRequest files a pending request in the patient's feed and pushes
// it live. The patient also gets an email so consent does not hinge on an open
// browser tab.
func (s *service) NotifyAccessRequest(ctx context.Context, doctor *domain.User, patientID uuid.UUID, recordID string) (*domain.Notification, error) {
	senderID := doctor.ID.String()
	receiverID := patientID.String()

	notif := &domain.Notification{
		ID:     uuid.New(),
		UserID: patientID,
		Type:   domain.NotifRequest,
		Message: i18n.Translate(s.cfg.DefaultLocale, "ACCESS_REQUEST", map[string]string{
			"doctor": doctor.FullName,
		}),
		Time:           "Just now",
		SenderID:       &senderID,
		ReceiverID:     &receiverID,
		RecordID:       &recordID,
		ActionRequired: true,
	}

	if err := s.Push(ctx, notif); err != nil {
		return nil, err
	}

	if s.emailSvc != nil {
		if patient, err := s.userRepo.GetByID(ctx, patientID); err == nil && patient != nil {
			go func(toEmail, patientName, doctorName string) {
				if err := s.emailSvc.SendAccessRequestEmail(context.Background(), toEmail, patientName, doctorName, recordID); err != nil {
					log.Printf("notification: failed to send access request email: %v", err)
				}
			}(patient.Email, patient.FullName, doctor.FullName)
		}
	}

	return notif, nil
}

// ResolveAccessRequest settles a pending access request. Accepting grants
// access on the ledger first and only then flips the notification, so a
// failed grant leaves the request pending and retryable. Rejecting never
// leaves the feed: the ledger holds no state to undo for a request that was
// never granted.
func (s *service) ResolveAccessRequest(ctx context.Context, id uuid.UUID, patient *domain.User, decision domain.AccessDecision) (*domain.Notification, error) {
	notif, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notif == nil {
		return nil, ErrNotFound
	}
	if notif.UserID != patient.ID {
		return nil, ErrNotReceiver
	}
	if !notif.Pending() {
		// Resolving flips the type to success or error, so a settled request
		// no longer reads as a request. The sender and record ids survive the
		// flip and identify it.
		if notif.Type == domain.NotifRequest ||
			((notif.Type == domain.NotifSuccess || notif.Type == domain.NotifError) &&
				notif.SenderID != nil && notif.RecordID != nil) {
			return notif, ErrAlreadyResolved
		}
		return nil, ErrNotRequest
	}
	if notif.SenderID == nil {
		return nil, ErrMissingSender
	}

	doctorID := *notif.SenderID
	doctorName := doctorID
	var doctor *domain.User
	if parsed, err := uuid.Parse(doctorID); err == nil {
		if doctor, err = s.userRepo.GetByID(ctx, parsed); err == nil && doctor != nil {
			doctorName = doctor.FullName
		}
	}

	accepted := decision == domain.DecisionAccept

	var outcome domain.NotificationType
	var descKey string
	if accepted {
		if notif.RecordID == nil {
			return nil, ErrMissingRecord
		}
		if err := s.fabric.GrantAccess(ctx, *notif.RecordID, doctorID); err != nil {
			return nil, fmt.Errorf("failed to grant access on ledger: %w", err)
		}
		outcome = domain.NotifSuccess
		descKey = "RESOLVED_ACCEPTED"
	} else {
		outcome = domain.NotifError
		descKey = "RESOLVED_REJECTED"
	}

	description := i18n.Translate(s.cfg.DefaultLocale, descKey, map[string]string{
		"doctor": doctorName,
	})

	if err := s.notifRepo.Resolve(ctx, id, outcome, description); err != nil {
		return nil, err
	}

	notif.Type = outcome
	notif.Description = &description
	notif.ActionRequired = false
	notif.Read = true

	s.announceDecision(ctx, notif, patient, doctor, accepted)

	return notif, nil
}

func (s *service) announceDecision(ctx context.Context, notif *domain.Notification, patient, doctor *domain.User, accepted bool) {
	doctorID := *notif.SenderID

	if s.hub != nil {
		s.hub.EmitToUser(doctorID, realtime.EventPatientResponse, patientResponseEvent{
			PatientID: patient.ID.String(),
			DoctorID:  doctorID,
			Accepted:  accepted,
		})
	}

	key := "ACCESS_REJECTED"
	if accepted {
		key = "ACCESS_GRANTED"
	}
	outcome := domain.NotifError
	if accepted {
		outcome = domain.NotifSuccess
	}

	if parsed, err := uuid.Parse(doctorID); err == nil {
		feedback := &domain.Notification{
			ID:     uuid.New(),
			UserID: parsed,
			Type:   outcome,
			Message: i18n.Translate(s.cfg.DefaultLocale, key, map[string]string{
				"patient": patient.FullName,
			}),
			Time:     "Just now",
			RecordID: notif.RecordID,
		}
		if err := s.Push(ctx, feedback); err != nil {
			log.Printf("notification: failed to push decision to doctor %s: %v", doctorID, err)
		}
	}

	if s.emailSvc != nil && doctor != nil {
		recordID := ""
		if notif.RecordID != nil {
			recordID = *notif.RecordID
		}
		go func(toEmail, doctorName, patientName string) {
			if err := s.emailSvc.SendAccessDecisionEmail(context.Background(), toEmail, doctorName, patientName, recordID, accepted); err != nil {
				log.Printf("notification: failed to send decision email: %v", err)
			}
		}(doctor.Email, doctor.FullName, patient.FullName)
	}
}

// Wire payloads, field names shared with the browser clients.

type patientResponseEvent struct {
	PatientID string `json:"patientId"`
	DoctorID  string `json:"doctorId"`
	Accepted  bool   `json:"accepted"`
}

type markAsReadEvent struct {
	ID string `json:"id"`
}

func (s *service) BindRealtime(hub *realtime.Hub) realtime.Disposer {
	disposers := []realtime.Disposer{
		hub.Subscribe(realtime.EventMarkAsRead, s.onWireMarkAsRead),
		hub.Subscribe(realtime.EventMarkAllAsRead, s.onWireMarkAllAsRead),
		hub.Subscribe(realtime.EventPatientResponse, s.onWirePatientResponse),
	}
	return func() {
		for _, dispose := range disposers {
			dispose()
		}
	}
}

func (s *service) onWireMarkAsRead(c *realtime.Client, data json.RawMessage) {
	var ev markAsReadEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		log.Printf("notification: malformed markAsRead payload: %v", err)
		return
	}

	id, err := uuid.Parse(ev.ID)
	if err != nil {
		return
	}

	if err := s.notifRepo.MarkAsRead(context.Background(), id); err != nil {
		log.Printf("notification: markAsRead %s failed: %v", id, err)
	}
}

func (s *service) onWireMarkAllAsRead(c *realtime.Client, data json.RawMessage) {
	userID, err := uuid.Parse(c.UserID())
	if err != nil {
		return
	}

	if err := s.notifRepo.MarkAllAsRead(context.Background(), userID); err != nil {
		log.Printf("notification: markAllAsRead for %s failed: %v", userID, err)
	}
}

// onWirePatientResponse relays a decision typed on one of the patient's
// sessions to the requesting doctor. The authoritative resolution happens
// over REST; the socket path only keeps live sessions in sync.
func (s *service) onWirePatientResponse(c *realtime.Client, data json.RawMessage) {
	var ev patientResponseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		log.Printf("notification: malformed patient-response payload: %v", err)
		return
	}
	if ev.DoctorID == "" {
		return
	}

	s.hub.EmitToUser(ev.DoctorID, realtime.EventPatientResponse, ev)
}
