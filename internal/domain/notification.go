package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifError       NotificationType = "error"
	NotifWarning     NotificationType = "warning"
	NotifSuccess     NotificationType = "success"
	NotifInfo        NotificationType = "info"
	NotifComment     NotificationType = "comment"
	NotifAppointment NotificationType = "appointment"
	NotifDocument    NotificationType = "document"
	NotifRequest     NotificationType = "request"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotifError, NotifWarning, NotifSuccess, NotifInfo,
		NotifComment, NotifAppointment, NotifDocument, NotifRequest:
		return true
	default:
		return false
	}
}

// Notification is one entry of a user's feed. The request variant carries the
// access-request workflow fields: ActionRequired stays true until the
// receiving patient accepts or rejects, after which the entry is terminal.
type Notification struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	UserID         uuid.UUID        `json:"user_id" db:"user_id"`
	Type           NotificationType `json:"type" db:"type"`
	Message        string           `json:"message" db:"message"`
	Description    *string          `json:"description,omitempty" db:"description"`
	Time           string           `json:"time" db:"time"`
	Read           bool             `json:"read" db:"read"`
	SenderID       *string          `json:"senderId,omitempty" db:"sender_id"`
	ReceiverID     *string          `json:"receiverId,omitempty" db:"receiver_id"`
	RecordID       *string          `json:"recordId,omitempty" db:"record_id"`
	ActionRequired bool             `json:"actionRequired" db:"action_required"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
}

// Pending reports whether the notification is an unresolved access request.
func (n *Notification) Pending() bool {
	return n.Type == NotifRequest && n.ActionRequired
}

type AccessDecision string

const (
	DecisionAccept AccessDecision = "accept"
	DecisionReject AccessDecision = "reject"
)

type ResolveAccessRequestInput struct {
	Decision AccessDecision `json:"decision" validate:"required,oneof=accept reject"`
}
