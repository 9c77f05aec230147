package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog records consent and collaboration activity: access requested,
// granted, revoked, case opened or closed. Entity ids are chaincode record
// ids or case ids, so they stay opaque strings.
type AuditLog struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	UserName   *string         `json:"user_name,omitempty" db:"user_name"`
	Action     string          `json:"action" db:"action"`
	EntityType string          `json:"entity_type" db:"entity_type"`
	EntityID   string          `json:"entity_id" db:"entity_id"`
	Details    json.RawMessage `json:"details,omitempty" db:"details"`
	IPAddress  *string         `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  *string         `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

const (
	AuditAccessRequested = "ACCESS_REQUESTED"
	AuditAccessGranted   = "ACCESS_GRANTED"
	AuditAccessRejected  = "ACCESS_REJECTED"
	AuditAccessRevoked   = "ACCESS_REVOKED"
	AuditCaseOpened      = "CASE_OPENED"
	AuditCaseClosed      = "CASE_CLOSED"
)

type CreateAuditLogInput struct {
	UserID     uuid.UUID
	Action     string
	EntityType string
	EntityID   string
	Details    interface{}
	IPAddress  *string
	UserAgent  *string
}
