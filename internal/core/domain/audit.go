package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditAction names a security-relevant account event.
type AuditAction string

const (
	AuditRegistered      AuditAction = "registered"
	AuditLoginSucceeded  AuditAction = "login_succeeded"
	AuditLoginFailed     AuditAction = "login_failed"
	AuditLoginThrottled  AuditAction = "login_throttled"
	AuditPasswordChanged AuditAction = "password_changed"
	AuditPasswordReset   AuditAction = "password_reset"
	AuditBanned          AuditAction = "banned"
	AuditUnbanned        AuditAction = "unbanned"
	AuditDeleted         AuditAction = "deleted"
)

// AuditEvent records who did what to which account. It never holds secrets.
type AuditEvent struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	EventID    string             `json:"eventId" bson:"eventId"`
	Action     AuditAction        `json:"action" bson:"action"`
	SubjectID  string             `json:"subjectId,omitempty" bson:"subjectId,omitempty"`
	Email      string             `json:"email,omitempty" bson:"email,omitempty"`
	ActorID    string             `json:"actorId,omitempty" bson:"actorId,omitempty"`
	OccurredAt time.Time          `json:"occurredAt" bson:"occurredAt"`
}

// ShardKey returns the value used to keep one account's events in order.
func (e AuditEvent) ShardKey() string {
	if e.SubjectID != "" {
		return e.SubjectID
	}
	return e.Email
}
