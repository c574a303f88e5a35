package service

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// nopAudit discards events when no audit trail is configured.
type nopAudit struct{}

func (nopAudit) Record(domain.AuditEvent) {}

func auditOrNop(a ports.AuditSink) ports.AuditSink {
	if a == nil {
		return nopAudit{}
	}
	return a
}

// storeFault wraps an unexpected store failure. The cause is logged by the
// error handler and never shown to the client.
func storeFault(op string, err error) error {
	return domain.NewInternal(op, err)
}

// parseRef converts a client-supplied reference id. Malformed ids are a client
// error rather than a missing record.
func parseRef(field, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.NewBadRequest(field + " must be a valid id")
	}
	return oid, nil
}
