package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"spendtrack/internal/logger"
	"spendtrack/internal/models"
	"spendtrack/internal/store"
)

// auditService appends AuditLog records for mutating requests.
type auditService struct {
	logs store.Store[models.AuditLog]
	log  *zap.SugaredLogger
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(logs store.Store[models.AuditLog]) AuditServicer {
	return &auditService{logs: logs, log: logger.Named("audit_service")}
}

// Log records an audit event. Failures are logged and swallowed; the
// operation being audited has already succeeded. The write outlives
// cancellation of ctx so a disconnecting client does not drop the entry.
func (s *auditService) Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      s.encodeChanges(action, changes),
	}

	if _, err := s.logs.Insert(context.WithoutCancel(ctx), entry); err != nil {
		s.log.Errorw("failed to write audit entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

func (s *auditService) encodeChanges(action string, changes map[string]any) string {
	if len(changes) == 0 {
		return ""
	}
	data, err := json.Marshal(changes)
	if err != nil {
		s.log.Warnw("audit changes not encodable", "error", err, "action", action)
		return "{}"
	}
	return string(data)
}
