package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	db "github.com/only1thor/autobank/src/db/sql"
	"github.com/only1thor/autobank/src/logger"
	"github.com/only1thor/autobank/src/models"
)

// Actors.
const (
	ActorSystem    = "system"
	ActorScheduler = "scheduler"
	ActorUser      = "user"
)

// Event types. This set is closed; add here, nowhere else.
const (
	EventAuthStarted    = "auth_started"
	EventAuthCompleted  = "auth_completed"
	EventAuthFailed     = "auth_failed"
	EventTokenRefreshed = "auth_token_refreshed"

	EventRuleCreated  = "rule_created"
	EventRuleUpdated  = "rule_updated"
	EventRuleDeleted  = "rule_deleted"
	EventRuleEnabled  = "rule_enabled"
	EventRuleDisabled = "rule_disabled"

	EventRuleEvaluated = "rule_evaluated"
	EventRuleMatched   = "rule_matched"
	EventRuleSkipped   = "rule_skipped"

	EventTransferInitiated = "transfer_initiated"
	EventTransferSucceeded = "transfer_succeeded"
	EventTransferFailed    = "transfer_failed"

	EventSchedulerStarted = "scheduler_started"
	EventSchedulerStopped = "scheduler_stopped"
	EventPollStarted      = "poll_started"
	EventPollCompleted    = "poll_completed"
	EventPollFailed       = "poll_failed"

	EventServerStarted    = "server_started"
	EventServerStopped    = "server_stopped"
	EventConfigChanged    = "config_changed"
	EventDatabaseMigrated = "database_migrated"
)

// Logger appends typed events to the audit log. Writes never fail the caller;
// a failed write is reported on the structured log instead so the entry is
// not silently lost.
type Logger struct {
	dbh *sql.DB
}

func NewLogger(dbh *sql.DB) *Logger {
	return &Logger{dbh: dbh}
}

// Log records an event with no resource attached.
func (l *Logger) Log(ctx context.Context, eventType, actor string, details any) {
	l.log(ctx, eventType, actor, nil, nil, details)
}

// LogResource records an event tied to a resource such as a rule or execution.
func (l *Logger) LogResource(ctx context.Context, eventType, actor, resourceType, resourceID string, details any) {
	l.log(ctx, eventType, actor, &resourceType, &resourceID, details)
}

func (l *Logger) log(ctx context.Context, eventType, actor string, resourceType, resourceID *string, details any) {
	payload, err := json.Marshal(details)
	if err != nil {
		logger.L.Error("audit details not serializable", "eventType", eventType, "error", err)
		payload = []byte("{}")
	}

	entry := &models.AuditEntry{
		ID:           uuid.NewString(),
		Timestamp:    time.Now().Unix(),
		EventType:    eventType,
		Actor:        actor,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      payload,
	}

	if err := db.AppendAudit(ctx, l.dbh, entry); err != nil {
		logger.L.Error("audit write failed",
			"eventType", eventType,
			"actor", actor,
			"details", string(payload),
			"error", err)
	}
}

// Query returns audit entries, newest first.
func (l *Logger) Query(ctx context.Context, filter models.AuditFilter, limit int64) ([]models.AuditEntry, error) {
	return db.QueryAudit(ctx, l.dbh, filter, limit)
}
