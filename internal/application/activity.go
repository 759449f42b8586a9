package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/recruitd/internal/persistence"
)

// Activity entry visibility levels. Visibility gates what the pass views may
// surface externally.
const (
	VisibilityInternal  = "internal"
	VisibilityCandidate = "candidate"
	VisibilityManager   = "manager"
)

// Activity entity types.
const (
	EntityRequest   = "request"
	EntityCandidate = "candidate"
)

// candidateActivityLimit caps the history window shown on the candidate pass.
const candidateActivityLimit = 20

// ActivityRepository captures the persistence interactions needed by the log.
type ActivityRepository interface {
	AppendEntry(ctx context.Context, entry persistence.ActivityEntry) error
	ListEntries(ctx context.Context, filter persistence.ActivityFilter) ([]persistence.ActivityEntry, error)
}

// RecordActivityParams describes one audit trail entry to append.
type RecordActivityParams struct {
	EntityType  string
	EntityID    string
	Stage       string
	ActionType  string
	Description string
	PerformedBy string
	Visibility  string
}

// ActivityLog appends and queries the immutable audit trail.
type ActivityLog struct {
	entries     ActivityRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewActivityLog wires dependencies for audit trail operations.
func NewActivityLog(entries ActivityRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ActivityLog {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ActivityLog{
		entries:     entries,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// Record appends one entry. The trail is append-only; there is no update or
// delete counterpart.
func (l *ActivityLog) Record(ctx context.Context, params RecordActivityParams) error {
	if l == nil || l.entries == nil {
		return fmt.Errorf("activity repository not configured")
	}

	visibility := params.Visibility
	if visibility == "" {
		visibility = VisibilityInternal
	}

	entry := persistence.ActivityEntry{
		ID:          l.idGenerator(),
		EntityType:  params.EntityType,
		EntityID:    params.EntityID,
		Stage:       params.Stage,
		ActionType:  params.ActionType,
		Description: params.Description,
		PerformedBy: params.PerformedBy,
		Visibility:  visibility,
		CreatedAt:   l.now(),
	}
	return l.entries.AppendEntry(ctx, entry)
}

// ForEntity returns an entity's audit entries, most recent first, optionally
// narrowed to one visibility level.
func (l *ActivityLog) ForEntity(ctx context.Context, entityType, entityID, visibility string, limit int) ([]persistence.ActivityEntry, error) {
	if l == nil || l.entries == nil {
		return nil, fmt.Errorf("activity repository not configured")
	}

	return l.entries.ListEntries(ctx, persistence.ActivityFilter{
		EntityType: entityType,
		EntityID:   entityID,
		Visibility: visibility,
		Limit:      limit,
	})
}

// recordActivity is the best-effort write used by command services. Audit
// failures never fail the command; they are logged and dropped.
func recordActivity(ctx context.Context, log *ActivityLog, logger *slog.Logger, params RecordActivityParams) {
	if log == nil {
		return
	}
	if err := log.Record(ctx, params); err != nil {
		logger.WarnContext(ctx, "activity record failed",
			"entity_type", params.EntityType,
			"entity_id", params.EntityID,
			"action_type", params.ActionType,
			"error", err)
	}
}
