package service

import (
	"context"
	"log"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"

	"github.com/google/uuid"
)

// ActivityRecorder appends to the durable activity log and mirrors each entry
// onto the live dashboard feed. Recording failures are logged, never returned:
// the originating operation has already succeeded.
type ActivityRecorder struct {
	repo repository.ActivityRepository
	hub  *websocket.Hub
}

func NewActivityRecorder(repo repository.ActivityRepository, hub *websocket.Hub) *ActivityRecorder {
	return &ActivityRecorder{repo: repo, hub: hub}
}

func (r *ActivityRecorder) Record(ctx context.Context, adminID *uuid.UUID, kind, entityID, entityName, message string) {
	entry := &model.ActivityLog{
		AdminID:    adminID,
		Kind:       kind,
		EntityID:   entityID,
		EntityName: entityName,
		Message:    message,
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		log.Printf("activity log write failed (%s): %v", kind, err)
		return
	}
	if r.hub != nil {
		r.hub.BroadcastEvent(kind, message, entry)
	}
}

// Recent returns the newest feed entries for the dashboard.
func (r *ActivityRecorder) Recent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	return r.repo.Recent(ctx, limit)
}

// ListByKind pages through the log filtered to one activity kind.
func (r *ActivityRecorder) ListByKind(ctx context.Context, kind string, page, limit int) ([]model.ActivityLog, int64, error) {
	return r.repo.ListByKind(ctx, kind, page, limit)
}
