package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/printshop-service/internal/events"
)

// FilesUpdatedEvent is the realtime event name announcing job list changes.
const FilesUpdatedEvent = "files:updated"

// Broadcaster pushes a realtime message to every connected dashboard.
type Broadcaster interface {
	Broadcast(ctx context.Context, event string, payload any) error
}

// CacheInvalidator drops cached reports.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// FilesUpdated is the payload of a files:updated message.
type FilesUpdated struct {
	Reason string `json:"reason"`
	File   any    `json:"file"`
}

// NotificationService reacts to job events: it notifies dashboards and invalidates reports.
type NotificationService struct {
	dispatcher  events.Dispatcher
	broadcaster Broadcaster
	invalidator CacheInvalidator
	logger      *zap.Logger
}

// NewNotificationService creates the service. broadcaster and invalidator may be nil.
func NewNotificationService(dispatcher events.Dispatcher, broadcaster Broadcaster, invalidator CacheInvalidator, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher:  dispatcher,
		broadcaster: broadcaster,
		invalidator: invalidator,
		logger:      logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventJobCreated, n.handleJobCreated)
	n.dispatcher.Subscribe(events.EventJobCreated, n.invalidateReports)
	n.dispatcher.Subscribe(events.EventJobUpdated, n.invalidateReports)
}

func (n *NotificationService) handleJobCreated(ctx context.Context, event events.Event) error {
	n.logger.Debug("JobCreated", zap.String("job_id", event.JobID))
	if n.broadcaster == nil {
		return nil
	}
	var file any = event.Payload
	if p, ok := event.Payload.(events.JobCreatedPayload); ok {
		file = p.Job
	}
	if err := n.broadcaster.Broadcast(ctx, FilesUpdatedEvent, FilesUpdated{Reason: "new_file", File: file}); err != nil {
		n.logger.Warn("realtime broadcast failed", zap.String("job_id", event.JobID), zap.Error(err))
	}
	return nil
}

func (n *NotificationService) invalidateReports(ctx context.Context, event events.Event) error {
	if n.invalidator == nil {
		return nil
	}
	if err := n.invalidator.Bump(ctx); err != nil {
		n.logger.Warn("stats cache invalidation failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
	return nil
}
