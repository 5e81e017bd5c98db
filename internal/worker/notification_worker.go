package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/printshop-service/internal/realtime"
	"github.com/spec-kit/printshop-service/internal/service"
)

// StartNotificationWorker registers notification handlers and starts relaying realtime messages
// published by other instances. The relay stops when ctx ends.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, hub *realtime.Hub, logger *zap.Logger) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if hub == nil {
		return
	}
	go func() {
		if err := hub.Run(ctx); err != nil {
			logger.Error("realtime relay stopped", zap.Error(err))
		}
	}()
}
