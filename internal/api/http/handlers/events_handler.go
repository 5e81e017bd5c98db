package handlers

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/printshop-service/internal/realtime"
)

// EventsHandler streams change notifications as server-sent events.
type EventsHandler struct {
	hub       *realtime.Hub
	keepAlive time.Duration
	logger    *zap.Logger
}

// NewEventsHandler builds an EventsHandler.
func NewEventsHandler(hub *realtime.Hub, keepAlive time.Duration, logger *zap.Logger) *EventsHandler {
	if keepAlive <= 0 {
		keepAlive = 25 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventsHandler{hub: hub, keepAlive: keepAlive, logger: logger}
}

// Stream holds the connection open and writes one event per hub message until the client goes
// away or the hub closes.
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("X-Accel-Buffering", "no")

	sub := h.hub.Subscribe()
	keepAlive := h.keepAlive
	logger := h.logger

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer sub.Close()
		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		if _, err := w.WriteString(": connected\n\n"); err != nil || w.Flush() != nil {
			return
		}
		for {
			select {
			case msg, ok := <-sub.C:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Data)
				if err := w.Flush(); err != nil {
					logger.Debug("event stream closed", zap.Error(err))
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil || w.Flush() != nil {
					return
				}
			}
		}
	})
	return nil
}
