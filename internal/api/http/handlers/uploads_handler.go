package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/printshop-service/internal/domain"
	"github.com/spec-kit/printshop-service/internal/storage"
	apperrors "github.com/spec-kit/printshop-service/pkg/util/errorutil"
)

// UploadsHandler serves stored uploads by name.
type UploadsHandler struct {
	store storage.FileStore
}

// NewUploadsHandler builds an UploadsHandler.
func NewUploadsHandler(store storage.FileStore) *UploadsHandler {
	return &UploadsHandler{store: store}
}

// Download streams one stored file.
func (h *UploadsHandler) Download(c *fiber.Ctx) error {
	name := c.Params("name")
	obj, err := h.store.Open(c.UserContext(), name)
	if errors.Is(err, domain.ErrNotFound) {
		return apperrors.NewNotFound("file", map[string]any{"name": name})
	}
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, obj.ContentType)
	return c.SendStream(obj, int(obj.Size))
}
