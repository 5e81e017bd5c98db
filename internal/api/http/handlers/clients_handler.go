package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/printshop-service/internal/api/dto"
	"github.com/spec-kit/printshop-service/internal/service"
	apperrors "github.com/spec-kit/printshop-service/pkg/util/errorutil"
)

// ClientsHandler exposes client lookup.
type ClientsHandler struct {
	clients *service.ClientService
}

// NewClientsHandler builds a ClientsHandler.
func NewClientsHandler(clients *service.ClientService) *ClientsHandler {
	return &ClientsHandler{clients: clients}
}

// Search finds clients by partial name and/or phone.
func (h *ClientsHandler) Search(c *fiber.Ctx) error {
	var q dto.ClientSearchQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewValidationError("invalid query", map[string]any{"error": err.Error()})
	}
	if err := dto.Validate(q); err != nil {
		return err
	}
	clients, err := h.clients.Search(c.UserContext(), service.ClientSearch{Name: q.Nombre, Phone: q.Celular})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": clients})
}
