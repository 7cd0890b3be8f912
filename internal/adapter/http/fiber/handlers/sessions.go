package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/seu-repo/ai-secretary/internal/domain"
	"github.com/seu-repo/ai-secretary/internal/ports"
)

type SessionHandler struct {
	store ports.SessionStore
}

func NewSessionHandler(store ports.SessionStore) *SessionHandler {
	return &SessionHandler{store: store}
}

// List returns every live pending session.
func (h *SessionHandler) List(c *fiber.Ctx) error {
	sessions := h.store.ListAll(c.UserContext())
	if sessions == nil {
		sessions = []domain.PendingSession{}
	}
	return c.JSON(fiber.Map{"count": len(sessions), "sessions": sessions})
}

func (h *SessionHandler) Clear(c *fiber.Ctx) error {
	h.store.Clear(c.UserContext(), utils.CopyString(c.Params("id")))
	return c.SendStatus(fiber.StatusNoContent)
}
