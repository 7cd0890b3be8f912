package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/ai-secretary/internal/domain"
)

// Processor runs one dialogue turn.
type Processor interface {
	ProcessMessage(ctx context.Context, userID, text string) domain.Response
}

type MessageHandler struct {
	processor Processor
	log       *zap.Logger
}

func NewMessageHandler(processor Processor, log *zap.Logger) *MessageHandler {
	return &MessageHandler{
		processor: processor,
		log:       log,
	}
}

type MessageRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

// Process handles POST /api/v1/messages.
func (h *MessageHandler) Process(c *fiber.Ctx) error {
	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text is required"})
	}

	resp := h.processor.ProcessMessage(c.UserContext(), req.UserID, req.Text)
	return c.JSON(resp)
}
