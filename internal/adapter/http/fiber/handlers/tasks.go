package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/seu-repo/ai-secretary/internal/domain"
	"github.com/seu-repo/ai-secretary/internal/ports"
)

type TaskLister interface {
	ListTasks(ctx context.Context, userID string, status domain.TaskStatus, limit int) ([]domain.Task, error)
}

// AgendaHandler exposes the user's tasks and free calendar slots.
type AgendaHandler struct {
	tasks    TaskLister
	calendar ports.CalendarService
	log      *zap.Logger
}

func NewAgendaHandler(tasks TaskLister, calendar ports.CalendarService, log *zap.Logger) *AgendaHandler {
	return &AgendaHandler{
		tasks:    tasks,
		calendar: calendar,
		log:      log,
	}
}

func (h *AgendaHandler) ListTasks(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	status := domain.TaskStatus(utils.CopyString(c.Query("status")))
	userID := utils.CopyString(c.Params("id"))

	tasks, err := h.tasks.ListTasks(c.UserContext(), userID, status, limit)
	if err != nil {
		h.log.Error("Failed to list tasks", zap.String("user_id", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list tasks"})
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return c.JSON(tasks)
}

func (h *AgendaHandler) FreeSlots(c *fiber.Ctx) error {
	duration, _ := strconv.Atoi(c.Query("duration"))

	slots, err := h.calendar.FindFreeSlots(c.UserContext(),
		utils.CopyString(c.Params("id")),
		duration,
		utils.CopyString(c.Query("start")),
		utils.CopyString(c.Query("end")),
	)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if slots == nil {
		slots = []domain.FreeSlot{}
	}
	return c.JSON(slots)
}
