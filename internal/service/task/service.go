package task

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/ai-secretary/internal/domain"
	"github.com/seu-repo/ai-secretary/internal/ports"
)

const DefaultListLimit = 50

var priorityRank = map[domain.Priority]int{
	domain.PriorityHigh:   3,
	domain.PriorityMedium: 2,
	domain.PriorityLow:    1,
}

// Service is the built-in task board backed by a TaskRepository.
type Service struct {
	repo ports.TaskRepository
	loc  *time.Location
	now  func() time.Time
	log  *zap.Logger
}

func NewService(repo ports.TaskRepository, loc *time.Location, log *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo: repo,
		loc:  loc,
		now:  time.Now,
		log:  log,
	}
}

func (s *Service) CreateTask(ctx context.Context, userID string, input domain.TaskInput) (*domain.TaskResult, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return &domain.TaskResult{OK: false, Error: "task title is required"}, nil
	}

	priority := input.Priority
	if _, ok := priorityRank[priority]; !ok {
		priority = domain.PriorityMedium
	}

	var dueAt *time.Time
	if input.DueAt != "" {
		due, err := time.ParseInLocation("2006-01-02", input.DueAt, s.loc)
		if err != nil {
			return &domain.TaskResult{OK: false, Error: fmt.Sprintf("invalid due date %q", input.DueAt)}, nil
		}
		dueAt = &due
	}

	now := s.now()
	task := &domain.Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		DueAt:       dueAt,
		Status:      domain.TaskStatusOpen,
		Priority:    priority,
		Tags:        input.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	s.log.Info("Task created",
		zap.String("user_id", userID),
		zap.String("task_id", task.ID),
		zap.String("priority", string(task.Priority)),
	)

	return &domain.TaskResult{OK: true, Task: task}, nil
}

// ListTasks returns the user's tasks, optionally filtered by status, ordered
// by priority, then earliest due date, then newest first.
func (s *Service) ListTasks(ctx context.Context, userID string, status domain.TaskStatus, limit int) ([]domain.Task, error) {
	tasks, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	filtered := tasks[:0]
	for _, t := range tasks {
		if status == "" || t.Status == status {
			filtered = append(filtered, t)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if ra, rb := priorityRank[a.Priority], priorityRank[b.Priority]; ra != rb {
			return ra > rb
		}
		switch {
		case a.DueAt != nil && b.DueAt != nil && !a.DueAt.Equal(*b.DueAt):
			return a.DueAt.Before(*b.DueAt)
		case a.DueAt != nil && b.DueAt == nil:
			return true
		case a.DueAt == nil && b.DueAt != nil:
			return false
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}
