package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/ai-secretary/internal/domain"
	"github.com/seu-repo/ai-secretary/internal/ports"
)

type EventRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewEventRepository(db *gorm.DB, log *zap.Logger) ports.EventRepository {
	return &EventRepository{
		db:  db,
		log: log,
	}
}

func (r *EventRepository) Save(ctx context.Context, event *domain.CalendarEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// FindByUserBetween returns the user's events intersecting [from, to).
func (r *EventRepository) FindByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.CalendarEvent, error) {
	var events []domain.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND starts_at < ? AND ends_at > ?", userID, to, from).
		Order("starts_at asc").
		Find(&events).Error
	return events, err
}
