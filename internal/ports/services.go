package ports

import (
	"context"

	"github.com/seu-repo/ai-secretary/internal/domain"
)

// LLMClient is the completion service used for classification fallback,
// slot extraction, language detection and translation.
type LLMClient interface {
	Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// LanguageResolver detects and translates text. Both calls are best effort
// and never fail.
type LanguageResolver interface {
	DetectLanguage(ctx context.Context, text string) string
	Translate(ctx context.Context, text, targetLang, sourceLangHint string) string
}

type IntentClassifier interface {
	Classify(ctx context.Context, text string) domain.IntentResult
}

type SlotExtractor interface {
	ExtractSlots(ctx context.Context, text string, intent domain.Intent, locale, timezone string) domain.Slots
}

// SessionStore owns the lifetime of pending sessions. No method returns an
// error: backend failures degrade to an in-memory map.
type SessionStore interface {
	Get(ctx context.Context, userID string) (*domain.PendingSession, bool)
	Set(ctx context.Context, userID string, session *domain.PendingSession)
	// Update returns false when no session exists for userID.
	Update(ctx context.Context, userID string, update domain.SessionUpdate) bool
	Clear(ctx context.Context, userID string)
	// IncrementRetry returns false once the retry bound is reached; the
	// session is cleared in that case.
	IncrementRetry(ctx context.Context, userID string) bool
	ListAll(ctx context.Context) []domain.PendingSession
	SweepExpired(ctx context.Context) int
}

type CalendarService interface {
	CreateEvent(ctx context.Context, userID string, input domain.EventInput) (*domain.EventResult, error)
	// FindFreeSlots takes optional RFC 3339 bounds; empty strings mean "now"
	// and "seven days from now".
	FindFreeSlots(ctx context.Context, userID string, durationMin int, startISO, endISO string) ([]domain.FreeSlot, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, userID string, input domain.TaskInput) (*domain.TaskResult, error)
}
