package slots

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/ai-secretary/internal/domain"
	"github.com/seu-repo/ai-secretary/internal/mocks"
)

func TestExtractSlots_EmptyTextSkipsBackend(t *testing.T) {
	// Arrange
	llm := &mocks.MockLLM{Response: `{"title":"x"}`}
	e := NewExtractor(llm, zap.NewNop())

	// Act
	got := e.ExtractSlots(context.Background(), "  ", domain.IntentCreateMeeting, "en", "Europe/Berlin")

	// Assert
	if !got.IsEmpty() {
		t.Errorf("expected empty slots, got %+v", got)
	}
	if llm.CallCount() != 0 {
		t.Error("expected no backend call for empty text")
	}
}

func TestExtractSlots_ValidatesBackendOutput(t *testing.T) {
	// Arrange
	llm := &mocks.MockLLM{Response: "Here you go:\n" + `{"intent":"create_meeting","date":"2026-03-11","time":"15:00","duration_min":900,"attendees":["nope"],"priority":"asap"}`}
	e := NewExtractor(llm, zap.NewNop())

	// Act
	got := e.ExtractSlots(context.Background(), "create a meeting tomorrow at 15:00", domain.IntentCreateMeeting, "en", "Europe/Berlin")

	// Assert
	if got.Date != "2026-03-11" || got.Time != "15:00" {
		t.Errorf("expected date/time kept, got %s %s", got.Date, got.Time)
	}
	if got.DurationMin != MaxDurationMin {
		t.Errorf("expected duration clamped to %d, got %d", MaxDurationMin, got.DurationMin)
	}
	if got.Attendees != nil || got.Priority != "" {
		t.Errorf("expected invalid attendees and priority dropped, got %+v", got)
	}

	if call := llm.Calls[0]; call.Temperature > 0.3 {
		t.Errorf("expected low temperature, got %v", call.Temperature)
	}
}

func TestExtractSlots_PromptUsesUserTimezone(t *testing.T) {
	// Arrange
	llm := &mocks.MockLLM{Response: `{}`}
	clock := func() time.Time { return time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC) }
	e := NewExtractor(llm, zap.NewNop()).WithClock(clock)

	// Act
	e.ExtractSlots(context.Background(), "tomorrow", domain.IntentCreateMeeting, "de", "Europe/Berlin")

	// Assert
	prompt := llm.Calls[0].Prompt
	if !strings.Contains(prompt, "Current date: 2026-03-11") {
		t.Errorf("expected Berlin-local date 2026-03-11 in prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "User locale: de") {
		t.Errorf("expected locale in prompt, got %q", prompt)
	}
}

func TestExtractSlots_BackendFailures(t *testing.T) {
	tests := []struct {
		name string
		llm  *mocks.MockLLM
	}{
		{"error", &mocks.MockLLM{Err: errors.New("boom")}},
		{"no json", &mocks.MockLLM{Response: "I could not find anything"}},
		{"broken json", &mocks.MockLLM{Response: `{"date": 2026-03-11}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(tt.llm, zap.NewNop())
			got := e.ExtractSlots(context.Background(), "create a meeting", domain.IntentCreateMeeting, "en", "UTC")
			if !got.IsEmpty() {
				t.Errorf("expected empty slots, got %+v", got)
			}
		})
	}
}
