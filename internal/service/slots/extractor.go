package slots

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/seu-repo/ai-secretary/internal/domain"
	"github.com/seu-repo/ai-secretary/internal/ports"
)

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// Extractor implements ports.SlotExtractor: loose LLM extraction followed by
// strict field validation.
type Extractor struct {
	llm ports.LLMClient
	now func() time.Time
	log *zap.Logger
}

func NewExtractor(llm ports.LLMClient, log *zap.Logger) *Extractor {
	return &Extractor{llm: llm, now: time.Now, log: log}
}

// WithClock overrides the clock used for the "current date" hint.
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	e.now = now
	return e
}

func (e *Extractor) ExtractSlots(ctx context.Context, text string, intent domain.Intent, locale, timezone string) domain.Slots {
	if strings.TrimSpace(text) == "" || e.llm == nil {
		return domain.Slots{}
	}

	out, err := e.llm.Complete(ctx, e.prompt(text, intent, locale, timezone), 0.1, 500)
	if err != nil {
		e.log.Warn("Slot extraction failed", zap.String("intent", intent.String()), zap.Error(err))
		return domain.Slots{}
	}

	raw := jsonObject.FindString(out)
	if raw == "" {
		e.log.Debug("Slot extraction returned no JSON", zap.String("intent", intent.String()))
		return domain.Slots{}
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		e.log.Warn("Slot extraction returned invalid JSON", zap.String("intent", intent.String()), zap.Error(err))
		return domain.Slots{}
	}
	return Validate(fields)
}

func (e *Extractor) prompt(text string, intent domain.Intent, locale, timezone string) string {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	now := e.now().In(loc)

	return fmt.Sprintf(`Extract structured information from this text for intent "%s".

User timezone: %s
User locale: %s
Current date: %s (%s)

Return JSON with these fields (only include fields that are clearly specified):
{
  "title": "meeting/task title if mentioned",
  "date": "YYYY-MM-DD format (convert relative dates like 'tomorrow', 'next week')",
  "time": "HH:mm format (24-hour)",
  "duration_min": number in minutes,
  "attendees": ["email@example.com", "name@company.com"],
  "phone": "+1234567890",
  "target_lang": "language code (ru/de/en/zh/es/fr/it/pt/ja/ko)",
  "location": "meeting location if mentioned",
  "description": "additional details",
  "priority": "low|medium|high",
  "due_date": "YYYY-MM-DD for tasks"
}

Text: """%s"""

JSON:`, intent, loc.String(), locale, now.Format("2006-01-02"), now.Weekday(), text)
}
