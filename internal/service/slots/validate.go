package slots

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/seu-repo/ai-secretary/internal/domain"
	"github.com/seu-repo/ai-secretary/internal/service/lang"
)

const (
	MinDurationMin = 5
	MaxDurationMin = 480
	MaxAttendees   = 10
)

var (
	dateFormat  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeFormat  = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	emailShape  = regexp.MustCompile(`^[^\s@]+@[^\s@]+$`)
	phoneFormat = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	hasDigit    = regexp.MustCompile(`\d`)
)

// Validate turns loosely typed extraction output into Slots. Every field is
// checked on its own and dropped when malformed; it never fails as a whole.
func Validate(raw map[string]any) domain.Slots {
	var s domain.Slots
	if raw == nil {
		return s
	}

	s.Title = trimmed(raw["title"])
	s.Location = trimmed(raw["location"])
	s.Description = trimmed(raw["description"])
	s.Date = ValidDate(trimmed(raw["date"]))
	s.DueDate = ValidDate(trimmed(raw["due_date"]))
	s.Time = ValidTime(trimmed(raw["time"]))
	s.DurationMin = validDuration(raw["duration_min"])
	s.Attendees = validAttendees(raw["attendees"])
	s.Phone = validPhone(trimmed(raw["phone"]))

	if code := strings.ToLower(trimmed(raw["target_lang"])); lang.IsSupported(code) {
		s.TargetLang = code
	}

	switch p := domain.Priority(strings.ToLower(trimmed(raw["priority"]))); p {
	case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
		s.Priority = p
	}

	return s
}

// ValidDate returns v when it is a real YYYY-MM-DD calendar date.
func ValidDate(v string) string {
	if !dateFormat.MatchString(v) {
		return ""
	}
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return ""
	}
	return v
}

// ValidTime accepts H:mm or HH:mm on a 24h clock and returns it zero-padded.
func ValidTime(v string) string {
	m := timeFormat.FindStringSubmatch(v)
	if m == nil {
		return ""
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ClampDuration bounds a duration in minutes to [MinDurationMin, MaxDurationMin].
func ClampDuration(minutes int) int {
	if minutes < MinDurationMin {
		return MinDurationMin
	}
	if minutes > MaxDurationMin {
		return MaxDurationMin
	}
	return minutes
}

func validDuration(v any) int {
	n, ok := v.(float64)
	if !ok || n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	if n < MinDurationMin {
		return MinDurationMin
	}
	if n > MaxDurationMin {
		return MaxDurationMin
	}
	return ClampDuration(int(math.Round(n)))
}

func validAttendees(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range list {
		email, ok := item.(string)
		if !ok {
			continue
		}
		email = strings.TrimSpace(email)
		if !emailShape.MatchString(email) {
			continue
		}
		out = append(out, email)
		if len(out) == MaxAttendees {
			break
		}
	}
	return out
}

func validPhone(v string) string {
	if !phoneFormat.MatchString(v) || !hasDigit.MatchString(v) {
		return ""
	}
	return v
}

func trimmed(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
