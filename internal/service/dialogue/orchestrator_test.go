package dialogue

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/ai-secretary/internal/domain"
	"github.com/seu-repo/ai-secretary/internal/mocks"
	"github.com/seu-repo/ai-secretary/internal/service/intent"
	"github.com/seu-repo/ai-secretary/internal/service/lang"
	"github.com/seu-repo/ai-secretary/internal/service/slots"
)

// scriptedLLM answers each kind of prompt the dialogue stack sends.
type scriptedLLM struct {
	mu        sync.Mutex
	detect    string
	classify  string
	translate string
	extract   map[string]string // user text -> JSON reply
	failAll   bool
	prompts   []string
}

func (s *scriptedLLM) complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)

	if s.failAll {
		return "", errors.New("llm unavailable")
	}
	switch {
	case strings.HasPrefix(prompt, "Detect the language"):
		if s.detect == "" {
			return "en", nil
		}
		return s.detect, nil
	case strings.HasPrefix(prompt, "You are an intent classifier"):
		if s.classify == "" {
			return "", errors.New("classifier offline")
		}
		return s.classify, nil
	case strings.HasPrefix(prompt, "Translate the following"):
		return s.translate, nil
	case strings.HasPrefix(prompt, "Extract structured"):
		text := between(prompt, `Text: """`, `"""`)
		if reply, ok := s.extract[text]; ok {
			return reply, nil
		}
		return "{}", nil
	}
	return "", errors.New("unexpected prompt")
}

func (s *scriptedLLM) promptsWith(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, p := range s.prompts {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}

func between(s, open, close string) string {
	i := strings.Index(s, open)
	if i < 0 {
		return ""
	}
	rest := s[i+len(open):]
	j := strings.Index(rest, close)
	if j < 0 {
		return ""
	}
	return rest[:j]
}

type fixture struct {
	orch     *Orchestrator
	llm      *scriptedLLM
	sessions *mocks.MockSessionStore
	calendar *mocks.MockCalendarService
	tasks    *mocks.MockTaskService
	events   *mocks.MockMessageQueue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()
	script := &scriptedLLM{extract: map[string]string{}}
	llm := &mocks.MockLLM{CompleteFunc: script.complete}

	f := &fixture{
		llm:      script,
		sessions: mocks.NewMockSessionStore(),
		calendar: &mocks.MockCalendarService{},
		tasks:    &mocks.MockTaskService{},
		events:   mocks.NewMockMessageQueue(),
	}

	orch, err := New(Dependencies{
		Sessions:   f.sessions,
		Language:   lang.NewResolver(llm, "en", log),
		Classifier: intent.NewClassifier(llm, log),
		Extractor:  slots.NewExtractor(llm, log),
		Calendar:   f.calendar,
		Tasks:      f.tasks,
		Events:     f.events,
	}, Config{DefaultLanguage: "en", Timezone: "Europe/Berlin"}, log)
	if err != nil {
		t.Fatalf("failed to build orchestrator: %v", err)
	}
	f.orch = orch
	return f
}

const meetingRequest = "create a meeting tomorrow at 15:00"

func (f *fixture) seedMeeting(t *testing.T) domain.Response {
	t.Helper()
	f.llm.extract[meetingRequest] = `{"intent":"create_meeting","date":"2026-03-11","time":"15:00"}`
	return f.orch.ProcessMessage(context.Background(), "u1", meetingRequest)
}

func TestScenario_MeetingRequestCreatesPendingSession(t *testing.T) {
	// Arrange
	f := newFixture(t)

	// Act
	resp := f.seedMeeting(t)

	// Assert
	sess, ok := f.sessions.Get(context.Background(), "u1")
	if !ok {
		t.Fatal("expected pending session to exist")
	}
	if sess.Step != domain.StepConfirm {
		t.Errorf("expected step 'confirm', got '%s'", sess.Step)
	}
	if sess.Intent != domain.IntentCreateMeeting {
		t.Errorf("expected intent create_meeting, got %s", sess.Intent)
	}
	if sess.Slots.Date != "2026-03-11" || sess.Slots.Time != "15:00" {
		t.Errorf("expected date/time in slots, got %+v", sess.Slots)
	}
	if !strings.Contains(resp.Text, "Confirm? (yes/no)") {
		t.Errorf("expected confirmation prompt, got %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "Time: 15:00") {
		t.Errorf("expected slot summary in reply, got %q", resp.Text)
	}
	if resp.Metadata == nil || resp.Metadata.Intent != domain.IntentCreateMeeting {
		t.Errorf("expected metadata intent create_meeting, got %+v", resp.Metadata)
	}
	if f.calendar.CreatedCount() != 0 {
		t.Error("calendar must not be called before confirmation")
	}
}

func TestScenario_ConfirmExecutesMeeting(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.seedMeeting(t)
	f.calendar.CreateEventFunc = func(ctx context.Context, userID string, input domain.EventInput) (*domain.EventResult, error) {
		return &domain.EventResult{OK: true, ID: "evt-42", JoinURL: "https://zoom.us/j/123"}, nil
	}

	// Act
	resp := f.orch.ProcessMessage(context.Background(), "u1", "yes")

	// Assert
	if f.sessions.Has("u1") {
		t.Error("expected pending session to be cleared")
	}
	if f.calendar.CreatedCount() != 1 {
		t.Fatalf("expected one calendar call, got %d", f.calendar.CreatedCount())
	}

	berlin, _ := time.LoadLocation("Europe/Berlin")
	input := f.calendar.Created[0]
	wantStart := time.Date(2026, 3, 11, 15, 0, 0, 0, berlin)
	if !input.Start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, input.Start)
	}
	if got := input.End.Sub(input.Start); got != 30*time.Minute {
		t.Errorf("expected default 30 minute duration, got %v", got)
	}
	if !input.Zoom {
		t.Error("expected zoom link to be requested")
	}
	if input.Title != "Meeting" {
		t.Errorf("expected default title 'Meeting', got '%s'", input.Title)
	}
	if !strings.Contains(resp.Text, "Meeting created") || !strings.Contains(resp.Text, "https://zoom.us/j/123") {
		t.Errorf("expected success text with join link, got %q", resp.Text)
	}

	published := f.events.GetPublishedMessages(ActionSubject(domain.IntentCreateMeeting))
	if len(published) != 1 {
		t.Fatalf("expected one action event, got %d", len(published))
	}
	var event domain.ActionEvent
	if err := json.Unmarshal(published[0], &event); err != nil {
		t.Fatalf("invalid event payload: %v", err)
	}
	if !event.OK || event.ResourceID != "evt-42" || event.UserID != "u1" {
		t.Errorf("unexpected event %+v", event)
	}
}

func TestScenario_CancelClearsWithoutAction(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.seedMeeting(t)

	// Act
	resp := f.orch.ProcessMessage(context.Background(), "u1", "no")

	// Assert
	if f.sessions.Has("u1") {
		t.Error("expected pending session to be cleared")
	}
	if f.calendar.CreatedCount() != 0 {
		t.Error("expected no calendar call after cancel")
	}
	if resp.Text != f.orch.catalog.Text("en", "cancelled") {
		t.Errorf("expected cancellation acknowledgement, got %q", resp.Text)
	}
}

func TestScenario_TranslateInOneTurn(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.llm.translate = "Hallo"

	// Act
	resp := f.orch.ProcessMessage(context.Background(), "u1", "translate hello to German")

	// Assert
	if resp.Language != "de" {
		t.Errorf("expected language 'de', got '%s'", resp.Language)
	}
	if !strings.Contains(resp.Text, "Hallo") {
		t.Errorf("expected translated text in reply, got %q", resp.Text)
	}
	if resp.Metadata.Intent != domain.IntentTranslate {
		t.Errorf("expected intent translate, got %s", resp.Metadata.Intent)
	}
	if f.sessions.Has("u1") {
		t.Error("translate must not create a session")
	}

	prompts := f.llm.promptsWith("Translate the following")
	if len(prompts) != 1 || !strings.Contains(prompts[0], `"""hello"""`) {
		t.Errorf("expected only the phrase to be translated, got %v", prompts)
	}
}

func TestTranslate_TargetFromExtractionThenDefault(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.llm.translate = "Bonjour"
	f.llm.extract["translate hello please"] = `{"target_lang":"fr"}`

	// Act
	withSlot := f.orch.ProcessMessage(context.Background(), "u1", "translate hello please")
	withDefault := f.orch.ProcessMessage(context.Background(), "u1", "translate this")

	// Assert
	if withSlot.Language != "fr" {
		t.Errorf("expected target 'fr' from extraction, got '%s'", withSlot.Language)
	}
	if withDefault.Language != "en" {
		t.Errorf("expected default target 'en', got '%s'", withDefault.Language)
	}
}

func TestMeeting_MissingFieldsThenSupplement(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	f.llm.extract["schedule a meeting about the roadmap"] = `{"title":"Roadmap"}`
	f.llm.extract["tomorrow at 10:00 for 45 minutes"] = `{"date":"2026-03-11","time":"10:00","duration_min":45}`

	// Act
	first := f.orch.ProcessMessage(ctx, "u1", "schedule a meeting about the roadmap")
	second := f.orch.ProcessMessage(ctx, "u1", "tomorrow at 10:00 for 45 minutes")

	// Assert
	if !strings.Contains(first.Text, f.orch.catalog.Text("en", "need_meeting_datetime")) {
		t.Errorf("expected request for date and time, got %q", first.Text)
	}
	sess, ok := f.sessions.Get(ctx, "u1")
	if !ok {
		t.Fatal("expected session to remain after supplement")
	}
	if sess.Slots.Title != "Roadmap" || sess.Slots.Time != "10:00" || sess.Slots.DurationMin != 45 {
		t.Errorf("expected merged slots, got %+v", sess.Slots)
	}
	if !strings.Contains(second.Text, "Confirm? (yes/no)") {
		t.Errorf("expected confirmation prompt once complete, got %q", second.Text)
	}
	if f.sessions.SetCalls != 2 {
		t.Errorf("expected the merged session to be persisted, got %d writes", f.sessions.SetCalls)
	}

	// Confirm uses the explicit duration.
	f.orch.ProcessMessage(ctx, "u1", "Yes!")
	if f.calendar.CreatedCount() != 1 {
		t.Fatal("expected meeting to be created")
	}
	input := f.calendar.Created[0]
	if input.Title != "Roadmap" || input.End.Sub(input.Start) != 45*time.Minute {
		t.Errorf("unexpected event input %+v", input)
	}
}

func TestMeeting_ConfirmWithMissingFieldsExhaustsRetries(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	f.orch.ProcessMessage(ctx, "u1", "create a meeting")

	// Act
	first := f.orch.ProcessMessage(ctx, "u1", "yes")
	second := f.orch.ProcessMessage(ctx, "u1", "yes")
	third := f.orch.ProcessMessage(ctx, "u1", "yes")

	// Assert
	want := f.orch.catalog.Text("en", "need_meeting_datetime")
	if !strings.Contains(first.Text, want) || !strings.Contains(second.Text, want) {
		t.Errorf("expected re-asks, got %q and %q", first.Text, second.Text)
	}
	if third.Text != f.orch.catalog.Text("en", "retry_exhausted") {
		t.Errorf("expected give-up reply, got %q", third.Text)
	}
	if f.sessions.Has("u1") {
		t.Error("expected session cleared after retry limit")
	}
	if f.calendar.CreatedCount() != 0 {
		t.Error("calendar must not be called with missing fields")
	}
}

func TestSupplement_UnproductiveReplyConsumesRetry(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	f.seedMeeting(t)

	// Act
	f.orch.ProcessMessage(ctx, "u1", "hmm")
	sess, _ := f.sessions.Get(ctx, "u1")

	// Assert
	if sess == nil || sess.RetryCount != 1 {
		t.Fatalf("expected retry count 1, got %+v", sess)
	}
	if sess.Slots.Time != "15:00" {
		t.Error("expected existing slots to be preserved")
	}
}

func TestConfirm_CalendarFailureIsReportedAndClears(t *testing.T) {
	tests := []struct {
		name   string
		result *domain.EventResult
		err    error
		want   string
	}{
		{"rejected", &domain.EventResult{OK: false, Error: "slot already booked"}, nil, "slot already booked"},
		{"error", nil, errors.New("calendar offline"), "calendar offline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t)
			f.seedMeeting(t)
			f.calendar.CreateEventFunc = func(ctx context.Context, userID string, input domain.EventInput) (*domain.EventResult, error) {
				return tt.result, tt.err
			}

			// Act
			resp := f.orch.ProcessMessage(context.Background(), "u1", "ok")

			// Assert
			if !strings.Contains(resp.Text, tt.want) {
				t.Errorf("expected failure text containing %q, got %q", tt.want, resp.Text)
			}
			if f.sessions.Has("u1") {
				t.Error("expected session cleared after failed execution")
			}
			if len(f.events.GetPublishedMessages(ActionSubject(domain.IntentCreateMeeting))) != 1 {
				t.Error("expected failure event to be published")
			}
		})
	}
}

func TestTask_WithTitleExecutesImmediately(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.llm.extract["add a task to buy milk"] = `{"title":"Buy milk"}`

	// Act
	resp := f.orch.ProcessMessage(context.Background(), "u1", "add a task to buy milk")

	// Assert
	if f.tasks.CreatedCount() != 1 {
		t.Fatalf("expected one task, got %d", f.tasks.CreatedCount())
	}
	if got := f.tasks.Created[0]; got.Title != "Buy milk" || got.Priority != domain.PriorityMedium {
		t.Errorf("expected default priority medium, got %+v", got)
	}
	if f.sessions.Has("u1") {
		t.Error("task with title must not leave a session")
	}
	if !strings.Contains(resp.Text, "Task created: Buy milk") {
		t.Errorf("unexpected reply %q", resp.Text)
	}
}

func TestTask_WithoutTitleAsksThenConfirms(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	f.llm.extract["add a task"] = `{"priority":"high"}`
	f.llm.extract["call the plumber"] = `{"title":"Call the plumber"}`

	// Act
	ask := f.orch.ProcessMessage(ctx, "u1", "add a task")
	prompt := f.orch.ProcessMessage(ctx, "u1", "call the plumber")
	done := f.orch.ProcessMessage(ctx, "u1", "yes")

	// Assert
	if !strings.Contains(ask.Text, f.orch.catalog.Text("en", "need_task_title")) {
		t.Errorf("expected request for title, got %q", ask.Text)
	}
	if !strings.Contains(prompt.Text, "Create this task?") {
		t.Errorf("expected task confirmation, got %q", prompt.Text)
	}
	if f.tasks.CreatedCount() != 1 || f.tasks.Created[0].Priority != domain.PriorityHigh {
		t.Fatalf("expected one high priority task, got %+v", f.tasks.Created)
	}
	if !strings.Contains(done.Text, "Call the plumber") {
		t.Errorf("unexpected reply %q", done.Text)
	}
}

func TestTask_FailureIsReported(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.llm.extract["add a task to file taxes"] = `{"title":"File taxes"}`
	f.tasks.CreateTaskFunc = func(ctx context.Context, userID string, input domain.TaskInput) (*domain.TaskResult, error) {
		return &domain.TaskResult{OK: false, Error: "board is read-only"}, nil
	}

	// Act
	resp := f.orch.ProcessMessage(context.Background(), "u1", "add a task to file taxes")

	// Assert
	if !strings.Contains(resp.Text, "board is read-only") {
		t.Errorf("expected collaborator error in reply, got %q", resp.Text)
	}
}

func TestCallSomeone_OffersCallWithPhone(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.llm.extract["please call +49 30 1234567"] = `{"phone":"+49 30 1234567"}`

	// Act
	resp := f.orch.ProcessMessage(context.Background(), "u1", "please call +49 30 1234567")

	// Assert
	if !strings.Contains(resp.Text, "+49 30 1234567") {
		t.Errorf("expected phone in offer, got %q", resp.Text)
	}
	if f.sessions.Has("u1") {
		t.Error("call_someone must not create a session")
	}
}

func TestOneTurnIntents(t *testing.T) {
	tests := []struct {
		text string
		want domain.Intent
	}{
		{"hello", domain.IntentSmallTalk},
		{"summarize this thread", domain.IntentSummarize},
		{"zz top 99", domain.IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			f := newFixture(t)

			resp := f.orch.ProcessMessage(context.Background(), "u1", tt.text)

			if resp.Text == "" {
				t.Error("expected a reply")
			}
			if resp.Metadata.Intent != tt.want {
				t.Errorf("expected intent %s, got %s", tt.want, resp.Metadata.Intent)
			}
			if f.sessions.Has("u1") {
				t.Error("one-turn intent must not create a session")
			}
		})
	}
}

func TestLocalizedFlow_Russian(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	f.llm.detect = "ru"
	text := "Создай встречу завтра в 15:00"
	f.llm.extract[text] = `{"date":"2026-03-11","time":"15:00","title":"Планерка"}`

	// Act
	ask := f.orch.ProcessMessage(ctx, "u1", text)
	done := f.orch.ProcessMessage(ctx, "u1", "Да")

	// Assert
	if !strings.Contains(ask.Text, "Подтверди?") || !strings.Contains(ask.Text, "Время: 15:00") {
		t.Errorf("expected Russian prompt, got %q", ask.Text)
	}
	if !strings.Contains(done.Text, "Встреча создана") {
		t.Errorf("expected Russian success text, got %q", done.Text)
	}
	if done.Language != "ru" {
		t.Errorf("expected reply language 'ru', got '%s'", done.Language)
	}
}

func TestProcessMessage_RecoversPanic(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.sessions.GetFunc = func(ctx context.Context, userID string) (*domain.PendingSession, bool) {
		panic("corrupted state")
	}

	// Act
	resp := f.orch.ProcessMessage(context.Background(), "u1", "hello")

	// Assert
	if resp.Text != f.orch.catalog.Text("en", "error") {
		t.Errorf("expected generic apology, got %q", resp.Text)
	}
	if resp.Language != "en" {
		t.Errorf("expected default language, got '%s'", resp.Language)
	}
}

func TestProcessMessage_LLMOutageStillReplies(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.llm.failAll = true

	// Act
	resp := f.orch.ProcessMessage(context.Background(), "u1", "qqq www")

	// Assert
	if resp.Text == "" || resp.Metadata.Intent != domain.IntentUnknown {
		t.Errorf("expected unknown-intent reply, got %+v", resp)
	}
}

// The orchestrator does not serialize turns per user. Two concurrent
// requests both write a session and the store keeps the last one.
func TestConcurrentTurns_SameUserLastWriteWins(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.llm.extract[meetingRequest] = `{"date":"2026-03-11","time":"15:00"}`

	// Act
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.orch.ProcessMessage(context.Background(), "u1", meetingRequest)
		}()
	}
	wg.Wait()

	// Assert
	if n := len(f.sessions.ListAll(context.Background())); n != 1 {
		t.Errorf("expected exactly one session, got %d", n)
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Dependencies{}, Config{}, zap.NewNop())
	if err == nil {
		t.Fatal("expected error without collaborators")
	}
}

func TestNew_RejectsUnknownTimezone(t *testing.T) {
	llm := &mocks.MockLLM{}
	log := zap.NewNop()
	_, err := New(Dependencies{
		Sessions:   mocks.NewMockSessionStore(),
		Language:   lang.NewResolver(llm, "en", log),
		Classifier: intent.NewClassifier(llm, log),
		Extractor:  slots.NewExtractor(llm, log),
		Calendar:   &mocks.MockCalendarService{},
		Tasks:      &mocks.MockTaskService{},
	}, Config{Timezone: "Mars/Olympus"}, log)
	if err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
