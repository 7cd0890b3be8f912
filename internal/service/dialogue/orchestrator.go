package dialogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/seu-repo/ai-secretary/internal/adapter/queue"
	"github.com/seu-repo/ai-secretary/internal/domain"
	"github.com/seu-repo/ai-secretary/internal/observability/telemetry"
	"github.com/seu-repo/ai-secretary/internal/ports"
)

const (
	DefaultTimezone        = "Europe/Berlin"
	DefaultMeetingDuration = 30
)

type Config struct {
	DefaultLanguage        string
	Timezone               string
	DefaultMeetingDuration int
	DefaultTaskPriority    domain.Priority
}

// Dependencies are the collaborators of the orchestrator. Events is optional.
type Dependencies struct {
	Sessions   ports.SessionStore
	Language   ports.LanguageResolver
	Classifier ports.IntentClassifier
	Extractor  ports.SlotExtractor
	Calendar   ports.CalendarService
	Tasks      ports.TaskService
	Events     queue.MessageQueue
}

// turn carries the per-message state shared by intent handlers.
type turn struct {
	userID string
	text   string
	lang   string
	result domain.IntentResult
}

type intentHandler func(ctx context.Context, t *turn) domain.Response

// actionExecutor runs a confirmed action with the accumulated slots.
type actionExecutor func(ctx context.Context, userID, lang string, slots domain.Slots) domain.Response

// Orchestrator is the dialogue state machine. It holds no per-user state:
// every turn reloads the pending session from the store.
type Orchestrator struct {
	deps      Dependencies
	cfg       Config
	loc       *time.Location
	catalog   *Catalog
	handlers  map[domain.Intent]intentHandler
	executors map[domain.Intent]actionExecutor
	tracer    trace.Tracer
	log       *zap.Logger
}

func New(deps Dependencies, cfg Config, log *zap.Logger) (*Orchestrator, error) {
	switch {
	case deps.Sessions == nil:
		return nil, errors.New("dialogue: session store is required")
	case deps.Language == nil:
		return nil, errors.New("dialogue: language resolver is required")
	case deps.Classifier == nil:
		return nil, errors.New("dialogue: intent classifier is required")
	case deps.Extractor == nil:
		return nil, errors.New("dialogue: slot extractor is required")
	case deps.Calendar == nil:
		return nil, errors.New("dialogue: calendar service is required")
	case deps.Tasks == nil:
		return nil, errors.New("dialogue: task service is required")
	}

	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = fallbackLocale
	}
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	if cfg.DefaultMeetingDuration <= 0 {
		cfg.DefaultMeetingDuration = DefaultMeetingDuration
	}
	if cfg.DefaultTaskPriority == "" {
		cfg.DefaultTaskPriority = domain.PriorityMedium
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("dialogue: load timezone %q: %w", cfg.Timezone, err)
	}
	catalog, err := LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("dialogue: %w", err)
	}

	o := &Orchestrator{
		deps:    deps,
		cfg:     cfg,
		loc:     loc,
		catalog: catalog,
		tracer:  otel.Tracer("github.com/seu-repo/ai-secretary/dialogue"),
		log:     log,
	}
	o.handlers = map[domain.Intent]intentHandler{
		domain.IntentCreateMeeting: o.handleCreateMeeting,
		domain.IntentCreateTask:    o.handleCreateTask,
		domain.IntentCallSomeone:   o.handleCallSomeone,
		domain.IntentSummarize:     o.handleSummarize,
		domain.IntentTranslate:     o.handleTranslate,
		domain.IntentSmallTalk:     o.handleSmallTalk,
		domain.IntentUnknown:       o.handleUnknown,
	}
	o.executors = map[domain.Intent]actionExecutor{
		domain.IntentCreateMeeting: o.executeMeeting,
		domain.IntentCreateTask:    o.executeTask,
	}

	for _, in := range domain.AllIntents {
		if _, ok := o.handlers[in]; !ok {
			return nil, fmt.Errorf("dialogue: no handler for intent %s", in)
		}
	}
	return o, nil
}

// ProcessMessage consumes one inbound message and always returns a reply.
// Panics inside the turn are recovered into a generic apology.
func (o *Orchestrator) ProcessMessage(ctx context.Context, userID, text string) (resp domain.Response) {
	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "dialogue.ProcessMessage",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	defer func() {
		outcome := "ok"
		if r := recover(); r != nil {
			outcome = "panic"
			o.log.Error("Recovered panic in dialogue turn",
				zap.String("user_id", userID),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			span.SetStatus(codes.Error, fmt.Sprint(r))
			resp = o.apology()
		}

		intent := "none"
		if resp.Metadata != nil && resp.Metadata.Intent != "" {
			intent = resp.Metadata.Intent.String()
		}
		span.SetAttributes(attribute.String("dialogue.intent", intent))
		telemetry.TurnsTotal.WithLabelValues(intent, outcome).Inc()
		telemetry.TurnDuration.Observe(time.Since(start).Seconds())
	}()

	return o.process(ctx, userID, text)
}

func (o *Orchestrator) process(ctx context.Context, userID, text string) domain.Response {
	if sess, ok := o.deps.Sessions.Get(ctx, userID); ok {
		o.log.Debug("Continuing pending session",
			zap.String("user_id", userID),
			zap.String("intent", sess.Intent.String()),
			zap.String("step", sess.Step),
		)
		return o.continueSession(ctx, sess, text)
	}

	detected := o.deps.Language.DetectLanguage(ctx, text)
	result := o.deps.Classifier.Classify(ctx, text)
	result.Language = detected

	handler, ok := o.handlers[result.Intent]
	if !ok {
		result = domain.UnknownIntent()
		result.Language = detected
		handler = o.handlers[domain.IntentUnknown]
	}

	o.log.Info("Classified message",
		zap.String("user_id", userID),
		zap.String("intent", result.Intent.String()),
		zap.Float64("confidence", result.Confidence),
		zap.String("language", detected),
	)

	return handler(ctx, &turn{userID: userID, text: text, lang: detected, result: result})
}

func (o *Orchestrator) continueSession(ctx context.Context, sess *domain.PendingSession, text string) domain.Response {
	lang := sess.Language
	if lang == "" {
		lang = o.cfg.DefaultLanguage
	}

	switch {
	case o.catalog.IsConfirm(text):
		return o.confirm(ctx, sess, lang)
	case o.catalog.IsCancel(text):
		o.deps.Sessions.Clear(ctx, sess.UserID)
		return o.reply(lang, o.catalog.Text(lang, "cancelled"), sess.Intent, nil)
	default:
		return o.supplement(ctx, sess, lang, text)
	}
}

// confirm runs the pending action, or re-asks when required fields are
// still missing. Re-asking consumes the retry budget.
func (o *Orchestrator) confirm(ctx context.Context, sess *domain.PendingSession, lang string) domain.Response {
	if len(sess.Slots.Missing(sess.Intent)) > 0 {
		if !o.deps.Sessions.IncrementRetry(ctx, sess.UserID) {
			return o.reply(lang, o.catalog.Text(lang, "retry_exhausted"), sess.Intent, nil)
		}
		return o.reply(lang, o.prompt(lang, sess.Intent, sess.Slots), sess.Intent, &sess.Slots)
	}

	exec, ok := o.executors[sess.Intent]
	if !ok {
		o.deps.Sessions.Clear(ctx, sess.UserID)
		return o.reply(lang, o.catalog.Text(lang, "confirmed"), sess.Intent, nil)
	}
	return exec(ctx, sess.UserID, lang, sess.Slots)
}

// supplement merges slots extracted from a free-text reply into the session.
// A reply that adds nothing consumes the retry budget.
func (o *Orchestrator) supplement(ctx context.Context, sess *domain.PendingSession, lang, text string) domain.Response {
	extracted := o.deps.Extractor.ExtractSlots(ctx, text, sess.Intent, lang, o.cfg.Timezone)
	if extracted.IsEmpty() {
		if !o.deps.Sessions.IncrementRetry(ctx, sess.UserID) {
			return o.reply(lang, o.catalog.Text(lang, "retry_exhausted"), sess.Intent, nil)
		}
		return o.reply(lang, o.prompt(lang, sess.Intent, sess.Slots), sess.Intent, &sess.Slots)
	}

	sess.Slots = sess.Slots.Merge(extracted)
	o.deps.Sessions.Set(ctx, sess.UserID, sess)
	return o.reply(lang, o.prompt(lang, sess.Intent, sess.Slots), sess.Intent, &sess.Slots)
}

// startSession persists a new confirm-step session and asks the user.
func (o *Orchestrator) startSession(ctx context.Context, t *turn, slots domain.Slots) domain.Response {
	o.deps.Sessions.Set(ctx, t.userID, &domain.PendingSession{
		UserID:   t.userID,
		Step:     domain.StepConfirm,
		Intent:   t.result.Intent,
		Slots:    slots,
		Language: t.lang,
	})
	resp := o.reply(t.lang, o.prompt(t.lang, t.result.Intent, slots), t.result.Intent, &slots)
	resp.Metadata.Confidence = t.result.Confidence
	return resp
}

func (o *Orchestrator) reply(lang, text string, intent domain.Intent, slots *domain.Slots) domain.Response {
	resp := domain.Response{
		Text:     text,
		TTS:      true,
		Language: lang,
		Metadata: &domain.ResponseMetadata{Intent: intent},
	}
	if slots != nil && !slots.IsEmpty() {
		s := *slots
		resp.Metadata.Slots = &s
	}
	return resp
}

func (o *Orchestrator) apology() domain.Response {
	lang := o.cfg.DefaultLanguage
	return domain.Response{
		Text:     o.catalog.Text(lang, "error"),
		TTS:      true,
		Language: lang,
	}
}

func (o *Orchestrator) publish(userID string, intent domain.Intent, ok bool, resourceID, errText string) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	telemetry.ActionsTotal.WithLabelValues(intent.String(), status).Inc()

	if o.deps.Events == nil {
		return
	}
	event := domain.ActionEvent{
		Type:       "action." + status,
		UserID:     userID,
		Intent:     intent,
		OK:         ok,
		ResourceID: resourceID,
		Error:      errText,
		OccurredAt: time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		o.log.Error("Failed to encode action event", zap.Error(err))
		return
	}
	if err := o.deps.Events.Publish(ActionSubject(intent), data); err != nil {
		o.log.Warn("Failed to publish action event",
			zap.String("user_id", userID),
			zap.String("intent", intent.String()),
			zap.Error(err),
		)
	}
}

// ActionSubject is the NATS subject action events for intent are published on.
func ActionSubject(intent domain.Intent) string {
	return "secretary.actions." + intent.String()
}
