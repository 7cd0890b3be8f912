package dialogue

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/seu-repo/ai-secretary/internal/domain"
	"github.com/seu-repo/ai-secretary/internal/service/lang"
)

const fallbackTranslateTarget = "en"

// Meetings always go through confirmation, even when date and time arrive
// in the first message.
func (o *Orchestrator) handleCreateMeeting(ctx context.Context, t *turn) domain.Response {
	slots := o.deps.Extractor.ExtractSlots(ctx, t.text, domain.IntentCreateMeeting, t.lang, o.cfg.Timezone)
	return o.startSession(ctx, t, slots)
}

func (o *Orchestrator) handleCreateTask(ctx context.Context, t *turn) domain.Response {
	slots := o.deps.Extractor.ExtractSlots(ctx, t.text, domain.IntentCreateTask, t.lang, o.cfg.Timezone)
	if len(slots.Missing(domain.IntentCreateTask)) > 0 {
		return o.startSession(ctx, t, slots)
	}

	resp := o.executeTask(ctx, t.userID, t.lang, slots)
	resp.Metadata.Confidence = t.result.Confidence
	return resp
}

func (o *Orchestrator) handleCallSomeone(ctx context.Context, t *turn) domain.Response {
	slots := o.deps.Extractor.ExtractSlots(ctx, t.text, domain.IntentCallSomeone, t.lang, o.cfg.Timezone)

	text := o.catalog.Text(t.lang, "call_offer")
	if slots.Phone != "" {
		text = o.catalog.Text(t.lang, "call_offer_phone", slots.Phone)
	}
	return o.oneShot(t, text, &slots)
}

func (o *Orchestrator) handleSummarize(ctx context.Context, t *turn) domain.Response {
	return o.oneShot(t, o.catalog.Text(t.lang, "summarize"), nil)
}

func (o *Orchestrator) handleTranslate(ctx context.Context, t *turn) domain.Response {
	target, body, ok := parseTranslateRequest(t.text)
	if !ok {
		slots := o.deps.Extractor.ExtractSlots(ctx, t.text, domain.IntentTranslate, t.lang, o.cfg.Timezone)
		target = slots.TargetLang
	}
	if target == "" {
		target = fallbackTranslateTarget
	}

	translated := o.deps.Language.Translate(ctx, body, target, t.lang)
	resp := o.oneShot(t, o.catalog.Text(t.lang, "translation", lang.LanguageName(target), translated), &domain.Slots{TargetLang: target})
	resp.Language = target
	return resp
}

func (o *Orchestrator) handleSmallTalk(ctx context.Context, t *turn) domain.Response {
	return o.oneShot(t, o.catalog.SmallTalk(t.lang), nil)
}

func (o *Orchestrator) handleUnknown(ctx context.Context, t *turn) domain.Response {
	return o.oneShot(t, o.catalog.Unknown(t.lang), nil)
}

func (o *Orchestrator) oneShot(t *turn, text string, slots *domain.Slots) domain.Response {
	resp := o.reply(t.lang, text, t.result.Intent, slots)
	resp.Metadata.Confidence = t.result.Confidence
	return resp
}

// prompt renders the known slots and either asks for the missing required
// fields or for a yes/no confirmation.
func (o *Orchestrator) prompt(locale string, intent domain.Intent, slots domain.Slots) string {
	missing := slots.Missing(intent)

	var head string
	switch {
	case intent == domain.IntentCreateMeeting && len(missing) > 0:
		head = o.catalog.Text(locale, "need_meeting_datetime")
	case intent == domain.IntentCreateTask && len(missing) > 0:
		head = o.catalog.Text(locale, "need_task_title")
	case intent == domain.IntentCreateMeeting:
		head = o.catalog.Text(locale, "confirm_meeting")
	case intent == domain.IntentCreateTask:
		head = o.catalog.Text(locale, "confirm_task")
	}

	var b strings.Builder
	b.WriteString(head)
	if lines := slots.Lines(func(field string) string { return o.catalog.Label(locale, field) }); len(lines) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.Join(lines, "\n"))
	}
	if len(missing) == 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(o.catalog.Text(locale, "confirm_question"))
	}
	return b.String()
}

func (o *Orchestrator) executeMeeting(ctx context.Context, userID, locale string, slots domain.Slots) domain.Response {
	ctx, span := o.tracer.Start(ctx, "dialogue.executeMeeting")
	defer span.End()

	duration := slots.DurationMin
	if duration <= 0 {
		duration = o.cfg.DefaultMeetingDuration
	}
	title := slots.Title
	if title == "" {
		title = o.catalog.Text(locale, "default_meeting_title")
	}

	fail := func(reason string) domain.Response {
		o.log.Warn("Meeting creation failed", zap.String("user_id", userID), zap.String("error", reason))
		o.publish(userID, domain.IntentCreateMeeting, false, "", reason)
		return o.reply(locale, o.catalog.Text(locale, "meeting_failed", reason), domain.IntentCreateMeeting, &slots)
	}

	start, end, err := meetingWindow(slots.Date, slots.Time, o.loc, duration)
	if err != nil {
		o.deps.Sessions.Clear(ctx, userID)
		return fail(err.Error())
	}

	res, err := o.deps.Calendar.CreateEvent(ctx, userID, domain.EventInput{
		Title:       title,
		Start:       start,
		End:         end,
		Attendees:   slots.Attendees,
		Location:    slots.Location,
		Description: slots.Description,
		Zoom:        true,
	})
	o.deps.Sessions.Clear(ctx, userID)

	switch {
	case err != nil:
		return fail(err.Error())
	case res == nil:
		return fail("no result from calendar")
	case !res.OK:
		if res.Error == "" {
			return fail("calendar rejected the request")
		}
		return fail(res.Error)
	}

	span.SetAttributes(attribute.String("calendar.event_id", res.ID))
	o.publish(userID, domain.IntentCreateMeeting, true, res.ID, "")

	var b strings.Builder
	b.WriteString(o.catalog.Text(locale, "meeting_created", title, formatWindow(start, end)))
	if res.JoinURL != "" {
		b.WriteString("\n")
		b.WriteString(o.catalog.Text(locale, "meeting_join", res.JoinURL))
	}
	if len(slots.Attendees) > 0 {
		b.WriteString("\n")
		b.WriteString(o.catalog.Text(locale, "meeting_attendees", strings.Join(slots.Attendees, ", ")))
	}

	applied := slots
	applied.Title = title
	applied.DurationMin = duration
	return o.reply(locale, b.String(), domain.IntentCreateMeeting, &applied)
}

func (o *Orchestrator) executeTask(ctx context.Context, userID, locale string, slots domain.Slots) domain.Response {
	ctx, span := o.tracer.Start(ctx, "dialogue.executeTask")
	defer span.End()

	title := slots.Title
	if title == "" {
		title = o.catalog.Text(locale, "default_task_title")
	}
	priority := slots.Priority
	if priority == "" {
		priority = o.cfg.DefaultTaskPriority
	}

	res, err := o.deps.Tasks.CreateTask(ctx, userID, domain.TaskInput{
		Title:       title,
		Description: slots.Description,
		DueAt:       slots.DueDate,
		Priority:    priority,
	})
	o.deps.Sessions.Clear(ctx, userID)

	var reason string
	switch {
	case err != nil:
		reason = err.Error()
	case res == nil:
		reason = "no result from task board"
	case !res.OK || res.Task == nil:
		reason = res.Error
		if reason == "" {
			reason = "task board rejected the request"
		}
	}
	if reason != "" {
		o.log.Warn("Task creation failed", zap.String("user_id", userID), zap.String("error", reason))
		o.publish(userID, domain.IntentCreateTask, false, "", reason)
		return o.reply(locale, o.catalog.Text(locale, "task_failed", reason), domain.IntentCreateTask, &slots)
	}

	span.SetAttributes(attribute.String("task.id", res.Task.ID))
	o.publish(userID, domain.IntentCreateTask, true, res.Task.ID, "")

	applied := slots
	applied.Title = title
	applied.Priority = priority
	return o.reply(locale, o.catalog.Text(locale, "task_created", res.Task.Title), domain.IntentCreateTask, &applied)
}
