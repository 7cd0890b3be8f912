package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Routes groups the handlers mounted by Register. Nil handlers are skipped.
type Routes struct {
	Messages *MessageHandler
	WhatsApp *WhatsAppHandler
	Agenda   *AgendaHandler
	Sessions *SessionHandler
	Metrics  bool
}

func Register(app fiber.Router, r Routes) {
	if r.Metrics {
		// Adapt net/http handler to fasthttp for Fiber
		metrics := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get("/metrics", func(c *fiber.Ctx) error {
			metrics(c.Context())
			return nil
		})
	}

	if r.WhatsApp != nil {
		app.Get("/webhook/whatsapp", r.WhatsApp.Verify)
		app.Post("/webhook/whatsapp", r.WhatsApp.Incoming)
	}

	v1 := app.Group("/api/v1")
	if r.Messages != nil {
		v1.Post("/messages", r.Messages.Process)
	}
	if r.Agenda != nil {
		v1.Get("/users/:id/tasks", r.Agenda.ListTasks)
		v1.Get("/users/:id/free-slots", r.Agenda.FreeSlots)
	}
	if r.Sessions != nil {
		v1.Get("/sessions", r.Sessions.List)
		v1.Delete("/sessions/:id", r.Sessions.Clear)
	}
}
