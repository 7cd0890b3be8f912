package handlers

import (
	"encoding/xml"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

type WhatsAppHandler struct {
	processor   Processor
	verifyToken string
	log         *zap.Logger
}

func NewWhatsAppHandler(processor Processor, verifyToken string, log *zap.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{
		processor:   processor,
		verifyToken: verifyToken,
		log:         log,
	}
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

// Verify answers the webhook subscription handshake.
func (h *WhatsAppHandler) Verify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	if mode == "subscribe" && token != "" && h.verifyToken != "" && token == h.verifyToken {
		return c.SendString(c.Query("hub.challenge"))
	}
	return c.Status(fiber.StatusForbidden).SendString("Forbidden")
}

// Incoming handles an inbound WhatsApp message and replies with TwiML.
func (h *WhatsAppHandler) Incoming(c *fiber.Ctx) error {
	// Form values alias the request buffer and must outlive the handler.
	from := strings.TrimSpace(utils.CopyString(c.FormValue("From")))
	body := utils.CopyString(c.FormValue("Body"))
	userID := strings.TrimPrefix(from, "whatsapp:")

	h.log.Info("WhatsApp message received",
		zap.String("user_id", userID),
		zap.Int("length", len(body)),
	)

	var reply twimlResponse
	if userID != "" && strings.TrimSpace(body) != "" {
		resp := h.processor.ProcessMessage(c.UserContext(), userID, body)
		reply.Message = resp.Text
	}

	out, err := xml.Marshal(reply)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextXMLCharsetUTF8)
	return c.Send(append([]byte(xml.Header), out...))
}
