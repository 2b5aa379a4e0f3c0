// Package webhook is the Twilio-facing HTTP surface: it reads the inbound
// WhatsApp form payload, delegates to the bot processor, and answers with a
// TwiML envelope. Twilio retries non-2xx responses, so the handler always
// answers 200 with some reply text.
package webhook

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/motivaedu/coursebot-go/internal/bot"
	"github.com/motivaedu/coursebot-go/internal/ctxutil"
	"github.com/motivaedu/coursebot-go/internal/logger"
	"github.com/motivaedu/coursebot-go/internal/metrics"
	"github.com/motivaedu/coursebot-go/internal/ratelimit"
)

const contentTypeXML = "application/xml"

const rateLimitedReply = "Estas enviando mensajes muy rapido. Espera un momento e intenta de nuevo."

// Handler serves the /whatsapp webhook.
type Handler struct {
	processor *bot.Processor
	limiter   *ratelimit.SenderLimiter // nil disables limiting
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// New creates the webhook handler.
func New(p *bot.Processor, limiter *ratelimit.SenderLimiter, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{
		processor: p,
		limiter:   limiter,
		metrics:   m,
		logger:    log.WithModule("webhook"),
	}
}

// HandleWhatsApp answers one inbound message. Twilio posts From and Body as
// form values; the sandbox console also probes with GET, so both methods are
// accepted and read through the merged form.
func (h *Handler) HandleWhatsApp(c *gin.Context) {
	start := time.Now()

	sender := c.Request.FormValue("From")
	body := c.Request.FormValue("Body")

	if !h.limiter.Allow(sender) {
		if h.metrics != nil {
			h.metrics.RateLimitedTotal.Inc()
			h.metrics.WebhookRequestsTotal.WithLabelValues("rate_limited").Inc()
		}
		h.logger.WithField("sender", sender).Warn("Sender rate limited")
		c.Data(http.StatusOK, contentTypeXML, []byte(Envelope(rateLimitedReply)))
		return
	}

	ctx := ctxutil.WithSenderID(c.Request.Context(), sender)
	reply := h.processor.Reply(ctx, sender, body)

	if h.metrics != nil {
		h.metrics.WebhookRequestsTotal.WithLabelValues("ok").Inc()
		h.metrics.WebhookDurationSeconds.Observe(time.Since(start).Seconds())
	}
	h.logger.WithRequestID(ctxutil.GetRequestID(c.Request.Context())).
		WithField("sender", sender).
		WithField("elapsed_ms", time.Since(start).Milliseconds()).
		Debug("Webhook handled")

	c.Data(http.StatusOK, contentTypeXML, []byte(Envelope(reply)))
}
