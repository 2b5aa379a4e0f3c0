// Package notify delivers lead notices to a human advisor over the Twilio
// Messages REST API. Delivery is best-effort: missing credentials are a
// silent no-op and failures never block the user-facing handoff reply.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/motivaedu/coursebot-go/internal/ctxutil"
	apperrors "github.com/motivaedu/coursebot-go/internal/errors"
	"github.com/motivaedu/coursebot-go/internal/logger"
	"github.com/motivaedu/coursebot-go/internal/metrics"
)

const defaultAPIBase = "https://api.twilio.com"

// Notifier sends advisor handoff notifications. Implementations report
// delivery success so the composer can word the reply accordingly.
type Notifier interface {
	NotifyLead(ctx context.Context, lead Lead) error
}

// Lead describes one enrollment handoff.
type Lead struct {
	SenderID   string
	Message    string
	CourseName string // empty when no course was resolved
}

// TwilioNotifier forwards leads to the configured advisor WhatsApp number.
type TwilioNotifier struct {
	accountSID string
	authToken  string
	from       string
	to         string
	brandName  string
	apiBase    string
	client     *http.Client
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

// Config holds the Twilio credentials and destination for lead notices.
type Config struct {
	AccountSID string
	AuthToken  string
	From       string
	To         string
	BrandName  string
	Timeout    time.Duration
	APIBase    string // overridable for tests; defaults to the Twilio API
}

// NewTwilio creates a Twilio-backed notifier.
func NewTwilio(cfg Config, m *metrics.Metrics, log *logger.Logger) *TwilioNotifier {
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	return &TwilioNotifier{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.From,
		to:         cfg.To,
		brandName:  cfg.BrandName,
		apiBase:    apiBase,
		client:     &http.Client{Timeout: cfg.Timeout},
		metrics:    m,
		logger:     log.WithModule("notify"),
	}
}

// configured reports whether every credential needed to deliver is present.
func (n *TwilioNotifier) configured() bool {
	return n.accountSID != "" && n.authToken != "" && n.from != "" && n.to != ""
}

// NotifyLead posts a formatted lead notice to the advisor number. A single
// attempt with a bounded timeout, no retry. Returns ErrNotifierDisabled when
// credentials are absent and a NotificationError on delivery failure.
func (n *TwilioNotifier) NotifyLead(ctx context.Context, lead Lead) error {
	if !n.configured() {
		if n.metrics != nil {
			n.metrics.NotificationsTotal.WithLabelValues("disabled").Inc()
		}
		return apperrors.ErrNotifierDisabled
	}

	body := []string{
		fmt.Sprintf("Nuevo lead para %s", n.brandName),
		fmt.Sprintf("Desde: %s", lead.SenderID),
		fmt.Sprintf("Mensaje: %s", lead.Message),
	}
	if lead.CourseName != "" {
		body = append(body, fmt.Sprintf("Curso: %s", lead.CourseName))
	}

	form := url.Values{}
	form.Set("From", n.from)
	form.Set("To", n.to)
	form.Set("Body", strings.Join(body, "\n"))

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", n.apiBase, n.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return n.fail(ctx, apperrors.NewNotificationError(0, err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(n.accountSID, n.authToken)

	resp, err := n.client.Do(req)
	if err != nil {
		return n.fail(ctx, apperrors.NewNotificationError(0, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return n.fail(ctx, apperrors.NewNotificationError(resp.StatusCode,
			fmt.Errorf("unexpected status %s", resp.Status)))
	}

	if n.metrics != nil {
		n.metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	}
	n.log(ctx).WithField("course", lead.CourseName).Info("Lead notice delivered to advisor")
	return nil
}

func (n *TwilioNotifier) fail(ctx context.Context, err error) error {
	if n.metrics != nil {
		n.metrics.NotificationsTotal.WithLabelValues("failed").Inc()
	}
	n.log(ctx).WithError(err).Error("Lead notice delivery failed")
	return err
}

func (n *TwilioNotifier) log(ctx context.Context) *logger.Logger {
	return n.logger.
		WithRequestID(ctxutil.GetRequestID(ctx)).
		WithField("sender", ctxutil.GetSenderID(ctx))
}
