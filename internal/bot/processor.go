// Package bot sequences the message-understanding pipeline into one reply
// per inbound message: normalize, classify, resolve a course, remember it in
// the session, and compose the answer in priority order. Enrollment intent
// short-circuits into a human handoff.
package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/motivaedu/coursebot-go/internal/catalog"
	"github.com/motivaedu/coursebot-go/internal/ctxutil"
	apperrors "github.com/motivaedu/coursebot-go/internal/errors"
	"github.com/motivaedu/coursebot-go/internal/faq"
	"github.com/motivaedu/coursebot-go/internal/intent"
	"github.com/motivaedu/coursebot-go/internal/leadlog"
	"github.com/motivaedu/coursebot-go/internal/logger"
	"github.com/motivaedu/coursebot-go/internal/metrics"
	"github.com/motivaedu/coursebot-go/internal/notify"
	"github.com/motivaedu/coursebot-go/internal/resolver"
	"github.com/motivaedu/coursebot-go/internal/session"
	"github.com/motivaedu/coursebot-go/internal/textnorm"
)

// Processor owns the per-message decision flow. Catalog and session state
// are injected at startup and shared across all requests.
type Processor struct {
	catalog  *catalog.Store
	sessions *session.Store
	notifier notify.Notifier
	leads    *leadlog.Log
	metrics  *metrics.Metrics
	logger   *logger.Logger

	brandName string
	botName   string
}

// Config holds the collaborators and branding for a Processor.
type Config struct {
	Catalog  *catalog.Store
	Sessions *session.Store
	Notifier notify.Notifier
	Leads    *leadlog.Log // optional
	Metrics  *metrics.Metrics
	Logger   *logger.Logger

	BrandName string
	BotName   string
}

// NewProcessor creates the dialogue orchestrator.
func NewProcessor(cfg Config) *Processor {
	return &Processor{
		catalog:   cfg.Catalog,
		sessions:  cfg.Sessions,
		notifier:  cfg.Notifier,
		leads:     cfg.Leads,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.WithModule("bot"),
		brandName: cfg.BrandName,
		botName:   cfg.BotName,
	}
}

// Reply computes the reply for one inbound message. It never returns an
// error or panics to the transport: any failure while composing becomes a
// fixed apology, and the user is never shown raw error text.
func (p *Processor) Reply(ctx context.Context, senderID, body string) (reply string) {
	log := p.logger.WithField("sender", senderID).WithRequestID(ctxutil.GetRequestID(ctx))

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Panic while composing reply")
			p.countReply("apology")
			reply = apologyReply
		}
	}()

	body = strings.TrimSpace(body)
	log.WithField("body_len", len(body)).Debug("Inbound message")

	snap, err := p.catalog.Snapshot(ctx, false)
	if err != nil {
		log.WithError(err).Error("Catalog unavailable while composing reply")
		p.countReply("apology")
		return apologyReply
	}

	if body == "" {
		p.countReply("greeting")
		return p.greeting(snap.Titles())
	}

	folded := textnorm.Fold(body)
	intents := intent.Classify(folded)

	if intents.Has(intent.Enroll) {
		return p.handoff(ctx, snap, senderID, body, log)
	}

	course, stage := resolver.Resolve(snap, body)
	p.countStage(string(stage))

	if course != nil {
		p.sessions.Put(senderID, course)
		return p.answerCourse(course, intents, folded, senderID)
	}

	if course := p.sessions.Get(senderID); course != nil {
		p.countStage("session")
		return p.answerCourse(course, intents, folded, senderID)
	}

	if intents.Specific() {
		p.countReply("prompt")
		return p.promptForCourse(snap.Titles())
	}
	p.countReply("greeting")
	return p.greeting(snap.Titles())
}

// answerCourse replies about a known course: specific intents first, then a
// free-text FAQ match, then the full course card.
func (p *Processor) answerCourse(course *catalog.Course, intents intent.Set, folded, senderID string) string {
	if intents.Specific() {
		if reply := p.answerIntents(course, intents, folded, senderID); reply != "" {
			p.countReply("intents")
			return reply
		}
	}
	if answer := faq.Match(course, folded); answer != "" {
		p.countReply("faq")
		return answer
	}
	p.countReply("card")
	return p.courseCard(course, folded, senderID)
}

// handoff notifies the advisor and hands the conversation to a human. The
// user gets a handoff reply regardless of whether the notification went out;
// only the wording acknowledges delivery.
func (p *Processor) handoff(ctx context.Context, snap *catalog.Snapshot, senderID, body string, log *logger.Logger) string {
	courseName := ""
	course, _ := resolver.Resolve(snap, body)
	if course == nil {
		course = p.sessions.Get(senderID)
	}
	if course != nil {
		courseName = course.Title
	}

	err := p.notifier.NotifyLead(ctx, notify.Lead{
		SenderID:   senderID,
		Message:    body,
		CourseName: courseName,
	})
	notified := err == nil
	if err != nil && !errors.Is(err, apperrors.ErrNotifierDisabled) {
		log.WithError(err).Error("Advisor notification failed during handoff")
	}

	if err := p.leads.Record(ctx, senderID, body, courseName, notified); err != nil {
		log.WithError(err).Error("Failed to record lead in audit log")
	}

	p.countReply("handoff")
	if notified {
		return handoffNotifiedReply
	}
	return handoffReply
}

func (p *Processor) countReply(kind string) {
	if p.metrics != nil {
		p.metrics.RepliesTotal.WithLabelValues(kind).Inc()
	}
}

func (p *Processor) countStage(stage string) {
	if p.metrics != nil {
		p.metrics.ResolverOutcomes.WithLabelValues(stage).Inc()
	}
}
