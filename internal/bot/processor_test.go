package bot

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/motivaedu/coursebot-go/internal/catalog"
	apperrors "github.com/motivaedu/coursebot-go/internal/errors"
	"github.com/motivaedu/coursebot-go/internal/logger"
	"github.com/motivaedu/coursebot-go/internal/notify"
	"github.com/motivaedu/coursebot-go/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSheet = `Curso,Texto Principal,Link PDF,Fecha de Inicio,Fechas de clases,Duración,Horarios,Inscripción Argentina,Inscripción Bolivia,Inscripción Chile,Inscripción Colombia,Inscripción Costa Rica,Inscripción México,Inscripción Paraguay,Inscripción Perú,Inscripción Uruguay,Inscripción Resto Países,FAQ,Alias
Curso de Excel Avanzado,Domina tablas dinamicas y macros.,https://example.com/excel.pdf,08/09/2026,"8, 10 y 15 de septiembre",3 semanas,Lunes y miercoles 19 a 21 hs,100 USD,80 USD,,,,,,,,120 USD,"Si preguntan: dan certificado / entregan diploma
Respuesta: Si, entregamos certificado digital al finalizar.
Si preguntan: quedan grabadas las clases / puedo ver despues
Respuesta: Si, todas las clases quedan grabadas por 60 dias.",excel-pro; planillas
Marketing Digital,Campanas y analitica.,,,,,,,,,,,,,,,90 USD,,
`

type fetcherFunc func(ctx context.Context) (io.ReadCloser, error)

func (f fetcherFunc) Fetch(ctx context.Context) (io.ReadCloser, error) { return f(ctx) }

func sheetFetcher(csv string) catalog.Fetcher {
	return fetcherFunc(func(context.Context) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(csv)), nil
	})
}

type fakeNotifier struct {
	leads []notify.Lead
	err   error
}

func (f *fakeNotifier) NotifyLead(_ context.Context, lead notify.Lead) error {
	f.leads = append(f.leads, lead)
	return f.err
}

func newTestProcessor(t *testing.T, fetcher catalog.Fetcher, notifier notify.Notifier) *Processor {
	t.Helper()
	log := logger.NewWithWriter("error", io.Discard, logger.Options{})
	if notifier == nil {
		notifier = &fakeNotifier{}
	}
	return NewProcessor(Config{
		Catalog:   catalog.NewStore(fetcher, 5*time.Minute, nil, log),
		Sessions:  session.NewStore(time.Hour),
		Notifier:  notifier,
		Logger:    log,
		BrandName: "Motiva",
		BotName:   "Moti",
	})
}

func TestReplyEmptyBodyListsCourses(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(t, sheetFetcher(testSheet), nil)

	reply := p.Reply(context.Background(), "whatsapp:+5491155512345", "  ")

	assert.Contains(t, reply, "Soy Moti de Motiva")
	assert.Contains(t, reply, "- Curso de Excel Avanzado")
	assert.Contains(t, reply, "- Marketing Digital")
}

func TestReplyPriceUsesSenderCountry(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(t, sheetFetcher(testSheet), nil)

	reply := p.Reply(context.Background(), "whatsapp:+5491155512345", "precio curso de excel")

	assert.Contains(t, reply, "100 USD")
	assert.Contains(t, reply, "Argentina")
	assert.NotContains(t, reply, "120 USD")
}

func TestReplyPriceCountryInMessageWins(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(t, sheetFetcher(testSheet), nil)

	reply := p.Reply(context.Background(), "whatsapp:+5491155512345", "precio en bolivia del curso de excel")

	assert.Contains(t, reply, "80 USD")
	assert.Contains(t, reply, "Bolivia")
}

func TestReplySessionCarriesCourseAcrossMessages(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(t, sheetFetcher(testSheet), nil)
	sender := "whatsapp:+5491155512345"

	first := p.Reply(context.Background(), sender, "info excel")
	require.Contains(t, first, "Curso de Excel Avanzado")

	second := p.Reply(context.Background(), sender, "horarios?")
	assert.Contains(t, second, "Horarios: Lunes y miercoles 19 a 21 hs")
	assert.NotContains(t, second, "dime el nombre del curso")
}

func TestReplyAliasResolvesCourse(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(t, sheetFetcher(testSheet), nil)

	reply := p.Reply(context.Background(), "whatsapp:+59899123456", "hola, vi algo de planillas")

	assert.Contains(t, reply, "Curso de Excel Avanzado")
}

func TestReplyFAQAnswered(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(t, sheetFetcher(testSheet), nil)
	sender := "whatsapp:+5491155512345"

	p.Reply(context.Background(), sender, "info excel")
	reply := p.Reply(context.Background(), sender, "dan certificado?")

	assert.Contains(t, reply, "certificado digital")
}

func TestReplyRecordingsAnsweredFromFAQ(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(t, sheetFetcher(testSheet), nil)
	sender := "whatsapp:+5491155512345"

	p.Reply(context.Background(), sender, "info excel")
	reply := p.Reply(context.Background(), sender, "las clases quedan grabadas?")

	assert.Contains(t, reply, "grabadas por 60 dias")
}

func TestReplyEnrollNotifiesAdvisorOnce(t *testing.T) {
	t.Parallel()
	notifier := &fakeNotifier{}
	p := newTestProcessor(t, sheetFetcher(testSheet), notifier)
	sender := "whatsapp:+5491155512345"

	p.Reply(context.Background(), sender, "info excel")
	reply := p.Reply(context.Background(), sender, "quiero inscribirme")

	require.Len(t, notifier.leads, 1)
	assert.Equal(t, sender, notifier.leads[0].SenderID)
	assert.Equal(t, "quiero inscribirme", notifier.leads[0].Message)
	assert.Equal(t, "Curso de Excel Avanzado", notifier.leads[0].CourseName)
	assert.Equal(t, handoffNotifiedReply, reply)
}

func TestReplyEnrollWithoutSessionStillHandsOff(t *testing.T) {
	t.Parallel()
	notifier := &fakeNotifier{}
	p := newTestProcessor(t, sheetFetcher(testSheet), notifier)

	reply := p.Reply(context.Background(), "whatsapp:+5491155512345", "me interesa")

	require.Len(t, notifier.leads, 1)
	assert.Empty(t, notifier.leads[0].CourseName)
	assert.Equal(t, handoffNotifiedReply, reply)
}

func TestReplyEnrollNotificationFailureStillHandsOff(t *testing.T) {
	t.Parallel()
	notifier := &fakeNotifier{err: errors.New("twilio down")}
	p := newTestProcessor(t, sheetFetcher(testSheet), notifier)

	reply := p.Reply(context.Background(), "whatsapp:+5491155512345", "quiero inscribirme")

	assert.Equal(t, handoffReply, reply)
}

func TestReplyEnrollNotifierDisabled(t *testing.T) {
	t.Parallel()
	notifier := &fakeNotifier{err: apperrors.ErrNotifierDisabled}
	p := newTestProcessor(t, sheetFetcher(testSheet), notifier)

	reply := p.Reply(context.Background(), "whatsapp:+5491155512345", "me interesa")

	assert.Equal(t, handoffReply, reply)
}

func TestReplySpecificIntentWithoutCoursePrompts(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(t, sheetFetcher(testSheet), nil)

	reply := p.Reply(context.Background(), "whatsapp:+5491155512345", "cuanto cuesta")

	assert.Contains(t, reply, "dime el nombre del curso")
	assert.Contains(t, reply, "- Curso de Excel Avanzado")
}

func TestReplyUnrelatedMessageGreets(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(t, sheetFetcher(testSheet), nil)

	reply := p.Reply(context.Background(), "whatsapp:+5491155512345", "buenas tardes")

	assert.Contains(t, reply, "Soy Moti de Motiva")
}

func TestReplyCatalogFailureApologizes(t *testing.T) {
	t.Parallel()
	failing := fetcherFunc(func(context.Context) (io.ReadCloser, error) {
		return nil, apperrors.NewDataSourceError("https://sheet", 0, errors.New("timeout"))
	})
	p := newTestProcessor(t, failing, nil)

	reply := p.Reply(context.Background(), "whatsapp:+5491155512345", "hola")

	assert.Equal(t, apologyReply, reply)
}

func TestReplyEmptyCatalogGreeting(t *testing.T) {
	t.Parallel()
	header := strings.SplitN(testSheet, "\n", 2)[0]
	p := newTestProcessor(t, sheetFetcher(header+"\n"), nil)

	reply := p.Reply(context.Background(), "whatsapp:+5491155512345", "")

	assert.Equal(t, "Hola. Aun no hay cursos publicados.", reply)
}
