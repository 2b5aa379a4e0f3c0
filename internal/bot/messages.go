package bot

import (
	"fmt"
	"strings"

	"github.com/motivaedu/coursebot-go/internal/catalog"
	"github.com/motivaedu/coursebot-go/internal/faq"
	"github.com/motivaedu/coursebot-go/internal/intent"
	"github.com/motivaedu/coursebot-go/internal/pricing"
)

// Fixed user-facing texts. Replies are WhatsApp plain text; paragraphs are
// separated by blank lines and course listings use a bullet marker.
const (
	bulletMarker = "- "

	apologyReply = "Ocurrio un detalle al procesar tu mensaje. Intenta nuevamente en un momento."

	handoffNotifiedReply = "Perfecto. Te conecto con un coordinador humano para tu inscripcion. " +
		"Nuestro equipo ya fue avisado y te escribira en breve."
	handoffReply = "Perfecto. Te conecto con un coordinador humano para tu inscripcion."

	modalityAnswer    = "Modalidad en vivo por videoconferencia (clases sincronicas)."
	methodologyAnswer = "Metodologia: clases en vivo con ejercicios guiados y material de apoyo descargable."

	enrollCTA = `Si deseas inscribirte, responde: "me interesa" o "quiero inscribirme".`
)

// greeting lists every course title, or explains that none are published.
func (p *Processor) greeting(titles []string) string {
	if len(titles) == 0 {
		return "Hola. Aun no hay cursos publicados."
	}
	return fmt.Sprintf("Hola. Soy %s de %s.\n\nCursos:\n%s",
		p.botName, p.brandName, bulletList(titles))
}

// promptForCourse asks for the course name when something specific was asked
// but no course could be resolved.
func (p *Processor) promptForCourse(titles []string) string {
	if len(titles) == 0 {
		return fmt.Sprintf("Por ahora no encuentro cursos publicados en %s.", p.brandName)
	}
	return fmt.Sprintf("Para ayudarte mejor, dime el nombre del curso.\n\nCursos:\n%s\n\n%s",
		bulletList(titles), `Tambien puedes escribir "me interesa" para hablar con un coordinador.`)
}

// courseCard is the full course presentation: description, key dates, the
// sender's price, and the PDF link. Empty fields are skipped.
func (p *Processor) courseCard(course *catalog.Course, foldedMessage, senderID string) string {
	var parts []string
	if course.Title != "" {
		parts = append(parts, fmt.Sprintf("*%s* - %s", course.Title, p.brandName))
	}
	if course.MainText != "" {
		parts = append(parts, course.MainText)
	}
	if course.StartDate != "" {
		parts = append(parts, fmt.Sprintf("Inicio: %s", course.StartDate))
	}
	if course.Duration != "" {
		parts = append(parts, fmt.Sprintf("Duracion: %s", course.Duration))
	}
	if course.Schedule != "" {
		parts = append(parts, fmt.Sprintf("Horarios: %s", course.Schedule))
	}
	if line := priceLine(course, foldedMessage, senderID); line != "" {
		parts = append(parts, line)
	}
	if course.PDFLink != "" {
		parts = append(parts, fmt.Sprintf("PDF informativo: %s", course.PDFLink))
	}
	parts = append(parts, enrollCTA)
	return strings.Join(parts, "\n\n")
}

// answerIntents answers every detected specific intent from the course's
// fields, concatenated in a fixed order. Returns empty when no intent could
// be answered from the record.
func (p *Processor) answerIntents(course *catalog.Course, intents intent.Set, foldedMessage, senderID string) string {
	var parts []string
	faqAnswered := false

	for _, i := range intent.AnswerOrder {
		if !intents.Has(i) {
			continue
		}
		switch i {
		case intent.Price:
			if line := priceLine(course, foldedMessage, senderID); line != "" {
				parts = append(parts, line)
			} else {
				parts = append(parts, "Para precio exacto, indicanos tu pais o escribe: precio [pais].")
			}
		case intent.Schedule:
			if course.Schedule != "" {
				parts = append(parts, fmt.Sprintf("Horarios: %s", course.Schedule))
			}
		case intent.Modality:
			parts = append(parts, modalityAnswer)
		case intent.Methodology:
			parts = append(parts, methodologyAnswer)
		case intent.Start:
			if course.StartDate != "" {
				parts = append(parts, fmt.Sprintf("Inicio: %s", course.StartDate))
			}
		case intent.Dates:
			if course.ClassDates != "" {
				parts = append(parts, fmt.Sprintf("Fechas de clases: %s", course.ClassDates))
			}
		case intent.Duration:
			if course.Duration != "" {
				parts = append(parts, fmt.Sprintf("Duracion: %s", course.Duration))
			}
		case intent.PDF:
			if course.PDFLink != "" {
				parts = append(parts, fmt.Sprintf("PDF informativo: %s", course.PDFLink))
			}
		case intent.FAQ, intent.Recordings:
			if faqAnswered {
				continue
			}
			if answer := faq.Match(course, foldedMessage); answer != "" {
				parts = append(parts, answer)
				faqAnswered = true
			}
		}
	}

	return strings.Join(parts, "\n\n")
}

// priceLine renders the enrollment price for the sender's country, labelled
// with the country that was inferred.
func priceLine(course *catalog.Course, foldedMessage, senderID string) string {
	col := pricing.ResolveColumn(foldedMessage, senderID)
	price := course.Price(col)
	if price == "" {
		return ""
	}
	return fmt.Sprintf("Inscripcion (%s): %s", col.Label(), price)
}

func bulletList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(bulletMarker)
		b.WriteString(item)
	}
	return b.String()
}
