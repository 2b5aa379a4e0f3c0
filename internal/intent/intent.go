// Package intent tags inbound messages with zero or more semantic intents
// via a data-driven keyword table. Classification is a pure function over
// folded text; which course the user means is resolved elsewhere.
package intent

import (
	"regexp"
	"strings"
)

// Intent is a semantic tag describing what the user is asking about.
type Intent string

const (
	Info        Intent = "info"
	Price       Intent = "price"
	Schedule    Intent = "schedule"
	Modality    Intent = "modality"
	Methodology Intent = "methodology"
	Start       Intent = "start"
	Dates       Intent = "dates"
	Duration    Intent = "duration"
	PDF         Intent = "pdf"
	FAQ         Intent = "faq"
	Enroll      Intent = "enroll"
	Recordings  Intent = "recordings"
)

// AnswerOrder fixes the order in which the composer answers detected
// intents.
var AnswerOrder = []Intent{
	Price, Schedule, Modality, Methodology, Start, Dates, Duration, PDF, FAQ, Recordings,
}

// keywords maps each intent to the folded phrases that trigger it. Extend
// here, not in control flow.
var keywords = map[Intent][]string{
	Info:        {"info", "informacion", "detalle", "detalles", "contame", "cuentame", "me interesa saber"},
	Price:       {"precio", "precios", "costo", "cuesta", "valor", "cuanto sale", "cuanto esta", "arancel", "inversion"},
	Schedule:    {"horario", "horarios", "hora de clase", "que hora", "a que hora"},
	Modality:    {"modalidad", "online", "virtual", "presencial", "en vivo", "zoom", "meet", "a distancia"},
	Methodology: {"metodologia", "como son las clases", "como se cursa", "dinamica de las clases"},
	Start:       {"inicio", "empieza", "comienza", "arranca", "fecha de inicio", "cuando inicia"},
	Dates:       {"fechas", "fechas de clases", "dias de clase", "que dias", "calendario"},
	Duration:    {"duracion", "dura", "cuantas clases", "cuantas semanas", "cuantos meses"},
	PDF:         {"pdf", "folleto", "brochure", "programa", "temario"},
	FAQ:         {"faq", "preguntas frecuentes", "duda", "dudas", "consulta", "pregunta"},
	Enroll:      {"me interesa", "quiero inscribirme", "inscribirme", "como me inscribo", "inscripcion", "anotarme", "quiero anotarme", "reservar lugar"},
	Recordings:  {"grabacion", "grabaciones", "grabada", "grabadas", "quedan grabadas", "on demand", "ver despues", "diferido"},
}

// pricePlusTerm catches "precio <algo>" even when no generic price keyword
// matched on its own (e.g. "precio bolivia").
var pricePlusTerm = regexp.MustCompile(`precio\s+[\p{L}\d]{3,}`)

// Set is the result of classification; multiple intents may be set at once.
type Set map[Intent]bool

// Has reports whether the intent was detected.
func (s Set) Has(i Intent) bool { return s[i] }

// Specific reports whether any intent other than Info was detected, i.e.
// the user asked something concrete rather than a generic info request.
func (s Set) Specific() bool {
	for i := range s {
		if i != Info {
			return true
		}
	}
	return false
}

// Classify tags folded text with every intent whose keyword list matches.
func Classify(folded string) Set {
	set := make(Set)
	for intent, words := range keywords {
		for _, w := range words {
			if strings.Contains(folded, w) {
				set[intent] = true
				break
			}
		}
	}
	if !set[Price] && pricePlusTerm.MatchString(folded) {
		set[Price] = true
	}
	return set
}
