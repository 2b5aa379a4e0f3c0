package faq

import (
	"testing"

	"github.com/motivaedu/coursebot-go/internal/catalog"
	"github.com/motivaedu/coursebot-go/internal/textnorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFAQ = `Si preguntan: ¿las clases quedan grabadas? / ¿puedo ver la clase despues?
Respuesta: Si, todas las clases quedan grabadas y disponibles por 6 meses.
Si preguntan: ¿entregan certificado? / ¿dan diploma al terminar?
Respuesta: Si, al completar el curso recibes un certificado digital.`

func TestParse(t *testing.T) {
	t.Parallel()
	blocks := Parse(sampleFAQ)
	require.Len(t, blocks, 2)

	assert.Len(t, blocks[0].Utterances, 2)
	assert.Equal(t, "¿las clases quedan grabadas?", blocks[0].Utterances[0])
	assert.Contains(t, blocks[0].Answer, "disponibles por 6 meses")

	assert.Len(t, blocks[1].Utterances, 2)
	assert.Contains(t, blocks[1].Answer, "certificado digital")
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"plain prose", "Este curso es excelente para principiantes.", 0},
		{"question marker without answer", "Si preguntan: ¿hay descuento?", 0},
		{"answer without utterances", "Si preguntan: Respuesta: si", 0},
		{"valid block after malformed one", "Si preguntan: ¿hay descuento?\nSi preguntan: ¿hay certificado? Respuesta: Si, digital.", 1},
		{"case insensitive markers", "SI PREGUNTAN: ¿hay certificado? RESPUESTA: Si.", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Len(t, Parse(tt.text), tt.want)
		})
	}
}

func course() *catalog.Course {
	return &catalog.Course{Title: "Curso de Excel Avanzado", FAQ: sampleFAQ}
}

func TestMatchRecordingsQuestion(t *testing.T) {
	t.Parallel()
	answer := Match(course(), textnorm.Fold("¿quedan grabadas las clases?"))
	assert.Contains(t, answer, "disponibles por 6 meses")
}

func TestMatchSynonymRecall(t *testing.T) {
	t.Parallel()
	// "grabación" and "on demand" fold into the same canonical token as
	// "grabadas" in the utterance.
	answer := Match(course(), textnorm.Fold("¿el curso queda on demand?"))
	assert.Contains(t, answer, "grabadas")

	answer = Match(course(), textnorm.Fold("hay grabación si falto?"))
	assert.Contains(t, answer, "grabadas")
}

func TestMatchCertificate(t *testing.T) {
	t.Parallel()
	answer := Match(course(), textnorm.Fold("¿dan diploma?"))
	assert.Contains(t, answer, "certificado digital")
}

func TestMatchPerfectOverlapAlwaysAccepted(t *testing.T) {
	t.Parallel()
	c := &catalog.Course{FAQ: "Si preguntan: becas disponibles Respuesta: Hay becas parciales."}
	// Two query tokens covering both utterance tokens: score 1.0.
	answer := Match(c, textnorm.Fold("becas disponibles?"))
	assert.Equal(t, "Hay becas parciales.", answer)
}

func TestMatchSingleTokenCoincidenceRejected(t *testing.T) {
	t.Parallel()
	c := &catalog.Course{FAQ: "Si preguntan: material descargable incluido extra Respuesta: Si, incluye material."}
	// One of four utterance tokens (score 0.25) from a one-token query.
	answer := Match(c, textnorm.Fold("material"))
	assert.Empty(t, answer)
}

func TestMatchNoFAQ(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Match(&catalog.Course{Title: "X"}, "grabacion"))
	assert.Empty(t, Match(nil, "grabacion"))
	assert.Empty(t, Match(course(), ""))
}
