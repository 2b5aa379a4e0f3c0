package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "lowercases", input: "Excel AVANZADO", want: "excel avanzado"},
		{name: "strips diacritics", input: "Educación", want: "educacion"},
		{name: "mixed accents", input: "¿Cuánto cuesta la inscripción?", want: "¿cuanto cuesta la inscripcion?"},
		{name: "enye is a base letter, kept", input: "Español", want: "español"},
		{name: "digits and punctuation untouched", input: "PDF #2 (v1.0)", want: "pdf #2 (v1.0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Fold(tt.input))
		})
	}
}

func TestFoldIdempotent(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"", "Educación", "Curso de Excel Avanzado", "¿HORÁRIOS?", "日本語"} {
		once := Fold(s)
		assert.Equal(t, once, Fold(once), "Fold must be idempotent for %q", s)
	}
}

func TestFoldEquivalence(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Fold("Educación"), Fold("Educacion"))
	assert.Equal(t, Fold("MÉXICO"), Fold("mexico"))
}

func TestTokenize(t *testing.T) {
	t.Parallel()
	stop := map[string]bool{"curso": true}

	tests := []struct {
		name   string
		input  string
		minLen int
		stop   map[string]bool
		want   []string
	}{
		{name: "empty", input: "", minLen: 3, want: nil},
		{name: "splits on punctuation", input: "precio, horarios y pdf", minLen: 3, want: []string{"precio", "horarios", "pdf"}},
		{name: "drops short words", input: "el excel de la empresa", minLen: 3, want: []string{"excel", "empresa"}},
		{name: "applies stop set", input: "curso de excel", minLen: 3, stop: stop, want: []string{"excel"}},
		{name: "keeps digits", input: "modulo 101 avanzado", minLen: 3, want: []string{"modulo", "101", "avanzado"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Tokenize(tt.input, tt.minLen, tt.stop))
		})
	}
}

func TestOverlapOrderIndependent(t *testing.T) {
	t.Parallel()
	a := TokenSet("excel avanzado tablas", 3, nil)
	b := TokenSet("tablas avanzado excel", 3, nil)
	c := TokenSet("excel basico", 3, nil)

	assert.Equal(t, 3, Overlap(a, b))
	assert.Equal(t, Overlap(a, c), Overlap(c, a))
	assert.Equal(t, 1, Overlap(a, c))
	assert.Equal(t, 0, Overlap(a, TokenSet("marketing digital", 3, nil)))
}
