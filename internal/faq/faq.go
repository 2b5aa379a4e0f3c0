// Package faq parses the semi-structured FAQ field of a course and scores
// free text against each block's sample questions with token-overlap
// similarity. This is a lexical classifier over short, fixed utterance sets,
// not embedding search.
package faq

import (
	"regexp"
	"strings"

	"github.com/motivaedu/coursebot-go/internal/catalog"
	"github.com/motivaedu/coursebot-go/internal/textnorm"
)

// Block is one parsed FAQ entry: the sample utterances that introduce it and
// the answer they map to.
type Block struct {
	Utterances []string
	Answer     string
}

// The FAQ field is free text of the form
//
//	Si preguntan: ¿queda grabado? / ¿puedo verlo despues? Respuesta: Si, ...
//
// repeated zero or more times. Markers are matched case-insensitively on the
// raw text so answers keep their original accents and casing.
var (
	questionMarker = regexp.MustCompile(`(?i)si preguntan\s*:`)
	answerMarker   = regexp.MustCompile(`(?i)respuesta\s*:`)
)

// Acceptance thresholds for the best-scoring utterance. A lower score is
// still accepted when the query shares at least two tokens with the
// utterance, so a single coincidental word cannot dominate short utterances.
const (
	highThreshold = 0.45
	lowThreshold  = 0.32
	minLowOverlap = 2
)

const minTokenLen = 3

// stopWords are common Spanish filler words excluded from scoring.
var stopWords = map[string]bool{
	"las": true, "los": true, "una": true, "uno": true, "unos": true, "unas": true,
	"que": true, "como": true, "cual": true, "cuales": true, "donde": true, "cuando": true,
	"para": true, "por": true, "con": true, "sin": true, "del": true, "este": true,
	"esta": true, "esto": true, "hay": true, "son": true, "ser": true, "curso": true,
	"clase": true, "clases": true, "puedo": true, "puede": true, "quiero": true,
	"tengo": true, "tiene": true, "tienen": true, "sobre": true, "mas": true,
}

// synonyms merges near-synonymous roots into one canonical token to raise
// recall across phrasing variants.
var synonyms = map[string]string{
	"grabaciones": "grabacion", "grabacion": "grabacion", "grabada": "grabacion",
	"grabadas": "grabacion", "grabado": "grabacion", "grabados": "grabacion",
	"demand": "grabacion", "diferido": "grabacion",

	"precio": "precio", "precios": "precio", "costo": "precio", "costos": "precio",
	"valor": "precio", "arancel": "precio", "cuesta": "precio", "sale": "precio",
	"inscripcion": "precio", "pagar": "pago", "pago": "pago", "pagos": "pago",
	"abonar": "pago", "cuotas": "pago", "transferencia": "pago", "tarjeta": "pago",

	"horario": "horario", "horarios": "horario", "hora": "horario", "horas": "horario",

	"certificado": "certificado", "certificados": "certificado",
	"certificacion": "certificado", "diploma": "certificado", "constancia": "certificado",

	"online": "virtual", "virtual": "virtual", "distancia": "virtual", "remoto": "virtual",
	"zoom": "virtual", "meet": "virtual", "presencial": "presencial",

	"empieza": "inicio", "empiezan": "inicio", "comienza": "inicio",
	"comienzan": "inicio", "inicio": "inicio", "inicia": "inicio", "arranca": "inicio",

	"duracion": "duracion", "dura": "duracion", "duran": "duracion",

	"requisito": "requisito", "requisitos": "requisito", "previo": "requisito",
	"previos": "requisito", "necesito": "requisito", "nivel": "requisito",
}

// Parse lexes a FAQ field into validated blocks. Malformed or absent text
// yields zero blocks, never an error: a block without at least one utterance
// and a non-empty answer is dropped.
func Parse(faqText string) []Block {
	starts := questionMarker.FindAllStringIndex(faqText, -1)
	if starts == nil {
		return nil
	}

	var blocks []Block
	for i, loc := range starts {
		end := len(faqText)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		segment := faqText[loc[1]:end]

		marker := answerMarker.FindStringIndex(segment)
		if marker == nil {
			continue
		}
		utterances := splitUtterances(segment[:marker[0]])
		answer := strings.TrimSpace(segment[marker[1]:])
		if len(utterances) == 0 || answer == "" {
			continue
		}
		blocks = append(blocks, Block{Utterances: utterances, Answer: answer})
	}
	return blocks
}

// splitUtterances splits the sample-question run on slashes and newlines.
func splitUtterances(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '\n' || r == '\r'
	})
	var utterances []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			utterances = append(utterances, p)
		}
	}
	return utterances
}

// Match parses the course's FAQ field fresh and returns the best-matching
// answer for the folded query, or empty string when nothing clears the
// thresholds. FAQ text is short and this is not a hot path, so re-parsing
// per lookup is fine.
func Match(course *catalog.Course, foldedQuery string) string {
	if course == nil {
		return ""
	}
	queryTokens := canonicalTokens(foldedQuery)
	if len(queryTokens) == 0 {
		return ""
	}

	bestScore := 0.0
	bestOverlap := 0
	bestAnswer := ""
	for _, block := range Parse(course.FAQ) {
		for _, utterance := range block.Utterances {
			utteranceTokens := canonicalTokens(textnorm.Fold(utterance))
			overlap := textnorm.Overlap(queryTokens, utteranceTokens)
			denom := len(utteranceTokens)
			if denom < 1 {
				denom = 1
			}
			score := float64(overlap) / float64(denom)
			if score > bestScore {
				bestScore = score
				bestOverlap = overlap
				bestAnswer = block.Answer
			}
		}
	}

	if bestScore >= highThreshold {
		return bestAnswer
	}
	if bestScore >= lowThreshold && bestOverlap >= minLowOverlap {
		return bestAnswer
	}
	return ""
}

// canonicalTokens tokenizes folded text and collapses synonyms.
func canonicalTokens(folded string) map[string]bool {
	tokens := make(map[string]bool)
	for _, w := range textnorm.Tokenize(folded, minTokenLen, stopWords) {
		if canonical, ok := synonyms[w]; ok {
			w = canonical
		}
		tokens[w] = true
	}
	return tokens
}
