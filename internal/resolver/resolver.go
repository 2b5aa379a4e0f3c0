// Package resolver finds the single best-matching course for a free-text
// message. It layers three short-circuiting strategies: alias lookup,
// keyword-prefixed extraction, and substring/token-overlap matching.
package resolver

import (
	"regexp"
	"strings"

	"github.com/motivaedu/coursebot-go/internal/catalog"
	"github.com/motivaedu/coursebot-go/internal/textnorm"
)

// Stage names the resolution strategy that produced a match, for logging
// and metrics.
type Stage string

const (
	StageAlias     Stage = "alias"
	StageKeyword   Stage = "keyword"
	StageSubstring Stage = "substring"
	StageTokens    Stage = "tokens"
	StageNone      Stage = "none"
)

// genericWords are excluded from token matching; nearly every message about
// a course contains them, so they carry no signal.
var genericWords = map[string]bool{
	"curso":  true,
	"cursos": true,
	"course": true,
}

// keywordPrefix matches messages like "precio excel avanzado" so the tail
// can be re-matched without the leading keyword polluting token scores.
var keywordPrefix = regexp.MustCompile(`(?:info|precio|horarios?|pdf)\s+(.+)$`)

const minTokenLen = 3

// Resolve finds the course a raw message refers to, or nil when no strategy
// matches. Reads only the given snapshot; ties within a stage go to the
// first course encountered in catalog order.
func Resolve(snap *catalog.Snapshot, rawText string) (*catalog.Course, Stage) {
	if snap == nil || rawText == "" {
		return nil, StageNone
	}
	folded := textnorm.Fold(rawText)

	// Stage 1: any alias key contained in the message wins outright.
	for key, course := range snap.AliasIndex {
		if key != "" && strings.Contains(folded, key) {
			return course, StageAlias
		}
	}

	// Stage 2: strip a leading query keyword and match on the remainder.
	if m := keywordPrefix.FindStringSubmatch(folded); m != nil {
		if course := bestByQuery(snap.Courses, strings.TrimSpace(m[1])); course != nil {
			return course, StageKeyword
		}
	}

	// Stage 3: whole-message substring and token-overlap fallback.
	if course := bySubstring(snap.Courses, folded); course != nil {
		return course, StageSubstring
	}
	if course := byTokenOverlap(snap.Courses, folded); course != nil {
		return course, StageTokens
	}
	return nil, StageNone
}

// bestByQuery runs the stage-3 logic against an extracted query fragment.
func bestByQuery(courses []*catalog.Course, folded string) *catalog.Course {
	if folded == "" {
		return nil
	}
	if course := bySubstring(courses, folded); course != nil {
		return course
	}
	return byTokenOverlap(courses, folded)
}

// bySubstring returns the first course whose folded title contains the query
// or is contained in it.
func bySubstring(courses []*catalog.Course, folded string) *catalog.Course {
	for _, c := range courses {
		title := textnorm.Fold(c.Title)
		if title == "" {
			continue
		}
		if strings.Contains(title, folded) {
			return c
		}
	}
	for _, c := range courses {
		title := textnorm.Fold(c.Title)
		if title != "" && strings.Contains(folded, title) {
			return c
		}
	}
	return nil
}

// byTokenOverlap scores every course by the size of the intersection between
// its title tokens and the query tokens, returning the strictly best course
// with a score of at least one. Catalog order breaks ties.
func byTokenOverlap(courses []*catalog.Course, folded string) *catalog.Course {
	query := textnorm.TokenSet(folded, minTokenLen, genericWords)
	if len(query) == 0 {
		return nil
	}

	var best *catalog.Course
	bestScore := 0
	for _, c := range courses {
		title := textnorm.TokenSet(textnorm.Fold(c.Title), minTokenLen, genericWords)
		if score := textnorm.Overlap(query, title); score > bestScore {
			bestScore = score
			best = c
		}
	}
	if bestScore >= 1 {
		return best
	}
	return nil
}
