// Package catalog maintains the in-memory course catalog: a typed view of
// the published course sheet, refreshed on demand and cached behind a TTL.
package catalog

import (
	"strings"
	"time"

	"github.com/motivaedu/coursebot-go/internal/textnorm"
)

// PriceColumn names one country-specific enrollment price column on the sheet.
type PriceColumn string

// Supported price columns. PriceRestOfWorld is the fallback for senders whose
// country cannot be inferred.
const (
	PriceArgentina   PriceColumn = "Inscripción Argentina"
	PriceBolivia     PriceColumn = "Inscripción Bolivia"
	PriceChile       PriceColumn = "Inscripción Chile"
	PriceColombia    PriceColumn = "Inscripción Colombia"
	PriceCostaRica   PriceColumn = "Inscripción Costa Rica"
	PriceMexico      PriceColumn = "Inscripción México"
	PriceParaguay    PriceColumn = "Inscripción Paraguay"
	PricePeru        PriceColumn = "Inscripción Perú"
	PriceUruguay     PriceColumn = "Inscripción Uruguay"
	PriceRestOfWorld PriceColumn = "Inscripción Resto Países"
)

// PriceColumns lists every supported price column in sheet order.
var PriceColumns = []PriceColumn{
	PriceArgentina, PriceBolivia, PriceChile, PriceColombia, PriceCostaRica,
	PriceMexico, PriceParaguay, PricePeru, PriceUruguay, PriceRestOfWorld,
}

// Label returns the human-readable country label of a price column
// ("Inscripción Bolivia" -> "Bolivia").
func (c PriceColumn) Label() string {
	return strings.TrimPrefix(string(c), "Inscripción ")
}

// Course is one row of the course sheet with named, typed fields. Unknown
// sheet columns are ignored at parse time. A Course is immutable once built;
// refreshes replace the whole snapshot rather than mutating records.
type Course struct {
	Title      string
	MainText   string
	PDFLink    string
	StartDate  string
	ClassDates string
	Duration   string
	Schedule   string
	Prices     map[PriceColumn]string
	FAQ        string
	Aliases    []string
}

// Price returns the value of the given price column, falling back to the
// rest-of-world column when the country column is empty.
func (c *Course) Price(col PriceColumn) string {
	if v := c.Prices[col]; v != "" {
		return v
	}
	return c.Prices[PriceRestOfWorld]
}

// Snapshot is one immutable view of the catalog. Readers may hold a snapshot
// across a refresh; they observe either the old or the new one, never a mix.
type Snapshot struct {
	Courses   []*Course
	FetchedAt time.Time

	// AliasIndex maps folded alias strings to their owning course.
	AliasIndex map[string]*Course
}

// Titles returns the course titles in sheet order.
func (s *Snapshot) Titles() []string {
	titles := make([]string, 0, len(s.Courses))
	for _, c := range s.Courses {
		titles = append(titles, c.Title)
	}
	return titles
}

// buildAliasIndex folds every alias of every course into a lookup index.
// Later duplicates overwrite earlier ones; the sheet owns that ambiguity.
func buildAliasIndex(courses []*Course) map[string]*Course {
	idx := make(map[string]*Course)
	for _, c := range courses {
		for _, a := range c.Aliases {
			key := textnorm.Fold(strings.TrimSpace(a))
			if key == "" {
				continue
			}
			idx[key] = c
		}
	}
	return idx
}

// splitAliases splits an alias cell on comma, semicolon, pipe, slash, and
// newlines, dropping empty parts.
func splitAliases(cell string) []string {
	parts := strings.FieldsFunc(cell, func(r rune) bool {
		switch r {
		case ',', ';', '|', '/', '\n', '\r':
			return true
		}
		return false
	})
	var aliases []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			aliases = append(aliases, p)
		}
	}
	return aliases
}
