package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/motivaedu/coursebot-go/internal/errors"
)

// Non-price sheet headers. The alias column is optional.
const (
	headerTitle      = "Curso"
	headerMainText   = "Texto Principal"
	headerPDFLink    = "Link PDF"
	headerStartDate  = "Fecha de Inicio"
	headerClassDates = "Fechas de clases"
	headerDuration   = "Duración"
	headerSchedule   = "Horarios"
	headerFAQ        = "FAQ"
	headerAlias      = "Alias"
)

// headerSynonyms maps legacy sheet header spellings to their canonical names.
var headerSynonyms = map[string]string{
	"Valor Inscripción Uruguay": "Inscripción Uruguay",
}

// requiredHeaders returns every header the sheet must carry.
func requiredHeaders() []string {
	required := []string{
		headerTitle, headerMainText, headerPDFLink, headerStartDate,
		headerClassDates, headerDuration, headerSchedule,
	}
	for _, col := range PriceColumns {
		required = append(required, string(col))
	}
	return append(required, headerFAQ)
}

// canonicalHeader trims a raw header cell, strips a UTF-8 BOM, and applies
// the synonym table.
func canonicalHeader(raw string) string {
	h := strings.TrimSpace(strings.TrimPrefix(raw, "\uFEFF"))
	if canonical, ok := headerSynonyms[h]; ok {
		return canonical
	}
	return h
}

// ParseSheet reads the published CSV and builds the course list. The header
// row is validated against the required columns; rows with an empty title are
// dropped, and every cell is trimmed. Zero remaining rows is a valid, empty
// catalog.
func ParseSheet(r io.Reader) ([]*Course, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewSchemaError(requiredHeaders(), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}

	columns := make(map[string]int, len(headerRow))
	received := make([]string, 0, len(headerRow))
	for i, raw := range headerRow {
		h := canonicalHeader(raw)
		received = append(received, h)
		if _, dup := columns[h]; !dup {
			columns[h] = i
		}
	}

	var missing []string
	for _, h := range requiredHeaders() {
		if _, ok := columns[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError(missing, received)
	}

	cell := func(row []string, header string) string {
		i, ok := columns[header]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var courses []*Course
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read sheet row: %w", err)
		}

		title := cell(row, headerTitle)
		if title == "" {
			continue
		}

		prices := make(map[PriceColumn]string, len(PriceColumns))
		for _, col := range PriceColumns {
			prices[col] = cell(row, string(col))
		}

		courses = append(courses, &Course{
			Title:      title,
			MainText:   cell(row, headerMainText),
			PDFLink:    cell(row, headerPDFLink),
			StartDate:  cell(row, headerStartDate),
			ClassDates: cell(row, headerClassDates),
			Duration:   cell(row, headerDuration),
			Schedule:   cell(row, headerSchedule),
			Prices:     prices,
			FAQ:        cell(row, headerFAQ),
			Aliases:    splitAliases(cell(row, headerAlias)),
		})
	}

	return courses, nil
}
