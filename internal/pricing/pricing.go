// Package pricing maps a message or sender phone number to the course price
// column for the sender's country. Resolution never fails; senders whose
// country cannot be inferred get the rest-of-world column.
package pricing

import (
	"sort"
	"strings"

	"github.com/motivaedu/coursebot-go/internal/catalog"
	"github.com/motivaedu/coursebot-go/internal/textnorm"
)

// countryWords maps folded country names and demonyms mentioned in a message
// to their price column. A country named in the message always wins over the
// sender's phone prefix.
var countryWords = map[string]catalog.PriceColumn{
	"argentina":  catalog.PriceArgentina,
	"bolivia":    catalog.PriceBolivia,
	"chile":      catalog.PriceChile,
	"colombia":   catalog.PriceColombia,
	"costa rica": catalog.PriceCostaRica,
	"mexico":     catalog.PriceMexico,
	"paraguay":   catalog.PriceParaguay,
	"peru":       catalog.PricePeru,
	"uruguay":    catalog.PriceUruguay,
}

// callingCodes maps country calling-code prefixes to price columns.
var callingCodes = map[string]catalog.PriceColumn{
	"506": catalog.PriceCostaRica,
	"598": catalog.PriceUruguay,
	"595": catalog.PriceParaguay,
	"591": catalog.PriceBolivia,
	"54":  catalog.PriceArgentina,
	"56":  catalog.PriceChile,
	"57":  catalog.PriceColombia,
	"52":  catalog.PriceMexico,
	"51":  catalog.PricePeru,
}

// prefixesByLength holds the calling codes longest-first so a short prefix
// like "5" can never shadow "598".
var prefixesByLength = func() []string {
	prefixes := make([]string, 0, len(callingCodes))
	for p := range callingCodes {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})
	return prefixes
}()

// ResolveColumn picks the price column for a message and its sender. Country
// words in the message take precedence; otherwise the sender number decides;
// otherwise rest of world.
func ResolveColumn(foldedMessage, senderNumber string) catalog.PriceColumn {
	if col, ok := columnFromMessage(foldedMessage); ok {
		return col
	}
	if col, ok := columnFromNumber(senderNumber); ok {
		return col
	}
	return catalog.PriceRestOfWorld
}

func columnFromMessage(folded string) (catalog.PriceColumn, bool) {
	for word, col := range countryWords {
		if strings.Contains(folded, word) {
			return col, true
		}
	}
	return "", false
}

func columnFromNumber(senderNumber string) (catalog.PriceColumn, bool) {
	num := textnorm.Fold(senderNumber)
	num = strings.TrimPrefix(num, "whatsapp:")
	num = strings.TrimPrefix(num, "+")
	if num == "" {
		return "", false
	}
	for _, prefix := range prefixesByLength {
		if strings.HasPrefix(num, prefix) {
			return callingCodes[prefix], true
		}
	}
	return "", false
}
