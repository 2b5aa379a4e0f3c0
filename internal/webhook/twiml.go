package webhook

import (
	"encoding/xml"
	"strings"
)

const xmlHeader = "<?xml version='1.0' encoding='UTF-8'?>"

// Envelope wraps a reply in the TwiML messaging response Twilio expects back
// from a webhook. The message text is XML-escaped.
func Envelope(message string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("<Response><Message>")
	_ = xml.EscapeText(&b, []byte(message))
	b.WriteString("</Message></Response>")
	return b.String()
}
