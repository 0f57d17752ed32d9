// aviation/body.go
package aviation

import (
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxSummaryLen = 200

var blankLines = regexp.MustCompile(`\s*\n\s*`)

// summarizeBody turns an error response body into one short line of text.
// Gateways in front of the provider tend to answer with HTML pages; those
// are reduced to their title or visible text.
func summarizeBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}

	if strings.HasPrefix(text, "<") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
		if err != nil {
			log.Printf("WARN Aviation: could not parse HTML error body: %v", err)
		} else {
			doc.Find("script, style").Remove()
			if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
				text = title
			} else {
				text = strings.TrimSpace(doc.Find("body").Text())
			}
		}
	}

	text = blankLines.ReplaceAllString(text, " ")
	if len(text) > maxSummaryLen {
		text = text[:maxSummaryLen] + "..."
	}
	return text
}
