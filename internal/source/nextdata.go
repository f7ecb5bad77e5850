package source

import (
	"errors"

	"github.com/PuerkitoBio/goquery"
)

// nextDataSelector locates the JSON payload the web UI embeds in every page.
const nextDataSelector = `script#__NEXT_DATA__`

// ExtractNextData returns the embedded data payload of a platform page.
// Its absence means the platform changed its page format, not a transient
// failure, so callers must not retry.
func ExtractNextData(doc *goquery.Document) ([]byte, error) {
	script := doc.Find(nextDataSelector).First()
	if script.Length() == 0 {
		return nil, errors.New("missing __NEXT_DATA__ payload")
	}

	return []byte(script.Text()), nil
}
