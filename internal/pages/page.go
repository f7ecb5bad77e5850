package pages

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
)

// pageNumber matches the page number embedded in an image URL path,
// e.g. .../eeQoB4cdy4szeVhesSEpa2Sf7J9yoJM5dWFB5Zc/i00016.jpg
var pageNumber = regexp.MustCompile(`i0*([0-9]+)\..{3,4}$`)

// Page is one image of a unit.
type Page struct {
	url    *url.URL
	number int
}

// NewPage extracts the page number from an image URL. A URL without the
// numbered filename pattern is rejected.
func NewPage(rawURL string) (Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Page{}, fmt.Errorf("invalid page URL %q: %w", rawURL, err)
	}

	captures := pageNumber.FindStringSubmatch(u.Path)
	if captures == nil {
		return Page{}, fmt.Errorf("page number not found in %q", rawURL)
	}

	// must be valid thanks to the regex
	number, _ := strconv.Atoi(captures[1])

	return Page{url: u, number: number}, nil
}

func (p Page) URL() string {
	return p.url.String()
}

func (p Page) Number() int {
	return p.number
}

// ComputeSeed derives the page's scrambling seed from its URL: the base
// key comes from the `q` parameter, the split point from the digit sum of
// `expires`. Pure; the same URL always yields the same bytes.
func (p Page) ComputeSeed() ([]byte, error) {
	query := p.url.Query()

	key := []byte(query.Get("q"))
	if len(key) == 0 {
		return nil, fmt.Errorf("no scrambling key in %s", p.url)
	}

	pivot, err := computePivot(query.Get("expires"), len(key))
	if err != nil {
		return nil, fmt.Errorf("compute pivot for %s: %w", p.url, err)
	}

	// split the key at the pivot and stitch it back to get the seed
	seed := make([]byte, 0, len(key))
	seed = append(seed, key[pivot:]...)
	seed = append(seed, key[:pivot]...)

	return seed, nil
}

// computePivot turns the `expires` checksum into a split index. The
// modulus keeps a zero checksum in range.
func computePivot(checksum string, keylen int) (int, error) {
	if len(checksum) == 0 {
		return 0, fmt.Errorf("missing checksum")
	}

	var sum int
	for _, ch := range checksum {
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("invalid checksum %q", checksum)
		}
		sum += int(ch - '0')
	}

	sum %= keylen

	return (keylen - sum) % keylen, nil
}
