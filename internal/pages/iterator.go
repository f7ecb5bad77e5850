// Package pages resolves a unit's page list from its viewer page and
// turns it into a lazy stream of decoded images.
package pages

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"sort"

	// register the decoders for the platform's page formats
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"piccomarr/internal/client"
	"piccomarr/internal/domain"
	"piccomarr/internal/scramble"
	"piccomarr/internal/source"
)

// blockSize is constant across the whole website (for now...)
const blockSize = 50

// ErrNoMorePages is returned by Next once the iterator is exhausted.
var ErrNoMorePages = errors.New("no more pages")

type viewerNextData struct {
	Props struct {
		PageProps struct {
			InitialState struct {
				Viewer struct {
					PData struct {
						IsScrambled bool `json:"isScrambled"`
						Img         []struct {
							Path string `json:"path"`
						} `json:"img"`
					} `json:"pData"`
				} `json:"viewer"`
			} `json:"initialState"`
		} `json:"pageProps"`
	} `json:"props"`
}

// Resolve fetches the unit's viewer page and returns an iterator over its
// pages. The observed page count must match the unit's declared count, a
// mismatch means the metadata and the viewer disagree and is fatal.
func Resolve(ctx context.Context, c *client.Client, unit domain.Unit) (*Iterator, error) {
	viewerURL := fmt.Sprintf("%s/viewer/%s/%s", c.BaseURL(), unit.SerieID(), unit.ID())

	doc, err := c.GetHTML(ctx, viewerURL)
	if err != nil {
		return nil, fmt.Errorf("get viewer page: %w", err)
	}

	payload, err := source.ExtractNextData(doc)
	if err != nil {
		return nil, fmt.Errorf("viewer page of unit %s: %w", unit.ID(), err)
	}

	var data viewerNextData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("parse viewer payload of unit %s: %w", unit.ID(), err)
	}
	pData := data.Props.PageProps.InitialState.Viewer.PData

	// make sure we got the expected number of pages!
	if len(pData.Img) != unit.PageCount() {
		return nil, fmt.Errorf("unit %s: expected %d pages, got %d", unit.ID(), unit.PageCount(), len(pData.Img))
	}

	pageList := make([]Page, 0, len(pData.Img))
	for _, img := range pData.Img {
		page, err := NewPage(img.Path)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", unit.ID(), err)
		}
		pageList = append(pageList, page)
	}

	return NewIterator(c, pageList, pData.IsScrambled), nil
}

// Iterator produces a unit's images lazily, one per call, in ascending
// page order. Single pass: pages are popped as they are delivered.
type Iterator struct {
	client    *client.Client
	pages     []Page
	scrambled bool
}

func NewIterator(c *client.Client, pageList []Page, scrambled bool) *Iterator {
	// order from last to first, since we pop from the end
	sort.Slice(pageList, func(i, j int) bool {
		return pageList[i].number > pageList[j].number
	})

	return &Iterator{
		client:    c,
		pages:     pageList,
		scrambled: scrambled,
	}
}

// Len returns the number of pages not yet delivered.
func (it *Iterator) Len() int {
	return len(it.pages)
}

// Next downloads, decodes and (if needed) unscrambles the next page.
func (it *Iterator) Next(ctx context.Context) (image.Image, error) {
	if len(it.pages) == 0 {
		return nil, ErrNoMorePages
	}

	page := it.pages[len(it.pages)-1]
	it.pages = it.pages[:len(it.pages)-1]

	data, err := it.client.GetBytes(ctx, page.URL())
	if err != nil {
		return nil, fmt.Errorf("download image from %s: %w", page.URL(), err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image from %s: %w", page.URL(), err)
	}

	if it.scrambled {
		seed, err := page.ComputeSeed()
		if err != nil {
			return nil, fmt.Errorf("compute scrambling seed for %s: %w", page.URL(), err)
		}

		img = scramble.Unscramble(img, blockSize, seed)
	}

	return img, nil
}
