package pages

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"piccomarr/internal/client"
	"piccomarr/internal/domain"
	"piccomarr/internal/scramble"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) *client.Client {
	t.Helper()

	c, err := client.New(client.Config{
		BaseURL: baseURL,
		Delay:   -1,
		Jitter:  -1,
	})
	require.NoError(t, err)

	return c
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	return img
}

func TestIterator_AscendingOrder(t *testing.T) {
	var served []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = append(served, r.URL.Path)
		_, _ = w.Write(encodePNG(t, solidImage(1, 1, color.NRGBA{A: 255})))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	// deliberately unsorted input
	var pageList []Page
	for _, number := range []int{3, 1, 4, 2} {
		page, err := NewPage(fmt.Sprintf("%s/img/i00%d.png", srv.URL, number))
		require.NoError(t, err)
		pageList = append(pageList, page)
	}

	it := NewIterator(c, pageList, false)
	require.Equal(t, 4, it.Len())

	for remaining := 3; remaining >= 0; remaining-- {
		img, err := it.Next(context.Background())
		require.NoError(t, err)
		require.NotNil(t, img)
		assert.Equal(t, remaining, it.Len())
	}

	assert.Equal(t, []string{"/img/i001.png", "/img/i002.png", "/img/i003.png", "/img/i004.png"}, served)

	_, err := it.Next(context.Background())
	assert.ErrorIs(t, err, ErrNoMorePages)
	assert.Equal(t, 0, it.Len())
}

func TestIterator_UnscramblesFlaggedPages(t *testing.T) {
	original := solidImage(100, 100, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	// give it structure so scrambling is observable
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			original.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 255})
		}
	}

	seed := []byte("KR9FHBRB81GVIXIH7SKRE4")
	scrambled := scramble.Scramble(original, 50, seed)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(encodePNG(t, scrambled))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	// q/expires pair deriving the seed above
	page, err := NewPage(srv.URL + "/img/i001.png?expires=1656547200&q=IH7SKRE4KR9FHBRB81GVIX")
	require.NoError(t, err)

	it := NewIterator(c, []Page{page}, true)

	img, err := it.Next(context.Background())
	require.NoError(t, err)

	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			require.Equal(t, original.At(x, y), img.At(x, y))
		}
	}
}

func TestIterator_ScrambledPageWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(encodePNG(t, solidImage(1, 1, color.NRGBA{A: 255})))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	page, err := NewPage(srv.URL + "/img/i001.png?expires=1656547200")
	require.NoError(t, err)

	it := NewIterator(c, []Page{page}, true)

	_, err = it.Next(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scrambling seed")
}

func viewerFixture(baseURL string, count int) string {
	imgs := ""
	for i := 1; i <= count; i++ {
		if i > 1 {
			imgs += ","
		}
		imgs += fmt.Sprintf(`{"path": "%s/img/i%03d.png"}`, baseURL, i)
	}

	return fmt.Sprintf(`<html><body><script id="__NEXT_DATA__" type="application/json">
	{"props": {"pageProps": {"initialState": {"viewer": {"pData": {"isScrambled": false, "img": [%s]}}}}}}
	</script></body></html>`, imgs)
}

func testUnit(t *testing.T, pageCount int) domain.Unit {
	t.Helper()

	unit, err := domain.NewUnit(domain.RawUnit{
		ID:         101,
		ProductID:  42,
		Title:      "#1 Prologue",
		OrderValue: 1,
		PageCount:  pageCount,
		UseType:    "FR00",
	})
	require.NoError(t, err)

	return unit
}

func TestResolve(t *testing.T) {
	var mux http.ServeMux
	srv := httptest.NewServer(&mux)
	defer srv.Close()

	mux.HandleFunc("/viewer/42/101", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(viewerFixture(srv.URL, 3)))
	})

	c := newTestClient(t, srv.URL)

	it, err := Resolve(context.Background(), c, testUnit(t, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, it.Len())
}

func TestResolve_PageCountMismatch(t *testing.T) {
	var mux http.ServeMux
	srv := httptest.NewServer(&mux)
	defer srv.Close()

	mux.HandleFunc("/viewer/42/101", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(viewerFixture(srv.URL, 2)))
	})

	c := newTestClient(t, srv.URL)

	_, err := Resolve(context.Background(), c, testUnit(t, 3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 3 pages, got 2")
}

func TestResolve_BadPageURL(t *testing.T) {
	var mux http.ServeMux
	srv := httptest.NewServer(&mux)
	defer srv.Close()

	mux.HandleFunc("/viewer/42/101", func(w http.ResponseWriter, _ *http.Request) {
		fixture := `<html><body><script id="__NEXT_DATA__">
		{"props": {"pageProps": {"initialState": {"viewer": {"pData": {"isScrambled": false, "img": [{"path": "https://cdn.example.com/cover.jpg"}]}}}}}}
		</script></body></html>`
		_, _ = w.Write([]byte(fixture))
	})

	c := newTestClient(t, srv.URL)

	_, err := Resolve(context.Background(), c, testUnit(t, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page number not found")
}
