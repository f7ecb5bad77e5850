package files

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceIterator fakes a page stream for archive tests.
type sliceIterator struct {
	images []image.Image
}

func (it *sliceIterator) Len() int {
	return len(it.images)
}

func (it *sliceIterator) Next(_ context.Context) (image.Image, error) {
	img := it.images[0]
	it.images = it.images[1:]

	return img, nil
}

func testImages(count int) []image.Image {
	images := make([]image.Image, 0, count)
	for i := 0; i < count; i++ {
		img := image.NewNRGBA(image.Rect(0, 0, 4, 6))
		for p := range img.Pix {
			img.Pix[p] = uint8(i)
		}
		img.SetNRGBA(0, 0, color.NRGBA{R: uint8(i), A: 255})
		images = append(images, img)
	}

	return images
}

func TestAssembleCBZ(t *testing.T) {
	data, err := AssembleCBZ(context.Background(), &sliceIterator{images: testImages(3)}, "001 - Prologue")
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	for _, f := range reader.File {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{
		"001 - Prologue/",
		"001 - Prologue/000.png",
		"001 - Prologue/001.png",
		"001 - Prologue/002.png",
	}, names)
}

func TestAssemblePDF(t *testing.T) {
	data, err := AssemblePDF(context.Background(), &sliceIterator{images: testImages(2)}, "Tome 01")
	require.NoError(t, err)

	require.Greater(t, len(data), 4)
	assert.Equal(t, []byte("%PDF"), data[:4])
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unit.cbz")

	require.NoError(t, AtomicWrite(path, []byte("archive bytes")))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("archive bytes"), content)

	// no temporary leftovers
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "unit.cbz", entries[0].Name())
}

func TestAtomicWrite_Overwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unit.cbz")

	require.NoError(t, AtomicWrite(path, []byte("first")))
	require.NoError(t, AtomicWrite(path, []byte("second")))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), content)
}

func TestIsValidLocation(t *testing.T) {
	assert.NoError(t, IsValidLocation(t.TempDir()))
	assert.Error(t, IsValidLocation(filepath.Join(t.TempDir(), "missing")))
}
