package files

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
)

// ImageIterator is a finite, single-pass stream of decoded page images.
type ImageIterator interface {
	Len() int
	Next(ctx context.Context) (image.Image, error)
}

func IsValidLocation(location string) error {
	if _, err := os.Stat(location); err != nil {
		return err
	}

	return nil
}

// AssembleCBZ drains the iterator into an in-memory CBZ archive with one
// top-level directory per unit. Pages are written in delivery order,
// which the iterator guarantees is ascending.
func AssembleCBZ(ctx context.Context, it ImageIterator, title string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if _, err := zw.Create(title + "/"); err != nil {
		return nil, fmt.Errorf("create unit directory: %w", err)
	}

	for i := 0; it.Len() > 0; i++ {
		filename := fmt.Sprintf("%03d.png", i)

		img, err := it.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch page %s: %w", filename, err)
		}

		w, err := zw.Create(fmt.Sprintf("%s/%s", title, filename))
		if err != nil {
			return nil, fmt.Errorf("add image %s: %w", filename, err)
		}

		if err := png.Encode(w, img); err != nil {
			return nil, fmt.Errorf("write image %s: %w", filename, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}

	return buf.Bytes(), nil
}

// AssemblePDF drains the iterator into an in-memory PDF, one page per
// image, each PDF page sized to its image.
func AssemblePDF(ctx context.Context, it ImageIterator, title string) ([]byte, error) {
	pdf := fpdf.New(fpdf.OrientationPortrait, fpdf.UnitMillimeter, "", "")
	pdf.SetTitle(title, true)

	for i := 0; it.Len() > 0; i++ {
		name := fmt.Sprintf("%03d", i)

		img, err := it.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch page %s: %w", name, err)
		}

		var encoded bytes.Buffer
		if err := png.Encode(&encoded, img); err != nil {
			return nil, fmt.Errorf("encode page %s: %w", name, err)
		}

		opts := fpdf.ImageOptions{ImageType: "PNG"}
		info := pdf.RegisterImageOptionsReader(name, opts, &encoded)
		imgWidth, imgHeight := info.Extent()

		pdf.AddPageFormat(fpdf.OrientationPortrait, fpdf.SizeType{Wd: imgWidth, Ht: imgHeight})
		pdf.ImageOptions(name, 0, 0, imgWidth, imgHeight, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("close pdf: %w", err)
	}

	return buf.Bytes(), nil
}

// AtomicWrite persists data using a unique temporary file beside the
// destination plus a rename, so path is never observed half-written.
func AtomicWrite(path string, data []byte) error {
	tmpPath := fmt.Sprintf("%s.%s.part", path, uuid.NewString())

	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename to %s: %w", path, err)
	}

	return nil
}
