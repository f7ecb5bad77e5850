// Package scramble implements the platform's spatial block shuffle.
//
// An image is cut into a grid of fixed-size square blocks and the blocks
// are reordered by a permutation derived from a byte seed. Only full
// blocks take part, a right or bottom remainder stays in place. The
// permutation is deterministic: the same seed always produces the same
// order, which is what makes the shuffle reversible from the parameters
// of the image's own URL.
package scramble

import (
	"hash/fnv"
	"image"
	"image/draw"
)

// Scramble reorders the full blocks of img according to seed.
func Scramble(img image.Image, blockSize int, seed []byte) image.Image {
	return apply(img, blockSize, seed, false)
}

// Unscramble restores an image scrambled with the same block size and
// seed. It is the exact inverse of Scramble.
func Unscramble(img image.Image, blockSize int, seed []byte) image.Image {
	return apply(img, blockSize, seed, true)
}

func apply(img image.Image, blockSize int, seed []byte, invert bool) image.Image {
	bounds := img.Bounds()
	dst := image.NewNRGBA(bounds)

	// start from a plain copy so the remainder stays untouched
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)

	if blockSize <= 0 {
		return dst
	}

	cols := bounds.Dx() / blockSize
	rows := bounds.Dy() / blockSize
	if cols*rows < 2 {
		return dst
	}

	perm := permutation(cols*rows, seed)
	for i, p := range perm {
		src, tgt := i, p
		if invert {
			src, tgt = p, i
		}

		sp := image.Pt(
			bounds.Min.X+(src%cols)*blockSize,
			bounds.Min.Y+(src/cols)*blockSize,
		)
		rect := image.Rect(
			bounds.Min.X+(tgt%cols)*blockSize,
			bounds.Min.Y+(tgt/cols)*blockSize,
			bounds.Min.X+(tgt%cols)*blockSize+blockSize,
			bounds.Min.Y+(tgt/cols)*blockSize+blockSize,
		)

		draw.Draw(dst, rect, img, sp, draw.Src)
	}

	return dst
}

// permutation derives the block ordering from the seed with a
// Fisher-Yates shuffle. The generator is written out rather than taken
// from math/rand so the mapping can never drift between releases.
func permutation(n int, seed []byte) []int {
	hash := fnv.New64a()
	_, _ = hash.Write(seed)
	rng := splitmix64(hash.Sum64())

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	for i := n - 1; i > 0; i-- {
		j := int(rng.next() % uint64(i+1))
		perm[i], perm[j] = perm[j], perm[i]
	}

	return perm
}

type splitmix64 uint64

func (s *splitmix64) next() uint64 {
	*s += 0x9E3779B97F4A7C15
	z := uint64(*s)
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB

	return z ^ (z >> 31)
}
