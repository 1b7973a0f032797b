// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package binarize

import (
	"image"
	"image/color"
	"math"
)

// gaussKernel returns a normalised 1-D Gaussian kernel of the given
// width. The sigma follows the usual convention for deriving it from
// a kernel size: 0.3*((size-1)*0.5 - 1) + 0.8.
func gaussKernel(size int) []float64 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	k := make([]float64, size)
	mid := size / 2
	var sum float64
	for i := range k {
		d := float64(i - mid)
		k[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// clampedAt reads a pixel with the edges replicated outward, so
// window statistics near the borders stay well defined.
func clampedAt(img *image.Gray, x, y int) uint8 {
	b := img.Bounds()
	if x < b.Min.X {
		x = b.Min.X
	}
	if x >= b.Max.X {
		x = b.Max.X - 1
	}
	if y < b.Min.Y {
		y = b.Min.Y
	}
	if y >= b.Max.Y {
		y = b.Max.Y - 1
	}
	return img.GrayAt(x, y).Y
}

// adaptiveMean thresholds each pixel against the Gaussian weighted
// mean of the window around it, minus a constant offset. The weighted
// mean is computed in two separable passes.
func adaptiveMean(img *image.Gray, windowsize int, offset float64) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	kernel := gaussKernel(windowsize)
	mid := windowsize / 2

	// horizontal pass
	horiz := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for i, kv := range kernel {
				sum += kv * float64(clampedAt(img, b.Min.X+x+i-mid, b.Min.Y+y))
			}
			horiz[y*w+x] = sum
		}
	}

	// vertical pass and thresholding
	new := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for i, kv := range kernel {
				yi := y + i - mid
				if yi < 0 {
					yi = 0
				}
				if yi >= h {
					yi = h - 1
				}
				sum += kv * horiz[yi*w+x]
			}
			if float64(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y) > sum-offset {
				new.SetGray(x, y, color.Gray{255})
			} else {
				new.SetGray(x, y, color.Gray{0})
			}
		}
	}

	return new
}
