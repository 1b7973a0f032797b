// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package binarize

import (
	"image"
	"image/color"

	"github.com/pagecarver/pagecarver/integral"
)

// IntegralSauvola implements Sauvola's algorithm ("Adaptive document
// image binarization", 2000) using integral images for constant time
// window statistics, see paper "Efficient Implementation of Local
// Adaptive Thresholding Techniques Using Integral Images".
func IntegralSauvola(img *image.Gray, ksize float64, windowsize int) *image.Gray {
	integrals := integral.NewWithSq(img)
	return PreCalcedSauvola(integrals, img, ksize, windowsize)
}

// PreCalcedSauvola implements Sauvola's algorithm using precalculated
// integral images, for callers that binarize the same image several
// times with different parameters.
func PreCalcedSauvola(integrals integral.WithSq, img *image.Gray, ksize float64, windowsize int) *image.Gray {
	b := img.Bounds()
	new := image.NewGray(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m, dev := integrals.MeanStdDevWindow(x, y, windowsize)
			threshold := m * (1 + ksize*((dev/128)-1))
			// <= so that a uniform ink region, whose window mean is
			// its own value, stays ink
			if float64(img.GrayAt(x, y).Y) <= threshold {
				new.SetGray(x, y, color.Gray{0})
			} else {
				new.SetGray(x, y, color.Gray{255})
			}
		}
	}

	return new
}
