// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package binarize

import (
	"image"
)

// OtsuThreshold finds the global threshold which maximises the
// between-class variance of the pixel histogram, which is equivalent
// to minimising the intra-class variance (Otsu, 1979).
func OtsuThreshold(img *image.Gray) uint8 {
	var hist [256]uint64
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[img.GrayAt(x, y).Y]++
		}
	}

	var total, weightedsum uint64
	for v, n := range hist {
		total += n
		weightedsum += uint64(v) * n
	}
	if total == 0 {
		return fixedThreshold
	}

	var background, sumbackground uint64
	var best float64
	var threshold uint8
	for v := 0; v < 256; v++ {
		background += hist[v]
		if background == 0 {
			continue
		}
		foreground := total - background
		if foreground == 0 {
			break
		}
		sumbackground += uint64(v) * hist[v]

		meanback := float64(sumbackground) / float64(background)
		meanfore := float64(weightedsum-sumbackground) / float64(foreground)
		diff := meanback - meanfore
		between := float64(background) * float64(foreground) * diff * diff

		if between > best {
			best = between
			threshold = uint8(v)
		}
	}

	return threshold
}
