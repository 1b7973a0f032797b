// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package segment

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/pagecarver/pagecarver/binarize"
	"github.com/pagecarver/pagecarver/enhance"
)

const (
	// gaps shallower than this fraction of the deepest gap are not
	// line boundaries
	minGapFrac = 0.5
	// bands whose peak ink density is below this fraction of the
	// page's peak density are blank space, not lines
	minBandFrac = 0.1
	// rows within a band denser than this fraction of the band's own
	// peak are the line proper; the rest is trimmed
	trimFrac = 0.1
	// padding added above and below a trimmed line for ascenders and
	// descenders
	linePad = 2
	// sigma for smoothing the projection before gap finding
	smoothSigma = 1.0
)

// ProjectionDetector finds text lines by counting ink pixels per row
// of the binarized image and treating prominent minima of that
// profile as the gaps between lines. The zero value is ready to use.
type ProjectionDetector struct {
	// Method is the binarization method used on the enhanced image;
	// the zero value is the package default (Sauvola).
	Method binarize.Method
}

// Detect implements the Detector interface.
func (d ProjectionDetector) Detect(img image.Image, minLineHeight int) ([]image.Rectangle, error) {
	if img == nil {
		return nil, fmt.Errorf("No image to segment")
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("Cannot segment empty %dx%d image", width, height)
	}

	bw := binarize.Binarize(enhance.ForSegmentation(img), d.Method)

	// Ensure ink is the low-intensity class; a majority-dark page is
	// an inverted scan.
	if meanPix(bw) < 127 {
		invert(bw)
	}

	projection := inkPerRow(bw)
	smoothed := gaussian1d(projection, smoothSigma)

	max := maxOf(smoothed)
	inverted := make([]float64, len(smoothed))
	for i, v := range smoothed {
		inverted[i] = max - v
	}

	gaps := findPeaks(inverted, maxOf(inverted)*minGapFrac, minLineHeight)

	boundaries := make([]int, 0, len(gaps)+2)
	boundaries = append(boundaries, 0)
	boundaries = append(boundaries, gaps...)
	boundaries = append(boundaries, height)

	var regions []image.Rectangle
	for i := 0; i < len(boundaries)-1; i++ {
		start, end := boundaries[i], boundaries[i+1]
		band := smoothed[start:end]

		// skip near-blank bands, e.g. space between paragraphs
		bandmax := maxOf(band)
		if bandmax < max*minBandFrac {
			continue
		}

		// trim to the rows that actually hold ink, plus padding
		first, last := -1, -1
		for j, v := range band {
			if v > bandmax*trimFrac {
				if first == -1 {
					first = j
				}
				last = j
			}
		}
		if first == -1 {
			continue
		}

		y0 := start + first - linePad
		y1 := start + last + linePad
		if y0 < 0 {
			y0 = 0
		}
		if y1 > height {
			y1 = height
		}
		if y1-y0 < minLineHeight {
			continue
		}
		regions = append(regions, image.Rect(0, y0, width, y1))
	}

	return regions, nil
}

// Profile returns the smoothed horizontal ink density profile that
// ProjectionDetector works from, for inspection and graphing.
func (d ProjectionDetector) Profile(img image.Image) []float64 {
	if img == nil {
		return nil
	}
	bw := binarize.Binarize(enhance.ForSegmentation(img), d.Method)
	if meanPix(bw) < 127 {
		invert(bw)
	}
	return gaussian1d(inkPerRow(bw), smoothSigma)
}

func meanPix(img *image.Gray) float64 {
	if len(img.Pix) == 0 {
		return 0
	}
	var sum uint64
	for _, p := range img.Pix {
		sum += uint64(p)
	}
	return float64(sum) / float64(len(img.Pix))
}

func invert(img *image.Gray) {
	for i, p := range img.Pix {
		img.Pix[i] = 255 - p
	}
}

// inkPerRow counts the ink (zero) pixels in each row.
func inkPerRow(img *image.Gray) []float64 {
	b := img.Bounds()
	counts := make([]float64, b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()]
		for _, p := range row {
			if p == 0 {
				counts[y]++
			}
		}
	}
	return counts
}

// gaussian1d smooths a signal with a Gaussian of the given sigma,
// reflecting the signal at its ends.
func gaussian1d(signal []float64, sigma float64) []float64 {
	radius := int(4*sigma + 0.5)
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	var ksum float64
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		ksum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= ksum
	}

	n := len(signal)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for j, kv := range kernel {
			idx := i + j - radius
			// reflect at the boundaries
			for idx < 0 || idx >= n {
				if idx < 0 {
					idx = -idx - 1
				}
				if idx >= n {
					idx = 2*n - idx - 1
				}
			}
			sum += kv * signal[idx]
		}
		out[i] = sum
	}
	return out
}

func maxOf(s []float64) float64 {
	var max float64
	for _, v := range s {
		if v > max {
			max = v
		}
	}
	return max
}

// findPeaks locates local maxima of the signal that are at least
// minHeight tall, then discards peaks closer than minDistance to a
// taller one. Plateaus count as a single peak at their midpoint.
func findPeaks(signal []float64, minHeight float64, minDistance int) []int {
	var peaks []int
	i := 1
	for i < len(signal)-1 {
		if signal[i-1] < signal[i] {
			// walk to the end of any plateau
			j := i
			for j < len(signal)-1 && signal[j+1] == signal[i] {
				j++
			}
			if j < len(signal)-1 && signal[j+1] < signal[i] {
				mid := i + (j-i)/2
				if signal[mid] >= minHeight {
					peaks = append(peaks, mid)
				}
				i = j
			}
		}
		i++
	}

	if minDistance <= 1 || len(peaks) < 2 {
		return peaks
	}

	// prune from the tallest down, removing any unpruned peak within
	// minDistance of a kept one
	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return signal[peaks[order[a]]] > signal[peaks[order[b]]]
	})

	removed := make([]bool, len(peaks))
	for _, idx := range order {
		if removed[idx] {
			continue
		}
		for other := idx - 1; other >= 0 && peaks[idx]-peaks[other] < minDistance; other-- {
			removed[other] = true
		}
		for other := idx + 1; other < len(peaks) && peaks[other]-peaks[idx] < minDistance; other++ {
			removed[other] = true
		}
	}

	var kept []int
	for i, p := range peaks {
		if !removed[i] {
			kept = append(kept, p)
		}
	}
	return kept
}
