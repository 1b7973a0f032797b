// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// integral implements summed-area tables (integral images), which
// allow the mean and standard deviation of any rectangular window of
// a grayscale image to be computed in constant time. They are the
// numeric backbone of the local thresholding methods in the binarize
// package.
package integral

import (
	"image"
	"math"
)

// Image is a summed-area table: entry (y, x) holds the sum of all
// pixel values above and to the left of (x, y), inclusive.
type Image [][]uint64

// WithSq pairs an integral image with the integral image of the
// squares of the pixel values, as both are needed to calculate
// standard deviation over a window.
type WithSq struct {
	Plain Image
	Sq    Image
}

// window holds the table values at the corners of a rectangular
// region, from which the region sum is derived.
type window struct {
	topleft     uint64
	topright    uint64
	bottomleft  uint64
	bottomright uint64
	width       int
	height      int
}

// New builds the integral image of img.
func New(img *image.Gray) Image {
	return build(img, false)
}

// NewSq builds the integral image of the squared pixel values of img.
func NewSq(img *image.Gray) Image {
	return build(img, true)
}

// NewWithSq builds both the plain and squared integral images of img.
func NewWithSq(img *image.Gray) WithSq {
	return WithSq{Plain: build(img, false), Sq: build(img, true)}
}

func build(img *image.Gray, squared bool) Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	t := make(Image, h)
	for y := 0; y < h; y++ {
		t[y] = make([]uint64, w)
		var rowsum uint64
		for x := 0; x < w; x++ {
			v := uint64(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			if squared {
				v *= v
			}
			rowsum += v
			t[y][x] = rowsum
			if y > 0 {
				t[y][x] += t[y-1][x]
			}
		}
	}
	return t
}

// getWindow returns the corner values of the table for a square
// window of the given size centred on (x, y), clamped to the table
// bounds.
func (i Image) getWindow(x, y, size int) window {
	step := size / 2

	minx, miny := 0, 0
	maxy := len(i) - 1
	maxx := len(i[0]) - 1

	if y > step+1 {
		miny = y - step - 1
	}
	if x > step+1 {
		minx = x - step - 1
	}
	if maxy > y+step {
		maxy = y + step
	}
	if maxx > x+step {
		maxx = x + step
	}

	return window{i[miny][minx], i[miny][maxx], i[maxy][minx], i[maxy][maxx], maxx - minx, maxy - miny}
}

func (w window) sum() uint64 {
	return w.bottomright + w.topleft - w.topright - w.bottomleft
}

func (w window) size() int {
	return w.width * w.height
}

func (w window) mean() float64 {
	return float64(w.sum()) / float64(w.size())
}

// MeanWindow returns the mean pixel value of a square window of the
// given size centred on (x, y).
func (i Image) MeanWindow(x, y, size int) float64 {
	return i.getWindow(x, y, size).mean()
}

// MeanStdDevWindow returns the mean and standard deviation of the
// pixel values in a square window of the given size centred on
// (x, y). A uniform window yields a standard deviation of zero; tiny
// negative variances from floating point error are clamped rather
// than producing NaN.
func (s WithSq) MeanStdDevWindow(x, y, size int) (float64, float64) {
	mean := s.Plain.getWindow(x, y, size).mean()
	sqmean := s.Sq.getWindow(x, y, size).mean()

	variance := sqmean - mean*mean
	if variance < 0 {
		variance = 0
	}

	return mean, math.Sqrt(variance)
}
