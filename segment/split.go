// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package segment

import (
	"image"

	"github.com/disintegration/imaging"
)

// SplitDoublePage bisects a two-up scan into its left and right
// pages. The cut is purely geometric, at half the image width, with
// no attempt to find the actual spine; the left half gets width/2
// columns and the right half the remainder. Skewed scans and genuine
// single pages are not special-cased.
func SplitDoublePage(img image.Image) (image.Image, image.Image) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	mid := w / 2

	left := imaging.Crop(img, image.Rect(b.Min.X, b.Min.Y, b.Min.X+mid, b.Min.Y+h))
	right := imaging.Crop(img, image.Rect(b.Min.X+mid, b.Min.Y, b.Min.X+w, b.Min.Y+h))
	return left, right
}
