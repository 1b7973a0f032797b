// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package enhance

import (
	"image"
	"math"
)

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// clampIndex replicates edge pixels for window reads beyond the
// image.
func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i >= max {
		return max - 1
	}
	return i
}

// contrast scales pixel values away from the image mean by the given
// factor; factor 1 is the identity.
func contrast(img *image.Gray, factor float64) *image.Gray {
	var sum uint64
	for _, p := range img.Pix {
		sum += uint64(p)
	}
	if len(img.Pix) == 0 {
		return img
	}
	mean := math.Floor(float64(sum)/float64(len(img.Pix)) + 0.5)

	new := image.NewGray(img.Bounds())
	for i, p := range img.Pix {
		new.Pix[i] = clampByte(mean + (float64(p)-mean)*factor)
	}
	return new
}

// gauss1d returns a normalised Gaussian kernel with a radius of
// 3 sigma, always at least 1.
func gauss1d(sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}
	k := make([]float64, 2*radius+1)
	var sum float64
	for i := range k {
		d := float64(i - radius)
		k[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// gaussianBlur applies a separable Gaussian blur with the given
// sigma, replicating edges.
func gaussianBlur(img *image.Gray, sigma float64) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	kernel := gauss1d(sigma)
	radius := len(kernel) / 2

	horiz := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for i, kv := range kernel {
				sum += kv * float64(img.Pix[y*img.Stride+clampIndex(x+i-radius, w)])
			}
			horiz[y*w+x] = sum
		}
	}

	new := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for i, kv := range kernel {
				sum += kv * horiz[clampIndex(y+i-radius, h)*w+x]
			}
			new.Pix[y*new.Stride+x] = clampByte(sum)
		}
	}
	return new
}

// unsharpMask sharpens by adding back a proportion of the difference
// between the image and a blurred copy of it, ignoring differences at
// or below the threshold so flat areas stay quiet.
func unsharpMask(img *image.Gray, sigma float64, percent int, threshold int) *image.Gray {
	blurred := gaussianBlur(img, sigma)
	new := image.NewGray(img.Bounds())
	for i, p := range img.Pix {
		diff := int(p) - int(blurred.Pix[i])
		if diff < threshold && diff > -threshold {
			new.Pix[i] = p
			continue
		}
		new.Pix[i] = clampByte(float64(p) + float64(diff*percent)/100)
	}
	return new
}

// sharpen3x3 convolves with the standard sharpening kernel
//   -1 -1 -1
//   -1  9 -1
//   -1 -1 -1
// replicating edges and saturating the result.
func sharpen3x3(img *image.Gray) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	new := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			centre := 9 * int(img.Pix[y*img.Stride+x])
			var around int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					around += int(img.Pix[clampIndex(y+dy, h)*img.Stride+clampIndex(x+dx, w)])
				}
			}
			new.Pix[y*new.Stride+x] = clampByte(float64(centre - around))
		}
	}
	return new
}

// blend mixes two images of identical dimensions, giving the first
// the given share and the second the remainder.
func blend(a, b *image.Gray, shareA float64) *image.Gray {
	new := image.NewGray(a.Bounds())
	for i := range a.Pix {
		new.Pix[i] = clampByte(shareA*float64(a.Pix[i]) + (1-shareA)*float64(b.Pix[i]))
	}
	return new
}
