// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// enhance prepares scanned page images for segmentation and
// recognition. It has two distinct jobs: Page improves a full page
// before it is stored and cropped, while ForSegmentation produces a
// throwaway copy tuned for line detection only, so recognition never
// sees its blurring.
package enhance

import (
	"image"
	"image/draw"
)

const (
	segContrast        = 1.2
	segBlurSigma       = 0.3
	unsharpSigma       = 1.0
	unsharpPercent     = 50
	unsharpThreshold   = 3
	claheTiles         = 8
	claheClipLimit     = 2.0
	pageEqualizedShare = 0.7
)

// Page enhances a full page image prior to storage and segmentation.
// Colour input is passed through untouched apart from normalisation
// to RGBA. Grayscale input, the usual case after PDF rasterization,
// gets contrast-limited adaptive histogram equalization followed by a
// 3x3 sharpening convolution, blended 70/30 in favour of the
// equalized image to avoid over-sharpening artifacts. A nil input
// returns nil.
func Page(img image.Image) image.Image {
	if img == nil {
		return nil
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		b := img.Bounds()
		rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
		return rgba
	}

	equalized := clahe(gray, claheTiles, claheClipLimit)
	sharpened := sharpen3x3(equalized)
	return blend(equalized, sharpened, pageEqualizedShare)
}

// ForSegmentation produces the copy of an image that feeds line
// detection: contrast boosted by 1.2, a slight Gaussian blur to
// suppress speckle noise, then an unsharp mask to restore edge
// definition. The result is grayscale as the line detector binarizes
// it anyway.
func ForSegmentation(img image.Image) *image.Gray {
	gray := toGray(img)
	gray = contrast(gray, segContrast)
	gray = gaussianBlur(gray, segBlurSigma)
	return unsharpMask(gray, unsharpSigma, unsharpPercent, unsharpThreshold)
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == image.Pt(0, 0) {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}
