// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// binarize converts grayscale page images into strict two-level
// black and white images, offering a choice of global and local
// thresholding methods. Ink is always the black (0) class in the
// output.
package binarize

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Method selects the thresholding algorithm used by Binarize.
type Method int

const (
	// Fixed thresholds globally at 127.
	Fixed Method = iota
	// Otsu picks the global threshold that minimises intra-class
	// variance.
	Otsu
	// Adaptive thresholds each pixel against the Gaussian weighted
	// mean of its 11x11 neighbourhood, less a constant offset.
	Adaptive
	// Sauvola thresholds each pixel against a value derived from the
	// mean and standard deviation of its 25x25 neighbourhood. It
	// copes well with the uneven illumination typical of archival
	// scans, so it is the default.
	Sauvola
)

// Default is the method used when a caller has no preference.
const Default = Sauvola

const (
	fixedThreshold = 127
	adaptiveWsize  = 11
	adaptiveOffset = 2
	sauvolaWsize   = 25
	sauvolaKsize   = 0.2
)

func (m Method) String() string {
	switch m {
	case Fixed:
		return "fixed"
	case Otsu:
		return "otsu"
	case Adaptive:
		return "adaptive"
	case Sauvola:
		return "sauvola"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// MethodFromString parses a method name as used in configuration
// files and command line flags. An empty string selects the default.
func MethodFromString(s string) (Method, error) {
	switch s {
	case "fixed":
		return Fixed, nil
	case "otsu":
		return Otsu, nil
	case "adaptive":
		return Adaptive, nil
	case "sauvola", "":
		return Sauvola, nil
	}
	return Default, fmt.Errorf("Unknown binarization method %q", s)
}

// ToGray copies any image into a grayscale image with bounds
// anchored at the origin.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == image.Pt(0, 0) {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// Binarize thresholds img with the given method, returning an image
// containing only the values 0 (ink) and 255 (background).
func Binarize(img image.Image, m Method) *image.Gray {
	gray := ToGray(img)
	switch m {
	case Otsu:
		return global(gray, OtsuThreshold(gray))
	case Adaptive:
		return adaptiveMean(gray, adaptiveWsize, adaptiveOffset)
	case Sauvola:
		return IntegralSauvola(gray, sauvolaKsize, sauvolaWsize)
	}
	return global(gray, fixedThreshold)
}

// global thresholds every pixel against a single value; pixels
// strictly above the threshold become background.
func global(img *image.Gray, threshold uint8) *image.Gray {
	b := img.Bounds()
	new := image.NewGray(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.GrayAt(x, y).Y > threshold {
				new.SetGray(x, y, color.Gray{255})
			} else {
				new.SetGray(x, y, color.Gray{0})
			}
		}
	}

	return new
}
