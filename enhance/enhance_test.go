// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package enhance

import (
	"image"
	"image/color"
	"testing"
)

func grayWith(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestPageNil(t *testing.T) {
	if Page(nil) != nil {
		t.Error("Page(nil) did not return nil")
	}
}

func TestPageColourPassthrough(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			src.Set(x, y, color.RGBA{uint8(x * 12), uint8(y * 25), 99, 255})
		}
	}

	got := Page(src)
	if got.Bounds().Dx() != 20 || got.Bounds().Dy() != 10 {
		t.Fatalf("Colour passthrough changed dimensions to %v", got.Bounds())
	}
	r0, g0, b0, _ := src.At(7, 3).RGBA()
	r1, g1, b1, _ := got.At(7, 3).RGBA()
	if r0 != r1 || g0 != g1 || b0 != b1 {
		t.Error("Colour passthrough altered pixel values")
	}
}

func TestPageGrayDimensionsAndRange(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			src.SetGray(x, y, color.Gray{uint8((x*3 + y*5) % 256)})
		}
	}

	got := Page(src)
	gray, ok := got.(*image.Gray)
	if !ok {
		t.Fatalf("Grayscale page enhanced to non-grayscale %T", got)
	}
	if gray.Bounds().Dx() != 64 || gray.Bounds().Dy() != 48 {
		t.Fatalf("Enhanced page changed dimensions to %v", gray.Bounds())
	}
}

func TestPageUniformStaysUniform(t *testing.T) {
	// With a flat histogram the clipped equalization mapping is near
	// identity, and sharpening a constant image is a no-op, so a
	// uniform page must stay (close to) uniform.
	got := Page(grayWith(64, 64, 180)).(*image.Gray)
	min, max := uint8(255), uint8(0)
	for _, p := range got.Pix {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	if max-min > 2 {
		t.Errorf("Uniform page became uneven: min %d max %d", min, max)
	}
}

func TestForSegmentationPreservesStructure(t *testing.T) {
	// A white image with a black bar should remain a light image
	// with a clearly darker bar after enhancement.
	src := grayWith(100, 60, 255)
	for y := 25; y < 35; y++ {
		for x := 0; x < 100; x++ {
			src.SetGray(x, y, color.Gray{0})
		}
	}

	got := ForSegmentation(src)
	if got.Bounds().Dx() != 100 || got.Bounds().Dy() != 60 {
		t.Fatalf("ForSegmentation changed dimensions to %v", got.Bounds())
	}
	if got.GrayAt(50, 30).Y > 60 {
		t.Errorf("Bar centre became too light: %d", got.GrayAt(50, 30).Y)
	}
	if got.GrayAt(50, 5).Y < 200 {
		t.Errorf("Background became too dark: %d", got.GrayAt(50, 5).Y)
	}
}

func TestContrastIdentity(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 2)
	}
	got := contrast(src, 1.0)
	for i := range src.Pix {
		if got.Pix[i] != src.Pix[i] {
			t.Fatalf("contrast(1.0) altered pixel %d: %d != %d", i, got.Pix[i], src.Pix[i])
		}
	}
}
