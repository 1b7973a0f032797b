// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package segment

import (
	"fmt"
	"image"
	"image/color"
	"reflect"
	"testing"
)

// barsImage builds a white page with full width black bars of the
// given height, separated by the given gap, with a margin above the
// first and below the last.
func barsImage(w, barheight, gap, margin, bars int) *image.Gray {
	h := 2*margin + bars*barheight + (bars-1)*gap
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for bar := 0; bar < bars; bar++ {
		y0 := margin + bar*(barheight+gap)
		for y := y0; y < y0+barheight; y++ {
			for x := 0; x < w; x++ {
				img.SetGray(x, y, color.Gray{0})
			}
		}
	}
	return img
}

func TestThreeBars(t *testing.T) {
	img := barsImage(200, 30, 40, 20, 3)

	regions, err := Lines(img, 10)
	if err != nil {
		t.Fatalf("Segmentation failed: %v", err)
	}
	if len(regions) != 3 {
		t.Fatalf("Found %d lines, expected 3: %v", len(regions), regions)
	}

	prev := -1
	for i, r := range regions {
		if r.Min.X != 0 || r.Max.X != 200 {
			t.Errorf("Line %d does not span the full width: %v", i, r)
		}
		// the profile smoothing spreads a little density past the
		// bar edges, so with trimming and padding the regions come
		// out a few pixels taller than the bars themselves
		h := r.Dy()
		if h < 26 || h > 36 {
			t.Errorf("Line %d height %d outside expected range: %v", i, h, r)
		}
		if r.Min.Y <= prev {
			t.Errorf("Line %d overlaps or is out of order: %v", i, regions)
		}
		prev = r.Max.Y
	}
}

func TestMinLineHeightRespected(t *testing.T) {
	img := barsImage(200, 30, 40, 20, 3)

	for _, minheight := range []int{5, 10, 20} {
		t.Run(fmt.Sprintf("minheight%d", minheight), func(t *testing.T) {
			regions, err := Lines(img, minheight)
			if err != nil {
				t.Fatalf("Segmentation failed: %v", err)
			}
			for _, r := range regions {
				if r.Dy() < minheight {
					t.Errorf("Region %v shorter than minimum %d", r, minheight)
				}
			}
		})
	}
}

func TestAllWhite(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	regions, err := Lines(img, 10)
	if err != nil {
		t.Fatalf("Segmentation of a blank page failed: %v", err)
	}
	if len(regions) != 0 {
		t.Fatalf("Blank page produced %d regions: %v", len(regions), regions)
	}
}

func TestDeterministic(t *testing.T) {
	img := barsImage(150, 20, 30, 10, 4)

	first, err := Lines(img, 10)
	if err != nil {
		t.Fatalf("Segmentation failed: %v", err)
	}
	second, err := Lines(img, 10)
	if err != nil {
		t.Fatalf("Repeat segmentation failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Segmentation was not deterministic: %v != %v", first, second)
	}
}

func TestEmptyImageErrors(t *testing.T) {
	_, err := ProjectionDetector{}.Detect(image.NewGray(image.Rect(0, 0, 0, 0)), 10)
	if err == nil {
		t.Fatal("Segmenting an empty image did not return an error")
	}

	// but via Lines the failure degrades to no lines plus the error
	regions, _ := Lines(image.NewGray(image.Rect(0, 0, 0, 0)), 10)
	if len(regions) != 0 {
		t.Fatalf("Empty image produced regions: %v", regions)
	}
}

// failDetector always errors, to exercise the fallback behaviour.
type failDetector struct{}

func (failDetector) Detect(img image.Image, minLineHeight int) ([]image.Rectangle, error) {
	return nil, fmt.Errorf("broken detector")
}

func TestDetectorFallback(t *testing.T) {
	img := barsImage(200, 30, 40, 20, 3)

	// a failing detector ahead of the projection detector is skipped
	regions, err := Lines(img, 10, failDetector{}, ProjectionDetector{})
	if err != nil {
		t.Fatalf("Fallback returned error: %v", err)
	}
	if len(regions) != 3 {
		t.Fatalf("Fallback found %d lines, expected 3", len(regions))
	}

	// if every detector fails the error surfaces alongside an empty
	// result
	regions, err = Lines(img, 10, failDetector{})
	if err == nil {
		t.Fatal("All-failing detectors did not surface an error")
	}
	if len(regions) != 0 {
		t.Fatalf("All-failing detectors produced regions: %v", regions)
	}
}

func TestSplitDoublePage(t *testing.T) {
	cases := []struct {
		w, h int
	}{
		{400, 300},
		{401, 300},
		{2, 2},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%dx%d", c.w, c.h), func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, c.w, c.h))
			for y := 0; y < c.h; y++ {
				for x := 0; x < c.w; x++ {
					src.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 7, 255})
				}
			}

			left, right := SplitDoublePage(src)
			if left.Bounds().Dx() != c.w/2 {
				t.Errorf("Left width %d, expected %d", left.Bounds().Dx(), c.w/2)
			}
			if right.Bounds().Dx() != c.w-c.w/2 {
				t.Errorf("Right width %d, expected %d", right.Bounds().Dx(), c.w-c.w/2)
			}
			if left.Bounds().Dy() != c.h || right.Bounds().Dy() != c.h {
				t.Error("Split altered image height")
			}
			if left.Bounds().Dx()+right.Bounds().Dx() != c.w {
				t.Error("Halves do not recombine to the original width")
			}

			lr, lg, lb, _ := left.At(left.Bounds().Min.X, left.Bounds().Min.Y).RGBA()
			sr, sg, sb, _ := src.At(0, 0).RGBA()
			if lr != sr || lg != sg || lb != sb {
				t.Error("Left half (0,0) does not match source (0,0)")
			}
			rr, rg, rb, _ := right.At(right.Bounds().Min.X, right.Bounds().Min.Y).RGBA()
			mr, mg, mb, _ := src.At(c.w/2, 0).RGBA()
			if rr != mr || rg != mg || rb != mb {
				t.Error("Right half (0,0) does not match source (w/2,0)")
			}
		})
	}
}
