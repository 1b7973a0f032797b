// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package enhance

import (
	"image"
)

// clahe performs contrast-limited adaptive histogram equalization.
// The image is divided into tiles x tiles regions, each of which gets
// its own clipped-histogram equalization mapping; pixels are then
// remapped by bilinear interpolation between the mappings of the four
// nearest tile centres, which hides the tile boundaries.
func clahe(img *image.Gray, tiles int, clipLimit float64) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return img
	}
	if tiles > w {
		tiles = w
	}
	if tiles > h {
		tiles = h
	}

	tileW := (w + tiles - 1) / tiles
	tileH := (h + tiles - 1) / tiles

	// Build a remapping lookup table per tile.
	luts := make([][256]uint8, tiles*tiles)
	for ty := 0; ty < tiles; ty++ {
		for tx := 0; tx < tiles; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := x0+tileW, y0+tileH
			if x1 > w {
				x1 = w
			}
			if y1 > h {
				y1 = h
			}

			var hist [256]int
			area := (x1 - x0) * (y1 - y0)
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[img.Pix[y*img.Stride+x]]++
				}
			}

			// Clip the histogram and redistribute the excess evenly,
			// which is what limits the contrast amplification.
			limit := int(clipLimit * float64(area) / 256)
			if limit < 1 {
				limit = 1
			}
			excess := 0
			for v := range hist {
				if hist[v] > limit {
					excess += hist[v] - limit
					hist[v] = limit
				}
			}
			perBin := excess / 256
			remainder := excess % 256
			for v := range hist {
				hist[v] += perBin
				if v < remainder {
					hist[v]++
				}
			}

			var cdf int
			lut := &luts[ty*tiles+tx]
			for v := 0; v < 256; v++ {
				cdf += hist[v]
				lut[v] = clampByte(float64(cdf) * 255 / float64(area))
			}
		}
	}

	// Remap each pixel by interpolating between neighbouring tiles.
	new := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		// position relative to tile centres in tile units
		fy := (float64(y)-float64(tileH)/2 + 0.5) / float64(tileH)
		ty0 := int(fy)
		if fy < 0 {
			ty0 = 0
			fy = 0
		}
		ty1 := ty0 + 1
		if ty1 >= tiles {
			ty1 = tiles - 1
			ty0 = ty1
		}
		wy := fy - float64(int(fy))

		for x := 0; x < w; x++ {
			fx := (float64(x)-float64(tileW)/2 + 0.5) / float64(tileW)
			tx0 := int(fx)
			if fx < 0 {
				tx0 = 0
				fx = 0
			}
			tx1 := tx0 + 1
			if tx1 >= tiles {
				tx1 = tiles - 1
				tx0 = tx1
			}
			wx := fx - float64(int(fx))

			v := img.Pix[y*img.Stride+x]
			tl := float64(luts[ty0*tiles+tx0][v])
			tr := float64(luts[ty0*tiles+tx1][v])
			bl := float64(luts[ty1*tiles+tx0][v])
			br := float64(luts[ty1*tiles+tx1][v])

			top := tl + (tr-tl)*wx
			bottom := bl + (br-bl)*wx
			new.Pix[y*new.Stride+x] = clampByte(top + (bottom-top)*wy)
		}
	}

	return new
}
