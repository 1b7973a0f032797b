// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pipeline

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	_ "golang.org/x/image/tiff"
)

// rasterize turns the document at path into a slice of page images.
// PDFs are rendered a page at a time at the given DPI, which needs to
// be high enough for line heights to comfortably exceed the minimum
// line height heuristics; everything else is decoded as a single
// raster image.
func rasterize(path string, dpi int) ([]image.Image, error) {
	if strings.ToLower(filepath.Ext(path)) == ".pdf" {
		return rasterizePdf(path, dpi)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("Cannot decode image file %s: %v", path, err)
	}
	return []image.Image{img}, nil
}

func rasterizePdf(path string, dpi int) ([]image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open pdf %s: %v", path, err)
	}
	defer doc.Close()

	var pages []image.Image
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.ImageDPI(n, float64(dpi))
		if err != nil {
			return nil, fmt.Errorf("Cannot rasterize page %d of %s: %v", n, path, err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}
