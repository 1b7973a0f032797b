// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// pipeline orchestrates the carving of a scanned document into text
// lines and their recognition. It is considered an "internal"
// package, not intended for external use, and no guarantee is made
// of the stability of any interfaces provided.
package pipeline

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/pagecarver/pagecarver"
	"github.com/pagecarver/pagecarver/binarize"
	"github.com/pagecarver/pagecarver/enhance"
	"github.com/pagecarver/pagecarver/segment"
)

// Uploader is the part of a storage connection needed to mirror
// processed pages elsewhere; both pagecarver.LocalConn and
// pagecarver.AwsConn satisfy it.
type Uploader interface {
	Upload(bucket string, key string, path string) error
	StorageId() string
	Log(v ...interface{})
}

// PageResult is one processed page half: the path its enhanced image
// was written to and the text line regions detected on it, in top to
// bottom order.
type PageResult struct {
	ImgPath string
	Lines   []image.Rectangle
}

// null writer to enable non-verbose logging to be discarded
type NullWriter bool

func (w NullWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// ProcessFile carves the document at path into page halves and line
// regions. PDFs are rasterized a page at a time at cfg.DPI; anything
// else is decoded as a single image. Each page is enhanced, split
// down the middle into its left and right halves, and each half is
// saved under outDir as {stem}_f{page:02d}_{side}.tif before being
// segmented. Halves on which no lines are found are logged and
// skipped. An unreadable or undecodable file returns an error and no
// results, so one bad file need not abort a batch.
func ProcessFile(path string, outDir string, cfg pagecarver.Config, logger *log.Logger) ([]PageResult, error) {
	cfg.ApplyDefaults()

	pages, err := rasterize(path, cfg.DPI)
	if err != nil {
		return nil, fmt.Errorf("Failed to read %s: %v", path, err)
	}

	if err = os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("Failed to create output directory %s: %v", outDir, err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	detectors := []segment.Detector{projectionDetector(cfg)}

	var results []PageResult
	for pgnum, page := range pages {
		processed := enhance.Page(page)
		if processed == nil {
			continue
		}
		left, right := segment.SplitDoublePage(processed)

		for _, half := range []struct {
			img  image.Image
			side string
		}{{left, "left"}, {right, "right"}} {
			imgpath := filepath.Join(outDir, fmt.Sprintf("%s_f%02d_%s.tif", stem, pgnum, half.side))
			if err = saveTiff(imgpath, half.img); err != nil {
				return results, fmt.Errorf("Failed to save page %s: %v", imgpath, err)
			}

			lines, segerr := segment.Lines(half.img, cfg.MinLineHeight, detectors...)
			if segerr != nil {
				logger.Printf("Segmentation of %s failed, treating as no lines: %v", imgpath, segerr)
			}
			if len(lines) == 0 {
				logger.Printf("%s page %d: No lines found.", half.side, pgnum)
				continue
			}
			logger.Printf("%s page %d: Found %d lines.", half.side, pgnum, len(lines))
			results = append(results, PageResult{ImgPath: imgpath, Lines: lines})
		}
	}

	return results, nil
}

func projectionDetector(cfg pagecarver.Config) segment.Detector {
	d := segment.ProjectionDetector{}
	if m, err := binarize.MethodFromString(cfg.BinarizeMethod); err == nil {
		d.Method = m
	}
	return d
}

func saveTiff(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
}

// UploadResults mirrors processed page images to a storage
// connection, prefixed with the source document's stem.
func UploadResults(conn Uploader, stem string, results []PageResult) error {
	for _, r := range results {
		key := filepath.Join(stem, filepath.Base(r.ImgPath))
		conn.Log("Uploading", key)
		if err := conn.Upload(conn.StorageId(), key, r.ImgPath); err != nil {
			return fmt.Errorf("Failed to upload %s: %v", r.ImgPath, err)
		}
	}
	return nil
}
