// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/pagecarver/pagecarver"
)

// Recognizer is the external text recognition capability the
// pipeline depends on but does not implement. It takes a single line
// crop and returns its text; an empty string is a valid "no text"
// result. Implementations must be safe for concurrent use, as line
// recognition within a page is parallelised.
type Recognizer interface {
	Recognize(ctx context.Context, line image.Image) (string, error)
}

// RecognizeFile carves the document at path and recognizes every
// detected line with rec, returning the document text: lines joined
// by a newline within a page, pages joined by a double newline, in
// page then line order. That ordering is the system's entire model
// of document structure. A file that cannot be read or yields no
// lines produces an empty string, not an error; a failing
// recognition call aborts the document and returns its error.
func RecognizeFile(ctx context.Context, path string, rec Recognizer, cfg pagecarver.Config, logger *log.Logger) (string, error) {
	cfg.ApplyDefaults()

	outDir := cfg.OutDir
	if outDir == "" {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		outDir = filepath.Join("data", "preprocessed", stem)
	}

	results, err := ProcessFile(path, outDir, cfg, logger)
	if err != nil {
		logger.Printf("ERROR processing %s: %v", path, err)
		return "", nil
	}
	if len(results) == 0 {
		logger.Printf("No text lines detected for recognition in %s", path)
		return "", nil
	}

	var pagetexts []string
	for _, res := range results {
		lines, err := RecognizePage(ctx, rec, res, cfg.Workers)
		if err != nil {
			return "", err
		}
		var texts []string
		for _, l := range lines {
			texts = append(texts, l.Text)
		}
		pagetexts = append(pagetexts, strings.Join(texts, "\n"))
	}

	return strings.Join(pagetexts, "\n\n"), nil
}

// RecognizePage reopens a processed page image, crops each line
// region, and recognizes the crops on a bounded pool of workers,
// preserving line order. Lines whose recognized text is empty are
// dropped. Any recognition error aborts the page.
func RecognizePage(ctx context.Context, rec Recognizer, res PageResult, workers int) ([]pagecarver.LineText, error) {
	if workers < 1 {
		workers = 1
	}

	f, err := os.Open(res.ImgPath)
	if err != nil {
		return nil, fmt.Errorf("Could not open page image %s: %v", res.ImgPath, err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("Could not decode page image %s: %v", res.ImgPath, err)
	}

	// each crop is an independent copy, so recognition calls share no
	// mutable state
	crops := make([]image.Image, len(res.Lines))
	for i, r := range res.Lines {
		crops[i] = imaging.Crop(img, r)
	}

	texts := make([]string, len(res.Lines))
	// buffered so that workers exiting early on an error can never
	// leave the producer blocked
	jobs := make(chan int, len(crops))
	for i := range crops {
		jobs <- i
	}
	close(jobs)

	errc := make(chan error, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					errc <- ctx.Err()
					return
				default:
				}
				text, err := rec.Recognize(ctx, crops[i])
				if err != nil {
					errc <- fmt.Errorf("Failed to recognize line %d of %s: %v", i, res.ImgPath, err)
					return
				}
				texts[i] = text
			}
		}()
	}

	wg.Wait()

	select {
	case err := <-errc:
		return nil, err
	default:
	}

	var lines []pagecarver.LineText
	for i, text := range texts {
		if text == "" {
			continue
		}
		lines = append(lines, pagecarver.LineText{Region: res.Lines[i], Text: text})
	}
	return lines, nil
}
