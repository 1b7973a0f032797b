// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// recognizetext runs the full pipeline over a scanned document and
// prints its text, optionally building a searchable PDF alongside.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pagecarver/pagecarver"
	"github.com/pagecarver/pagecarver/internal/pipeline"
	"github.com/pagecarver/pagecarver/lib/wer"
	"github.com/pagecarver/pagecarver/ocr/tesseract"
)

const usage = `Usage: recognizetext [-v] [-l lang] [-height num] [-dpi num] [-t num] [-pdf out.pdf] [-wer ref.txt] file

Carves the document into text lines and recognizes them with
Tesseract, printing the text to stdout. Lines are joined by a newline
and pages by a blank line, in reading order. With -pdf a searchable
PDF is built from the processed page images, with the recognized text
placed invisibly at each line's position. With -wer the word error
rate against a reference transcription is reported on stderr.
`

func main() {
	verbose := flag.Bool("v", false, "verbose")
	conf := flag.String("conf", "", "yaml configuration file; flags given explicitly override it")
	langs := flag.String("l", "", "comma separated languages for tesseract, e.g. eng,rus")
	height := flag.Int("height", pagecarver.DefaultMinLineHeight, "minimum height of a text line in pixels")
	dpi := flag.Int("dpi", pagecarver.DefaultDPI, "resolution to rasterize pdf pages at")
	workers := flag.Int("t", 1, "number of lines to recognize concurrently")
	pdfout := flag.String("pdf", "", "file name to save a searchable pdf to")
	werref := flag.String("wer", "", "reference transcription to report a word error rate against")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	var verboselog *log.Logger
	if *verbose {
		verboselog = log.New(os.Stderr, "", log.LstdFlags)
	} else {
		var n pipeline.NullWriter
		verboselog = log.New(n, "", log.LstdFlags)
	}

	var cfg pagecarver.Config
	if *conf != "" {
		var err error
		cfg, err = pagecarver.LoadConfig(*conf)
		if err != nil {
			log.Fatalln(err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "l":
			cfg.Languages = strings.Split(*langs, ",")
		case "height":
			cfg.MinLineHeight = *height
		case "dpi":
			cfg.DPI = *dpi
		case "t":
			cfg.Workers = *workers
		}
	})
	cfg.ApplyDefaults()

	engine := tesseract.NewEngine(cfg.Languages...)
	defer engine.Close()

	ctx := context.Background()
	fn := flag.Arg(0)

	var text string
	if *pdfout == "" {
		var err error
		text, err = pipeline.RecognizeFile(ctx, fn, engine, cfg, verboselog)
		if err != nil {
			log.Fatalf("Failed to recognize %s: %v\n", fn, err)
		}
	} else {
		text = recognizeToPdf(ctx, fn, engine, cfg, verboselog, *pdfout)
	}

	fmt.Println(text)

	if *werref != "" {
		ref, err := os.ReadFile(*werref)
		if err != nil {
			log.Fatalf("Failed to read reference %s: %v\n", *werref, err)
		}
		fmt.Fprintf(os.Stderr, "WER: %.4f\n", wer.Rate(string(ref), text))
	}
}

// recognizeToPdf does what pipeline.RecognizeFile does, but keeps the
// per line regions so the text can be placed invisibly over each line
// of the page images in a searchable pdf.
func recognizeToPdf(ctx context.Context, fn string, engine *tesseract.Engine, cfg pagecarver.Config, verboselog *log.Logger, pdfout string) string {
	stem := strings.TrimSuffix(filepath.Base(fn), filepath.Ext(fn))
	outdir := cfg.OutDir
	if outdir == "" {
		outdir = filepath.Join("data", "preprocessed", stem)
	}

	results, err := pipeline.ProcessFile(fn, outdir, cfg, verboselog)
	if err != nil {
		log.Fatalf("Failed to process %s: %v\n", fn, err)
	}

	pdf := new(pagecarver.Fpdf)
	err = pdf.Setup()
	if err != nil {
		log.Fatalln("Failed to set up pdf:", err)
	}

	var pagetexts []string
	for _, res := range results {
		lines, err := pipeline.RecognizePage(ctx, engine, res, cfg.Workers)
		if err != nil {
			log.Fatalf("Failed to recognize %s: %v\n", res.ImgPath, err)
		}
		err = pdf.AddPage(res.ImgPath, lines)
		if err != nil {
			log.Fatalf("Failed to add %s to pdf: %v\n", res.ImgPath, err)
		}
		var texts []string
		for _, l := range lines {
			texts = append(texts, l.Text)
		}
		pagetexts = append(pagetexts, strings.Join(texts, "\n"))
	}

	err = pdf.Save(pdfout)
	if err != nil {
		log.Fatalf("Failed to save %s: %v\n", pdfout, err)
	}

	return strings.Join(pagetexts, "\n\n")
}
