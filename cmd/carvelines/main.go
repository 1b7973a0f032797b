// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// carvelines processes scanned documents into per-half page images
// and the coordinates of the text lines found on them.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pagecarver/pagecarver"
	"github.com/pagecarver/pagecarver/binarize"
	"github.com/pagecarver/pagecarver/internal/pipeline"
	"github.com/pagecarver/pagecarver/segment"
)

const usage = `Usage: carvelines [-v] [-m method] [-height num] [-dpi num] [-d dir] [-graph graph.png] [-c conn] file...

Carves each file (image or PDF) into page halves, saves them as TIFFs,
and prints the detected text line regions. With -graph the ink profile
of the first processed page half is plotted, which helps when tuning
the minimum line height. With -c the page images are also uploaded to
a storage connection.
`

// a Carver simply needs to store images somewhere
type Carver interface {
	Init() error
	Upload(bucket string, key string, path string) error
	StorageId() string
	Log(v ...interface{})
}

func graphProfile(respath string, graphpath string, minLineHeight int, d segment.ProjectionDetector) error {
	f, err := os.Open(respath)
	if err != nil {
		return fmt.Errorf("Failed to open %s: %v", respath, err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("Failed to decode %s: %v", respath, err)
	}

	profile := d.Profile(img)
	regions, err := d.Detect(img, minLineHeight)
	if err != nil {
		return fmt.Errorf("Failed to segment %s: %v", respath, err)
	}

	gf, err := os.Create(graphpath)
	if err != nil {
		return fmt.Errorf("Failed to create %s: %v", graphpath, err)
	}
	defer gf.Close()
	return pagecarver.Graph(profile, regions, filepath.Base(respath), gf)
}

func main() {
	verbose := flag.Bool("v", false, "verbose")
	method := flag.String("m", "sauvola", "binarization method to use for segmentation: fixed, otsu, adaptive or sauvola")
	height := flag.Int("height", pagecarver.DefaultMinLineHeight, "minimum height of a text line in pixels")
	dpi := flag.Int("dpi", pagecarver.DefaultDPI, "resolution to rasterize pdf pages at")
	dir := flag.String("d", "", "directory to save page images to (default data/preprocessed/{stem})")
	graph := flag.String("graph", "", "file name to save an ink profile graph of the first page half to")
	conntype := flag.String("c", "", "connection type to upload page images to ('aws' or 'local')")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	var verboselog *log.Logger
	if *verbose {
		verboselog = log.New(os.Stdout, "", log.LstdFlags)
	} else {
		var n pipeline.NullWriter
		verboselog = log.New(n, "", log.LstdFlags)
	}

	var conn Carver
	switch *conntype {
	case "":
	case "aws":
		conn = &pagecarver.AwsConn{Region: "eu-west-2", Logger: verboselog}
	case "local":
		conn = &pagecarver.LocalConn{Logger: verboselog}
	default:
		log.Fatalln("Unknown connection type")
	}
	if conn != nil {
		err := conn.Init()
		if err != nil {
			log.Fatalln("Failed to set up storage connection:", err)
		}
	}

	cfg := pagecarver.Config{
		DPI:            *dpi,
		MinLineHeight:  *height,
		BinarizeMethod: *method,
	}
	cfg.ApplyDefaults()

	for _, fn := range flag.Args() {
		stem := strings.TrimSuffix(filepath.Base(fn), filepath.Ext(fn))
		outdir := *dir
		if outdir == "" {
			outdir = filepath.Join("data", "preprocessed", stem)
		}

		results, err := pipeline.ProcessFile(fn, outdir, cfg, verboselog)
		if err != nil {
			log.Printf("Error processing %s: %v\n", fn, err)
			continue
		}

		for _, res := range results {
			fmt.Printf("%s: %d lines\n", res.ImgPath, len(res.Lines))
			for _, r := range res.Lines {
				fmt.Printf("  y %d - %d\n", r.Min.Y, r.Max.Y)
			}
		}

		if *graph != "" && len(results) > 0 {
			d := segment.ProjectionDetector{}
			if m, err := binarize.MethodFromString(*method); err == nil {
				d.Method = m
			}
			err = graphProfile(results[0].ImgPath, *graph, cfg.MinLineHeight, d)
			if err != nil {
				log.Fatalln("Failed to graph ink profile:", err)
			}
			// only graph the first file
			*graph = ""
		}

		if conn != nil {
			err = pipeline.UploadResults(conn, stem, results)
			if err != nil {
				log.Fatalln("Failed to upload results:", err)
			}
		}
	}
}
