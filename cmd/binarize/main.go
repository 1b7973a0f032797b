// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// binarize thresholds a single image to black and white, mostly
// useful when tuning segmentation parameters.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"

	_ "golang.org/x/image/tiff"

	"github.com/pagecarver/pagecarver/binarize"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: binarize [-m method] [-w num] [-k num] inimg outimg\n")
		flag.PrintDefaults()
	}
	method := flag.String("m", "sauvola", "binarization method: fixed, otsu, adaptive or sauvola")
	wsize := flag.Int("w", 25, "Window size for sauvola algorithm (needs to be odd)")
	ksize := flag.Float64("k", 0.2, "K for sauvola algorithm")
	flag.Parse()
	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}

	if *wsize%2 == 0 {
		*wsize++
	}

	m, err := binarize.MethodFromString(*method)
	if err != nil {
		log.Fatalf("%v\n", err)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("Could not open file %s: %v\n", flag.Arg(0), err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		log.Fatalf("Could not decode image: %v\n", err)
	}
	gray := binarize.ToGray(img)

	var thresh *image.Gray
	if m == binarize.Sauvola {
		// TODO: estimate an appropriate window size based on resolution
		thresh = binarize.IntegralSauvola(gray, *ksize, *wsize)
	} else {
		thresh = binarize.Binarize(gray, m)
	}

	f, err = os.Create(flag.Arg(1))
	if err != nil {
		log.Fatalf("Could not create file %s: %v\n", flag.Arg(1), err)
	}
	defer f.Close()
	err = png.Encode(f, thresh)
	if err != nil {
		log.Fatalf("Could not encode image: %v\n", err)
	}
}
