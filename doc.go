// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

/*
The pagecarver package carves scanned documents into recognisable
text lines. Given an image or a multi-page PDF of scans, typically
double-page spreads of archival material, it enhances each page,
splits it into its left and right halves, finds the text lines on
each half with a projection profile method, and hands the line crops
to a pluggable recognition engine, assembling the results into the
document's text in reading order.

Overview

The work happens in a handful of packages, leaves first:

The integral package computes summed-area tables, which let the local
thresholding methods take the mean and standard deviation of a pixel
neighbourhood in constant time.

The binarize package turns grayscale pages into strict black and
white, with a choice of thresholding methods. Sauvola's local
algorithm is the default as it copes well with the uneven lighting of
archival scans.

The enhance package improves pages before they are stored and
segmented, and prepares a separate, more aggressively filtered copy
that only the line detector sees, so recognition always operates on
un-blurred pixels.

The segment package finds the text lines. It computes a horizontal
ink density profile of the binarized page, smooths it, and treats the
prominent minima as the gaps between lines. It also splits double
page spreads down the middle.

The internal/pipeline package orchestrates: it rasterizes PDFs,
enhances and splits pages, persists page images with deterministic
names, runs segmentation, crops line regions, and drives the
recognition engine. Failures are contained at the smallest sensible
unit; an unreadable file yields no pages rather than aborting a
batch, and a page half that defeats the segmenter simply has no
lines.

The ocr/tesseract package provides a recognition engine backed by
Tesseract; any type with a compatible Recognize method can be used
instead.

Tools

Three commands are included. carvelines processes a file into page
images and line coordinates, and can graph the ink profile used for
segmentation. recognizetext runs the whole pipeline to produce the
text of a document, optionally building a searchable PDF. binarize
thresholds a single image, mostly useful when tuning parameters.

Storage connections (local filesystem or S3) can mirror the processed
page images and transcripts elsewhere, using the same minimal
interface, so the pipeline can feed downstream systems.
*/
package pagecarver
