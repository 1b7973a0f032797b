// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// segment finds the text lines on a page image, returning a top to
// bottom ordered list of full width line rectangles suitable for
// cropping and handing to a recognition engine. The only detector
// implemented is the horizontal projection profile method, but the
// Detector interface allows others to be slotted in ahead of or
// behind it.
package segment

import (
	"image"
)

// Detector finds text line regions on a page image. Every returned
// rectangle spans the full image width, is at least minLineHeight
// rows tall, and the rectangles are ordered by Min.Y ascending
// without overlapping. An empty result is valid and means no lines
// were found.
type Detector interface {
	Detect(img image.Image, minLineHeight int) ([]image.Rectangle, error)
}

// Lines runs each detector over img in turn, returning the regions
// from the first one that finds any; later detectors are not
// consulted once one has succeeded. A detector that fails counts as
// having found nothing. The returned error is nil unless every
// detector failed with an error, so callers can log the failure while
// still treating the page as simply having no lines.
func Lines(img image.Image, minLineHeight int, detectors ...Detector) ([]image.Rectangle, error) {
	if len(detectors) == 0 {
		detectors = []Detector{ProjectionDetector{}}
	}

	var lasterr error
	errors := 0
	for _, d := range detectors {
		regions, err := d.Detect(img, minLineHeight)
		if err != nil {
			lasterr = err
			errors++
			continue
		}
		if len(regions) > 0 {
			return regions, nil
		}
	}
	if errors == len(detectors) {
		return nil, lasterr
	}
	return nil, nil
}
