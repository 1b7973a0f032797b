// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pagecarver

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/nickjwhite/gofpdf"
	_ "golang.org/x/image/tiff"
)

const pageWidth = 5 // pageWidth in inches

// pxToPt converts a pixel value into a pt value (72 pts per inch)
// This uses pageWidth to determine the appropriate value
func pxToPt(i int) float64 {
	return float64(i) / pageWidth
}

// LineText pairs the region of one text line on a page with the text
// recognized in it. Lines are ordered top to bottom; that ordering is
// the reading order.
type LineText struct {
	Region image.Rectangle
	Text   string
}

// Fpdf builds a searchable PDF from page images and their recognized
// lines: each page shows the image, with the text laid invisibly over
// the line regions it was read from, so the PDF can be searched and
// copied from.
type Fpdf struct {
	fpdf *gofpdf.Fpdf
}

// Setup creates a new PDF with appropriate settings and fonts
func (p *Fpdf) Setup() error {
	p.fpdf = gofpdf.New("P", "pt", "A4", "")
	// Even though it's invisible, we need to add a font which can do
	// UTF-8 so that text renders correctly.
	p.fpdf.AddUTF8Font("dejavu", "", "DejaVuSansCondensed.ttf")
	p.fpdf.SetFont("dejavu", "", 10)
	p.fpdf.SetAutoPageBreak(false, float64(0))
	return p.fpdf.Error()
}

// AddPage adds a page to the pdf with the image at imgpath and its
// recognized lines as invisible text over their regions.
func (p *Fpdf) AddPage(imgpath string, lines []LineText) error {
	f, err := os.Open(imgpath)
	if err != nil {
		return errors.New(fmt.Sprintf("Could not open file %s: %v", imgpath, err))
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return errors.New(fmt.Sprintf("Could not decode image: %v", err))
	}
	b := img.Bounds()
	p.fpdf.AddPageFormat("P", gofpdf.SizeType{Wd: pxToPt(b.Dx()), Ht: pxToPt(b.Dy())})

	// page images are usually TIFFs, which gofpdf cannot embed, so
	// reencode as PNG
	var buf bytes.Buffer
	if err = png.Encode(&buf, img); err != nil {
		return errors.New(fmt.Sprintf("Could not encode image: %v", err))
	}
	opts := gofpdf.ImageOptions{ImageType: "png"}
	_ = p.fpdf.RegisterImageOptionsReader(imgpath, opts, &buf)
	p.fpdf.ImageOptions(imgpath, 0, 0, pxToPt(b.Dx()), pxToPt(b.Dy()), false, opts, 0, "")

	p.fpdf.SetTextRenderingMode(3)

	for _, l := range lines {
		if l.Text == "" {
			continue
		}
		r := l.Region
		p.fpdf.SetXY(pxToPt(r.Min.X), pxToPt(r.Min.Y))
		p.fpdf.CellFormat(pxToPt(r.Dx()), pxToPt(r.Dy()), l.Text, "", 0, "T", false, 0, "")
	}
	return p.fpdf.Error()
}

// Save saves the PDF to the file at path
func (p *Fpdf) Save(path string) error {
	return p.fpdf.OutputFileAndClose(path)
}
