// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pagecarver/pagecarver"
)

// testPage draws a double page spread: three full width black bars on
// the left half, and a blank right half.
func testPage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 400, 300))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Gray{255}), image.Point{}, draw.Src)
	for bar := 0; bar < 3; bar++ {
		y0 := 30 + bar*90
		draw.Draw(img, image.Rect(10, y0, 190, y0+30), image.NewUniform(color.Gray{0}), image.Point{}, draw.Src)
	}
	return img
}

func savePage(t *testing.T, dir string, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
	return path
}

func quietLogger() *log.Logger {
	var n NullWriter
	return log.New(n, "", 0)
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	path := savePage(t, dir, "spread.png", testPage())
	outdir := filepath.Join(dir, "out")

	cfg := pagecarver.Config{MinLineHeight: 10}
	results, err := ProcessFile(path, outdir, cfg, quietLogger())
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	// the blank right half is saved but yields no result
	if len(results) != 1 {
		t.Fatalf("Expected 1 page result, got %d", len(results))
	}
	want := filepath.Join(outdir, "spread_f00_left.tif")
	if results[0].ImgPath != want {
		t.Errorf("Expected image path %s, got %s", want, results[0].ImgPath)
	}
	if len(results[0].Lines) != 3 {
		t.Errorf("Expected 3 lines on the left half, got %d", len(results[0].Lines))
	}

	for _, side := range []string{"left", "right"} {
		p := filepath.Join(outdir, fmt.Sprintf("spread_f00_%s.tif", side))
		if _, err := os.Stat(p); err != nil {
			t.Errorf("Expected %s half to be saved at %s: %v", side, p, err)
		}
	}
}

func TestProcessFileDeterministic(t *testing.T) {
	dir := t.TempDir()
	path := savePage(t, dir, "spread.png", testPage())

	cfg := pagecarver.Config{MinLineHeight: 10}
	first, err := ProcessFile(path, filepath.Join(dir, "out1"), cfg, quietLogger())
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, err := ProcessFile(path, filepath.Join(dir, "out2"), cfg, quietLogger())
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("Runs disagree on result count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !reflect.DeepEqual(first[i].Lines, second[i].Lines) {
			t.Errorf("Runs disagree on lines for result %d: %v vs %v", i, first[i].Lines, second[i].Lines)
		}
	}
}

func TestProcessFileBadInput(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "garbage.png"), []byte("not an image"), 0644); err != nil {
		t.Fatalf("Failed to write garbage file: %v", err)
	}

	cases := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "nonexistent.png")},
		{"not an image", filepath.Join(dir, "garbage.png")},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			results, err := ProcessFile(c.path, filepath.Join(dir, "out"), pagecarver.Config{}, quietLogger())
			if err == nil {
				t.Error("Expected an error, got none")
			}
			if len(results) != 0 {
				t.Errorf("Expected no results, got %d", len(results))
			}
		})
	}
}

type recordUploader struct {
	keys []string
}

func (u *recordUploader) Upload(bucket string, key string, path string) error {
	u.keys = append(u.keys, key)
	return nil
}
func (u *recordUploader) StorageId() string  { return "testbucket" }
func (u *recordUploader) Log(v ...interface{}) {}

func TestUploadResults(t *testing.T) {
	results := []PageResult{
		{ImgPath: "/tmp/out/spread_f00_left.tif"},
		{ImgPath: "/tmp/out/spread_f00_right.tif"},
	}
	var u recordUploader
	if err := UploadResults(&u, "spread", results); err != nil {
		t.Fatalf("UploadResults failed: %v", err)
	}
	want := []string{
		filepath.Join("spread", "spread_f00_left.tif"),
		filepath.Join("spread", "spread_f00_right.tif"),
	}
	if !reflect.DeepEqual(u.keys, want) {
		t.Errorf("Expected keys %v, got %v", want, u.keys)
	}
}
