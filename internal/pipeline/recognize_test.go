// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"testing"

	"github.com/pagecarver/pagecarver"
)

// heightRecognizer names each line by the height of its crop, which
// is enough to check that crops map back to the right regions even
// when recognition runs concurrently.
type heightRecognizer struct {
	emptyAt int
	failAt  int
}

func (r heightRecognizer) Recognize(ctx context.Context, line image.Image) (string, error) {
	h := line.Bounds().Dy()
	if r.failAt != 0 && h == r.failAt {
		return "", errors.New("engine breakdown")
	}
	if r.emptyAt != 0 && h == r.emptyAt {
		return "", nil
	}
	return fmt.Sprintf("h%d", h), nil
}

// constRecognizer reads every line as the same text.
type constRecognizer string

func (r constRecognizer) Recognize(ctx context.Context, line image.Image) (string, error) {
	return string(r), nil
}

func testPageResult(t *testing.T, dir string) PageResult {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 200, 120))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Gray{255}), image.Point{}, draw.Src)
	path := savePage(t, dir, "page.png", img)
	return PageResult{
		ImgPath: path,
		Lines: []image.Rectangle{
			image.Rect(0, 10, 200, 20),
			image.Rect(0, 40, 200, 60),
			image.Rect(0, 70, 200, 100),
		},
	}
}

func TestRecognizePage(t *testing.T) {
	res := testPageResult(t, t.TempDir())

	for _, workers := range []int{1, 2, 8} {
		t.Run(fmt.Sprintf("%d workers", workers), func(t *testing.T) {
			lines, err := RecognizePage(context.Background(), heightRecognizer{}, res, workers)
			if err != nil {
				t.Fatalf("RecognizePage failed: %v", err)
			}
			if len(lines) != 3 {
				t.Fatalf("Expected 3 lines, got %d", len(lines))
			}
			for i, want := range []string{"h10", "h20", "h30"} {
				if lines[i].Text != want {
					t.Errorf("Line %d: expected %q, got %q", i, want, lines[i].Text)
				}
				if lines[i].Region != res.Lines[i] {
					t.Errorf("Line %d: region %v does not match input %v", i, lines[i].Region, res.Lines[i])
				}
			}
		})
	}
}

func TestRecognizePageDropsEmptyLines(t *testing.T) {
	res := testPageResult(t, t.TempDir())

	lines, err := RecognizePage(context.Background(), heightRecognizer{emptyAt: 20}, res, 2)
	if err != nil {
		t.Fatalf("RecognizePage failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines after dropping the empty one, got %d", len(lines))
	}
	if lines[0].Text != "h10" || lines[1].Text != "h30" {
		t.Errorf("Unexpected lines %q, %q", lines[0].Text, lines[1].Text)
	}
}

func TestRecognizePageErrorAborts(t *testing.T) {
	res := testPageResult(t, t.TempDir())

	lines, err := RecognizePage(context.Background(), heightRecognizer{failAt: 20}, res, 2)
	if err == nil {
		t.Fatal("Expected an error, got none")
	}
	if lines != nil {
		t.Errorf("Expected no lines on error, got %v", lines)
	}
}

func TestRecognizePageCancelled(t *testing.T) {
	res := testPageResult(t, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RecognizePage(ctx, heightRecognizer{}, res, 2)
	if err == nil {
		t.Fatal("Expected an error from a cancelled context, got none")
	}
}

func TestRecognizeFile(t *testing.T) {
	dir := t.TempDir()

	// bars on both halves, so both produce a page of text
	img := testPage()
	for bar := 0; bar < 3; bar++ {
		y0 := 30 + bar*90
		draw.Draw(img, image.Rect(210, y0, 390, y0+30), image.NewUniform(color.Gray{0}), image.Point{}, draw.Src)
	}
	path := savePage(t, dir, "spread.png", img)

	cfg := pagecarver.Config{MinLineHeight: 10, OutDir: filepath.Join(dir, "out")}
	text, err := RecognizeFile(context.Background(), path, constRecognizer("X"), cfg, quietLogger())
	if err != nil {
		t.Fatalf("RecognizeFile failed: %v", err)
	}

	want := "X\nX\nX\n\nX\nX\nX"
	if text != want {
		t.Errorf("Expected %q, got %q", want, text)
	}
}

func TestRecognizeFileUnreadable(t *testing.T) {
	dir := t.TempDir()

	text, err := RecognizeFile(context.Background(), filepath.Join(dir, "nonexistent.png"), constRecognizer("X"), pagecarver.Config{}, quietLogger())
	if err != nil {
		t.Fatalf("Expected a bad file to be contained, got error: %v", err)
	}
	if text != "" {
		t.Errorf("Expected empty text for a bad file, got %q", text)
	}
}
