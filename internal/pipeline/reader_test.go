package pipeline

import (
	"context"
	"errors"
	"image"
	"testing"

	apperrors "go-manga-reader/internal/errors"
	"go-manga-reader/internal/layout"
	"go-manga-reader/internal/recognizer"
)

type fakeDetector struct {
	regions []layout.TextRegion
	err     error
}

func (d *fakeDetector) DetectRegions(ctx context.Context, img image.Image) ([]layout.TextRegion, error) {
	return d.regions, d.err
}

func (d *fakeDetector) Close() error { return nil }

// fakeRecognizer keys responses on the crop's top-left corner. Crops made via
// SubImage keep the page's coordinate space, so the corner identifies the
// region that was cropped.
type fakeRecognizer struct {
	texts   map[image.Point]string
	failAt  map[image.Point]bool
	visited []image.Point
}

func (r *fakeRecognizer) Recognize(ctx context.Context, crop image.Image) (recognizer.Result, error) {
	corner := crop.Bounds().Min
	r.visited = append(r.visited, corner)
	if r.failAt[corner] {
		return recognizer.Result{}, errors.New("ocr backend unavailable")
	}
	return recognizer.Result{Text: r.texts[corner], Confidence: 0.9}, nil
}

func (r *fakeRecognizer) Close() error { return nil }

func testPage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 400, 300))
}

func TestPageReader_ReadsRightToLeftTopToBottom(t *testing.T) {
	regions := []layout.TextRegion{
		{BBox: layout.BBox{X1: 50, Y1: 50, X2: 150, Y2: 100}},
		{BBox: layout.BBox{X1: 200, Y1: 50, X2: 300, Y2: 100}},
		{BBox: layout.BBox{X1: 50, Y1: 200, X2: 150, Y2: 250}},
		{BBox: layout.BBox{X1: 200, Y1: 200, X2: 300, Y2: 250}},
	}
	rec := &fakeRecognizer{texts: map[image.Point]string{
		{X: 200, Y: 50}:  "first",
		{X: 50, Y: 50}:   "second",
		{X: 200, Y: 200}: "third",
		{X: 50, Y: 200}:  "fourth",
	}}
	reader := NewPageReader(&fakeDetector{regions: regions}, rec)

	result, err := reader.ReadPage(context.Background(), testPage(), "page1.png", 1)
	if err != nil {
		t.Fatalf("ReadPage() error = %v", err)
	}

	want := []string{"first", "second", "third", "fourth"}
	if len(result.Texts) != len(want) {
		t.Fatalf("got %d texts, want %d", len(result.Texts), len(want))
	}
	for i, text := range want {
		if result.Texts[i] != text {
			t.Errorf("Texts[%d] = %q, want %q", i, result.Texts[i], text)
		}
	}
	for i, region := range result.TextRegions {
		if region.RegionID != i {
			t.Errorf("TextRegions[%d].RegionID = %d, want %d", i, region.RegionID, i)
		}
	}
	if result.ProcessingTime < 0 {
		t.Errorf("ProcessingTime = %v, want >= 0", result.ProcessingTime)
	}
}

func TestPageReader_DetectionFailure(t *testing.T) {
	det := &fakeDetector{err: errors.New("tesseract crashed")}
	rec := &fakeRecognizer{}

	t.Run("skipped by default", func(t *testing.T) {
		reader := NewPageReader(det, rec)
		result, err := reader.ReadPage(context.Background(), testPage(), "page1.png", 1)
		if err != nil {
			t.Fatalf("ReadPage() error = %v, want nil", err)
		}
		if len(result.TextRegions) != 0 {
			t.Errorf("got %d regions, want 0", len(result.TextRegions))
		}
	})

	t.Run("fails with abort-on-error", func(t *testing.T) {
		reader := NewPageReader(det, rec, WithAbortOnError())
		_, err := reader.ReadPage(context.Background(), testPage(), "page1.png", 1)
		if !apperrors.IsType(err, apperrors.ErrorTypeDetection) {
			t.Fatalf("ReadPage() error = %v, want detection error", err)
		}
	})
}

func TestPageReader_RecognitionFailureKeepsSlot(t *testing.T) {
	regions := []layout.TextRegion{
		{BBox: layout.BBox{X1: 200, Y1: 50, X2: 300, Y2: 100}},
		{BBox: layout.BBox{X1: 50, Y1: 50, X2: 150, Y2: 100}},
	}
	rec := &fakeRecognizer{
		texts:  map[image.Point]string{{X: 50, Y: 50}: "second"},
		failAt: map[image.Point]bool{{X: 200, Y: 50}: true},
	}
	reader := NewPageReader(&fakeDetector{regions: regions}, rec)

	result, err := reader.ReadPage(context.Background(), testPage(), "page1.png", 1)
	if err != nil {
		t.Fatalf("ReadPage() error = %v", err)
	}

	// The failed region keeps its place in the order with empty text.
	if len(result.TextRegions) != 2 {
		t.Fatalf("got %d regions, want 2", len(result.TextRegions))
	}
	if result.TextRegions[0].Text != "" || result.TextRegions[0].Confidence != 0 {
		t.Errorf("failed region = %+v, want empty text and zero confidence", result.TextRegions[0])
	}
	if result.TextRegions[1].Text != "second" {
		t.Errorf("TextRegions[1].Text = %q, want %q", result.TextRegions[1].Text, "second")
	}
	// Empty results never contribute to the transcript.
	if len(result.Texts) != 1 || result.Texts[0] != "second" {
		t.Errorf("Texts = %v, want [second]", result.Texts)
	}
}

func TestPageReader_RecognitionFailureAborts(t *testing.T) {
	regions := []layout.TextRegion{
		{BBox: layout.BBox{X1: 200, Y1: 50, X2: 300, Y2: 100}},
	}
	rec := &fakeRecognizer{failAt: map[image.Point]bool{{X: 200, Y: 50}: true}}
	reader := NewPageReader(&fakeDetector{regions: regions}, rec, WithAbortOnError())

	_, err := reader.ReadPage(context.Background(), testPage(), "page1.png", 1)
	if !apperrors.IsType(err, apperrors.ErrorTypeRecognition) {
		t.Fatalf("ReadPage() error = %v, want recognition error", err)
	}
}

func TestPageReader_SkipsRegionsOutsidePage(t *testing.T) {
	regions := []layout.TextRegion{
		{BBox: layout.BBox{X1: 50, Y1: 50, X2: 150, Y2: 100}},
		{BBox: layout.BBox{X1: 500, Y1: 500, X2: 600, Y2: 550}}, // beyond the 400x300 page
	}
	rec := &fakeRecognizer{texts: map[image.Point]string{{X: 50, Y: 50}: "kept"}}
	reader := NewPageReader(&fakeDetector{regions: regions}, rec)

	result, err := reader.ReadPage(context.Background(), testPage(), "page1.png", 1)
	if err != nil {
		t.Fatalf("ReadPage() error = %v", err)
	}
	if len(result.TextRegions) != 1 || result.TextRegions[0].Text != "kept" {
		t.Fatalf("TextRegions = %+v, want only the in-bounds region", result.TextRegions)
	}
	if len(rec.visited) != 1 {
		t.Errorf("recognizer called %d times, want 1", len(rec.visited))
	}
}

func TestPageReader_CancelledContext(t *testing.T) {
	regions := []layout.TextRegion{
		{BBox: layout.BBox{X1: 50, Y1: 50, X2: 150, Y2: 100}},
	}
	reader := NewPageReader(&fakeDetector{regions: regions}, &fakeRecognizer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reader.ReadPage(ctx, testPage(), "page1.png", 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ReadPage() error = %v, want context.Canceled", err)
	}
}
