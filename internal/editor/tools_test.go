package editor

import (
	"errors"
	"testing"

	"pdf-annotator/pkg/colorutil"
	"pdf-annotator/pkg/geometry"
)

func TestPlaceText(t *testing.T) {
	s, _ := newReadySession(t, 3)
	s.SetTool(ToolText)
	s.SetPendingText("Confidential")
	s.SetFontSize(24)
	s.SetTextColor(colorutil.Red)

	placed, err := s.PlaceText(geometry.NewPoint2D(100, 100), geometry.Point2D{})
	if err != nil {
		t.Fatalf("PlaceText: %v", err)
	}
	if placed.Pos != geometry.NewPoint2D(100, 100) {
		t.Errorf("Pos = %v, want (100,100)", placed.Pos)
	}
	if placed.Value != "Confidential" || placed.FontSize != 24 || placed.Color != colorutil.Red {
		t.Errorf("annotation = %+v", placed)
	}
	if s.PendingText() != "" {
		t.Errorf("pending text not cleared: %q", s.PendingText())
	}
}

func TestPlaceTextMapsThroughScale(t *testing.T) {
	s, _ := newReadySession(t, 1)
	s.SetTool(ToolText)
	s.SetScale(2.0)
	s.SetPendingText("scaled")

	placed, err := s.PlaceText(geometry.NewPoint2D(200, 100), geometry.NewPoint2D(0, 0))
	if err != nil {
		t.Fatalf("PlaceText: %v", err)
	}
	if want := geometry.NewPoint2D(100, 50); placed.Pos != want {
		t.Errorf("Pos = %v, want %v", placed.Pos, want)
	}
}

func TestPlaceTextEmptyValue(t *testing.T) {
	s, _ := newReadySession(t, 1)
	s.SetTool(ToolText)
	s.SetPendingText("   ")

	if _, err := s.PlaceText(geometry.NewPoint2D(10, 10), geometry.Point2D{}); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("PlaceText: %v, want ErrEmptyText", err)
	}
	if texts, _ := s.Store().Counts(); texts != 0 {
		t.Errorf("annotation created despite empty text")
	}
	if s.Tool() != ToolText {
		t.Errorf("tool changed after rejected placement: %v", s.Tool())
	}
}

func TestBlurDragCreatesRegion(t *testing.T) {
	s, _ := newReadySession(t, 3)
	s.SetTool(ToolBlur)

	if err := s.BeginBlurDrag(geometry.NewPoint2D(50, 50), geometry.Point2D{}); err != nil {
		t.Fatalf("BeginBlurDrag: %v", err)
	}
	if !s.DragActive() {
		t.Fatal("drag not active after BeginBlurDrag")
	}

	b, err := s.EndBlurDrag(geometry.NewPoint2D(150, 120), geometry.Point2D{})
	if err != nil {
		t.Fatalf("EndBlurDrag: %v", err)
	}
	if want := geometry.NewRect(50, 50, 100, 70); b.Rect != want {
		t.Errorf("Rect = %v, want %v", b.Rect, want)
	}
	if s.DragActive() {
		t.Error("drag still active after pointer-up")
	}
}

func TestBlurDragNormalizesCorners(t *testing.T) {
	s, _ := newReadySession(t, 1)
	s.SetTool(ToolBlur)

	// Drag from bottom-right to top-left.
	s.BeginBlurDrag(geometry.NewPoint2D(150, 120), geometry.Point2D{})
	b, err := s.EndBlurDrag(geometry.NewPoint2D(50, 50), geometry.Point2D{})
	if err != nil {
		t.Fatalf("EndBlurDrag: %v", err)
	}
	if want := geometry.NewRect(50, 50, 100, 70); b.Rect != want {
		t.Errorf("Rect = %v, want %v", b.Rect, want)
	}
}

func TestBlurDragSizeThreshold(t *testing.T) {
	tests := []struct {
		name    string
		start   geometry.Point2D
		end     geometry.Point2D
		created bool
	}{
		{"5x5 rejected", geometry.NewPoint2D(10, 10), geometry.NewPoint2D(15, 15), false},
		{"exactly 10x10 rejected", geometry.NewPoint2D(0, 0), geometry.NewPoint2D(10, 10), false},
		{"wide but too short", geometry.NewPoint2D(0, 0), geometry.NewPoint2D(100, 10), false},
		{"tall but too narrow", geometry.NewPoint2D(0, 0), geometry.NewPoint2D(10, 100), false},
		{"just over threshold", geometry.NewPoint2D(0, 0), geometry.NewPoint2D(10.5, 10.5), true},
		{"clearly over", geometry.NewPoint2D(0, 0), geometry.NewPoint2D(11, 11), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newReadySession(t, 1)
			s.SetTool(ToolBlur)
			s.BeginBlurDrag(tt.start, geometry.Point2D{})
			_, err := s.EndBlurDrag(tt.end, geometry.Point2D{})

			if tt.created && err != nil {
				t.Fatalf("EndBlurDrag: %v, want created", err)
			}
			if !tt.created && !errors.Is(err, ErrBlurTooSmall) {
				t.Fatalf("EndBlurDrag: %v, want ErrBlurTooSmall", err)
			}
			_, blurs := s.Store().Counts()
			wantBlurs := 0
			if tt.created {
				wantBlurs = 1
			}
			if blurs != wantBlurs {
				t.Errorf("store holds %d blurs, want %d", blurs, wantBlurs)
			}
			if s.DragActive() {
				t.Error("drag state not cleared")
			}
		})
	}
}

func TestSwitchingToolCancelsDrag(t *testing.T) {
	s, _ := newReadySession(t, 1)
	s.SetTool(ToolBlur)
	s.BeginBlurDrag(geometry.NewPoint2D(0, 0), geometry.Point2D{})

	s.SetTool(ToolSelect)
	if s.DragActive() {
		t.Fatal("drag survived tool switch")
	}

	// The interrupted drag must not produce a region later.
	s.SetTool(ToolBlur)
	b, err := s.EndBlurDrag(geometry.NewPoint2D(500, 500), geometry.Point2D{})
	if err != nil {
		t.Fatalf("EndBlurDrag: %v", err)
	}
	if b.ID != "" {
		t.Errorf("stale drag produced a region: %+v", b)
	}
	if _, blurs := s.Store().Counts(); blurs != 0 {
		t.Errorf("store holds %d blurs, want 0", blurs)
	}
}

func TestErase(t *testing.T) {
	s, _ := newReadySession(t, 1)
	s.SetTool(ToolText)

	place := func(x, y float64, value string) {
		t.Helper()
		s.SetPendingText(value)
		if _, err := s.PlaceText(geometry.NewPoint2D(x, y), geometry.Point2D{}); err != nil {
			t.Fatalf("PlaceText(%v,%v): %v", x, y, err)
		}
	}
	place(100, 100, "close")
	place(130, 100, "at the 30-unit boundary")
	place(200, 200, "far away")

	s.SetTool(ToolBlur)
	s.BeginBlurDrag(geometry.NewPoint2D(80, 80), geometry.Point2D{})
	if _, err := s.EndBlurDrag(geometry.NewPoint2D(120, 130), geometry.Point2D{}); err != nil {
		t.Fatalf("EndBlurDrag: %v", err)
	}
	s.BeginBlurDrag(geometry.NewPoint2D(300, 300), geometry.Point2D{})
	if _, err := s.EndBlurDrag(geometry.NewPoint2D(350, 350), geometry.Point2D{}); err != nil {
		t.Fatalf("EndBlurDrag: %v", err)
	}

	s.SetTool(ToolErase)
	removedTexts, removedBlurs, err := s.Erase(geometry.NewPoint2D(100, 100), geometry.Point2D{})
	if err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if removedTexts != 2 {
		t.Errorf("removed %d texts, want 2 (boundary inclusive)", removedTexts)
	}
	if removedBlurs != 1 {
		t.Errorf("removed %d blurs, want 1", removedBlurs)
	}

	texts, blurs := s.Store().Counts()
	if texts != 1 || blurs != 1 {
		t.Errorf("store holds %d texts, %d blurs; want 1, 1", texts, blurs)
	}
	if remaining := s.Store().Texts(); remaining[0].Value != "far away" {
		t.Errorf("wrong text removed, %q remains", remaining[0].Value)
	}
}

func TestEraseNoMatches(t *testing.T) {
	s, _ := newReadySession(t, 1)
	s.SetTool(ToolErase)

	removedTexts, removedBlurs, err := s.Erase(geometry.NewPoint2D(10, 10), geometry.Point2D{})
	if err != nil {
		t.Fatalf("Erase with empty store: %v", err)
	}
	if removedTexts != 0 || removedBlurs != 0 {
		t.Errorf("removed %d/%d from empty store", removedTexts, removedBlurs)
	}
}

func TestEraseMapsThroughScale(t *testing.T) {
	s, _ := newReadySession(t, 1)
	s.SetTool(ToolText)
	s.SetPendingText("target")
	if _, err := s.PlaceText(geometry.NewPoint2D(100, 100), geometry.Point2D{}); err != nil {
		t.Fatalf("PlaceText: %v", err)
	}

	s.SetScale(2.0)
	s.SetTool(ToolErase)

	// Screen (200,200) at scale 2 is document (100,100).
	removedTexts, _, err := s.Erase(geometry.NewPoint2D(200, 200), geometry.Point2D{})
	if err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if removedTexts != 1 {
		t.Errorf("removed %d texts, want 1", removedTexts)
	}
}

func TestProjectOverlay(t *testing.T) {
	s, _ := newReadySession(t, 1)
	s.SetTool(ToolText)
	s.SetPendingText("note")
	s.SetFontSize(12)
	if _, err := s.PlaceText(geometry.NewPoint2D(40, 60), geometry.Point2D{}); err != nil {
		t.Fatalf("PlaceText: %v", err)
	}
	s.SetTool(ToolBlur)
	s.BeginBlurDrag(geometry.NewPoint2D(10, 10), geometry.Point2D{})
	if _, err := s.EndBlurDrag(geometry.NewPoint2D(30, 40), geometry.Point2D{}); err != nil {
		t.Fatalf("EndBlurDrag: %v", err)
	}

	s.SetScale(1.5)
	o := s.Overlay()

	if len(o.Labels) != 1 || len(o.Boxes) != 1 {
		t.Fatalf("overlay has %d labels, %d boxes", len(o.Labels), len(o.Boxes))
	}
	if want := geometry.NewPoint2D(60, 90); o.Labels[0].Pos != want {
		t.Errorf("label pos = %v, want %v", o.Labels[0].Pos, want)
	}
	if o.Labels[0].FontSize != 18 {
		t.Errorf("label font size = %v, want 18", o.Labels[0].FontSize)
	}
	if want := geometry.NewRect(15, 15, 30, 45); o.Boxes[0].Rect != want {
		t.Errorf("box rect = %v, want %v", o.Boxes[0].Rect, want)
	}
}
