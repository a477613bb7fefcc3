package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestDrawLineEndpoints(t *testing.T) {
	c := NewScaledCanvas(20, 10, 20, 20)
	c.DrawLine(Point{1, 1}, Point{15, 12})
	if !c.Pixel(1, 1) || !c.Pixel(15, 12) {
		t.Fatal("line endpoints not set")
	}
	if c.Pixel(15, 1) {
		t.Fatal("pixel off the line set")
	}
}

func TestDrawPolygonFill(t *testing.T) {
	square := []Point{{2, 2}, {10, 2}, {10, 10}, {2, 10}}

	outline := NewScaledCanvas(20, 10, 20, 20)
	outline.DrawPolygon(square, false)
	if outline.Pixel(6, 6) {
		t.Fatal("outline filled the interior")
	}

	filled := NewScaledCanvas(20, 10, 20, 20)
	filled.DrawPolygon(square, true)
	if !filled.Pixel(6, 6) || filled.Pixel(14, 6) {
		t.Fatal("fill wrong")
	}
}

func TestDrawCircle(t *testing.T) {
	c := NewScaledCanvas(40, 20, 40, 40)
	c.DrawCircle(Point{20, 20}, 5)
	if !c.Pixel(25, 20) || !c.Pixel(20, 15) {
		t.Fatal("circle rim not drawn")
	}
	if c.Pixel(20, 20) {
		t.Fatal("circle centre set")
	}
}

func TestRenderHalfBlocks(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.SetFloat(0, 0) // top of row 1
	c.SetFloat(1, 0)
	c.SetFloat(1, 1) // both halves of row 1, col 2
	c.SetFloat(2, 3) // bottom of row 2
	c.SetOffset(3, 1)

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()
	for _, want := range []string{"\033[2;4H▀", "\033[2;5H█", "\033[3;6H▄"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q in %q", want, out)
		}
	}

	c.Clear()
	buf.Reset()
	c.Render(&buf)
	if buf.Len() != 0 {
		t.Fatalf("cleared canvas rendered %q", buf.String())
	}
}

func TestFitArea(t *testing.T) {
	tests := []struct {
		cols, rows       int
		w, h, offC, offR int
	}{
		{64, 18, 64, 18, 0, 0},
		{100, 18, 64, 18, 18, 0},
		{64, 40, 64, 18, 0, 11},
	}
	for _, tt := range tests {
		w, h, oc, or := FitArea(tt.cols, tt.rows, 32, 18)
		if w != tt.w || h != tt.h || oc != tt.offC || or != tt.offR {
			t.Errorf("FitArea(%d, %d) = %d %d %d %d, want %d %d %d %d",
				tt.cols, tt.rows, w, h, oc, or, tt.w, tt.h, tt.offC, tt.offR)
		}
	}
}

func TestChunkWriterOffset(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf, 2, 3)
	cw.WriteAt(1, 1, "hi")
	if buf.Len() != 0 {
		t.Fatal("wrote before Flush")
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\033[4;3Hhi" {
		t.Fatalf("got %q", got)
	}
}
