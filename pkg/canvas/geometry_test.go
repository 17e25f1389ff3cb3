package canvas

import (
	"testing"

	"github.com/ha1tch/netsketch/pkg/diagram"
)

func TestBoundingBoxFloorsSpan(t *testing.T) {
	tests := []struct {
		name   string
		points []diagram.Point
		want   diagram.Rect
	}{
		{
			"regular rectangle",
			diagram.RectanglePoints(10, 20, 110, 70),
			diagram.Rect{X: 10, Y: 20, Width: 100, Height: 50},
		},
		{
			"single point floors to 1x1",
			[]diagram.Point{{X: 5, Y: 5}},
			diagram.Rect{X: 5, Y: 5, Width: 1, Height: 1},
		},
		{
			"collinear points floor height to 1",
			[]diagram.Point{{X: 0, Y: 9}, {X: 30, Y: 9}},
			diagram.Rect{X: 0, Y: 9, Width: 30, Height: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BoundingBox(tt.points)
			if !ok {
				t.Fatal("expected a bounding box")
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if got.Width < 1 || got.Height < 1 {
				t.Errorf("span below minimum: %+v", got)
			}
		})
	}
}

func TestBoundingBoxEmpty(t *testing.T) {
	if _, ok := BoundingBox(nil); ok {
		t.Error("expected no bounding box for empty point list")
	}
}

func TestBoundaryRectPrefersExplicit(t *testing.T) {
	explicit := diagram.Rect{X: 1, Y: 2, Width: 3, Height: 4}
	b := diagram.Boundary{
		Points: diagram.RectanglePoints(0, 0, 100, 100),
		Rect:   &explicit,
	}
	got, ok := BoundaryRect(b)
	if !ok || got != explicit {
		t.Errorf("got %+v, want explicit rect", got)
	}

	b.Rect = nil
	got, ok = BoundaryRect(b)
	if !ok || got.Width != 100 || got.Height != 100 {
		t.Errorf("derived rect wrong: %+v", got)
	}
}

func TestBoundaryLabelAnchor(t *testing.T) {
	b := diagram.Boundary{Points: diagram.RectanglePoints(0, 0, 200, 100)}

	center, ok := BoundaryLabelAnchor(b)
	if !ok || center != (diagram.Point{X: 100, Y: 50}) {
		t.Errorf("center anchor wrong: %+v", center)
	}

	b.Config = map[string]string{"label_placement": "below"}
	below, ok := BoundaryLabelAnchor(b)
	if !ok || below != (diagram.Point{X: 100, Y: 100 + labelBelowOffset}) {
		t.Errorf("below anchor wrong: %+v", below)
	}
}

func TestResolveConnectionsDropsDangling(t *testing.T) {
	conns := []diagram.Connection{
		{ID: "ok", SourceID: "a", TargetID: "b", LinkType: "eth"},
		{ID: "gone-src", SourceID: "deleted", TargetID: "b"},
		{ID: "gone-dst", SourceID: "a", TargetID: "deleted"},
	}
	positions := map[string]diagram.Point{
		"a": {X: 0, Y: 0},
		"b": {X: 100, Y: 40},
	}

	segments := ResolveConnections(conns, positions)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	seg := segments[0]
	if seg.Connection.ID != "ok" {
		t.Errorf("wrong connection survived: %s", seg.Connection.ID)
	}
	if seg.Midpoint != (diagram.Point{X: 50, Y: 20}) {
		t.Errorf("midpoint wrong: %+v", seg.Midpoint)
	}
}

func TestLabelBoxSizing(t *testing.T) {
	mid := diagram.Point{X: 50, Y: 20}

	short := LabelBoxAt(mid, "e")
	if short.Width != LabelMinWidth {
		t.Errorf("short label width %v, want floor %v", short.Width, LabelMinWidth)
	}

	long := LabelBoxAt(mid, "gigabit-ethernet")
	wantW := float64(len("gigabit-ethernet"))*LabelCharWidth + 2*LabelPadding
	if long.Width != wantW {
		t.Errorf("long label width %v, want %v", long.Width, wantW)
	}
	if long.X != mid.X-wantW/2 || long.Y != mid.Y-LabelHeight/2 {
		t.Errorf("label box not centred: %+v", long)
	}
	if long.Height != LabelHeight {
		t.Errorf("label height %v", long.Height)
	}
}
