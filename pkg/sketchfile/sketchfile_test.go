package sketchfile

import (
	"bytes"
	"testing"

	"github.com/ha1tch/netsketch/pkg/diagram"
)

func sampleDiagram() *diagram.Diagram {
	d := diagram.New()
	p1 := diagram.Point{X: 200, Y: 150}
	d.AddDevice(diagram.Device{ID: "r1", Type: diagram.DeviceRouter, Position: &p1})
	d.AddDevice(diagram.Device{ID: "s1", Type: diagram.DeviceSwitch})
	d.AddConnection(diagram.Connection{ID: "c1", SourceID: "r1", TargetID: "s1", LinkType: "ethernet"})
	r := diagram.Rect{X: 50, Y: 50, Width: 400, Height: 300}
	d.AddBoundary(diagram.Boundary{
		ID:     "z1",
		Type:   diagram.BoundaryZone,
		Rect:   &r,
		Points: diagram.RectanglePoints(50, 50, 450, 350),
		Label:  "dmz",
	})
	return d
}

func TestJSONRoundTrip(t *testing.T) {
	d := sampleDiagram()
	data, err := ToJSON(d, true)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := ParseJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Devices) != 2 || len(parsed.Connections) != 1 || len(parsed.Boundaries) != 1 {
		t.Errorf("parsed %d/%d/%d entities", len(parsed.Devices), len(parsed.Connections), len(parsed.Boundaries))
	}
	if got := *parsed.FindDevice("r1").Position; got != (diagram.Point{X: 200, Y: 150}) {
		t.Errorf("r1 position %+v", got)
	}
	if parsed.FindDevice("s1").Position != nil {
		t.Error("unpositioned device gained a position")
	}
}

func TestParseJSONDefaultsCollections(t *testing.T) {
	parsed, err := ParseJSON([]byte(`{"name":"lab"}`))
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Devices == nil || parsed.Connections == nil || parsed.Boundaries == nil {
		t.Error("nil collections after parse")
	}
}

func TestValidateCatchesDanglingConnection(t *testing.T) {
	d := sampleDiagram()
	d.Connections = append(d.Connections, diagram.Connection{
		ID: "c2", SourceID: "r1", TargetID: "ghost",
	})

	errs := Validate(d)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
}

func TestValidateCatchesBoundaryProblems(t *testing.T) {
	d := diagram.New()
	d.AddDevice(diagram.Device{ID: "r1", Type: diagram.DeviceRouter})
	d.Boundaries = append(d.Boundaries,
		diagram.Boundary{ID: "b1", Type: diagram.BoundaryZone}, // no geometry
		diagram.Boundary{
			ID:     "b2",
			Type:   diagram.BoundaryZone,
			Points: diagram.RectanglePoints(0, 0, 10, 10),
			Config: map[string]string{"label_placement": "sideways"},
		},
	)

	errs := Validate(d)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
}

func TestValidateCleanDiagram(t *testing.T) {
	if errs := Validate(sampleDiagram()); errs != nil {
		t.Errorf("clean diagram reported: %v", errs)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	l := NewLayout()
	l.Zoom = 1.75
	l.CenterX = 812.5
	l.CenterY = 600
	l.Positions["r1"] = diagram.Point{X: 200, Y: 150}
	l.Positions["core switch"] = diagram.Point{X: 340.25, Y: 90}

	parsed, err := ParseLayout(GenerateLayout(l))
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Version != 1 {
		t.Errorf("version %d", parsed.Version)
	}
	if parsed.Zoom != 1.75 || parsed.CenterX != 812.5 || parsed.CenterY != 600 {
		t.Errorf("viewport %v %v %v", parsed.Zoom, parsed.CenterX, parsed.CenterY)
	}
	if got := parsed.Positions["core switch"]; got != (diagram.Point{X: 340.25, Y: 90}) {
		t.Errorf("quoted id position %+v", got)
	}
	if len(parsed.Positions) != 2 {
		t.Errorf("parsed %d positions", len(parsed.Positions))
	}
}

func TestParseLayoutDefaultsBadZoom(t *testing.T) {
	parsed, err := ParseLayout("[viewport]\nzoom = 0\n")
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Zoom != 1.0 {
		t.Errorf("zoom %v, want default 1.0", parsed.Zoom)
	}
}

func TestSketchArchiveRoundTrip(t *testing.T) {
	d := sampleDiagram()
	l := LayoutFromDiagram(d, 2.0, 800, 600)
	// Layout also remembers where s1 used to sit.
	l.Positions["s1"] = diagram.Point{X: 500, Y: 400}

	var buf bytes.Buffer
	if err := WriteSketch(&buf, &Project{Diagram: d, Layout: l}); err != nil {
		t.Fatal(err)
	}

	p, err := ReadSketchBytes(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if p.Layout == nil {
		t.Fatal("layout missing from archive")
	}
	if p.Layout.Zoom != 2.0 {
		t.Errorf("zoom %v", p.Layout.Zoom)
	}

	// Cached positions are applied back onto the diagram on read.
	s1 := p.Diagram.FindDevice("s1")
	if s1.Position == nil || *s1.Position != (diagram.Point{X: 500, Y: 400}) {
		t.Errorf("layout not applied to s1: %+v", s1.Position)
	}
}

func TestSketchWithoutLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSketch(&buf, &Project{Diagram: sampleDiagram()}); err != nil {
		t.Fatal(err)
	}
	p, err := ReadSketchBytes(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if p.Layout != nil {
		t.Error("phantom layout appeared")
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	if _, err := Load("diagram.xml"); err == nil {
		t.Error("unknown extension accepted")
	}
}
