package sketchfile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/netsketch/pkg/diagram"
)

// Project bundles a diagram with its editor layout. Layout is nil when
// the source file carried none.
type Project struct {
	Diagram *diagram.Diagram
	Layout  *Layout
}

// Load reads a project from path. Extension selects the format:
// .json loads a bare diagram, .sketch a zip archive with layout.
func Load(path string) (*Project, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		d, err := ParseJSON(data)
		if err != nil {
			return nil, err
		}
		return &Project{Diagram: d}, nil

	case ".sketch":
		return ReadSketchFile(path)

	default:
		return nil, fmt.Errorf("sketchfile: unsupported extension %q", filepath.Ext(path))
	}
}

// Save writes a project to path, selecting the format by extension.
// Saving .json drops the layout.
func Save(path string, p *Project) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := ToJSON(p.Diagram, true)
		if err != nil {
			return err
		}
		return os.WriteFile(path, append(data, '\n'), 0644)

	case ".sketch":
		return WriteSketchFile(path, p)

	default:
		return fmt.Errorf("sketchfile: unsupported extension %q", filepath.Ext(path))
	}
}

// WriteSketchFile writes a .sketch archive to path.
func WriteSketchFile(path string, p *Project) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteSketch(file, p)
}

// WriteSketch writes a project to a writer in .sketch format: a zip
// archive holding diagram.json and, when present, layout.toml.
func WriteSketch(w io.Writer, p *Project) error {
	zw := zip.NewWriter(w)
	defer zw.Close()

	data, err := ToJSON(p.Diagram, true)
	if err != nil {
		return err
	}
	dw, err := zw.Create("diagram.json")
	if err != nil {
		return err
	}
	if _, err := dw.Write(data); err != nil {
		return err
	}

	if p.Layout != nil {
		lw, err := zw.Create("layout.toml")
		if err != nil {
			return err
		}
		if _, err := lw.Write([]byte(GenerateLayout(p.Layout))); err != nil {
			return err
		}
	}

	return nil
}

// ReadSketchFile reads a .sketch archive from path.
func ReadSketchFile(path string) (*Project, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	return ReadSketch(file, info.Size())
}

// ReadSketch reads a project from a reader containing .sketch format.
func ReadSketch(r io.ReaderAt, size int64) (*Project, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}

	var diagramData, layoutData []byte

	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}

		switch f.Name {
		case "diagram.json":
			diagramData = data
		case "layout.toml":
			layoutData = data
		}
	}

	if diagramData == nil {
		return nil, fmt.Errorf("sketchfile: diagram.json not found in archive")
	}

	d, err := ParseJSON(diagramData)
	if err != nil {
		return nil, err
	}

	p := &Project{Diagram: d}
	if layoutData != nil {
		l, err := ParseLayout(string(layoutData))
		if err != nil {
			return nil, err
		}
		p.Layout = l
		ApplyLayout(d, l)
	}

	return p, nil
}

// ReadSketchBytes reads a project from bytes in .sketch format.
func ReadSketchBytes(data []byte) (*Project, error) {
	r := bytes.NewReader(data)
	return ReadSketch(r, int64(len(data)))
}
