package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/netsketch/pkg/diagram"
	"github.com/ha1tch/netsketch/pkg/sketchfile"
)

var infoCmd = &cobra.Command{
	Use:   "info <diagram>",
	Short: "Summarize a diagram file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	project, err := sketchfile.Load(args[0])
	if err != nil {
		return err
	}
	d := project.Diagram

	if d.Name != "" {
		fmt.Printf("Name:        %s\n", d.Name)
	}
	if d.Description != "" {
		fmt.Printf("Description: %s\n", d.Description)
	}
	fmt.Printf("Devices:     %d\n", len(d.Devices))
	fmt.Printf("Connections: %d\n", len(d.Connections))
	fmt.Printf("Boundaries:  %d\n", len(d.Boundaries))

	if unpositioned := d.UnpositionedDeviceIDs(); len(unpositioned) > 0 {
		fmt.Printf("Unpositioned devices: %d\n", len(unpositioned))
	}

	for _, dev := range d.Devices {
		pos := "unpositioned"
		if dev.Position != nil {
			pos = fmt.Sprintf("(%.0f, %.0f)", dev.Position.X, dev.Position.Y)
		}
		fmt.Printf("  [%c] %-20s %-10s %s\n", diagram.DeviceGlyph(dev.Type), dev.ID, dev.Type, pos)
	}
	for _, b := range d.Boundaries {
		label := b.Label
		if label == "" {
			label = diagram.BoundaryTypeLabel(b.Type)
		}
		fmt.Printf("  boundary %-20s %s\n", b.ID, label)
	}

	if project.Layout != nil {
		fmt.Printf("Layout:      zoom %.2f, center (%.0f, %.0f)\n",
			project.Layout.Zoom, project.Layout.CenterX, project.Layout.CenterY)
	}
	return nil
}
