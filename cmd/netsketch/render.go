package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ha1tch/netsketch/pkg/render"
	"github.com/ha1tch/netsketch/pkg/sketchfile"
)

var (
	renderOutput string
	renderFormat string
	renderWidth  int
	renderHeight int
	renderTitle  string
)

var renderCmd = &cobra.Command{
	Use:   "render <diagram>",
	Short: "Render a diagram to SVG or PNG",
	Long: `Render a .json or .sketch diagram to a static image. The format is
taken from the output extension unless --format is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (default: input name with new extension)")
	renderCmd.Flags().StringVar(&renderFormat, "format", "", "output format: svg, png")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "canvas width in pixels")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "canvas height in pixels")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "diagram title (default: diagram name)")
}

func runRender(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer func() { _ = log.Sync() }()

	project, err := sketchfile.Load(args[0])
	if err != nil {
		return err
	}

	format := strings.ToLower(renderFormat)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(renderOutput)), ".")
	}
	if format == "" {
		format = "svg"
	}

	output := renderOutput
	if output == "" {
		base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
		output = base + "." + format
	}

	width := renderWidth
	if width == 0 {
		width = viper.GetInt("render.width")
	}
	height := renderHeight
	if height == 0 {
		height = viper.GetInt("render.height")
	}

	log.Info("rendering diagram",
		zap.String("input", args[0]),
		zap.String("output", output),
		zap.String("format", format))

	switch format {
	case "svg":
		opts := render.DefaultSVGOptions()
		opts.Width = width
		opts.Height = height
		opts.Title = renderTitle
		svg := render.GenerateSVG(project.Diagram, opts)
		if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
			return err
		}

	case "png":
		opts := render.DefaultPNGOptions()
		opts.Width = width
		opts.Height = height
		opts.Title = renderTitle
		file, err := os.Create(output)
		if err != nil {
			return err
		}
		if err := render.RenderPNG(project.Diagram, file, opts); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown format %q", format)
	}

	fmt.Printf("Wrote %s\n", output)
	return nil
}
