package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/sobel-mcp/internal/imaging"
)

type detectOptions struct {
	input     string
	output    string
	kernel    string
	palette   string
	blur      float64
	scale     float64
	threshold uint8
}

func newDetectCmd() *cobra.Command {
	var opts detectOptions

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Compute an edge image from a file",
		Long: `Load an image, compute its edge image and save it.

The output format follows the extension of --output (png, jpg, gif, tif, bmp).
Unset flags fall back to the [edge] section of the configuration.`,
		Example: `  sobel-mcp detect -i photo.jpg -o edges.png
  sobel-mcp detect -i photo.jpg -o edges.png --kernel scharr --palette heat --blur 1.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			flags := cmd.Flags()
			if !flags.Changed("kernel") {
				opts.kernel = cfg.Edge.Kernel
			}
			if !flags.Changed("palette") {
				opts.palette = cfg.Edge.Palette
			}
			if !flags.Changed("blur") {
				opts.blur = cfg.Edge.Blur
			}
			if !flags.Changed("threshold") {
				opts.threshold = cfg.Edge.Threshold
			}
			return runDetect(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "input image path")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output image path")
	cmd.Flags().StringVar(&opts.kernel, "kernel", "", "edge operator: "+fmt.Sprint(imaging.OperatorNames()))
	cmd.Flags().StringVar(&opts.palette, "palette", "", "palette preset or from:to hex pair (empty for grayscale)")
	cmd.Flags().Float64Var(&opts.blur, "blur", 0, "Gaussian blur radius applied before filtering")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "resize factor applied before filtering (0 keeps the size)")
	cmd.Flags().Uint8Var(&opts.threshold, "threshold", 0, "edge threshold reported in the statistics")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runDetect(cmd *cobra.Command, opts detectOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	op, err := imaging.NewOperator(opts.kernel, newCombiner(cfg, logger))
	if err != nil {
		return err
	}
	palette, err := imaging.ParsePalette(opts.palette)
	if err != nil {
		return err
	}

	f, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return err
	}
	logger.Debug("Loaded image", "path", opts.input, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	prog := newProgress(logger)
	mag, err := imaging.Edges(img, op, imaging.PrepareOptions{
		Scale:      opts.scale,
		BlurRadius: opts.blur,
	})
	if err != nil {
		return err
	}

	if err := imaging.Save(opts.output, imaging.Render(mag, palette)); err != nil {
		return err
	}

	stats := imaging.Stats(mag, opts.threshold)
	prog.done("Detected edges",
		"operator", op.Name(),
		"output", opts.output,
		"mean", fmt.Sprintf("%.1f", stats.Mean),
		"edge_ratio", fmt.Sprintf("%.3f", stats.EdgeRatio),
	)
	return nil
}
