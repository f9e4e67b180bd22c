package main

import (
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"fitsmeta/pkg/fitsmeta"
)

var (
	renderOutput  string
	renderMin     float64
	renderMax     float64
	renderAuto    bool
	renderThumb   int
	renderOverlay bool
	renderQuality int
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render the image to PNG, JPEG, TIFF or BMP",
	Long: `Render windows the image data into 8-bit grayscale with north up. The
window defaults to the data range; --auto picks median +/- kappa sigma and
--min/--max set either bound explicitly. The output format follows the
extension of --output.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output image path")
	renderCmd.Flags().Float64Var(&renderMin, "min", 0, "lower display bound")
	renderCmd.Flags().Float64Var(&renderMax, "max", 0, "upper display bound")
	renderCmd.Flags().BoolVar(&renderAuto, "auto", false, "derive the window from median and MAD")
	renderCmd.Flags().IntVar(&renderThumb, "thumb", 0, "scale down to this width (overrides config)")
	renderCmd.Flags().BoolVar(&renderOverlay, "overlay", false, "annotate field center, compass and corner positions")
	renderCmd.Flags().IntVar(&renderQuality, "quality", 0, "JPEG quality (overrides config)")
	_ = renderCmd.MarkFlagRequired("output")
}

func runRender(cmd *cobra.Command, args []string) error {
	frame, err := loadFrame(args[0])
	if err != nil {
		return err
	}

	lo, hi := frame.Matrix.MinMax()
	if renderAuto {
		lo, hi = fitsmeta.AutoWindow(frame.Matrix, cfg.Render.AutoKappa)
	}
	if cmd.Flags().Changed("min") {
		lo = renderMin
	}
	if cmd.Flags().Changed("max") {
		hi = renderMax
	}
	if hi < lo {
		return fmt.Errorf("display window is empty: min %g > max %g", lo, hi)
	}
	log.Infof("rendering %s with window [%g, %g]", args[0], lo, hi)

	var img image.Image
	if renderOverlay {
		img = fitsmeta.RenderOverlay(frame, lo, hi)
	} else {
		img = fitsmeta.GrayImage(frame.Matrix, lo, hi)
	}

	thumb := cfg.Render.ThumbWidth
	if cmd.Flags().Changed("thumb") {
		thumb = renderThumb
	}
	img = fitsmeta.Thumbnail(img, thumb)

	quality := cfg.Render.JPEGQuality
	if cmd.Flags().Changed("quality") {
		quality = renderQuality
	}
	if err := writeImage(renderOutput, img, fitsmeta.FormatFromPath(renderOutput), quality); err != nil {
		return err
	}
	b := img.Bounds()
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", renderOutput, b.Dx(), b.Dy())
	return nil
}
