package main

import (
	"errors"
	"fmt"
	"image"
	"strconv"

	"github.com/spf13/cobra"

	"fitsmeta/pkg/fitsmeta"
)

var errNoCenter = errors.New("image has no field center")

var skyCmd = &cobra.Command{
	Use:   "sky <file> <x> <y>",
	Short: "Print the sky position of a pixel",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("x: %w", err)
		}
		y, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("y: %w", err)
		}
		frame, err := loadFrame(args[0])
		if err != nil {
			return err
		}
		if _, ok := frame.Scale.Center(); !ok {
			return errNoCenter
		}
		pos, ok := frame.Scale.PixelToSky(x, y)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "outside field: (%d, %d) not in %dx%d\n", x, y, frame.Width(), frame.Height())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), pos)
		return nil
	},
}

var pixelCmd = &cobra.Command{
	Use:   "pixel <file> <ra> <dec>",
	Short: "Print the pixel at a sky position",
	Long: `Pixel maps a sky position given as "hh:mm:ss.s" and "+dd:mm:ss" (or
space separated) to image coordinates. The result may lie outside the image.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := fitsmeta.ParseSkyPosition(args[1], args[2])
		if err != nil {
			return err
		}
		frame, err := loadFrame(args[0])
		if err != nil {
			return err
		}
		if _, ok := frame.Scale.Center(); !ok {
			return errNoCenter
		}
		pt, ok := frame.Scale.SkyToPixel(pos)
		if !ok {
			return errors.New("plate scale is zero, no inverse mapping")
		}
		in := pt.In(image.Rect(0, 0, frame.Width(), frame.Height()))
		fmt.Fprintf(cmd.OutOrStdout(), "%d %d (inside image: %t)\n", pt.X, pt.Y, in)
		return nil
	},
}
