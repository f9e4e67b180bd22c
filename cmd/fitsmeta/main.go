// Package main provides the fitsmeta command-line tool for inspecting FITS
// headers, rendering image data and converting between pixel and sky positions.
package main

import (
	"fmt"
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"

	"fitsmeta/internal/config"
	"fitsmeta/pkg/fitsmeta"
)

var log = logging.Logger("fitsmeta-cli")

var rootCmd = &cobra.Command{
	Use:   "fitsmeta",
	Short: "Inspect and render FITS images",
	Long: `fitsmeta reads the primary header and 2-D image of a FITS file. It prints
typed header keywords, renders the image to common formats and maps between
pixel coordinates and sky positions using the plate-scale keywords.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debug {
			logging.SetAllLoggers(logging.LevelDebug)
		} else {
			logging.SetAllLoggers(logging.LevelInfo)
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

var (
	configPath string
	debug      bool
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	rootCmd.AddCommand(headerCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(skyCmd)
	rootCmd.AddCommand(pixelCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadFrame(path string) (*fitsmeta.Frame, error) {
	frame, err := fitsmeta.LoadFile(path, cfg.Keywords)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	log.Debugf("loaded %s: %s", path, frame)
	return frame, nil
}
