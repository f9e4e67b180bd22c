//go:build purego || js

package main

import (
	"fmt"
	"image"
	"os"

	"fitsmeta/pkg/fitsmeta"
)

func writeImage(path string, img image.Image, format fitsmeta.Format, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := fitsmeta.EncodeImage(f, img, format, quality); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
