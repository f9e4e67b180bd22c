//go:build !purego && !js

package main

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"fitsmeta/pkg/fitsmeta"
)

func writeImage(path string, img image.Image, format fitsmeta.Format, quality int) error {
	var mat gocv.Mat
	var err error
	if gray, ok := img.(*image.Gray); ok {
		mat, err = gocv.ImageGrayToMatGray(gray)
	} else {
		mat, err = gocv.ImageToMatRGB(img)
	}
	if err != nil {
		return fmt.Errorf("converting image: %w", err)
	}
	defer mat.Close()

	var params []int
	if format == fitsmeta.FormatJPEG {
		params = []int{int(gocv.IMWriteJpegQuality), quality}
	}
	if !gocv.IMWriteWithParams(path, mat, params) {
		return fmt.Errorf("could not write image: %s", path)
	}
	return nil
}
