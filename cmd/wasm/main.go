//go:build js && wasm

package main

import (
	"bytes"
	"syscall/js"

	"fitsmeta/pkg/fitsmeta"
)

var lastFrame *fitsmeta.Frame

func main() {
	js.Global().Set("parseFITSHeader", js.FuncOf(parseFITSHeader))
	js.Global().Set("analyzeFITS", js.FuncOf(analyzeFITS))
	js.Global().Set("renderFITS", js.FuncOf(renderFITS))
	js.Global().Set("pixelToSky", js.FuncOf(pixelToSky))
	js.Global().Set("skyToPixel", js.FuncOf(skyToPixel))
	select {} // block forever
}

// parseFITSHeader(text) parses newline-separated header cards.
func parseFITSHeader(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return errorResult("usage: parseFITSHeader(text)")
	}
	h, err := fitsmeta.ParseHeader(args[0].String())
	if err != nil {
		return errorResult("header parse error: " + err.Error())
	}
	return js.ValueOf(map[string]interface{}{"keywords": keywordsJS(h)})
}

// analyzeFITS(fileBytes) loads a FITS file and keeps it for the calls below.
func analyzeFITS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("usage: analyzeFITS(fileBytes)")
	}
	fileBytes := make([]byte, args[0].Get("length").Int())
	js.CopyBytesToGo(fileBytes, args[0])

	frame, err := fitsmeta.LoadBytes(fileBytes, fitsmeta.DefaultKeywords())
	if err != nil {
		return errorResult("FITS parse error: " + err.Error())
	}
	lastFrame = frame

	lo, hi := frame.Matrix.MinMax()
	autoLo, autoHi := fitsmeta.AutoWindow(frame.Matrix, 3)
	result := map[string]interface{}{
		"width":    frame.Width(),
		"height":   frame.Height(),
		"object":   frame.ObjectName(),
		"min":      lo,
		"max":      hi,
		"autoMin":  autoLo,
		"autoMax":  autoHi,
		"xScale":   frame.Scale.XScale,
		"yScale":   frame.Scale.YScale,
		"keywords": keywordsJS(frame.Header),
	}
	if c, ok := frame.Scale.Center(); ok {
		result["center"] = c.String()
		result["fieldRadius"] = frame.Scale.FieldRadius()
	}
	return js.ValueOf(result)
}

// renderFITS(min, max, overlay) returns PNG bytes of the last analyzed frame.
func renderFITS(this js.Value, args []js.Value) interface{} {
	if lastFrame == nil {
		return js.Null()
	}
	lo, hi := lastFrame.Matrix.MinMax()
	if len(args) >= 2 {
		lo, hi = args[0].Float(), args[1].Float()
	}

	var buf bytes.Buffer
	var err error
	if len(args) >= 3 && args[2].Truthy() {
		err = fitsmeta.EncodeImage(&buf, fitsmeta.RenderOverlay(lastFrame, lo, hi), fitsmeta.FormatPNG, 0)
	} else {
		err = fitsmeta.EncodeImage(&buf, fitsmeta.GrayImage(lastFrame.Matrix, lo, hi), fitsmeta.FormatPNG, 0)
	}
	if err != nil {
		return js.Null()
	}

	uint8Array := js.Global().Get("Uint8Array").New(buf.Len())
	js.CopyBytesToJS(uint8Array, buf.Bytes())
	return uint8Array
}

// pixelToSky(x, y) returns "hh:mm:ss.ss +dd:mm:ss.s" or null.
func pixelToSky(this js.Value, args []js.Value) interface{} {
	if lastFrame == nil || len(args) < 2 {
		return js.Null()
	}
	pos, ok := lastFrame.Scale.PixelToSky(args[0].Int(), args[1].Int())
	if !ok {
		return js.Null()
	}
	return js.ValueOf(map[string]interface{}{
		"ra":        pos.RA.String(),
		"dec":       pos.Dec.String(),
		"raArcsec":  pos.RA.ArcSeconds(),
		"decArcsec": pos.Dec.ArcSeconds(),
	})
}

// skyToPixel(ra, dec) takes sexagesimal strings and returns {x, y} or null.
func skyToPixel(this js.Value, args []js.Value) interface{} {
	if lastFrame == nil || len(args) < 2 {
		return js.Null()
	}
	pos, err := fitsmeta.ParseSkyPosition(args[0].String(), args[1].String())
	if err != nil {
		return errorResult(err.Error())
	}
	pt, ok := lastFrame.Scale.SkyToPixel(pos)
	if !ok {
		return js.Null()
	}
	return js.ValueOf(map[string]interface{}{"x": pt.X, "y": pt.Y})
}

func keywordsJS(h *fitsmeta.Header) []interface{} {
	out := make([]interface{}, 0, h.Len())
	for _, kv := range h.All() {
		out = append(out, map[string]interface{}{
			"name":    kv.Name,
			"kind":    kv.Kind.String(),
			"value":   kv.Value(),
			"comment": kv.Comment,
		})
	}
	return out
}

func errorResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{
		"error": msg,
	})
}
