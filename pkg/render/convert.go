package render

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoConverter is returned by [ToPDF] and [ToPNG] when rsvg-convert is not
// on the PATH.
var ErrNoConverter = errors.New("rsvg-convert not found (install librsvg: brew install librsvg, apt install librsvg2-bin)")

// converter is the binary used for raster and PDF output.
var converter = "rsvg-convert"

// ToPDF converts a rendered graph SVG to PDF.
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "pdf")
}

// ToPNG converts a rendered graph SVG to PNG. Scale multiplies the canvas
// size; values at or below zero fall back to 1.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

func convert(svg []byte, format string, extra ...string) ([]byte, error) {
	if len(bytes.TrimSpace(svg)) == 0 {
		return nil, fmt.Errorf("convert to %s: empty svg", format)
	}
	bin, err := exec.LookPath(converter)
	if err != nil {
		return nil, fmt.Errorf("convert to %s: %w", format, ErrNoConverter)
	}

	cmd := exec.Command(bin, append([]string{"--format", format}, extra...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("convert to %s: %w: %s", format, err, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
