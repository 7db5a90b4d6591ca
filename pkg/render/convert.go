package render

import (
	"bytes"
	"fmt"
	"os/exec"

	errs "github.com/matzehuels/splitgrid/pkg/errors"
)

// converter is the librsvg binary used for raster and PDF output.
const converter = "rsvg-convert"

// ToPDF converts an SVG tree diagram to PDF.
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "pdf")
}

// ToPNG converts an SVG tree diagram to PNG at the given zoom factor.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "scale must be positive, got %g", scale)
	}
	return convert(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

func convert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath(converter); err != nil {
		return nil, errs.New(errs.ErrCodeUnsupported,
			"%s output requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command(converter, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "%s: %s", converter, bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}
