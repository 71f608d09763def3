package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/circuitgen/pkg/level"
	"github.com/matzehuels/circuitgen/pkg/render"
	"github.com/matzehuels/circuitgen/pkg/render/nodelink"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatYAML: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, yaml, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Export encodes l in the given format. highlight is drawn bold in the
// image formats and ignored otherwise.
func Export(ctx context.Context, l *level.Level, format string, highlight []int) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		if err := level.WriteJSON(l, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		if err := level.WriteYAML(l, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	dot := nodelink.ToDOT(l, nodelink.Options{Highlight: highlight})
	if format == FormatDOT {
		return []byte(dot), nil
	}
	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatPNG:
		return render.ToPNG(ctx, svg, 2.0)
	case FormatPDF:
		return render.ToPDF(ctx, svg)
	}
	return svg, nil
}
