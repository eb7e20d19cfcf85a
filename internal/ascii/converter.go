// Package ascii turns image blobs into character renderings.
//
// Decoding and resampling are delegated to disintegration/imaging, the
// brightness-to-character ramp to qeesung/image2ascii. This package only owns
// the fit arithmetic.
package ascii

import (
	"bytes"
	"context"

	"github.com/disintegration/imaging"
	"github.com/qeesung/image2ascii/convert"
	_ "golang.org/x/image/webp"

	"asciify/internal/pkg/errors"
)

// ImageConverter converts blobs with a fixed set of Options.
type ImageConverter struct {
	opts Options
}

// New validates opts and returns a converter bound to them.
func New(opts Options) (*ImageConverter, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeValidation, "ascii.options", "invalid conversion options")
	}
	return &ImageConverter{opts: opts}, nil
}

// Options returns the configuration the converter was built with.
func (c *ImageConverter) Options() Options { return c.opts }

// Convert decodes blob and renders it into the configured character grid.
// Decoder failures are returned as CodeDecode errors.
func (c *ImageConverter) Convert(ctx context.Context, blob []byte) (Rendering, error) {
	if err := ctx.Err(); err != nil {
		return Rendering{}, err
	}
	if len(blob) == 0 {
		return Rendering{}, errors.New(errors.CodeDecode, "empty blob")
	}

	img, err := imaging.Decode(bytes.NewReader(blob), imaging.AutoOrientation(true))
	if err != nil {
		return Rendering{}, errors.WrapWithCode(err, errors.CodeDecode, "ascii.decode", "unsupported or corrupt image")
	}

	b := img.Bounds()
	cols, lines := c.opts.TargetSize(b.Dx(), b.Dy())
	if cols == 0 || lines == 0 {
		return Rendering{}, errors.Newf(errors.CodeDecode, "image has no pixels (%dx%d)", b.Dx(), b.Dy())
	}

	scaled := imaging.Clone(img)
	if cols != b.Dx() || lines != b.Dy() {
		scaled = imaging.Resize(img, cols, lines, imaging.Lanczos)
	}

	text := convert.NewImageConverter().Image2ASCIIString(scaled, &convert.Options{
		Ratio:       1,
		FixedWidth:  cols,
		FixedHeight: lines,
		Colored:     c.opts.Color,
		Reversed:    c.opts.Reversed,
	})
	if text == "" {
		return Rendering{}, errors.New(errors.CodeInternal, "converter produced no output")
	}
	return NewRendering(text), nil
}
