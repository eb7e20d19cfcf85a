package ascii

import (
	"fmt"
	"strings"
)

// Fit selects how an image is scaled into the Width x Height character grid.
type Fit string

const (
	// FitBox scales to fit inside the box, preserving aspect ratio without cropping.
	FitBox Fit = "box"
	// FitWidth scales to exactly Width columns; the line count follows the aspect ratio.
	FitWidth Fit = "width"
	// FitHeight scales to exactly Height lines; the column count follows the aspect ratio.
	FitHeight Fit = "height"
	// FitOriginal keeps one character per source pixel.
	FitOriginal Fit = "original"
	// FitNone stretches to exactly Width x Height.
	FitNone Fit = "none"
)

const (
	DefaultWidth  = 60
	DefaultHeight = 60
)

// Options is the conversion configuration. The zero value is not valid; start
// from DefaultOptions.
type Options struct {
	Fit    Fit
	Width  int
	Height int
	// Color emits ANSI colour escapes around each character.
	Color bool
	// Reversed inverts the brightness ramp (for light backgrounds).
	Reversed bool
}

// DefaultOptions returns {box, 60, 60} without colour.
func DefaultOptions() Options {
	return Options{
		Fit:    FitBox,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

// ParseFit maps a case-insensitive name onto a Fit.
func ParseFit(s string) (Fit, error) {
	switch f := Fit(strings.ToLower(strings.TrimSpace(s))); f {
	case FitBox, FitWidth, FitHeight, FitOriginal, FitNone:
		return f, nil
	case "":
		return FitBox, nil
	default:
		return "", fmt.Errorf("unknown fit %q", s)
	}
}

// Validate reports options the converter cannot honour.
func (o Options) Validate() error {
	if _, err := ParseFit(string(o.Fit)); err != nil {
		return err
	}
	if o.Fit == FitOriginal {
		return nil
	}
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("width and height must be positive, got %dx%d", o.Width, o.Height)
	}
	return nil
}

// TargetSize returns the character grid for a w x h source image.
// Every returned dimension is at least 1.
func (o Options) TargetSize(w, h int) (cols, lines int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	fw, fh := float64(w), float64(h)
	switch o.Fit {
	case FitOriginal:
		return w, h
	case FitNone:
		return o.Width, o.Height
	case FitWidth:
		return o.Width, atLeastOne(fh * float64(o.Width) / fw)
	case FitHeight:
		return atLeastOne(fw * float64(o.Height) / fh), o.Height
	default:
		scale := min(float64(o.Width)/fw, float64(o.Height)/fh)
		return clamp(atLeastOne(fw*scale), o.Width), clamp(atLeastOne(fh*scale), o.Height)
	}
}

func atLeastOne(v float64) int {
	n := int(v + 0.5)
	if n < 1 {
		return 1
	}
	return n
}

func clamp(v, limit int) int {
	if v > limit {
		return limit
	}
	return v
}
