package ascii

import "strings"

// Rendering is the text produced by a conversion. Downstream sinks treat it
// as opaque bytes.
type Rendering struct {
	text string
}

// NewRendering wraps already rendered text.
func NewRendering(text string) Rendering {
	return Rendering{text: text}
}

func (r Rendering) String() string { return r.text }

func (r Rendering) Bytes() []byte { return []byte(r.text) }

// Len is the encoded byte length, the size reported to storage sinks.
func (r Rendering) Len() int { return len(r.text) }

func (r Rendering) IsEmpty() bool { return r.text == "" }

// Lines splits the rendering into rows, ignoring the trailing newline.
func (r Rendering) Lines() []string {
	trimmed := strings.TrimSuffix(r.text, "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

// Width is the longest row in bytes. With colour enabled it includes escapes.
func (r Rendering) Width() int {
	w := 0
	for _, l := range r.Lines() {
		if len(l) > w {
			w = len(l)
		}
	}
	return w
}
