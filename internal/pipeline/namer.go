package pipeline

import (
	"strconv"
	"time"
)

const DefaultPrefix = "asciify-"

// Namer derives upload names from a clock. Two calls within the same
// millisecond return the same name, and the later upload overwrites the
// earlier one.
type Namer struct {
	Prefix string
	Now    func() time.Time
}

func (n Namer) Name() string {
	prefix := n.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	now := n.Now
	if now == nil {
		now = time.Now
	}
	return prefix + strconv.FormatInt(now().UnixMilli(), 10)
}
