package util

import (
	"fmt"
	"time"
)

// NewID returns prefix_<unix-nanos>, used for invocation ids the host did not supply.
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}
