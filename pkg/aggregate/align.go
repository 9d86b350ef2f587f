package aggregate

import (
	"strings"

	"github.com/dnaconvert/dnaconvert/pkg/warn"
)

// Aligner returns a function that right-pads sequences with '-' to maxLen.
// When every sequence already has the same length it is the identity.
// Otherwise its first use records the unequal-length warning.
func Aligner(maxLen, minLen int, w *warn.Collector) func(string) string {
	if maxLen == minLen {
		return func(s string) string { return s }
	}
	warned := false
	return func(s string) string {
		if !warned {
			warned = true
			w.Add(warn.UnequalLength)
		}
		if len(s) >= maxLen {
			return s
		}
		return s + strings.Repeat("-", maxLen-len(s))
	}
}
