// Package stacktrace trims goroutine dumps down to this module's frames.
package stacktrace

import (
	"strings"

	"github.com/samber/lo"
)

const marker = "/internal/"

// InternalFrames returns the "internal/<pkg>/<file>.go:<line>" locations found
// in a runtime/debug stack dump, innermost call first.
func InternalFrames(stack []byte) []string {
	return lo.FilterMap(strings.Split(string(stack), "\n"), func(line string, _ int) (string, bool) {
		loc, _, _ := strings.Cut(strings.TrimSpace(line), " +0x")
		if !strings.Contains(loc, ".go:") {
			return "", false
		}

		idx := strings.LastIndex(loc, marker)
		if idx < 0 {
			return "", false
		}

		return loc[idx+1:], true
	})
}
