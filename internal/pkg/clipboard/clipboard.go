// Package clipboard delivers generated codes to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available.
var ErrUnsupported = errors.New("clipboard: not supported on this system")

// Writer places text on a clipboard.
type Writer interface {
	Write(text string) error
}

// System writes to the OS clipboard (pbcopy, xclip/xsel/wl-copy, or the
// Windows API).
type System struct{}

// NewSystem returns a System writer.
func NewSystem() *System {
	return &System{}
}

// Write implements Writer.
func (*System) Write(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}

	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}

	return nil
}

// Disabled is a Writer that refuses every write, used when the clipboard is
// turned off in configuration.
type Disabled struct{}

// Write implements Writer.
func (Disabled) Write(string) error {
	return ErrUnsupported
}
