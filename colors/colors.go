// Package colors wraps text in ANSI escape codes for terminal output.
package colors

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/atomic"
)

// COLOR is an ANSI escape sequence.
type COLOR string

const (
	RESET       COLOR = "\033[0m"
	RED         COLOR = "\033[31m"
	GREEN       COLOR = "\033[32m"
	YELLOW      COLOR = "\033[33m"
	BLUE        COLOR = "\033[34m"
	PURPLE      COLOR = "\033[35m"
	CYAN        COLOR = "\033[36m"
	GREY        COLOR = "\033[90m"
	ORANGE      COLOR = "\033[38;5;208m"
	BOLD_RED    COLOR = "\033[1;31m"
	BOLD_YELLOW COLOR = "\033[1;33m"
	BOLD_BLUE   COLOR = "\033[1;34m"
	BOLD_PURPLE COLOR = "\033[1;35m"
	BOLD_CYAN   COLOR = "\033[1;36m"
)

var enabled atomic.Bool

func init() {
	enabled.Store(isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
}

// Mode selects when escape codes are written.
type Mode string

const (
	Auto   Mode = "auto"
	Always Mode = "always"
	Never  Mode = "never"
)

// ParseMode parses auto, always or never.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case Auto, Always, Never:
		return m, nil
	default:
		return Auto, fmt.Errorf("unknown color mode %q", s)
	}
}

// SetMode enables or disables escape codes. Auto enables them when stderr is
// a terminal.
func SetMode(m Mode) {
	switch m {
	case Always:
		enabled.Store(true)
	case Never:
		enabled.Store(false)
	default:
		enabled.Store(isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
	}
}

// Enabled reports whether escape codes are written.
func Enabled() bool { return enabled.Load() }

func (c COLOR) open() string {
	if !enabled.Load() {
		return ""
	}
	return string(c)
}

func (c COLOR) close() string {
	if !enabled.Load() {
		return ""
	}
	return string(RESET)
}
