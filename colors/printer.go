package colors

import (
	"fmt"
	"io"
	"os"
	"regexp"
)

// Status output goes to stderr; stdout carries the lowered circuit.
var status io.Writer = os.Stderr

func (c COLOR) wrap(s string) string { return c.open() + s + c.close() }

func (c COLOR) Printf(format string, args ...any) { _, _ = c.Fprintf(status, format, args...) }
func (c COLOR) Println(args ...any)               { _, _ = c.Fprintln(status, args...) }
func (c COLOR) Print(args ...any)                 { _, _ = c.Fprint(status, args...) }

// The F variants return what the writer returns, like their fmt counterparts.

func (c COLOR) Fprintf(w io.Writer, format string, args ...any) (int, error) {
	return io.WriteString(w, c.Sprintf(format, args...))
}

// Fprintln colours the text but not the trailing newline.
func (c COLOR) Fprintln(w io.Writer, args ...any) (int, error) {
	s := fmt.Sprintln(args...)
	return io.WriteString(w, c.wrap(s[:len(s)-1])+"\n")
}

func (c COLOR) Fprint(w io.Writer, args ...any) (int, error) {
	return io.WriteString(w, c.Sprint(args...))
}

func (c COLOR) Sprintf(format string, args ...any) string {
	return c.wrap(fmt.Sprintf(format, args...))
}

func (c COLOR) Sprint(args ...any) string {
	return c.wrap(fmt.Sprint(args...))
}

var escape = regexp.MustCompile("\033\\[[0-9;]*[A-Za-z]")

// StripANSI removes escape sequences from s.
func StripANSI(s string) string {
	return escape.ReplaceAllString(s, "")
}
