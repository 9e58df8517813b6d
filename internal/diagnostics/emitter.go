package diagnostics

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/stellaraccident/circt/colors"
)

const sourceCacheSize = 64

// SourceCache holds the lines of the files labels point into. Files are read
// on first use; a circuit usually references a handful of generator sources.
type SourceCache struct {
	files *lru.Cache[string, []string]
}

func NewSourceCache() *SourceCache {
	files, err := lru.New[string, []string](sourceCacheSize)
	if err != nil {
		panic(err)
	}
	return &SourceCache{files: files}
}

// AddSource registers content for path without touching the file system.
func (sc *SourceCache) AddSource(path, content string) {
	sc.files.Add(path, strings.Split(content, "\n"))
}

// GetLine returns line (1-based) of path.
func (sc *SourceCache) GetLine(path string, line int) (string, error) {
	lines, ok := sc.files.Get(path)
	if !ok {
		var err error
		if lines, err = readLines(path); err != nil {
			return "", err
		}
		sc.files.Add(path, lines)
	}
	if line < 1 || line > len(lines) {
		return "", errors.Errorf("%s has no line %d", path, line)
	}
	return lines[line-1], nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

// Emitter renders diagnostics as text with quoted source lines.
type Emitter struct {
	cache  *SourceCache
	writer io.Writer
}

func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{cache: NewSourceCache(), writer: w}
}

func severityColor(s Severity) colors.COLOR {
	switch s {
	case Error:
		return colors.BOLD_RED
	case Warning:
		return colors.BOLD_YELLOW
	default:
		return colors.BOLD_CYAN
	}
}

// Emit writes one diagnostic followed by a blank line.
func (e *Emitter) Emit(diag *Diagnostic) {
	color := severityColor(diag.Severity)
	color.Fprint(e.writer, diag.Severity.String())
	if diag.Code != "" {
		fmt.Fprintf(e.writer, "[%s]", diag.Code)
	}
	fmt.Fprint(e.writer, ": ")
	color.Fprintln(e.writer, diag.Message)

	// One gutter width for every label keeps the bars aligned.
	gutter := 0
	for _, l := range diag.Labels {
		gutter = max(gutter, len(strconv.Itoa(l.Location.Start.Line)))
	}
	pad := strings.Repeat(" ", gutter)
	for _, l := range diag.Labels {
		e.label(l, diag.Severity, pad)
	}

	for _, note := range diag.Notes {
		colors.BOLD_BLUE.Fprint(e.writer, "  = note: ")
		fmt.Fprintln(e.writer, note)
	}
	if diag.Help != "" {
		colors.BOLD_CYAN.Fprint(e.writer, "  = help: ")
		fmt.Fprintln(e.writer, diag.Help)
	}
	fmt.Fprintln(e.writer)
}

func (e *Emitter) label(l Label, severity Severity, pad string) {
	loc := l.Location
	if loc.IsUnknown() {
		if l.Message != "" {
			colors.GREY.Fprintf(e.writer, "%s | %s\n", pad, l.Message)
		}
		return
	}
	colors.BLUE.Fprintf(e.writer, "%s--> %s\n", pad, loc)

	text, err := e.cache.GetLine(loc.Filename, loc.Start.Line)
	if err != nil {
		colors.GREY.Fprintf(e.writer, "%s | ", pad)
		fmt.Fprintln(e.writer, l.Message)
		return
	}

	colors.GREY.Fprintf(e.writer, "%s |\n", pad)
	colors.GREY.Fprintf(e.writer, "%*d | ", len(pad), loc.Start.Line)
	fmt.Fprintln(e.writer, text)

	width := 1
	if loc.End.Line == loc.Start.Line && loc.End.Column > loc.Start.Column {
		width = loc.End.Column - loc.Start.Column
	}
	mark, color := "^", severityColor(severity)
	if l.Style == Secondary {
		mark, color = "-", colors.BLUE
	}
	colors.GREY.Fprintf(e.writer, "%s | ", pad)
	fmt.Fprint(e.writer, strings.Repeat(" ", max(loc.Start.Column, 1)-1))
	color.Fprint(e.writer, strings.Repeat(mark, width))
	if l.Message != "" {
		color.Fprint(e.writer, " "+l.Message)
	}
	fmt.Fprintln(e.writer)
}
