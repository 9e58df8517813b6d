package source

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Location represents a span of source code with start and end positions.
// IR entities take it from FIRRTL source locators such as @[Foo.scala 12:3].
type Location struct {
	Filename string
	Start    Position
	End      Position
}

// NewLocation creates a new Location with the given start and end positions
func NewLocation(filename string, start, end Position) Location {
	return Location{
		Filename: filename,
		Start:    start,
		End:      end,
	}
}

// At creates a zero-width location at line:col.
func At(filename string, line, col int) Location {
	pos := Position{Line: line, Column: col}
	return NewLocation(filename, pos, pos)
}

// IsUnknown reports whether the location carries no position.
func (l Location) IsUnknown() bool {
	return l.Filename == "" && l.Start.Line == 0
}

// Contains checks if the given position is within this location
func (l Location) Contains(pos Position) bool {
	if l.Start.Line > pos.Line || (l.Start.Line == pos.Line && l.Start.Column > pos.Column) {
		return false
	}
	if l.End.Line < pos.Line || (l.End.Line == pos.Line && l.End.Column < pos.Column) {
		return false
	}
	return true
}

// Before orders locations by file, then start line and column.
func (l Location) Before(o Location) bool {
	if l.Filename != o.Filename {
		return l.Filename < o.Filename
	}
	if l.Start.Line != o.Start.Line {
		return l.Start.Line < o.Start.Line
	}
	return l.Start.Column < o.Start.Column
}

func (l Location) String() string {
	if l.IsUnknown() {
		return "<unknown>"
	}
	if l.Start.Line == 0 {
		return l.Filename
	}
	if l.Start.Column == 0 {
		return fmt.Sprintf("%s:%d", l.Filename, l.Start.Line)
	}
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Start.Line, l.Start.Column)
}

// Info renders the location in FIRRTL source locator form, without the @[ ].
func (l Location) Info() string {
	if l.Start.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%s %d:%d", l.Filename, l.Start.Line, l.Start.Column)
}

// ParseInfo parses a FIRRTL source locator body, "file line:col" or
// "file line", optionally wrapped in @[ ].
func ParseInfo(info string) (Location, error) {
	info = strings.TrimSpace(info)
	info = strings.TrimSuffix(strings.TrimPrefix(info, "@["), "]")
	if info == "" {
		return Location{}, nil
	}

	sp := strings.LastIndexByte(info, ' ')
	if sp <= 0 {
		return Location{}, errors.Errorf("malformed source locator %q", info)
	}
	file, lineCol := info[:sp], info[sp+1:]

	lineStr, colStr, hasCol := strings.Cut(lineCol, ":")
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return Location{}, errors.Errorf("malformed line in source locator %q", info)
	}
	col := 0
	if hasCol {
		col, err = strconv.Atoi(colStr)
		if err != nil || col < 0 {
			return Location{}, errors.Errorf("malformed column in source locator %q", info)
		}
	}
	return At(file, line, col), nil
}
