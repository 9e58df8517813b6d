package source

// Position represents a specific location in the source code.
type Position struct {
	Line   int // 1-based line number; 0 when unknown
	Column int // 1-based column number; 0 when unknown
}
