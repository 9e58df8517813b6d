package diagnostics

import (
	"github.com/stellaraccident/circt/internal/source"
)

// Severity orders diagnostics from fatal to informational.
type Severity int

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

type LabelStyle int

const (
	Primary   LabelStyle = iota // underlined with ^
	Secondary                   // underlined with -
)

// Label points at a location with an optional message.
type Label struct {
	Location source.Location
	Message  string
	Style    LabelStyle
}

// Diagnostic is a problem found in a circuit, or a remark about one.
type Diagnostic struct {
	Severity Severity
	Code     string // e.g. "V0001"
	Message  string
	Labels   []Label // primary label first
	Notes    []string
	Help     string
}

func NewError(message string) *Diagnostic   { return &Diagnostic{Severity: Error, Message: message} }
func NewWarning(message string) *Diagnostic { return &Diagnostic{Severity: Warning, Message: message} }
func NewNote(message string) *Diagnostic    { return &Diagnostic{Severity: Note, Message: message} }

func (d *Diagnostic) WithCode(code string) *Diagnostic {
	d.Code = code
	return d
}

// WithPrimaryLabel sets the main location. Only the first call has an effect.
func (d *Diagnostic) WithPrimaryLabel(loc source.Location, message string) *Diagnostic {
	if d.Primary() != nil {
		return d
	}
	d.Labels = append([]Label{{Location: loc, Message: message, Style: Primary}}, d.Labels...)
	return d
}

// WithSecondaryLabel adds a related location, such as a previous declaration.
func (d *Diagnostic) WithSecondaryLabel(loc source.Location, message string) *Diagnostic {
	d.Labels = append(d.Labels, Label{Location: loc, Message: message, Style: Secondary})
	return d
}

func (d *Diagnostic) WithNote(message string) *Diagnostic {
	d.Notes = append(d.Notes, message)
	return d
}

func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

// Primary returns the primary label, or nil.
func (d *Diagnostic) Primary() *Label {
	if len(d.Labels) > 0 && d.Labels[0].Style == Primary {
		return &d.Labels[0]
	}
	return nil
}

// Location returns the primary location, or an unknown location.
func (d *Diagnostic) Location() source.Location {
	if l := d.Primary(); l != nil {
		return l.Location
	}
	return source.Location{}
}

// String renders the diagnostic on one line, as "file:line:col: message".
func (d *Diagnostic) String() string {
	if loc := d.Location(); !loc.IsUnknown() {
		return loc.String() + ": " + d.Message
	}
	return d.Message
}
