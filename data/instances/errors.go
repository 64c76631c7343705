package instances

import "fmt"

// FormatError reports a line record that does not match any of the accepted
// tab-separated shapes.
type FormatError struct {
	Line string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecognized line format: %q", e.Line)
}

// LabelMismatchError reports a line whose encoded label conflicts with the
// caller-supplied default label. It is a configuration bug on the caller's
// side, never resolved silently.
type LabelMismatchError struct {
	Line         string
	LineLabel    bool
	DefaultLabel bool
}

func (e *LabelMismatchError) Error() string {
	return fmt.Sprintf("label %v in line %q conflicts with default label %v",
		e.LineLabel, e.Line, e.DefaultLabel)
}

// MalformedTreeError reports a logical-form string with unbalanced
// parentheses or commas.
type MalformedTreeError struct {
	Text string
}

func (e *MalformedTreeError) Error() string {
	return fmt.Sprintf("malformed binary semantic parse: %s", e.Text)
}

// OptionCountError reports a question whose options do not contain exactly one
// true-labeled instance.
type OptionCountError struct {
	NumTrue    int
	NumOptions int
}

func (e *OptionCountError) Error() string {
	return fmt.Sprintf("question must have exactly one true option, got %d of %d",
		e.NumTrue, e.NumOptions)
}
