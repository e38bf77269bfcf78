package token

import "fmt"

// ErrorKind classifies a structural problem found while parsing.
type ErrorKind int

const (
	// ErrMalformedTag covers lexical damage: an unterminated '<', an empty
	// tag name, an unquoted or unterminated attribute value.
	ErrMalformedTag ErrorKind = iota

	// ErrUnclosedTag is an element that was opened but never closed, either
	// implicitly closed during recovery or still open at end of input.
	ErrUnclosedTag

	// ErrMismatchedClosingTag is a closing tag whose name does not match the
	// innermost open element but does match an ancestor.
	ErrMismatchedClosingTag

	// ErrUnexpectedClosingTag is a closing tag that matches no open element.
	ErrUnexpectedClosingTag

	// ErrDuplicateAttribute is a repeated attribute name within one tag.
	// Warning-level: the last value wins and parsing continues.
	ErrDuplicateAttribute

	// ErrMultipleRoots is a second top-level element after the root closed.
	ErrMultipleRoots

	// ErrTextOutsideRoot is character data appearing outside any element.
	ErrTextOutsideRoot
)

// String returns the canonical name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrMalformedTag:
		return "malformed tag"
	case ErrUnclosedTag:
		return "unclosed tag"
	case ErrMismatchedClosingTag:
		return "mismatched closing tag"
	case ErrUnexpectedClosingTag:
		return "unexpected closing tag"
	case ErrDuplicateAttribute:
		return "duplicate attribute"
	case ErrMultipleRoots:
		return "multiple root elements"
	case ErrTextOutsideRoot:
		return "text outside root element"
	}
	return "unknown"
}

// ParseError describes one structural problem in a document. Parsing
// accumulates these alongside a best-effort result instead of aborting, so a
// single pass reports every problem it can find.
type ParseError struct {
	Kind     ErrorKind
	Tag      string // tag or attribute name involved
	Expected string // for mismatches: the open tag that was awaiting closure
	Pos      Pos
}

// Error implements the error interface.
func (e ParseError) Error() string {
	switch e.Kind {
	case ErrMismatchedClosingTag:
		return fmt.Sprintf("%s: %s: expected </%s>, found </%s>", e.Pos, e.Kind, e.Expected, e.Tag)
	case ErrDuplicateAttribute:
		return fmt.Sprintf("%s: %s: %q", e.Pos, e.Kind, e.Tag)
	}
	if e.Tag != "" {
		return fmt.Sprintf("%s: %s: <%s>", e.Pos, e.Kind, e.Tag)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Kind)
}

// Warning reports whether the error is warning-level. Warnings do not make a
// document structurally invalid.
func (e ParseError) Warning() bool {
	return e.Kind == ErrDuplicateAttribute
}

// CountFatal returns the number of non-warning errors in errs.
func CountFatal(errs []ParseError) int {
	n := 0
	for _, e := range errs {
		if !e.Warning() {
			n++
		}
	}
	return n
}
