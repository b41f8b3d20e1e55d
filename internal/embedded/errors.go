package embedded

import "fmt"

// StructuralError reports a script or style node whose raw value does not
// match the expected tag-wrapper shape. It is fatal for the document.
type StructuralError struct {
	Tag    string // "script" or "style"
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("malformed <%s> element: %s", e.Tag, e.Reason)
}

// FormatterError wraps a diagnostic from the style-sheet or script
// formatter. It is fatal for the document.
type FormatterError struct {
	Lang string // "css" or "js"
	Err  error
}

func (e *FormatterError) Error() string {
	return fmt.Sprintf("%s formatter: %v", e.Lang, e.Err)
}

func (e *FormatterError) Unwrap() error { return e.Err }
