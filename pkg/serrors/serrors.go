package serrors

import "fmt"

// Base is a coded error surfaced to API callers. Code is stable across
// releases; Message is human-readable; Hint is optional remediation text.
type Base struct {
	Code    string
	Message string
	Hint    string
}

func (e *Base) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message, hint string) *Base {
	return &Base{Code: code, Message: message, Hint: hint}
}

// WithMessagef returns a copy of the error with a formatted message,
// keeping the original code and hint.
func (e *Base) WithMessagef(format string, args ...any) *Base {
	return &Base{Code: e.Code, Message: fmt.Sprintf(format, args...), Hint: e.Hint}
}
