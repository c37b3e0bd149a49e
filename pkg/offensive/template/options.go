package template

// MissingAction decides what happens to a ${name} with no bound value.
type MissingAction int

const (
	// MissingKeep leaves the placeholder in the message. Default.
	MissingKeep MissingAction = iota

	// MissingEmpty drops the placeholder.
	MissingEmpty

	// MissingError fails the expansion with an *UndefinedVariableError.
	// Registration uses it to reject templates naming unknown parameters.
	MissingError
)

// String returns the action's name.
func (a MissingAction) String() string {
	switch a {
	case MissingKeep:
		return "keep"
	case MissingEmpty:
		return "empty"
	case MissingError:
		return "error"
	default:
		return "unknown"
	}
}

// Option configures an Expander.
type Option func(*Expander)

// WithMissingAction sets how unbound placeholders are handled.
func WithMissingAction(action MissingAction) Option {
	return func(e *Expander) {
		e.missingAction = action
	}
}

// WithFormatter sets how bound values are rendered into a message.
// Checkers use value.Describe so that strings appear quoted.
//
// Default: fmt.Sprint
func WithFormatter(format func(any) string) Option {
	return func(e *Expander) {
		if format != nil {
			e.format = format
		}
	}
}
