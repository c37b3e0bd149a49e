package template

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// varPattern matches ${name} where name is an identifier or an argument index.
var varPattern = regexp.MustCompile(`\$\{([a-zA-Z0-9_]+)\}`)

// Expander expands variable patterns in message templates.
//
// Create with NewExpander() and configure with Option functions.
type Expander struct {
	missingAction MissingAction
	format        func(any) string
}

// NewExpander creates a new Expander with the given options.
//
// Default configuration:
//   - MissingAction: MissingKeep (keep placeholders as-is)
//   - Formatter: fmt.Sprint
func NewExpander(opts ...Option) *Expander {
	e := &Expander{
		missingAction: MissingKeep,
		format:        func(v any) string { return fmt.Sprint(v) },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand expands variable patterns in s using the provided vars.
//
// Errors are only returned when MissingAction is MissingError and
// a variable is not found.
func (e *Expander) Expand(s string, vars map[string]any) (string, error) {
	if s == "" || !strings.Contains(s, "${") {
		return s, nil
	}

	var missingVars []string
	result := varPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := vars[varName]; ok {
			return e.format(val)
		}
		switch e.missingAction {
		case MissingEmpty:
			return ""
		case MissingError:
			missingVars = append(missingVars, varName)
			return match
		default: // MissingKeep
			return match
		}
	})

	if len(missingVars) > 0 {
		return result, &UndefinedVariableError{Names: missingVars}
	}
	return result, nil
}

// Validate reports the variables of s that names does not provide.
// Argument indexes (${0}) are always accepted.
func (e *Expander) Validate(s string, names []string) error {
	vars := Args(make([]any, len(names)), names...)
	for _, name := range Vars(s) {
		if _, err := strconv.Atoi(name); err == nil {
			vars[name] = nil
		}
	}
	strict := &Expander{missingAction: MissingError, format: e.format}
	_, err := strict.Expand(s, vars)
	return err
}

// Vars returns the variable names used in s, in order of appearance.
func Vars(s string) []string {
	matches := varPattern.FindAllStringSubmatch(s, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// Args binds positional arguments as variables. Each argument is available
// by its index and, when names has an entry for that position, by name.
// Names without a matching argument are not bound.
func Args(args []any, names ...string) map[string]any {
	vars := make(map[string]any, len(args)*2)
	for i, arg := range args {
		vars[strconv.Itoa(i)] = arg
		if i < len(names) && names[i] != "" {
			vars[names[i]] = arg
		}
	}
	return vars
}

// UndefinedVariableError is returned when MissingError is set and
// one or more variables are not found.
type UndefinedVariableError struct {
	// Names is the list of undefined variable names.
	Names []string
}

// Error implements the error interface.
func (e *UndefinedVariableError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("undefined variable: %s", e.Names[0])
	}
	return fmt.Sprintf("undefined variables: %s", strings.Join(e.Names, ", "))
}
