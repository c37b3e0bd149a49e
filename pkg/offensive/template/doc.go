/*
Package template expands the message templates of catalogue entries.

# Overview

Every assertion has a short condition text such as "a number" or
"> ${expected}". When a chain fails, the text is expanded with the
assertion's arguments and becomes one condition of the rendered sentence:

	x must be a number and > 0; got -1

# Variables

Variables use the ${name} form. Names are identifiers or argument
positions:

	tpl := "between ${0} and ${1}"
	s, _ := template.NewExpander().Expand(tpl, template.Args([]any{1, 5}))
	// s: "between 1 and 5"

Named parameters are bound with Args as well, in argument order:

	vars := template.Args([]any{0}, "expected")
	// vars["0"] == vars["expected"] == 0

# Formatting

The default expander formats values with fmt's %v verb. Catalogues that
want Go-syntax strings in messages install their own formatter:

	exp := template.NewExpander(template.WithFormatter(value.Describe))

# Missing Variables

By default, missing variables are kept as-is. MissingError reports them
as an *UndefinedVariableError, which Register uses to reject templates
that refer to parameters the assertion does not declare.

# Thread Safety

Expander is safe for concurrent use after construction.
*/
package template
