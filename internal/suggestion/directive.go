package suggestion

import (
	"fmt"
	"strings"
)

// Directive is a caller-supplied override selecting which tier resolves a
// suggestion. The zero value means "use the configured default policy".
type Directive string

// Possible directive values
const (
	DirectiveUnset Directive = ""
	DirectiveLocal Directive = "local"
	DirectiveCloud Directive = "cloud"
	DirectiveMock  Directive = "mock"
)

// Valid reports whether d is one of the known directives, including unset.
func (d Directive) Valid() bool {
	switch d {
	case DirectiveUnset, DirectiveLocal, DirectiveCloud, DirectiveMock:
		return true
	default:
		return false
	}
}

// IsSet reports whether the caller asked for a specific tier.
func (d Directive) IsSet() bool {
	return d != DirectiveUnset
}

// ParseDirective converts raw input (typically a query parameter) into a
// Directive. Empty input yields DirectiveUnset; matching is case-insensitive.
func ParseDirective(raw string) (Directive, error) {
	d := Directive(strings.ToLower(strings.TrimSpace(raw)))
	if !d.Valid() {
		return DirectiveUnset, fmt.Errorf("%w: %q (expected local, cloud or mock)", ErrInvalidDirective, raw)
	}
	return d, nil
}
