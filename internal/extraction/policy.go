package extraction

import (
	"fmt"
	"strings"
)

// Policy decides what happens when an external call or a parse fails.
type Policy string

// Policy constants
const (
	// Lenient substitutes fixed example data and logs the failure
	Lenient Policy = "lenient"
	// Strict surfaces the failure to the caller
	Strict Policy = "strict"
)

// ParsePolicy parses a policy name. The empty string selects Lenient.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Lenient:
		return Lenient, nil
	case Strict:
		return Strict, nil
	default:
		return "", fmt.Errorf("unknown fallback policy %q (want lenient or strict)", s)
	}
}

// IsStrict reports whether failures should be surfaced.
func (p Policy) IsStrict() bool {
	return p == Strict
}
