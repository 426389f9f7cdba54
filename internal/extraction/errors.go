// Package extraction turns raw model text into typed records.
//
// JSON-mode answers are cleaned, checked against an embedded schema and decoded
// strictly. Free text destined for résumé documents goes through the section
// parser in sections.go. When parsing fails the lenient policy substitutes a
// fixed dataset for the category and the strict policy returns an error.
package extraction

import "fmt"

// ExtractionError reports that model output could not be turned into a record.
type ExtractionError struct {
	Category string
	Message  string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error for %s: %s: %v", e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error for %s: %s", e.Category, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
