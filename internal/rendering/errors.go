// Package rendering produces résumé documents: a placeholder PDF handed out
// as a data URI and a simple HTML rendering.
package rendering

import "fmt"

// Stages at which rendering can fail
const (
	StageTemplate = "template"
	StageDataURI  = "data uri"
)

// RenderError reports a failed rendering step.
type RenderError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("render %s: %s", e.Stage, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
