package inference

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput means the dictation or edit instruction was blank after trimming
	ErrEmptyInput = errors.New("dictation text is empty")

	// ErrNoJSON means the model reply contained no JSON object at all.
	// Retried immediately without back-off, since re-prompting usually fixes it.
	ErrNoJSON = errors.New("no JSON object found in response")

	// ErrMalformedResponse means the extracted substring did not decode as JSON.
	// Retried immediately without back-off, like ErrNoJSON.
	ErrMalformedResponse = errors.New("response JSON could not be decoded")

	// ErrSchemaViolation is the class every SchemaError unwraps to.
	// Never retried: a structurally wrong reply is not a transient glitch.
	ErrSchemaViolation = errors.New("response JSON does not match the entry schema")
)

// SchemaError reports the field of a decoded response that broke the entry schema
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaViolation
}
