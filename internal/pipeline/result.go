package pipeline

import (
	"encoding/json"

	"barangay-health-server/internal/utils"
)

// Reason classifies a failed operation.
type Reason string

const (
	// ReasonValidation: the submission or identity was rejected field by field.
	ReasonValidation Reason = "validation"
	// ReasonDuplicate: a record with the same identity already exists.
	ReasonDuplicate Reason = "duplicate"
	// ReasonNotFound: no record has the requested identity.
	ReasonNotFound Reason = "not-found"
	// ReasonUnavailable: the store failed; the caller cannot fix it.
	ReasonUnavailable Reason = "unavailable"
)

// Result is the envelope every pipeline operation returns. Callers drive
// their behavior from OK and Reason, never from Message text.
type Result[P any] struct {
	OK          bool              `json:"success"`
	Message     string            `json:"message"`
	Payload     P                 `json:"data"`
	Reason      Reason            `json:"reason,omitempty"`
	FieldErrors utils.FieldErrors `json:"errors,omitempty"`
}

// MarshalJSON always writes data on success, so an empty list is sent as
// [] rather than dropped. Failures carry no data.
func (r Result[P]) MarshalJSON() ([]byte, error) {
	type envelope struct {
		OK          bool              `json:"success"`
		Message     string            `json:"message"`
		Payload     any               `json:"data,omitempty"`
		Reason      Reason            `json:"reason,omitempty"`
		FieldErrors utils.FieldErrors `json:"errors,omitempty"`
	}
	e := envelope{OK: r.OK, Message: r.Message, Reason: r.Reason, FieldErrors: r.FieldErrors}
	if r.OK {
		e.Payload = r.Payload
	}
	return json.Marshal(e)
}

// Outcome is "ok" for successes, otherwise the failure reason.
func (r Result[P]) Outcome() string {
	if r.OK {
		return "ok"
	}
	return string(r.Reason)
}

func succeed[P any](payload P, message string) Result[P] {
	return Result[P]{OK: true, Payload: payload, Message: message}
}

func fail[P any](reason Reason, message string, fe utils.FieldErrors) Result[P] {
	return Result[P]{Reason: reason, Message: message, FieldErrors: fe}
}
