package models

// A description of an error state
type ModelError struct {

	// A human readable description of the error state
	Description string `json:"description,omitempty"`

	// The internal code of the error state, set to "retryable" when the request can be retried
	InternalCode string `json:"internalCode,omitempty"`
}
