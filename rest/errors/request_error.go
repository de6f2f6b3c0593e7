package errors

// RequestError is returned when the request parameters or body are invalid
type RequestError struct {
	msg string
}

func (e *RequestError) Error() string {
	return e.msg
}

func NewRequestError(text string) error {
	return &RequestError{text}
}
