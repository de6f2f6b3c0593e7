package errors

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/datastax/feed-data-apis/types"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// TranslateValidatorError takes an error from the go-playground validator (internally just a map of errors) and
// converts it into a RequestError with a user friendly message.
func TranslateValidatorError(err error, trans ut.Translator) error {
	switch err.(type) {
	case validator.ValidationErrors:
		errs := (err.(validator.ValidationErrors)).Translate(trans)

		vals := make([]string, 0, len(errs))

		for _, value := range errs {
			vals = append(vals, value)
		}

		// Translate returns a map
		sort.Strings(vals)
		return NewRequestError(strings.Join(vals, " "))
	default:
		return err
	}
}

// StatusCode returns the http status code matching err
func StatusCode(err error) int {
	var requestError *RequestError
	switch {
	case errors.As(err, &requestError), types.IsClientError(err):
		return http.StatusBadRequest
	case types.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
