package errors

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/datastax/feed-data-apis/types"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusCode(NewRequestError("skip must be an integer")))
	assert.Equal(t, http.StatusBadRequest, StatusCode(types.NewSearchSyntaxError()))
	assert.Equal(t, http.StatusBadRequest, StatusCode(types.NewUnknownObjectTypeError("books")))
	assert.Equal(t, http.StatusServiceUnavailable, StatusCode(types.NewBackendUnavailableError("select", context.DeadlineExceeded)))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("unexpected")))
}
