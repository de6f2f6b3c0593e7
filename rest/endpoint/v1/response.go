package endpoint

import (
	"encoding/json"
	"errors"
	"net/http"

	e "github.com/datastax/feed-data-apis/rest/errors"
	m "github.com/datastax/feed-data-apis/rest/models"
	"github.com/datastax/feed-data-apis/types"
)

const retryableCode = "retryable"

// RespondJSONObjectWithCode writes the object and status header to the response. Important to note that if this is being
// used for an error case then an empty return will need to immediately follow the call to this function
func RespondJSONObjectWithCode(w http.ResponseWriter, code int, obj interface{}) {
	setCommonHeaders(w)
	var err error
	var jsonBytes []byte
	if obj != nil {
		jsonBytes, err = json.Marshal(obj)
	}
	writeJSONBytes(w, jsonBytes, err, code)
}

func writeJSONBytes(w http.ResponseWriter, jsonBytes []byte, err error, code int) {
	if err != nil {
		RespondWithError(w, errors.New("unable to marshal response"))
		return
	}

	w.WriteHeader(code)
	if jsonBytes != nil {
		_, _ = w.Write(jsonBytes)
	}
}

// RespondWithError writes err with the status code matching its kind
func RespondWithError(w http.ResponseWriter, err error) {
	requestError := m.ModelError{
		Description: err.Error(),
	}
	if types.IsRetryable(err) {
		requestError.InternalCode = retryableCode
	}
	RespondJSONObjectWithCode(w, e.StatusCode(err), requestError)
}

func setCommonHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
}
