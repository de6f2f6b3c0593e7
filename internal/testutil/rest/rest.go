package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"

	"github.com/datastax/feed-data-apis/auth"
	"github.com/datastax/feed-data-apis/rest/models"
	"github.com/datastax/feed-data-apis/types"
	"github.com/julienschmidt/httprouter"
	. "github.com/onsi/gomega"
)

const Prefix = "/rest"

// Client performs requests against a set of REST routes without a listening server
type Client struct {
	handler http.Handler
	user    string
}

func NewClient(routes []types.Route) *Client {
	// Use default router for params to be populated
	router := httprouter.New()
	for _, route := range routes {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}
	return &Client{handler: auth.Handler(router)}
}

// WithUser returns a client sending requests on behalf of user
func (c *Client) WithUser(user string) *Client {
	return &Client{handler: c.handler, user: user}
}

func (c *Client) ExecuteGet(routeFormat string, responsePtr interface{}, values ...interface{}) int {
	return c.execute(http.MethodGet, routeFormat, "", responsePtr, values...)
}

func (c *Client) ExecutePost(
	routeFormat string,
	requestBody string,
	responsePtr interface{},
	values ...interface{},
) int {
	return c.execute(http.MethodPost, routeFormat, requestBody, responsePtr, values...)
}

func (c *Client) execute(
	method string,
	routeFormat string,
	requestBody string,
	responsePtr interface{},
	values ...interface{},
) int {
	rv := reflect.ValueOf(responsePtr)
	if responsePtr != nil && rv.Kind() != reflect.Ptr {
		panic("Provided value should be a pointer or nil")
	}

	targetPath := Prefix + fmt.Sprintf(routeFormat, values...)
	var body io.Reader = nil
	if requestBody != "" {
		body = bytes.NewBuffer([]byte(requestBody))
	}

	r, _ := http.NewRequest(method, targetPath, body)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if c.user != "" {
		r.Header.Set(auth.UserIdHeader, c.user)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, r)

	if w.Code < http.StatusOK || w.Code > http.StatusIMUsed {
		// Not in the 2xx range
		if responsePtr == nil {
			return w.Code
		}
		_, ok := responsePtr.(*models.ModelError)
		if !ok {
			panic(fmt.Sprintf("unexpected http error %d: %s", w.Code, w.Body))
		}
	}

	if w.Code != http.StatusNoContent && responsePtr != nil {
		bodyString := w.Body.String()
		err := json.NewDecoder(bytes.NewBufferString(bodyString)).Decode(responsePtr)
		Expect(err).ToNot(HaveOccurred(),
			fmt.Sprintf("Error decoding response with code %d and body: %s", w.Code, bodyString))
	}

	return w.Code
}
