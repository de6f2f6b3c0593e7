package rest

import (
	"encoding/json"
	"net/http"

	m "github.com/datastax/feed-data-apis/rest/models"
	"github.com/datastax/feed-data-apis/types"
	"github.com/julienschmidt/httprouter"
)

// ApiRouter mounts the routes on a new router, unknown paths get a json error
func ApiRouter(routes ...types.Route) *httprouter.Router {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "resource not found")
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	Mount(router, routes...)
	return router
}

func Mount(router *httprouter.Router, routes ...types.Route) {
	for _, route := range routes {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(&m.ModelError{Description: msg})
}
