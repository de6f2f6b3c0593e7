package endpoint

import (
	"net/http"

	t "github.com/datastax/feed-data-apis/rest/translator"
	"github.com/datastax/feed-data-apis/schema"
	"github.com/datastax/feed-data-apis/types"
)

func (s *routeList) requestContext(r *http.Request) *schema.RequestContext {
	return schema.NewRequestContext(r.Context(), s.now(), s.features)
}

func (s *routeList) objectType(w http.ResponseWriter, r *http.Request) (schema.ObjectType, bool) {
	objectType, err := schema.ParseObjectType(s.params(r, objectTypeParam))
	if err != nil {
		RespondWithError(w, err)
		return objectType, false
	}
	return objectType, true
}

func (s *routeList) respondWithError(w http.ResponseWriter, err error, msg string, objectType schema.ObjectType) {
	if !types.IsClientError(err) {
		s.logger.Error(msg,
			"type", objectType.String(),
			"retryable", types.IsRetryable(err),
			"error", err)
	}
	RespondWithError(w, err)
}

// Query reads a page of a collection
func (s *routeList) Query(w http.ResponseWriter, r *http.Request) {
	objectType, ok := s.objectType(w, r)
	if !ok {
		return
	}

	query, err := t.ParseQuery(r.URL.Query(), s.compiler.MaxCount())
	if err != nil {
		RespondWithError(w, err)
		return
	}

	rc := s.requestContext(r)
	spec, err := s.compiler.Compile(rc, objectType, t.ToQueryOptions(query))
	if err != nil {
		RespondWithError(w, err)
		return
	}

	result, err := s.executor.Execute(rc, spec)
	if err != nil {
		s.respondWithError(w, err, "unable to query collection", objectType)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, result)
}

// CreateStableQuery captures the ordered identifiers matching the request body
func (s *routeList) CreateStableQuery(w http.ResponseWriter, r *http.Request) {
	objectType, ok := s.objectType(w, r)
	if !ok {
		return
	}

	query, err := t.ParseStableQuery(r.Body)
	if err != nil {
		RespondWithError(w, err)
		return
	}

	token, err := s.stableQueries.Create(s.requestContext(r), objectType, query.Sort, query.Search)
	if err != nil {
		s.respondWithError(w, err, "unable to create stable query", objectType)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusCreated, &types.StableQueryCreated{Token: token})
}

// QueryStableQuery reads a page of a stable query
func (s *routeList) QueryStableQuery(w http.ResponseWriter, r *http.Request) {
	objectType, ok := s.objectType(w, r)
	if !ok {
		return
	}

	page, err := t.ParseStableQueryPage(s.params(r, tokenParam), r.URL.Query(), s.compiler.MaxCount())
	if err != nil {
		RespondWithError(w, err)
		return
	}

	result, err := s.stableQueries.Query(s.requestContext(r), objectType, t.ToStableQueryOptions(page))
	if err != nil {
		s.respondWithError(w, err, "unable to query stable query", objectType)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, result)
}
