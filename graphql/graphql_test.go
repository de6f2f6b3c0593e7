package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/datastax/feed-data-apis/auth"
	"github.com/datastax/feed-data-apis/cache"
	"github.com/datastax/feed-data-apis/config"
	"github.com/datastax/feed-data-apis/db"
	"github.com/datastax/feed-data-apis/feeds"
	"github.com/datastax/feed-data-apis/internal/testutil"
	"github.com/datastax/feed-data-apis/internal/testutil/fixture"
	"github.com/datastax/feed-data-apis/query"
	"github.com/datastax/feed-data-apis/stablequery"
	"github.com/datastax/feed-data-apis/types"
	"github.com/stretchr/testify/suite"
)

const (
	getIndex  = 0
	postIndex = 1
)

type response struct {
	Data   map[string]interface{}   `json:"data"`
	Errors []map[string]interface{} `json:"errors"`
}

type GraphQLTestSuite struct {
	suite.Suite
	db     *db.Db
	routes []types.Route
}

func (s *GraphQLTestSuite) SetupTest() {
	s.db = fixture.NewDb()
	cfg := config.NewConfigMock().Default()
	registry, err := feeds.NewRegistry(s.db)
	s.Require().NoError(err)

	compiler := query.NewCompiler(registry, cfg)
	executor := query.NewExecutor(s.db, config.DefaultBackendTimeout, testutil.TestLogger())
	stableQueries := stablequery.NewStableQueries(compiler, executor, cache.NewMemoryCache(0, time.Hour), cfg)

	s.routes, err = NewRouteGenerator(compiler, executor, stableQueries, cfg).WithClock(testutil.FixedClock).Routes("/graphql")
	s.Require().NoError(err)
	s.Require().Len(s.routes, 2)
}

func (s *GraphQLTestSuite) TearDownTest() {
	s.NoError(s.db.Close())
}

func (s *GraphQLTestSuite) post(query string, variables map[string]interface{}) response {
	body, err := json.Marshal(RequestBody{Query: query, Variables: variables})
	s.Require().NoError(err)

	r := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	r = r.WithContext(auth.WithContextUser(context.Background(), fixture.User))
	return s.serve(s.routes[postIndex], r)
}

func (s *GraphQLTestSuite) serve(route types.Route, r *http.Request) response {
	w := httptest.NewRecorder()
	route.Handler.ServeHTTP(w, r)
	s.Require().Equal(http.StatusOK, w.Code)

	var result response
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&result))
	return result
}

func (s *GraphQLTestSuite) objects(result response, name string) []interface{} {
	s.Require().Empty(result.Errors)
	data, ok := result.Data[name].(map[string]interface{})
	s.Require().True(ok)
	objects, _ := data[objectsField].([]interface{})
	return objects
}

func (s *GraphQLTestSuite) TestQueryWithSortAndTotalCount() {
	result := s.post(`{ feeds(options: {sort: "title:desc"}) { objects { id title } totalCount } }`, nil)
	objects := s.objects(result, "feeds")

	s.Require().Len(objects, 3)
	s.Equal(map[string]interface{}{"id": fixture.FeedGamma, "title": "Gamma Sports"}, objects[0])
	s.Equal(fixture.FeedAlpha, objects[2].(map[string]interface{})["id"])
	s.Equal(float64(3), result.Data["feeds"].(map[string]interface{})[totalCountField])
}

func (s *GraphQLTestSuite) TestQueryWithVariables() {
	query := `query Entries($search: String!) {
  entries(options: {search: $search, count: 1}) {
    objects { id read starred }
  }
}`
	objects := s.objects(s.post(query, map[string]interface{}{"search": `read:"true"`}), "entries")

	s.Require().Len(objects, 1)
	s.Equal(map[string]interface{}{"id": fixture.EntryGenerics, "read": true, "starred": true}, objects[0])
}

func (s *GraphQLTestSuite) TestQueryWithoutOptionsUsesDefaults() {
	objects := s.objects(s.post(`{ entries { objects { id } } }`, nil), "entries")

	s.Require().Len(objects, 5)
	s.Equal(fixture.EntryMatch, objects[0].(map[string]interface{})["id"])
}

func (s *GraphQLTestSuite) TestGetQuery() {
	r := httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape(`{ categories { totalCount } }`), nil)
	result := s.serve(s.routes[getIndex], r)

	s.Require().Empty(result.Errors)
	categories := result.Data["categories"].(map[string]interface{})
	s.Equal(float64(3), categories[totalCountField])
	s.NotContains(categories, objectsField)
}

func (s *GraphQLTestSuite) TestQueryErrors() {
	query := `query Entries($search: String!) { entries(options: {search: $search}) { objects { id } } }`
	result := s.post(query, map[string]interface{}{"search": `unknown:"1"`})
	s.Require().Len(result.Errors, 1)
	s.Equal("unknown search field 'unknown'", result.Errors[0]["message"])

	result = s.post(query, map[string]interface{}{"search": `title:("a"`})
	s.Require().Len(result.Errors, 1)
	s.Equal("search malformed", result.Errors[0]["message"])
}

func (s *GraphQLTestSuite) TestStableQuery() {
	mutation := `mutation Create($search: String!) {
  createStableQuery(type: ENTRY, sort: "published:asc", search: $search) { token }
}`
	search := `feedId:"` + fixture.FeedAlpha + `" or feedId:"` + fixture.FeedBeta + `"`
	created := s.post(mutation, map[string]interface{}{"search": search})
	s.Require().Empty(created.Errors)
	token := created.Data["createStableQuery"].(map[string]interface{})["token"].(string)
	s.NotEmpty(token)

	fixture.InsertEntry(s.db, testutil.NewUuid(), fixture.FeedAlpha, "Late story", "2024-01-01 00:00:00")

	query := `query Page($token: String!) {
  stableQuery(type: ENTRY, token: $token, options: {fields: ["id"], skip: 1, count: 2}) { objects totalCount }
}`
	result := s.post(query, map[string]interface{}{"token": token})
	objects := s.objects(result, "stableQuery")
	s.Equal([]interface{}{
		map[string]interface{}{"id": fixture.EntrySecond},
		map[string]interface{}{"id": fixture.EntryGenerics},
	}, objects)
	s.Equal(float64(4), result.Data["stableQuery"].(map[string]interface{})[totalCountField])

	result = s.post(query, map[string]interface{}{"token": testutil.NewUuid()})
	s.Empty(s.objects(result, "stableQuery"))
}

func (s *GraphQLTestSuite) TestPlayground() {
	w := httptest.NewRecorder()
	PlaygroundRoute("/graphql-playground", "/graphql").Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphql-playground", nil))
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "endpoint: '/graphql'")
}

func TestGraphQLTestSuite(t *testing.T) {
	suite.Run(t, new(GraphQLTestSuite))
}
