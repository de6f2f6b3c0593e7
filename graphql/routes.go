package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/datastax/feed-data-apis/config"
	"github.com/datastax/feed-data-apis/log"
	"github.com/datastax/feed-data-apis/query"
	"github.com/datastax/feed-data-apis/stablequery"
	"github.com/datastax/feed-data-apis/types"
	"github.com/graphql-go/graphql"
)

type executeQueryFunc func(query string, variables map[string]interface{}, ctx context.Context) *graphql.Result

type RouteGenerator struct {
	compiler      *query.Compiler
	executor      *query.Executor
	stableQueries *stablequery.StableQueries
	features      config.Features
	naming        config.NamingConvention
	logger        log.Logger
	now           func() time.Time
}

type RequestBody struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

func NewRouteGenerator(
	compiler *query.Compiler,
	executor *query.Executor,
	stableQueries *stablequery.StableQueries,
	cfg config.Config,
) *RouteGenerator {
	return &RouteGenerator{
		compiler:      compiler,
		executor:      executor,
		stableQueries: stableQueries,
		features:      cfg.Features(),
		naming:        cfg.Naming(),
		logger:        cfg.Logger(),
		now:           time.Now,
	}
}

// WithClock replaces the clock used by relative time searches
func (rg *RouteGenerator) WithClock(now func() time.Time) *RouteGenerator {
	rg.now = now
	return rg
}

func (rg *RouteGenerator) Routes(pattern string) ([]types.Route, error) {
	schema, err := rg.BuildSchema()
	if err != nil {
		return nil, fmt.Errorf("unable to build graphql schema: %s", err)
	}

	return routesForSchema(pattern, func(query string, variables map[string]interface{}, ctx context.Context) *graphql.Result {
		return rg.executeQuery(query, variables, ctx, schema)
	}), nil
}

func routesForSchema(pattern string, execute executeQueryFunc) []types.Route {
	return []types.Route{
		{
			Method:  http.MethodGet,
			Pattern: pattern,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				result := execute(r.URL.Query().Get("query"), nil, r.Context())
				writeResult(w, result)
			}),
		},
		{
			Method:  http.MethodPost,
			Pattern: pattern,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Body == nil {
					http.Error(w, "No request body", http.StatusBadRequest)
					return
				}

				var body RequestBody
				err := json.NewDecoder(r.Body).Decode(&body)
				if err != nil {
					http.Error(w, "Request body is invalid", http.StatusBadRequest)
					return
				}

				writeResult(w, execute(body.Query, body.Variables, r.Context()))
			}),
		},
	}
}

func writeResult(w http.ResponseWriter, result *graphql.Result) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	err := json.NewEncoder(w).Encode(result)
	if err != nil {
		http.Error(w, "response could not be encoded: "+err.Error(), http.StatusInternalServerError)
	}
}

func (rg *RouteGenerator) executeQuery(
	query string, variables map[string]interface{}, ctx context.Context, schema graphql.Schema,
) *graphql.Result {
	result := graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
		Context:        ctx,
	})
	if len(result.Errors) > 0 {
		rg.logger.Debug("errors processing graphql query", "errors", result.Errors)
	}
	return result
}
