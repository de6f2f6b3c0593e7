package endpoint

import (
	"net/http"
	"path"
	"time"

	"github.com/datastax/feed-data-apis/config"
	"github.com/datastax/feed-data-apis/log"
	"github.com/datastax/feed-data-apis/query"
	"github.com/datastax/feed-data-apis/stablequery"
	"github.com/datastax/feed-data-apis/types"
	"github.com/julienschmidt/httprouter"
)

const (
	QueryPathFormat           = "/%s"
	StableQueryPathFormat     = "/%s/stable"
	StableQueryPagePathFormat = "/%s/stable/%s"
)

const (
	objectTypeParam = "objectType"
	tokenParam      = "token"
)

type routeList struct {
	compiler      *query.Compiler
	executor      *query.Executor
	stableQueries *stablequery.StableQueries
	features      config.Features
	logger        log.Logger
	now           func() time.Time
	params        func(*http.Request, string) string
}

// Routes returns a slice of all the endpoint routes
func Routes(
	prefix string,
	compiler *query.Compiler,
	executor *query.Executor,
	stableQueries *stablequery.StableQueries,
	cfg config.Config,
	now func() time.Time,
) []types.Route {
	rl := routeList{
		compiler:      compiler,
		executor:      executor,
		stableQueries: stableQueries,
		features:      cfg.Features(),
		logger:        cfg.Logger(),
		now:           now,
		params:        httpRouterParams,
	}

	return []types.Route{
		{
			Method:  http.MethodGet,
			Pattern: path.Join(prefix, "/:"+objectTypeParam),
			Handler: http.HandlerFunc(rl.Query),
		},
		{
			Method:  http.MethodPost,
			Pattern: path.Join(prefix, "/:"+objectTypeParam, "stable"),
			Handler: http.HandlerFunc(rl.CreateStableQuery),
		},
		{
			Method:  http.MethodGet,
			Pattern: path.Join(prefix, "/:"+objectTypeParam, "stable", ":"+tokenParam),
			Handler: http.HandlerFunc(rl.QueryStableQuery),
		},
	}
}

func httpRouterParams(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}
