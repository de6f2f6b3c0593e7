package rest

import (
	"time"

	"github.com/datastax/feed-data-apis/config"
	"github.com/datastax/feed-data-apis/query"
	restEndpointV1 "github.com/datastax/feed-data-apis/rest/endpoint/v1"
	"github.com/datastax/feed-data-apis/stablequery"
	"github.com/datastax/feed-data-apis/types"
)

type RouteGenerator struct {
	compiler      *query.Compiler
	executor      *query.Executor
	stableQueries *stablequery.StableQueries
	config        config.Config
	now           func() time.Time
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
		config:        cfg,
		now:           time.Now,
	}
}

// WithClock replaces the clock used by relative time searches
func (g *RouteGenerator) WithClock(now func() time.Time) *RouteGenerator {
	g.now = now
	return g
}

func (g *RouteGenerator) Routes(prefix string) []types.Route {
	return restEndpointV1.Routes(prefix, g.compiler, g.executor, g.stableQueries, g.config, g.now)
}
