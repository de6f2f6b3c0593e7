package endpoint

import (
	"context"
	"fmt"
	"time"

	"github.com/datastax/feed-data-apis/cache"
	"github.com/datastax/feed-data-apis/config"
	"github.com/datastax/feed-data-apis/db"
	"github.com/datastax/feed-data-apis/feeds"
	"github.com/datastax/feed-data-apis/graphql"
	"github.com/datastax/feed-data-apis/log"
	"github.com/datastax/feed-data-apis/query"
	"github.com/datastax/feed-data-apis/rest"
	"github.com/datastax/feed-data-apis/stablequery"
	"github.com/datastax/feed-data-apis/types"
	"go.uber.org/zap"
)

const (
	MemoryCache    = "memory"
	CassandraCache = "cassandra"
)

const DefaultCacheSize = 10000

type DataEndpointConfig struct {
	dbPath              string
	cacheKind           string
	cacheHosts          []string
	cacheUsername       string
	cachePassword       string
	cacheKeyspace       string
	cacheSize           int
	maxCount            int
	maxStableQueryCount int
	stableQueryTTL      time.Duration
	backendTimeout      time.Duration
	features            config.Features
	naming              config.NamingConvention
	now                 func() time.Time
	logger              log.Logger
}

func (cfg DataEndpointConfig) Logger() log.Logger {
	return cfg.logger
}

func (cfg DataEndpointConfig) MaxCount() int {
	return cfg.maxCount
}

func (cfg DataEndpointConfig) MaxStableQueryCount() int {
	return cfg.maxStableQueryCount
}

func (cfg DataEndpointConfig) StableQueryTTL() time.Duration {
	return cfg.stableQueryTTL
}

func (cfg DataEndpointConfig) BackendTimeout() time.Duration {
	return cfg.backendTimeout
}

func (cfg DataEndpointConfig) Features() config.Features {
	return cfg.features
}

func (cfg DataEndpointConfig) Naming() config.NamingConvention {
	return cfg.naming
}

func (cfg *DataEndpointConfig) WithCache(kind string) *DataEndpointConfig {
	cfg.cacheKind = kind
	return cfg
}

func (cfg *DataEndpointConfig) WithCacheHosts(hosts []string) *DataEndpointConfig {
	cfg.cacheHosts = hosts
	return cfg
}

func (cfg *DataEndpointConfig) WithCacheUsername(username string) *DataEndpointConfig {
	cfg.cacheUsername = username
	return cfg
}

func (cfg *DataEndpointConfig) WithCachePassword(password string) *DataEndpointConfig {
	cfg.cachePassword = password
	return cfg
}

func (cfg *DataEndpointConfig) WithCacheKeyspace(keyspace string) *DataEndpointConfig {
	cfg.cacheKeyspace = keyspace
	return cfg
}

func (cfg *DataEndpointConfig) WithCacheSize(size int) *DataEndpointConfig {
	cfg.cacheSize = size
	return cfg
}

func (cfg *DataEndpointConfig) WithMaxCount(maxCount int) *DataEndpointConfig {
	cfg.maxCount = maxCount
	return cfg
}

func (cfg *DataEndpointConfig) WithMaxStableQueryCount(maxStableQueryCount int) *DataEndpointConfig {
	cfg.maxStableQueryCount = maxStableQueryCount
	return cfg
}

func (cfg *DataEndpointConfig) WithStableQueryTTL(ttl time.Duration) *DataEndpointConfig {
	cfg.stableQueryTTL = ttl
	return cfg
}

func (cfg *DataEndpointConfig) WithBackendTimeout(timeout time.Duration) *DataEndpointConfig {
	cfg.backendTimeout = timeout
	return cfg
}

func (cfg *DataEndpointConfig) WithFeatures(features config.Features) *DataEndpointConfig {
	cfg.features = features
	return cfg
}

func (cfg *DataEndpointConfig) WithNaming(naming config.NamingConvention) *DataEndpointConfig {
	cfg.naming = naming
	return cfg
}

// WithClock replaces the clock used by relative time searches
func (cfg *DataEndpointConfig) WithClock(now func() time.Time) *DataEndpointConfig {
	cfg.now = now
	return cfg
}

func (cfg DataEndpointConfig) validate() error {
	if cfg.maxCount <= 0 {
		return fmt.Errorf("max count must be positive, got %d", cfg.maxCount)
	}
	if cfg.maxStableQueryCount <= 0 {
		return fmt.Errorf("max stable query count must be positive, got %d", cfg.maxStableQueryCount)
	}
	return nil
}

func (cfg DataEndpointConfig) NewEndpoint() (*DataEndpoint, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	database, err := db.NewDb(cfg.dbPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.backendTimeout)
	defer cancel()

	if err = database.CreateSchema(ctx); err != nil {
		_ = database.Close()
		return nil, err
	}

	c, closeCache, err := cfg.newCache(ctx)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	endpoint, err := cfg.newEndpointWithDb(database, c)
	if err != nil {
		closeCache()
		_ = database.Close()
		return nil, err
	}
	endpoint.closeCache = closeCache
	return endpoint, nil
}

func (cfg DataEndpointConfig) newCache(ctx context.Context) (cache.Cache, func(), error) {
	switch cfg.cacheKind {
	case MemoryCache, "":
		return cache.NewMemoryCache(cfg.cacheSize, cfg.stableQueryTTL), func() {}, nil
	case CassandraCache:
		session, err := cache.NewGoCqlSession(cache.ClusterInfo{
			Hosts:    cfg.cacheHosts,
			Username: cfg.cacheUsername,
			Password: cfg.cachePassword,
			Timeout:  cfg.backendTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("unable to connect to the cache cluster: %s", err)
		}

		c := cache.NewCassandraCache(session, cfg.cacheKeyspace, cache.DefaultTable, cfg.stableQueryTTL)
		if err = c.EnsureSchema(ctx, nil); err != nil {
			session.Close()
			return nil, nil, fmt.Errorf("unable to create the cache table: %s", err)
		}
		return c, session.Close, nil
	default:
		return nil, nil, fmt.Errorf("invalid cache: %s", cfg.cacheKind)
	}
}

func (cfg DataEndpointConfig) newEndpointWithDb(database *db.Db, c cache.Cache) (*DataEndpoint, error) {
	registry, err := feeds.NewRegistry(database)
	if err != nil {
		return nil, err
	}

	compiler := query.NewCompiler(registry, cfg)
	executor := query.NewExecutor(database, cfg.backendTimeout, cfg.logger)
	stableQueries := stablequery.NewStableQueries(compiler, executor, c, cfg)

	return &DataEndpoint{
		db:              database,
		closeCache:      func() {},
		graphQLRouteGen: graphql.NewRouteGenerator(compiler, executor, stableQueries, cfg).WithClock(cfg.now),
		restRouteGen:    rest.NewRouteGenerator(compiler, executor, stableQueries, cfg).WithClock(cfg.now),
	}, nil
}

type DataEndpoint struct {
	db              *db.Db
	closeCache      func()
	graphQLRouteGen *graphql.RouteGenerator
	restRouteGen    *rest.RouteGenerator
}

func NewEndpointConfig(dbPath string) (*DataEndpointConfig, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewEndpointConfigWithLogger(log.NewZapLogger(logger), dbPath), nil
}

func NewEndpointConfigWithLogger(logger log.Logger, dbPath string) *DataEndpointConfig {
	return &DataEndpointConfig{
		dbPath:              dbPath,
		cacheKind:           MemoryCache,
		cacheKeyspace:       cache.DefaultKeyspace,
		cacheSize:           DefaultCacheSize,
		maxCount:            config.DefaultMaxCount,
		maxStableQueryCount: config.DefaultMaxStableQueryCount,
		stableQueryTTL:      config.DefaultStableQueryTTL,
		backendTimeout:      config.DefaultBackendTimeout,
		features:            config.DefaultFeatures,
		naming:              config.NewDefaultNaming(),
		now:                 time.Now,
		logger:              logger,
	}
}

func (e *DataEndpoint) RoutesGraphQL(pattern string) ([]types.Route, error) {
	return e.graphQLRouteGen.Routes(pattern)
}

func (e *DataEndpoint) RoutesRest(prefix string) []types.Route {
	return e.restRouteGen.Routes(prefix)
}

// Close releases the database and cache connections
func (e *DataEndpoint) Close() error {
	e.closeCache()
	return e.db.Close()
}
