package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	log2 "log"
	"net/http"
	"os"
	"strings"

	"github.com/datastax/feed-data-apis/auth"
	"github.com/datastax/feed-data-apis/cache"
	"github.com/datastax/feed-data-apis/config"
	"github.com/datastax/feed-data-apis/endpoint"
	"github.com/datastax/feed-data-apis/graphql"
	"github.com/datastax/feed-data-apis/log"
	"github.com/datastax/feed-data-apis/rest"
	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultGraphQLPath = "/graphql"
const defaultRESTPath = "/rest"
const defaultGraphQLPlaygroundPath = "/graphql-playground"

// Environment variables prefixed with "FEED_API_" can override settings e.g. "FEED_API_DB_PATH"
const envVarPrefix = "feed_api"

var cfgFile string
var logger log.Logger

var serverCmd = &cobra.Command{
	Use:   os.Args[0] + " --db-path [PATH] [--start-graphql] [--start-rest] [OPTIONS]",
	Short: "GraphQL and REST query endpoints for a feed reader",
	Args: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("db-path") == "" {
			return errors.New("db-path is required")
		}

		startGraphQL := viper.GetBool("start-graphql")
		startREST := viper.GetBool("start-rest")

		if !startGraphQL && !startREST {
			return errors.New("at least one endpoint type should be started")
		}

		if startGraphQL && startREST && viper.GetString("graphql-path") == viper.GetString("rest-path") {
			return errors.New("graphql and rest paths can not be the same")
		}

		if viper.GetString("cache") == endpoint.CassandraCache && len(getStringSlice("cache-hosts")) == 0 {
			return errors.New("cache-hosts are required when using the cassandra cache")
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		endpoint := createEndpoint()
		defer endpoint.Close()

		router := createRouter()
		endpointNames := ""
		if viper.GetBool("start-graphql") {
			addGraphQLRoutes(router, endpoint)
			endpointNames += "GraphQL"
		}
		if viper.GetBool("start-rest") {
			rest.Mount(router, endpoint.RoutesRest(viper.GetString("rest-path"))...)
			if endpointNames != "" {
				endpointNames += "/"
			}
			endpointNames += "REST"
		}

		listenAndServe(router, viper.GetInt("port"), endpointNames)
	},
}

// Execute start GraphQL/REST endpoints
func Execute() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log2.Fatalf("unable to initialize logger: %v", err)
	}

	logger = log.NewZapLogger(zapLogger)

	flags := serverCmd.PersistentFlags()

	// General endpoint flags
	flags.StringVarP(&cfgFile, "config", "c", "", "config file")
	flags.String("db-path", "", "path of the SQLite database file holding the feeds")
	flags.Int("port", 8080, "endpoint port")
	flags.Bool("request-logging", false, "enable request logging")
	flags.String("access-control-allow-origin", "", "Access-Control-Allow-Origin header value")

	// Query flags
	flags.Int("max-count", config.DefaultMaxCount, "maximum number of objects returned by a query page")
	flags.Int("max-stable-query-count", config.DefaultMaxStableQueryCount, "maximum number of identifiers captured by a stable query")
	flags.Duration("stable-query-ttl", config.DefaultStableQueryTTL, "duration a stable query is kept after its last read")
	flags.Duration("backend-timeout", config.DefaultBackendTimeout, "timeout of database and cache operations")
	flags.StringSlice("features", []string{
		"DefaultSort",
		"TotalCount",
	}, "list of enabled query features. options: AllFields,DefaultSort,TotalCount")

	// Stable query cache flags
	flags.String("cache", endpoint.MemoryCache, "stable query cache. options: memory,cassandra")
	flags.StringSlice("cache-hosts", nil, "hosts of the Cassandra cluster used as stable query cache")
	flags.String("cache-username", "", "Cassandra cache username")
	flags.String("cache-password", "", "Cassandra cache user's password")
	flags.String("cache-keyspace", cache.DefaultKeyspace, "keyspace of the Cassandra cache table")
	flags.Int("cache-size", endpoint.DefaultCacheSize, "maximum number of stable queries kept by the memory cache")

	// GraphQL specific flags
	flags.Bool("start-graphql", true, "start the GraphQL endpoint")
	flags.String("graphql-path", defaultGraphQLPath, "GraphQL endpoint path")
	flags.Bool("graphql-playground", true, "expose a GraphQL playground route")
	flags.String("graphql-playground-path", defaultGraphQLPlaygroundPath, "path for the GraphQL playground static file")

	// REST specific flags
	flags.Bool("start-rest", false, "start the REST endpoint")
	flags.String("rest-path", defaultRESTPath, "REST endpoint path")

	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Name != "config" {
			_ = viper.BindPFlag(flag.Name, flags.Lookup(flag.Name))
		}
	})

	cobra.OnInitialize(initialize)

	viper.SetEnvPrefix(envVarPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := serverCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createEndpoint() *endpoint.DataEndpoint {
	featureNames := getStringSlice("features")
	features, err := config.ParseFeatures(featureNames...)
	if err != nil {
		logger.Fatal("invalid query feature", "features", featureNames, "error", err)
	}

	cfg := endpoint.NewEndpointConfigWithLogger(logger, viper.GetString("db-path"))
	cfg.
		WithMaxCount(viper.GetInt("max-count")).
		WithMaxStableQueryCount(viper.GetInt("max-stable-query-count")).
		WithStableQueryTTL(viper.GetDuration("stable-query-ttl")).
		WithBackendTimeout(viper.GetDuration("backend-timeout")).
		WithFeatures(features).
		WithCache(viper.GetString("cache")).
		WithCacheHosts(getStringSlice("cache-hosts")).
		WithCacheUsername(viper.GetString("cache-username")).
		WithCachePassword(viper.GetString("cache-password")).
		WithCacheKeyspace(viper.GetString("cache-keyspace")).
		WithCacheSize(viper.GetInt("cache-size"))

	endpoint, err := cfg.NewEndpoint()
	if err != nil {
		logger.Fatal("unable create new endpoint",
			"error", err)
	}

	return endpoint
}

func addGraphQLRoutes(router *httprouter.Router, endpoint *endpoint.DataEndpoint) {
	rootPath := viper.GetString("graphql-path")
	routes, err := endpoint.RoutesGraphQL(rootPath)
	if err != nil {
		logger.Fatal("unable to generate graphql routes",
			"error", err)
	}

	if viper.GetBool("graphql-playground") {
		playgroundPath := viper.GetString("graphql-playground-path")
		hostAndPort := fmt.Sprintf("http://localhost:%d", viper.GetInt("port"))
		logger.Info("get started by visiting the GraphQL playground",
			"url", fmt.Sprintf("%s%s", hostAndPort, playgroundPath))
		routes = append(routes, graphql.PlaygroundRoute(playgroundPath, hostAndPort+rootPath))
	}

	rest.Mount(router, routes...)
}

func maybeAddRequestLogging(handler http.Handler) http.Handler {
	if viper.GetBool("request-logging") {
		handler = log.NewLoggingHandler(handler, logger)
	}
	return handler
}

func maybeAddCORS(handler http.Handler) http.Handler {
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", value)
			handler.ServeHTTP(w, r)
		})
	}
	return handler
}

func initialize() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil {
			logger.Info("using config file",
				"file", viper.ConfigFileUsed())
		}
	}
}

func createRouter() *httprouter.Router {
	router := rest.ApiRouter()
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		router.GlobalOPTIONS = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Access-Control-Request-Method") != "" {
				header := w.Header()
				header.Set("Access-Control-Allow-Method", r.Header.Get("Access-Control-Request-Method"))
				header.Set("Access-Control-Allow-Headers", r.Header.Get("Access-Control-Request-Headers"))
				header.Set("Access-Control-Allow-Origin", value)
			}

			w.WriteHeader(http.StatusNoContent)
		})
	}
	return router
}

func listenAndServe(handler http.Handler, port int, endpointNames string) {
	logger.Info("server listening",
		"port", port,
		"type", endpointNames)
	handler = maybeAddCORS(maybeAddRequestLogging(auth.Handler(handler)))
	err := http.ListenAndServe(fmt.Sprintf(":%d", port), handler)
	if err != nil {
		logger.Fatal("unable to start server",
			"port", port,
			"error", err)
	}
}

func getStringSlice(key string) []string {
	value := viper.GetStringSlice(key)
	slice, err := toStringSlice(value)
	if err != nil {
		logger.Fatal("invalid string slice value for setting",
			"error", err,
			"key", key,
			"value", value)
	}
	return slice
}

func toStringSlice(slice []string) ([]string, error) {
	result := make([]string, 0)
	for _, entry := range slice {
		stringReader := strings.NewReader(entry)
		csvReader := csv.NewReader(stringReader)
		split, err := csvReader.Read()
		if err != nil {
			return nil, err
		}
		for _, part := range split {
			if part != "" { // Don't add empty values
				result = append(result, part)
			}
		}
	}
	return result, nil
}
