package config

import (
	"time"

	"github.com/datastax/feed-data-apis/log"
)

type Config interface {
	Logger() log.Logger
	// MaxCount is the upper bound of the number of objects returned by a single page
	MaxCount() int
	// MaxStableQueryCount is the upper bound of identifiers captured by a stable query
	MaxStableQueryCount() int
	StableQueryTTL() time.Duration
	BackendTimeout() time.Duration
	Features() Features
	Naming() NamingConvention
}

const (
	DefaultMaxCount            = 100
	DefaultMaxStableQueryCount = 10000
	DefaultStableQueryTTL      = time.Hour
	DefaultBackendTimeout      = 10 * time.Second
)
