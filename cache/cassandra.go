package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"
)

const (
	DefaultKeyspace = "feed_data_api"
	DefaultTable    = "stable_queries"
)

type QueryOptions struct {
	Consistency gocql.Consistency
}

func NewQueryOptions() *QueryOptions {
	return &QueryOptions{
		Consistency: gocql.LocalQuorum,
	}
}

func (q *QueryOptions) WithConsistency(consistency gocql.Consistency) *QueryOptions {
	q.Consistency = consistency
	return q
}

type Session interface {
	// Execute executes a statement without returning row results
	Execute(ctx context.Context, query string, options *QueryOptions, values ...interface{}) error

	// ExecuteIter executes a statement and returns the rows of the result set
	ExecuteIter(ctx context.Context, query string, options *QueryOptions, values ...interface{}) (ResultSet, error)
}

type ResultSet interface {
	Values() []map[string]interface{}
}

type goCqlResultSet struct {
	values []map[string]interface{}
}

func (r *goCqlResultSet) Values() []map[string]interface{} {
	return r.values
}

type GoCqlSession struct {
	ref *gocql.Session
}

type ClusterInfo struct {
	Hosts           []string
	Username        string
	Password        string
	LocalDataCenter string
	Timeout         time.Duration
}

// NewGoCqlSession connects to the Cassandra cluster
func NewGoCqlSession(info ClusterInfo) (*GoCqlSession, error) {
	cluster := gocql.NewCluster(info.Hosts...)

	if info.Username != "" && info.Password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: info.Username,
			Password: info.Password,
		}
	}

	if info.LocalDataCenter != "" {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(
			gocql.DCAwareRoundRobinPolicy(info.LocalDataCenter))
	} else {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	}

	if info.Timeout > 0 {
		cluster.Timeout = info.Timeout
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}

	if session == nil {
		return nil, errors.New("failed to create session")
	}

	return &GoCqlSession{ref: session}, nil
}

func (session *GoCqlSession) Close() {
	session.ref.Close()
}

func (session *GoCqlSession) Execute(ctx context.Context, query string, options *QueryOptions, values ...interface{}) error {
	_, err := session.ExecuteIter(ctx, query, options, values...)
	return err
}

func (session *GoCqlSession) ExecuteIter(ctx context.Context, query string, options *QueryOptions, values ...interface{}) (ResultSet, error) {
	q := session.ref.Query(query, values...).WithContext(ctx)
	if options != nil {
		q.Consistency(options.Consistency)
	}

	iter := q.Iter()
	rows, err := iter.SliceMap()
	if err != nil {
		return nil, err
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return &goCqlResultSet{values: rows}, nil
}

// CassandraCache stores entries in a Cassandra table, expiration relies on cell TTLs
type CassandraCache struct {
	session  Session
	keyspace string
	table    string
	ttl      time.Duration
	options  *QueryOptions
}

func NewCassandraCache(session Session, keyspace string, table string, ttl time.Duration) *CassandraCache {
	return &CassandraCache{
		session:  session,
		keyspace: keyspace,
		table:    table,
		ttl:      ttl,
		options:  NewQueryOptions(),
	}
}

func (c *CassandraCache) WithQueryOptions(options *QueryOptions) *CassandraCache {
	c.options = options
	return c
}

// EnsureSchema creates the keyspace and table used by the cache when they don't exist
func (c *CassandraCache) EnsureSchema(ctx context.Context, dcReplicas map[string]int) error {
	replication := "'class': 'SimpleStrategy', 'replication_factor': 1"
	if len(dcReplicas) > 0 {
		dcs := ""
		for name, replicas := range dcReplicas {
			dcs += fmt.Sprintf(", '%s': %d", name, replicas)
		}
		replication = "'class': 'NetworkTopologyStrategy'" + dcs
	}

	query := fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS "%s" WITH REPLICATION = { %s }`, c.keyspace, replication)
	if err := c.session.Execute(ctx, query, NewQueryOptions().WithConsistency(gocql.Any)); err != nil {
		return err
	}

	query = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s"."%s" (key text PRIMARY KEY, value blob)`, c.keyspace, c.table)
	return c.session.Execute(ctx, query, NewQueryOptions().WithConsistency(gocql.Any))
}

func (c *CassandraCache) Set(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (key, value) VALUES (?, ?) USING TTL ?`, c.keyspace, c.table)
	return c.session.Execute(ctx, query, c.options, key, value, c.ttlSeconds())
}

func (c *CassandraCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := fmt.Sprintf(`SELECT value FROM "%s"."%s" WHERE key = ?`, c.keyspace, c.table)
	result, err := c.session.ExecuteIter(ctx, query, c.options, key)
	if err != nil {
		return nil, false, err
	}

	rows := result.Values()
	if len(rows) == 0 {
		return nil, false, nil
	}

	value, ok := rows[0]["value"].([]byte)
	if !ok {
		return nil, false, fmt.Errorf("cache value for key '%s' is invalid", key)
	}
	return value, true, nil
}

// Touch rewrites the entry with a fresh TTL. Cassandra has no way to reset a TTL in place.
func (c *CassandraCache) Touch(ctx context.Context, key string) error {
	value, found, err := c.Get(ctx, key)
	if err != nil || !found {
		return err
	}
	return c.Set(ctx, key, value)
}

func (c *CassandraCache) ttlSeconds() int {
	seconds := int(c.ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
