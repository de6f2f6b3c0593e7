package schema

import (
	"context"
	"sync"
	"time"

	"github.com/datastax/feed-data-apis/auth"
	"github.com/datastax/feed-data-apis/config"
	"github.com/datastax/feed-data-apis/types"
)

// RequestContext is what compilation and projection know about the request being served
type RequestContext struct {
	ctx      context.Context
	User     string
	Now      time.Time
	Features config.Features
}

// NewRequestContext reads the principal from ctx
func NewRequestContext(ctx context.Context, now time.Time, features config.Features) *RequestContext {
	return &RequestContext{
		ctx:      ctx,
		User:     auth.ContextUser(ctx),
		// Timestamps are stored with a precision of one second
		Now:      now.Truncate(time.Second),
		Features: features,
	}
}

func (rc *RequestContext) Context() context.Context {
	if rc.ctx == nil {
		return context.Background()
	}
	return rc.ctx
}

// BatchContext is created for a page of records and shared by the accessors projecting it.
// Values computed once for the whole page, like grouped counts, are memoized by key.
type BatchContext struct {
	Records []types.Record
	mu      sync.Mutex
	values  map[string]interface{}
}

func NewBatchContext(records []types.Record) *BatchContext {
	return &BatchContext{
		Records: records,
		values:  make(map[string]interface{}),
	}
}

// Load returns the value stored under key, computing it with fn the first time
func (b *BatchContext) Load(key string, fn func(records []types.Record) (interface{}, error)) (interface{}, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if value, ok := b.values[key]; ok {
		return value, nil
	}
	value, err := fn(b.Records)
	if err != nil {
		return nil, err
	}
	b.values[key] = value
	return value, nil
}

// Keys returns the distinct string values of column, in record order
func (b *BatchContext) Keys(column string) []string {
	seen := make(map[string]bool, len(b.Records))
	keys := make([]string, 0, len(b.Records))
	for _, record := range b.Records {
		if key, ok := record[column].(string); ok && !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}
