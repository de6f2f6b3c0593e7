// Package stablequery freezes the ordered identifiers matching a query behind an opaque token.
// Pages read through the token keep the membership and order captured at creation time.
package stablequery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/datastax/feed-data-apis/cache"
	"github.com/datastax/feed-data-apis/config"
	"github.com/datastax/feed-data-apis/log"
	"github.com/datastax/feed-data-apis/query"
	"github.com/datastax/feed-data-apis/schema"
	"github.com/datastax/feed-data-apis/types"
	"github.com/google/uuid"
)

type snapshot struct {
	Type string   `json:"type"`
	IDs  []string `json:"ids"`
}

type StableQueries struct {
	compiler *query.Compiler
	executor *query.Executor
	cache    cache.Cache
	timeout  time.Duration
	logger   log.Logger
	newToken func() string
}

func NewStableQueries(compiler *query.Compiler, executor *query.Executor, c cache.Cache, cfg config.Config) *StableQueries {
	return &StableQueries{
		compiler: compiler,
		executor: executor,
		cache:    c,
		timeout:  cfg.BackendTimeout(),
		logger:   cfg.Logger(),
		newToken: func() string { return uuid.New().String() },
	}
}

func (q *StableQueries) context(rc *schema.RequestContext) (context.Context, context.CancelFunc) {
	if q.timeout <= 0 {
		return context.WithCancel(rc.Context())
	}
	return context.WithTimeout(rc.Context(), q.timeout)
}

// Create captures the identifiers matching search in sort order and returns the token addressing them
func (q *StableQueries) Create(rc *schema.RequestContext, objectType schema.ObjectType, sort string, search string) (string, error) {
	spec, err := q.compiler.CompileStable(rc, objectType, sort, search)
	if err != nil {
		return "", err
	}

	ids, err := q.executor.SelectIDs(rc, spec)
	if err != nil {
		return "", err
	}

	value, err := json.Marshal(snapshot{Type: objectType.String(), IDs: ids})
	if err != nil {
		return "", err
	}

	ctx, cancel := q.context(rc)
	defer cancel()

	token := q.newToken()
	if err := q.cache.Set(ctx, token, value); err != nil {
		return "", types.NewBackendUnavailableError("stable query create", err)
	}

	q.logger.Info("stable query created", "token", token, "type", objectType.String(), "captured", len(ids))
	return token, nil
}

// Query reads a page of a stable query and renews its expiration. Unknown or expired tokens
// read as an empty snapshot. When an identifier of the page no longer resolves the page has no objects.
func (q *StableQueries) Query(rc *schema.RequestContext, objectType schema.ObjectType, options *types.StableQueryOptions) (*types.QueryResult, error) {
	skip, count, err := q.compiler.Paging(options.Skip, options.Count)
	if err != nil {
		return nil, err
	}

	s := q.compiler.Registry().Schema(objectType)
	if s == nil {
		return nil, types.NewUnknownObjectTypeError(objectType.String())
	}
	fields := query.CompileFields(options.Fields, s, rc.Features)

	ids, err := q.load(rc, objectType, options.Token)
	if err != nil {
		return nil, err
	}

	result := &types.QueryResult{}
	if options.ReturnTotalCount && rc.Features.IsEnabled(config.TotalCount) {
		total := len(ids)
		result.TotalCount = &total
	}

	if !options.ReturnObjects {
		return result, nil
	}

	result.Objects = make([]types.Object, 0)
	page := slice(ids, skip, count)
	if len(page) == 0 {
		return result, nil
	}

	records, err := q.executor.FetchByIDs(rc, s, fields, page)
	if err != nil {
		return nil, err
	}

	if len(records) < len(page) {
		q.logger.Warn("stable query page has missing objects",
			"token", options.Token, "expected", len(page), "found", len(records))
		return result, nil
	}

	if result.Objects, err = query.Project(rc, fields, records); err != nil {
		return nil, err
	}
	return result, nil
}

func (q *StableQueries) load(rc *schema.RequestContext, objectType schema.ObjectType, token string) ([]string, error) {
	if token == "" {
		return nil, nil
	}

	ctx, cancel := q.context(rc)
	defer cancel()

	if err := q.cache.Touch(ctx, token); err != nil {
		return nil, types.NewBackendUnavailableError("stable query touch", err)
	}

	value, found, err := q.cache.Get(ctx, token)
	if err != nil {
		return nil, types.NewBackendUnavailableError("stable query read", err)
	}
	if !found {
		q.logger.Debug("stable query not found", "token", token)
		return nil, nil
	}

	var snap snapshot
	if err := json.Unmarshal(value, &snap); err != nil {
		return nil, fmt.Errorf("stable query '%s' is invalid: %s", token, err)
	}

	if snap.Type != objectType.String() {
		q.logger.Debug("stable query read with another object type", "token", token, "type", objectType.String())
		return nil, nil
	}
	return snap.IDs, nil
}

func slice(ids []string, skip int, count int) []string {
	if skip >= len(ids) {
		return nil
	}
	end := skip + count
	if end > len(ids) {
		end = len(ids)
	}
	return ids[skip:end]
}
