package query

import (
	"context"
	"time"

	"github.com/datastax/feed-data-apis/db"
	"github.com/datastax/feed-data-apis/log"
	"github.com/datastax/feed-data-apis/schema"
	"github.com/datastax/feed-data-apis/types"
)

// Backend is the storage needed to run compiled queries, implemented by db.Db
type Backend interface {
	Select(ctx context.Context, info *db.SelectInfo) ([]types.Record, error)
	Count(ctx context.Context, table string, where db.Predicate) (int, error)
	SelectIDs(ctx context.Context, idColumn string, info *db.SelectInfo) ([]string, error)
	FetchByIDs(ctx context.Context, table string, idColumn string, columns []string, ids []string) ([]types.Record, error)
}

type Executor struct {
	backend Backend
	timeout time.Duration
	logger  log.Logger
}

func NewExecutor(backend Backend, timeout time.Duration, logger log.Logger) *Executor {
	return &Executor{backend: backend, timeout: timeout, logger: logger}
}

func (e *Executor) context(rc *schema.RequestContext) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return context.WithCancel(rc.Context())
	}
	return context.WithTimeout(rc.Context(), e.timeout)
}

// Execute runs spec and returns the requested objects and total count
func (e *Executor) Execute(rc *schema.RequestContext, spec *QuerySpec) (*types.QueryResult, error) {
	ctx, cancel := e.context(rc)
	defer cancel()

	result := &types.QueryResult{}
	if spec.ReturnObjects {
		result.Objects = make([]types.Object, 0)
		if spec.Count > 0 {
			records, err := e.backend.Select(ctx, &db.SelectInfo{
				Table:   spec.Schema.Table(),
				Columns: spec.Schema.Columns(spec.Fields),
				Where:   spec.Predicate,
				OrderBy: spec.Order,
				Skip:    spec.Skip,
				Limit:   spec.Count,
			})
			if err != nil {
				return nil, types.NewBackendUnavailableError("select", err)
			}
			if result.Objects, err = Project(rc, spec.Fields, records); err != nil {
				return nil, err
			}
		}
	}

	if spec.ReturnTotalCount {
		total, err := e.backend.Count(ctx, spec.Schema.Table(), spec.Predicate)
		if err != nil {
			return nil, types.NewBackendUnavailableError("count", err)
		}
		result.TotalCount = &total
	}

	e.logger.Debug("query executed",
		"type", spec.Schema.Type().String(),
		"predicate", db.Describe(spec.Predicate),
		"skip", spec.Skip,
		"count", spec.Count)
	return result, nil
}

// SelectIDs returns the ordered identifiers matching spec, at most spec.Count of them
func (e *Executor) SelectIDs(rc *schema.RequestContext, spec *QuerySpec) ([]string, error) {
	// A zero limit means no limit to the backend
	if spec.Count <= 0 {
		return []string{}, nil
	}

	ctx, cancel := e.context(rc)
	defer cancel()

	ids, err := e.backend.SelectIDs(ctx, spec.Schema.IdColumn(), &db.SelectInfo{
		Table:   spec.Schema.Table(),
		Where:   spec.Predicate,
		OrderBy: spec.Order,
		Limit:   spec.Count,
	})
	if err != nil {
		return nil, types.NewBackendUnavailableError("select identifiers", err)
	}
	return ids, nil
}

// FetchByIDs returns the records still existing for ids, ordered like ids
func (e *Executor) FetchByIDs(rc *schema.RequestContext, s *schema.Schema, fields []schema.Field, ids []string) ([]types.Record, error) {
	ctx, cancel := e.context(rc)
	defer cancel()

	records, err := e.backend.FetchByIDs(ctx, s.Table(), s.IdColumn(), s.Columns(fields), ids)
	if err != nil {
		return nil, types.NewBackendUnavailableError("fetch by identifiers", err)
	}

	byId := make(map[string]types.Record, len(records))
	for _, record := range records {
		if id, ok := record[s.IdColumn()].(string); ok {
			byId[id] = record
		}
	}

	ordered := make([]types.Record, 0, len(records))
	for _, id := range ids {
		if record, ok := byId[id]; ok {
			ordered = append(ordered, record)
		}
	}
	return ordered, nil
}

// Project applies the field accessors to each record, sharing one batch context among them
func Project(rc *schema.RequestContext, fields []schema.Field, records []types.Record) ([]types.Object, error) {
	batch := schema.NewBatchContext(records)
	objects := make([]types.Object, 0, len(records))
	for _, record := range records {
		object := make(types.Object, len(fields))
		for _, field := range fields {
			value, err := field.Accessor(rc, record, batch)
			if err != nil {
				return nil, types.NewBackendUnavailableError("project "+field.Name, err)
			}
			object[field.Name] = value
		}
		objects = append(objects, object)
	}
	return objects, nil
}
