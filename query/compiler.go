package query

import (
	"strings"

	"github.com/datastax/feed-data-apis/config"
	"github.com/datastax/feed-data-apis/db"
	"github.com/datastax/feed-data-apis/schema"
	"github.com/datastax/feed-data-apis/types"
)

// QuerySpec is a compiled query, it is built for a single request and never modified
type QuerySpec struct {
	Schema           *schema.Schema
	Fields           []schema.Field
	Order            []db.OrderKey
	Predicate        db.Predicate
	Skip             int
	Count            int
	ReturnObjects    bool
	ReturnTotalCount bool
}

type Compiler struct {
	registry            *schema.Registry
	maxCount            int
	maxStableQueryCount int
}

func NewCompiler(registry *schema.Registry, cfg config.Config) *Compiler {
	return &Compiler{
		registry:            registry,
		maxCount:            cfg.MaxCount(),
		maxStableQueryCount: cfg.MaxStableQueryCount(),
	}
}

func (c *Compiler) Registry() *schema.Registry {
	return c.registry
}

func (c *Compiler) MaxCount() int {
	return c.maxCount
}

// Compile builds the spec of a query. Count is clamped to the maximum page size.
func (c *Compiler) Compile(rc *schema.RequestContext, objectType schema.ObjectType, options *types.QueryOptions) (*QuerySpec, error) {
	skip, count, err := c.paging(options.Skip, options.Count, c.maxCount)
	if err != nil {
		return nil, err
	}

	spec, err := c.compileSelection(rc, objectType, options.Sort, options.Search)
	if err != nil {
		return nil, err
	}

	spec.Fields = CompileFields(options.Fields, spec.Schema, rc.Features)
	spec.Skip = skip
	spec.Count = count
	spec.ReturnObjects = options.ReturnObjects
	spec.ReturnTotalCount = options.ReturnTotalCount && rc.Features.IsEnabled(config.TotalCount)
	return spec, nil
}

// CompileStable builds the spec used to capture the identifiers of a stable query
func (c *Compiler) CompileStable(rc *schema.RequestContext, objectType schema.ObjectType, sort string, search string) (*QuerySpec, error) {
	spec, err := c.compileSelection(rc, objectType, sort, search)
	if err != nil {
		return nil, err
	}
	spec.Count = c.maxStableQueryCount
	return spec, nil
}

// Paging validates skip and count against an upper bound on count
func (c *Compiler) Paging(skip int, count int) (int, int, error) {
	return c.paging(skip, count, c.maxCount)
}

func (c *Compiler) paging(skip int, count int, maxCount int) (int, int, error) {
	if skip < 0 {
		return 0, 0, types.NewConversionError("skip", "skip must not be negative")
	}
	if count < 0 {
		return 0, 0, types.NewConversionError("count", "count must not be negative")
	}
	if count > maxCount {
		count = maxCount
	}
	return skip, count, nil
}

func (c *Compiler) compileSelection(rc *schema.RequestContext, objectType schema.ObjectType, sort string, search string) (*QuerySpec, error) {
	s := c.registry.Schema(objectType)
	if s == nil {
		return nil, types.NewUnknownObjectTypeError(objectType.String())
	}

	var predicate db.Predicate
	if strings.TrimSpace(search) != "" {
		var err error
		if predicate, err = CompileSearch(search, s, rc); err != nil {
			return nil, err
		}
	}

	order, err := CompileSort(sort, s, rc.Features.IsEnabled(config.DefaultSort))
	if err != nil {
		return nil, err
	}

	return &QuerySpec{
		Schema:    s,
		Fields:    s.DefaultFields(),
		Order:     order,
		Predicate: predicate,
	}, nil
}
