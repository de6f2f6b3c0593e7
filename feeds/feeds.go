// Package feeds declares the schemas of the feed reader objects: categories, feeds and entries
package feeds

import (
	"context"
	"time"

	"github.com/datastax/feed-data-apis/db"
	"github.com/datastax/feed-data-apis/schema"
	"github.com/datastax/feed-data-apis/types"
)

// Store is the storage used by the fields computed for a whole page
type Store interface {
	Select(ctx context.Context, info *db.SelectInfo) ([]types.Record, error)
	CountGrouped(ctx context.Context, table string, groupColumn string, keys []string) (map[string]int, error)
}

// NewRegistry returns the registry holding the schemas of every object type
func NewRegistry(store Store) (*schema.Registry, error) {
	categories, err := CategorySchema(store)
	if err != nil {
		return nil, err
	}
	feeds, err := FeedSchema(store)
	if err != nil {
		return nil, err
	}
	entries, err := EntrySchema(store)
	if err != nil {
		return nil, err
	}
	return schema.NewRegistry(categories, feeds, entries)
}

func identifierSearch(name string, column string) schema.Search {
	return schema.SearchOn[[]string](name, types.IdentifierList, func(_ *schema.RequestContext, ids []string) db.Predicate {
		return db.In{Column: column, Values: db.StringValues(ids)}
	})
}

// ownerSearch restricts a collection to the rows owned by the calling user, or to the others
func ownerSearch(name string, column string) schema.Search {
	return schema.SearchOn[bool](name, types.Bool, func(rc *schema.RequestContext, mine bool) db.Predicate {
		if mine {
			return db.Compare{Column: column, Operator: db.Eq, Value: rc.User}
		}
		return db.Compare{Column: column, Operator: db.NotEq, Value: rc.User}
	})
}

func containsSearch(name string, column string) schema.Search {
	return schema.SearchOn[string](name, types.String, func(_ *schema.RequestContext, value string) db.Predicate {
		return db.Like{Column: column, Pattern: db.ContainsPattern(value)}
	})
}

func relativeTimeSearch(name string, column string) schema.Search {
	convert := func(rc *schema.RequestContext, value string) (types.Range[time.Time], error) {
		return types.RelativeTimeRange(value, rc.Now)
	}
	return schema.SearchWith[types.Range[time.Time]](name, convert, timeRangePredicate(column))
}

func timeRangeSearch(name string, column string) schema.Search {
	return schema.SearchOn[types.Range[time.Time]](name, types.TimestampRange, timeRangePredicate(column))
}

func timeRangePredicate(column string) func(*schema.RequestContext, types.Range[time.Time]) db.Predicate {
	return func(_ *schema.RequestContext, r types.Range[time.Time]) db.Predicate {
		return db.Between{Column: column, Min: r.Min, Max: r.Max, MinExclusive: r.MinExclusive, MaxExclusive: r.MaxExclusive}
	}
}

func intRangeSearch(name string, column string) schema.Search {
	return schema.SearchOn[types.Range[int64]](name, types.IntRange, func(_ *schema.RequestContext, r types.Range[int64]) db.Predicate {
		return db.Between{Column: column, Min: r.Min, Max: r.Max, MinExclusive: r.MinExclusive, MaxExclusive: r.MaxExclusive}
	})
}

// groupedCountField counts the rows of table referencing each object of the page
func groupedCountField(name string, store Store, table string, groupColumn string) schema.Field {
	return schema.Field{
		Name: name,
		Accessor: func(rc *schema.RequestContext, record types.Record, batch *schema.BatchContext) (interface{}, error) {
			counts, err := batch.Load(name, func([]types.Record) (interface{}, error) {
				return store.CountGrouped(rc.Context(), table, groupColumn, batch.Keys(db.IdentifierColumn))
			})
			if err != nil {
				return nil, err
			}
			id, _ := record[db.IdentifierColumn].(string)
			return counts.(map[string]int)[id], nil
		},
		RequiredColumns: []string{db.IdentifierColumn},
	}
}
