package schema

import (
	"errors"

	"github.com/datastax/feed-data-apis/db"
	"github.com/datastax/feed-data-apis/types"
)

type Accessor func(rc *RequestContext, record types.Record, batch *BatchContext) (interface{}, error)

type Field struct {
	Name      string
	Accessor  Accessor
	IsDefault bool
	// RequiredColumns are the storage columns read by Accessor
	RequiredColumns []string
}

// ColumnField returns a field reading a single column as is
func ColumnField(name string, column string, isDefault bool) Field {
	return Field{
		Name: name,
		Accessor: func(_ *RequestContext, record types.Record, _ *BatchContext) (interface{}, error) {
			return record[column], nil
		},
		IsDefault:       isDefault,
		RequiredColumns: []string{column},
	}
}

type OrderKeyBuilder func(direction db.Direction) db.OrderKey

// ColumnOrder builds an order key on column using the requested direction
func ColumnOrder(column string) OrderKeyBuilder {
	return func(direction db.Direction) db.OrderKey {
		return db.OrderKey{Column: column, Direction: direction}
	}
}

type Tiebreak struct {
	Rank      int
	Direction db.Direction
}

type Sort struct {
	Name             string
	OrderKeyBuilders []OrderKeyBuilder
	DefaultTiebreak  *Tiebreak
}

// ColumnSort returns a sort ordering by each column in turn
func ColumnSort(name string, columns ...string) Sort {
	builders := make([]OrderKeyBuilder, 0, len(columns))
	for _, column := range columns {
		builders = append(builders, ColumnOrder(column))
	}
	return Sort{Name: name, OrderKeyBuilders: builders}
}

func (s Sort) WithTiebreak(rank int, direction db.Direction) Sort {
	s.DefaultTiebreak = &Tiebreak{Rank: rank, Direction: direction}
	return s
}

// OrderKeys expands the sort into its physical order keys
func (s Sort) OrderKeys(direction db.Direction) []db.OrderKey {
	keys := make([]db.OrderKey, 0, len(s.OrderKeyBuilders))
	for _, builder := range s.OrderKeyBuilders {
		keys = append(keys, builder(direction))
	}
	return keys
}

type PredicateBuilder func(rc *RequestContext, value string) (db.Predicate, error)

type Search struct {
	Name             string
	PredicateBuilder PredicateBuilder
}

// SearchWith returns a search converting the raw value with a converter depending on the request
func SearchWith[T any](name string, convert func(rc *RequestContext, value string) (T, error),
	build func(rc *RequestContext, value T) db.Predicate) Search {
	return Search{
		Name: name,
		PredicateBuilder: func(rc *RequestContext, value string) (db.Predicate, error) {
			converted, err := convert(rc, value)
			if err != nil {
				var valueErr *types.SearchValueError
				if errors.As(err, &valueErr) {
					return nil, err
				}
				return nil, types.NewSearchValueError(name, err)
			}
			return build(rc, converted), nil
		},
	}
}

// SearchOn returns a search converting the raw value with convert before building the predicate
func SearchOn[T any](name string, convert types.Converter[T], build func(rc *RequestContext, value T) db.Predicate) Search {
	return SearchWith[T](name, func(_ *RequestContext, value string) (T, error) {
		return convert(value)
	}, build)
}
