package query

import (
	"github.com/datastax/feed-data-apis/db"
	"github.com/datastax/feed-data-apis/internal/testutil"
	"github.com/datastax/feed-data-apis/schema"
	"github.com/datastax/feed-data-apis/types"
)

var testNow = testutil.Now

func equalsSearch(name string) schema.Search {
	return schema.SearchOn[string](name, types.String, func(_ *schema.RequestContext, value string) db.Predicate {
		return db.Compare{Column: name, Operator: db.Eq, Value: value}
	})
}

func newTestSchema() *schema.Schema {
	s, err := schema.NewSchema(schema.Info{
		Type:  schema.FeedType,
		Table: "items",
		Fields: []schema.Field{
			schema.ColumnField("id", "id", true),
			schema.ColumnField("title", "title", true),
			schema.ColumnField("customTitle", "custom_title", false),
			schema.ColumnField("created", "created", false),
		},
		Sorts: []schema.Sort{
			schema.ColumnSort("title", "title"),
			schema.ColumnSort("calculatedTitle", "custom_title", "title"),
			schema.ColumnSort("published", "published").WithTiebreak(0, db.Desc),
			schema.ColumnSort("id", "id").WithTiebreak(1, db.Asc),
			schema.ColumnSort("url", "url").WithTiebreak(1, db.Desc),
		},
		Searches: []schema.Search{
			equalsSearch("a"),
			equalsSearch("b"),
			equalsSearch("c"),
			schema.SearchOn[int64]("n", types.Int, func(_ *schema.RequestContext, value int64) db.Predicate {
				return db.Compare{Column: "n", Operator: db.Eq, Value: value}
			}),
		},
	})
	if err != nil {
		panic(err)
	}
	return s
}

func eq(column string, value interface{}) db.Predicate {
	return db.Compare{Column: column, Operator: db.Eq, Value: value}
}
