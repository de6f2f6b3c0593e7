package feeds

import (
	"github.com/datastax/feed-data-apis/db"
	"github.com/datastax/feed-data-apis/schema"
	"github.com/datastax/feed-data-apis/types"
)

func CategorySchema(store Store) (*schema.Schema, error) {
	return schema.NewSchema(schema.Info{
		Type:  schema.CategoryType,
		Table: db.CategoriesTable,
		Fields: []schema.Field{
			schema.ColumnField("id", "id", true),
			schema.ColumnField("title", "title", true),
			schema.ColumnField("created", "created", false),
			groupedCountField("feedCount", store, db.FeedsTable, "category_id"),
		},
		Sorts: []schema.Sort{
			schema.ColumnSort("title", "title"),
			schema.ColumnSort("created", "created"),
			schema.ColumnSort("id", "id").WithTiebreak(1, db.Asc),
		},
		Searches: []schema.Search{
			identifierSearch("id", "id"),
			containsSearch("title", "title"),
			ownerSearch("mine", "user_id"),
			schema.SearchOn[types.Range[int64]]("feedCount", types.IntRange, func(_ *schema.RequestContext, r types.Range[int64]) db.Predicate {
				return db.RelatedCount{
					Table:         db.CategoriesTable,
					Column:        "id",
					RelatedTable:  db.FeedsTable,
					RelatedColumn: "category_id",
					Min:           r.Min,
					Max:           r.Max,
				}
			}),
		},
	})
}
