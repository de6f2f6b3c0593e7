package feeds

import (
	"github.com/datastax/feed-data-apis/db"
	"github.com/datastax/feed-data-apis/schema"
	"github.com/datastax/feed-data-apis/types"
)

func FeedSchema(store Store) (*schema.Schema, error) {
	return schema.NewSchema(schema.Info{
		Type:  schema.FeedType,
		Table: db.FeedsTable,
		Fields: []schema.Field{
			schema.ColumnField("id", "id", true),
			schema.ColumnField("title", "title", true),
			schema.ColumnField("customTitle", "custom_title", false),
			calculatedTitleField(),
			schema.ColumnField("url", "url", true),
			schema.ColumnField("siteUrl", "site_url", false),
			schema.ColumnField("language", "language", false),
			schema.ColumnField("categoryId", "category_id", false),
			schema.ColumnField("created", "created", false),
			groupedCountField("entryCount", store, db.EntriesTable, "feed_id"),
		},
		Sorts: []schema.Sort{
			schema.ColumnSort("title", "title"),
			// custom_title is NULL when the user kept the title of the feed
			schema.ColumnSort("calculatedTitle", "custom_title", "title"),
			schema.ColumnSort("created", "created"),
			schema.ColumnSort("url", "url"),
			schema.ColumnSort("id", "id").WithTiebreak(1, db.Asc),
		},
		Searches: []schema.Search{
			identifierSearch("id", "id"),
			containsSearch("title", "title"),
			schema.SearchOn[string]("url", types.CanonicalUrl, func(_ *schema.RequestContext, url string) db.Predicate {
				return db.Compare{Column: "url", Operator: db.Eq, Value: url}
			}),
			schema.SearchOn[[]string]("language", types.Languages, func(_ *schema.RequestContext, codes []string) db.Predicate {
				return db.In{Column: "language", Values: db.StringValues(codes)}
			}),
			identifierSearch("categoryId", "category_id"),
			ownerSearch("mine", "user_id"),
			relativeTimeSearch("created", "created"),
			timeRangeSearch("createdBetween", "created"),
		},
	})
}

func calculatedTitleField() schema.Field {
	return schema.Field{
		Name: "calculatedTitle",
		Accessor: func(_ *schema.RequestContext, record types.Record, _ *schema.BatchContext) (interface{}, error) {
			if custom, ok := record["custom_title"].(string); ok && custom != "" {
				return custom, nil
			}
			return record["title"], nil
		},
		IsDefault:       true,
		RequiredColumns: []string{"custom_title", "title"},
	}
}
