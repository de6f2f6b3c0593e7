package feeds

import (
	"github.com/datastax/feed-data-apis/db"
	"github.com/datastax/feed-data-apis/schema"
	"github.com/datastax/feed-data-apis/types"
)

func EntrySchema(store Store) (*schema.Schema, error) {
	return schema.NewSchema(schema.Info{
		Type:  schema.EntryType,
		Table: db.EntriesTable,
		Fields: []schema.Field{
			schema.ColumnField("id", "id", true),
			schema.ColumnField("feedId", "feed_id", true),
			schema.ColumnField("title", "title", true),
			schema.ColumnField("url", "url", true),
			schema.ColumnField("author", "author", false),
			schema.ColumnField("content", "content", false),
			schema.ColumnField("contentLength", "content_length", false),
			schema.ColumnField("published", "published", true),
			userMarkField("read", store, db.EntryReadsTable),
			userMarkField("starred", store, db.EntryStarsTable),
		},
		Sorts: []schema.Sort{
			schema.ColumnSort("published", "published").WithTiebreak(0, db.Desc),
			schema.ColumnSort("title", "title"),
			schema.ColumnSort("feedId", "feed_id"),
			schema.ColumnSort("id", "id").WithTiebreak(1, db.Asc),
		},
		Searches: []schema.Search{
			identifierSearch("id", "id"),
			identifierSearch("feedId", "feed_id"),
			containsSearch("title", "title"),
			containsSearch("author", "author"),
			userMarkSearch("read", db.EntryReadsTable),
			userMarkSearch("starred", db.EntryStarsTable),
			relativeTimeSearch("published", "published"),
			timeRangeSearch("publishedBetween", "published"),
			intRangeSearch("contentLength", "content_length"),
		},
	})
}

func userMarks(table string, user string) db.InSelect {
	return db.InSelect{
		Column:       "id",
		Table:        table,
		SelectColumn: "entry_id",
		Where:        db.Compare{Column: "user_id", Operator: db.Eq, Value: user},
	}
}

// userMarkSearch matches the entries marked, or not marked, by the user of the request
func userMarkSearch(name string, table string) schema.Search {
	return schema.SearchOn[bool](name, types.Bool, func(rc *schema.RequestContext, marked bool) db.Predicate {
		if marked {
			return userMarks(table, rc.User)
		}
		return db.NewNot(userMarks(table, rc.User))
	})
}

func userMarkField(name string, store Store, table string) schema.Field {
	return schema.Field{
		Name: name,
		Accessor: func(rc *schema.RequestContext, record types.Record, batch *schema.BatchContext) (interface{}, error) {
			if rc.User == "" {
				return false, nil
			}
			marked, err := batch.Load(name, func([]types.Record) (interface{}, error) {
				rows, err := store.Select(rc.Context(), &db.SelectInfo{
					Table:   table,
					Columns: []string{"entry_id"},
					Where: db.NewAnd(
						db.Compare{Column: "user_id", Operator: db.Eq, Value: rc.User},
						db.In{Column: "entry_id", Values: db.StringValues(batch.Keys(db.IdentifierColumn))}),
				})
				if err != nil {
					return nil, err
				}
				ids := make(map[string]bool, len(rows))
				for _, row := range rows {
					if id, ok := row["entry_id"].(string); ok {
						ids[id] = true
					}
				}
				return ids, nil
			})
			if err != nil {
				return nil, err
			}
			id, _ := record[db.IdentifierColumn].(string)
			return marked.(map[string]bool)[id], nil
		},
		RequiredColumns: []string{db.IdentifierColumn},
	}
}
