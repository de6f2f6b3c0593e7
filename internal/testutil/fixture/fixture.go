// Package fixture provides an in-memory database holding a small feed reader dataset
package fixture

import (
	"context"

	"github.com/datastax/feed-data-apis/db"
	"github.com/datastax/feed-data-apis/internal/testutil"
)

const (
	User      = "u1"
	OtherUser = "u2"

	CategoryNews   = "00000000-0000-0000-0000-0000000000c1"
	CategoryTech   = "00000000-0000-0000-0000-0000000000c2"
	CategorySports = "00000000-0000-0000-0000-0000000000c3"

	FeedAlpha = "00000000-0000-0000-0000-0000000000f1"
	FeedBeta  = "00000000-0000-0000-0000-0000000000f2"
	FeedGamma = "00000000-0000-0000-0000-0000000000f3"

	EntryFirst    = "00000000-0000-0000-0000-0000000000e1"
	EntrySecond   = "00000000-0000-0000-0000-0000000000e2"
	EntryGenerics = "00000000-0000-0000-0000-0000000000e3"
	EntryTraits   = "00000000-0000-0000-0000-0000000000e4"
	EntryMatch    = "00000000-0000-0000-0000-0000000000e5"
)

var categories = [][]interface{}{
	{CategoryNews, User, "News", "2024-01-01 00:00:00"},
	{CategoryTech, User, "Tech", "2024-01-02 00:00:00"},
	{CategorySports, OtherUser, "Sports", "2024-01-03 00:00:00"},
}

var feeds = [][]interface{}{
	{FeedAlpha, User, CategoryNews, "https://a.example.com/rss", "Alpha News", nil, "https://a.example.com", "EN", "2024-01-01 00:00:00"},
	{FeedBeta, User, CategoryTech, "https://b.example.com/rss", "Beta Tech", "My Tech", "https://b.example.com", "DE", "2024-01-05 00:00:00"},
	{FeedGamma, OtherUser, CategorySports, "https://c.example.com/rss", "Gamma Sports", nil, nil, "EN", "2024-01-09 00:00:00"},
}

var entries = [][]interface{}{
	{EntryFirst, FeedAlpha, "First story", "https://a.example.com/1", "Alice", "one", 100, "2024-01-02 10:00:00"},
	{EntrySecond, FeedAlpha, "Second story", "https://a.example.com/2", "Bob", "two", 200, "2024-01-03 10:00:00"},
	{EntryGenerics, FeedBeta, "Go generics", "https://b.example.com/1", "Alice", "three", 300, "2024-01-04 10:00:00"},
	{EntryTraits, FeedBeta, "Rust traits", "https://b.example.com/2", "Carol", "four", 400, "2024-01-08 10:00:00"},
	{EntryMatch, FeedGamma, "Match report", "https://c.example.com/1", "Dan", "five", 500, "2024-01-09 10:00:00"},
}

var (
	categoryColumns = []string{"id", "user_id", "title", "created"}
	feedColumns     = []string{"id", "user_id", "category_id", "url", "title", "custom_title", "site_url", "language", "created"}
	entryColumns    = []string{"id", "feed_id", "title", "url", "author", "content", "content_length", "published"}
	markColumns     = []string{"user_id", "entry_id"}
)

// NewDb returns a database with the dataset loaded. User read the first and generics entries
// and starred the generics one.
func NewDb() *db.Db {
	ctx := context.Background()
	database, err := db.NewDb(":memory:")
	testutil.PanicIfError(err)
	testutil.PanicIfError(database.CreateSchema(ctx))

	insert := func(table string, columns []string, rows [][]interface{}) {
		for _, row := range rows {
			testutil.PanicIfError(database.Insert(ctx, &db.InsertInfo{Table: table, Columns: columns, QueryParams: row}))
		}
	}

	insert(db.CategoriesTable, categoryColumns, categories)
	insert(db.FeedsTable, feedColumns, feeds)
	insert(db.EntriesTable, entryColumns, entries)
	insert(db.EntryReadsTable, markColumns, [][]interface{}{{User, EntryFirst}, {User, EntryGenerics}})
	insert(db.EntryStarsTable, markColumns, [][]interface{}{{User, EntryGenerics}})
	return database
}

func InsertEntry(database *db.Db, id string, feedId string, title string, published string) {
	testutil.PanicIfError(database.Insert(context.Background(), &db.InsertInfo{
		Table:       db.EntriesTable,
		Columns:     entryColumns,
		QueryParams: []interface{}{id, feedId, title, nil, nil, nil, 0, published},
	}))
}

func DeleteEntry(database *db.Db, id string) {
	testutil.PanicIfError(database.Delete(context.Background(), &db.DeleteInfo{
		Table:       db.EntriesTable,
		Columns:     []string{db.IdentifierColumn},
		QueryParams: []interface{}{id},
	}))
}
