package db

import (
	"context"
	"fmt"
	"strings"
)

const (
	CategoriesTable  = "categories"
	FeedsTable       = "feeds"
	EntriesTable     = "entries"
	EntryReadsTable  = "entry_reads"
	EntryStarsTable  = "entry_stars"
	IdentifierColumn = "id"
)

type ColumnDefinition struct {
	Name string
	Type string
}

type CreateTableInfo struct {
	Table       string
	PrimaryKeys []ColumnDefinition
	Values      []ColumnDefinition
}

var tables = []CreateTableInfo{
	{
		Table:       CategoriesTable,
		PrimaryKeys: []ColumnDefinition{{"id", "TEXT"}},
		Values: []ColumnDefinition{
			{"user_id", "TEXT NOT NULL"},
			{"title", "TEXT NOT NULL"},
			{"created", "TEXT NOT NULL"},
		},
	},
	{
		Table:       FeedsTable,
		PrimaryKeys: []ColumnDefinition{{"id", "TEXT"}},
		Values: []ColumnDefinition{
			{"user_id", "TEXT NOT NULL"},
			{"category_id", "TEXT"},
			{"url", "TEXT NOT NULL"},
			{"title", "TEXT NOT NULL"},
			{"custom_title", "TEXT"},
			{"site_url", "TEXT"},
			{"language", "TEXT"},
			{"created", "TEXT NOT NULL"},
		},
	},
	{
		Table:       EntriesTable,
		PrimaryKeys: []ColumnDefinition{{"id", "TEXT"}},
		Values: []ColumnDefinition{
			{"feed_id", "TEXT NOT NULL"},
			{"title", "TEXT NOT NULL"},
			{"url", "TEXT"},
			{"author", "TEXT"},
			{"content", "TEXT"},
			{"content_length", "INTEGER NOT NULL DEFAULT 0"},
			{"published", "TEXT NOT NULL"},
		},
	},
	{
		Table:       EntryReadsTable,
		PrimaryKeys: []ColumnDefinition{{"user_id", "TEXT"}, {"entry_id", "TEXT"}},
	},
	{
		Table:       EntryStarsTable,
		PrimaryKeys: []ColumnDefinition{{"user_id", "TEXT"}, {"entry_id", "TEXT"}},
	},
}

func (db *Db) CreateTable(ctx context.Context, info *CreateTableInfo) error {
	columns := ""
	primaryKeys := ""

	for _, c := range info.PrimaryKeys {
		columns += fmt.Sprintf(`%s %s, `, c.Name, c.Type)
		primaryKeys += fmt.Sprintf(`, %s`, c.Name)
	}

	for _, c := range info.Values {
		columns += fmt.Sprintf(`%s %s, `, c.Name, c.Type)
	}

	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (%sPRIMARY KEY (%s))`, info.Table, columns, primaryKeys[2:])
	return db.session.Execute(ctx, query)
}

// CreateSchema creates the feed tables when they don't exist
func (db *Db) CreateSchema(ctx context.Context) error {
	for i := range tables {
		if err := db.CreateTable(ctx, &tables[i]); err != nil {
			return fmt.Errorf("unable to create table %s: %s", tables[i].Table, err)
		}
	}
	return nil
}

// CountGrouped counts the rows of table per value of groupColumn, restricted to the provided keys
func (db *Db) CountGrouped(ctx context.Context, table string, groupColumn string, keys []string) (map[string]int, error) {
	result := make(map[string]int, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	values := StringValues(keys)
	query := fmt.Sprintf("SELECT %s AS grp, COUNT(*) AS total FROM %s WHERE %s IN (%s) GROUP BY %s",
		groupColumn, table, groupColumn, strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", "), groupColumn)

	rows, err := db.session.Query(ctx, query, values...)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		key, _ := row["grp"].(string)
		total, _ := row["total"].(int64)
		result[key] = int(total)
	}
	return result, nil
}
