package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/datastax/feed-data-apis/types"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSelectGeneration(t *testing.T) {
	published := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	items := []struct {
		info        *SelectInfo
		query       string
		queryParams []interface{}
	}{
		{&SelectInfo{Table: "feeds"}, "SELECT * FROM feeds", []interface{}{}},
		{&SelectInfo{Table: "feeds", Columns: []string{"id", "title"}, Where: Compare{"title", Eq, "a"}},
			"SELECT id, title FROM feeds WHERE title = ?", []interface{}{"a"}},
		{&SelectInfo{
			Table:   "feeds",
			Columns: []string{"id"},
			Where:   NewOr(Compare{"a", Eq, 1}, NewAnd(Compare{"b", Gt, 2}, NewNot(Compare{"c", Lte, 3}))),
		}, "SELECT id FROM feeds WHERE (a = ? OR (b > ? AND (c <= ?) IS NOT 1))", []interface{}{1, 2, 3}},
		{&SelectInfo{Table: "feeds", Where: In{"id", []interface{}{"x", "y"}}},
			"SELECT * FROM feeds WHERE id IN (?, ?)", []interface{}{"x", "y"}},
		{&SelectInfo{Table: "feeds", Where: In{"id", nil}},
			"SELECT * FROM feeds WHERE 0 = 1", []interface{}{}},
		{&SelectInfo{Table: "entries", Where: Between{Column: "published", Min: types.MinTime, Max: published}},
			"SELECT * FROM entries WHERE (published >= ? AND published <= ?)",
			[]interface{}{"0001-01-01 00:00:00", "2024-01-08 00:00:00"}},
		{&SelectInfo{Table: "entries", Where: Between{Column: "published", Min: published, Max: types.MaxTime, MinExclusive: true}},
			"SELECT * FROM entries WHERE (published > ? AND published <= ?)",
			[]interface{}{"2024-01-08 00:00:00", "9999-12-31 23:59:59"}},
		{&SelectInfo{Table: "feeds", Where: Like{"title", ContainsPattern("50%_off")}},
			`SELECT * FROM feeds WHERE title LIKE ? ESCAPE '\'`, []interface{}{`%50\%\_off%`}},
		{&SelectInfo{Table: "entries", Where: NewNot(Like{"author", ContainsPattern("alice")})},
			`SELECT * FROM entries WHERE (author LIKE ? ESCAPE '\') IS NOT 1`, []interface{}{"%alice%"}},
		{&SelectInfo{Table: "feeds", Where: IsNull{Column: "custom_title", Negate: true}},
			"SELECT * FROM feeds WHERE custom_title IS NOT NULL", []interface{}{}},
		{&SelectInfo{
			Table: "entries",
			Where: InSelect{Column: "id", Table: "entry_reads", SelectColumn: "entry_id", Where: Compare{"user_id", Eq, "u1"}},
		}, "SELECT * FROM entries WHERE id IN (SELECT entry_id FROM entry_reads WHERE user_id = ?)", []interface{}{"u1"}},
		{&SelectInfo{
			Table: "categories",
			Where: RelatedCount{Table: "categories", Column: "id", RelatedTable: "feeds", RelatedColumn: "category_id", Min: 1, Max: 3},
		}, "SELECT * FROM categories WHERE (SELECT COUNT(*) FROM feeds WHERE feeds.category_id = categories.id) BETWEEN ? AND ?",
			[]interface{}{int64(1), int64(3)}},
		{&SelectInfo{Table: "feeds", OrderBy: []OrderKey{{"custom_title", Asc}, {"title", Asc}, {"id", Desc}}},
			"SELECT * FROM feeds ORDER BY custom_title ASC, title ASC, id DESC", []interface{}{}},
		{&SelectInfo{Table: "feeds", Where: Compare{"a", NotEq, 1}, OrderBy: []OrderKey{{"id", Asc}}, Skip: 10, Limit: 5},
			"SELECT * FROM feeds WHERE a != ? ORDER BY id ASC LIMIT ? OFFSET ?", []interface{}{1, 5, 10}},
		{&SelectInfo{Table: "feeds", Skip: 10},
			"SELECT * FROM feeds LIMIT ? OFFSET ?", []interface{}{-1, 10}},
	}

	dmp := diffmatchpatch.New()
	for _, item := range items {
		sessionMock := NewSessionMock()
		db := NewDbWithSession(sessionMock)
		sessionMock.On("Query", mock.Anything, mock.Anything).Return([]types.Record{}, nil)

		_, err := db.Select(context.Background(), item.info)
		assert.NoError(t, err)

		query := sessionMock.Calls[0].Arguments.String(0)
		if query != item.query {
			diffs := dmp.DiffMain(item.query, query, false)
			fmt.Println(dmp.DiffPrettyText(diffs))
		}
		sessionMock.AssertCalled(t, "Query", item.query, item.queryParams)
	}
}

func TestCountGeneration(t *testing.T) {
	sessionMock := NewSessionMock()
	db := NewDbWithSession(sessionMock)
	sessionMock.
		On("Query", "SELECT COUNT(*) AS total FROM entries WHERE feed_id = ?", []interface{}{"f1"}).
		Return([]types.Record{{"total": int64(7)}}, nil)

	total, err := db.Count(context.Background(), "entries", Compare{"feed_id", Eq, "f1"})
	assert.NoError(t, err)
	assert.Equal(t, 7, total)
	sessionMock.AssertExpectations(t)
}

func TestFetchByIDsGeneration(t *testing.T) {
	sessionMock := NewSessionMock()
	db := NewDbWithSession(sessionMock)
	sessionMock.
		On("Query", "SELECT id, title FROM feeds WHERE id IN (?, ?)", []interface{}{"a", "b"}).
		Return([]types.Record{{"id": "a", "title": "A"}}, nil)

	rows, err := db.FetchByIDs(context.Background(), "feeds", "id", []string{"id", "title"}, []string{"a", "b"})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = db.FetchByIDs(context.Background(), "feeds", "id", []string{"id"}, nil)
	assert.NoError(t, err)
	assert.Empty(t, rows)
	sessionMock.AssertNumberOfCalls(t, "Query", 1)
}

func TestInsertAndDeleteGeneration(t *testing.T) {
	sessionMock := NewSessionMock()
	db := NewDbWithSession(sessionMock)
	sessionMock.On("Execute", mock.Anything, mock.Anything).Return(nil)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	err := db.Insert(context.Background(), &InsertInfo{
		Table:       "categories",
		Columns:     []string{"id", "title", "created"},
		QueryParams: []interface{}{"c1", "News", created},
	})
	assert.NoError(t, err)
	sessionMock.AssertCalled(t, "Execute",
		"INSERT INTO categories (id, title, created) VALUES (?, ?, ?)",
		[]interface{}{"c1", "News", "2024-01-02 03:04:05"})

	err = db.Delete(context.Background(), &DeleteInfo{
		Table:       "entry_reads",
		Columns:     []string{"user_id", "entry_id"},
		QueryParams: []interface{}{"u1", "e1"},
	})
	assert.NoError(t, err)
	sessionMock.AssertCalled(t, "Execute",
		"DELETE FROM entry_reads WHERE user_id = ? AND entry_id = ?",
		[]interface{}{"u1", "e1"})
}

func TestDescribeIsDeterministic(t *testing.T) {
	build := func() Predicate {
		return NewOr(
			Compare{"title", Eq, "x"},
			NewAnd(In{"id", []interface{}{"a", "b"}}, NewNot(Like{"author", "%bob%"})))
	}
	assert.Equal(t, Describe(build()), Describe(build()))
	assert.Equal(t, build(), build())
	assert.Equal(t, `(title = "x" OR (id IN ["a", "b"] AND NOT (author LIKE "%bob%")))`, Describe(build()))
}
