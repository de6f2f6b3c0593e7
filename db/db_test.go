package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type SqliteTestSuite struct {
	suite.Suite
	db  *Db
	ctx context.Context
}

func (s *SqliteTestSuite) SetupTest() {
	s.ctx = context.Background()
	db, err := NewDb(":memory:")
	s.Require().NoError(err)
	s.Require().NoError(db.CreateSchema(s.ctx))
	s.db = db

	feeds := [][]interface{}{
		{"f1", "u1", "https://a.example.com/rss", "Alpha", nil, "2024-01-01 00:00:00"},
		{"f2", "u1", "https://b.example.com/rss", "Beta", "Custom", "2024-01-02 00:00:00"},
		{"f3", "u2", "https://c.example.com/rss", "Gamma", nil, "2024-01-03 00:00:00"},
	}
	for _, feed := range feeds {
		s.Require().NoError(db.Insert(s.ctx, &InsertInfo{
			Table:       FeedsTable,
			Columns:     []string{"id", "user_id", "url", "title", "custom_title", "created"},
			QueryParams: feed,
		}))
	}

	entries := [][]interface{}{
		{"e1", "f1", "One", "2024-01-05 00:00:00"},
		{"e2", "f1", "Two", "2024-01-06 00:00:00"},
		{"e3", "f2", "Three", "2024-01-07 00:00:00"},
	}
	for _, entry := range entries {
		s.Require().NoError(db.Insert(s.ctx, &InsertInfo{
			Table:       EntriesTable,
			Columns:     []string{"id", "feed_id", "title", "published"},
			QueryParams: entry,
		}))
	}
}

func (s *SqliteTestSuite) TearDownTest() {
	s.NoError(s.db.Close())
}

func (s *SqliteTestSuite) TestSelectWithPredicateAndOrder() {
	rows, err := s.db.Select(s.ctx, &SelectInfo{
		Table:   FeedsTable,
		Columns: []string{"id", "title"},
		Where:   NewOr(Compare{"user_id", Eq, "u2"}, Like{"title", ContainsPattern("alp")}),
		OrderBy: []OrderKey{{"title", Desc}},
	})
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal("f3", rows[0]["id"])
	s.Equal("f1", rows[1]["id"])
}

func (s *SqliteTestSuite) TestSelectIDsWithPaging() {
	ids, err := s.db.SelectIDs(s.ctx, IdentifierColumn, &SelectInfo{
		Table:   FeedsTable,
		OrderBy: []OrderKey{{"created", Asc}},
		Skip:    1,
		Limit:   1,
	})
	s.Require().NoError(err)
	s.Equal([]string{"f2"}, ids)
}

func (s *SqliteTestSuite) TestNullsAreReturned() {
	rows, err := s.db.FetchByIDs(s.ctx, FeedsTable, IdentifierColumn, []string{"id", "custom_title"}, []string{"f1", "missing"})
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Nil(rows[0]["custom_title"])
}

func (s *SqliteTestSuite) TestCountAndCountGrouped() {
	total, err := s.db.Count(s.ctx, EntriesTable, Compare{"feed_id", Eq, "f1"})
	s.Require().NoError(err)
	s.Equal(2, total)

	counts, err := s.db.CountGrouped(s.ctx, EntriesTable, "feed_id", []string{"f1", "f2", "f3"})
	s.Require().NoError(err)
	s.Equal(map[string]int{"f1": 2, "f2": 1}, counts)
}

func (s *SqliteTestSuite) TestInSelect() {
	s.Require().NoError(s.db.Insert(s.ctx, &InsertInfo{
		Table:       EntryReadsTable,
		Columns:     []string{"user_id", "entry_id"},
		QueryParams: []interface{}{"u1", "e2"},
	}))

	read := InSelect{Column: "id", Table: EntryReadsTable, SelectColumn: "entry_id", Where: Compare{"user_id", Eq, "u1"}}
	ids, err := s.db.SelectIDs(s.ctx, IdentifierColumn, &SelectInfo{
		Table:   EntriesTable,
		Where:   NewNot(read),
		OrderBy: []OrderKey{{"id", Asc}},
	})
	s.Require().NoError(err)
	s.Equal([]string{"e1", "e3"}, ids)
}

func (s *SqliteTestSuite) TestNotMatchesNullColumns() {
	ids, err := s.db.SelectIDs(s.ctx, IdentifierColumn, &SelectInfo{
		Table:   FeedsTable,
		Where:   NewNot(Compare{"custom_title", Eq, "Custom"}),
		OrderBy: []OrderKey{{"id", Asc}},
	})
	s.Require().NoError(err)
	s.Equal([]string{"f1", "f3"}, ids)

	ids, err = s.db.SelectIDs(s.ctx, IdentifierColumn, &SelectInfo{
		Table:   FeedsTable,
		Where:   NewNot(NewNot(Compare{"custom_title", Eq, "Custom"})),
		OrderBy: []OrderKey{{"id", Asc}},
	})
	s.Require().NoError(err)
	s.Equal([]string{"f2"}, ids)
}

func TestSqliteTestSuite(t *testing.T) {
	suite.Run(t, new(SqliteTestSuite))
}
