package query

import (
	"context"
	"errors"
	"testing"

	"github.com/datastax/feed-data-apis/auth"
	"github.com/datastax/feed-data-apis/config"
	"github.com/datastax/feed-data-apis/db"
	"github.com/datastax/feed-data-apis/feeds"
	"github.com/datastax/feed-data-apis/internal/testutil"
	"github.com/datastax/feed-data-apis/internal/testutil/fixture"
	"github.com/datastax/feed-data-apis/schema"
	"github.com/datastax/feed-data-apis/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExecutorTestSuite struct {
	suite.Suite
	db       *db.Db
	compiler *Compiler
	executor *Executor
	rc       *schema.RequestContext
}

func (s *ExecutorTestSuite) SetupTest() {
	s.db = fixture.NewDb()
	registry, err := feeds.NewRegistry(s.db)
	s.Require().NoError(err)
	s.compiler = NewCompiler(registry, config.NewConfigMock().Default())
	s.executor = NewExecutor(s.db, config.DefaultBackendTimeout, testutil.TestLogger())
	s.rc = schema.NewRequestContext(auth.WithContextUser(context.Background(), fixture.User), testutil.Now, config.DefaultFeatures)
}

func (s *ExecutorTestSuite) TearDownTest() {
	s.NoError(s.db.Close())
}

func (s *ExecutorTestSuite) query(objectType schema.ObjectType, options types.QueryOptions) *types.QueryResult {
	options.ReturnObjects = true
	if options.Count == 0 {
		options.Count = 100
	}
	spec, err := s.compiler.Compile(s.rc, objectType, &options)
	s.Require().NoError(err)
	result, err := s.executor.Execute(s.rc, spec)
	s.Require().NoError(err)
	return result
}

func (s *ExecutorTestSuite) ids(objectType schema.ObjectType, search string) []string {
	result := s.query(objectType, types.QueryOptions{Search: search, Sort: "id:ASC"})
	ids := make([]string, 0, len(result.Objects))
	for _, object := range result.Objects {
		ids = append(ids, object["id"].(string))
	}
	return ids
}

func (s *ExecutorTestSuite) TestDefaultFieldsAndOrder() {
	result := s.query(schema.EntryType, types.QueryOptions{Search: `feedId:"` + fixture.FeedAlpha + `"`})
	s.Require().Len(result.Objects, 2)
	s.Equal(types.Object{
		"id":        fixture.EntrySecond,
		"feedId":    fixture.FeedAlpha,
		"title":     "Second story",
		"url":       "https://a.example.com/2",
		"published": "2024-01-03 10:00:00",
	}, result.Objects[0])
	s.Equal(fixture.EntryFirst, result.Objects[1]["id"])
	s.Nil(result.TotalCount)
}

func (s *ExecutorTestSuite) TestPagingAndTotalCount() {
	result := s.query(schema.EntryType, types.QueryOptions{Skip: 1, Count: 2, ReturnTotalCount: true})
	s.Require().NotNil(result.TotalCount)
	s.Equal(5, *result.TotalCount)
	s.Require().Len(result.Objects, 2)
	s.Equal(fixture.EntryTraits, result.Objects[0]["id"])
	s.Equal(fixture.EntryGenerics, result.Objects[1]["id"])
}

func (s *ExecutorTestSuite) TestNoObjectsRequested() {
	spec, err := s.compiler.Compile(s.rc, schema.EntryType, &types.QueryOptions{Count: 0, ReturnObjects: true})
	s.Require().NoError(err)
	result, err := s.executor.Execute(s.rc, spec)
	s.Require().NoError(err)
	s.NotNil(result.Objects)
	s.Empty(result.Objects)

	spec, err = s.compiler.Compile(s.rc, schema.EntryType, &types.QueryOptions{Count: 10, ReturnTotalCount: true})
	s.Require().NoError(err)
	result, err = s.executor.Execute(s.rc, spec)
	s.Require().NoError(err)
	s.Nil(result.Objects)
	s.Equal(5, *result.TotalCount)
}

func (s *ExecutorTestSuite) TestComputedFields() {
	result := s.query(schema.FeedType, types.QueryOptions{Fields: []string{"id", "calculatedTitle", "entryCount"}, Sort: "id:ASC"})
	s.Require().Len(result.Objects, 3)
	s.Equal(types.Object{"id": fixture.FeedAlpha, "calculatedTitle": "Alpha News", "entryCount": 2}, result.Objects[0])
	s.Equal(types.Object{"id": fixture.FeedBeta, "calculatedTitle": "My Tech", "entryCount": 2}, result.Objects[1])
	s.Equal(types.Object{"id": fixture.FeedGamma, "calculatedTitle": "Gamma Sports", "entryCount": 1}, result.Objects[2])

	result = s.query(schema.CategoryType, types.QueryOptions{Fields: []string{"feedCount"}})
	for _, object := range result.Objects {
		s.Equal(1, object["feedCount"])
	}
}

func (s *ExecutorTestSuite) TestUserScopedFields() {
	result := s.query(schema.EntryType, types.QueryOptions{Fields: []string{"id", "read", "starred"}, Sort: "id:ASC"})
	s.Require().Len(result.Objects, 5)
	s.Equal(types.Object{"id": fixture.EntryFirst, "read": true, "starred": false}, result.Objects[0])
	s.Equal(types.Object{"id": fixture.EntrySecond, "read": false, "starred": false}, result.Objects[1])
	s.Equal(types.Object{"id": fixture.EntryGenerics, "read": true, "starred": true}, result.Objects[2])

	s.rc = schema.NewRequestContext(context.Background(), testutil.Now, config.DefaultFeatures)
	result = s.query(schema.EntryType, types.QueryOptions{Fields: []string{"read"}})
	for _, object := range result.Objects {
		s.Equal(false, object["read"])
	}
}

func (s *ExecutorTestSuite) TestSearches() {
	s.Equal([]string{fixture.EntryFirst}, s.ids(schema.EntryType, `published:"older_than:7d"`))
	s.Equal([]string{fixture.EntryTraits, fixture.EntryMatch}, s.ids(schema.EntryType, `published:"earlier_than:2d"`))
	s.Equal([]string{fixture.EntrySecond, fixture.EntryTraits, fixture.EntryMatch}, s.ids(schema.EntryType, `read:"false"`))
	s.Equal([]string{fixture.EntryGenerics}, s.ids(schema.EntryType, `starred:"true" and read:"TRUE"`))
	s.Equal([]string{fixture.EntryGenerics, fixture.EntryTraits, fixture.EntryMatch}, s.ids(schema.EntryType, `contentLength:"250|"`))
	s.Equal([]string{fixture.EntryFirst, fixture.EntryGenerics}, s.ids(schema.EntryType, `author:"ali"`))
	s.Equal([]string{fixture.EntrySecond, fixture.EntryGenerics},
		s.ids(schema.EntryType, `publishedBetween:"2024-01-03 00:00:00|2024-01-05 00:00:00"`))
	s.Equal([]string{fixture.EntryFirst, fixture.EntrySecond, fixture.EntryMatch},
		s.ids(schema.EntryType, `feedId:!"`+fixture.FeedBeta+`"`))

	s.Equal([]string{fixture.FeedAlpha, fixture.FeedGamma}, s.ids(schema.FeedType, `language:"en"`))
	s.Equal([]string{fixture.FeedAlpha}, s.ids(schema.FeedType, `url:"HTTPS://A.example.com:443/rss/"`))
	s.Equal([]string{fixture.FeedBeta, fixture.FeedGamma}, s.ids(schema.FeedType, `created:"earlier_than:1w"`))
	s.Equal([]string{fixture.FeedBeta}, s.ids(schema.FeedType, `categoryId:"`+fixture.CategoryTech+`" or title:"zzz"`))

	s.Equal([]string{fixture.CategoryNews, fixture.CategoryTech}, s.ids(schema.CategoryType, `mine:"true"`))
	s.Equal([]string{fixture.CategorySports}, s.ids(schema.CategoryType, `mine:"false"`))
	s.Equal([]string{fixture.FeedAlpha, fixture.FeedBeta}, s.ids(schema.FeedType, `mine:"true"`))
	s.Equal([]string{fixture.FeedGamma}, s.ids(schema.FeedType, `mine:"false"`))
	s.Empty(s.ids(schema.CategoryType, `feedCount:"2|"`))
	s.Len(s.ids(schema.CategoryType, `feedCount:"1|1"`), 3)
}

func (s *ExecutorTestSuite) TestExcludeMatchesMissingValues() {
	anonymous := "00000000-0000-0000-0000-0000000000e9"
	fixture.InsertEntry(s.db, anonymous, fixture.FeedAlpha, "No author", "2024-01-06 00:00:00")

	s.Equal([]string{fixture.EntrySecond, fixture.EntryTraits, fixture.EntryMatch, anonymous},
		s.ids(schema.EntryType, `author:!"Alice"`))
	s.Equal([]string{fixture.EntryFirst, fixture.EntryGenerics}, s.ids(schema.EntryType, `author:"Alice"`))
	s.Equal([]string{fixture.FeedAlpha, fixture.FeedGamma}, s.ids(schema.FeedType, `language:!"de"`))
}

func (s *ExecutorTestSuite) TestSelectIDsHonorsCount() {
	spec, err := s.compiler.CompileStable(s.rc, schema.EntryType, "id:ASC", "")
	s.Require().NoError(err)

	spec.Count = 2
	ids, err := s.executor.SelectIDs(s.rc, spec)
	s.Require().NoError(err)
	s.Equal([]string{fixture.EntryFirst, fixture.EntrySecond}, ids)

	spec.Count = 0
	ids, err = s.executor.SelectIDs(s.rc, spec)
	s.Require().NoError(err)
	s.Empty(ids)
}

func (s *ExecutorTestSuite) TestFetchByIDsKeepsOrder() {
	registry := s.compiler.Registry()
	entries := registry.Schema(schema.EntryType)
	records, err := s.executor.FetchByIDs(s.rc, entries, entries.DefaultFields(),
		[]string{fixture.EntryMatch, "00000000-0000-0000-0000-000000000000", fixture.EntryFirst})
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(fixture.EntryMatch, records[0]["id"])
	s.Equal(fixture.EntryFirst, records[1]["id"])
}

func (s *ExecutorTestSuite) TestBackendFailureIsRetryable() {
	sessionMock := db.NewSessionMock()
	sessionMock.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("disk I/O error"))
	executor := NewExecutor(db.NewDbWithSession(sessionMock), 0, testutil.TestLogger())

	spec, err := s.compiler.Compile(s.rc, schema.EntryType, &types.QueryOptions{Count: 10, ReturnObjects: true})
	s.Require().NoError(err)
	_, err = executor.Execute(s.rc, spec)
	s.True(types.IsRetryable(err))
	s.False(types.IsClientError(err))
	s.EqualError(err, "select failed: disk I/O error")
}

func TestExecutorTestSuite(t *testing.T) {
	suite.Run(t, new(ExecutorTestSuite))
}
