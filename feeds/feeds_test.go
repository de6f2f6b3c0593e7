package feeds

import (
	"testing"

	"github.com/datastax/feed-data-apis/db"
	"github.com/datastax/feed-data-apis/schema"
	"github.com/datastax/feed-data-apis/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(fields []schema.Field) []string {
	result := make([]string, 0, len(fields))
	for _, field := range fields {
		result = append(result, field.Name)
	}
	return result
}

func TestRegistryDeclaresEveryObjectType(t *testing.T) {
	registry, err := NewRegistry(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "title"}, names(registry.Schema(schema.CategoryType).DefaultFields()))
	assert.Equal(t, []string{"id", "title", "calculatedTitle", "url"}, names(registry.Schema(schema.FeedType).DefaultFields()))
	assert.Equal(t, []string{"id", "feedId", "title", "url", "published"}, names(registry.Schema(schema.EntryType).DefaultFields()))
}

func TestCalculatedTitle(t *testing.T) {
	s, err := FeedSchema(nil)
	require.NoError(t, err)

	field, ok := s.Field("calculatedtitle")
	require.True(t, ok)
	assert.Equal(t, []string{"custom_title", "title"}, field.RequiredColumns)

	value, err := field.Accessor(nil, types.Record{"title": "Feed", "custom_title": "Mine"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "Mine", value)

	value, err = field.Accessor(nil, types.Record{"title": "Feed", "custom_title": nil}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "Feed", value)

	sort, ok := s.Sort("calculatedTitle")
	require.True(t, ok)
	assert.Equal(t, []db.OrderKey{{Column: "custom_title", Direction: db.Asc}, {Column: "title", Direction: db.Asc}},
		sort.OrderKeys(db.Asc))
}

func TestEntryTiebreaks(t *testing.T) {
	s, err := EntrySchema(nil)
	require.NoError(t, err)

	tiebreaks := s.Tiebreaks()
	require.Len(t, tiebreaks, 2)
	assert.Equal(t, "published", tiebreaks[0].Name)
	assert.Equal(t, db.Desc, tiebreaks[0].DefaultTiebreak.Direction)
	assert.Equal(t, "id", tiebreaks[1].Name)
}

func TestUserScopedSearches(t *testing.T) {
	s, err := EntrySchema(nil)
	require.NoError(t, err)
	rc := &schema.RequestContext{User: "u1"}

	search, ok := s.Search("read")
	require.True(t, ok)

	predicate, err := search.PredicateBuilder(rc, "true")
	require.NoError(t, err)
	assert.Equal(t, `id IN entry_reads.entry_id WHERE (user_id = "u1")`, db.Describe(predicate))

	predicate, err = search.PredicateBuilder(rc, "anything")
	require.NoError(t, err)
	assert.Equal(t, `NOT (id IN entry_reads.entry_id WHERE (user_id = "u1"))`, db.Describe(predicate))
}

func TestUserMarkWithoutUser(t *testing.T) {
	s, err := EntrySchema(nil)
	require.NoError(t, err)

	field, _ := s.Field("starred")
	value, err := field.Accessor(&schema.RequestContext{}, types.Record{"id": "e1"}, schema.NewBatchContext(nil))
	assert.NoError(t, err)
	assert.Equal(t, false, value)
}

func TestSearchValueErrors(t *testing.T) {
	s, err := FeedSchema(nil)
	require.NoError(t, err)

	for name, value := range map[string]string{
		"id":             "nope",
		"url":            "not a url",
		"language":       "en,xx1",
		"created":        "yesterday",
		"createdBetween": "2024-01-01|2024-02-01",
	} {
		search, ok := s.Search(name)
		require.True(t, ok, name)
		_, err := search.PredicateBuilder(&schema.RequestContext{}, value)
		assert.EqualError(t, err, name+" search malformed")
	}
}
