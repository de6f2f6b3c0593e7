package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamingConventionToColumn(t *testing.T) {
	nc := NewDefaultNaming()
	assert.Equal(t, "custom_title", nc.ToColumn("customTitle"))
	assert.Equal(t, "feed_id", nc.ToColumn("feedId"))
	assert.Equal(t, "title", nc.ToColumn("title"))
	assert.Equal(t, "site_url", nc.ToColumn("siteUrl"))
}

func TestNamingConventionToField(t *testing.T) {
	nc := NewDefaultNaming()
	assert.Equal(t, "customTitle", nc.ToField("custom_title"))
	assert.Equal(t, "contentLength", nc.ToField("content_length"))
	assert.Equal(t, "id", nc.ToField("id"))
}

func TestNamingConventionToGraphQLType(t *testing.T) {
	nc := NewDefaultNaming()
	assert.Equal(t, "Feed", nc.ToGraphQLType("feed"))
	assert.Equal(t, "EntryPage", nc.ToGraphQLType("entry_page"))
}
