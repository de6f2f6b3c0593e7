package schema

import (
	"strings"

	"github.com/datastax/feed-data-apis/types"
)

type ObjectType int

const (
	CategoryType ObjectType = iota
	FeedType
	EntryType
)

// ObjectTypes lists every object type, a registry must declare a schema for each one of them
var ObjectTypes = []ObjectType{CategoryType, FeedType, EntryType}

var objectTypeNames = map[ObjectType]string{
	CategoryType: "category",
	FeedType:     "feed",
	EntryType:    "entry",
}

var collectionNames = map[ObjectType]string{
	CategoryType: "categories",
	FeedType:     "feeds",
	EntryType:    "entries",
}

func (t ObjectType) String() string {
	return objectTypeNames[t]
}

// Collection returns the plural name used by the transports
func (t ObjectType) Collection() string {
	return collectionNames[t]
}

// ParseObjectType accepts both the singular and the collection name, case-insensitive
func ParseObjectType(name string) (ObjectType, error) {
	lower := strings.ToLower(name)
	for _, t := range ObjectTypes {
		if lower == t.String() || lower == t.Collection() {
			return t, nil
		}
	}
	return 0, types.NewUnknownObjectTypeError(name)
}
