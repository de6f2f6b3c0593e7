package query

import (
	"strings"

	"github.com/datastax/feed-data-apis/config"
	"github.com/datastax/feed-data-apis/schema"
)

// AllFieldsName requests every field of the schema, honored only when the AllFields feature is enabled
const AllFieldsName = "_all"

// CompileFields resolves the requested field names. Unknown names are dropped and
// the default fields are returned when nothing resolves.
func CompileFields(names []string, s *schema.Schema, features config.Features) []schema.Field {
	if len(names) == 1 && names[0] == AllFieldsName && features.IsEnabled(config.AllFields) {
		return s.Fields()
	}

	fields := make([]schema.Field, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		field, ok := s.Field(strings.TrimSpace(name))
		if !ok || seen[field.Name] {
			continue
		}
		seen[field.Name] = true
		fields = append(fields, field)
	}

	if len(fields) == 0 {
		return s.DefaultFields()
	}
	return fields
}
