package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/datastax/feed-data-apis/db"
)

// Schema holds the fields, sorts and searches of an object type. Names are case-insensitive.
type Schema struct {
	objectType ObjectType
	table      string
	idColumn   string
	fields     []Field
	sorts      []Sort
	searches   []Search
	fieldIdx   map[string]int
	sortIdx    map[string]int
	searchIdx  map[string]int
}

type Info struct {
	Type     ObjectType
	Table    string
	IdColumn string
	Fields   []Field
	Sorts    []Sort
	Searches []Search
}

func NewSchema(info Info) (*Schema, error) {
	s := &Schema{
		objectType: info.Type,
		table:      info.Table,
		idColumn:   info.IdColumn,
		fields:     info.Fields,
		sorts:      info.Sorts,
		searches:   info.Searches,
	}

	if s.idColumn == "" {
		s.idColumn = db.IdentifierColumn
	}

	var err error
	if s.fieldIdx, err = index(info.Type, "field", len(info.Fields), func(i int) string { return info.Fields[i].Name }); err != nil {
		return nil, err
	}
	if s.sortIdx, err = index(info.Type, "sort", len(info.Sorts), func(i int) string { return info.Sorts[i].Name }); err != nil {
		return nil, err
	}
	if s.searchIdx, err = index(info.Type, "search", len(info.Searches), func(i int) string { return info.Searches[i].Name }); err != nil {
		return nil, err
	}

	if len(s.DefaultFields()) == 0 {
		return nil, fmt.Errorf("%s schema must declare at least one default field", info.Type)
	}

	for _, sortInfo := range info.Sorts {
		if len(sortInfo.OrderKeyBuilders) == 0 {
			return nil, fmt.Errorf("%s sort '%s' has no order keys", info.Type, sortInfo.Name)
		}
	}

	return s, nil
}

func index(objectType ObjectType, kind string, length int, name func(i int) string) (map[string]int, error) {
	idx := make(map[string]int, length)
	for i := 0; i < length; i++ {
		key := strings.ToLower(name(i))
		if key == "" {
			return nil, fmt.Errorf("%s %s at position %d has no name", objectType, kind, i)
		}
		if _, found := idx[key]; found {
			return nil, fmt.Errorf("%s %s '%s' is declared more than once", objectType, kind, name(i))
		}
		idx[key] = i
	}
	return idx, nil
}

func (s *Schema) Type() ObjectType {
	return s.objectType
}

func (s *Schema) Table() string {
	return s.table
}

// IdColumn is the column holding the stable identifier of the objects
func (s *Schema) IdColumn() string {
	return s.idColumn
}

func (s *Schema) Fields() []Field {
	return s.fields
}

func (s *Schema) DefaultFields() []Field {
	fields := make([]Field, 0)
	for _, field := range s.fields {
		if field.IsDefault {
			fields = append(fields, field)
		}
	}
	return fields
}

func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.fieldIdx[strings.ToLower(name)]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

func (s *Schema) Sorts() []Sort {
	return s.sorts
}

func (s *Schema) Sort(name string) (Sort, bool) {
	i, ok := s.sortIdx[strings.ToLower(name)]
	if !ok {
		return Sort{}, false
	}
	return s.sorts[i], true
}

// Tiebreaks returns the sorts declaring a default tiebreak, by ascending rank then declaration order
func (s *Schema) Tiebreaks() []Sort {
	tiebreaks := make([]Sort, 0)
	for _, candidate := range s.sorts {
		if candidate.DefaultTiebreak != nil {
			tiebreaks = append(tiebreaks, candidate)
		}
	}
	sort.SliceStable(tiebreaks, func(i, j int) bool {
		return tiebreaks[i].DefaultTiebreak.Rank < tiebreaks[j].DefaultTiebreak.Rank
	})
	return tiebreaks
}

func (s *Schema) Searches() []Search {
	return s.searches
}

func (s *Schema) Search(name string) (Search, bool) {
	i, ok := s.searchIdx[strings.ToLower(name)]
	if !ok {
		return Search{}, false
	}
	return s.searches[i], true
}

// Columns returns the union of the columns required by fields, the id column first
func (s *Schema) Columns(fields []Field) []string {
	columns := []string{s.idColumn}
	seen := map[string]bool{s.idColumn: true}
	for _, field := range fields {
		for _, column := range field.RequiredColumns {
			if !seen[column] {
				seen[column] = true
				columns = append(columns, column)
			}
		}
	}
	return columns
}
