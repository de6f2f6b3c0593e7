package query

import (
	"regexp"
	"strings"

	"github.com/datastax/feed-data-apis/db"
	"github.com/datastax/feed-data-apis/schema"
	"github.com/datastax/feed-data-apis/types"
)

var sortPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*):([A-Za-z]+)$`)

type sortDirective struct {
	sort      schema.Sort
	direction db.Direction
}

// CompileSort resolves a comma separated list of field:ASC|DESC directives into order keys.
// With defaultSort, the schema tiebreaks not named explicitly are appended.
func CompileSort(sort string, s *schema.Schema, defaultSort bool) ([]db.OrderKey, error) {
	directives, err := parseSort(sort, s)
	if err != nil {
		return nil, err
	}

	if defaultSort {
		explicit := make(map[string]bool, len(directives))
		for _, d := range directives {
			explicit[strings.ToLower(d.sort.Name)] = true
		}
		for _, tiebreak := range s.Tiebreaks() {
			if explicit[strings.ToLower(tiebreak.Name)] {
				continue
			}
			directives = append(directives, sortDirective{sort: tiebreak, direction: tiebreak.DefaultTiebreak.Direction})
		}
	}

	order := make([]db.OrderKey, 0, len(directives))
	for _, d := range directives {
		order = append(order, d.sort.OrderKeys(d.direction)...)
	}
	return order, nil
}

func parseSort(sort string, s *schema.Schema) ([]sortDirective, error) {
	if strings.TrimSpace(sort) == "" {
		return nil, nil
	}

	parts := strings.Split(sort, ",")
	directives := make([]sortDirective, 0, len(parts))
	for _, part := range parts {
		matches := sortPattern.FindStringSubmatch(strings.TrimSpace(part))
		if matches == nil {
			return nil, types.NewSortSyntaxError()
		}

		var direction db.Direction
		switch strings.ToUpper(matches[2]) {
		case "ASC":
			direction = db.Asc
		case "DESC":
			direction = db.Desc
		default:
			return nil, types.NewSortSyntaxError()
		}

		resolved, ok := s.Sort(matches[1])
		if !ok {
			return nil, types.NewUnknownFieldError("sort", matches[1])
		}
		directives = append(directives, sortDirective{sort: resolved, direction: direction})
	}
	return directives, nil
}
