package query

import (
	"fmt"

	"github.com/datastax/feed-data-apis/db"
	"github.com/datastax/feed-data-apis/schema"
	"github.com/datastax/feed-data-apis/types"
)

// CompileSearch parses search and builds its predicate. Nothing is built unless the whole string parses.
func CompileSearch(search string, s *schema.Schema, rc *schema.RequestContext) (db.Predicate, error) {
	node, err := ParseSearch(search)
	if err != nil {
		return nil, err
	}
	return compileNode(node, s, rc)
}

func compileNode(node Node, s *schema.Schema, rc *schema.RequestContext) (db.Predicate, error) {
	switch n := node.(type) {
	case NamedTerm:
		search, ok := s.Search(n.Field)
		if !ok {
			return nil, types.NewUnknownFieldError("search", n.Field)
		}
		predicate, err := search.PredicateBuilder(rc, n.Value)
		if err != nil {
			return nil, err
		}
		if n.Negate {
			return db.NewNot(predicate), nil
		}
		return predicate, nil
	case AndNode:
		left, right, err := compilePair(n.Left, n.Right, s, rc)
		if err != nil {
			return nil, err
		}
		return db.NewAnd(left, right), nil
	case OrNode:
		left, right, err := compilePair(n.Left, n.Right, s, rc)
		if err != nil {
			return nil, err
		}
		return db.NewOr(left, right), nil
	case Group:
		return compileNode(n.Inner, s, rc)
	default:
		panic(fmt.Sprintf("unsupported search node %T", node))
	}
}

func compilePair(left Node, right Node, s *schema.Schema, rc *schema.RequestContext) (db.Predicate, db.Predicate, error) {
	l, err := compileNode(left, s, rc)
	if err != nil {
		return nil, nil, err
	}
	r, err := compileNode(right, s, rc)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}
