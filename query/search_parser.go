package query

import (
	"strings"

	"github.com/datastax/feed-data-apis/types"
)

// Node is a parsed search expression
type Node interface {
	searchNode()
}

type NamedTerm struct {
	Field  string
	Value  string
	Negate bool
}

type AndNode struct {
	Left  Node
	Right Node
}

type OrNode struct {
	Left  Node
	Right Node
}

type Group struct {
	Inner Node
}

func (NamedTerm) searchNode() {}
func (AndNode) searchNode()   {}
func (OrNode) searchNode()    {}
func (Group) searchNode()     {}

type parser struct {
	tokens []token
	pos    int
}

// ParseSearch parses:
//
//	expression := clause (("AND"|"OR") expression)?
//	clause     := identifier (":"|":!") quotedString | "(" expression ")"
//
// AND and OR share the same precedence and group to the right: a OR b AND c is a OR (b AND c).
func ParseSearch(search string) (Node, error) {
	tokens, err := tokenize(search)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	node, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokenEOF {
		return nil, types.NewSearchSyntaxError()
	}
	return node, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) expression() (Node, error) {
	left, err := p.clause()
	if err != nil {
		return nil, err
	}

	t := p.peek()
	if t.kind != tokenWord {
		return left, nil
	}

	switch strings.ToUpper(t.value) {
	case "AND":
		p.next()
		right, err := p.expression()
		if err != nil {
			return nil, err
		}
		return AndNode{Left: left, Right: right}, nil
	case "OR":
		p.next()
		right, err := p.expression()
		if err != nil {
			return nil, err
		}
		return OrNode{Left: left, Right: right}, nil
	default:
		return nil, types.NewSearchSyntaxError()
	}
}

func (p *parser) clause() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokenOpen:
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if p.next().kind != tokenClose {
			return nil, types.NewSearchSyntaxError()
		}
		return Group{Inner: inner}, nil
	case tokenWord:
		operator := p.next()
		if operator.kind != tokenColon && operator.kind != tokenExclude {
			return nil, types.NewSearchSyntaxError()
		}
		value := p.next()
		if value.kind != tokenString {
			return nil, types.NewSearchSyntaxError()
		}
		return NamedTerm{Field: t.value, Value: value.value, Negate: operator.kind == tokenExclude}, nil
	default:
		return nil, types.NewSearchSyntaxError()
	}
}
