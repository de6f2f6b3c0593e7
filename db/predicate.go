package db

import (
	"fmt"
	"strings"
)

// Predicate is a boolean filter over stored records.
//
// The query engine only composes predicates with NewAnd, NewOr and NewNot, it never inspects them.
// Backends compile them, see buildWhere for the SQL compilation.
type Predicate interface {
	predicateNode()
}

type Operator string

const (
	Eq    Operator = "="
	NotEq Operator = "!="
	Gt    Operator = ">"
	Gte   Operator = ">="
	Lt    Operator = "<"
	Lte   Operator = "<="
)

// Compare is column <op> value
type Compare struct {
	Column   string
	Operator Operator
	Value    interface{}
}

// In is column IN (values...), an empty value list matches nothing
type In struct {
	Column string
	Values []interface{}
}

// Between bounds column on both sides, each side inclusive unless marked exclusive
type Between struct {
	Column       string
	Min          interface{}
	Max          interface{}
	MinExclusive bool
	MaxExclusive bool
}

// Like matches column against a LIKE pattern, case insensitive for ASCII
type Like struct {
	Column  string
	Pattern string
}

type IsNull struct {
	Column string
	Negate bool
}

// InSelect is column IN (SELECT selectColumn FROM table WHERE where)
type InSelect struct {
	Column       string
	Table        string
	SelectColumn string
	Where        Predicate
}

// RelatedCount bounds the number of rows of RelatedTable whose RelatedColumn equals Table.Column
type RelatedCount struct {
	Table         string
	Column        string
	RelatedTable  string
	RelatedColumn string
	Min           int64
	Max           int64
}

type And struct {
	Left  Predicate
	Right Predicate
}

type Or struct {
	Left  Predicate
	Right Predicate
}

type Not struct {
	Inner Predicate
}

func (Compare) predicateNode()      {}
func (In) predicateNode()           {}
func (Between) predicateNode()      {}
func (Like) predicateNode()         {}
func (IsNull) predicateNode()       {}
func (InSelect) predicateNode()     {}
func (RelatedCount) predicateNode() {}
func (And) predicateNode()          {}
func (Or) predicateNode()           {}
func (Not) predicateNode()          {}

func NewAnd(left Predicate, right Predicate) Predicate {
	return And{Left: left, Right: right}
}

func NewOr(left Predicate, right Predicate) Predicate {
	return Or{Left: left, Right: right}
}

func NewNot(inner Predicate) Predicate {
	return Not{Inner: inner}
}

// StringValues adapts a typed slice to predicate values
func StringValues(values []string) []interface{} {
	result := make([]interface{}, len(values))
	for i, v := range values {
		result[i] = v
	}
	return result
}

// ContainsPattern escapes value to be used as a substring Like pattern
func ContainsPattern(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(value) + "%"
}

// Describe renders p deterministically, structurally equal predicates have equal descriptions
func Describe(p Predicate) string {
	switch p := p.(type) {
	case nil:
		return "TRUE"
	case Compare:
		return fmt.Sprintf("%s %s %s", p.Column, p.Operator, describeValue(p.Value))
	case In:
		values := make([]string, len(p.Values))
		for i, v := range p.Values {
			values[i] = describeValue(v)
		}
		return fmt.Sprintf("%s IN [%s]", p.Column, strings.Join(values, ", "))
	case Between:
		lower, upper := "[", "]"
		if p.MinExclusive {
			lower = "("
		}
		if p.MaxExclusive {
			upper = ")"
		}
		return fmt.Sprintf("%s IN %s%s, %s%s", p.Column, lower, describeValue(p.Min), describeValue(p.Max), upper)
	case Like:
		return fmt.Sprintf("%s LIKE %q", p.Column, p.Pattern)
	case IsNull:
		if p.Negate {
			return p.Column + " IS NOT NULL"
		}
		return p.Column + " IS NULL"
	case InSelect:
		return fmt.Sprintf("%s IN %s.%s WHERE (%s)", p.Column, p.Table, p.SelectColumn, Describe(p.Where))
	case RelatedCount:
		return fmt.Sprintf("COUNT(%s.%s = %s.%s) IN [%d, %d]",
			p.RelatedTable, p.RelatedColumn, p.Table, p.Column, p.Min, p.Max)
	case And:
		return fmt.Sprintf("(%s AND %s)", Describe(p.Left), Describe(p.Right))
	case Or:
		return fmt.Sprintf("(%s OR %s)", Describe(p.Left), Describe(p.Right))
	case Not:
		return fmt.Sprintf("NOT (%s)", Describe(p.Inner))
	default:
		return fmt.Sprintf("%#v", p)
	}
}

func describeValue(value interface{}) string {
	switch value := value.(type) {
	case string:
		return fmt.Sprintf("%q", value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
