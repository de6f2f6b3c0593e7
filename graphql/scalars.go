package graphql

import (
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// value represents any projected field, objects of stable queries are serialized as is
var value = graphql.NewScalar(graphql.ScalarConfig{
	Name: "Value",
	Description: "The `Value` scalar type represents a projected field value: a string, a number," +
		" a boolean or an object of projected fields.",
	Serialize:    identityFn,
	ParseValue:   identityFn,
	ParseLiteral: parseLiteral,
})

func identityFn(value interface{}) interface{} {
	return value
}

func parseLiteral(valueAST ast.Value) interface{} {
	switch valueAST := valueAST.(type) {
	case *ast.StringValue:
		return valueAST.Value
	case *ast.BooleanValue:
		return valueAST.Value
	case *ast.IntValue:
		if i, err := strconv.ParseInt(valueAST.Value, 10, 64); err == nil {
			return i
		}
	case *ast.FloatValue:
		if f, err := strconv.ParseFloat(valueAST.Value, 64); err == nil {
			return f
		}
	}
	return nil
}
