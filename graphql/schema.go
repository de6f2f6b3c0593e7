package graphql

import (
	"github.com/datastax/feed-data-apis/config"
	"github.com/datastax/feed-data-apis/schema"
	"github.com/datastax/feed-data-apis/types"
	"github.com/graphql-go/graphql"
)

const (
	objectsField    = "objects"
	totalCountField = "totalCount"
)

var objectTypeEnum = buildObjectTypeEnum()

func buildObjectTypeEnum() *graphql.Enum {
	values := graphql.EnumValueConfigMap{}
	for _, t := range schema.ObjectTypes {
		values[upper(t.String())] = &graphql.EnumValueConfig{Value: t}
	}
	return graphql.NewEnum(graphql.EnumConfig{
		Name:   "ObjectType",
		Values: values,
	})
}

func buildQueryOptionsType(maxCount int) *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "QueryOptions",
		Fields: graphql.InputObjectConfigFieldMap{
			"fields": {Type: graphql.NewList(graphql.String)},
			"sort":   {Type: graphql.String},
			"search": {Type: graphql.String},
			"skip":   {Type: graphql.Int, DefaultValue: 0},
			"count":  {Type: graphql.Int, DefaultValue: maxCount},
		},
	})
}

func buildStableQueryOptionsType(maxCount int) *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "StableQueryOptions",
		Fields: graphql.InputObjectConfigFieldMap{
			"fields": {Type: graphql.NewList(graphql.String)},
			"skip":   {Type: graphql.Int, DefaultValue: 0},
			"count":  {Type: graphql.Int, DefaultValue: maxCount},
		},
	})
}

func buildObjectType(s *schema.Schema, naming config.NamingConvention) *graphql.Object {
	fields := graphql.Fields{}
	for _, field := range s.Fields() {
		name := field.Name
		fields[name] = &graphql.Field{
			Type: value,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(types.Object)[name], nil
			},
		}
	}
	return graphql.NewObject(graphql.ObjectConfig{
		Name:   naming.ToGraphQLType(s.Type().String()),
		Fields: fields,
	})
}

func buildResultType(name string, objectType graphql.Output) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			objectsField: &graphql.Field{
				Type: graphql.NewList(objectType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*types.QueryResult).Objects, nil
				},
			},
			totalCountField: &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					total := p.Source.(*types.QueryResult).TotalCount
					if total == nil {
						return nil, nil
					}
					return *total, nil
				},
			},
		},
	})
}

var stableQueryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "StableQuery",
	Fields: graphql.Fields{
		"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

// BuildSchema creates the GraphQL schema exposing every object type of the registry
func (rg *RouteGenerator) BuildSchema() (graphql.Schema, error) {
	registry := rg.compiler.Registry()
	queryOptions := buildQueryOptionsType(rg.compiler.MaxCount())
	stableOptions := buildStableQueryOptionsType(rg.compiler.MaxCount())

	queries := graphql.Fields{}
	for _, t := range schema.ObjectTypes {
		s := registry.Schema(t)
		typeName := rg.naming.ToGraphQLType(t.String())
		queries[t.Collection()] = &graphql.Field{
			Type: buildResultType(typeName+"Result", buildObjectType(s, rg.naming)),
			Args: graphql.FieldConfigArgument{
				"options": {Type: queryOptions},
			},
			Resolve: rg.queryResolver(t),
		}
	}

	queries["stableQuery"] = &graphql.Field{
		Type: buildResultType("StableQueryResult", value),
		Args: graphql.FieldConfigArgument{
			"type":    {Type: graphql.NewNonNull(objectTypeEnum)},
			"token":   {Type: graphql.NewNonNull(graphql.String)},
			"options": {Type: stableOptions},
		},
		Resolve: rg.stableQueryResolver,
	}

	mutations := graphql.Fields{
		"createStableQuery": &graphql.Field{
			Type: stableQueryType,
			Args: graphql.FieldConfigArgument{
				"type":   {Type: graphql.NewNonNull(objectTypeEnum)},
				"sort":   {Type: graphql.String},
				"search": {Type: graphql.String},
			},
			Resolve: rg.createStableQueryResolver,
		},
	}

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    graphql.NewObject(graphql.ObjectConfig{Name: "Query", Fields: queries}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{Name: "Mutation", Fields: mutations}),
	})
}
