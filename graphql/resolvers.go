package graphql

import (
	"strings"

	"github.com/datastax/feed-data-apis/schema"
	"github.com/datastax/feed-data-apis/types"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/mitchellh/mapstructure"
)

func upper(name string) string {
	return strings.ToUpper(name)
}

func (rg *RouteGenerator) requestContext(params graphql.ResolveParams) *schema.RequestContext {
	return schema.NewRequestContext(params.Context, rg.now(), rg.features)
}

func (rg *RouteGenerator) queryResolver(objectType schema.ObjectType) graphql.FieldResolveFn {
	return func(params graphql.ResolveParams) (interface{}, error) {
		var options types.QueryOptions
		if err := mapstructure.Decode(params.Args["options"], &options); err != nil {
			return nil, err
		}

		selected := selections(params.Info.FieldASTs)
		_, options.ReturnObjects = selected[objectsField]
		_, options.ReturnTotalCount = selected[totalCountField]
		if len(options.Fields) == 0 {
			options.Fields = keys(selected[objectsField])
		}

		if params.Args["options"] == nil {
			options.Count = rg.compiler.MaxCount()
		}

		rc := rg.requestContext(params)
		spec, err := rg.compiler.Compile(rc, objectType, &options)
		if err != nil {
			return nil, err
		}

		result, err := rg.executor.Execute(rc, spec)
		return result, rg.logError(err, "query", objectType)
	}
}

func (rg *RouteGenerator) stableQueryResolver(params graphql.ResolveParams) (interface{}, error) {
	objectType := params.Args["type"].(schema.ObjectType)

	var options types.StableQueryOptions
	if err := mapstructure.Decode(params.Args["options"], &options); err != nil {
		return nil, err
	}
	if params.Args["options"] == nil {
		options.Count = rg.compiler.MaxCount()
	}

	options.Token = params.Args["token"].(string)
	selected := selections(params.Info.FieldASTs)
	_, options.ReturnObjects = selected[objectsField]
	_, options.ReturnTotalCount = selected[totalCountField]

	result, err := rg.stableQueries.Query(rg.requestContext(params), objectType, &options)
	return result, rg.logError(err, "stable query", objectType)
}

func (rg *RouteGenerator) createStableQueryResolver(params graphql.ResolveParams) (interface{}, error) {
	objectType := params.Args["type"].(schema.ObjectType)
	sort, _ := params.Args["sort"].(string)
	search, _ := params.Args["search"].(string)

	token, err := rg.stableQueries.Create(rg.requestContext(params), objectType, sort, search)
	if err != nil {
		return nil, rg.logError(err, "create stable query", objectType)
	}
	return &types.StableQueryCreated{Token: token}, nil
}

func (rg *RouteGenerator) logError(err error, operation string, objectType schema.ObjectType) error {
	if err != nil && !types.IsClientError(err) {
		rg.logger.Error("unable to execute "+operation,
			"type", objectType.String(),
			"retryable", types.IsRetryable(err),
			"error", err)
	}
	return err
}

// selections returns the sub fields selected for each field of the selection set
func selections(fieldASTs []*ast.Field) map[string]map[string]bool {
	selected := make(map[string]map[string]bool)
	for _, fieldAST := range fieldASTs {
		if fieldAST.SelectionSet == nil {
			continue
		}
		for _, selection := range fieldAST.SelectionSet.Selections {
			field, ok := selection.(*ast.Field)
			if !ok {
				continue
			}
			children := selected[field.Name.Value]
			if children == nil {
				children = make(map[string]bool)
				selected[field.Name.Value] = children
			}
			for name := range selections([]*ast.Field{field}) {
				children[name] = true
			}
		}
	}
	return selected
}

func keys(set map[string]bool) []string {
	result := make([]string, 0, len(set))
	for key := range set {
		if !strings.HasPrefix(key, "__") {
			result = append(result, key)
		}
	}
	return result
}
