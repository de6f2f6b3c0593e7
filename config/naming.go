package config

import "github.com/iancoleman/strcase"

type NamingConvention interface {
	// ToColumn returns the storage column for an API field name
	ToColumn(name string) string

	// ToField returns the API field name for a storage column
	ToField(name string) string

	// ToGraphQLType returns the GraphQL type name for an object type
	ToGraphQLType(name string) string
}

type defaultNaming struct{}

func NewDefaultNaming() NamingConvention {
	return &defaultNaming{}
}

func (n *defaultNaming) ToColumn(name string) string {
	return strcase.ToSnake(name)
}

func (n *defaultNaming) ToField(name string) string {
	return strcase.ToLowerCamel(name)
}

func (n *defaultNaming) ToGraphQLType(name string) string {
	return strcase.ToCamel(name)
}
