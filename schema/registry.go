package schema

import "fmt"

type Registry struct {
	schemas map[ObjectType]*Schema
}

// NewRegistry fails unless every object type has exactly one schema
func NewRegistry(schemas ...*Schema) (*Registry, error) {
	r := &Registry{schemas: make(map[ObjectType]*Schema, len(schemas))}
	for _, s := range schemas {
		if _, found := r.schemas[s.Type()]; found {
			return nil, fmt.Errorf("%s schema is registered more than once", s.Type())
		}
		r.schemas[s.Type()] = s
	}
	for _, t := range ObjectTypes {
		if _, found := r.schemas[t]; !found {
			return nil, fmt.Errorf("%s schema is not registered", t)
		}
	}
	return r, nil
}

func (r *Registry) Schema(objectType ObjectType) *Schema {
	return r.schemas[objectType]
}
