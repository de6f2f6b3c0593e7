// types package contains the public API types
// that are shared between both REST and GraphQL
package types

import (
	"encoding/json"
	"net/http"
)

// Record is a row read from the storage backend, keyed by column name
type Record map[string]interface{}

// Object is a projected record, keyed by field name
type Object map[string]interface{}

type QueryOptions struct {
	Fields           []string `json:"fields" mapstructure:"fields"`
	Sort             string   `json:"sort" mapstructure:"sort"`
	Search           string   `json:"search" mapstructure:"search"`
	Skip             int      `json:"skip" mapstructure:"skip"`
	Count            int      `json:"count" mapstructure:"count"`
	ReturnObjects    bool     `json:"returnObjects" mapstructure:"returnObjects"`
	ReturnTotalCount bool     `json:"returnTotalCount" mapstructure:"returnTotalCount"`
}

type StableQueryOptions struct {
	Token            string   `json:"token" mapstructure:"token"`
	Fields           []string `json:"fields" mapstructure:"fields"`
	Skip             int      `json:"skip" mapstructure:"skip"`
	Count            int      `json:"count" mapstructure:"count"`
	ReturnObjects    bool     `json:"returnObjects" mapstructure:"returnObjects"`
	ReturnTotalCount bool     `json:"returnTotalCount" mapstructure:"returnTotalCount"`
}

// QueryResult holds the requested parts of a query response, a nil member was not requested
type QueryResult struct {
	Objects    []Object
	TotalCount *int
}

func (r QueryResult) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, 2)
	if r.Objects != nil {
		out["objects"] = r.Objects
	}
	if r.TotalCount != nil {
		out["totalCount"] = *r.TotalCount
	}
	return json.Marshal(out)
}

type StableQueryCreated struct {
	Token string `json:"token"`
}

// Route represents a request route to be served
type Route struct {
	Method  string
	Pattern string
	Handler http.Handler
}
