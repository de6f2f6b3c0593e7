package models

// Query holds the parameters of a collection read
type Query struct {
	Fields           []string `json:"fields,omitempty" validate:"dive,required"`
	Sort             string   `json:"sort,omitempty"`
	Search           string   `json:"search,omitempty"`
	Skip             int      `json:"skip,omitempty" validate:"gte=0"`
	Count            int      `json:"count,omitempty" validate:"gte=0"`
	ReturnObjects    bool     `json:"objects"`
	ReturnTotalCount bool     `json:"totalCount"`
}
