package models

// StableQuery is the request body used to capture a stable query
type StableQuery struct {
	Sort   string `json:"sort,omitempty" validate:"max=1024"`
	Search string `json:"search,omitempty" validate:"max=8192"`
}

// StableQueryPage holds the parameters of a stable query read
type StableQueryPage struct {
	Token            string   `json:"token" validate:"required"`
	Fields           []string `json:"fields,omitempty" validate:"dive,required"`
	Skip             int      `json:"skip,omitempty" validate:"gte=0"`
	Count            int      `json:"count,omitempty" validate:"gte=0"`
	ReturnObjects    bool     `json:"objects"`
	ReturnTotalCount bool     `json:"totalCount"`
}
