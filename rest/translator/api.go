package translator

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	e "github.com/datastax/feed-data-apis/rest/errors"
	m "github.com/datastax/feed-data-apis/rest/models"
	"github.com/datastax/feed-data-apis/types"
)

const (
	fieldsParam     = "fields"
	sortParam       = "sort"
	searchParam     = "search"
	skipParam       = "skip"
	countParam      = "count"
	objectsParam    = "objects"
	totalCountParam = "totalCount"
)

var (
	inputValidator *validator.Validate
	trans          ut.Translator
)

func init() {
	inputValidator = validator.New()

	// Use the json names in messages, they are the ones used by clients
	inputValidator.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(inputValidator, trans)

	_ = inputValidator.RegisterTranslation("required", trans, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is a required field", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", fe.Field())
		return t
	})
}

// ParseQuery reads the parameters of a collection read from the url query string
func ParseQuery(values url.Values, maxCount int) (*m.Query, error) {
	query := &m.Query{
		Fields: parseList(values, fieldsParam),
		Sort:   values.Get(sortParam),
		Search: values.Get(searchParam),
	}

	var err error
	if query.Skip, err = parseInt(values, skipParam, 0); err != nil {
		return nil, err
	}
	if query.Count, err = parseInt(values, countParam, maxCount); err != nil {
		return nil, err
	}
	if query.ReturnObjects, err = parseBool(values, objectsParam, true); err != nil {
		return nil, err
	}
	if query.ReturnTotalCount, err = parseBool(values, totalCountParam, false); err != nil {
		return nil, err
	}

	if err := inputValidator.Struct(query); err != nil {
		return nil, e.TranslateValidatorError(err, trans)
	}
	return query, nil
}

// ParseStableQuery decodes the body of a stable query creation, an empty body captures the default order
func ParseStableQuery(body io.Reader) (*m.StableQuery, error) {
	var query m.StableQuery
	if body != nil {
		if err := json.NewDecoder(body).Decode(&query); err != nil && err != io.EOF {
			return nil, e.NewRequestError("request body is invalid")
		}
	}

	if err := inputValidator.Struct(&query); err != nil {
		return nil, e.TranslateValidatorError(err, trans)
	}
	return &query, nil
}

// ParseStableQueryPage reads the parameters of a stable query read from the url query string
func ParseStableQueryPage(token string, values url.Values, maxCount int) (*m.StableQueryPage, error) {
	page := &m.StableQueryPage{
		Token:  token,
		Fields: parseList(values, fieldsParam),
	}

	var err error
	if page.Skip, err = parseInt(values, skipParam, 0); err != nil {
		return nil, err
	}
	if page.Count, err = parseInt(values, countParam, maxCount); err != nil {
		return nil, err
	}
	if page.ReturnObjects, err = parseBool(values, objectsParam, true); err != nil {
		return nil, err
	}
	if page.ReturnTotalCount, err = parseBool(values, totalCountParam, false); err != nil {
		return nil, err
	}

	if err := inputValidator.Struct(page); err != nil {
		return nil, e.TranslateValidatorError(err, trans)
	}
	return page, nil
}

func ToQueryOptions(query *m.Query) *types.QueryOptions {
	return &types.QueryOptions{
		Fields:           query.Fields,
		Sort:             query.Sort,
		Search:           query.Search,
		Skip:             query.Skip,
		Count:            query.Count,
		ReturnObjects:    query.ReturnObjects,
		ReturnTotalCount: query.ReturnTotalCount,
	}
}

func ToStableQueryOptions(page *m.StableQueryPage) *types.StableQueryOptions {
	return &types.StableQueryOptions{
		Token:            page.Token,
		Fields:           page.Fields,
		Skip:             page.Skip,
		Count:            page.Count,
		ReturnObjects:    page.ReturnObjects,
		ReturnTotalCount: page.ReturnTotalCount,
	}
}

// parseList accepts both repeated parameters and comma separated values
func parseList(values url.Values, name string) []string {
	var result []string
	for _, value := range values[name] {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}

func parseInt(values url.Values, name string, defaultValue int) (int, error) {
	value := values.Get(name)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0, e.NewRequestError(fmt.Sprintf("%s must be an integer", name))
	}
	return result, nil
}

func parseBool(values url.Values, name string, defaultValue bool) (bool, error) {
	value := values.Get(name)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.ParseBool(value)
	if err != nil {
		return false, e.NewRequestError(fmt.Sprintf("%s must be a boolean", name))
	}
	return result, nil
}
