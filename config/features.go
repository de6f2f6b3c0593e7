package config

import (
	"fmt"
	"strings"
)

// Features are switches that change how queries are compiled
type Features int

const (
	// AllFields allows the "_all" projection to return every registered field
	AllFields Features = 1 << iota
	// DefaultSort appends the schema tiebreaks to the requested sort
	DefaultSort
	// TotalCount allows requests to ask for the total count of matching objects
	TotalCount
)

// DefaultFeatures never contains AllFields, it has to be enabled explicitly
const DefaultFeatures = DefaultSort | TotalCount

var featureNames = map[string]Features{
	"allfields":   AllFields,
	"defaultsort": DefaultSort,
	"totalcount":  TotalCount,
}

func ParseFeatures(names ...string) (Features, error) {
	var f Features
	err := f.Add(names...)
	return f, err
}

func (f *Features) Set(features Features)           { *f |= features }
func (f *Features) Clear(features Features)         { *f &= ^features }
func (f Features) IsEnabled(features Features) bool { return f&features != 0 }

func (f *Features) Add(names ...string) error {
	for _, name := range names {
		feature, ok := featureNames[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("invalid feature: %s", name)
		}
		f.Set(feature)
	}
	return nil
}

func (f Features) String() string {
	names := make([]string, 0, len(featureNames))
	for _, name := range []string{"allfields", "defaultsort", "totalcount"} {
		if f.IsEnabled(featureNames[name]) {
			names = append(names, name)
		}
	}
	return strings.Join(names, ",")
}
