package types

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/purell"
	"github.com/gocql/gocql"
	"golang.org/x/text/language"
)

// TimestampFormat is the only accepted layout for absolute timestamps in search values
const TimestampFormat = "2006-01-02 15:04:05"

// Converter parses a raw search value into a typed value
type Converter[T any] func(value string) (T, error)

// Range is a span of values. A bound is inclusive unless the matching exclusive flag is set.
type Range[T any] struct {
	Min          T
	Max          T
	MinExclusive bool
	MaxExclusive bool
}

var (
	// MinTime and MaxTime are the sentinels used for open ended time ranges
	MinTime = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxTime = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// Bool is lenient: anything other than a case-insensitive "true" is false
func Bool(value string) (bool, error) {
	return strings.EqualFold(value, "true"), nil
}

func String(value string) (string, error) {
	return value, nil
}

func Int(value string) (int64, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, NewConversionError(value, "'%s' is not an integer", value)
	}
	return i, nil
}

func Float(value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, NewConversionError(value, "'%s' is not a number", value)
	}
	return f, nil
}

func Timestamp(value string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampFormat, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, NewConversionError(value, "'%s' does not match %s", value, TimestampFormat)
	}
	return t, nil
}

// List parses a comma separated list, an empty value is an empty list
func List[T any](element Converter[T]) Converter[[]T] {
	return func(value string) ([]T, error) {
		if value == "" {
			return []T{}, nil
		}
		parts := strings.Split(value, ",")
		result := make([]T, 0, len(parts))
		for _, part := range parts {
			item, err := element(strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			result = append(result, item)
		}
		return result, nil
	}
}

// RangeOf parses "min|max". An empty half defaults to the provided sentinel.
func RangeOf[T any](element Converter[T], min T, max T) Converter[Range[T]] {
	return func(value string) (Range[T], error) {
		parts := strings.Split(value, "|")
		if len(parts) != 2 {
			return Range[T]{}, NewConversionError(value, "range '%s' must have the form min|max", value)
		}
		r := Range[T]{Min: min, Max: max}
		var err error
		if strings.TrimSpace(parts[0]) != "" {
			if r.Min, err = element(parts[0]); err != nil {
				return Range[T]{}, err
			}
		}
		if strings.TrimSpace(parts[1]) != "" {
			if r.Max, err = element(parts[1]); err != nil {
				return Range[T]{}, err
			}
		}
		return r, nil
	}
}

var IntRange = RangeOf[int64](Int, math.MinInt64, math.MaxInt64)

var TimestampRange = RangeOf[time.Time](Timestamp, MinTime, MaxTime)

var relativeTimePattern = regexp.MustCompile(`^(older_than|earlier_than):(\d+)([yMwdhms])$`)

// RelativeTimeRange parses older_than:<N><unit> into [min, now-N] and earlier_than:<N><unit> into (now-N, max]
func RelativeTimeRange(value string, now time.Time) (Range[time.Time], error) {
	match := relativeTimePattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return Range[time.Time]{}, NewConversionError(value, "'%s' is not a relative time range", value)
	}
	amount, err := strconv.Atoi(match[2])
	if err != nil {
		return Range[time.Time]{}, NewConversionError(value, "'%s' has an invalid amount", value)
	}

	now = now.Truncate(time.Second)
	var boundary time.Time
	switch match[3] {
	case "y":
		boundary = now.AddDate(-amount, 0, 0)
	case "M":
		boundary = now.AddDate(0, -amount, 0)
	case "w":
		boundary = now.AddDate(0, 0, -7*amount)
	case "d":
		boundary = now.AddDate(0, 0, -amount)
	case "h":
		boundary = now.Add(-time.Duration(amount) * time.Hour)
	case "m":
		boundary = now.Add(-time.Duration(amount) * time.Minute)
	case "s":
		boundary = now.Add(-time.Duration(amount) * time.Second)
	}

	if match[1] == "older_than" {
		return Range[time.Time]{Min: MinTime, Max: boundary}, nil
	}
	return Range[time.Time]{Min: boundary, Max: MaxTime, MinExclusive: true}, nil
}

// Identifier parses a UUID and returns its canonical lower case form
func Identifier(value string) (string, error) {
	id, err := gocql.ParseUUID(strings.TrimSpace(value))
	if err != nil {
		return "", NewConversionError(value, "'%s' is not a valid identifier", value)
	}
	return id.String(), nil
}

var IdentifierList = List[string](Identifier)

const urlNormalization = purell.FlagsSafe |
	purell.FlagRemoveTrailingSlash |
	purell.FlagRemoveDotSegments |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagSortQuery

// CanonicalUrl normalizes absolute urls so that equivalent spellings compare equal
func CanonicalUrl(value string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", NewConversionError(value, "'%s' is not an absolute url", value)
	}
	normalized, err := purell.NormalizeURLString(parsed.String(), urlNormalization)
	if err != nil {
		return "", NewConversionError(value, "'%s' can not be normalized", value)
	}
	return normalized, nil
}

// ClosedVocabularySet parses a comma separated list of upper cased members of allowed
func ClosedVocabularySet(allowed map[string]bool) Converter[[]string] {
	return func(value string) ([]string, error) {
		if value == "" {
			return []string{}, nil
		}
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			token := strings.ToUpper(strings.TrimSpace(part))
			if !allowed[token] {
				return nil, NewConversionError(value, "'%s' is not an allowed value", part)
			}
			result = append(result, token)
		}
		return result, nil
	}
}

// LanguageCodes contains every two letter ISO 639-1 code known to x/text, upper cased
var LanguageCodes = buildLanguageCodes()

func buildLanguageCodes() map[string]bool {
	codes := make(map[string]bool)
	for first := 'a'; first <= 'z'; first++ {
		for second := 'a'; second <= 'z'; second++ {
			code := string([]rune{first, second})
			base, err := language.ParseBase(code)
			if err != nil || base.String() != code {
				continue
			}
			codes[strings.ToUpper(code)] = true
		}
	}
	return codes
}

var Languages = ClosedVocabularySet(LanguageCodes)
