package query

import (
	"strings"
	"unicode"

	"github.com/datastax/feed-data-apis/types"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenWord
	tokenString
	tokenColon
	tokenExclude
	tokenOpen
	tokenClose
)

type token struct {
	kind  tokenKind
	value string
}

// tokenize splits a search string into tokens, whitespace between tokens is ignored
func tokenize(search string) ([]token, error) {
	input := []rune(search)
	tokens := make([]token, 0)

	for i := 0; i < len(input); {
		r := input[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokenOpen})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokenClose})
			i++
		case r == ':':
			if i+1 < len(input) && input[i+1] == '!' {
				tokens = append(tokens, token{kind: tokenExclude})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokenColon})
				i++
			}
		case r == '"':
			value, next, err := readString(input, i+1)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, value: value})
			i = next
		case isLetter(r):
			start := i
			for i < len(input) && (isLetter(input[i]) || isDigit(input[i]) || input[i] == '_') {
				i++
			}
			tokens = append(tokens, token{kind: tokenWord, value: string(input[start:i])})
		default:
			return nil, types.NewSearchSyntaxError()
		}
	}

	return append(tokens, token{kind: tokenEOF}), nil
}

// readString reads a quoted string starting after the opening quote and returns the position after the closing one
func readString(input []rune, start int) (string, int, error) {
	var b strings.Builder
	for i := start; i < len(input); i++ {
		switch input[i] {
		case '\\':
			if i+1 >= len(input) {
				return "", 0, types.NewSearchSyntaxError()
			}
			i++
			b.WriteRune(input[i])
		case '"':
			return b.String(), i + 1, nil
		default:
			b.WriteRune(input[i])
		}
	}
	return "", 0, types.NewSearchSyntaxError()
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
