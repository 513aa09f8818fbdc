package core

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Prompter is the request/response boundary of the interactive loops.
// Ask shows message and returns one line of input; Tell shows feedback.
type Prompter interface {
	Ask(message string) (string, error)
	Tell(message string)
}

// Normalize trims s, upper-cases its first rune and lower-cases the rest.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + cases.Lower(language.Und).String(s[size:])
}

// Universe is the set of selectable keys, indexed by normalized form.
type Universe struct {
	keys  []string
	index map[string]string
}

// NewUniverse indexes keys. When two keys normalize to the same form the
// first one is kept.
func NewUniverse(keys []string) *Universe {
	u := &Universe{
		keys:  make([]string, 0, len(keys)),
		index: make(map[string]string, len(keys)),
	}
	for _, k := range keys {
		n := Normalize(k)
		if _, ok := u.index[n]; ok {
			continue
		}
		u.index[n] = k
		u.keys = append(u.keys, k)
	}
	return u
}

// Lookup returns the canonical key matching token after normalization.
func (u *Universe) Lookup(token string) (string, bool) {
	n := Normalize(token)
	if n == "" {
		return "", false
	}
	k, ok := u.index[n]
	return k, ok
}

// Keys returns the canonical keys in table order.
func (u *Universe) Keys() []string {
	out := make([]string, len(u.keys))
	copy(out, u.keys)
	return out
}

// Len is the number of keys.
func (u *Universe) Len() int { return len(u.keys) }

// ValidateSelection checks a comma-separated selection as one batch. It
// returns the canonical keys in typed order only when the token count equals
// count and every token is a known key.
func ValidateSelection(input string, u *Universe, count int) ([]string, error) {
	tokens := strings.Split(input, ",")
	if len(tokens) != count {
		return nil, &SelectionError{Kind: CountMismatch, Want: count, Got: len(tokens)}
	}

	selected := make([]string, 0, count)
	for _, tok := range tokens {
		key, ok := u.Lookup(tok)
		if !ok {
			return nil, &SelectionError{Kind: UnknownKey, Want: count, Got: len(tokens), Token: strings.TrimSpace(tok)}
		}
		selected = append(selected, key)
	}
	return selected, nil
}

// CollectSelection asks until ValidateSelection accepts the answer. The list
// of available countries is shown once, after the first unknown country.
// Only errors from the Prompter itself are returned.
func CollectSelection(p Prompter, u *Universe, count int, message string) ([]string, error) {
	listed := false
	for {
		answer, err := p.Ask(message)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(answer) == "" {
			continue
		}

		selected, err := ValidateSelection(answer, u, count)
		if err == nil {
			return selected, nil
		}

		if errors.Is(err, ErrSelectionCountMismatch) {
			p.Tell(fmt.Sprintf("ERR: Sorry, you must enter exactly %d countries, separated by commas.", count))
			continue
		}
		p.Tell("Country not found, please use a country from our list.")
		if !listed {
			listed = true
			p.Tell(fmt.Sprintf("Available Countries: [%s]", strings.Join(u.Keys(), ", ")))
		}
	}
}
