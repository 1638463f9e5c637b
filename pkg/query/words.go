// Package query computes derived statistics over depaginated upstream
// collections: word frequencies across film opening crawls and the
// most-mentioned people.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/holonet/swapi-proxy/pkg/upstream"
)

// film exposes the only field the aggregates read from a film resource;
// everything else stays opaque.
type film struct {
	OpeningCrawl string `json:"opening_crawl"`
}

// WordCount is one (word, occurrences) pair. It marshals as the
// two-element JSON array ["word", n].
type WordCount struct {
	Word  string
	Count int
}

func (wc WordCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{wc.Word, wc.Count})
}

func (wc *WordCount) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("word count pair has %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &wc.Word); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &wc.Count)
}

// CommonWords counts every token across all films' opening crawls and
// returns the pairs ordered by count descending. Ties keep the order in
// which tokens were first seen during the scan.
func CommonWords(films upstream.Collection) ([]WordCount, error) {
	counts := make(map[string]int)
	var order []string

	for _, raw := range films.Results {
		var f film
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse film: %w", err)
		}
		for _, word := range Tokenize(f.OpeningCrawl) {
			if counts[word] == 0 {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	words := make([]WordCount, len(order))
	for i, word := range order {
		words[i] = WordCount{Word: word, Count: counts[word]}
	}
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Count > words[j].Count
	})

	return words, nil
}

// Tokenize splits text on every rune that is not an ASCII letter, digit
// or apostrophe, dropping empty tokens.
func Tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= 'A' && r <= 'Z':
			return false
		case r >= '0' && r <= '9':
			return false
		case r == '\'':
			return false
		}
		return true
	})
}
