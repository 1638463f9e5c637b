package query

import (
	"reflect"
	"testing"

	"github.com/goccy/go-json"

	"github.com/holonet/swapi-proxy/pkg/upstream"
)

func collectionOf(t *testing.T, resources []map[string]any) upstream.Collection {
	t.Helper()
	results := make([]json.RawMessage, len(resources))
	for i, res := range resources {
		raw, err := json.Marshal(res)
		if err != nil {
			t.Fatalf("marshal fixture: %v", err)
		}
		results[i] = raw
	}
	return upstream.Collection{Count: len(results), Results: results}
}

func mockFilms(t *testing.T) upstream.Collection {
	return collectionOf(t, []map[string]any{
		{"name": "Mock1", "opening_crawl": ` word wor\rd wor\nd Luke`},
		{"name": "Mock2", "opening_crawl": `1 word's Leia common's 2`},
		{"name": "Mock3", "opening_crawl": `1word Obi-wan wor,d Leia`},
		{"name": "Mock4", "opening_crawl": `word2 Luke word d`},
	})
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"word's common's", []string{"word's", "common's"}},
		{"Obi-wan", []string{"Obi", "wan"}},
		{"wor,d", []string{"wor", "d"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{"1word word2 3", []string{"1word", "word2", "3"}},
		{"", nil},
		{"...---...", nil},
	}

	for _, tt := range tests {
		got := Tokenize(tt.text)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestCommonWords(t *testing.T) {
	words, err := CommonWords(mockFilms(t))
	if err != nil {
		t.Fatalf("CommonWords failed: %v", err)
	}

	want := []WordCount{
		{"wor", 3},
		{"word", 2},
		{"Luke", 2},
		{"Leia", 2},
		{"d", 2},
		{"rd", 1},
		{"nd", 1},
		{"1", 1},
		{"word's", 1},
		{"common's", 1},
		{"2", 1},
		{"1word", 1},
		{"Obi", 1},
		{"wan", 1},
		{"word2", 1},
	}

	if !reflect.DeepEqual(words, want) {
		t.Errorf("CommonWords =\n%v\nwant\n%v", words, want)
	}
}

func TestCommonWords_EmptyCollection(t *testing.T) {
	words, err := CommonWords(upstream.Collection{})
	if err != nil {
		t.Fatalf("CommonWords failed: %v", err)
	}
	if len(words) != 0 {
		t.Errorf("expected no words, got %v", words)
	}
}

func TestWordCount_JSONRoundTrip(t *testing.T) {
	words := []WordCount{{"wor", 3}, {"word's", 1}}

	data, err := json.Marshal(words)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `[["wor",3],["word's",1]]` {
		t.Errorf("marshal = %s", data)
	}

	var decoded []WordCount
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, words) {
		t.Errorf("round trip = %v, want %v", decoded, words)
	}
}
