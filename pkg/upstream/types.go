package upstream

import "github.com/goccy/go-json"

// Collection is the pagination envelope returned by the upstream API
// for collection endpoints. Individual resources stay opaque JSON.
//
// The depaginated form produced by this service carries every page's
// results concatenated in upstream order, count equal to the total
// length, and the cursor links resolved away.
type Collection struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next,omitempty"`
	Previous *string           `json:"previous,omitempty"`
	Results  []json.RawMessage `json:"results"`
}

// KeyedCollection pairs a depaginated collection with the cache key of
// the collection endpoint it came from. Consumers must identify
// collections by key, never by slice position: gathers run
// concurrently.
type KeyedCollection struct {
	Key        string
	Collection Collection
}
