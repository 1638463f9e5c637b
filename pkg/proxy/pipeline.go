package proxy

import "github.com/goccy/go-json"

// Resource is the unit handed from the fetch stages to the cache
// persistence stage: a cache key and the value to store under it. It
// lives only for the duration of one request's processing.
type Resource struct {
	Key   string
	Value any
}

// marshalValue serializes a pipeline value for storage. Raw JSON
// payloads pass through untouched so the cached bytes are exactly what
// was served.
func marshalValue(v any) (string, error) {
	switch value := v.(type) {
	case json.RawMessage:
		return string(value), nil
	case []byte:
		return string(value), nil
	case string:
		return value, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
