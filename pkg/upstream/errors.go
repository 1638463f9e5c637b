package upstream

import "fmt"

// StatusError reports a non-success response from the upstream API.
// The failing URL is part of the message so clients can tell which
// fetch (or which page of a depagination) broke.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("can't fetch data from %s", e.URL)
}
