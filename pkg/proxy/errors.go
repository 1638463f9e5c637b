package proxy

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/holonet/swapi-proxy/pkg/upstream"
)

// Error is a request-fatal error carrying the HTTP status to respond
// with. The zero status falls back to 500.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeError is the terminal error handler: every fatal request error
// funnels here, is logged, and becomes a single JSON error envelope.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status := http.StatusInternalServerError

	var reqErr *Error
	var statusErr *upstream.StatusError
	switch {
	case errors.As(err, &reqErr):
		if reqErr.StatusCode != 0 {
			status = reqErr.StatusCode
		}
	case errors.As(err, &statusErr):
		if statusErr.StatusCode >= http.StatusBadRequest {
			status = statusErr.StatusCode
		}
	}

	logger.Error().Err(err).Int("status", status).Msg("request failed")

	body, merr := json.Marshal(errorResponse{Success: false, Error: err.Error()})
	if merr != nil {
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
