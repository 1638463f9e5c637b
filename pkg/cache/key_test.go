package cache

import (
	"net/http/httptest"
	"testing"
)

func TestRequestKey(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"/api/films", "/api/films"},
		{"/api/films/1", "/api/films/1"},
		{"/api/people?search=luke", "/api/people?search=luke"},
		{"/api/films/?page=2", "/api/films/?page=2"},
		{"/api/query/common-words", "/api/query/common-words"},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.target, nil)
		if got := RequestKey(r); got != tt.want {
			t.Errorf("RequestKey(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestCursorKey(t *testing.T) {
	tests := []struct {
		url  string
		host string
		want string
	}{
		{"https://swapi.dev/api/films/?page=2", "https://swapi.dev", "/api/films/?page=2"},
		{"https://swapi.dev/api/people", "https://swapi.dev", "/api/people"},
		// A cursor with a foreign host passes through untouched.
		{"http://other.host/api/films", "https://swapi.dev", "http://other.host/api/films"},
	}

	for _, tt := range tests {
		if got := CursorKey(tt.url, tt.host); got != tt.want {
			t.Errorf("CursorKey(%q, %q) = %q, want %q", tt.url, tt.host, got, tt.want)
		}
	}
}
