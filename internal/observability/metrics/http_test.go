package metrics

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/healthz", "/healthz"},
		{"/v1/documents", "/v1/documents"},
		{"/v1/documents/search", "/v1/documents/search"},
		{"/v1/documents/export", "/v1/documents/export"},
		{"/v1/documents/abc-123", "/v1/documents/{id}"},
		{"/v1/documents/abc-123/file", "/v1/documents/{id}/file"},
		{"/v1/documents/abc-123/discussions", "/v1/documents/{id}/discussions"},
		{"/v1/discussions/abc-123/vote", "/v1/discussions/{id}/vote"},
		{"/v1/tickets/abc-123/upvote", "/v1/tickets/{id}/upvote"},
		{"/v1/chat", "/v1/chat"},
	}

	for _, tc := range cases {
		if got := normalizePath(tc.in); got != tc.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
