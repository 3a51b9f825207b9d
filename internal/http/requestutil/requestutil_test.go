package requestutil

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSanitizeRequestID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "valid-123", want: "valid-123"},
		{in: " trimmed_1 ", want: "trimmed_1"},
		{in: "bad id"},
		{in: ""},
		{in: "a/b"},
		{in: strings.Repeat("a", 65)},
	}
	for _, tc := range cases {
		got := SanitizeRequestID(tc.in)
		if tc.want != "" {
			if got != tc.want {
				t.Fatalf("expected %q kept as %q, got %q", tc.in, tc.want, got)
			}
			continue
		}
		if _, err := uuid.Parse(got); err != nil {
			t.Fatalf("expected generated uuid for %q, got %q", tc.in, got)
		}
	}
}

func TestNewRequestIDIsUnique(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
}

func TestClientIP(t *testing.T) {
	if got := ClientIP(nil); got != "" {
		t.Fatalf("expected empty ip for nil request, got %q", got)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	req.Header.Set("X-Real-IP", "7.7.7.7")
	if got := ClientIP(req); got != "1.2.3.4" {
		t.Fatalf("expected first forwarded ip, got %q", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Real-IP", "7.7.7.7")
	if got := ClientIP(req); got != "7.7.7.7" {
		t.Fatalf("expected real ip, got %q", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"
	if got := ClientIP(req); got != "9.9.9.9" {
		t.Fatalf("expected remote host without port, got %q", got)
	}

	req.RemoteAddr = "pipe"
	if got := ClientIP(req); got != "pipe" {
		t.Fatalf("expected raw remote addr, got %q", got)
	}
}
