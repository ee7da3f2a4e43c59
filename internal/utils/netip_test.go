package utils

import (
	"net/http/httptest"
	"testing"
)

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.4 ", "::1", "garbage"})

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.20.30.40", true},
		{"192.168.1.4", true},
		{"192.168.1.5", false},
		{"::1", true},
		{"::ffff:10.1.1.1", true},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if !NewIPMatcher([]string{"", "nope"}).IsEmpty() {
		t.Error("Expected matcher with only invalid entries to be empty")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "127.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	if got := ClientIP(r, false); got != "127.0.0.1" {
		t.Errorf("Expected RemoteAddr when proxy untrusted, got %s", got)
	}
	if got := ClientIP(r, true); got != "203.0.113.7" {
		t.Errorf("Expected left-most forwarded address, got %s", got)
	}

	r.Header.Set("CF-Connecting-IP", "198.51.100.2")
	if got := ClientIP(r, true); got != "198.51.100.2" {
		t.Errorf("Expected CF-Connecting-IP first, got %s", got)
	}
}
