package middleware

import (
	"testing"
)

func TestIPFromXForwardedFor(t *testing.T) {
	mw := IP(DefaultIPConfig())
	ctx := testContext(t, "http://example.com/", map[string]string{
		"X-Forwarded-For": "203.0.113.7, 10.0.0.1",
	})

	if _, err := mw(ctx, passThrough(nil, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ClientIP(ctx); got != "203.0.113.7" {
		t.Errorf("Expected first forwarded hop %q, got %q", "203.0.113.7", got)
	}
}

func TestIPFromXRealIP(t *testing.T) {
	mw := IP(&IPConfig{Source: IPSourceXRealIP, TrustProxy: true})
	ctx := testContext(t, "http://example.com/", map[string]string{
		"X-Real-IP": "203.0.113.9",
	})

	if _, err := mw(ctx, passThrough(nil, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ClientIP(ctx); got != "203.0.113.9" {
		t.Errorf("Expected %q, got %q", "203.0.113.9", got)
	}
}

func TestIPUntrustedProxyFallsBackToPeer(t *testing.T) {
	mw := IP(&IPConfig{Source: IPSourceXForwardedFor, TrustProxy: false})
	ctx := testContext(t, "http://example.com/", map[string]string{
		"X-Forwarded-For": "203.0.113.7",
	})

	if _, err := mw(ctx, passThrough(nil, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// httptest requests carry a 192.0.2.1:1234 peer address.
	if got := ClientIP(ctx); got != "192.0.2.1" {
		t.Errorf("Expected peer address %q, got %q", "192.0.2.1", got)
	}
}

func TestIPMissingHeadersFallsBackToPeer(t *testing.T) {
	mw := IP(nil)
	ctx := testContext(t, "http://example.com/", nil)

	if _, err := mw(ctx, passThrough(nil, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ClientIP(ctx); got != "192.0.2.1" {
		t.Errorf("Expected peer address %q, got %q", "192.0.2.1", got)
	}
}
