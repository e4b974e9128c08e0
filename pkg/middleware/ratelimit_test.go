package middleware

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/m271828ngtao/digwebs/pkg/common"
)

func TestRateLimiterAllowWithinLimit(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !limiter.Allow("k") {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
	}
	if limiter.Allow("k") {
		t.Error("Expected request over the limit to be rejected")
	}
}

func TestRateLimiterKeysIndependent(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	if !limiter.Allow("a") {
		t.Fatal("Expected first request for key a to be allowed")
	}
	if !limiter.Allow("b") {
		t.Error("Expected key b unaffected by key a's usage")
	}
	if limiter.Allow("a") {
		t.Error("Expected second request for key a to be rejected")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	limiter := NewRateLimiter(1, 20*time.Millisecond)
	if !limiter.Allow("k") {
		t.Fatal("Expected first request to be allowed")
	}
	if limiter.Allow("k") {
		t.Fatal("Expected second request to be rejected")
	}
	time.Sleep(30 * time.Millisecond)
	if !limiter.Allow("k") {
		t.Error("Expected request in a new window to be allowed")
	}
}

func TestRateLimitMiddlewareShortCircuits(t *testing.T) {
	mw := RateLimit(RateLimitConfig{
		Limit:  2,
		Window: time.Minute,
		KeyFunc: func(ctx *common.Context) string {
			return "fixed"
		},
	}, zap.NewNop())

	calls := 0
	next := func() (common.Result, error) {
		calls++
		return common.Text("ok"), nil
	}

	for i := 0; i < 2; i++ {
		ctx := testContext(t, "http://example.com/", nil)
		if _, err := mw(ctx, next); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i+1, err)
		}
	}

	ctx := testContext(t, "http://example.com/", nil)
	_, err := mw(ctx, next)
	httpErr, ok := err.(*common.HTTPError)
	if !ok {
		t.Fatalf("Expected *common.HTTPError, got %T (%v)", err, err)
	}
	if httpErr.Status != "429 Too Many Requests" {
		t.Errorf("Expected status %q, got %q", "429 Too Many Requests", httpErr.Status)
	}
	if calls != 2 {
		t.Errorf("Expected continuation to run twice, got %d", calls)
	}
}
