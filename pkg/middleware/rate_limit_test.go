package middleware

import (
	"testing"
	"time"

	"staywise/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func TestClientRateLimiter_Allow(t *testing.T) {
	limiter := NewClientRateLimiter(3, time.Minute, DefaultClientKeyExtractor, testLogger())
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		if !limiter.Allow("client-a") {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if limiter.Allow("client-a") {
		t.Error("fourth request in the window should be rejected")
	}

	// Other clients have their own bucket.
	if !limiter.Allow("client-b") {
		t.Error("different client should not be affected")
	}
}

func TestClientRateLimiter_WindowSlides(t *testing.T) {
	limiter := NewClientRateLimiter(1, 20*time.Millisecond, DefaultClientKeyExtractor, testLogger())
	defer limiter.Stop()

	if !limiter.Allow("client") {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow("client") {
		t.Fatal("second request inside the window should be rejected")
	}

	time.Sleep(30 * time.Millisecond)

	if !limiter.Allow("client") {
		t.Error("request after the window should be allowed")
	}
}

func TestClientRateLimiter_EmptyKey(t *testing.T) {
	limiter := NewClientRateLimiter(1, time.Minute, DefaultClientKeyExtractor, testLogger())
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if !limiter.Allow("") {
			t.Fatal("empty keys are never limited")
		}
	}
}
