package worker

import (
	"context"
	"testing"
	"time"

	"github.com/ppiankov/campusfaq/internal/model"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}

	l3 := NewLimiterFromConfig(model.RateLimitingConfig{RequestsPerSecond: 2, BurstSize: 3})
	if l3.defaultBurst != 3 || float64(l3.defaultRate) != 2 {
		t.Errorf("expected rate 2 burst 3, got %v/%d", l3.defaultRate, l3.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://college.edu/notices/fees.pdf"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "https://university.ac.in"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_PerHost(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://college.edu/a"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	// Burst of 1 is spent for this host, case-insensitively
	if limiter.Allow("https://COLLEGE.edu/b") {
		t.Error("expected allow to fail (exhausted tokens)")
	}
	if !limiter.Allow("https://other.edu") {
		t.Error("expected allow for other host")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 10; i++ {
		if !limiter.Allow("https://college.edu") {
			t.Fatalf("expected unlimited limiter to allow request %d", i)
		}
	}
}

func TestLimiter_SetCrawlDelay(t *testing.T) {
	limiter := NewLimiter(10, 10)

	limiter.SetCrawlDelay("slow.edu", 10*time.Second)

	if !limiter.Allow("https://slow.edu/a") {
		t.Error("first request should pass")
	}
	if limiter.Allow("https://slow.edu/b") {
		t.Error("second request should wait for the crawl delay")
	}
	if !limiter.Allow("https://fast.edu") {
		t.Error("other host should pass")
	}

	// A crawl delay faster than the configured rate leaves the default in place
	limiter.SetCrawlDelay("quick.edu", time.Millisecond)
	for i := 0; i < 5; i++ {
		if !limiter.Allow("https://quick.edu") {
			t.Fatalf("expected default burst for quick.edu, request %d denied", i)
		}
	}
}

func TestExtractHost(t *testing.T) {
	host, err := extractHost("https://College.EDU:8443/fees")
	if err != nil {
		t.Fatalf("extractHost failed: %v", err)
	}
	if host != "college.edu:8443" {
		t.Errorf("expected college.edu:8443, got %s", host)
	}

	if _, err := extractHost("::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
}
