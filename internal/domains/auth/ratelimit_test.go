package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	emailCount int
	ipCount    int

	lastEmailSince time.Time
	lastIPSince    time.Time
}

func (f *fakeCounter) CountAttemptsByEmail(ctx context.Context, action AuthAction, emailHash string, since time.Time) (int, error) {
	f.lastEmailSince = since
	return f.emailCount, nil
}

func (f *fakeCounter) CountAttemptsByIP(ctx context.Context, action AuthAction, ip string, since time.Time) (int, error) {
	f.lastIPSince = since
	return f.ipCount, nil
}

func TestAssertWithinLimits_UnderLimit(t *testing.T) {
	counter := &fakeCounter{emailCount: 4, ipCount: 4}
	limiter := NewRateLimiter(counter)

	err := limiter.AssertWithinLimits(context.Background(), ActionSignup, "hash", "1.2.3.4")
	assert.NoError(t, err)
}

func TestAssertWithinLimits_EmailAtLimit(t *testing.T) {
	counter := &fakeCounter{emailCount: 5}
	limiter := NewRateLimiter(counter)

	err := limiter.AssertWithinLimits(context.Background(), ActionSignup, "hash", "1.2.3.4")
	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, "email", rateErr.Scope)
}

func TestAssertWithinLimits_IPAtLimit(t *testing.T) {
	counter := &fakeCounter{emailCount: 0, ipCount: 10}
	limiter := NewRateLimiter(counter)

	err := limiter.AssertWithinLimits(context.Background(), ActionLogin, "hash", "1.2.3.4")
	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, "ip", rateErr.Scope)
}

func TestAssertWithinLimits_LoginAllowsMoreThanSignup(t *testing.T) {
	counter := &fakeCounter{emailCount: 7, ipCount: 7}
	limiter := NewRateLimiter(counter)

	assert.Error(t, limiter.AssertWithinLimits(context.Background(), ActionSignup, "hash", "1.2.3.4"))
	assert.NoError(t, limiter.AssertWithinLimits(context.Background(), ActionLogin, "hash", "1.2.3.4"))
}

func TestAssertWithinLimits_EmptyEmailSkipsScope(t *testing.T) {
	counter := &fakeCounter{emailCount: 100, ipCount: 0}
	limiter := NewRateLimiter(counter)

	err := limiter.AssertWithinLimits(context.Background(), ActionLogin, "", "1.2.3.4")
	assert.NoError(t, err)
}

func TestAssertWithinLimits_TrailingWindow(t *testing.T) {
	counter := &fakeCounter{}
	limiter := NewRateLimiter(counter)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	require.NoError(t, limiter.AssertWithinLimits(context.Background(), ActionLogin, "hash", "1.2.3.4"))
	assert.Equal(t, now.Add(-15*time.Minute), counter.lastEmailSince)
	assert.Equal(t, now.Add(-15*time.Minute), counter.lastIPSince)
}

func TestAssertWithinLimits_UnknownAction(t *testing.T) {
	limiter := NewRateLimiter(&fakeCounter{})

	err := limiter.AssertWithinLimits(context.Background(), AuthAction("reset"), "hash", "1.2.3.4")
	assert.Error(t, err)
}
