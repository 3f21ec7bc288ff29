package auth

import (
	"context"
	"fmt"
	"time"
)

// ScopeRule is a count ceiling over a trailing window for one scope.
type ScopeRule struct {
	Limit  int
	Window time.Duration
}

// ActionRules holds both scopes for one action. An attempt is blocked when
// either scope is at its limit.
type ActionRules struct {
	Email ScopeRule
	IP    ScopeRule
}

// Rules maps each action to its limits. Signup is tighter than login since
// legitimate users sign up once.
var Rules = map[AuthAction]ActionRules{
	ActionSignup: {
		Email: ScopeRule{Limit: 5, Window: 15 * time.Minute},
		IP:    ScopeRule{Limit: 5, Window: 15 * time.Minute},
	},
	ActionLogin: {
		Email: ScopeRule{Limit: 10, Window: 15 * time.Minute},
		IP:    ScopeRule{Limit: 10, Window: 15 * time.Minute},
	},
}

// RateLimitError reports which scope tripped. The scope is logged server
// side only; clients get a uniform message.
type RateLimitError struct {
	Scope string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for scope %s", e.Scope)
}

// AttemptCounter is the slice of the repository the limiter needs.
type AttemptCounter interface {
	CountAttemptsByEmail(ctx context.Context, action AuthAction, emailHash string, since time.Time) (int, error)
	CountAttemptsByIP(ctx context.Context, action AuthAction, ip string, since time.Time) (int, error)
}

// RateLimiter enforces sliding-window limits by counting prior attempt rows.
// It is a soft limit: it blocks the request at hand but never locks the
// account.
type RateLimiter struct {
	counter AttemptCounter
	now     func() time.Time
}

func NewRateLimiter(counter AttemptCounter) *RateLimiter {
	return &RateLimiter{counter: counter, now: time.Now}
}

// AssertWithinLimits checks each present scope against the action's rules.
// emailHash may be empty (callback flows where no email was submitted);
// that scope is then skipped.
func (l *RateLimiter) AssertWithinLimits(ctx context.Context, action AuthAction, emailHash, ip string) error {
	rules, ok := Rules[action]
	if !ok {
		return fmt.Errorf("no rate limit rules for action %q", action)
	}
	now := l.now()

	if emailHash != "" {
		count, err := l.counter.CountAttemptsByEmail(ctx, action, emailHash, now.Add(-rules.Email.Window))
		if err != nil {
			return err
		}
		if count >= rules.Email.Limit {
			return &RateLimitError{Scope: "email"}
		}
	}

	if ip != "" {
		count, err := l.counter.CountAttemptsByIP(ctx, action, ip, now.Add(-rules.IP.Window))
		if err != nil {
			return err
		}
		if count >= rules.IP.Limit {
			return &RateLimitError{Scope: "ip"}
		}
	}

	return nil
}
