package extract

import (
	"math/rand"
	"time"
)

// RetryPolicy controls the retry loop for a single entry extraction.
// NextDelay grows exponentially per attempt and doubles the base when the
// previous failure was a throttling signal.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      func() time.Duration
}

// DefaultRetryPolicy returns the standard policy: 3 attempts, 2s base,
// 60s cap, up to 1s of random jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		MaxDelay:    60 * time.Second,
		Jitter: func() time.Duration {
			return time.Duration(rand.Int63n(int64(time.Second)))
		},
	}
}

// NextDelay returns the backoff delay before retry number attempt
// (0-indexed: the delay after the first failed attempt is NextDelay(0)).
func (p RetryPolicy) NextDelay(attempt int, rateLimited bool) time.Duration {
	base := p.BaseDelay
	if rateLimited {
		base *= 2
	}

	delay := base
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			break
		}
	}
	if p.Jitter != nil {
		delay += p.Jitter()
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}
