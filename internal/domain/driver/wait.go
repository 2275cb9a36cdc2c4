package driver

import (
	"context"
	"fmt"
	"time"
)

// Strategy selects how the driver waits for a response to render.
type Strategy string

const (
	// StrategyFixed sleeps for the whole response delay.
	StrategyFixed Strategy = "fixed"
	// StrategyPoll checks the answer selectors at an interval and returns once
	// a non-empty answer is stable, bounded by the response delay.
	StrategyPoll Strategy = "poll"
)

// Timings holds the delays used by Ask and SwitchSite.
type Timings struct {
	Settle       time.Duration // after navigation
	Input        time.Duration // after filling the question
	Response     time.Duration // upper bound for the answer to render
	Switch       time.Duration // after navigation in SwitchSite
	PollInterval time.Duration
	Strategy     Strategy
}

// DefaultTimings returns the delays the chat sites are known to tolerate.
func DefaultTimings() Timings {
	return Timings{
		Settle:       3 * time.Second,
		Input:        1 * time.Second,
		Response:     10 * time.Second,
		Switch:       2 * time.Second,
		PollInterval: 500 * time.Millisecond,
		Strategy:     StrategyFixed,
	}
}

// Validate rejects negative delays and unknown strategies.
func (t Timings) Validate() error {
	for name, d := range map[string]time.Duration{
		"settle":   t.Settle,
		"input":    t.Input,
		"response": t.Response,
		"switch":   t.Switch,
	} {
		if d < 0 {
			return fmt.Errorf("%s delay must not be negative: %s", name, d)
		}
	}
	switch t.Strategy {
	case StrategyFixed, "":
	case StrategyPoll:
		if t.PollInterval <= 0 {
			return fmt.Errorf("poll interval must be positive: %s", t.PollInterval)
		}
	default:
		return fmt.Errorf("unknown wait strategy %q", t.Strategy)
	}
	return nil
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// poll calls probe every interval until it reports the same non-empty value
// twice in a row or limit elapses. Reaching the limit is not an error.
func poll(ctx context.Context, limit, interval time.Duration, probe func() (string, error)) error {
	deadline := time.Now().Add(limit)
	var last string
	for {
		current, err := probe()
		if err != nil {
			return err
		}
		if current != "" && current == last {
			return nil
		}
		last = current

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		step := interval
		if step > remaining {
			step = remaining
		}
		if err := wait(ctx, step); err != nil {
			return err
		}
	}
}
