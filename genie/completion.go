package genie

import (
	"context"
	"fmt"
	"sync"
)

// Outcome says how an animation ended.
type Outcome uint8

const (
	// Finished means both phases ran to their end.
	Finished Outcome = iota
	// Skipped means there was nothing to animate, such as an empty or
	// detached rectangle.
	Skipped
	// TimedOut means the deadline passed before the animation finished.
	TimedOut
	// Failed means setup raised an error or panic.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Finished:
		return "finished"
	case Skipped:
		return "skipped"
	case TimedOut:
		return "timed-out"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// Result is delivered once when an animation completes.
type Result struct {
	Instance uint64
	Outcome  Outcome
	// Err holds the reason for Skipped and Failed outcomes.
	Err error
}

// Completion is the single completion signal of one animation. Complete
// takes effect once; later calls are ignored.
type Completion struct {
	once   sync.Once
	done   chan struct{}
	mu     sync.Mutex
	result Result
	fired  bool
	subs   []func(Result)
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// complete records r and runs every registered callback. Only the first
// call has any effect.
func (c *Completion) complete(r Result) bool {
	var subs []func(Result)
	first := false
	c.once.Do(func() {
		first = true
		c.mu.Lock()
		c.result = r
		c.fired = true
		subs = c.subs
		c.subs = nil
		c.mu.Unlock()
		close(c.done)
	})
	for _, fn := range subs {
		runSubscriber(fn, r)
	}
	return first
}

// runSubscriber calls fn, logging a panic so the remaining subscribers
// still run.
func runSubscriber(fn func(Result), r Result) {
	defer func() {
		if p := recover(); p != nil {
			logger().Error().Interface("panic", p).Uint64("instance", r.Instance).
				Msg("completion callback panicked")
		}
	}()
	fn(r)
}

// OnComplete registers fn to run with the result. If the animation has
// already completed, fn runs immediately.
func (c *Completion) OnComplete(fn func(Result)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	if c.fired {
		r := c.result
		c.mu.Unlock()
		runSubscriber(fn, r)
		return
	}
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// Done returns a channel closed on completion.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Completed reports whether the animation has completed.
func (c *Completion) Completed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Result returns the result and whether it is available yet.
func (c *Completion) Result() (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.fired
}

// Wait blocks until completion or until ctx is done. The scene must keep
// updating on another goroutine for the animation to progress.
func (c *Completion) Wait(ctx context.Context) (Result, error) {
	select {
	case <-c.done:
		r, _ := c.Result()
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
