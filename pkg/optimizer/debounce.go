package optimizer

import (
	"context"
	"time"
)

type debounceResult struct {
	val any
	err error
	// executed is set for the caller whose fn actually ran.
	executed bool
}

type pendingDebounce struct {
	timer   *time.Timer
	ctx     context.Context
	fn      func(context.Context) (any, error)
	waiters []chan debounceResult
}

// Debounce delays fn until no other call with the same key arrived for
// delay (the optimizer default when not positive). A call inside the window
// stops the pending timer and replaces fn, so only the last scheduled fn
// runs. By default every caller of the window gets that outcome, even if it
// asked for something else; with Config.StrictDebounce the replaced callers
// fail with ErrSuperseded. Only unstarted timers are ever cancelled.
func (o *Optimizer) Debounce(
	ctx context.Context,
	key string,
	delay time.Duration,
	fn func(ctx context.Context) (any, error),
) (any, error) {
	res := o.debounce(ctx, key, delay, fn)
	return res.val, res.err
}

func (o *Optimizer) debounce(
	ctx context.Context,
	key string,
	delay time.Duration,
	fn func(ctx context.Context) (any, error),
) debounceResult {
	if delay <= 0 {
		delay = o.cfg.DebounceDelay
	}
	waiter := make(chan debounceResult, 1)

	o.mu.Lock()
	pending, ok := o.debounces[key]
	if ok && pending.timer.Stop() {
		o.metrics.superseded(len(pending.waiters))
		if o.cfg.StrictDebounce {
			for _, w := range pending.waiters {
				w <- debounceResult{err: ErrSuperseded}
			}
			pending.waiters = pending.waiters[:0]
		}
	} else {
		// Either nothing is pending or the timer already fired and that
		// run owns its waiters.
		pending = &pendingDebounce{}
		o.debounces[key] = pending
	}
	pending.ctx = context.WithoutCancel(ctx)
	pending.fn = fn
	pending.waiters = append(pending.waiters, waiter)
	pending.timer = time.AfterFunc(delay, func() {
		o.fireDebounce(key, pending)
	})
	o.mu.Unlock()

	select {
	case res := <-waiter:
		return res
	case <-ctx.Done():
		return debounceResult{err: ctx.Err()}
	}
}

func (o *Optimizer) fireDebounce(key string, pending *pendingDebounce) {
	o.mu.Lock()
	if o.debounces[key] == pending {
		delete(o.debounces, key)
	}
	fn, ctx, waiters := pending.fn, pending.ctx, pending.waiters
	o.mu.Unlock()

	val, err := fn(ctx)
	for i, w := range waiters {
		w <- debounceResult{val: val, err: err, executed: i == len(waiters)-1}
	}
}
