package stream

import (
	"context"
	"time"
)

// Debounce emits a value from in only once quiet has passed without a
// newer value arriving. Only the last value of a burst survives. A value
// still pending when in closes is flushed before the output closes.
func Debounce[T any](ctx context.Context, in <-chan T, quiet time.Duration) <-chan T {
	out := make(chan T)

	go func() {
		defer close(out)

		var (
			pending T
			timer   *time.Timer
			fire    <-chan time.Time
		)
		stop := func() {
			if timer != nil {
				timer.Stop()
			}
			fire = nil
		}
		defer stop()

		for {
			select {
			case <-ctx.Done():
				return

			case v, ok := <-in:
				if !ok {
					if fire != nil {
						select {
						case out <- pending:
						case <-ctx.Done():
						}
					}
					return
				}
				stop()
				pending = v
				timer = time.NewTimer(quiet)
				fire = timer.C

			case <-fire:
				fire = nil
				select {
				case out <- pending:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// Distinct drops a value equal to the last value it let through.
// onSuppress, when non-nil, is called with every dropped value.
func Distinct[T comparable](ctx context.Context, in <-chan T, onSuppress func(T)) <-chan T {
	out := make(chan T)

	go func() {
		defer close(out)

		var (
			last T
			seen bool
		)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				if seen && v == last {
					if onSuppress != nil {
						onSuppress(v)
					}
					continue
				}
				last, seen = v, true
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
