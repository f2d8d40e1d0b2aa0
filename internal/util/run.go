package util

import (
	"context"
)

// Run calls f and returns its error, or the context error if ctx is
// done first. f keeps running in the background in that case, so it
// should watch ctx itself to stop early.
func Run(ctx context.Context, f func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var d = make(chan error, 1)
	go func() {
		d <- f()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-d:
		return err
	}
}

// RunAll starts every f concurrently. The returned channel receives
// one error, possibly nil, per f.
func RunAll(fs ...func() error) <-chan error {
	var d = make(chan error, len(fs))
	for _, f := range fs {
		f := f
		go func() {
			d <- f()
		}()
	}
	return d
}
