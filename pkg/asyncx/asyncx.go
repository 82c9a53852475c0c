// Package asyncx runs small groups of independent calls concurrently and
// waits for all of them.
package asyncx

import (
	"context"
	"sync"
)

// Result holds the outcome of a single settled call.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) OK() bool { return r.Err == nil }

// AllSettled runs fns concurrently and returns one Result per fn, in
// input order. It never short-circuits.
func AllSettled[T any](ctx context.Context, fns ...func(context.Context) (T, error)) []Result[T] {
	results := make([]Result[T], len(fns))
	var wg sync.WaitGroup
	wg.Add(len(fns))

	for i, fn := range fns {
		go func() {
			defer wg.Done()
			v, err := fn(ctx)
			results[i] = Result[T]{Value: v, Err: err}
		}()
	}
	wg.Wait()
	return results
}

// Checks runs every named check concurrently and returns each outcome
// under its name. A passing check maps to nil.
func Checks(ctx context.Context, checks map[string]func(context.Context) error) map[string]error {
	names := make([]string, 0, len(checks))
	fns := make([]func(context.Context) (struct{}, error), 0, len(checks))
	for name, check := range checks {
		names = append(names, name)
		fns = append(fns, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, check(ctx)
		})
	}

	out := make(map[string]error, len(checks))
	for i, r := range AllSettled(ctx, fns...) {
		out[names[i]] = r.Err
	}
	return out
}
