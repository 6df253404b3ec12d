// Package mapper holds the slice helpers used when converting aggregates to
// DTOs and persistence rows back to aggregates.
package mapper

import "fmt"

// MapSlice converts every item. nil and empty inputs both give an empty,
// non-nil slice so that JSON lists render as [].
func MapSlice[T any, R any](items []T, fn func(T) R) []R {
	out := make([]R, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}

// MapSliceWithError converts items until the first failure, which is
// returned with the index of the offending item.
func MapSliceWithError[T any, R any](items []T, fn func(T) (R, error)) ([]R, error) {
	out := make([]R, 0, len(items))
	for i, item := range items {
		r, err := fn(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}
