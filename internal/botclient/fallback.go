// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package botclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/guildsync/internal/logging"
	"github.com/tomtom215/guildsync/internal/metrics"
)

// ErrNoSources is returned by FirstSuccess when called without sources.
var ErrNoSources = errors.New("no sources configured")

// Source is one named way of answering an operation.
type Source[T any] struct {
	Name  string
	Fetch func(ctx context.Context) (T, error)
}

// FirstSuccess tries sources in order and returns the first successful value
// together with the name of the source that produced it. When a source other
// than the first answers, the fallback is counted under operation. If every
// source fails the errors are joined.
func FirstSuccess[T any](ctx context.Context, operation string, sources ...Source[T]) (T, string, error) {
	var (
		zero T
		errs []error
	)
	for i, src := range sources {
		value, err := src.Fetch(ctx)
		if err == nil {
			if i > 0 {
				metrics.RecordFallback(operation, src.Name)
				logging.Ctx(ctx).Debug().
					Str("operation", operation).
					Str("source", src.Name).
					Err(errors.Join(errs...)).
					Msg("Answered from fallback source")
			}
			return value, src.Name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", src.Name, err))
	}
	if len(errs) == 0 {
		return zero, "", ErrNoSources
	}
	return zero, "", errors.Join(errs...)
}
