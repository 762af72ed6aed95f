package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/equifolio/internal/marketdata"
)

var (
	// ErrInvalidInput means the request itself is malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoData means no usable market data exists for the request.
	ErrNoData = errors.New("no data")
	// ErrNoArticles means the news provider returned nothing for the window.
	ErrNoArticles = errors.New("no news articles")
	// ErrUpstream means a data provider or the LLM failed.
	ErrUpstream = errors.New("upstream failure")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// classify wraps a collaborator error with the matching service sentinel.
// Context errors pass through untouched.
func classify(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, marketdata.ErrNotFound), errors.Is(err, marketdata.ErrUnsupported):
		return fmt.Errorf("%w: %s: %w", ErrNoData, what, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrUpstream, what, err)
}
