package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrInvalidMedalKind = errors.New("invalid medal kind")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidURL       = errors.New("invalid URL")
	ErrEmptyResponse    = errors.New("empty response body")
	ErrBlocked          = errors.New("blocked by robots.txt")
	ErrUnknownFetcher   = errors.New("unknown fetcher type")
)

// FetchError wraps errors that occur during fetching.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// ParseError wraps errors that occur while parsing a fetched page.
type ParseError struct {
	URL      string
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("parse error for %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("parse error for %s (selector=%q): %v", e.URL, e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur while writing records or artifacts.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// RenderError wraps errors that occur while rendering a chart or table.
type RenderError struct {
	Artifact string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error for %s: %v", e.Artifact, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// PipelineError wraps errors that occur in the record pipeline.
type PipelineError struct {
	Stage  string
	Record *Record
	Err    error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error at stage %q: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
