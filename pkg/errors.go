package pkg

import (
	"errors"
	"fmt"
)

// ErrEmptyOutput is returned when the model reply is empty or whitespace only
var ErrEmptyOutput = errors.New("empty model output")

// ErrProfileNotFound is returned by callers that need a profile and none exists
var ErrProfileNotFound = errors.New("user profile not found")

// ConfigError reports missing or invalid configuration
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Reason)
}

// ParseError reports content that could not be parsed as the expected JSON
type ParseError struct {
	Source  string // what was being parsed, e.g. "model output" or a file path
	Content string // offending content, truncated
	Err     error
}

func (e *ParseError) Error() string {
	if e.Content == "" {
		return fmt.Sprintf("failed to parse %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("failed to parse %s %q: %v", e.Source, e.Content, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports a record rejected at save/append time
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewParseError builds a ParseError, truncating content for display
func NewParseError(source, content string, err error) *ParseError {
	const maxContent = 200
	if len(content) > maxContent {
		content = content[:maxContent] + "..."
	}
	return &ParseError{Source: source, Content: content, Err: err}
}
