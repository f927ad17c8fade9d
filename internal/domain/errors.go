// Package domain defines domain-specific errors, independent of any
// infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services can return.
var (
	// ErrTrackNotFound is returned when a track is not present in the
	// active library.
	ErrTrackNotFound = errors.New("track not found")

	// ErrNoTrackLoaded is returned when a playback operation requires a
	// loaded track and none is.
	ErrNoTrackLoaded = errors.New("no track loaded")

	// ErrInvalidSinkHandle is returned when an operation is attempted on a
	// handle the sink no longer knows.
	ErrInvalidSinkHandle = errors.New("invalid sink handle")

	// ErrLibraryEmpty is returned when an operation requires at least one
	// track in the active library.
	ErrLibraryEmpty = errors.New("library is empty")

	// ErrTokenNotFound is returned by the access list when a folder token
	// cannot be resolved.
	ErrTokenNotFound = errors.New("folder token not found")

	// ErrUnsupportedFormat is returned when an audio file format is not
	// supported by the sink.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrNotReady is returned when persistence is attempted before restore
	// has completed.
	ErrNotReady = errors.New("persister not ready")

	// ErrShutDown is returned when an operation is attempted after
	// shutdown.
	ErrShutDown = errors.New("already shut down")
)

// AudioSinkError wraps a low-level audio failure with the operation and file
// it occurred on.
type AudioSinkError struct {
	Op   string // Operation that failed (e.g. "load", "seek")
	Path string // File path, if applicable
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *AudioSinkError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("audio sink %s failed for %q: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("audio sink %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *AudioSinkError) Unwrap() error {
	return e.Err
}

// NewAudioSinkError creates a new AudioSinkError.
func NewAudioSinkError(op, path string, err error) *AudioSinkError {
	return &AudioSinkError{Op: op, Path: path, Err: err}
}

// ServiceError wraps a failure in a service-layer operation with enough
// context to identify where it happened.
type ServiceError struct {
	Service string // Service name (e.g. "LibraryService")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error, if any
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Message: message, Err: err}
}
