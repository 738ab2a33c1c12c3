// Package errors provides standardized error handling for ferret.
// It defines common error types, constants, and helper functions for consistent
// error creation, wrapping, and handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// Kind sentinels. Errors of the same type and kind match them with Is,
// whatever their message or subject.
var (
	ErrFileNotFound   = NewFileError("file not found", "", FileNotFound, nil)
	ErrFileAccess     = NewFileError("file access denied", "", FileAccessDenied, nil)
	ErrInvalidPath    = NewFileError("invalid file path", "", InvalidPath, nil)
	ErrInvalidConfig  = NewConfigError("invalid configuration", "", InvalidConfig, nil)
	ErrInvalidPattern = NewPatternError("invalid pattern", "", "", nil)
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	FileOperationFailed
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Pattern error kinds
	InvalidPattern
	// Volume error kinds
	VolumeQueryFailed
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// Is reports whether target is the sentinel for e's kind.
func (e *FileError) Is(target error) bool {
	t, ok := target.(*FileError)
	return ok && t.path == "" && t.err == nil && t.ApplicationError.kind == e.ApplicationError.kind
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// Is reports whether target is the sentinel for e's kind.
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	return ok && t.param == "" && t.err == nil && t.kind == e.kind
}

// PatternError is returned when a search pattern cannot be compiled.
// It is always produced before any walking starts.
type PatternError struct {
	ApplicationError
	pattern string
	kind    string
}

// NewPatternError creates a new pattern error. patternKind is the
// human-readable pattern language ("mask", "regex", ...).
func NewPatternError(msg string, pattern string, patternKind string, err error) *PatternError {
	return &PatternError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: InvalidPattern,
		},
		pattern: pattern,
		kind:    patternKind,
	}
}

// Error returns the pattern error message
func (e *PatternError) Error() string {
	if e.pattern == "" {
		return e.ApplicationError.Error()
	}
	label := e.pattern
	if e.kind != "" {
		label = fmt.Sprintf("%s %q", e.kind, e.pattern)
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.msg, label, e.err)
	}
	return fmt.Sprintf("%s: %s", e.msg, label)
}

// Pattern returns the raw pattern that failed to compile
func (e *PatternError) Pattern() string {
	return e.pattern
}

// PatternKind returns the pattern language the pattern was compiled as
func (e *PatternError) PatternKind() string {
	return e.kind
}

// Is matches ErrInvalidPattern.
func (e *PatternError) Is(target error) bool {
	t, ok := target.(*PatternError)
	return ok && t.pattern == "" && t.err == nil
}

// VolumeError represents failures while enumerating or measuring volumes
type VolumeError struct {
	ApplicationError
	mountpoint string
}

// NewVolumeError creates a new volume error
func NewVolumeError(msg string, mountpoint string, err error) *VolumeError {
	return &VolumeError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: VolumeQueryFailed,
		},
		mountpoint: mountpoint,
	}
}

// Error returns the volume error message
func (e *VolumeError) Error() string {
	if e.mountpoint != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.mountpoint, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.mountpoint)
	}
	return e.ApplicationError.Error()
}

// Mountpoint returns the mountpoint associated with the error
func (e *VolumeError) Mountpoint() string {
	return e.mountpoint
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	return errors.Is(err, ErrFileNotFound)
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	return errors.Is(err, ErrFileAccess)
}

// IsInvalidPath checks if the error is an invalid path error
func IsInvalidPath(err error) bool {
	return errors.Is(err, ErrInvalidPath)
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsInvalidPattern checks if the error is a pattern compilation error
func IsInvalidPattern(err error) bool {
	return errors.Is(err, ErrInvalidPattern)
}

// IsVolumeError checks if the error is a volume error
func IsVolumeError(err error) bool {
	var volumeErr *VolumeError
	return errors.As(err, &volumeErr)
}
