package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	// Test creating a new error
	err := New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())

	// Test creating a new formatted error
	err = Newf("formatted %s", "error")
	assert.NotNil(t, err)
	assert.Equal(t, "formatted error", err.Error())

	// Check that the error is an ApplicationError
	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, "formatted error", appErr.Error())
	assert.Equal(t, Unknown, appErr.Kind())
}

func TestWrapping(t *testing.T) {
	// Test wrapping an error
	origErr := New("original error")
	wrappedErr := Wrap(origErr, "wrapped")
	assert.NotNil(t, wrappedErr)
	assert.Equal(t, "wrapped: original error", wrappedErr.Error())

	// Test unwrapping
	unwrappedErr := Unwrap(wrappedErr)
	assert.Equal(t, origErr, unwrappedErr)

	// Test wrapped formatted error
	wrappedFormatted := Wrapf(origErr, "formatted %s", "wrapper")
	assert.NotNil(t, wrappedFormatted)
	assert.Equal(t, "formatted wrapper: original error", wrappedFormatted.Error())

	// Test wrapping nil returns nil
	assert.Nil(t, Wrap(nil, "wrapper"))
	assert.Nil(t, Wrapf(nil, "formatted %s", "wrapper"))

	// Test deeper wrapping
	deepWrapped := Wrap(wrappedErr, "deeper")
	assert.Equal(t, "deeper: wrapped: original error", deepWrapped.Error())

	// Test Is function
	assert.True(t, Is(wrappedErr, origErr))
	assert.True(t, Is(deepWrapped, origErr))
}

func TestFileError(t *testing.T) {
	// Test creating a file error
	fileErr := NewFileError("cannot access", "/path/to/file", FileAccessDenied, nil)
	assert.NotNil(t, fileErr)
	assert.Equal(t, "cannot access: /path/to/file", fileErr.Error())
	assert.Equal(t, "/path/to/file", fileErr.Path())
	assert.Equal(t, FileAccessDenied, fileErr.Kind())

	// Test with wrapped error
	origErr := fmt.Errorf("permission denied")
	fileErr = NewFileError("cannot access", "/path/to/file", FileAccessDenied, origErr)
	assert.Equal(t, "cannot access: /path/to/file: permission denied", fileErr.Error())
	assert.Equal(t, origErr, Unwrap(fileErr))

	// Test predefined errors
	assert.Equal(t, "file not found", ErrFileNotFound.Error())
	assert.Equal(t, FileNotFound, ErrFileNotFound.Kind())

	// Test IsFileNotFound predicate
	notFoundErr := NewFileError("file not found", "/missing/file", FileNotFound, nil)
	assert.True(t, IsFileNotFound(notFoundErr))
	assert.False(t, IsFileNotFound(fileErr)) // This is FileAccessDenied

	// Test IsFileAccessDenied predicate
	assert.True(t, IsFileAccessDenied(fileErr))
	assert.False(t, IsFileAccessDenied(notFoundErr))

	// Test As for FileError
	var fe *FileError
	assert.True(t, As(fileErr, &fe))
	assert.Equal(t, "/path/to/file", fe.Path())
}

func TestConfigError(t *testing.T) {
	// Test creating a config error
	configErr := NewConfigError("invalid value", "timeout", InvalidConfig, nil)
	assert.NotNil(t, configErr)
	assert.Equal(t, "invalid value: timeout", configErr.Error())
	assert.Equal(t, "timeout", configErr.Param())
	assert.Equal(t, InvalidConfig, configErr.Kind())

	// Test with wrapped error
	origErr := fmt.Errorf("value out of range")
	configErr = NewConfigError("invalid value", "timeout", InvalidConfig, origErr)
	assert.Equal(t, "invalid value: timeout: value out of range", configErr.Error())
	assert.Equal(t, origErr, Unwrap(configErr))

	// Test predefined errors
	assert.Equal(t, "invalid configuration", ErrInvalidConfig.Error())
	assert.Equal(t, InvalidConfig, ErrInvalidConfig.Kind())

	// Test IsInvalidConfig predicate
	assert.True(t, IsInvalidConfig(configErr))
	assert.False(t, IsInvalidConfig(New("some other error")))

	// Test As for ConfigError
	var ce *ConfigError
	assert.True(t, As(configErr, &ce))
	assert.Equal(t, "timeout", ce.Param())
}

func TestPatternError(t *testing.T) {
	patternErr := NewPatternError("invalid pattern", "([", "regex", nil)
	assert.Equal(t, `invalid pattern: regex "(["`, patternErr.Error())
	assert.Equal(t, "([", patternErr.Pattern())
	assert.Equal(t, "regex", patternErr.PatternKind())
	assert.Equal(t, InvalidPattern, patternErr.Kind())

	// Without a kind label the raw pattern is printed
	origErr := fmt.Errorf("missing closing ]")
	patternErr = NewPatternError("invalid pattern", "([", "", origErr)
	assert.Equal(t, "invalid pattern: ([: missing closing ]", patternErr.Error())
	assert.Equal(t, origErr, Unwrap(patternErr))

	assert.Equal(t, "invalid pattern", ErrInvalidPattern.Error())
	assert.True(t, IsInvalidPattern(patternErr))
	assert.False(t, IsInvalidPattern(New("some other error")))
	assert.False(t, IsInvalidPattern(nil))
}

func TestVolumeError(t *testing.T) {
	volumeErr := NewVolumeError("statfs failed", "/media/usb1", nil)
	assert.Equal(t, "statfs failed: /media/usb1", volumeErr.Error())
	assert.Equal(t, "/media/usb1", volumeErr.Mountpoint())
	assert.Equal(t, VolumeQueryFailed, volumeErr.Kind())

	origErr := fmt.Errorf("no such device")
	volumeErr = NewVolumeError("statfs failed", "", origErr)
	assert.Equal(t, "statfs failed: no such device", volumeErr.Error())
	assert.True(t, IsVolumeError(Wrap(volumeErr, "listing volumes")))
}

func TestIsInvalidPath(t *testing.T) {
	err := NewFileError("not a directory", "/etc/hosts", InvalidPath, nil)
	assert.True(t, IsInvalidPath(err))
	assert.False(t, IsInvalidPath(ErrFileNotFound))
}

func TestErrorChains(t *testing.T) {
	// Create a chain of errors
	baseErr := errors.New("base error")
	fileErr := NewFileError("file error", "/path/to/file", FileNotFound, baseErr)
	configErr := NewConfigError("config error", "search.default_kind", InvalidConfig, fileErr)
	patternErr := NewPatternError("pattern error", "*.txt", "mask", configErr)

	// Test complete error message
	assert.Equal(t, `pattern error: mask "*.txt": config error: search.default_kind: file error: /path/to/file: base error`, patternErr.Error())

	// Test Is function through the chain
	assert.True(t, Is(patternErr, baseErr))
	assert.True(t, Is(patternErr, fileErr))
	assert.True(t, Is(patternErr, configErr))

	// Test As function through the chain
	var fe *FileError
	assert.True(t, As(patternErr, &fe))
	assert.Equal(t, "/path/to/file", fe.Path())

	var ce *ConfigError
	assert.True(t, As(patternErr, &ce))
	assert.Equal(t, "search.default_kind", ce.Param())

	// Test error predicates through the chain
	assert.True(t, IsFileNotFound(patternErr))
	assert.True(t, IsInvalidConfig(patternErr))
	assert.True(t, IsInvalidPattern(patternErr))
}

func TestKindSentinels(t *testing.T) {
	notFound := NewFileError("root not found", "/missing", FileNotFound, errors.New("stat failed"))
	denied := NewFileError("delete failed", "/locked", FileAccessDenied, nil)
	badKey := NewConfigError("invalid poll interval", "volumes.poll_interval", InvalidConfig, nil)
	badPattern := NewPatternError("invalid regex", "([", "regex", errors.New("missing )"))

	// Sentinels match by kind through any wrapping
	assert.True(t, Is(fmt.Errorf("listing: %w", notFound), ErrFileNotFound))
	assert.True(t, Is(Wrapf(denied, "removing %d entries", 2), ErrFileAccess))
	assert.True(t, Is(fmt.Errorf("invalid configuration: %w", badKey), ErrInvalidConfig))
	assert.True(t, Is(badPattern, ErrInvalidPattern))

	assert.False(t, Is(notFound, ErrFileAccess))
	assert.False(t, Is(denied, ErrInvalidPath))
	assert.False(t, Is(badKey, ErrFileNotFound))

	// A concrete error is not a sentinel for another error of the same kind
	other := NewFileError("root not found", "/elsewhere", FileNotFound, nil)
	assert.False(t, Is(notFound, other))

	assert.True(t, IsFileAccessDenied(denied))
	assert.False(t, IsFileAccessDenied(notFound))
	assert.False(t, IsFileNotFound(nil))
	assert.Equal(t, "removing 2 entries: delete failed: /locked", Wrapf(denied, "removing %d entries", 2).Error())
	assert.Nil(t, Wrapf(nil, "nothing"))
}
