// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package imageheader

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidFormat is returned when the image header is structurally inconsistent,
	// truncated or exceeds one of the configured limits.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrUnsupportedFormat is returned when the stream is not one of the supported formats.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrNoReader is returned when Options.R is not set.
	ErrNoReader = errors.New("no reader provided")

	errShortRead = errors.New("short read")

	// Internal error to signal that we should stop any further processing.
	errStop = errors.New("stop")
)

// InvalidFormatError wraps the error that made a header invalid.
type InvalidFormatError struct {
	Err error
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInvalidFormat, e.Err)
}

func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// IsInvalidFormat reports whether err is or wraps ErrInvalidFormat.
func IsInvalidFormat(err error) bool {
	return errors.Is(err, ErrInvalidFormat)
}

// IsUnsupportedFormat reports whether err is or wraps ErrUnsupportedFormat.
func IsUnsupportedFormat(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat)
}

func newInvalidFormatError(err error) error {
	if IsInvalidFormat(err) {
		return err
	}
	return &InvalidFormatError{Err: err}
}

func newInvalidFormatErrorf(format string, args ...any) error {
	return newInvalidFormatError(fmt.Errorf(format, args...))
}

// A truncated stream means the header lies about its own layout.
func isInvalidFormatErrorCandidate(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, errShortRead)
}
