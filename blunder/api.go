// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Package blunder provides error-handling wrappers
//
// These wrappers allow callers to attach an errno-style value (and a stack trace) to
// regular Go errors while still conforming to the Go error interface.
//
// This package is implemented on top of the ansel1/merry package:
//   https://github.com/ansel1/merry
//
//   From merry godoc:
//     You can add any context information to an error with `e = merry.WithValue(e, "code", 12345)`
//     You can retrieve that value with `v, _ := merry.Value(e, "code").(int)`
package blunder

import (
	"fmt"

	"github.com/ansel1/merry"
	"golang.org/x/sys/unix"

	"github.com/NVIDIA/avltree/logger"
)

// ErrorValue is the errno-like classification carried by every error the avltree
// packages return.
//
// Values that have a sensible linux/POSIX counterpart reuse that errno. Values specific
// to this module start at 1000.
type ErrorValue int

const (
	NotFoundError    ErrorValue = ErrorValue(int(unix.ENOENT)) // No such entry
	OutOfRangeError  ErrorValue = ErrorValue(int(unix.ERANGE)) // Cursor moved past either end
	InvalidArgError  ErrorValue = ErrorValue(int(unix.EINVAL)) // Invalid argument
	StaleCursorError ErrorValue = ErrorValue(int(unix.ESTALE)) // Cursor outlived a structural change
)

// SuccessError is the value Errno() reports for a nil error
const SuccessError ErrorValue = 0

const ( // reset iota to 0
	CorruptTreeError ErrorValue = 1000 + iota
)

// Default errno values for success and failure
const successErrno = 0
const failureErrno = -1

// Value returns the int value for the specified ErrorValue constant
func (errValue ErrorValue) Value() int {
	return int(errValue)
}

func (errValue ErrorValue) String() string {
	switch errValue {
	case SuccessError:
		return "SuccessError"
	case NotFoundError:
		return "NotFoundError"
	case OutOfRangeError:
		return "OutOfRangeError"
	case InvalidArgError:
		return "InvalidArgError"
	case StaleCursorError:
		return "StaleCursorError"
	case CorruptTreeError:
		return "CorruptTreeError"
	default:
		return fmt.Sprintf("ErrorValue(%d)", int(errValue))
	}
}

// NewError creates a new merry/blunder.ErrorValue-annotated error using the given
// format string and arguments.
func NewError(errValue ErrorValue, format string, a ...interface{}) error {
	return merry.WrapSkipping(fmt.Errorf(format, a...), 1).WithValue("errno", int(errValue))
}

// AddError is used to add an ErrorValue to a Go error.
//
// NOTE: merry replaces any previous value; a replacement is logged to help track down
//       cases where that was not intended.
func AddError(e error, errValue ErrorValue) error {
	if nil == e {
		return merry.New("regular error").WithValue("errno", int(errValue))
	}

	prevValue := Errno(e)
	if prevValue != successErrno && prevValue != failureErrno {
		logger.Warnf("replacing error value %v with value %v for error %v", prevValue, int(errValue), e)
	}

	return merry.WrapSkipping(e, 1).WithValue("errno", int(errValue))
}

// Errno extracts errno from the error, if it was previously wrapped.
// Otherwise a default value is returned.
func Errno(e error) int {
	if nil == e {
		return successErrno
	}

	// If the "errno" key/value was not present, merry.Value returns nil.
	var errno = failureErrno
	tmp := merry.Value(e, "errno")
	if nil != tmp {
		errno = tmp.(int)
	}

	return errno
}

func ErrorString(e error) string {
	if nil == e {
		return ""
	}

	errPlusVal := e.Error()

	tmp := merry.Value(e, "errno")
	if nil != tmp {
		errPlusVal = fmt.Sprintf("%s. Error Value: %v", errPlusVal, ErrorValue(tmp.(int)))
	}

	return errPlusVal
}

// Is checks if an error matches a particular ErrorValue
func Is(e error, theError ErrorValue) bool {
	return Errno(e) == theError.Value()
}

// IsNot checks if an error is NOT a particular ErrorValue
func IsNot(e error, theError ErrorValue) bool {
	return Errno(e) != theError.Value()
}

// IsSuccess checks if an error is the success ErrorValue
func IsSuccess(e error) bool {
	return Errno(e) == successErrno
}

// Location returns the file and line number of the code that generated the error.
// Returns zero values if e has no stacktrace.
func Location(e error) (file string, line int) {
	file, line = merry.Location(e)
	return
}

// SourceLine returns the string representation of Location's result
func SourceLine(e error) string {
	return merry.SourceLine(e)
}

// Details wraps merry.Details, which returns all error details including stacktrace in a string.
func Details(e error) string {
	return merry.Details(e)
}

// Stacktrace wraps merry.Stacktrace, which returns error stacktrace (if set) in a string.
func Stacktrace(e error) string {
	return merry.Stacktrace(e)
}
