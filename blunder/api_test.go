// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package blunder

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestValues(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(int(unix.ENOENT), NotFoundError.Value())
	assert.Equal(int(unix.ERANGE), OutOfRangeError.Value())
	assert.Equal(int(unix.EINVAL), InvalidArgError.Value())
	assert.Equal(int(unix.ESTALE), StaleCursorError.Value())
	assert.Equal(1000, CorruptTreeError.Value())

	assert.Equal("StaleCursorError", StaleCursorError.String())
	assert.Equal("ErrorValue(4242)", ErrorValue(4242).String())
}

func TestDefaultErrno(t *testing.T) {
	assert := assert.New(t)

	var err error

	assert.Equal(successErrno, Errno(err))
	assert.True(IsSuccess(err))
	assert.Equal("", ErrorString(err))

	err = fmt.Errorf("This is an ordinary error")

	assert.Equal(failureErrno, Errno(err))
	assert.False(IsSuccess(err))

	err = AddError(err, InvalidArgError)
	assert.Equal(InvalidArgError.Value(), Errno(err))
}

func TestAddValue(t *testing.T) {
	assert := assert.New(t)

	var err error

	// Adding to a nil error must still produce a non-nil error
	err = AddError(err, NotFoundError)
	assert.NotNil(err)
	assert.True(Is(err, NotFoundError))
	assert.False(Is(err, OutOfRangeError))
	assert.True(IsNot(err, InvalidArgError))
	assert.False(IsSuccess(err))

	err = fmt.Errorf("This is an ordinary error")
	err = AddError(err, OutOfRangeError)
	assert.True(Is(err, OutOfRangeError))
	assert.True(IsNot(err, NotFoundError))

	// Replacing a value is allowed (and logged)
	err = AddError(err, StaleCursorError)
	assert.True(Is(err, StaleCursorError))
	assert.True(strings.HasPrefix(ErrorString(err), "This is an ordinary error"))
}

func TestNewError(t *testing.T) {
	assert := assert.New(t)

	err := NewError(CorruptTreeError, "node %d has balance %d", 7, 2)
	assert.Equal("node 7 has balance 2", err.Error())
	assert.True(Is(err, CorruptTreeError))
	assert.Contains(ErrorString(err), "CorruptTreeError")

	file, line := Location(err)
	assert.True(strings.HasSuffix(file, "api_test.go"))
	assert.NotZero(line)
	assert.Contains(SourceLine(err), "api_test.go")
	assert.Contains(Details(err), "node 7 has balance 2")
	assert.NotEmpty(Stacktrace(err))
}
