// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/avltree/conf"
)

func testNestedFunc() {
	myint := 3
	ctx := TraceEnter("the prefix", 1, myint)
	defer ctx.TraceExit("the exit prefix", myint)
}

func TestAPI(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	confStrings := []string{
		"Logging.LogFilePath=/dev/null",
		"Logging.LogToConsole=false",
		"Logging.TraceLevelLogging=logger",
		"Logging.DebugLevelLogging=avltree",
	}

	confMap, err := conf.MakeConfMapFromStrings(confStrings)
	require.NoError(err)

	err = Up(confMap)
	require.NoError(err)

	var target LogTarget
	target.Init(10)
	AddLogTarget(target)

	assert.True(TraceEnabled("logger"))
	assert.False(TraceEnabled("avltree"))

	Tracef("hello there!")
	assert.Equal(1, target.LogBuf.TotalEntries)
	assert.Contains(target.LogBuf.LogEntries[0], "hello there!")
	assert.Contains(target.LogBuf.LogEntries[0], "package=logger")
	assert.Contains(target.LogBuf.LogEntries[0], "function=TestAPI")

	Tracef("hello again, %s!", "you")
	assert.Contains(target.LogBuf.LogEntries[0], "hello again, you!")
	assert.Contains(target.LogBuf.LogEntries[1], "hello there!")

	Warnf("%v: %v", "IAmTheCaller", "this is the warning")
	assert.Contains(target.LogBuf.LogEntries[0], "level=warning")

	err = fmt.Errorf("this is the error")
	ErrorfWithError(err, "we had an error!")
	assert.Contains(target.LogBuf.LogEntries[0], "we had an error!")
	assert.Contains(target.LogBuf.LogEntries[0], "this is the error")

	// Debug logs are only emitted for packages named in DebugLevelLogging
	DebugfID(DbgTesting, "not for this package")
	assert.Equal(4, target.LogBuf.TotalEntries)

	testNestedFunc()
	assert.Equal(6, target.LogBuf.TotalEntries)
	assert.Contains(target.LogBuf.LogEntries[1], ">> called the prefix 1 3")
	assert.Contains(target.LogBuf.LogEntries[0], "<< returning the exit prefix 3")

	err = Down()
	require.NoError(err)

	// Trace is off again once the logger is down
	Tracef("not logged")
	assert.Equal(6, target.LogBuf.TotalEntries)
}
