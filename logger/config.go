// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"io"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/NVIDIA/avltree/conf"
)

// multiWriter fans each formatted log entry out to every registered target
type multiWriter struct {
	sync.Mutex
	writers []io.Writer
}

func (mw *multiWriter) addWriter(writer io.Writer) {
	mw.Lock()
	mw.writers = append(mw.writers, writer)
	mw.Unlock()
}

func (mw *multiWriter) Write(p []byte) (n int, err error) {
	mw.Lock()
	defer mw.Unlock()

	for _, writer := range mw.writers {
		n, err = writer.Write(p)
		if nil != err {
			return
		}
	}

	n = len(p)
	err = nil
	return
}

var (
	logFile   *os.File
	logOutput *multiWriter
)

func Up(confMap conf.ConfMap) (err error) {
	log.SetFormatter(&log.TextFormatter{DisableColors: true})

	logOutput = &multiWriter{}

	logFilePath, _ := confMap.FetchOptionValueString("Logging", "LogFilePath")
	if "" != logFilePath {
		logFile, err = os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if nil != err {
			log.Errorf("couldn't open log file: %v", err)
			return
		}
		logOutput.addWriter(logFile)
	}

	// Determine whether we should log to console. Default is false (unless there is no log file).
	logToConsole, err := confMap.FetchOptionValueBool("Logging", "LogToConsole")
	if nil != err {
		logToConsole = ("" == logFilePath)
	}
	if logToConsole {
		logOutput.addWriter(os.Stderr)
	}

	log.SetOutput(logOutput)

	// NOTE: We always enable max logging in logrus, and decide in this package whether to log
	log.SetLevel(log.DebugLevel)

	traceConfSlice, _ := confMap.FetchOptionValueStringSlice("Logging", "TraceLevelLogging")
	setTraceLoggingLevel(traceConfSlice)

	debugConfSlice, _ := confMap.FetchOptionValueStringSlice("Logging", "DebugLevelLogging")
	setDebugLoggingLevel(debugConfSlice)

	err = nil
	return
}

func Down() (err error) {
	// We open and close our own logfile
	if nil != logFile {
		err = logFile.Close()
		logFile = nil
	}
	if nil != logOutput {
		log.SetOutput(os.Stderr)
		logOutput = nil
	}
	setTraceLoggingLevel(nil)
	setDebugLoggingLevel(nil)
	return
}

func addLogTarget(writer io.Writer) {
	if nil == logOutput {
		logOutput = &multiWriter{}
		logOutput.addWriter(os.Stderr)
		log.SetOutput(logOutput)
	}
	logOutput.addWriter(writer)
}
