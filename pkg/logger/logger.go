// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	LogContainer     logContainer
	loggerInit       sync.Once
	simpleLoggerInit sync.Once

	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	file  = &fileSink{w: io.Discard}
)

type logContainer struct {
	logger       *zap.Logger
	simpleLogger *zap.SugaredLogger
}

// GetLogger returns the pointer to the logger and creates one if none exists
func (l *logContainer) GetLogger() *zap.Logger {
	loggerInit.Do(func() {
		l.logger = zap.New(getCombinedCore())
	})
	return l.logger
}

// GetSimpleLogger returns the pointer to the sugared logger and creates one
// if none exists
func (l *logContainer) GetSimpleLogger() *zap.SugaredLogger {
	simpleLoggerInit.Do(func() {
		logger := zap.New(getCombinedCore())
		l.simpleLogger = logger.Sugar()
	})
	return l.simpleLogger
}

// String mirrors zap.String
func (l *logContainer) String(key string, val string) zap.Field {
	return zap.String(key, val)
}

// Int mirrors zap.Int
func (l *logContainer) Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

// SetDebug switches all loggers between debug and info level.
func SetDebug(debug bool) {
	if debug {
		level.SetLevel(zapcore.DebugLevel)
		return
	}
	level.SetLevel(zapcore.InfoLevel)
}

// SetLogFile additionally writes JSON log lines to path. An empty path
// disables the file output.
func SetLogFile(path string) error {
	if path == "" {
		return file.swap(nil)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	return file.swap(f)
}

// fileSink lets the file output be attached after the loggers were built,
// package level loggers are created during init.
type fileSink struct {
	m sync.Mutex
	w io.Writer
	f *os.File
}

func (s *fileSink) Write(p []byte) (int, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return s.w.Write(p)
}

func (s *fileSink) Sync() error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.f == nil {
		return nil
	}
	return s.f.Sync()
}

func (s *fileSink) swap(f *os.File) error {
	s.m.Lock()
	defer s.m.Unlock()
	var err error
	if s.f != nil {
		err = s.f.Close()
	}
	s.f = f
	s.w = io.Discard
	if f != nil {
		s.w = f
	}
	return err
}

func getConsoleEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func getJsonEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.EpochTimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

func getConsoleCore() zapcore.Core {
	// stderr keeps the monitor console on stdout clean
	return zapcore.NewCore(getConsoleEncoder(), zapcore.Lock(os.Stderr), level)
}

func getJsonCore() zapcore.Core {
	return zapcore.NewCore(getJsonEncoder(), file, level)
}

func getCombinedCore() zapcore.Core {
	return zapcore.NewTee(getConsoleCore(), getJsonCore())
}
