package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

const (
	loggerName    = "blasperin"
	logTimeLayout = "2006-01-02 15:04:05.000"
	logFilePerm   = 0644
	levelDebug    = "DEBUG"
	levelInfo     = "INFO"
	levelWarn     = "WARN"
	levelError    = "ERROR"
)

// Logger writes "time - name - LEVEL - message" lines to every configured sink
type Logger struct {
	out   *log.Logger
	file  *os.File
	debug bool
	now   func() time.Time
}

// NewLogger creates a logger writing to stdout and appending to logFile
func NewLogger(logFile string, debug bool) (*Logger, error) {
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", logFile, err)
	}

	l := NewWriterLogger(io.MultiWriter(os.Stdout, f), debug)
	l.file = f
	return l, nil
}

// NewWriterLogger creates a logger writing to w only
func NewWriterLogger(w io.Writer, debug bool) *Logger {
	return &Logger{
		out:   log.New(w, "", 0),
		debug: debug,
		now:   time.Now,
	}
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.debug {
		l.printf(levelDebug, format, args...)
	}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.printf(levelInfo, format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.printf(levelWarn, format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.printf(levelError, format, args...)
}

func (l *Logger) printf(level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.out.Printf("%s - %s - %s - %s", l.now().Format(logTimeLayout), loggerName, level, msg)
}
