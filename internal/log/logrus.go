package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

var _ Logger = (*logrusLogger)(nil)

type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger creates a logger writing to stdout and, when logDir is set,
// also to logDir/<name>.log.
func NewLogrusLogger(logLevel, logDir, name string) (Logger, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	l.SetFormatter(&SimpleFormatter{TimestampFormat: "2006/01/02 15:04:05.000000"})

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory '%s': %w", logDir, err)
		}
		logFilePath := filepath.Join(logDir, name+".log")
		logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file '%s': %w", logFilePath, err)
		}
		l.SetOutput(io.MultiWriter(os.Stdout, logFile))
	} else {
		l.SetOutput(os.Stdout)
	}

	return &logrusLogger{entry: logrus.NewEntry(l)}, nil
}

// NewWriterLogger logs to w at the given level. Handy for tests.
func NewWriterLogger(w io.Writer, logLevel string) Logger {
	l := logrus.New()
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	l.SetFormatter(&SimpleFormatter{})
	l.SetOutput(w)
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return NewWriterLogger(io.Discard, "panic")
}

func (l *logrusLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *logrusLogger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *logrusLogger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *logrusLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

func (l *logrusLogger) Fatalf(format string, args ...interface{}) {
	l.entry.Fatalf(format, args...)
}

func (l *logrusLogger) WithField(key string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

// SimpleFormatter writes one compact line per entry:
//
//	2026/01/02 17:30:00.000000 [INF] message key1=value1 key2=value2
type SimpleFormatter struct {
	TimestampFormat string
}

// Format implements logrus.Formatter.
func (f *SimpleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = "2006/01/02 15:04:05.000000"
	}

	b.WriteString(entry.Time.Format(timestampFormat))
	b.WriteString(" ")

	level := strings.ToUpper(entry.Level.String())
	if len(level) > 3 {
		level = level[:3]
	}
	fmt.Fprintf(b, "[%s] ", level)

	b.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
		}
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}
