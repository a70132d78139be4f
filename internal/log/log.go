// Package log configures the process-wide structured logger.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

// RequestIDKey is the context key carrying a request ID.
var RequestIDKey = ctxKey{}

// Fields is an alias for logrus.Fields.
type Fields = logrus.Fields

// Options controls logger setup.
type Options struct {
	Level   string
	File    string
	NoColor bool
}

var (
	logger = logrus.New()
	once   sync.Once
)

// Setup configures the shared logger. Only the first call has an effect.
func Setup(opts Options) error {
	var err error
	once.Do(func() {
		level := logrus.InfoLevel
		if opts.Level != "" {
			level, err = logrus.ParseLevel(opts.Level)
			if err != nil {
				err = fmt.Errorf("parse log level: %w", err)
				return
			}
		}
		logger.SetLevel(level)

		logger.SetFormatter(&formatter.Formatter{
			NoColors:        opts.NoColor,
			TimestampFormat: "02 Jan 06 - 15:04:05",
			CallerFirst:     true,
			CustomCallerFormatter: func(f *runtime.Frame) string {
				s := strings.Split(f.Function, ".")
				return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, s[len(s)-1])
			},
		})
		logger.SetReportCaller(true)

		writers := []io.Writer{os.Stderr}
		if opts.File != "" {
			writers = append(writers, &lumberjack.Logger{
				Filename:   opts.File,
				LocalTime:  true,
				Compress:   true,
				MaxSize:    50,
				MaxAge:     7,
				MaxBackups: 3,
			})
		}
		logger.SetOutput(io.MultiWriter(writers...))
	})
	return err
}

// Logger returns the shared logger.
func Logger() *logrus.Logger {
	return logger
}

func Debug(fields Fields, msg string) { logger.WithFields(fields).Debug(msg) }
func Info(fields Fields, msg string)  { logger.WithFields(fields).Info(msg) }
func Warn(fields Fields, msg string)  { logger.WithFields(fields).Warn(msg) }
func Error(fields Fields, msg string) { logger.WithFields(fields).Error(msg) }

// WithRequestID returns an entry tagged with the request ID in ctx.
func WithRequestID(ctx context.Context) *logrus.Entry {
	id := "unknown"
	if ctx != nil {
		if v, ok := ctx.Value(RequestIDKey).(string); ok && v != "" {
			id = v
		}
	}
	return logger.WithField("request_id", id)
}

// ContextWithRequestID stores a fresh request ID in ctx.
func ContextWithRequestID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, RequestIDKey, id), id
}
