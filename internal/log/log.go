// Package log wraps zap behind the same call shape the teacher's own
// logger exposes throughout consensus/tendermint and eth/backend.go:
// Info/Debug/Warn/Error/Crit taking a message and key-value varargs.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a structured, leveled logger carrying persistent
// key-value context, the same New(ctx...)/Info(msg, ctx...) shape as
// the teacher's own log.Logger, backed by zap's SugaredLogger.
type Logger struct {
	sugar *zap.SugaredLogger
}

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

func newSugar() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(zapcore.AddSync(os.Stderr)), level)
	return zap.New(core).Sugar()
}

// root is the application's default logger, writing leveled,
// key-value terminal output.
var root = Logger{sugar: newSugar()}

// Root returns the default logger; New(ctx...) returns a child logger
// carrying extra persistent key-value context, matching the teacher's
// own log.New(...) idiom.
func Root() Logger { return root }

func New(ctx ...interface{}) Logger { return root.New(ctx...) }

// SetLevel adjusts the root logger's verbosity.
func SetLevel(lvl zapcore.Level) { level.SetLevel(lvl) }

func (l Logger) New(ctx ...interface{}) Logger { return Logger{sugar: l.sugar.With(ctx...)} }

func (l Logger) Info(msg string, ctx ...interface{})  { l.sugar.Infow(msg, ctx...) }
func (l Logger) Debug(msg string, ctx ...interface{}) { l.sugar.Debugw(msg, ctx...) }
func (l Logger) Warn(msg string, ctx ...interface{})  { l.sugar.Warnw(msg, ctx...) }
func (l Logger) Error(msg string, ctx ...interface{}) { l.sugar.Errorw(msg, ctx...) }

// Crit logs at Error level tagged "level=crit" rather than zap's own
// Fatal, which calls os.Exit directly: process termination on a fatal
// condition is internal/fatal's job alone, so its exitFunc swap stays
// the only exit path exercised by tests.
func (l Logger) Crit(msg string, ctx ...interface{}) {
	l.sugar.Errorw(msg, append(append([]interface{}{}, ctx...), "level", "crit")...)
}

func Info(msg string, ctx ...interface{})  { root.Info(msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { root.Debug(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { root.Error(msg, ctx...) }
func Crit(msg string, ctx ...interface{})  { root.Crit(msg, ctx...) }
