package log

import "go.uber.org/zap"

type Logger interface {
	Debug(msg string, keyAndValues ...interface{})
	Info(msg string, keyAndValues ...interface{})
	Warn(msg string, keyAndValues ...interface{})
	Error(msg string, keyAndValues ...interface{})
	Fatal(msg string, keyAndValues ...interface{})
	// With returns a logger that adds keyAndValues to every entry
	With(keyAndValues ...interface{}) Logger
}

type ZapLogger struct {
	inner *zap.SugaredLogger
}

func NewZapLogger(log *zap.Logger) ZapLogger {
	return ZapLogger{inner: log.Sugar()}
}

// NewZapLoggerWithLevel builds a production logger, debug enables debug entries
func NewZapLoggerWithLevel(debug bool) (ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return ZapLogger{}, err
	}
	return NewZapLogger(logger), nil
}

func (l ZapLogger) Debug(msg string, keyAndValues ...interface{}) {
	l.inner.Debugw(msg, keyAndValues...)
}

func (l ZapLogger) Info(msg string, keyAndValues ...interface{}) {
	l.inner.Infow(msg, keyAndValues...)
}

func (l ZapLogger) Warn(msg string, keyAndValues ...interface{}) {
	l.inner.Warnw(msg, keyAndValues...)
}

func (l ZapLogger) Error(msg string, keyAndValues ...interface{}) {
	l.inner.Errorw(msg, keyAndValues...)
}

func (l ZapLogger) Fatal(msg string, keyAndValues ...interface{}) {
	l.inner.Fatalw(msg, keyAndValues...)
}

func (l ZapLogger) With(keyAndValues ...interface{}) Logger {
	return ZapLogger{inner: l.inner.With(keyAndValues...)}
}
