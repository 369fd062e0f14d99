package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base = zap.NewNop()

func Init() {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	base = l
	base.Info("logger initialized")
}

func zfields(fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func Info(msg string, fields map[string]any) {
	base.Info(msg, zfields(fields)...)
}

func Warn(msg string, fields map[string]any) {
	base.Warn(msg, zfields(fields)...)
}

func Error(msg string, fields map[string]any) {
	base.Error(msg, zfields(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	base.Fatal(msg, zfields(fields)...)
}
