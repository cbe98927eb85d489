package log // import "github.com/Xunop/json2epub/internal/log"

import (
	"fmt"
	"os"
	"strings"

	"github.com/Xunop/json2epub/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger starts as a console logger so that packages can log before Setup
// has read the configuration.
var Logger = newZap(nil, zapcore.InfoLevel)

func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Logger.Error(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	Logger.Fatal(msg, fields...)
}

// Fallback prints msg without going through zap, for failures that happen
// before the logger is usable.
func Fallback(level string, msg string) {
	switch level {
	case "Error":
		fmt.Fprintln(os.Stderr, msg)
	case "Debug":
		if config.Opts != nil && strings.EqualFold(config.Opts.LogLevel, "debug") {
			fmt.Fprintln(os.Stderr, msg)
		}
	default:
		fmt.Fprintln(os.Stderr, msg)
	}
}

// Setup replaces Logger with one built from config.Opts.
func Setup() {
	Logger = NewLogger()
}

func NewLogger() *zap.Logger {
	if config.Opts == nil {
		config.GetDefaultOptions()
	}
	level := parseLevel(config.Opts.LogLevel)
	if config.Opts.LogFile == "" {
		return newZap(nil, level)
	}

	rotationLog := &lumberjack.Logger{
		Filename:   config.Opts.LogFile,
		MaxSize:    config.Opts.LogFileMaxSize, // megabytes
		MaxBackups: config.Opts.LogFileMaxBackups,
		MaxAge:     config.Opts.LogFileMaxAge, // days
		Compress:   config.Opts.LogCompress,
	}
	return newZap(rotationLog, level)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// newZap logs to stderr, and also as JSON to rotationLog when it is set.
// Stdout is left alone because convert can stream the archive there.
func newZap(rotationLog *lumberjack.Logger, level zapcore.Level) *zap.Logger {
	encodeConfig := zap.NewProductionEncoderConfig()
	encodeConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encodeConfig)
	consoleWriter := zapcore.Lock(zapcore.AddSync(os.Stderr))
	core := zapcore.NewCore(consoleEncoder, consoleWriter, level)

	if rotationLog != nil {
		fileEncoder := zapcore.NewJSONEncoder(encodeConfig)
		rotationWrite := zapcore.AddSync(rotationLog)
		rotationCore := zapcore.NewCore(fileEncoder, rotationWrite, level)
		core = zapcore.NewTee(core, rotationCore)
	}

	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
}
