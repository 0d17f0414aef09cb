package logger

import (
	"os"
	"path/filepath"

	"github.com/pnccp/pnccp-backend/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger 全局日志实例
	Logger = zap.NewNop()
	// Sugar 带格式化的日志实例
	Sugar = Logger.Sugar()
)

// Init 初始化日志系统
func Init(cfg *config.LoggingConfig) error {
	level := parseLevel(cfg.Level)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	// 文件输出：JSON 格式、无颜色
	fileEncoderConfig := encoderConfig
	fileEncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	consoleCore := func() zapcore.Core {
		return zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), level)
	}
	fileCore := func() (zapcore.Core, error) {
		fileWriter, err := getFileWriter(cfg.File)
		if err != nil {
			return nil, err
		}
		return zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(fileWriter), level), nil
	}

	var cores []zapcore.Core
	switch cfg.Output {
	case "file", "both":
		core, err := fileCore()
		if err != nil {
			return err
		}
		cores = append(cores, core)
		if cfg.Output == "both" {
			cores = append(cores, consoleCore())
		}
	default:
		cores = append(cores, consoleCore())
	}

	Logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	Sugar = Logger.Sugar()
	zap.ReplaceGlobals(Logger)

	Sugar.Infof("Logger initialized: output=%s, level=%s", cfg.Output, level.String())
	return nil
}

// getFileWriter 获取文件写入器
func getFileWriter(logFile string) (*os.File, error) {
	if logFile == "" {
		logFile = "logs/pnccp.log"
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// parseLevel 解析日志级别
func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func Debug(msg string, fields ...zap.Field) { Logger.Debug(msg, fields...) }

func Debugf(format string, args ...interface{}) { Sugar.Debugf(format, args...) }

func Info(msg string, fields ...zap.Field) { Logger.Info(msg, fields...) }

func Infof(format string, args ...interface{}) { Sugar.Infof(format, args...) }

func Warn(msg string, fields ...zap.Field) { Logger.Warn(msg, fields...) }

func Warnf(format string, args ...interface{}) { Sugar.Warnf(format, args...) }

func Error(msg string, fields ...zap.Field) { Logger.Error(msg, fields...) }

func Errorf(format string, args ...interface{}) { Sugar.Errorf(format, args...) }

// Fatalf 格式化致命错误日志（会退出程序）
func Fatalf(format string, args ...interface{}) { Sugar.Fatalf(format, args...) }

// Sync 刷新缓冲区
func Sync() {
	_ = Logger.Sync()
}

// With 创建带字段的子 logger
func With(fields ...zap.Field) *zap.Logger {
	return Logger.With(fields...)
}
