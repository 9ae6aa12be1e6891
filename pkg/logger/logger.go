package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 全局日志实例，Init 之前为空实现
var Logger = zap.NewNop()

// Init 初始化日志系统
// output: stdout | file | both，file 与 both 需要 filePath
func Init(level, format, output, filePath string) error {
	zapLevel, err := parseLevel(level)
	if err != nil {
		return err
	}

	writeSyncer, err := openOutput(output, filePath)
	if err != nil {
		return err
	}

	core := zapcore.NewCore(newEncoder(format), writeSyncer, zapLevel)
	Logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return nil
}

func parseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return l, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

func newEncoder(format string) zapcore.Encoder {
	if format == "json" {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(cfg)
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder // 彩色输出
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func openOutput(output, filePath string) (zapcore.WriteSyncer, error) {
	stdout := zapcore.AddSync(os.Stdout)
	if output != "file" && output != "both" {
		return stdout, nil
	}
	if filePath == "" {
		return nil, fmt.Errorf("log output %q requires file_path", output)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	if output == "both" {
		return zapcore.NewMultiWriteSyncer(stdout, zapcore.AddSync(file)), nil
	}
	return zapcore.AddSync(file), nil
}

// Sync 刷新日志缓冲区
func Sync() {
	_ = Logger.Sync()
}

// Debug 调试日志
func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

// Info 信息日志
func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

// Warn 警告日志
func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

// Error 错误日志
func Error(msg string, fields ...zap.Field) {
	Logger.Error(msg, fields...)
}

// Fatal 致命错误日志（会退出程序）
func Fatal(msg string, fields ...zap.Field) {
	Logger.Fatal(msg, fields...)
}

// With 创建带有字段的子Logger
func With(fields ...zap.Field) *zap.Logger {
	return Logger.With(fields...)
}

// Named 按组件命名的子Logger，如 worker、importer
func Named(component string) *zap.Logger {
	return Logger.Named(component)
}
