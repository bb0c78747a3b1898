package logger

import (
	"careerzoom_backend/internal/config"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const serviceName = "careerzoom-backend"

// Log 在 InitLogger 之前为空实现，测试与工具代码可直接调用
var Log = zap.NewNop()

func InitLogger(cfg *config.Config) {
	Log = newLogger(cfg, zapcore.AddSync(os.Stdout))
}

func newLogger(cfg *config.Config, console zapcore.WriteSyncer) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	file := cfg.Log.File
	if file == "" {
		file = "logs/careerzoom.log"
	}
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   file,
		MaxSize:    orDefault(cfg.Log.MaxSizeMB, 100),
		MaxBackups: orDefault(cfg.Log.MaxBackups, 5),
		MaxAge:     orDefault(cfg.Log.MaxAgeDays, 30),
		Compress:   true,
	})

	level := levelOf(cfg)
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), console, level),
	)

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.Fields(zap.String("service", serviceName), zap.String("mode", cfg.Server.Mode)),
	)
}

// levelOf 显式配置优先，其次按运行模式
func levelOf(cfg *config.Config) zapcore.Level {
	if cfg.Log.Level != "" {
		if lvl, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
			return lvl
		}
	}
	if cfg.Server.Mode == "debug" {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
