package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 全局日志实例，InitLogger 之前写入会被丢弃
var Logger = zap.NewNop()

// InitLogger 初始化日志，logFile 非空时同时写入文件
func InitLogger(mode, logFile string) error {
	var config zap.Config

	if mode == "release" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if logFile != "" {
		config.OutputPaths = append(config.OutputPaths, logFile)
	}

	logger, err := config.Build()
	if err != nil {
		return err
	}

	Logger = logger
	return nil
}

// Sync 刷新日志缓冲
func Sync() {
	_ = Logger.Sync()
}
