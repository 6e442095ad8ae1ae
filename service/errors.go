package service

import "errors"

// 可用 errors.Is 判别的错误类别
var (
	// ErrSourceUnreadable 源文件缺失或无法解码
	ErrSourceUnreadable = errors.New("source unreadable")
	// ErrInvalidDimensions 目标宽高非正
	ErrInvalidDimensions = errors.New("invalid target dimensions")
	// ErrManifestMalformed transforms 文档不是合法 JSON 或缺少 frames 数组
	ErrManifestMalformed = errors.New("manifest malformed")
)
