package utils

import (
	"fmt"
	"time"
)

// TempName 生成基于时间戳的临时文件名，ext 含点号（如 ".png"）
func TempName(ext string) string {
	return fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
}
