package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Tier 一个分辨率层：一组同尺寸图片目录和对应的掩码目录
type Tier struct {
	Name      string `json:"name"`
	ImagesDir string `json:"images_dir"`
	MasksDir  string `json:"masks_dir"`
}

// BGRColor OpenCV 通道顺序的颜色
type BGRColor struct {
	B uint8 `json:"b"`
	G uint8 `json:"g"`
	R uint8 `json:"r"`
}

// DefaultOverlayColor 背景上色的默认颜色（红色）
var DefaultOverlayColor = BGRColor{B: 0, G: 0, R: 255}

// ParseBGRColor 解析 "B,G,R" 形式的颜色串
func ParseBGRColor(s string) (BGRColor, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return BGRColor{}, fmt.Errorf("invalid color %q: expected B,G,R", s)
	}
	var vals [3]uint8
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return BGRColor{}, fmt.Errorf("invalid color component %q: must be 0-255", p)
		}
		vals[i] = uint8(n)
	}
	return BGRColor{B: vals[0], G: vals[1], R: vals[2]}, nil
}

// BGRFromSlice 把配置里的 [B, G, R] 列表转成颜色
func BGRFromSlice(vals []int) (BGRColor, error) {
	if len(vals) != 3 {
		return BGRColor{}, fmt.Errorf("invalid color %v: expected 3 components", vals)
	}
	for _, n := range vals {
		if n < 0 || n > 255 {
			return BGRColor{}, fmt.Errorf("invalid color component %d: must be 0-255", n)
		}
	}
	return BGRColor{B: uint8(vals[0]), G: uint8(vals[1]), R: uint8(vals[2])}, nil
}
