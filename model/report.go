package model

// FileFailure 批处理中单个文件的失败记录
type FileFailure struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// TierReport 单个分辨率层的掩码生成结果
type TierReport struct {
	Tier      string        `json:"tier"`
	ImagesDir string        `json:"images_dir"`
	MasksDir  string        `json:"masks_dir"`
	Seen      int           `json:"seen"`
	Written   int           `json:"written"`
	Skipped   int           `json:"skipped"`
	Failures  []FileFailure `json:"failures,omitempty"`
}

// SynthesisReport 一次多层掩码生成的汇总结果
type SynthesisReport struct {
	SourceMask   string       `json:"source_mask"`
	SourceMD5    string       `json:"source_md5,omitempty"`
	Tiers        []TierReport `json:"tiers"`
	TotalWritten int          `json:"total_written"`
	TotalSkipped int          `json:"total_skipped"`
}

// ColorizeReport 批量背景上色的汇总结果
type ColorizeReport struct {
	InputDir  string        `json:"input_dir"`
	MaskPath  string        `json:"mask_path"`
	OutputDir string        `json:"output_dir"`
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Failures  []FileFailure `json:"failures,omitempty"`
}

// ManifestReport 一次 transforms.json 掩码路径写入的结果
type ManifestReport struct {
	Input   string `json:"input"`
	Output  string `json:"output"`
	Frames  int    `json:"frames"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
}

// PathStats 单条解码路径得到的像素统计
type PathStats struct {
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	ColorModel   string  `json:"color_model"`
	UniqueValues []int   `json:"unique_values"`
	Min          int     `json:"min"`
	Max          int     `json:"max"`
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Foreground   int64   `json:"foreground"`
	Background   int64   `json:"background"`
	Binary       bool    `json:"binary"`
}

// DiffSample 一个不一致像素的坐标和两条路径的取值
type DiffSample struct {
	X        int   `json:"x"`
	Y        int   `json:"y"`
	Standard uint8 `json:"standard"`
	Manual   uint8 `json:"manual"`
}

// ThresholdDiff 某个二值化阈值下两条路径的不一致统计
type ThresholdDiff struct {
	Threshold uint8   `json:"threshold"`
	Count     int64   `json:"count"`
	Percent   float64 `json:"percent"`
}

// VerifyReport 解码差分校验报告
type VerifyReport struct {
	Path             string          `json:"path"`
	MD5              string          `json:"md5,omitempty"`
	Standard         PathStats       `json:"standard"`
	Manual           PathStats       `json:"manual"`
	DimsMatch        bool            `json:"dims_match"`
	PixelDiffCount   int64           `json:"pixel_diff_count"`
	PixelDiffPercent float64         `json:"pixel_diff_percent"`
	Samples          []DiffSample    `json:"samples,omitempty"`
	BoolDiffCount    int64           `json:"bool_diff_count"`
	BoolDiffPercent  float64         `json:"bool_diff_percent"`
	Thresholds       []ThresholdDiff `json:"thresholds"`
	Clean            bool            `json:"clean"`
	Timestamp        int64           `json:"timestamp"`
}

// VerifyResponse 校验接口的响应
type VerifyResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    *VerifyReport `json:"data,omitempty"`
}

// OverlayResponse 上色预览接口的响应
type OverlayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Image   string `json:"image"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
