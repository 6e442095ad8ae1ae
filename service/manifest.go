package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"maskkit/model"
	"maskkit/utils"
)

// ManifestDeriver 把掩码路径写入 transforms.json 的每个 frame
type ManifestDeriver struct {
	maskDir    string
	maskSuffix string
}

// NewManifestDeriver 创建路径推导器，空参数取默认值 "mask" 和 "_mask"
func NewManifestDeriver(maskDir, maskSuffix string) *ManifestDeriver {
	if maskDir == "" {
		maskDir = "mask"
	}
	if maskSuffix == "" {
		maskSuffix = "_mask"
	}
	return &ManifestDeriver{maskDir: maskDir, maskSuffix: maskSuffix}
}

// DeriveMaskPath 从图片路径推导掩码路径。
// 纯字符串变换，不访问文件系统，扩展名大小写保持原样：
// images/shot001.JPG -> images/mask/shot001_mask.JPG
func (d *ManifestDeriver) DeriveMaskPath(filePath string) string {
	dir := path.Dir(filePath)
	ext := path.Ext(filePath)
	stem := strings.TrimSuffix(path.Base(filePath), ext)
	return path.Join(dir, d.maskDir, stem+d.maskSuffix+ext)
}

// Derive 为文档中每个带 file_path 的 frame 写入 mask_path，
// 返回重新缩进后的文档和更新的 frame 数。字段顺序保持不变。
func (d *ManifestDeriver) Derive(doc []byte) ([]byte, int, error) {
	if !gjson.ValidBytes(doc) {
		return nil, 0, fmt.Errorf("%w: not valid JSON", ErrManifestMalformed)
	}
	frames := gjson.GetBytes(doc, "frames")
	if !frames.Exists() || !frames.IsArray() {
		return nil, 0, fmt.Errorf("%w: missing frames array", ErrManifestMalformed)
	}

	type frameEdit struct {
		index    int
		maskPath string
	}
	var edits []frameEdit
	for i, frame := range frames.Array() {
		fp := frame.Get("file_path")
		if fp.Type != gjson.String {
			// 没有 file_path 的 frame 保持原样
			continue
		}
		edits = append(edits, frameEdit{index: i, maskPath: d.DeriveMaskPath(fp.Str)})
	}

	out := doc
	var err error
	for _, e := range edits {
		out, err = sjson.SetBytes(out, fmt.Sprintf("frames.%d.mask_path", e.index), e.maskPath)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to set mask_path: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, out, "", "  "); err != nil {
		return nil, 0, fmt.Errorf("failed to indent manifest: %w", err)
	}
	return buf.Bytes(), len(edits), nil
}

// DeriveFile 读取 transforms 文件并写回，outputPath 为空时原地覆盖。
// 写入先落临时文件再重命名，避免中断留下半截文档。
func (d *ManifestDeriver) DeriveFile(inputPath, outputPath string) (*model.ManifestReport, error) {
	doc, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	out, updated, err := d.Derive(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", inputPath, err)
	}

	if outputPath == "" {
		outputPath = inputPath
	}
	if err := writeFileAtomic(outputPath, out); err != nil {
		return nil, err
	}

	total := int(gjson.GetBytes(doc, "frames.#").Int())
	report := &model.ManifestReport{
		Input:   inputPath,
		Output:  outputPath,
		Frames:  total,
		Updated: updated,
		Skipped: total - updated,
	}

	utils.Logger.Info("mask paths derived",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.Int("frames", total),
		zap.Int("updated", updated))
	if first := gjson.GetBytes(out, "frames.0"); first.Exists() {
		utils.Logger.Debug("first frame",
			zap.String("file_path", first.Get("file_path").Str),
			zap.String("mask_path", first.Get("mask_path").Str))
	}
	return report, nil
}

// writeFileAtomic 先写同目录临时文件，再原子重命名到目标路径
func writeFileAtomic(outputPath string, data []byte) error {
	dir := filepath.Dir(outputPath)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, outputPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace manifest: %w", err)
	}
	return nil
}
