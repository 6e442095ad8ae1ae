package service

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"maskkit/model"
	"maskkit/utils"
)

// colorizeExts 批量上色接受的图片扩展名（小写）
var colorizeExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// Colorizer 把掩码背景区域涂成指定颜色，前景保持原图
type Colorizer struct{}

// NewColorizer 创建背景上色器
func NewColorizer() *Colorizer {
	return &Colorizer{}
}

// Colorize 返回 img 的副本，掩码为背景（二值化后为 0）的像素被涂成 color。
// 掩码尺寸与图片不一致时先做最近邻缩放，再按阈值二值化。
func (c *Colorizer) Colorize(img gocv.Mat, mask gocv.Mat, color model.BGRColor) (gocv.Mat, error) {
	if img.Empty() {
		return gocv.NewMat(), fmt.Errorf("%w: empty image", ErrSourceUnreadable)
	}
	if mask.Empty() {
		return gocv.NewMat(), fmt.Errorf("%w: empty mask", ErrSourceUnreadable)
	}

	bgr := img
	bgrOwned := false
	if img.Channels() == 1 {
		bgr = gocv.NewMat()
		bgrOwned = true
		gocv.CvtColor(img, &bgr, gocv.ColorGrayToBGR)
	}

	gray := mask
	grayOwned := false
	if mask.Channels() > 1 {
		gray = gocv.NewMat()
		grayOwned = true
		gocv.CvtColor(mask, &gray, gocv.ColorBGRToGray)
	}

	work := gray
	workOwned := false
	if gray.Rows() != bgr.Rows() || gray.Cols() != bgr.Cols() {
		work = gocv.NewMat()
		workOwned = true
		gocv.Resize(gray, &work, image.Point{X: bgr.Cols(), Y: bgr.Rows()}, 0, 0, gocv.InterpolationNearestNeighbor)
	}

	binary := gocv.NewMat()
	gocv.Threshold(work, &binary, binaryThreshold, maskForeground, gocv.ThresholdBinary)
	if workOwned {
		work.Close()
	}
	if grayOwned {
		gray.Close()
	}

	// 反转掩码得到背景区域
	inverted := gocv.NewMat()
	gocv.BitwiseNot(binary, &inverted)
	binary.Close()

	background := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(color.B), float64(color.G), float64(color.R), 0),
		bgr.Rows(), bgr.Cols(), gocv.MatTypeCV8UC3)

	result := bgr.Clone()
	background.CopyToWithMask(&result, inverted)

	background.Close()
	inverted.Close()
	if bgrOwned {
		bgr.Close()
	}
	return result, nil
}

// ColorizeFile 读取图片和掩码，上色后写入 outputPath
func (c *Colorizer) ColorizeFile(imagePath, maskPath, outputPath string, color model.BGRColor) error {
	img := gocv.IMRead(imagePath, gocv.IMReadColor)
	if img.Empty() {
		return fmt.Errorf("%w: %s", ErrSourceUnreadable, imagePath)
	}
	defer img.Close()

	mask := gocv.IMRead(maskPath, gocv.IMReadGrayScale)
	if mask.Empty() {
		return fmt.Errorf("%w: %s", ErrSourceUnreadable, maskPath)
	}
	defer mask.Close()

	out, err := c.Colorize(img, mask, color)
	if err != nil {
		return err
	}
	defer out.Close()

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if !gocv.IMWrite(outputPath, out) {
		return fmt.Errorf("failed to write image: %s", outputPath)
	}
	return nil
}

// ColorizeToPNG 上色后编码为 PNG 字节，返回图片宽高
func (c *Colorizer) ColorizeToPNG(imagePath, maskPath string, color model.BGRColor) ([]byte, int, int, error) {
	img := gocv.IMRead(imagePath, gocv.IMReadColor)
	if img.Empty() {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrSourceUnreadable, imagePath)
	}
	defer img.Close()

	mask := gocv.IMRead(maskPath, gocv.IMReadGrayScale)
	if mask.Empty() {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrSourceUnreadable, maskPath)
	}
	defer mask.Close()

	out, err := c.Colorize(img, mask, color)
	if err != nil {
		return nil, 0, 0, err
	}
	defer out.Close()

	buf, err := gocv.IMEncode(".png", out)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	encoded := make([]byte, len(buf.GetBytes()))
	copy(encoded, buf.GetBytes())
	return encoded, out.Cols(), out.Rows(), nil
}

// ColorizeFolder 对目录下的所有图片套用同一掩码上色，输出到 outputDir。
// 单个文件失败只记录并继续，掩码本身不可读则整体失败。
func (c *Colorizer) ColorizeFolder(ctx context.Context, inputDir, maskPath, outputDir string, color model.BGRColor) (*model.ColorizeReport, error) {
	mask := gocv.IMRead(maskPath, gocv.IMReadGrayScale)
	if mask.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrSourceUnreadable, maskPath)
	}
	defer mask.Close()

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, inputDir, err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !colorizeExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	report := &model.ColorizeReport{InputDir: inputDir, MaskPath: maskPath, OutputDir: outputDir}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		err := c.colorizeOne(mask, filepath.Join(inputDir, name), filepath.Join(outputDir, name), color)
		if err != nil {
			report.Skipped++
			report.Failures = append(report.Failures, model.FileFailure{File: name, Reason: err.Error()})
			utils.Logger.Warn("image skipped", zap.String("file", name), zap.Error(err))
			continue
		}
		report.Processed++
	}

	utils.Logger.Info("colorize completed",
		zap.String("input_dir", inputDir),
		zap.String("output_dir", outputDir),
		zap.Int("processed", report.Processed),
		zap.Int("skipped", report.Skipped))
	return report, nil
}

func (c *Colorizer) colorizeOne(mask gocv.Mat, imagePath, outputPath string, color model.BGRColor) error {
	img := gocv.IMRead(imagePath, gocv.IMReadColor)
	if img.Empty() {
		return fmt.Errorf("%w: %s", ErrSourceUnreadable, imagePath)
	}
	defer img.Close()

	out, err := c.Colorize(img, mask, color)
	if err != nil {
		return err
	}
	defer out.Close()

	if !gocv.IMWrite(outputPath, out) {
		return fmt.Errorf("failed to write image: %s", outputPath)
	}
	return nil
}
