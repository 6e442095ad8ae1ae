package service

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"maskkit/utils"
)

const (
	// binaryThreshold 二值化阈值，大于该值的像素记为前景
	binaryThreshold = 127
	// maskForeground 前景像素值
	maskForeground = 255
)

// Resampler 把掩码重采样到目标尺寸并保持严格二值
type Resampler struct{}

// NewResampler 创建掩码重采样器
func NewResampler() *Resampler {
	return &Resampler{}
}

// Resample 先按阈值二值化，再用最近邻插值缩放到 width x height。
// 最近邻不会引入中间灰度值，缩放后无需再次二值化。
func (r *Resampler) Resample(src gocv.Mat, width, height int) (gocv.Mat, error) {
	if width <= 0 || height <= 0 {
		return gocv.NewMat(), fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if src.Empty() {
		return gocv.NewMat(), fmt.Errorf("%w: empty mask", ErrSourceUnreadable)
	}

	binary := gocv.NewMat()
	defer binary.Close()
	if src.Channels() > 1 {
		gray := gocv.NewMat()
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
		gocv.Threshold(gray, &binary, binaryThreshold, maskForeground, gocv.ThresholdBinary)
		gray.Close()
	} else {
		gocv.Threshold(src, &binary, binaryThreshold, maskForeground, gocv.ThresholdBinary)
	}

	resized := gocv.NewMat()
	gocv.Resize(binary, &resized, image.Point{X: width, Y: height}, 0, 0, gocv.InterpolationNearestNeighbor)
	return resized, nil
}

// ResampleFile 读取掩码文件，重采样后写入 outputPath
func (r *Resampler) ResampleFile(inputPath, outputPath string, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	mask := gocv.IMRead(inputPath, gocv.IMReadGrayScale)
	if mask.Empty() {
		return fmt.Errorf("%w: %s", ErrSourceUnreadable, inputPath)
	}
	defer mask.Close()

	resized, err := r.Resample(mask, width, height)
	if err != nil {
		return err
	}
	defer resized.Close()

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if !gocv.IMWrite(outputPath, resized) {
		return fmt.Errorf("failed to write mask: %s", outputPath)
	}

	utils.Logger.Info("mask resampled",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.String("from", fmt.Sprintf("%dx%d", mask.Cols(), mask.Rows())),
		zap.String("to", fmt.Sprintf("%dx%d", width, height)))
	return nil
}
