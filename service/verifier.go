package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	"gonum.org/v1/gonum/stat"

	"maskkit/model"
	"maskkit/utils"
)

const (
	// defaultChunkSize 手动解码路径单次读取的字节数
	defaultChunkSize = 65536
	// defaultSampleLimit 报告中保留的不一致像素样本数
	defaultSampleLimit = 10
)

// verifyThresholds 差分扫描使用的二值化阈值
var verifyThresholds = []uint8{0, 1, 127, 128, 254, 255}

// Verifier 用两条互相独立的解码路径读取同一掩码并逐像素差分。
// 标准路径走 OpenCV，手动路径走分块读取加 Go 原生解码器，
// 两条路径任何一处踩中行填充或颜色模型的坑都会在差分里暴露。
type Verifier struct {
	chunkSize   int
	sampleLimit int
}

// NewVerifier 创建校验器，非正参数取默认值
func NewVerifier(chunkSize, sampleLimit int) *Verifier {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if sampleLimit <= 0 {
		sampleLimit = defaultSampleLimit
	}
	return &Verifier{chunkSize: chunkSize, sampleLimit: sampleLimit}
}

// Verify 对掩码文件做解码差分，返回两条路径的统计和差异报告
func (v *Verifier) Verify(maskPath string) (*model.VerifyReport, error) {
	std, sw, sh, err := v.decodeStandard(maskPath)
	if err != nil {
		return nil, err
	}
	man, mw, mh, colorModel, err := v.decodeManual(maskPath)
	if err != nil {
		return nil, err
	}

	report := &model.VerifyReport{
		Path:      maskPath,
		Standard:  buildPathStats(std, sw, sh, "grayscale"),
		Manual:    buildPathStats(man, mw, mh, colorModel),
		DimsMatch: sw == mw && sh == mh,
		Timestamp: time.Now().Unix(),
	}
	if !report.DimsMatch {
		utils.Logger.Warn("decode paths disagree on dimensions",
			zap.String("path", maskPath),
			zap.String("standard", fmt.Sprintf("%dx%d", sw, sh)),
			zap.String("manual", fmt.Sprintf("%dx%d", mw, mh)))
		return report, nil
	}

	total := int64(len(std))
	for i := range std {
		if std[i] != man[i] {
			report.PixelDiffCount++
			if len(report.Samples) < v.sampleLimit {
				report.Samples = append(report.Samples, model.DiffSample{
					X:        i % sw,
					Y:        i / sw,
					Standard: std[i],
					Manual:   man[i],
				})
			}
		}
		if (std[i] > 0) != (man[i] > 0) {
			report.BoolDiffCount++
		}
	}
	report.PixelDiffPercent = percent(report.PixelDiffCount, total)
	report.BoolDiffPercent = percent(report.BoolDiffCount, total)

	for _, t := range verifyThresholds {
		var count int64
		for i := range std {
			if (std[i] > t) != (man[i] > t) {
				count++
			}
		}
		report.Thresholds = append(report.Thresholds, model.ThresholdDiff{
			Threshold: t,
			Count:     count,
			Percent:   percent(count, total),
		})
	}
	report.Clean = report.PixelDiffCount == 0

	utils.Logger.Info("decode differential completed",
		zap.String("path", maskPath),
		zap.Int64("pixel_diff", report.PixelDiffCount),
		zap.Float64("pixel_diff_percent", report.PixelDiffPercent),
		zap.Bool("clean", report.Clean))
	return report, nil
}

// decodeStandard 标准路径：OpenCV 灰度解码后导出行主序字节
func (v *Verifier) decodeStandard(path string) ([]byte, int, int, error) {
	mat := gocv.IMRead(path, gocv.IMReadGrayScale)
	if mat.Empty() {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrSourceUnreadable, path)
	}
	defer mat.Close()

	data := mat.ToBytes()
	return data, mat.Cols(), mat.Rows(), nil
}

// decodeManual 手动路径：分块读入文件，用 Go 原生解码器解码，
// 再逐行展平成行主序字节。灰度图显式按 Stride 取行，绕开行填充。
func (v *Verifier) decodeManual(path string) ([]byte, int, int, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, "", fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, path, err)
	}
	defer f.Close()

	raw := make([]byte, 0, v.chunkSize)
	buf := make([]byte, v.chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			raw = append(raw, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, 0, "", fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, 0, "", fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, path, err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]byte, 0, w*h)
	switch m := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			off := m.PixOffset(b.Min.X, b.Min.Y+y)
			pixels = append(pixels, m.Pix[off:off+w]...)
		}
	default:
		// 其他颜色模型逐像素转灰度
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
				pixels = append(pixels, g.Y)
			}
		}
	}
	return pixels, w, h, format + "/" + colorModelName(img), nil
}

func colorModelName(img image.Image) string {
	switch img.(type) {
	case *image.Gray:
		return "gray"
	case *image.Gray16:
		return "gray16"
	case *image.Paletted:
		return "paletted"
	case *image.NRGBA:
		return "nrgba"
	case *image.RGBA:
		return "rgba"
	case *image.YCbCr:
		return "ycbcr"
	case *image.CMYK:
		return "cmyk"
	default:
		return "unknown"
	}
}

// buildPathStats 统计一条解码路径的像素分布
func buildPathStats(pixels []byte, w, h int, colorModel string) model.PathStats {
	stats := model.PathStats{
		Width:      w,
		Height:     h,
		ColorModel: colorModel,
		Min:        -1,
		Max:        -1,
		Binary:     true,
	}
	if len(pixels) == 0 {
		stats.Binary = false
		return stats
	}

	var histogram [256]int64
	for _, p := range pixels {
		histogram[p]++
	}
	for v := 0; v < 256; v++ {
		if histogram[v] == 0 {
			continue
		}
		stats.UniqueValues = append(stats.UniqueValues, v)
		if stats.Min < 0 {
			stats.Min = v
		}
		stats.Max = v
		if v != 0 && v != 255 {
			stats.Binary = false
		}
		if v > binaryThreshold {
			stats.Foreground += histogram[v]
		} else {
			stats.Background += histogram[v]
		}
	}

	xs := make([]float64, len(pixels))
	for i, p := range pixels {
		xs[i] = float64(p)
	}
	stats.Mean = stat.Mean(xs, nil)
	if len(xs) > 1 {
		stats.StdDev = stat.StdDev(xs, nil)
	}
	return stats
}

func percent(count, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) * 100 / float64(total)
}
