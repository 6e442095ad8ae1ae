package service

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"maskkit/model"
	"maskkit/utils"
)

// tierImageExts 层目录中参与配对的图片扩展名（小写）
var tierImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Synthesizer 为每个分辨率层生成与图片同名的掩码
type Synthesizer struct {
	resampler *Resampler
	workers   int
}

// NewSynthesizer 创建掩码生成器，workers 控制单层内的并发数
func NewSynthesizer(resampler *Resampler, workers int) *Synthesizer {
	if workers < 1 {
		workers = 1
	}
	return &Synthesizer{resampler: resampler, workers: workers}
}

// MaskDirName 按图片目录名推导掩码目录名：images_4 -> masks_4，images -> masks_
func MaskDirName(imagesName string) string {
	factor := ""
	if i := strings.LastIndex(imagesName, "_"); i >= 0 {
		factor = imagesName[i+1:]
	}
	return "masks_" + factor
}

// TiersFor 按目录约定为数据根目录下的各图片目录构造层描述
func TiersFor(dataDir string, imageDirs []string) []model.Tier {
	tiers := make([]model.Tier, 0, len(imageDirs))
	for _, name := range imageDirs {
		tiers = append(tiers, model.Tier{
			Name:      name,
			ImagesDir: filepath.Join(dataDir, name),
			MasksDir:  filepath.Join(dataDir, MaskDirName(name)),
		})
	}
	return tiers
}

// Synthesize 把单个源掩码重采样到每个层的图片尺寸。
// 单个图片失败只记录并跳过，源掩码不可读则整体失败。
func (s *Synthesizer) Synthesize(ctx context.Context, sourceMaskPath string, tiers []model.Tier) (*model.SynthesisReport, error) {
	source := gocv.IMRead(sourceMaskPath, gocv.IMReadGrayScale)
	if source.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrSourceUnreadable, sourceMaskPath)
	}
	defer source.Close()

	report := &model.SynthesisReport{SourceMask: sourceMaskPath}
	if md5, err := utils.FileMD5(sourceMaskPath); err == nil {
		report.SourceMD5 = md5
	}

	for _, tier := range tiers {
		tr := s.synthesizeTier(ctx, source, tier)
		report.Tiers = append(report.Tiers, tr)
		report.TotalWritten += tr.Written
		report.TotalSkipped += tr.Skipped
		if err := ctx.Err(); err != nil {
			return report, err
		}
	}

	utils.Logger.Info("mask synthesis completed",
		zap.String("source", sourceMaskPath),
		zap.Int("tiers", len(report.Tiers)),
		zap.Int("written", report.TotalWritten),
		zap.Int("skipped", report.TotalSkipped))
	return report, nil
}

func (s *Synthesizer) synthesizeTier(ctx context.Context, source gocv.Mat, tier model.Tier) model.TierReport {
	tr := model.TierReport{Tier: tier.Name, ImagesDir: tier.ImagesDir, MasksDir: tier.MasksDir}

	if err := os.MkdirAll(tier.MasksDir, 0755); err != nil {
		tr.Failures = append(tr.Failures, model.FileFailure{File: tier.MasksDir, Reason: err.Error()})
		utils.Logger.Warn("failed to create masks directory", zap.String("tier", tier.Name), zap.Error(err))
		return tr
	}
	entries, err := os.ReadDir(tier.ImagesDir)
	if err != nil {
		tr.Failures = append(tr.Failures, model.FileFailure{File: tier.ImagesDir, Reason: err.Error()})
		utils.Logger.Warn("failed to read images directory", zap.String("tier", tier.Name), zap.Error(err))
		return tr
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.workers)
	)
	for _, entry := range entries {
		if entry.IsDir() || !tierImageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		name := entry.Name()
		tr.Seen++

		// 并发控制
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			err := s.deriveOne(source, filepath.Join(tier.ImagesDir, name), filepath.Join(tier.MasksDir, name))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				tr.Skipped++
				tr.Failures = append(tr.Failures, model.FileFailure{File: name, Reason: err.Error()})
				utils.Logger.Warn("image skipped",
					zap.String("tier", tier.Name),
					zap.String("file", name),
					zap.Error(err))
				return
			}
			tr.Written++
		}()
	}
	wg.Wait()

	utils.Logger.Info("tier masks written",
		zap.String("tier", tier.Name),
		zap.String("masks_dir", tier.MasksDir),
		zap.Int("seen", tr.Seen),
		zap.Int("written", tr.Written),
		zap.Int("skipped", tr.Skipped))
	return tr
}

// deriveOne 按单张图片的尺寸重采样源掩码，并写成同名文件
func (s *Synthesizer) deriveOne(source gocv.Mat, imagePath, maskPath string) error {
	width, height, err := imageSize(imagePath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, imagePath, err)
	}

	mask, err := s.resampler.Resample(source, width, height)
	if err != nil {
		return err
	}
	defer mask.Close()

	if !gocv.IMWrite(maskPath, mask) {
		return fmt.Errorf("failed to write mask: %s", maskPath)
	}
	return nil
}

// imageSize 只解码文件头取得图片尺寸
func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
