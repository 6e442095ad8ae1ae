package service

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVerifyCleanBinaryMask(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "mask.png")
	writeMaskPNG(t, p, 64, 64, blockMask(64, 64, 10))

	report, err := NewVerifier(0, 0).Verify(p)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if !report.DimsMatch {
		t.Fatal("decode paths disagree on dimensions")
	}
	if report.Standard.Width != 64 || report.Standard.Height != 64 {
		t.Errorf("standard dims = %dx%d", report.Standard.Width, report.Standard.Height)
	}
	if report.PixelDiffCount != 0 || report.BoolDiffCount != 0 {
		t.Errorf("pixel diff = %d, bool diff = %d, want 0", report.PixelDiffCount, report.BoolDiffCount)
	}
	if len(report.Thresholds) != 6 {
		t.Fatalf("thresholds = %d, want 6", len(report.Thresholds))
	}
	for _, td := range report.Thresholds {
		if td.Count != 0 {
			t.Errorf("threshold %d: %d diffs, want 0", td.Threshold, td.Count)
		}
	}
	if !report.Clean {
		t.Error("expected clean report")
	}
	if !report.Standard.Binary || !report.Manual.Binary {
		t.Error("expected strictly binary values on both paths")
	}
	if got := report.Standard.UniqueValues; len(got) != 2 || got[0] != 0 || got[1] != 255 {
		t.Errorf("unique values = %v, want [0 255]", got)
	}
	if report.Standard.Background != 100 || report.Standard.Foreground != 64*64-100 {
		t.Errorf("foreground = %d, background = %d", report.Standard.Foreground, report.Standard.Background)
	}
	if report.Manual.ColorModel != "png/gray" {
		t.Errorf("manual color model = %q, want png/gray", report.Manual.ColorModel)
	}
}

func TestVerifyGrayMask(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "gray.png")
	pixels := make([]byte, 16*16)
	for i := range pixels {
		pixels[i] = 128
	}
	writeMaskPNG(t, p, 16, 16, pixels)

	report, err := NewVerifier(0, 0).Verify(p)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if report.Standard.Binary {
		t.Error("uniform 128 is not strictly binary")
	}
	if got := report.Standard.UniqueValues; len(got) != 1 || got[0] != 128 {
		t.Errorf("unique values = %v, want [128]", got)
	}
	if math.Abs(report.Standard.Mean-128) > 1e-9 {
		t.Errorf("mean = %f, want 128", report.Standard.Mean)
	}
	if report.Standard.StdDev != 0 {
		t.Errorf("stddev = %f, want 0", report.Standard.StdDev)
	}
	// 128 > 127，全部算前景
	if report.Standard.Foreground != 256 || report.Standard.Background != 0 {
		t.Errorf("foreground = %d, background = %d", report.Standard.Foreground, report.Standard.Background)
	}
	if !report.Clean {
		t.Error("both decoders should agree on a plain png")
	}
}

func TestVerifyStats(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "half.png")
	pixels := make([]byte, 16*16)
	for i := 128; i < 256; i++ {
		pixels[i] = 255
	}
	writeMaskPNG(t, p, 16, 16, pixels)

	report, err := NewVerifier(0, 0).Verify(p)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if math.Abs(report.Standard.Mean-127.5) > 1e-9 {
		t.Errorf("mean = %f, want 127.5", report.Standard.Mean)
	}
	// 样本标准差 sqrt(256/255) * 127.5
	want := 127.5 * math.Sqrt(256.0/255.0)
	if math.Abs(report.Standard.StdDev-want) > 1e-9 {
		t.Errorf("stddev = %f, want %f", report.Standard.StdDev, want)
	}
	if report.Standard.Min != 0 || report.Standard.Max != 255 {
		t.Errorf("range = [%d, %d], want [0, 255]", report.Standard.Min, report.Standard.Max)
	}
}

func TestVerifyChunkSmallerThanFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "mask.png")
	writeMaskPNG(t, p, 32, 32, blockMask(32, 32, 8))

	// 分块远小于文件大小时，手动路径仍要完整读取
	report, err := NewVerifier(16, 5).Verify(p)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.DimsMatch || !report.Clean {
		t.Errorf("dims_match = %v, clean = %v", report.DimsMatch, report.Clean)
	}
}

func TestVerifyBMPMask(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "mask.bmp")
	writeMaskPNG(t, p, 32, 32, blockMask(32, 32, 8))

	report, err := NewVerifier(0, 0).Verify(p)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.Clean {
		t.Errorf("bmp mask should verify clean, pixel diff = %d", report.PixelDiffCount)
	}
	if !strings.HasPrefix(report.Manual.ColorModel, "bmp/") {
		t.Errorf("manual color model = %q, want bmp/*", report.Manual.ColorModel)
	}
}

func TestVerifyMissingFile(t *testing.T) {
	_, err := NewVerifier(0, 0).Verify(filepath.Join(t.TempDir(), "none.png"))
	if !errors.Is(err, ErrSourceUnreadable) {
		t.Fatalf("err = %v, want ErrSourceUnreadable", err)
	}
}

func TestVerifyCorruptFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(p, []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := NewVerifier(0, 0).Verify(p)
	if !errors.Is(err, ErrSourceUnreadable) {
		t.Fatalf("err = %v, want ErrSourceUnreadable", err)
	}
}

func TestBuildPathStats(t *testing.T) {
	s := buildPathStats([]byte{0, 255, 255, 128}, 2, 2, "gray")
	if got := s.UniqueValues; len(got) != 3 || got[0] != 0 || got[1] != 128 || got[2] != 255 {
		t.Errorf("unique values = %v, want [0 128 255]", got)
	}
	if s.Min != 0 || s.Max != 255 {
		t.Errorf("range = [%d, %d]", s.Min, s.Max)
	}
	if s.Binary {
		t.Error("128 should break strict binarity")
	}
	if s.Foreground != 3 || s.Background != 1 {
		t.Errorf("foreground = %d, background = %d", s.Foreground, s.Background)
	}
	if math.Abs(s.Mean-159.5) > 1e-9 {
		t.Errorf("mean = %f, want 159.5", s.Mean)
	}
}
