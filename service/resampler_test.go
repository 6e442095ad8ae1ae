package service

import (
	"errors"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
)

// newUniformMask 生成单通道纯色掩码
func newUniformMask(t *testing.T, rows, cols int, value uint8) gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(float64(value), 0, 0, 0), rows, cols, gocv.MatTypeCV8U)
	if mat.Empty() {
		t.Fatal("failed to create mat")
	}
	return mat
}

// matPixels 导出行主序像素字节
func matPixels(t *testing.T, mat gocv.Mat) []byte {
	t.Helper()
	return mat.ToBytes()
}

// blockMask 生成全 255、左上角 block x block 为 0 的掩码字节
func blockMask(rows, cols, block int) []byte {
	pixels := make([]byte, rows*cols)
	for i := range pixels {
		pixels[i] = 255
	}
	for y := 0; y < block; y++ {
		for x := 0; x < block; x++ {
			pixels[y*cols+x] = 0
		}
	}
	return pixels
}

// writeMaskPNG 把掩码字节写成灰度图片文件，格式由扩展名决定
func writeMaskPNG(t *testing.T, path string, rows, cols int, pixels []byte) {
	t.Helper()
	mat, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8U, pixels)
	if err != nil {
		t.Fatalf("NewMatFromBytes: %v", err)
	}
	defer mat.Close()
	if !gocv.IMWrite(path, mat) {
		t.Fatalf("IMWrite %s failed", path)
	}
}

func TestResampleUniform(t *testing.T) {
	tests := []struct {
		name  string
		value uint8
		want  uint8
	}{
		{"below threshold", 64, 0},
		{"above threshold", 190, 255},
		{"at threshold", 127, 0},
		{"just above threshold", 128, 255},
	}

	r := NewResampler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newUniformMask(t, 16, 16, tt.value)
			defer src.Close()

			out, err := r.Resample(src, 32, 8)
			if err != nil {
				t.Fatalf("Resample: %v", err)
			}
			defer out.Close()

			if out.Cols() != 32 || out.Rows() != 8 {
				t.Fatalf("got %dx%d, want 32x8", out.Cols(), out.Rows())
			}
			for i, p := range matPixels(t, out) {
				if p != tt.want {
					t.Fatalf("pixel %d = %d, want %d", i, p, tt.want)
				}
			}
		})
	}
}

func TestResampleMixedStaysBinary(t *testing.T) {
	// 输入含 0..255 各灰度，输出只允许 0 和 255
	pixels := make([]byte, 16*16)
	for i := range pixels {
		pixels[i] = uint8(i)
	}
	src, err := gocv.NewMatFromBytes(16, 16, gocv.MatTypeCV8U, pixels)
	if err != nil {
		t.Fatalf("NewMatFromBytes: %v", err)
	}
	defer src.Close()

	for _, dims := range [][2]int{{7, 5}, {16, 16}, {64, 48}} {
		out, err := NewResampler().Resample(src, dims[0], dims[1])
		if err != nil {
			t.Fatalf("Resample(%d, %d): %v", dims[0], dims[1], err)
		}
		for i, p := range matPixels(t, out) {
			if p != 0 && p != 255 {
				out.Close()
				t.Fatalf("%dx%d: pixel %d = %d, want 0 or 255", dims[0], dims[1], i, p)
			}
		}
		out.Close()
	}
}

func TestResampleColorInputConverted(t *testing.T) {
	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(200, 200, 200, 0), 8, 8, gocv.MatTypeCV8UC3)
	defer src.Close()

	out, err := NewResampler().Resample(src, 4, 4)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	defer out.Close()

	if out.Channels() != 1 {
		t.Fatalf("channels = %d, want 1", out.Channels())
	}
	for i, p := range matPixels(t, out) {
		if p != 255 {
			t.Fatalf("pixel %d = %d, want 255", i, p)
		}
	}
}

func TestResampleInvalidDimensions(t *testing.T) {
	r := NewResampler()
	src := newUniformMask(t, 8, 8, 255)
	defer src.Close()

	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 10}, {10, -3}} {
		if _, err := r.Resample(src, dims[0], dims[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("Resample(%d, %d): err = %v, want ErrInvalidDimensions", dims[0], dims[1], err)
		}
	}
}

func TestResampleFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "mask.png")
	writeMaskPNG(t, input, 64, 64, blockMask(64, 64, 10))

	// 输出目录不存在时应自动创建
	output := filepath.Join(dir, "out", "mask.png")
	if err := NewResampler().ResampleFile(input, output, 256, 256); err != nil {
		t.Fatalf("ResampleFile: %v", err)
	}

	mat := gocv.IMRead(output, gocv.IMReadGrayScale)
	if mat.Empty() {
		t.Fatalf("output not readable: %s", output)
	}
	defer mat.Close()

	if mat.Cols() != 256 || mat.Rows() != 256 {
		t.Fatalf("got %dx%d, want 256x256", mat.Cols(), mat.Rows())
	}
	for i, p := range matPixels(t, mat) {
		if p != 0 && p != 255 {
			t.Fatalf("pixel %d = %d, want 0 or 255", i, p)
		}
	}
}

func TestResampleFileMissing(t *testing.T) {
	err := NewResampler().ResampleFile(filepath.Join(t.TempDir(), "nope.png"), "out.png", 10, 10)
	if !errors.Is(err, ErrSourceUnreadable) {
		t.Fatalf("err = %v, want ErrSourceUnreadable", err)
	}
}

func TestResampleFileInvalidDimensions(t *testing.T) {
	err := NewResampler().ResampleFile("whatever.png", "out.png", 0, 10)
	if !errors.Is(err, ErrInvalidDimensions) {
		t.Fatalf("err = %v, want ErrInvalidDimensions", err)
	}
}
