package model

import "testing"

func TestParseBGRColor(t *testing.T) {
	tests := []struct {
		in      string
		want    BGRColor
		wantErr bool
	}{
		{"0,0,255", BGRColor{B: 0, G: 0, R: 255}, false},
		{"255, 128, 0", BGRColor{B: 255, G: 128, R: 0}, false},
		{"0,0", BGRColor{}, true},
		{"0,0,256", BGRColor{}, true},
		{"0,0,-1", BGRColor{}, true},
		{"a,b,c", BGRColor{}, true},
	}
	for _, tt := range tests {
		got, err := ParseBGRColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseBGRColor(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseBGRColor(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBGRColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestBGRFromSlice(t *testing.T) {
	got, err := BGRFromSlice([]int{0, 0, 255})
	if err != nil {
		t.Fatalf("BGRFromSlice: %v", err)
	}
	if got != DefaultOverlayColor {
		t.Errorf("BGRFromSlice = %+v, want %+v", got, DefaultOverlayColor)
	}

	for _, bad := range [][]int{{1, 2}, {1, 2, 3, 4}, {0, 0, 300}, {-1, 0, 0}} {
		if _, err := BGRFromSlice(bad); err == nil {
			t.Errorf("BGRFromSlice(%v): expected error", bad)
		}
	}
}
