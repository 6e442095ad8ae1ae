package utils

import (
	"strings"
	"testing"
	"time"
)

func TestTempName(t *testing.T) {
	a := TempName(".png")
	if !strings.HasSuffix(a, ".png") {
		t.Errorf("TempName = %q, want .png suffix", a)
	}

	time.Sleep(time.Microsecond)
	if b := TempName(".png"); a == b {
		t.Error("expected unique names")
	}
}

func TestTempNameEmptyExt(t *testing.T) {
	if name := TempName(""); name == "" || strings.Contains(name, ".") {
		t.Errorf("TempName(\"\") = %q", name)
	}
}
