package cavif

import (
	"errors"
	"testing"
	"time"
)

func TestEncoderDefaults(t *testing.T) {
	e := NewEncoder()
	if e.quality != 80 {
		t.Errorf("default quality = %d, want 80", e.quality)
	}
	if e.speed != 5 {
		t.Errorf("default speed = %d, want 5", e.speed)
	}
	if e.depth != BitDepthAuto {
		t.Errorf("default bit depth = %d, want auto", e.depth)
	}
	if e.alphaMode != AlphaUnassociatedClean {
		t.Errorf("default alpha mode = %d, want clean", e.alphaMode)
	}
	if err := e.validate(); err != nil {
		t.Errorf("default configuration fails validation: %v", err)
	}
}

func TestEncoderSettersReturnCopies(t *testing.T) {
	base := NewEncoder()
	modified := base.WithQuality(10).WithSpeed(9).WithBitDepth(BitDepthEight)

	if base.quality != 80 || base.speed != 5 || base.depth != BitDepthAuto {
		t.Error("setter mutated the original encoder value")
	}
	if modified.quality != 10 || modified.speed != 9 || modified.depth != BitDepthEight {
		t.Error("setter chain did not apply values to the copy")
	}
}

func TestEncoderValidation(t *testing.T) {
	tests := []struct {
		name string
		enc  Encoder
	}{
		{"quality below range", NewEncoder().WithQuality(-1)},
		{"quality above range", NewEncoder().WithQuality(101)},
		{"alpha quality below range", NewEncoder().WithAlphaQuality(-1)},
		{"alpha quality above range", NewEncoder().WithAlphaQuality(200)},
		{"speed below range", NewEncoder().WithSpeed(0)},
		{"speed above range", NewEncoder().WithSpeed(11)},
		{"unknown bit depth", NewEncoder().WithBitDepth(BitDepth(9))},
		{"unknown color model", NewEncoder().WithColorModel(ColorModel(7))},
		{"unknown alpha mode", NewEncoder().WithAlphaColorMode(AlphaColorMode(7))},
		{"negative thread count", NewEncoder().WithNumThreads(-2)},
		{"negative timeout", NewEncoder().WithTimeout(-time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := gradientRGBA(8, 8)
			_, err := tt.enc.EncodeRGBA(img)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("EncodeRGBA error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestEncoderValidationRejectsRatherThanSaturates(t *testing.T) {
	// An out-of-range quality must fail, not be clamped to 100.
	_, err := NewEncoder().WithQuality(150).EncodeRGBA(gradientRGBA(8, 8))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("EncodeRGBA error = %v, want ErrInvalidConfig", err)
	}
}

func TestResolvedDepth(t *testing.T) {
	tests := []struct {
		depth BitDepth
		want  int
	}{
		{BitDepthAuto, 10},
		{BitDepthEight, 8},
		{BitDepthTen, 10},
	}
	for _, tt := range tests {
		if got := NewEncoder().WithBitDepth(tt.depth).resolvedDepth(); got != tt.want {
			t.Errorf("resolvedDepth(%d) = %d, want %d", tt.depth, got, tt.want)
		}
	}
}

func TestResolvedAlphaQuality(t *testing.T) {
	if got := NewEncoder().WithQuality(42).resolvedAlphaQuality(); got != 42 {
		t.Errorf("unset alpha quality resolves to %d, want color quality 42", got)
	}
	if got := NewEncoder().WithQuality(42).WithAlphaQuality(77).resolvedAlphaQuality(); got != 77 {
		t.Errorf("alpha quality resolves to %d, want 77", got)
	}
}
