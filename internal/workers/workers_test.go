package workers

import (
	"os"
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	os.Unsetenv("CAVIF_WORKERS")
	defer os.Unsetenv("CAVIF_WORKERS")

	available := runtime.GOMAXPROCS(0)

	tests := []struct {
		name string
		limit int
		min  int
		max  int
	}{
		{"No limit", 0, 1, available},
		{"Limit above count", available + 8, 1, available},
		{"Limit of one", 1, 1, 1},
		{"Limit of two", 2, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Count(tt.limit)
			if got < tt.min || got > tt.max {
				t.Errorf("Count(%d) = %d, want between %d and %d", tt.limit, got, tt.min, tt.max)
			}
		})
	}
}

func TestCountWithEnvOverride(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		limit    int
		expected int
	}{
		{"Valid override", "8", 0, 8},
		{"Override capped by limit", "20", 10, 10},
		{"Override below limit", "5", 10, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("CAVIF_WORKERS", tt.envValue)
			defer os.Unsetenv("CAVIF_WORKERS")

			if got := Count(tt.limit); got != tt.expected {
				t.Errorf("Count(%d) with CAVIF_WORKERS=%s = %d, want %d", tt.limit, tt.envValue, got, tt.expected)
			}
		})
	}
}

func TestCountInvalidOverride(t *testing.T) {
	for _, v := range []string{"invalid", "0", "-5"} {
		t.Run(v, func(t *testing.T) {
			os.Setenv("CAVIF_WORKERS", v)
			defer os.Unsetenv("CAVIF_WORKERS")

			if got := Count(0); got < 1 {
				t.Errorf("Count(0) with CAVIF_WORKERS=%s = %d, want >= 1", v, got)
			}
		})
	}
}

func TestCountConsistency(t *testing.T) {
	os.Unsetenv("CAVIF_WORKERS")
	defer os.Unsetenv("CAVIF_WORKERS")

	first := Count(4)
	for i := 0; i < 5; i++ {
		if got := Count(4); got != first {
			t.Errorf("Count(4) returned different results: first=%d, iteration %d=%d", first, i, got)
		}
	}
}
