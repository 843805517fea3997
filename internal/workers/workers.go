package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Count returns the number of workers for compression work. It respects
// container CPU limits via GOMAXPROCS (Go 1.19+) and never returns less
// than 1. The limit parameter caps the count; use 0 for no cap.
//
// Can be overridden with the CAVIF_WORKERS environment variable.
func Count(limit int) int {
	if override := os.Getenv("CAVIF_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	count := runtime.GOMAXPROCS(0)
	if count < 1 {
		count = 1
	}
	if limit > 0 && count > limit {
		count = limit
	}
	return count
}
