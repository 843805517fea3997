// Command cavif encodes a PNG, JPEG, GIF, or WebP image into a .cavf
// container using the cavif library.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	_ "golang.org/x/image/webp" // WebP format support

	"github.com/imazen/cavif"
)

var (
	version = "0.1.0"

	quality      int
	alphaQuality int
	speed        int
	depthFlag    string
	modelFlag    string
	alphaFlag    string
	threads      int
	timeout      time.Duration
	output       string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "cavif [flags] input",
	Short: "Encode an image into a .cavf container",
	Long: `cavif — converts PNG/JPEG/GIF/WebP images into .cavf containers.

Compression runs on all available cores and can be bounded with a
wall-clock timeout for use in proxies and batch pipelines.`,
	Version:      version,
	Args:         cobra.ExactArgs(1),
	RunE:         run,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.Flags()
	f.IntVarP(&quality, "quality", "q", 80, "color quality (0-100)")
	f.IntVar(&alphaQuality, "alpha-quality", -1, "alpha quality (0-100, default: same as --quality)")
	f.IntVarP(&speed, "speed", "s", 5, "encode speed (1-10, higher is faster)")
	f.StringVar(&depthFlag, "depth", "auto", "coded bit depth: 8, 10, or auto")
	f.StringVar(&modelFlag, "color-model", "ycbcr", "color model: ycbcr or rgb")
	f.StringVar(&alphaFlag, "alpha-mode", "clean", "alpha color mode: dirty, clean, or premultiplied")
	f.IntVarP(&threads, "threads", "j", 0, "worker threads (0 = all cores)")
	f.DurationVar(&timeout, "timeout", 0, "abort encoding after this duration (0 = no limit)")
	f.StringVarP(&output, "output", "o", "", "output path (default: input with .cavf extension)")
	f.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"cavif %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

func run(cmd *cobra.Command, args []string) error {
	input := args[0]

	img, err := imaging.Open(input, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", input, err)
	}

	enc, err := buildEncoder()
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := enc.EncodeRGBA(imaging.Clone(img))
	if errors.Is(err, cavif.ErrCancelled) {
		return fmt.Errorf("encoding %s timed out after %v", input, timeout)
	}
	if err != nil {
		return err
	}

	out := output
	if out == "" {
		out = strings.TrimSuffix(input, filepath.Ext(input)) + ".cavf"
	}
	if err := os.WriteFile(out, res.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	logVerbose("%s: color %d B, alpha %d B, container %d B, hash %016x, %v",
		out, res.ColorByteSize, res.AlphaByteSize, len(res.Data),
		xxhash.Sum64(res.Data), time.Since(start).Round(time.Millisecond))
	fmt.Println(out)
	return nil
}

func buildEncoder() (cavif.Encoder, error) {
	enc := cavif.NewEncoder().
		WithQuality(quality).
		WithSpeed(speed).
		WithNumThreads(threads)

	if alphaQuality >= 0 {
		enc = enc.WithAlphaQuality(alphaQuality)
	}
	if timeout > 0 {
		enc = enc.WithTimeout(timeout)
	}

	switch depthFlag {
	case "auto":
		enc = enc.WithBitDepth(cavif.BitDepthAuto)
	case "8":
		enc = enc.WithBitDepth(cavif.BitDepthEight)
	case "10":
		enc = enc.WithBitDepth(cavif.BitDepthTen)
	default:
		return enc, fmt.Errorf("invalid --depth %q: want 8, 10, or auto", depthFlag)
	}

	switch modelFlag {
	case "ycbcr":
		enc = enc.WithColorModel(cavif.ColorModelYCbCr)
	case "rgb":
		enc = enc.WithColorModel(cavif.ColorModelRGB)
	default:
		return enc, fmt.Errorf("invalid --color-model %q: want ycbcr or rgb", modelFlag)
	}

	switch alphaFlag {
	case "dirty":
		enc = enc.WithAlphaColorMode(cavif.AlphaUnassociatedDirty)
	case "clean":
		enc = enc.WithAlphaColorMode(cavif.AlphaUnassociatedClean)
	case "premultiplied":
		enc = enc.WithAlphaColorMode(cavif.AlphaPremultiplied)
	default:
		return enc, fmt.Errorf("invalid --alpha-mode %q: want dirty, clean, or premultiplied", alphaFlag)
	}

	return enc, nil
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[cavif] "+format+"\n", args...)
	}
}
