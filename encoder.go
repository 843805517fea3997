package cavif

import (
	"fmt"
	"time"

	"github.com/imazen/cavif/internal/codec"
	"github.com/imazen/cavif/internal/metrics"
	"github.com/imazen/cavif/internal/mux"
)

func init() {
	metrics.InitializeMetrics()
}

// BitDepth selects the coded sample depth.
type BitDepth int

const (
	// BitDepthAuto lets the encoder pick a depth for the source. 8-bit
	// input is coded at 10 bits, which trades a little payload size for
	// less banding in smooth gradients.
	BitDepthAuto BitDepth = 0
	// BitDepthEight codes 8-bit samples.
	BitDepthEight BitDepth = 8
	// BitDepthTen codes 10-bit samples.
	BitDepthTen BitDepth = 10
)

// ColorModel selects how RGB input is mapped onto coded planes, and with it
// the matrix coefficients recorded in the container.
type ColorModel int

const (
	// ColorModelYCbCr codes luma/chroma planes using BT.601 coefficients.
	ColorModelYCbCr ColorModel = iota
	// ColorModelRGB codes identity G/B/R planes with no color matrix.
	ColorModelRGB
)

// AlphaColorMode controls how color data under transparent pixels is
// treated before compression. See the preprocessing rules on each value.
type AlphaColorMode int

const (
	// AlphaUnassociatedDirty passes RGB through unmodified, so compression
	// operates on the true source colors even under fully transparent
	// pixels, at the cost of higher entropy.
	AlphaUnassociatedDirty AlphaColorMode = iota
	// AlphaUnassociatedClean rewrites RGB under fully transparent pixels
	// with a deterministic fill so those regions contribute near-zero
	// entropy. Pixels with alpha > 0 keep their exact color.
	AlphaUnassociatedClean
	// AlphaPremultiplied scales RGB by alpha before compression.
	AlphaPremultiplied
)

// Encoder is the encode configuration. NewEncoder returns the defaults;
// each With* setter is a pure value transformation returning an updated
// copy, so setters never fail and a configured Encoder can be shared and
// reused across any number of encode calls. Values are validated when an
// encode call consumes them: out-of-range values are rejected with
// ErrInvalidConfig rather than silently clamped.
type Encoder struct {
	quality       int
	alphaQuality  int
	alphaQualityS bool
	speed         int
	depth         BitDepth
	colorModel    ColorModel
	alphaMode     AlphaColorMode
	threads       int
	token         CancellationToken
	timeout       time.Duration
	engine        codec.Engine
	muxer         mux.Muxer
}

// NewEncoder returns an Encoder with the default configuration: quality 80,
// speed 5, automatic bit depth, YCbCr color model, clean alpha mode, and a
// thread count matching available parallelism.
func NewEncoder() Encoder {
	return Encoder{
		quality:   80,
		speed:     5,
		alphaMode: AlphaUnassociatedClean,
	}
}

// WithQuality sets the color quality in [0,100]. Higher keeps more detail.
func (e Encoder) WithQuality(quality int) Encoder {
	e.quality = quality
	return e
}

// WithAlphaQuality sets the alpha-plane quality in [0,100]. When unset, the
// alpha plane uses the color quality.
func (e Encoder) WithAlphaQuality(quality int) Encoder {
	e.alphaQuality = quality
	e.alphaQualityS = true
	return e
}

// WithSpeed sets the encode speed in [1,10], the inverse of compression
// effort.
func (e Encoder) WithSpeed(speed int) Encoder {
	e.speed = speed
	return e
}

// WithBitDepth sets the coded sample depth.
func (e Encoder) WithBitDepth(depth BitDepth) Encoder {
	e.depth = depth
	return e
}

// WithColorModel sets how RGB input maps onto coded planes.
func (e Encoder) WithColorModel(model ColorModel) Encoder {
	e.colorModel = model
	return e
}

// WithAlphaColorMode sets the alpha preprocessing policy.
func (e Encoder) WithAlphaColorMode(mode AlphaColorMode) Encoder {
	e.alphaMode = mode
	return e
}

// WithNumThreads bounds internal parallelism. Zero means use available
// hardware parallelism.
func (e Encoder) WithNumThreads(n int) Encoder {
	e.threads = n
	return e
}

// WithCancellationToken attaches a token that can cancel encode calls from
// another goroutine. The token is polled between units of codec output.
func (e Encoder) WithCancellationToken(token CancellationToken) Encoder {
	e.token = token
	return e
}

// WithTimeout bounds the wall-clock duration of each encode call. When both
// a timeout and a cancellation token are configured, whichever fires first
// cancels the call; the resulting error does not say which one it was.
func (e Encoder) WithTimeout(d time.Duration) Encoder {
	e.timeout = d
	return e
}

// WithCodecEngine substitutes the codec engine collaborator. The default is
// the built-in engine from internal/codec.
func (e Encoder) WithCodecEngine(engine codec.Engine) Encoder {
	e.engine = engine
	return e
}

// WithMuxer substitutes the container muxer collaborator.
func (e Encoder) WithMuxer(muxer mux.Muxer) Encoder {
	e.muxer = muxer
	return e
}

func (e Encoder) validate() error {
	if e.quality < 0 || e.quality > 100 {
		return fmt.Errorf("%w: quality %d outside [0,100]", ErrInvalidConfig, e.quality)
	}
	if e.alphaQualityS && (e.alphaQuality < 0 || e.alphaQuality > 100) {
		return fmt.Errorf("%w: alpha quality %d outside [0,100]", ErrInvalidConfig, e.alphaQuality)
	}
	if e.speed < 1 || e.speed > 10 {
		return fmt.Errorf("%w: speed %d outside [1,10]", ErrInvalidConfig, e.speed)
	}
	switch e.depth {
	case BitDepthAuto, BitDepthEight, BitDepthTen:
	default:
		return fmt.Errorf("%w: bit depth %d is not 8, 10, or auto", ErrInvalidConfig, e.depth)
	}
	switch e.colorModel {
	case ColorModelYCbCr, ColorModelRGB:
	default:
		return fmt.Errorf("%w: unknown color model %d", ErrInvalidConfig, e.colorModel)
	}
	switch e.alphaMode {
	case AlphaUnassociatedDirty, AlphaUnassociatedClean, AlphaPremultiplied:
	default:
		return fmt.Errorf("%w: unknown alpha color mode %d", ErrInvalidConfig, e.alphaMode)
	}
	if e.threads < 0 {
		return fmt.Errorf("%w: thread count %d is negative", ErrInvalidConfig, e.threads)
	}
	if e.timeout < 0 {
		return fmt.Errorf("%w: timeout %v is negative", ErrInvalidConfig, e.timeout)
	}
	return nil
}

// resolvedDepth maps BitDepthAuto onto a concrete coded depth.
func (e Encoder) resolvedDepth() int {
	if e.depth == BitDepthEight {
		return 8
	}
	return 10
}

func (e Encoder) resolvedAlphaQuality() int {
	if e.alphaQualityS {
		return e.alphaQuality
	}
	return e.quality
}
