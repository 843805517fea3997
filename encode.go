package cavif

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/imazen/cavif/internal/codec"
	"github.com/imazen/cavif/internal/logging"
	"github.com/imazen/cavif/internal/metrics"
	"github.com/imazen/cavif/internal/mux"
	"github.com/imazen/cavif/internal/workers"
)

// EncodedImage is the result of a successful encode call, owned exclusively
// by the caller.
type EncodedImage struct {
	// Data is the complete container byte stream.
	Data []byte
	// ColorByteSize is the compressed length of the color payload, before
	// container overhead.
	ColorByteSize int
	// AlphaByteSize is the compressed length of the alpha payload, or zero
	// when the image has no transparent pixels.
	AlphaByteSize int
}

// EncodeRGBA compresses an NRGBA pixel buffer (unassociated alpha) into a
// container byte stream. The buffer is only borrowed for the duration of
// the call and is never mutated; alpha preprocessing works on a copy.
//
// If no pixel has alpha below 255 the image is treated as fully opaque and
// the alpha plane is skipped entirely.
func (e Encoder) EncodeRGBA(img *image.NRGBA) (*EncodedImage, error) {
	start := time.Now()
	if err := e.preflight(); err != nil {
		return nil, err
	}
	if img == nil {
		metrics.EncodesTotal.WithLabelValues(metrics.OutcomeEncodingFailed).Inc()
		return nil, fmt.Errorf("%w: nil pixel buffer", ErrEncodingFailed)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	alpha := hasTransparency(img)
	src := img
	if alpha {
		src = preprocessAlpha(img, e.alphaMode)
	}

	sb := src.Bounds()
	pix := src.Pix[src.PixOffset(sb.Min.X, sb.Min.Y):]

	var color codec.Plane
	switch e.colorModel {
	case ColorModelRGB:
		color = codec.GBRPlanesNRGBA(pix, src.Stride, w, h)
	default:
		color = codec.YCbCrPlanesNRGBA(pix, src.Stride, w, h)
	}

	var alphaPlane *codec.Plane
	if alpha {
		p := codec.AlphaPlaneNRGBA(pix, src.Stride, w, h)
		alphaPlane = &p
	}

	return e.run(start, color, alphaPlane, w, h)
}

// EncodeRGB compresses packed 24-bit RGB pixels (3 bytes per pixel, row
// stride 3*width). The output never carries an alpha plane.
func (e Encoder) EncodeRGB(pix []byte, width, height int) (*EncodedImage, error) {
	start := time.Now()
	if err := e.preflight(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		metrics.EncodesTotal.WithLabelValues(metrics.OutcomeEncodingFailed).Inc()
		return nil, fmt.Errorf("%w: unsupported pixel dimensions %dx%d", ErrEncodingFailed, width, height)
	}
	if len(pix) != width*height*3 {
		metrics.EncodesTotal.WithLabelValues(metrics.OutcomeEncodingFailed).Inc()
		return nil, fmt.Errorf("%w: pixel buffer has %d bytes, want %d", ErrEncodingFailed, len(pix), width*height*3)
	}

	var color codec.Plane
	switch e.colorModel {
	case ColorModelRGB:
		color = codec.GBRPlanesRGB(pix, width, height)
	default:
		color = codec.YCbCrPlanesRGB(pix, width, height)
	}
	return e.run(start, color, nil, width, height)
}

// preflight validates the configuration and honors a token that was
// cancelled before any compression work began.
func (e Encoder) preflight() error {
	if err := e.validate(); err != nil {
		metrics.EncodesTotal.WithLabelValues(metrics.OutcomeInvalidConfig).Inc()
		return err
	}
	if e.token.IsCancelled() {
		metrics.EncodesTotal.WithLabelValues(metrics.OutcomeCancelled).Inc()
		logging.Debug("encode aborted: token cancelled before work started")
		return fmt.Errorf("%w: token cancelled before encoding started", ErrCancelled)
	}
	return nil
}

// stopCheck is the cancellation predicate polled between units of codec
// output: the caller's token, the wall-clock deadline, and an internal
// abort flag that lets one plane job stop its sibling. Whichever condition
// fires first wins; there is no priority ordering.
type stopCheck struct {
	token    CancellationToken
	deadline time.Time
	aborted  atomic.Bool
}

func (s *stopCheck) abort() {
	s.aborted.Store(true)
}

func (s *stopCheck) stopped() bool {
	if s.aborted.Load() || s.token.IsCancelled() {
		return true
	}
	return !s.deadline.IsZero() && time.Now().After(s.deadline)
}

func (e Encoder) run(start time.Time, color codec.Plane, alpha *codec.Plane, width, height int) (*EncodedImage, error) {
	engine := e.engine
	if engine == nil {
		engine = codec.NewEngine()
	}
	muxer := e.muxer
	if muxer == nil {
		muxer = mux.NewMuxer()
	}
	threads := e.threads
	if threads == 0 {
		threads = workers.Count(0)
	}
	depth := e.resolvedDepth()

	stop := &stopCheck{token: e.token}
	if e.timeout > 0 {
		stop.deadline = start.Add(e.timeout)
	}

	metrics.EncodesInFlight.Inc()
	defer metrics.EncodesInFlight.Dec()

	colorParams := codec.Params{Quality: e.quality, Speed: e.speed, Depth: depth, Threads: threads}

	var colorData, alphaData []byte
	var colorErr, alphaErr error

	if alpha != nil && threads > 1 {
		// Fork-join: the two plane jobs run concurrently and share the
		// stop predicate, so either one observing cancellation stops the
		// other at its next packet boundary.
		alphaParams := colorParams
		alphaParams.Quality = e.resolvedAlphaQuality()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			colorData, colorErr = runPlaneJob(engine, "color", color, colorParams, stop)
		}()
		go func() {
			defer wg.Done()
			alphaData, alphaErr = runPlaneJob(engine, "alpha", *alpha, alphaParams, stop)
		}()
		wg.Wait()
	} else {
		colorData, colorErr = runPlaneJob(engine, "color", color, colorParams, stop)
		if colorErr == nil && alpha != nil {
			alphaParams := colorParams
			alphaParams.Quality = e.resolvedAlphaQuality()
			alphaData, alphaErr = runPlaneJob(engine, "alpha", *alpha, alphaParams, stop)
		}
	}

	if err := pickJobError(colorErr, alphaErr); err != nil {
		outcome := metrics.OutcomeEncodingFailed
		if errors.Is(err, ErrCancelled) {
			outcome = metrics.OutcomeCancelled
			logging.Debug("encode cancelled after %v", time.Since(start))
		}
		metrics.EncodesTotal.WithLabelValues(outcome).Inc()
		return nil, err
	}

	md := mux.Metadata{
		Width:        uint32(width),
		Height:       uint32(height),
		Depth:        uint8(depth),
		Matrix:       mux.MatrixBT601,
		HasAlpha:     alpha != nil,
		StillPicture: true,
	}
	if e.colorModel == ColorModelRGB {
		md.Matrix = mux.MatrixIdentity
	}

	data, err := muxer.Assemble(colorData, alphaData, md)
	if err != nil {
		metrics.EncodesTotal.WithLabelValues(metrics.OutcomeMuxingFailed).Inc()
		return nil, fmt.Errorf("%w: %v", ErrMuxingFailed, err)
	}

	metrics.EncodesTotal.WithLabelValues(metrics.OutcomeCompleted).Inc()
	metrics.EncodeDuration.Observe(time.Since(start).Seconds())
	metrics.PlanePayloadBytes.WithLabelValues("color").Observe(float64(len(colorData)))
	if alpha != nil {
		metrics.PlanePayloadBytes.WithLabelValues("alpha").Observe(float64(len(alphaData)))
	}
	logging.Debug("encoded %dx%d: color %d B, alpha %d B, container %d B in %v",
		width, height, len(colorData), len(alphaData), len(data), time.Since(start))

	return &EncodedImage{
		Data:          data,
		ColorByteSize: len(colorData),
		AlphaByteSize: len(alphaData),
	}, nil
}

// runPlaneJob drives one compression job, polling the stop predicate
// before every unit of codec output. On cancellation or failure the
// sibling job is told to abort and partial output is discarded.
func runPlaneJob(engine codec.Engine, name string, plane codec.Plane, params codec.Params, stop *stopCheck) ([]byte, error) {
	if stop.stopped() {
		stop.abort()
		return nil, ErrCancelled
	}
	stream, err := engine.EncodePlane(plane, params)
	if err != nil {
		stop.abort()
		return nil, fmt.Errorf("%w: %s plane: %v", ErrEncodingFailed, name, err)
	}

	var out []byte
	for {
		if stop.stopped() {
			stop.abort()
			return nil, ErrCancelled
		}
		pkt, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			stop.abort()
			return nil, fmt.Errorf("%w: %s plane: %v", ErrEncodingFailed, name, err)
		}
		out = append(out, pkt...)
	}
}

// pickJobError folds the two job results into the single error surfaced to
// the caller. A genuine engine failure wins over the ErrCancelled its
// sibling reports after being told to abort.
func pickJobError(colorErr, alphaErr error) error {
	for _, err := range []error{colorErr, alphaErr} {
		if err != nil && !errors.Is(err, ErrCancelled) {
			return err
		}
	}
	if colorErr != nil {
		return colorErr
	}
	return alphaErr
}
