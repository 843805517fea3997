package codec

import (
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// defaultEngine is the built-in engine: a scalar quantization stage driven
// by quality, followed by a zstd entropy stage driven by speed. Each packet
// is an independent zstd frame covering a band of rows, which keeps packet
// production incremental and gives the orchestrator frequent polling points.
type defaultEngine struct{}

// NewEngine returns the default pure-Go codec engine. Output is
// deterministic for identical plane data and parameters.
func NewEngine() Engine {
	return defaultEngine{}
}

func (defaultEngine) EncodePlane(plane Plane, params Params) (PacketStream, error) {
	if plane.Width <= 0 || plane.Height <= 0 {
		return nil, fmt.Errorf("unsupported plane dimensions %dx%d", plane.Width, plane.Height)
	}
	if len(plane.Channels) == 0 {
		return nil, fmt.Errorf("plane has no channels")
	}
	for i, ch := range plane.Channels {
		if len(ch) != plane.Width*plane.Height {
			return nil, fmt.Errorf("channel %d has %d samples, want %d", i, len(ch), plane.Width*plane.Height)
		}
	}
	if params.Quality < 0 || params.Quality > 100 {
		return nil, fmt.Errorf("quality %d outside [0,100]", params.Quality)
	}
	if params.Speed < 1 || params.Speed > 10 {
		return nil, fmt.Errorf("speed %d outside [1,10]", params.Speed)
	}
	if params.Depth != 8 && params.Depth != 10 {
		return nil, fmt.Errorf("unsupported bit depth %d", params.Depth)
	}

	step := quantStep(params.Quality)
	threads := params.Threads
	if threads < 1 {
		threads = 1
	}

	prepared := make([][]byte, len(plane.Channels))
	for i, ch := range plane.Channels {
		prepared[i] = quantizeChannel(ch, plane.Height, step, params.Depth, threads)
	}

	// Concurrency is pinned to one so identical inputs always produce
	// identical frames.
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(levelForSpeed(params.Speed)),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd init: %w", err)
	}

	rowSize := plane.Width
	if params.Depth == 10 {
		rowSize *= 2
	}

	return &bandStream{
		enc:      enc,
		channels: prepared,
		rowSize:  rowSize,
		rows:     plane.Height,
		band:     bandRows(params.Speed),
	}, nil
}

// bandStream emits one packet per band of rows, channel after channel.
type bandStream struct {
	enc      *zstd.Encoder
	channels [][]byte
	rowSize  int
	rows     int
	band     int
	ch       int
	row      int
}

func (s *bandStream) Next() ([]byte, error) {
	if s.ch >= len(s.channels) {
		return nil, io.EOF
	}
	end := s.row + s.band
	if end > s.rows {
		end = s.rows
	}
	raw := s.channels[s.ch][s.row*s.rowSize : end*s.rowSize]
	s.row = end
	if s.row >= s.rows {
		s.ch++
		s.row = 0
	}
	return s.enc.EncodeAll(raw, nil), nil
}

// quantStep maps quality in [0,100] onto a scalar quantization step:
// 1 (lossless rounding) at quality 100, up to 17 at quality 0.
func quantStep(quality int) int {
	return 1 + (100-quality)/6
}

func levelForSpeed(speed int) zstd.EncoderLevel {
	switch {
	case speed <= 2:
		return zstd.SpeedBestCompression
	case speed <= 5:
		return zstd.SpeedBetterCompression
	case speed <= 8:
		return zstd.SpeedDefault
	default:
		return zstd.SpeedFastest
	}
}

// bandRows picks the packet granularity. Slower speeds spend longer per
// row, so they use smaller bands to keep cancellation polling responsive;
// faster speeds can afford coarser packets.
func bandRows(speed int) int {
	rows := speed * 8
	if rows > 96 {
		rows = 96
	}
	return rows
}

// quantizeChannel applies the quantization step and, for 10-bit coding,
// expands samples to two little-endian bytes. Rows are processed in
// parallel stripes bounded by threads.
func quantizeChannel(ch []byte, height, step, depth, threads int) []byte {
	width := len(ch) / height
	outRow := width
	if depth == 10 {
		outRow = width * 2
	}
	out := make([]byte, outRow*height)

	workers := threads
	if workers > height {
		workers = height
	}
	if workers < 1 {
		workers = 1
	}
	rowsPer := (height + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		y0 := i * rowsPer
		if y0 >= height {
			break
		}
		y1 := y0 + rowsPer
		if y1 > height {
			y1 = height
		}
		wg.Add(1)
		go quantizeStripe(ch, out, width, outRow, y0, y1, step, depth, &wg)
	}
	wg.Wait()
	return out
}

func quantizeStripe(src, dst []byte, width, outRow, y0, y1, step, depth int, wg *sync.WaitGroup) {
	defer wg.Done()
	for y := y0; y < y1; y++ {
		in := src[y*width : (y+1)*width]
		out := dst[y*outRow : (y+1)*outRow]
		for x, v := range in {
			q := quantizeSample(int(v), step)
			if depth == 10 {
				// Replicate the top bits into the low bits, the usual
				// 8-to-10 range expansion.
				v10 := q<<2 | q>>6
				out[x*2] = byte(v10)
				out[x*2+1] = byte(v10 >> 8)
			} else {
				out[x] = byte(q)
			}
		}
	}
}

func quantizeSample(v, step int) int {
	if step <= 1 {
		return v
	}
	q := v/step*step + step/2
	if q > 255 {
		q = 255
	}
	return q
}
