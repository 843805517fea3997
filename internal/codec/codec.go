// Package codec defines the contract between the encode orchestrator and
// the codec engine that performs the actual bitstream compression, along
// with a default pure-Go engine.
//
// An engine accepts the planar pixel data for one compression job (three
// channels for color, one for alpha) plus quality/speed parameters, and
// produces a lazy, finite sequence of compressed output units. Each call to
// PacketStream.Next is the natural suspension point where the orchestrator
// polls for cancellation.
package codec

// Plane holds the planar samples for one compression job. Color jobs carry
// three channels (Y/Cb/Cr or G/B/R), alpha jobs a single channel. Every
// channel is Width*Height 8-bit samples in row-major order.
type Plane struct {
	Channels [][]byte
	Width    int
	Height   int
}

// Params are the per-job compression parameters.
type Params struct {
	// Quality in [0,100]; higher keeps more detail.
	Quality int
	// Speed in [1,10]; inverse of compression effort.
	Speed int
	// Depth is the coded sample depth, 8 or 10 bits.
	Depth int
	// Threads bounds internal parallelism. Values below 1 mean serial.
	Threads int
}

// PacketStream produces the compressed output of one job, one unit at a
// time. Next returns io.EOF once the sequence is exhausted. A stream that
// is abandoned mid-way is simply dropped; there is nothing to close.
type PacketStream interface {
	Next() ([]byte, error)
}

// Engine compresses one plane job into a packet sequence. Implementations
// must be deterministic for identical inputs and parameters, and must not
// retain the plane data past the life of the returned stream.
type Engine interface {
	EncodePlane(plane Plane, params Params) (PacketStream, error)
}
