// Package mux assembles compressed payloads and image metadata into the
// final container byte stream. The muxer is a pure, deterministic
// collaborator: it runs only after compression has fully succeeded and has
// no cancellation awareness of its own.
//
// Container layout (all integers big-endian):
//
//	magic "CAVF", version byte
//	width u32, height u32, depth u8, matrix u8, flags u8
//	color payload length u32, color payload
//	alpha payload length u32, alpha payload (length 0 when absent)
//	xxHash64 of everything above, u64
package mux

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

const (
	magic   = "CAVF"
	version = 1

	flagAlpha = 1 << 0
	flagStill = 1 << 1

	headerSize  = len(magic) + 1 + 4 + 4 + 1 + 1 + 1
	trailerSize = 8
)

// Matrix coefficient codes recorded in the container header, following the
// ISO/IEC 23091-4 numbering.
const (
	MatrixIdentity uint8 = 0
	MatrixBT601    uint8 = 6
)

// Metadata describes the image being containerized.
type Metadata struct {
	Width        uint32
	Height       uint32
	Depth        uint8 // coded sample depth, 8 or 10
	Matrix       uint8 // MatrixIdentity or MatrixBT601
	HasAlpha     bool
	StillPicture bool
}

// Muxer assembles one primary payload, an optional alpha payload, and
// metadata into a container byte stream.
type Muxer interface {
	Assemble(primary, alpha []byte, md Metadata) ([]byte, error)
}

type muxer struct{}

// NewMuxer returns the default container writer.
func NewMuxer() Muxer {
	return muxer{}
}

func (muxer) Assemble(primary, alpha []byte, md Metadata) ([]byte, error) {
	if md.Width == 0 || md.Height == 0 {
		return nil, fmt.Errorf("mux: invalid dimensions %dx%d", md.Width, md.Height)
	}
	if md.Depth != 8 && md.Depth != 10 {
		return nil, fmt.Errorf("mux: unsupported depth %d", md.Depth)
	}
	if len(primary) == 0 {
		return nil, fmt.Errorf("mux: empty primary payload")
	}
	if md.HasAlpha != (len(alpha) > 0) {
		return nil, fmt.Errorf("mux: alpha flag %v does not match payload length %d", md.HasAlpha, len(alpha))
	}

	var flags uint8
	if md.HasAlpha {
		flags |= flagAlpha
	}
	if md.StillPicture {
		flags |= flagStill
	}

	var b bytes.Buffer
	b.Grow(headerSize + 8 + len(primary) + len(alpha) + trailerSize)
	b.WriteString(magic)
	b.WriteByte(version)
	writeU32(&b, md.Width)
	writeU32(&b, md.Height)
	b.WriteByte(md.Depth)
	b.WriteByte(md.Matrix)
	b.WriteByte(flags)
	writeU32(&b, uint32(len(primary)))
	b.Write(primary)
	writeU32(&b, uint32(len(alpha)))
	b.Write(alpha)

	var trailer [trailerSize]byte
	binary.BigEndian.PutUint64(trailer[:], xxhash.Sum64(b.Bytes()))
	b.Write(trailer[:])
	return b.Bytes(), nil
}

// Info describes an assembled container: the header metadata plus the
// exact compressed payload lengths.
type Info struct {
	Metadata
	ColorByteSize int
	AlphaByteSize int
}

// Inspect parses and verifies a container produced by Assemble.
func Inspect(data []byte) (Info, error) {
	var info Info
	if len(data) < headerSize+8+trailerSize {
		return info, fmt.Errorf("mux: truncated container (%d bytes)", len(data))
	}
	if string(data[:len(magic)]) != magic {
		return info, fmt.Errorf("mux: bad magic %q", data[:len(magic)])
	}
	if data[len(magic)] != version {
		return info, fmt.Errorf("mux: unsupported version %d", data[len(magic)])
	}

	body := data[:len(data)-trailerSize]
	want := binary.BigEndian.Uint64(data[len(data)-trailerSize:])
	if got := xxhash.Sum64(body); got != want {
		return info, fmt.Errorf("mux: checksum mismatch: %016x != %016x", got, want)
	}

	off := len(magic) + 1
	info.Width = binary.BigEndian.Uint32(data[off:])
	info.Height = binary.BigEndian.Uint32(data[off+4:])
	info.Depth = data[off+8]
	info.Matrix = data[off+9]
	flags := data[off+10]
	info.HasAlpha = flags&flagAlpha != 0
	info.StillPicture = flags&flagStill != 0
	off += 11

	colorLen := int(binary.BigEndian.Uint32(data[off:]))
	off += 4
	if off+colorLen+4 > len(body) {
		return info, fmt.Errorf("mux: color payload overruns container")
	}
	info.ColorByteSize = colorLen
	off += colorLen

	alphaLen := int(binary.BigEndian.Uint32(data[off:]))
	off += 4
	if off+alphaLen != len(body) {
		return info, fmt.Errorf("mux: alpha payload overruns container")
	}
	info.AlphaByteSize = alphaLen
	return info, nil
}

func writeU32(b *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.Write(tmp[:])
}
