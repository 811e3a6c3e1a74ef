// Package bitstream provides an MSB-first bit reader over a byte slice,
// including the exponential-Golomb codes used throughout H.265 bitstreams.
package bitstream

import "errors"

const (
	// refillThreshold is the accumulator fill level below which more source
	// bytes are pulled in. Keeping the accumulator near-full amortizes byte
	// I/O across many small reads.
	refillThreshold = 56

	// maxLeadingZeros bounds the leading-zero run of an exponential-Golomb
	// code. Runs past this are malformed, not merely large values.
	maxLeadingZeros = 20
)

// ErrExpGolombTooLong is returned when an exponential-Golomb code has more
// leading zero bits than maxLeadingZeros allows.
var ErrExpGolombTooLong = errors.New("bitstream: exp-Golomb leading-zero run too long")

// Reader reads bits MSB-first from a byte slice through a 64-bit
// accumulator. Reads past the end of the slice yield zero bits rather than
// failing; RBSP trailing-bit validation relies on that behavior.
//
// A Reader is single-use: create one per decode attempt and discard it.
type Reader struct {
	data      []byte
	pos       int // index of the next source byte
	remaining int // source bytes not yet pulled into the accumulator
	acc       uint64
	count     int // valid bits currently in acc, 0..64
}

// NewReader creates a Reader over data. The caller retains ownership of the
// slice and must not mutate it while the Reader is in use.
func NewReader(data []byte) *Reader {
	r := &Reader{data: data, remaining: len(data)}
	r.refill()
	return r
}

func (r *Reader) refill() {
	for r.count <= refillThreshold && r.remaining > 0 {
		r.acc = r.acc<<8 | uint64(r.data[r.pos])
		r.pos++
		r.remaining--
		r.count += 8
	}
}

func mask32(n int) uint32 {
	return uint32(uint64(1)<<uint(n) - 1)
}

// ReadBits consumes and returns the next n bits (1 <= n <= 32) as an
// unsigned integer, most-significant bit first. When fewer than n bits
// remain in the source, the result is padded on the right with zeros.
func (r *Reader) ReadBits(n int) uint32 {
	if n <= 0 {
		return 0
	}
	if r.count < n {
		r.refill()
	}
	if r.count < n {
		// Source exhausted: hand back what is buffered, zero-padded.
		pad := n - r.count
		val := uint32(r.acc) << uint(pad)
		r.acc = 0
		r.count = 0
		return val & mask32(n)
	}
	val := uint32(r.acc>>uint(r.count-n)) & mask32(n)
	r.count -= n
	r.acc &= uint64(1)<<uint(r.count) - 1
	return val
}

// PeekBits returns the next n bits without consuming them.
func (r *Reader) PeekBits(n int) uint32 {
	if n <= 0 {
		return 0
	}
	if r.count < n {
		r.refill()
	}
	if r.count < n {
		pad := n - r.count
		return (uint32(r.acc) << uint(pad)) & mask32(n)
	}
	return uint32(r.acc>>uint(r.count-n)) & mask32(n)
}

// SkipBits consumes n bits without returning them.
func (r *Reader) SkipBits(n int) {
	if n <= 0 {
		return
	}
	if r.count < n {
		r.refill()
	}
	if r.count < n {
		r.acc = 0
		r.count = 0
		return
	}
	r.count -= n
	r.acc &= uint64(1)<<uint(r.count) - 1
}

// AlignToByte consumes 0-7 bits so the read position lands on the next
// byte boundary of the source.
func (r *Reader) AlignToByte() {
	if nskip := r.count % 8; nskip > 0 {
		r.SkipBits(nskip)
	}
}

// RewindToByteBoundary aligns to the next byte boundary, then pushes any
// whole buffered bytes back into the source so the next byte-level consumer
// (e.g. a CABAC engine) starts exactly where bit-level parsing stopped.
func (r *Reader) RewindToByteBoundary() {
	r.AlignToByte()
	rewind := r.count / 8
	r.pos -= rewind
	r.remaining += rewind
	r.acc = 0
	r.count = 0
}

// ReadUE decodes an unsigned exponential-Golomb (UVLC) code. A leading-zero
// run longer than the configured maximum returns ErrExpGolombTooLong.
func (r *Reader) ReadUE() (uint32, error) {
	zeros := 0
	for r.ReadBits(1) == 0 {
		zeros++
		if zeros > maxLeadingZeros {
			return 0, ErrExpGolombTooLong
		}
	}
	if zeros == 0 {
		return 0, nil
	}
	offset := r.ReadBits(zeros)
	return offset + mask32(zeros), nil
}

// ReadSE decodes a signed exponential-Golomb (SVLC) code: 0 maps to 0, odd
// values to (v+1)/2, even values to -(v/2).
func (r *Reader) ReadSE() (int32, error) {
	v, err := r.ReadUE()
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, nil
	}
	if v%2 == 0 {
		return -int32(v / 2), nil
	}
	return int32(v+1) / 2, nil
}

// CheckRBSPTrailingBits verifies the RBSP stop pattern: a single set stop
// bit followed by zero bits through the end of the source.
func (r *Reader) CheckRBSPTrailingBits() bool {
	if r.ReadBits(1) != 1 {
		return false
	}
	for r.count > 0 || r.remaining > 0 {
		if r.ReadBits(1) != 0 {
			return false
		}
	}
	return true
}
