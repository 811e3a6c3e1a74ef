// Package probe composes the extraction pipeline: raw transport-stream
// bytes in, a decoded 6-DOF extension (or a typed absence signal) out.
package probe

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jtang/sixdofprobe/internal/bitstream"
	"github.com/jtang/sixdofprobe/internal/mpegts"
	"github.com/jtang/sixdofprobe/internal/sei"
)

// ErrNotFound reports the routine absence of the extension: no payload for
// the target PID, or a stream that simply does not carry the 6-DOF block.
// Callers distinguish it from decode errors with errors.Is.
var ErrNotFound = errors.New("probe: 6dof extension not found")

// Prober runs the extraction pipeline against byte buffers. It holds no
// per-call state; a single Prober is safe for concurrent use.
type Prober struct {
	pid  uint16
	log  *slog.Logger
	base *slog.Logger // unscoped, for constructing sub-components
}

// New creates a Prober targeting the given elementary-stream PID.
// If log is nil, slog.Default() is used.
func New(pid uint16, log *slog.Logger) *Prober {
	if log == nil {
		log = slog.Default()
	}
	return &Prober{
		pid:  pid,
		log:  log.With("component", "probe"),
		base: log,
	}
}

// Extract demuxes ts, locates the extension tag in the reassembled NAL
// bytes, and decodes the 6-DOF block. It returns ErrNotFound (wrapped) when
// any stage finds nothing, and the decoder's error for malformed blocks.
// The input buffer is never mutated.
func (p *Prober) Extract(ts []byte) (*sei.DecodedExtension, error) {
	nal := mpegts.NewExtractor(p.pid, p.base).ExtractNAL(ts)
	if len(nal) == 0 {
		return nil, fmt.Errorf("%w: no NAL data for PID 0x%X", ErrNotFound, p.pid)
	}

	block := sei.FindExtension(nal)
	if block == nil {
		return nil, fmt.Errorf("%w: extension tag absent", ErrNotFound)
	}

	dec, err := sei.Decode(bitstream.NewReader(block))
	if err != nil {
		return nil, err
	}
	if dec == nil {
		// The locator matched but the decoder's own tag check did not.
		return nil, fmt.Errorf("%w: tag verification failed", ErrNotFound)
	}

	p.log.Debug("decoded 6dof extension",
		"cameras", dec.Metadata.CameraNumber,
		"video_x", dec.Metadata.VideoResolutionX,
		"video_y", dec.Metadata.VideoResolutionY,
	)
	return dec, nil
}
