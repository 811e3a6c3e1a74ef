// Package mpegts isolates the elementary-stream payload of a single program
// from raw MPEG-TS bytes. It reassembles PES/NAL payload bytes across
// packets and re-inserts Annex B start codes at unit boundaries, producing
// a byte sequence ready for NAL-level scanning.
//
// The program PID is a configured constant, not discovered via PAT/PMT;
// the intended inputs are short stream prefixes (the first few kilobytes
// of a segment) where table packets may not even be present.
package mpegts

import (
	"bytes"
	"log/slog"
)

const (
	// PacketSize is the fixed MPEG-TS packet framing size.
	PacketSize = 188
	// SyncByte prefixes every valid TS packet.
	SyncByte = 0x47
	// DefaultVideoPID is the elementary-stream PID probed by default.
	DefaultVideoPID uint16 = 0x100
)

var startCode = []byte{0x00, 0x00, 0x01}

// Extractor accumulates the NAL byte sequence of one PID from raw TS data.
type Extractor struct {
	pid uint16
	log *slog.Logger
}

// NewExtractor creates an Extractor for the given elementary-stream PID.
// If log is nil, slog.Default() is used.
func NewExtractor(pid uint16, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{
		pid: pid,
		log: log.With("component", "mpegts"),
	}
}

// ExtractNAL walks ts in PacketSize strides and returns the concatenated
// elementary-stream payload of the target PID, with a 3-byte start code
// inserted ahead of every payload-unit start after the first. Packets with
// a bad sync byte or a foreign PID are skipped. An input with no matching
// packets yields an empty (nil) result, which callers treat as "not found".
func (e *Extractor) ExtractNAL(ts []byte) []byte {
	var nal []byte
	unitSeen := false

	for off := 0; off < len(ts); off += PacketSize {
		end := off + PacketSize
		if end > len(ts) {
			end = len(ts)
		}
		pkt := ts[off:end]

		if len(pkt) < 4 {
			continue // truncated tail, nothing usable
		}
		if pkt[0] != SyncByte {
			e.log.Debug("sync byte not found, skipping packet", "offset", off)
			continue
		}

		pid := uint16(pkt[1]&0x1F)<<8 | uint16(pkt[2])
		if pid != e.pid {
			continue
		}

		payloadUnitStart := pkt[1]&0x40 != 0

		payloadStart := 4
		if pkt[3]&0x20 != 0 {
			// Adaptation field: one length byte plus the field itself.
			if len(pkt) < 5 {
				continue
			}
			payloadStart += 1 + int(pkt[4])
		}
		if payloadStart >= len(pkt) {
			continue
		}

		if payloadUnitStart {
			if unitSeen {
				// New NAL unit: delimit the previous one.
				nal = append(nal, startCode...)
			}
			unitSeen = true

			// A PES header at the payload start is skipped: 9 fixed bytes
			// plus the header-data extension length in the low nibble of
			// the 9th byte.
			if bytes.HasPrefix(pkt[payloadStart:], startCode) && payloadStart+9 <= len(pkt) {
				payloadStart += 9 + int(pkt[payloadStart+8]&0x0F)
			}
		}

		if payloadStart < len(pkt) {
			nal = append(nal, pkt[payloadStart:]...)
		}
	}

	return nal
}
