package sei

import (
	"errors"
	"fmt"

	"github.com/jtang/sixdofprobe/internal/bitstream"
)

// MaxCameraCount caps the per-view loop bound. The count comes straight
// from a 16-bit stream field, so without a ceiling a malformed stream could
// demand 65535 rectangle reads.
const MaxCameraCount = 512

// ErrTooManyCameras is returned when the declared camera count exceeds
// MaxCameraCount.
var ErrTooManyCameras = errors.New("sei: camera count exceeds limit")

// Decode reads the fixed-layout 6-DOF extension from r, which must be
// positioned at the start of a candidate block (the 16-byte tag first).
//
// A tag mismatch returns (nil, nil): SEI frames without the extension are
// routine, not errors. Marker bits are consumed and discarded, never
// checked, matching the permissive behavior of the format.
func Decode(r *bitstream.Reader) (*DecodedExtension, error) {
	var tag [16]byte
	for i := range tag {
		tag[i] = byte(r.ReadBits(8))
	}
	if string(tag[:]) != TagLiteral {
		return nil, nil
	}

	var md Metadata
	md.StitchingLayout = StitchingLayout(r.ReadBits(2))
	md.CameraNumber = uint16(r.ReadBits(16))
	md.CameraModel = CameraModel(r.ReadBits(2))
	r.SkipBits(1) // marker

	if md.CameraNumber > MaxCameraCount {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyCameras, md.CameraNumber, MaxCameraCount)
	}

	md.CameraResolutionX = uint16(r.ReadBits(16))
	r.SkipBits(1) // marker
	md.CameraResolutionY = uint16(r.ReadBits(16))
	r.SkipBits(1) // marker

	md.VideoResolutionX = uint16(r.ReadBits(16))
	r.SkipBits(1) // marker
	md.VideoResolutionY = uint16(r.ReadBits(16))
	r.SkipBits(1) // marker

	md.TexturePaddingSize = uint8(r.ReadBits(8))
	md.BackgroundTextureFlag = uint8(r.ReadBits(1))
	md.BackgroundDepthFlag = uint8(r.ReadBits(1))
	r.SkipBits(1) // marker

	md.ArrangementFlag = uint8(r.ReadBits(1))
	md.HorizontalHalfFOV = uint8(r.ReadBits(8))
	r.SkipBits(3) // reserved

	fovs := make([]FieldOfView, 0, md.CameraNumber)
	for i := 0; i < int(md.CameraNumber); i++ {
		topLeftX := int(r.ReadBits(16))
		r.SkipBits(1) // marker
		topLeftY := int(r.ReadBits(16))
		r.SkipBits(1) // marker
		bottomRightX := int(r.ReadBits(16))
		r.SkipBits(1) // marker
		bottomRightY := int(r.ReadBits(16))
		r.SkipBits(1) // marker
		r.SkipBits(4) // reserved

		fovs = append(fovs, FieldOfView{
			ID:     i + 1,
			X:      topLeftX,
			Y:      topLeftY,
			Width:  bottomRightX - topLeftX,
			Height: bottomRightY - topLeftY,
		})
	}

	md.Valid = true
	return &DecodedExtension{Metadata: md, FOVs: fovs}, nil
}
