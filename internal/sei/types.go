// Package sei locates and decodes the proprietary 6-DOF camera-geometry
// extension carried as an SEI payload inside an H.265 elementary stream.
package sei

// StitchingLayout is the 2-bit layout code describing how texture and depth
// views are stitched into the decoded frame.
type StitchingLayout uint8

const (
	// StitchingTextureAndDepth packs texture and depth in one decoded frame.
	StitchingTextureAndDepth StitchingLayout = iota
	// StitchingTextureAndSeparateDepth carries depth in a separate region.
	StitchingTextureAndSeparateDepth
	// StitchingTextureOnly carries texture only, depth fully separate.
	StitchingTextureOnly
	// StitchingReserved is reserved by the format.
	StitchingReserved
)

// CameraModel is the 2-bit camera projection model code.
type CameraModel uint8

const (
	// CameraPinhole is the pinhole projection model.
	CameraPinhole CameraModel = iota
	// CameraFisheye is the fisheye projection model.
	CameraFisheye
	// CameraModelReserved is reserved by the format.
	CameraModelReserved
)

// FieldOfView is one per-view crop rectangle, derived from the two corner
// points carried in the stream. ID is 1-based and sequential. Width and
// Height may be negative when the source corners are malformed; the decoder
// does not clamp.
type FieldOfView struct {
	ID     int
	X      int
	Y      int
	Width  int
	Height int
}

// Metadata is the fixed-layout 6-DOF record. Valid is true only for a fully
// decoded record; a failed or absent decode never exposes partial fields.
type Metadata struct {
	Valid                 bool
	StitchingLayout       StitchingLayout
	CameraNumber          uint16
	CameraModel           CameraModel
	CameraResolutionX     uint16
	CameraResolutionY     uint16
	VideoResolutionX      uint16
	VideoResolutionY      uint16
	TexturePaddingSize    uint8
	BackgroundTextureFlag uint8
	BackgroundDepthFlag   uint8
	ArrangementFlag       uint8
	HorizontalHalfFOV     uint8
}

// DecodedExtension pairs a Metadata record with its ordered FieldOfView
// sequence. len(FOVs) == CameraNumber for a valid record.
type DecodedExtension struct {
	Metadata Metadata
	FOVs     []FieldOfView
}
