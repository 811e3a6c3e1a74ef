package probe

import "github.com/jtang/sixdofprobe/internal/sei"

// Report is the interchange representation handed to external consumers.
// Field names follow the established JSON contract of the downstream
// grid-player tooling; changing them breaks existing consumers.
type Report struct {
	SEI      ReportSEI   `json:"sei"`
	FOVArray []ReportFOV `json:"fov_array"`
}

// ReportSEI mirrors the decoded metadata record.
type ReportSEI struct {
	IsValid               bool `json:"is_valid"`
	StitchingLayout       int  `json:"stitching_layout"`
	CameraNumber          int  `json:"camera_number"`
	CameraModel           int  `json:"camera_model"`
	CameraResolutionX     int  `json:"camera_resolution_x"`
	CameraResolutionY     int  `json:"camera_resolution_y"`
	VideoResolutionX      int  `json:"video_resolution_x"`
	VideoResolutionY      int  `json:"video_resolution_y"`
	TexturePaddingSize    int  `json:"texture_padding_size"`
	BackgroundTextureFlag int  `json:"background_texture_flag"`
	BackgroundDepthFlag   int  `json:"background_depth_flag"`
	ArrangementFlag       int  `json:"arrangement_flag"`
	HorizontalHalfFOV     int  `json:"horizontal_half_fov"`
}

// ReportFOV mirrors one FieldOfView rectangle.
type ReportFOV struct {
	ID     int `json:"id"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BuildReport converts a decoded extension to its interchange form.
// FOVArray is always non-nil so zero cameras serialize as an empty array.
func BuildReport(dec *sei.DecodedExtension) Report {
	md := dec.Metadata
	rep := Report{
		SEI: ReportSEI{
			IsValid:               md.Valid,
			StitchingLayout:       int(md.StitchingLayout),
			CameraNumber:          int(md.CameraNumber),
			CameraModel:           int(md.CameraModel),
			CameraResolutionX:     int(md.CameraResolutionX),
			CameraResolutionY:     int(md.CameraResolutionY),
			VideoResolutionX:      int(md.VideoResolutionX),
			VideoResolutionY:      int(md.VideoResolutionY),
			TexturePaddingSize:    int(md.TexturePaddingSize),
			BackgroundTextureFlag: int(md.BackgroundTextureFlag),
			BackgroundDepthFlag:   int(md.BackgroundDepthFlag),
			ArrangementFlag:       int(md.ArrangementFlag),
			HorizontalHalfFOV:     int(md.HorizontalHalfFOV),
		},
		FOVArray: make([]ReportFOV, 0, len(dec.FOVs)),
	}
	for _, fov := range dec.FOVs {
		rep.FOVArray = append(rep.FOVArray, ReportFOV{
			ID:     fov.ID,
			X:      fov.X,
			Y:      fov.Y,
			Width:  fov.Width,
			Height: fov.Height,
		})
	}
	return rep
}
