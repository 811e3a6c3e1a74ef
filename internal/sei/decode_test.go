package sei

import (
	"errors"
	"testing"

	"github.com/jtang/sixdofprobe/internal/bitstream"
)

// blockWriter packs the fixed-layout extension fields MSB-first.
type blockWriter struct {
	bits []uint8
}

func (w *blockWriter) put(n int, v uint32) {
	for i := n - 1; i >= 0; i-- {
		w.bits = append(w.bits, uint8(v>>uint(i))&1)
	}
}

func (w *blockWriter) bytes() []byte {
	out := make([]byte, (len(w.bits)+7)/8)
	for i, b := range w.bits {
		if b != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

type corners struct {
	tlx, tly, brx, bry uint32
}

type blockParams struct {
	tag        string
	stitching  uint32
	cameraNum  uint32
	model      uint32
	camX, camY uint32
	vidX, vidY uint32
	padding    uint32
	bgTexture  uint32
	bgDepth    uint32
	arrange    uint32
	halfFOV    uint32
	views      []corners
}

// defaultParams mirrors the reference single-camera 1920x1080 stream.
func defaultParams() blockParams {
	return blockParams{
		tag:       TagLiteral,
		stitching: 1,
		cameraNum: 1,
		model:     0,
		camX:      1920, camY: 1080,
		vidX: 1920, vidY: 1080,
		padding: 4,
		halfFOV: 90,
		views:   []corners{{0, 0, 960, 1080}},
	}
}

func buildBlock(p blockParams) []byte {
	w := &blockWriter{}
	for _, c := range []byte(p.tag) {
		w.put(8, uint32(c))
	}
	w.put(2, p.stitching)
	w.put(16, p.cameraNum)
	w.put(2, p.model)
	w.put(1, 1) // marker
	w.put(16, p.camX)
	w.put(1, 1)
	w.put(16, p.camY)
	w.put(1, 1)
	w.put(16, p.vidX)
	w.put(1, 1)
	w.put(16, p.vidY)
	w.put(1, 1)
	w.put(8, p.padding)
	w.put(1, p.bgTexture)
	w.put(1, p.bgDepth)
	w.put(1, 1)
	w.put(1, p.arrange)
	w.put(8, p.halfFOV)
	w.put(3, 0) // reserved
	for _, v := range p.views {
		w.put(16, v.tlx)
		w.put(1, 1)
		w.put(16, v.tly)
		w.put(1, 1)
		w.put(16, v.brx)
		w.put(1, 1)
		w.put(16, v.bry)
		w.put(1, 1)
		w.put(4, 0) // reserved
	}
	return w.bytes()
}

func TestDecodeSingleCamera(t *testing.T) {
	t.Parallel()
	dec, err := Decode(bitstream.NewReader(buildBlock(defaultParams())))
	if err != nil {
		t.Fatal(err)
	}
	if dec == nil {
		t.Fatal("Decode() returned nil for a valid block")
	}

	md := dec.Metadata
	if !md.Valid {
		t.Error("Valid = false, want true")
	}
	if md.StitchingLayout != StitchingTextureAndSeparateDepth {
		t.Errorf("StitchingLayout = %d, want %d", md.StitchingLayout, StitchingTextureAndSeparateDepth)
	}
	if md.CameraNumber != 1 {
		t.Errorf("CameraNumber = %d, want 1", md.CameraNumber)
	}
	if md.CameraModel != CameraPinhole {
		t.Errorf("CameraModel = %d, want %d", md.CameraModel, CameraPinhole)
	}
	if md.CameraResolutionX != 1920 || md.CameraResolutionY != 1080 {
		t.Errorf("camera resolution = %dx%d, want 1920x1080", md.CameraResolutionX, md.CameraResolutionY)
	}
	if md.VideoResolutionX != 1920 || md.VideoResolutionY != 1080 {
		t.Errorf("video resolution = %dx%d, want 1920x1080", md.VideoResolutionX, md.VideoResolutionY)
	}
	if md.TexturePaddingSize != 4 {
		t.Errorf("TexturePaddingSize = %d, want 4", md.TexturePaddingSize)
	}
	if md.BackgroundTextureFlag != 0 || md.BackgroundDepthFlag != 0 {
		t.Errorf("background flags = %d/%d, want 0/0", md.BackgroundTextureFlag, md.BackgroundDepthFlag)
	}
	if md.ArrangementFlag != 0 {
		t.Errorf("ArrangementFlag = %d, want 0", md.ArrangementFlag)
	}
	if md.HorizontalHalfFOV != 90 {
		t.Errorf("HorizontalHalfFOV = %d, want 90", md.HorizontalHalfFOV)
	}

	if len(dec.FOVs) != 1 {
		t.Fatalf("len(FOVs) = %d, want 1", len(dec.FOVs))
	}
	want := FieldOfView{ID: 1, X: 0, Y: 0, Width: 960, Height: 1080}
	if dec.FOVs[0] != want {
		t.Errorf("FOVs[0] = %+v, want %+v", dec.FOVs[0], want)
	}
}

func TestDecodeMultipleCameras(t *testing.T) {
	t.Parallel()
	p := defaultParams()
	p.cameraNum = 3
	p.views = []corners{
		{0, 0, 640, 1080},
		{640, 0, 1280, 1080},
		{1280, 0, 1920, 1080},
	}

	dec, err := Decode(bitstream.NewReader(buildBlock(p)))
	if err != nil {
		t.Fatal(err)
	}
	if len(dec.FOVs) != 3 {
		t.Fatalf("len(FOVs) = %d, want 3", len(dec.FOVs))
	}
	for i, fov := range dec.FOVs {
		if fov.ID != i+1 {
			t.Errorf("FOVs[%d].ID = %d, want %d", i, fov.ID, i+1)
		}
		if fov.Width != 640 || fov.Height != 1080 {
			t.Errorf("FOVs[%d] = %dx%d, want 640x1080", i, fov.Width, fov.Height)
		}
	}
	if dec.FOVs[2].X != 1280 {
		t.Errorf("FOVs[2].X = %d, want 1280", dec.FOVs[2].X)
	}
}

func TestDecodeZeroCameras(t *testing.T) {
	t.Parallel()
	p := defaultParams()
	p.cameraNum = 0
	p.views = nil

	dec, err := Decode(bitstream.NewReader(buildBlock(p)))
	if err != nil {
		t.Fatal(err)
	}
	if !dec.Metadata.Valid {
		t.Error("zero-camera record should still be valid")
	}
	if len(dec.FOVs) != 0 {
		t.Errorf("len(FOVs) = %d, want 0", len(dec.FOVs))
	}
}

func TestDecodeWrongTag(t *testing.T) {
	t.Parallel()
	p := defaultParams()
	p.tag = "_7dof_extension_"

	dec, err := Decode(bitstream.NewReader(buildBlock(p)))
	if err != nil {
		t.Fatalf("tag mismatch must not be an error, got %v", err)
	}
	if dec != nil {
		t.Fatal("tag mismatch must yield a nil record")
	}
}

func TestDecodeCameraCountCeiling(t *testing.T) {
	t.Parallel()
	p := defaultParams()
	p.cameraNum = MaxCameraCount + 1
	p.views = nil // decode must bail before reading any rectangle

	_, err := Decode(bitstream.NewReader(buildBlock(p)))
	if !errors.Is(err, ErrTooManyCameras) {
		t.Fatalf("Decode() error = %v, want ErrTooManyCameras", err)
	}
}

func TestDecodeMalformedCornersNotClamped(t *testing.T) {
	t.Parallel()
	p := defaultParams()
	p.views = []corners{{960, 1080, 0, 0}} // reversed corners

	dec, err := Decode(bitstream.NewReader(buildBlock(p)))
	if err != nil {
		t.Fatal(err)
	}
	fov := dec.FOVs[0]
	if fov.Width != -960 || fov.Height != -1080 {
		t.Errorf("FOV = %+v, want negative width/height preserved", fov)
	}
}
