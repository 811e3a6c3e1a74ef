package sei

import (
	"bytes"
	"testing"
)

func TestFindExtension(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		nal  []byte
		want []byte
	}{
		{
			name: "tag at start",
			nal:  append([]byte(TagLiteral), 0xDE, 0xAD),
			want: append([]byte(TagLiteral), 0xDE, 0xAD),
		},
		{
			name: "tag mid buffer",
			nal:  append(append([]byte{0x00, 0x00, 0x01, 0x4E}, []byte(TagLiteral)...), 0x42),
			want: append([]byte(TagLiteral), 0x42),
		},
		{
			name: "truncated tag",
			nal:  []byte(TagLiteral[:15]),
			want: nil,
		},
		{
			name: "corrupted tag",
			nal:  append([]byte("_6dof_extensioX_"), 0x42),
			want: nil,
		},
		{
			name: "empty buffer",
			nal:  nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FindExtension(tt.nal)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("FindExtension() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindExtensionReturnsFirstMatch(t *testing.T) {
	t.Parallel()
	nal := append([]byte{0xAA, 0xBB}, []byte(TagLiteral)...)
	nal = append(nal, 0x01)
	nal = append(nal, []byte(TagLiteral)...)
	nal = append(nal, 0x02)

	got := FindExtension(nal)
	if len(got) != len(nal)-2 {
		t.Fatalf("FindExtension() did not anchor at the first occurrence")
	}
}
