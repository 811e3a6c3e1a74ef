package sei

import "bytes"

// TagLiteral is the 16-byte ASCII tag that opens the 6-DOF extension block.
const TagLiteral = "_6dof_extension_"

// FindExtension scans nal for the first occurrence of the extension tag and
// returns the sub-slice starting at the tag (inclusive), or nil when the tag
// is absent. The match is an exact byte comparison.
func FindExtension(nal []byte) []byte {
	idx := bytes.Index(nal, []byte(TagLiteral))
	if idx < 0 {
		return nil
	}
	return nal[idx:]
}
