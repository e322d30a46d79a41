package oaf

import (
	"encoding/binary"
	"fmt"
)

// Signature discriminants as they appear on the wire.
const (
	sigFile      uint32 = 0
	sigDirectory uint32 = 1
	sigOS        uint32 = 0xFFFF_FFFF
)

// signatureSize is the wire width of a signature: discriminant plus code,
// both uint32 little-endian. The code is meaningful only when the
// discriminant is the OS sentinel; encoders write zero otherwise and
// decoders ignore it otherwise.
const signatureSize = 8

// Signature classifies a record: a file, a directory, or an
// implementation-specific kind carrying a 32-bit code.
//
// The zero value is [SignatureFile].
type Signature struct {
	tag  uint32
	code uint32
}

// Well-known signatures.
var (
	// SignatureFile marks a regular file record.
	SignatureFile = Signature{tag: sigFile}

	// SignatureDirectory marks a directory record.
	SignatureDirectory = Signature{tag: sigDirectory}
)

// SignatureOS returns an implementation-specific signature carrying code.
// Any 32-bit code is valid.
func SignatureOS(code uint32) Signature {
	return Signature{tag: sigOS, code: code}
}

// IsFile reports whether s marks a regular file record.
func (s Signature) IsFile() bool { return s.tag == sigFile }

// IsDirectory reports whether s marks a directory record.
func (s Signature) IsDirectory() bool { return s.tag == sigDirectory }

// OSCode returns the implementation-specific code and true when s is an OS
// signature, and 0 and false otherwise.
func (s Signature) OSCode() (uint32, bool) {
	if s.tag != sigOS {
		return 0, false
	}
	return s.code, true
}

// String returns a human-readable form, e.g. "file" or "os(0x0000002a)".
func (s Signature) String() string {
	switch s.tag {
	case sigFile:
		return "file"
	case sigDirectory:
		return "directory"
	case sigOS:
		return fmt.Sprintf("os(0x%08x)", s.code)
	}
	return fmt.Sprintf("invalid(0x%08x)", s.tag)
}

// validSignatureTag reports whether tag is one of the discriminants the
// format permits. Only the discriminant participates in bit-pattern
// validation; code bytes are unconstrained.
func validSignatureTag(tag uint32) bool {
	return tag == sigFile || tag == sigDirectory || tag == sigOS
}

// decodeSignature decodes a lone signature from buf.
func decodeSignature(buf []byte) (Signature, error) {
	if len(buf) < signatureSize {
		return Signature{}, fmt.Errorf("%w: %d bytes, need %d", ErrInvalidSignature, len(buf), signatureSize)
	}
	tag := binary.LittleEndian.Uint32(buf[0:4])
	if !validSignatureTag(tag) {
		return Signature{}, fmt.Errorf("%w: discriminant 0x%08x", ErrInvalidSignature, tag)
	}
	s := Signature{tag: tag}
	if tag == sigOS {
		s.code = binary.LittleEndian.Uint32(buf[4:8])
	}
	return s, nil
}

// appendTo serializes the signature onto buf.
func (s Signature) appendTo(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, s.tag)
	if s.tag == sigOS {
		return binary.LittleEndian.AppendUint32(buf, s.code)
	}
	return binary.LittleEndian.AppendUint32(buf, 0)
}
