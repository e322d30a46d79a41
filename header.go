package oaf

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Magic identifies the first eight bytes of every archive.
const Magic = "OARCHIVE"

// Version0010 is format version 0.0.1.0, packed little-endian from the
// bytes {0, 0, 1, 0}. It is the only version current encoders write.
const Version0010 uint32 = 0x0001_0000

// supportedVersions is the allow-list checked during decoding.
var supportedVersions = [...]uint32{Version0010}

// headerSize is the fixed byte width of the archive header.
const headerSize = 8 + 4 + 4 + 8 + 8 + 8

// header is the fixed-width file-level metadata at the start of an archive.
//
// The magic is implicit: it is written on encode and checked on decode but
// not stored.
type header struct {
	version       uint32
	entryCount    uint32
	namesSize     uint64
	extraDataSize uint64
	totalSize     uint64
}

// decodeHeader validates and decodes the fixed header from the front of buf.
func decodeHeader(buf []byte) (header, error) {
	if len(buf) < headerSize {
		return header{}, fmt.Errorf("%w: %d bytes, need %d", ErrIncompleteHeader, len(buf), headerSize)
	}
	if !bytes.Equal(buf[:len(Magic)], []byte(Magic)) {
		return header{}, ErrInvalidMagic
	}

	h := header{
		version:       binary.LittleEndian.Uint32(buf[8:12]),
		entryCount:    binary.LittleEndian.Uint32(buf[12:16]),
		namesSize:     binary.LittleEndian.Uint64(buf[16:24]),
		extraDataSize: binary.LittleEndian.Uint64(buf[24:32]),
		totalSize:     binary.LittleEndian.Uint64(buf[32:40]),
	}
	if !versionSupported(h.version) {
		return header{}, fmt.Errorf("%w: 0x%08x", ErrInvalidVersion, h.version)
	}
	return h, nil
}

// appendTo serializes the header, magic included, onto buf.
func (h header) appendTo(buf []byte) []byte {
	buf = append(buf, Magic...)
	buf = binary.LittleEndian.AppendUint32(buf, h.version)
	buf = binary.LittleEndian.AppendUint32(buf, h.entryCount)
	buf = binary.LittleEndian.AppendUint64(buf, h.namesSize)
	buf = binary.LittleEndian.AppendUint64(buf, h.extraDataSize)
	buf = binary.LittleEndian.AppendUint64(buf, h.totalSize)
	return buf
}

func versionSupported(v uint32) bool {
	for _, s := range supportedVersions {
		if v == s {
			return true
		}
	}
	return false
}
