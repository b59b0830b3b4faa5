// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package wad

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WAD format constants.
const (
	// headerSize is the fixed 12-byte header: magic, entry count, directory offset.
	headerSize = 12

	// recordSize is the fixed 16-byte on-disk directory record: offset, size, name.
	recordSize = 16

	// nameFieldSize is the width of the name field within a directory record.
	nameFieldSize = 8

	// minDirectoryOffset is the smallest legal directory_offset: right after the header.
	minDirectoryOffset = headerSize
)

// Magic identifies whether an archive is an IWAD (full game data) or a PWAD
// (patch/modification data). The two are distinguished only by this 4-byte
// on-disk signature.
type Magic uint8

const (
	// MagicUnknown is the zero value; never produced by a successful parse.
	MagicUnknown Magic = iota
	// MagicIWAD marks an Information WAD.
	MagicIWAD
	// MagicPWAD marks a Patch WAD.
	MagicPWAD
)

var magicBytes = map[Magic][4]byte{
	MagicIWAD: {'I', 'W', 'A', 'D'},
	MagicPWAD: {'P', 'W', 'A', 'D'},
}

func (m Magic) String() string {
	switch m {
	case MagicIWAD:
		return "IWAD"
	case MagicPWAD:
		return "PWAD"
	default:
		return "UNKNOWN"
	}
}

func magicFromBytes(b [4]byte) (Magic, bool) {
	switch b {
	case magicBytes[MagicIWAD]:
		return MagicIWAD, true
	case magicBytes[MagicPWAD]:
		return MagicPWAD, true
	default:
		return MagicUnknown, false
	}
}

// header is the 12-byte WAD archive header.
type header struct {
	Magic           Magic
	EntryCount      uint32
	DirectoryOffset uint32
}

// readHeader reads and validates the 12-byte header from r.
func readHeader(r io.Reader) (header, error) {
	var raw [headerSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return header{}, fmt.Errorf("read header: %w", err)
	}

	var magicRaw [4]byte
	copy(magicRaw[:], raw[0:4])
	magic, ok := magicFromBytes(magicRaw)
	if !ok {
		return header{}, fmt.Errorf("%w: magic bytes %q", ErrNotAWad, raw[0:4])
	}

	return header{
		Magic:           magic,
		EntryCount:      binary.LittleEndian.Uint32(raw[4:8]),
		DirectoryOffset: binary.LittleEndian.Uint32(raw[8:12]),
	}, nil
}

// writeHeader writes the 12-byte header to w.
func writeHeader(w io.Writer, h header) error {
	var raw [headerSize]byte
	mb, ok := magicBytes[h.Magic]
	if !ok {
		return fmt.Errorf("wad: cannot encode header with %v magic", h.Magic)
	}
	copy(raw[0:4], mb[:])
	binary.LittleEndian.PutUint32(raw[4:8], h.EntryCount)
	binary.LittleEndian.PutUint32(raw[8:12], h.DirectoryOffset)

	if _, err := w.Write(raw[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// EntryRecord is the immutable, copyable directory entry: a payload offset and
// size within the content region, plus a canonical (already-validated,
// already-uppercased, null-padded) 8-byte name.
//
// EntryRecord values are snapshots. Holding one across a mutation of the
// container it came from does not keep it in sync with the container's current
// state — the index it was found at may no longer hold it, and its Offset may
// have shifted.
type EntryRecord struct {
	Offset uint32
	Size   uint32
	name   [nameFieldSize]byte
}

// Name returns the logical (trimmed, uppercase) name of the entry.
func (e EntryRecord) Name() string {
	return decodeName(e.name)
}

// NameBytes returns the raw 8-byte null-padded on-disk name.
func (e EntryRecord) NameBytes() [nameFieldSize]byte {
	return e.name
}

// IsMarker reports whether this entry is a zero-size marker (e.g. a namespace
// bracket like F_START, or a map-name marker).
func (e EntryRecord) IsMarker() bool {
	return e.Size == 0
}

func newEntryRecord(name string, offset, size uint32) (EntryRecord, error) {
	encoded, err := encodeName(name)
	if err != nil {
		return EntryRecord{}, err
	}
	return EntryRecord{Offset: offset, Size: size, name: encoded}, nil
}

// withOffset returns a copy of e with a new offset; used when sliding the
// content region during delete.
func (e EntryRecord) withOffset(offset uint32) EntryRecord {
	e.Offset = offset
	return e
}

// withName returns a copy of e with a new canonical name.
func (e EntryRecord) withName(name [nameFieldSize]byte) EntryRecord {
	e.name = name
	return e
}

// readEntryRecord decodes one 16-byte directory record.
func readEntryRecord(raw []byte) EntryRecord {
	var name [nameFieldSize]byte
	copy(name[:], raw[8:16])
	return EntryRecord{
		Offset: binary.LittleEndian.Uint32(raw[0:4]),
		Size:   binary.LittleEndian.Uint32(raw[4:8]),
		name:   name,
	}
}

// writeEntryRecord encodes one 16-byte directory record into dst (which must
// be at least recordSize bytes).
func writeEntryRecord(dst []byte, e EntryRecord) {
	binary.LittleEndian.PutUint32(dst[0:4], e.Offset)
	binary.LittleEndian.PutUint32(dst[4:8], e.Size)
	copy(dst[8:16], e.name[:])
}

// isAllZeroTrailingRecord reports whether a raw 16-byte record is the
// defensive all-zero trailing record some tools pad the directory with: empty
// name AND zero size. Such records are silently dropped on load.
func isAllZeroTrailingRecord(e EntryRecord) bool {
	if e.Size != 0 {
		return false
	}
	for _, b := range e.name {
		if b != 0 {
			return false
		}
	}
	return true
}
