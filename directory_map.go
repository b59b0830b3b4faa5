// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package wad

import (
	"fmt"
	"io"
)

var _ Container = (*DirectoryMap)(nil)

// DirectoryMap is a read-only Container built by scanning a single
// non-seekable io.Reader once, front to back. It is useful for cataloging an
// archive's directory — names, offsets, sizes — from a stream (a network
// socket, a pipe, an archive member) without needing random access to the
// underlying source.
//
// Because the source stream is consumed during construction and is not
// retained, DirectoryMap cannot serve payload bytes: ReadPayload and its
// variants, and OpenStream, all return ErrUnsupported. Every mutating method
// also returns ErrUnsupported. Callers that need payload access should use
// FileContainer or BufferContainer instead, or re-open the source themselves
// once they know which entries they want.
type DirectoryMap struct {
	header  header
	entries []EntryRecord
	index   *nameIndex
}

// NewDirectoryMap reads a complete WAD header and directory from r,
// discarding the intervening content region without buffering it.
func NewDirectoryMap(r io.Reader) (*DirectoryMap, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if h.DirectoryOffset < minDirectoryOffset {
		return nil, fmt.Errorf("%w: directory offset %d precedes header", ErrNotAWad, h.DirectoryOffset)
	}

	contentLen := int64(h.DirectoryOffset) - headerSize
	if _, err := io.CopyN(io.Discard, r, contentLen); err != nil {
		return nil, fmt.Errorf("%w: skip content region: %v", ErrIo, err)
	}

	dirBuf := make([]byte, int(h.EntryCount)*recordSize)
	if len(dirBuf) > 0 {
		if _, err := io.ReadFull(r, dirBuf); err != nil {
			return nil, fmt.Errorf("%w: read directory: %v", ErrIo, err)
		}
	}

	entries := make([]EntryRecord, 0, h.EntryCount)
	for i := 0; i < int(h.EntryCount); i++ {
		raw := dirBuf[i*recordSize : (i+1)*recordSize]
		e := readEntryRecord(raw)
		if isAllZeroTrailingRecord(e) {
			continue
		}
		entries = append(entries, e)
	}

	idx := newNameIndex()
	idx.rebuild(entries)

	return &DirectoryMap{header: h, entries: entries, index: idx}, nil
}

// IsIWAD reports whether the archive's magic identifies it as an IWAD.
func (c *DirectoryMap) IsIWAD() bool { return c.header.Magic == MagicIWAD }

// IsPWAD reports whether the archive's magic identifies it as a PWAD.
func (c *DirectoryMap) IsPWAD() bool { return c.header.Magic == MagicPWAD }

func (c *DirectoryMap) EntryCount() int { return len(c.entries) }

func (c *DirectoryMap) Get(i int) EntryRecord { return c.entries[i] }

func (c *DirectoryMap) All() []EntryRecord {
	out := make([]EntryRecord, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *DirectoryMap) FindFirst(name string) (int, EntryRecord, bool) {
	return c.FindFirstFrom(name, 0)
}

func (c *DirectoryMap) FindFirstFrom(name string, start int) (int, EntryRecord, bool) {
	encoded, err := encodeName(name)
	if err != nil {
		return 0, EntryRecord{}, false
	}
	if start < 0 {
		start = 0
	}
	for i := start; i < len(c.entries); i++ {
		if c.entries[i].name == encoded {
			return i, c.entries[i], true
		}
	}
	return 0, EntryRecord{}, false
}

func (c *DirectoryMap) FindNth(name string, n int) (int, EntryRecord, bool) {
	encoded, err := encodeName(name)
	if err != nil || n < 0 {
		return 0, EntryRecord{}, false
	}
	if i, ok := c.index.nth(encoded, n); ok {
		return i, c.entries[i], true
	}
	return 0, EntryRecord{}, false
}

func (c *DirectoryMap) FindLast(name string) (int, EntryRecord, bool) {
	encoded, err := encodeName(name)
	if err != nil {
		return 0, EntryRecord{}, false
	}
	if i, ok := c.index.last(encoded); ok {
		return i, c.entries[i], true
	}
	return 0, EntryRecord{}, false
}

func (c *DirectoryMap) IndicesOf(name string) []int {
	encoded, err := encodeName(name)
	if err != nil {
		return nil
	}
	return c.index.indicesOf(encoded)
}

func (c *DirectoryMap) LastIndexOf(name string) int {
	encoded, err := encodeName(name)
	if err != nil {
		return -1
	}
	if i, ok := c.index.last(encoded); ok {
		return i
	}
	return -1
}

func (c *DirectoryMap) ReadPayload(EntryRecord) ([]byte, error) {
	return nil, fmt.Errorf("%w: DirectoryMap does not retain its source stream", ErrUnsupported)
}

func (c *DirectoryMap) ReadPayloadByIndex(int) ([]byte, error) {
	return nil, fmt.Errorf("%w: DirectoryMap does not retain its source stream", ErrUnsupported)
}

func (c *DirectoryMap) ReadPayloadByName(string) ([]byte, error) {
	return nil, fmt.Errorf("%w: DirectoryMap does not retain its source stream", ErrUnsupported)
}

func (c *DirectoryMap) OpenStream(EntryRecord) (io.Reader, error) {
	return nil, fmt.Errorf("%w: DirectoryMap does not retain its source stream", ErrUnsupported)
}

func (c *DirectoryMap) AddData(string, []byte) (EntryRecord, error) {
	return EntryRecord{}, fmt.Errorf("%w: DirectoryMap is read-only", ErrUnsupported)
}

func (c *DirectoryMap) AddDataAt(int, string, []byte) (EntryRecord, error) {
	return EntryRecord{}, fmt.Errorf("%w: DirectoryMap is read-only", ErrUnsupported)
}

func (c *DirectoryMap) AddMarker(string) (EntryRecord, error) {
	return EntryRecord{}, fmt.Errorf("%w: DirectoryMap is read-only", ErrUnsupported)
}

func (c *DirectoryMap) AddMarkerAt(int, string) (EntryRecord, error) {
	return EntryRecord{}, fmt.Errorf("%w: DirectoryMap is read-only", ErrUnsupported)
}

func (c *DirectoryMap) Rename(int, string) error {
	return fmt.Errorf("%w: DirectoryMap is read-only", ErrUnsupported)
}

func (c *DirectoryMap) Replace(int, []byte) error {
	return fmt.Errorf("%w: DirectoryMap is read-only", ErrUnsupported)
}

func (c *DirectoryMap) Remove(int) (EntryRecord, error) {
	return EntryRecord{}, fmt.Errorf("%w: DirectoryMap is read-only", ErrUnsupported)
}

func (c *DirectoryMap) Delete(int) (EntryRecord, error) {
	return EntryRecord{}, fmt.Errorf("%w: DirectoryMap is read-only", ErrUnsupported)
}

func (c *DirectoryMap) SetEntries([]EntryRecord) error {
	return fmt.Errorf("%w: DirectoryMap is read-only", ErrUnsupported)
}

func (c *DirectoryMap) Splice(int, []EntryRecord) error {
	return fmt.Errorf("%w: DirectoryMap is read-only", ErrUnsupported)
}

func (c *DirectoryMap) MapEntries(start, maxLen int) ([]EntryRecord, error) {
	return clipMapEntries(c.entries, start, maxLen)
}
