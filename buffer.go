// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package wad

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
)

var _ Container = (*BufferContainer)(nil)

// BufferContainer is a Container backed entirely by an in-memory byte slice.
// It is meant for building or bulk-editing an archive fast, then serializing
// it once with FlushToFile or FlushToStream, rather than for streaming
// mutation of something already on disk (use FileContainer for that).
//
// Delete and Replace-with-different-size are O(content length) on a
// BufferContainer, since they slice-copy the backing buffer; there is no
// disk seek cost to amortize the way there is for FileContainer.
//
// BufferContainer is not safe for concurrent use.
type BufferContainer struct {
	header  header
	content []byte
	entries []EntryRecord
	index   *nameIndex
}

// NewBufferContainer creates an empty in-memory archive with the given magic.
func NewBufferContainer(magic Magic) *BufferContainer {
	return &BufferContainer{
		header: header{
			Magic:           magic,
			EntryCount:      0,
			DirectoryOffset: minDirectoryOffset,
		},
		index: newNameIndex(),
	}
}

// OpenBuffer parses a complete WAD image already held in memory.
func OpenBuffer(data []byte) (*BufferContainer, error) {
	h, err := readHeader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if h.DirectoryOffset < minDirectoryOffset || int(h.DirectoryOffset) > len(data) {
		return nil, fmt.Errorf("%w: directory offset %d out of range for %d-byte buffer", ErrNotAWad, h.DirectoryOffset, len(data))
	}

	dirEnd := int(h.DirectoryOffset) + int(h.EntryCount)*recordSize
	if dirEnd > len(data) {
		return nil, fmt.Errorf("%w: directory extends past end of buffer", ErrNotAWad)
	}

	content := make([]byte, int(h.DirectoryOffset)-headerSize)
	copy(content, data[headerSize:h.DirectoryOffset])

	entries := make([]EntryRecord, 0, h.EntryCount)
	for i := 0; i < int(h.EntryCount); i++ {
		raw := data[int(h.DirectoryOffset)+i*recordSize : int(h.DirectoryOffset)+(i+1)*recordSize]
		e := readEntryRecord(raw)
		if isAllZeroTrailingRecord(e) {
			continue
		}
		entries = append(entries, e)
	}

	idx := newNameIndex()
	idx.rebuild(entries)

	return &BufferContainer{
		header:  h,
		content: content,
		entries: entries,
		index:   idx,
	}, nil
}

func (c *BufferContainer) EntryCount() int { return len(c.entries) }

func (c *BufferContainer) Get(i int) EntryRecord { return c.entries[i] }

func (c *BufferContainer) All() []EntryRecord {
	out := make([]EntryRecord, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *BufferContainer) FindFirst(name string) (int, EntryRecord, bool) {
	return c.FindFirstFrom(name, 0)
}

func (c *BufferContainer) FindFirstFrom(name string, start int) (int, EntryRecord, bool) {
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

func (c *BufferContainer) FindNth(name string, n int) (int, EntryRecord, bool) {
	encoded, err := encodeName(name)
	if err != nil || n < 0 {
		return 0, EntryRecord{}, false
	}
	if i, ok := c.index.nth(encoded, n); ok {
		return i, c.entries[i], true
	}
	return 0, EntryRecord{}, false
}

func (c *BufferContainer) FindLast(name string) (int, EntryRecord, bool) {
	encoded, err := encodeName(name)
	if err != nil {
		return 0, EntryRecord{}, false
	}
	if i, ok := c.index.last(encoded); ok {
		return i, c.entries[i], true
	}
	return 0, EntryRecord{}, false
}

func (c *BufferContainer) IndicesOf(name string) []int {
	encoded, err := encodeName(name)
	if err != nil {
		return nil
	}
	return c.index.indicesOf(encoded)
}

func (c *BufferContainer) LastIndexOf(name string) int {
	encoded, err := encodeName(name)
	if err != nil {
		return -1
	}
	if i, ok := c.index.last(encoded); ok {
		return i
	}
	return -1
}

func (c *BufferContainer) localOffset(e EntryRecord) int {
	return int(e.Offset) - headerSize
}

func (c *BufferContainer) checkExtent(entry EntryRecord) error {
	if entry.Size == 0 {
		return nil
	}
	start := c.localOffset(entry)
	if start < 0 || start+int(entry.Size) > len(c.content) {
		return fmt.Errorf("%w: %q offset %d size %d, content length %d",
			ErrEntryOutOfExtent, entry.Name(), entry.Offset, entry.Size, len(c.content))
	}
	return nil
}

func (c *BufferContainer) ReadPayload(entry EntryRecord) ([]byte, error) {
	if err := c.checkExtent(entry); err != nil {
		return nil, err
	}
	if entry.Size == 0 {
		return []byte{}, nil
	}
	start := c.localOffset(entry)
	buf := make([]byte, entry.Size)
	copy(buf, c.content[start:start+int(entry.Size)])
	return buf, nil
}

func (c *BufferContainer) ReadPayloadByIndex(i int) ([]byte, error) {
	if err := checkIndex(i, len(c.entries)); err != nil {
		return nil, err
	}
	return c.ReadPayload(c.entries[i])
}

func (c *BufferContainer) ReadPayloadByName(name string) ([]byte, error) {
	_, entry, ok := c.FindFirst(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrIndexOutOfBounds, name)
	}
	return c.ReadPayload(entry)
}

func (c *BufferContainer) OpenStream(entry EntryRecord) (io.Reader, error) {
	data, err := c.ReadPayload(entry)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

func (c *BufferContainer) AddData(name string, data []byte) (EntryRecord, error) {
	return c.AddDataAt(len(c.entries), name, data)
}

func (c *BufferContainer) AddDataAt(index int, name string, data []byte) (EntryRecord, error) {
	if err := checkInsertIndex(index, len(c.entries)); err != nil {
		return EntryRecord{}, err
	}
	encoded, err := encodeName(name)
	if err != nil {
		return EntryRecord{}, err
	}

	offset := c.header.DirectoryOffset
	newDirOffset, err := addUint32(offset, uint32(len(data)))
	if err != nil {
		return EntryRecord{}, err
	}

	c.content = append(c.content, data...)
	c.header.DirectoryOffset = newDirOffset

	entry := EntryRecord{Offset: offset, Size: uint32(len(data)), name: encoded}
	c.entries = append(c.entries, EntryRecord{})
	copy(c.entries[index+1:], c.entries[index:])
	c.entries[index] = entry
	c.index.insert(encoded, index)

	return entry, nil
}

func (c *BufferContainer) AddMarker(name string) (EntryRecord, error) {
	return c.AddData(name, nil)
}

func (c *BufferContainer) AddMarkerAt(index int, name string) (EntryRecord, error) {
	return c.AddDataAt(index, name, nil)
}

func (c *BufferContainer) Rename(index int, newName string) error {
	if err := checkIndex(index, len(c.entries)); err != nil {
		return err
	}
	encoded, err := encodeName(newName)
	if err != nil {
		return err
	}
	old := c.entries[index]
	if old.name == encoded {
		return nil
	}
	c.entries[index] = old.withName(encoded)
	c.index.rename(old.name, encoded, index)
	return nil
}

// Replace overwrites the entry at index with data, keeping its name. Same-size
// payloads overwrite the backing buffer in place; different-size payloads
// fall back to delete-then-add at the same index.
func (c *BufferContainer) Replace(index int, data []byte) error {
	if err := checkIndex(index, len(c.entries)); err != nil {
		return err
	}
	old := c.entries[index]
	if uint32(len(data)) == old.Size {
		start := c.localOffset(old)
		copy(c.content[start:start+len(data)], data)
		return nil
	}

	name := old.name
	if _, err := c.Delete(index); err != nil {
		return err
	}
	if _, err := c.AddDataAt(index, decodeName(name), data); err != nil {
		return err
	}
	return nil
}

func (c *BufferContainer) Remove(index int) (EntryRecord, error) {
	if err := checkIndex(index, len(c.entries)); err != nil {
		return EntryRecord{}, err
	}
	removed := c.entries[index]
	c.entries = append(c.entries[:index:index], c.entries[index+1:]...)
	c.index.remove(removed.name, index)
	return removed, nil
}

// Delete removes the entry at index and slice-copies the trailing content
// down over its payload bytes.
func (c *BufferContainer) Delete(index int) (EntryRecord, error) {
	if err := checkIndex(index, len(c.entries)); err != nil {
		return EntryRecord{}, err
	}
	removed := c.entries[index]

	if removed.Size > 0 {
		start := c.localOffset(removed)
		end := start + int(removed.Size)
		c.content = append(c.content[:start], c.content[end:]...)
		c.header.DirectoryOffset -= removed.Size
	}

	c.entries = append(c.entries[:index:index], c.entries[index+1:]...)
	c.index.remove(removed.name, index)

	for i := range c.entries {
		if c.entries[i].Offset > removed.Offset {
			c.entries[i] = c.entries[i].withOffset(c.entries[i].Offset - removed.Size)
		}
	}
	return removed, nil
}

func (c *BufferContainer) SetEntries(entries []EntryRecord) error {
	c.entries = append([]EntryRecord(nil), entries...)
	c.index.rebuild(c.entries)
	return nil
}

func (c *BufferContainer) Splice(start int, entries []EntryRecord) error {
	if start < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeStart, start)
	}
	for i, e := range entries {
		at := start + i
		if at < len(c.entries) {
			old := c.entries[at]
			c.entries[at] = e
			c.index.rename(old.name, e.name, at)
		} else {
			c.entries = append(c.entries, e)
			c.index.insert(e.name, len(c.entries)-1)
		}
	}
	return nil
}

func (c *BufferContainer) MapEntries(start, maxLen int) ([]EntryRecord, error) {
	return clipMapEntries(c.entries, start, maxLen)
}

// FlushToStream writes the complete archive image (header, content, directory)
// to w in a single pass.
func (c *BufferContainer) FlushToStream(w io.Writer) error {
	c.header.EntryCount = uint32(len(c.entries))

	dirEnd := uint64(c.header.DirectoryOffset) + uint64(len(c.entries))*recordSize
	if dirEnd > math.MaxUint32 {
		return fmt.Errorf("%w: directory would end at byte %d", ErrArchiveTooLarge, dirEnd)
	}

	if err := writeHeader(w, c.header); err != nil {
		return err
	}
	if _, err := w.Write(c.content); err != nil {
		return fmt.Errorf("%w: write content: %v", ErrIo, err)
	}
	dirBuf := make([]byte, len(c.entries)*recordSize)
	for i, e := range c.entries {
		writeEntryRecord(dirBuf[i*recordSize:(i+1)*recordSize], e)
	}
	if len(dirBuf) > 0 {
		if _, err := w.Write(dirBuf); err != nil {
			return fmt.Errorf("%w: write directory: %v", ErrIo, err)
		}
	}
	return nil
}

// FlushToFile serializes the archive to path, creating or truncating it.
func (c *BufferContainer) FlushToFile(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return translateOpenError(path, err)
	}
	defer f.Close()
	return c.FlushToStream(f)
}
