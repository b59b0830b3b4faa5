// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package wad

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferContainerAddAndRead(t *testing.T) {
	c := NewBufferContainer(MagicPWAD)

	entry, err := c.AddData("VERTEXES", []byte("vertex data"))
	require.NoError(t, err)
	require.Equal(t, "VERTEXES", entry.Name())

	data, err := c.ReadPayloadByName("VERTEXES")
	require.NoError(t, err)
	require.Equal(t, []byte("vertex data"), data)
}

func TestBufferContainerFlushRoundTripsThroughFile(t *testing.T) {
	c := NewBufferContainer(MagicIWAD)
	_, err := c.AddData("ONE", []byte("111"))
	require.NoError(t, err)
	_, err = c.AddData("TWO", []byte("22"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "buf.wad")
	require.NoError(t, c.FlushToFile(path))

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	defer reopened.Close()

	require.True(t, reopened.IsIWAD())
	require.Equal(t, 2, reopened.EntryCount())

	_, entry, ok := reopened.FindFirst("TWO")
	require.True(t, ok)
	data, err := reopened.ReadPayload(entry)
	require.NoError(t, err)
	require.Equal(t, []byte("22"), data)
}

func TestBufferContainerDeleteCompactsContent(t *testing.T) {
	c := NewBufferContainer(MagicPWAD)
	_, err := c.AddData("A", []byte("aa"))
	require.NoError(t, err)
	_, err = c.AddData("B", []byte("bbbb"))
	require.NoError(t, err)
	_, err = c.AddData("C", []byte("c"))
	require.NoError(t, err)

	idx, _, _ := c.FindFirst("B")
	_, err = c.Delete(idx)
	require.NoError(t, err)

	require.Equal(t, 2, c.EntryCount())
	_, entryC, ok := c.FindFirst("C")
	require.True(t, ok)
	data, err := c.ReadPayload(entryC)
	require.NoError(t, err)
	require.Equal(t, []byte("c"), data)
}

func TestOpenBufferParsesFlushedImage(t *testing.T) {
	c := NewBufferContainer(MagicPWAD)
	_, err := c.AddData("LUMP", []byte("hello"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.FlushToStream(&buf))

	reparsed, err := OpenBuffer(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, 1, reparsed.EntryCount())

	data, err := reparsed.ReadPayloadByName("LUMP")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)
}

func TestBufferContainerReplaceDifferentSize(t *testing.T) {
	c := NewBufferContainer(MagicPWAD)
	_, err := c.AddData("A", []byte("short"))
	require.NoError(t, err)
	_, err = c.AddData("B", []byte("x"))
	require.NoError(t, err)

	idx, _, _ := c.FindFirst("A")
	require.NoError(t, c.Replace(idx, []byte("a much longer replacement string")))

	_, entry, ok := c.FindFirst("A")
	require.True(t, ok)
	data, err := c.ReadPayload(entry)
	require.NoError(t, err)
	require.Equal(t, []byte("a much longer replacement string"), data)

	_, entryB, ok := c.FindFirst("B")
	require.True(t, ok)
	data, err = c.ReadPayload(entryB)
	require.NoError(t, err)
	require.Equal(t, []byte("x"), data)
}

func TestBufferContainerFindNthIndicesOfLastIndexOf(t *testing.T) {
	c := NewBufferContainer(MagicPWAD)
	_, err := c.AddData("SPRA", []byte("0"))
	require.NoError(t, err)
	_, err = c.AddData("OTHER", []byte("1"))
	require.NoError(t, err)
	_, err = c.AddData("SPRA", []byte("2"))
	require.NoError(t, err)
	_, err = c.AddData("SPRA", []byte("3"))
	require.NoError(t, err)

	require.Equal(t, []int{0, 2, 3}, c.IndicesOf("SPRA"))
	require.Equal(t, 3, c.LastIndexOf("SPRA"))
	require.Equal(t, -1, c.LastIndexOf("NOPE"))

	idx, entry, ok := c.FindNth("SPRA", 1)
	require.True(t, ok)
	require.Equal(t, 2, idx)
	data, err := c.ReadPayload(entry)
	require.NoError(t, err)
	require.Equal(t, []byte("2"), data)

	_, _, ok = c.FindNth("SPRA", 5)
	require.False(t, ok)
}

func TestBufferContainerSetEntries(t *testing.T) {
	c := NewBufferContainer(MagicPWAD)
	e1, err := c.AddData("ONE", []byte("1"))
	require.NoError(t, err)
	e2, err := c.AddData("TWO", []byte("22"))
	require.NoError(t, err)

	require.NoError(t, c.SetEntries([]EntryRecord{e2, e1}))

	require.Equal(t, 2, c.EntryCount())
	require.Equal(t, "TWO", c.Get(0).Name())
	require.Equal(t, "ONE", c.Get(1).Name())

	idx, _, ok := c.FindFirst("ONE")
	require.True(t, ok)
	require.Equal(t, 1, idx)
}

func TestBufferContainerSpliceOverwritesInPlace(t *testing.T) {
	c := NewBufferContainer(MagicPWAD)
	_, err := c.AddData("A", []byte("a"))
	require.NoError(t, err)
	_, err = c.AddData("B", []byte("b"))
	require.NoError(t, err)
	replacement, err := newEntryRecord("REPLACED", 999, 1)
	require.NoError(t, err)

	require.NoError(t, c.Splice(1, []EntryRecord{replacement}))

	require.Equal(t, 2, c.EntryCount())
	idx, entry, ok := c.FindFirst("REPLACED")
	require.True(t, ok)
	require.Equal(t, 1, idx)
	require.Equal(t, []int{1}, c.IndicesOf("REPLACED"))
	require.Equal(t, entry, c.Get(1))
}

// TestBufferContainerSpliceStartPastEndAppendsAtRealIndices mirrors the
// FileContainer case: a start far past the current entry count must still
// leave every appended entry's IndicesOf/FindNth/LastIndexOf result pointing
// at the index Get/ReadPayloadByIndex actually placed it at.
func TestBufferContainerSpliceStartPastEndAppendsAtRealIndices(t *testing.T) {
	c := NewBufferContainer(MagicPWAD)
	_, err := c.AddData("EXISTING", []byte("x"))
	require.NoError(t, err)

	newA, err := newEntryRecord("NEWA", 0, 0)
	require.NoError(t, err)
	newB, err := newEntryRecord("NEWB", 0, 0)
	require.NoError(t, err)

	require.NoError(t, c.Splice(50, []EntryRecord{newA, newB}))

	require.Equal(t, 3, c.EntryCount())
	require.Equal(t, "NEWA", c.Get(1).Name())
	require.Equal(t, "NEWB", c.Get(2).Name())

	idxA, entryA, ok := c.FindFirst("NEWA")
	require.True(t, ok)
	require.Equal(t, 1, idxA)
	require.Equal(t, entryA, c.Get(idxA))
	require.Equal(t, []int{1}, c.IndicesOf("NEWA"))
	require.Equal(t, 1, c.LastIndexOf("NEWA"))

	idxB, entryB, ok := c.FindFirst("NEWB")
	require.True(t, ok)
	require.Equal(t, 2, idxB)
	require.Equal(t, entryB, c.Get(idxB))
	require.Equal(t, []int{2}, c.IndicesOf("NEWB"))

	_, err = c.ReadPayloadByIndex(idxA)
	require.NoError(t, err)
	_, err = c.ReadPayloadByIndex(idxB)
	require.NoError(t, err)
}
