// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package wad

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBulkAdderAddEntryRegistersWithoutWriting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.wad")
	f, err := CreateFile(path)
	require.NoError(t, err)
	defer f.Close()

	adder, err := f.BulkAdder()
	require.NoError(t, err)

	// Write payload bytes directly, bypassing AddData, then register the
	// directory record for them with the raw helper.
	payload := []byte("raw bytes")
	offset := f.header.DirectoryOffset
	_, err = f.f.WriteAt(payload, int64(offset))
	require.NoError(t, err)

	entry, err := adder.addEntry("RAW", offset, uint32(len(payload)))
	require.NoError(t, err)
	require.Equal(t, "RAW", entry.Name())
	require.Equal(t, offset, entry.Offset)

	require.NoError(t, adder.Close())

	_, got, ok := f.FindFirst("RAW")
	require.True(t, ok)
	data, err := f.ReadPayload(got)
	require.NoError(t, err)
	require.Equal(t, payload, data)
}

func TestBulkAdderAddEntryRejectsAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.wad")
	f, err := CreateFile(path)
	require.NoError(t, err)
	defer f.Close()

	adder, err := f.BulkAdder()
	require.NoError(t, err)
	require.NoError(t, adder.Close())

	_, err = adder.addEntry("X", 12, 0)
	require.ErrorIs(t, err, ErrUnsupported)
}
