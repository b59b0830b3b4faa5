// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package wad

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTestImage(t *testing.T) []byte {
	t.Helper()
	c := NewBufferContainer(MagicIWAD)
	_, err := c.AddData("PLAYPAL", []byte("palette bytes"))
	require.NoError(t, err)
	_, err = c.AddData("MAP01", []byte("map bytes"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.FlushToStream(&buf))
	return buf.Bytes()
}

func TestDirectoryMapCatalogsEntries(t *testing.T) {
	image := buildTestImage(t)

	dm, err := NewDirectoryMap(bytes.NewReader(image))
	require.NoError(t, err)

	require.True(t, dm.IsIWAD())
	require.Equal(t, 2, dm.EntryCount())

	_, entry, ok := dm.FindFirst("MAP01")
	require.True(t, ok)
	require.Equal(t, "MAP01", entry.Name())
}

func TestDirectoryMapRejectsPayloadAccess(t *testing.T) {
	image := buildTestImage(t)
	dm, err := NewDirectoryMap(bytes.NewReader(image))
	require.NoError(t, err)

	_, _, ok := dm.FindFirst("MAP01")
	require.True(t, ok)
	_, entry, _ := dm.FindFirst("MAP01")

	_, err = dm.ReadPayload(entry)
	require.ErrorIs(t, err, ErrUnsupported)

	_, err = dm.OpenStream(entry)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestDirectoryMapRejectsMutation(t *testing.T) {
	image := buildTestImage(t)
	dm, err := NewDirectoryMap(bytes.NewReader(image))
	require.NoError(t, err)

	_, err = dm.AddData("NEW", []byte("x"))
	require.ErrorIs(t, err, ErrUnsupported)

	_, err = dm.Delete(0)
	require.ErrorIs(t, err, ErrUnsupported)

	err = dm.Rename(0, "OTHER")
	require.ErrorIs(t, err, ErrUnsupported)
}
