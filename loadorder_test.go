// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package wad

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOrderLastAddedWins(t *testing.T) {
	iwad := NewBufferContainer(MagicIWAD)
	_, err := iwad.AddData("MAP01", []byte("original"))
	require.NoError(t, err)
	_, err = iwad.AddData("PLAYPAL", []byte("stock palette"))
	require.NoError(t, err)

	patch := NewBufferContainer(MagicPWAD)
	_, err = patch.AddData("MAP01", []byte("patched"))
	require.NoError(t, err)

	lo := NewLoadOrder(iwad)
	lo.Add(patch)

	data, err := lo.Read("MAP01")
	require.NoError(t, err)
	require.Equal(t, []byte("patched"), data)

	// PLAYPAL is only in the base IWAD; it must still resolve.
	data, err = lo.Read("PLAYPAL")
	require.NoError(t, err)
	require.Equal(t, []byte("stock palette"), data)
}

func TestLoadOrderNotFound(t *testing.T) {
	lo := NewLoadOrder(NewBufferContainer(MagicIWAD))
	_, err := lo.Read("NOPE")
	require.ErrorIs(t, err, ErrIndexOutOfBounds)
}

func TestLoadOrderListNames(t *testing.T) {
	iwad := NewBufferContainer(MagicIWAD)
	_, _ = iwad.AddData("A", []byte("1"))
	patch := NewBufferContainer(MagicPWAD)
	_, _ = patch.AddData("B", []byte("2"))

	lo := NewLoadOrder(iwad)
	lo.Add(patch)

	names := lo.ListNames()
	require.Equal(t, []string{"A", "B"}, names)
}
