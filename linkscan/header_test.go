package linkscan

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadHeaderSmallValues(t *testing.T) {
	for low := byte(0); low < 24; low++ {
		var scratch [8]byte
		major, extra, err := readHeader(bytes.NewReader([]byte{0x00 | low}), scratch[:])
		require.NoError(t, err)
		require.Equal(t, byte(0), major)
		require.Equal(t, uint64(low), extra)
	}
}

func TestReadHeaderOneByteExtra(t *testing.T) {
	var scratch [8]byte
	major, extra, err := readHeader(bytes.NewReader([]byte{0x18, 100}), scratch[:])
	require.NoError(t, err)
	require.Equal(t, byte(0), major)
	require.Equal(t, uint64(100), extra)
}

func TestReadHeaderOneByteExtraNonCanonical(t *testing.T) {
	var scratch [8]byte
	// 0x18 0x05 encodes the value 5, which should have used the short form.
	_, _, err := readHeader(bytes.NewReader([]byte{0x18, 5}), scratch[:])
	require.ErrorIs(t, err, errNonCanonical)
}

func TestReadHeaderTwoByteExtraNonCanonical(t *testing.T) {
	var scratch [8]byte
	_, _, err := readHeader(bytes.NewReader([]byte{0x19, 0x00, 0xff}), scratch[:])
	require.ErrorIs(t, err, errNonCanonical)
}

func TestReadHeaderFourByteExtraNonCanonical(t *testing.T) {
	var scratch [8]byte
	_, _, err := readHeader(bytes.NewReader([]byte{0x1a, 0x00, 0x00, 0xff, 0xff}), scratch[:])
	require.ErrorIs(t, err, errNonCanonical)
}

func TestReadHeaderEightByteExtraNonCanonical(t *testing.T) {
	var scratch [8]byte
	_, _, err := readHeader(bytes.NewReader([]byte{0x1b, 0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}), scratch[:])
	require.ErrorIs(t, err, errNonCanonical)
}

func TestReadHeaderReservedAdditionalInfo(t *testing.T) {
	var scratch [8]byte
	_, _, err := readHeader(bytes.NewReader([]byte{0x1c}), scratch[:])
	require.ErrorIs(t, err, errInvalidHeader)
}

func TestReadHeaderTruncated(t *testing.T) {
	var scratch [8]byte
	_, _, err := readHeader(bytes.NewReader(nil), scratch[:])
	require.Error(t, err)
}

func TestReadHeaderTag42(t *testing.T) {
	// 0xd8 0x2a is the canonical short-form encoding of tag 42 (major type
	// 6, additional info 24, one-byte extra value 42).
	var scratch [8]byte
	major, extra, err := readHeader(bytes.NewReader([]byte{0xd8, 42}), scratch[:])
	require.NoError(t, err)
	require.Equal(t, byte(6), major)
	require.Equal(t, uint64(42), extra)
}
