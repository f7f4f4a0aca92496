package blockstream

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeCompactInt(v uint64) []byte {
	switch {
	case v < 253:
		return []byte{byte(v)}
	case v <= 0xFFFF:
		return []byte{253, byte(v), byte(v >> 8)}
	case v <= 0xFFFFFFFF:
		return []byte{254, byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	default:
		b := make([]byte, 9)
		b[0] = 255
		for i := 0; i < 8; i++ {
			b[1+i] = byte(v >> (8 * i))
		}
		return b
	}
}

func readerOver(t *testing.T, data []byte) *Reader {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "primitives-*.dat")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	_, err = f.Seek(0, os.SEEK_SET)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	r, err := NewReader(f, 4096, 512)
	require.NoError(t, err)
	return r
}

func TestCompactIntRoundTrip(t *testing.T) {
	values := []uint64{0, 252, 253, 65535, 65536, 1<<32 - 1, 1 << 32, MaxCompactSize}
	for _, v := range values {
		r := readerOver(t, encodeCompactInt(v))
		got, err := CompactInt(r)
		if v > MaxCompactSize {
			// Canonically encoded, but above the MaxCompactSize cap.
			require.ErrorIs(t, err, ErrCompactIntTooLarge)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestCompactIntNonCanonical(t *testing.T) {
	// 0xFD followed by 00 00 encodes 0, which fits in a single byte.
	r := readerOver(t, []byte{0xFD, 0x00, 0x00})
	_, err := CompactInt(r)
	require.ErrorIs(t, err, ErrNonCanonicalCompactInt)
}

func TestCompactIntTooLarge(t *testing.T) {
	r := readerOver(t, encodeCompactInt(MaxCompactSize+1))
	_, err := CompactInt(r)
	require.ErrorIs(t, err, ErrCompactIntTooLarge)
}

func TestU32LERoundTrip(t *testing.T) {
	r := readerOver(t, []byte{0x78, 0x56, 0x34, 0x12})
	v, err := U32LE(r)
	require.NoError(t, err)
	require.Equal(t, uint32(0x12345678), v)
}

func TestBytesAndByteArray32(t *testing.T) {
	data := make([]byte, 40)
	for i := range data {
		data[i] = byte(i)
	}
	r := readerOver(t, data)

	arr, err := ByteArray32(r)
	require.NoError(t, err)
	require.Equal(t, data[:32], arr[:])

	rest, err := Bytes(r, 8)
	require.NoError(t, err)
	require.Equal(t, data[32:], rest)
}

func TestBytesAcrossChunkBoundary(t *testing.T) {
	n := bytesChunk + 100
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i)
	}

	f, err := os.CreateTemp(t.TempDir(), "primitives-chunk-*.dat")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	_, err = f.Seek(0, os.SEEK_SET)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	r, err := NewReader(f, 1<<20, 1<<16)
	require.NoError(t, err)

	got, err := Bytes(r, uint64(n))
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestBytesFailsFastOnUntrustedLength(t *testing.T) {
	r := readerOver(t, []byte{0x01, 0x02})
	_, err := Bytes(r, MaxCompactSize)
	require.ErrorIs(t, err, ErrUnexpectedEof)
}
