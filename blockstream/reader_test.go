package blockstream

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func tempFileWithBytes(t *testing.T, data []byte) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "blockstream-*.dat")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	_, err = f.Seek(0, os.SEEK_SET)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestReaderRewindBound(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i)
	}
	f := tempFileWithBytes(t, data)

	const bufSize, rewind = 256, 64
	r, err := NewReader(f, bufSize, rewind)
	require.NoError(t, err)

	buf := make([]byte, 32)
	require.NoError(t, r.Read(buf))
	pos := r.Pos()

	const k = 32
	require.True(t, r.SetPos(pos-k))
	reread := make([]byte, k)
	require.NoError(t, r.Read(reread))
	require.Equal(t, buf, reread)

	// Drive srcPos well past bufSize by reading most of the remaining
	// file, so that rewinding all the way back to 0 is now well outside
	// the buffer's window and must clamp.
	require.NoError(t, r.Read(make([]byte, 3000)))

	// Rewinding further than rewind_guarantee + buf_size clamps and fails.
	require.False(t, r.SetPos(0))
}

func TestReaderFindBytePositioning(t *testing.T) {
	data := append([]byte{0x01, 0x02, 0x03}, 0xAB)
	data = append(data, []byte{0x99, 0x99}...)
	f := tempFileWithBytes(t, data)

	r, err := NewReader(f, 128, 16)
	require.NoError(t, err)

	require.NoError(t, r.FindByte(0xAB))

	var b [1]byte
	require.NoError(t, r.Read(b[:]))
	require.Equal(t, byte(0xAB), b[0])
}

func TestReaderFindByteUnexpectedEof(t *testing.T) {
	f := tempFileWithBytes(t, []byte{0x01, 0x02, 0x03})
	r, err := NewReader(f, 128, 16)
	require.NoError(t, err)

	err = r.FindByte(0xFF)
	require.ErrorIs(t, err, ErrUnexpectedEof)
}

func TestReaderReadPastLimit(t *testing.T) {
	f := tempFileWithBytes(t, make([]byte, 64))
	r, err := NewReader(f, 128, 16)
	require.NoError(t, err)

	require.True(t, r.SetLimit(4))
	require.NoError(t, r.Read(make([]byte, 4)))

	err = r.Read(make([]byte, 1))
	require.ErrorIs(t, err, ErrReadPastLimit)
}

func TestReaderSetLimitRefusesBelowReadPos(t *testing.T) {
	f := tempFileWithBytes(t, make([]byte, 64))
	r, err := NewReader(f, 128, 16)
	require.NoError(t, err)

	require.NoError(t, r.Read(make([]byte, 10)))
	require.False(t, r.SetLimit(5))
}

func TestReaderEof(t *testing.T) {
	f := tempFileWithBytes(t, []byte{0x01, 0x02})
	r, err := NewReader(f, 128, 16)
	require.NoError(t, err)

	require.False(t, r.Eof())
	require.NoError(t, r.Read(make([]byte, 2)))
	require.True(t, r.Eof())
}

func TestReaderSeekInvalidatesRing(t *testing.T) {
	data := make([]byte, 512)
	for i := range data {
		data[i] = byte(i)
	}
	f := tempFileWithBytes(t, data)
	r, err := NewReader(f, 64, 8)
	require.NoError(t, err)

	require.NoError(t, r.Read(make([]byte, 40)))
	require.True(t, r.Seek(100))
	require.Equal(t, uint64(100), r.Pos())

	var b [1]byte
	require.NoError(t, r.Read(b[:]))
	require.Equal(t, byte(100), b[0])
}

func TestNewReaderRejectsBadRewind(t *testing.T) {
	f := tempFileWithBytes(t, []byte{0x00})
	_, err := NewReader(f, 16, 16)
	require.Error(t, err)
}
