package chainblock

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/speknet/btcaddrscan/blockstream"
)

func encodeVarInt(v uint64) []byte {
	if v < 253 {
		return []byte{byte(v)}
	}
	panic("test helper only supports small values")
}

func readerOver(t *testing.T, data []byte) *blockstream.Reader {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "chainblock-*.dat")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	_, err = f.Seek(0, os.SEEK_SET)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	r, err := blockstream.NewReader(f, 1<<20, 1<<16)
	require.NoError(t, err)
	return r
}

// buildInput encodes one legacy transaction input with an empty script.
func buildInput() []byte {
	buf := make([]byte, 0, 41)
	buf = append(buf, make([]byte, 32)...) // prev txid
	buf = append(buf, 0xFF, 0xFF, 0xFF, 0xFF)
	buf = append(buf, encodeVarInt(0)...) // script length
	buf = append(buf, 0, 0, 0, 0)         // sequence
	return buf
}

// buildOutput encodes one output with a 3-byte script.
func buildOutput() []byte {
	buf := make([]byte, 0, 16)
	buf = append(buf, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00) // value = 1
	buf = append(buf, encodeVarInt(3)...)
	buf = append(buf, 0xAA, 0xBB, 0xCC)
	return buf
}

func TestSegWitDisambiguation(t *testing.T) {
	// Legacy encoding: version, 1 input, 1 output, locktime.
	legacy := []byte{1, 0, 0, 0}
	legacy = append(legacy, encodeVarInt(1)...)
	legacy = append(legacy, buildInput()...)
	legacy = append(legacy, encodeVarInt(1)...)
	legacy = append(legacy, buildOutput()...)
	legacy = append(legacy, 0, 0, 0, 0)

	legacyTx, err := DeserializeTransaction(readerOver(t, legacy))
	require.NoError(t, err)
	require.False(t, legacyTx.SegWit)

	// SegWit encoding of the same logical inputs/outputs, with a
	// marker/flag and one empty witness stack.
	segwit := []byte{1, 0, 0, 0, 0x00, 0x01}
	segwit = append(segwit, encodeVarInt(1)...)
	segwit = append(segwit, buildInput()...)
	segwit = append(segwit, encodeVarInt(1)...)
	segwit = append(segwit, buildOutput()...)
	segwit = append(segwit, encodeVarInt(0)...) // witness stack: 0 items
	segwit = append(segwit, 0, 0, 0, 0)

	segwitTx, err := DeserializeTransaction(readerOver(t, segwit))
	require.NoError(t, err)
	require.True(t, segwitTx.SegWit)

	require.Equal(t, legacyTx.Inputs, segwitTx.Inputs)
	require.Equal(t, legacyTx.Outputs, segwitTx.Outputs)
	require.Equal(t, legacyTx.LockTime, segwitTx.LockTime)
}

func TestZeroInputLegacyTransaction(t *testing.T) {
	// version, 0 inputs, 0 outputs, locktime. Both the input-count byte
	// and the output-count byte that follows it are 0x00, which is
	// exactly the case the SegWit marker/flag probe must not confuse
	// with a marker+flag pair.
	data := []byte{1, 0, 0, 0}
	data = append(data, encodeVarInt(0)...) // 0 inputs
	data = append(data, encodeVarInt(0)...) // 0 outputs
	data = append(data, 0, 0, 0, 0)

	tx, err := DeserializeTransaction(readerOver(t, data))
	require.NoError(t, err)
	require.False(t, tx.SegWit)
	require.Empty(t, tx.Inputs)
	require.Empty(t, tx.Outputs)
}

func TestMalformedTransactionNonCanonicalCompactInt(t *testing.T) {
	data := []byte{1, 0, 0, 0}
	data = append(data, 0xFD, 0x00, 0x00) // non-canonical compact int
	_, err := DeserializeTransaction(readerOver(t, data))
	require.ErrorIs(t, err, blockstream.ErrNonCanonicalCompactInt)
}

func TestIsCoinbase(t *testing.T) {
	tx := &Transaction{
		Inputs: []TxIn{{PrevVout: 0xFFFFFFFF}},
	}
	require.True(t, tx.IsCoinbase())

	tx.Inputs[0].PrevVout = 0
	require.False(t, tx.IsCoinbase())
}
