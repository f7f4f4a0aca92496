package chainblock

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/speknet/btcaddrscan/blockstream"
)

// maxPrealloc bounds how eagerly Deserialize* pre-allocates slices from an
// attacker-controlled compact-int count: enough to avoid the append-growth
// cost for legitimate blocks, small enough that a bogus count near
// blockstream.MaxCompactSize can't be used to force a multi-gigabyte
// allocation before a single byte of the claimed elements has been read.
const maxPrealloc = 4096

func preallocLen(n uint64) int {
	if n > maxPrealloc {
		return maxPrealloc
	}
	return int(n)
}

// TxOut is a transaction output: an amount in satoshis and its locking
// script.
type TxOut struct {
	Value  uint64
	Script []byte
}

// TxIn is a transaction input.
type TxIn struct {
	PrevTxid chainhash.Hash
	PrevVout uint32
	Script   []byte
	Sequence uint32
}

// Transaction is a structurally decoded Bitcoin transaction. SegWit
// transactions carry one witness stack per input; the scanner does not
// derive addresses from witness data, only from output scripts.
type Transaction struct {
	Version   uint32
	SegWit    bool
	Inputs    []TxIn
	Outputs   []TxOut
	Witnesses [][][]byte
	LockTime  uint32
}

// IsCoinbase reports whether tx is a coinbase transaction: exactly one
// input pointing at the null outpoint.
func (tx *Transaction) IsCoinbase() bool {
	if len(tx.Inputs) != 1 {
		return false
	}
	in := tx.Inputs[0]
	return in.PrevVout == 0xFFFFFFFF && in.PrevTxid == (chainhash.Hash{})
}

// DeserializeTransaction reads one transaction from r, disambiguating the
// SegWit marker/flag from a legacy zero-input encoding by probing one byte
// ahead and rewinding when the probe doesn't confirm SegWit.
func DeserializeTransaction(r *blockstream.Reader) (*Transaction, error) {
	tx := &Transaction{}

	version, err := blockstream.U32LE(r)
	if err != nil {
		return nil, err
	}
	tx.Version = version

	inputCount, err := decodeInputCountOrSegWit(r, tx)
	if err != nil {
		return nil, err
	}

	tx.Inputs = make([]TxIn, 0, preallocLen(inputCount))
	for i := uint64(0); i < inputCount; i++ {
		in, err := deserializeTxIn(r)
		if err != nil {
			return nil, err
		}
		tx.Inputs = append(tx.Inputs, in)
	}

	outputCount, err := blockstream.CompactInt(r)
	if err != nil {
		return nil, err
	}
	tx.Outputs = make([]TxOut, 0, preallocLen(outputCount))
	for i := uint64(0); i < outputCount; i++ {
		out, err := deserializeTxOut(r)
		if err != nil {
			return nil, err
		}
		tx.Outputs = append(tx.Outputs, out)
	}

	if tx.SegWit {
		tx.Witnesses = make([][][]byte, 0, preallocLen(inputCount))
		for i := uint64(0); i < inputCount; i++ {
			w, err := deserializeWitness(r)
			if err != nil {
				return nil, err
			}
			tx.Witnesses = append(tx.Witnesses, w)
		}
	}

	lockTime, err := blockstream.U32LE(r)
	if err != nil {
		return nil, err
	}
	tx.LockTime = lockTime

	log.Tracef("decoded transaction: segwit=%v inputs=%d outputs=%d",
		tx.SegWit, len(tx.Inputs), len(tx.Outputs))

	return tx, nil
}

// decodeInputCountOrSegWit implements the marker/flag disambiguation from
// the wire format: a leading 0x00 byte is either the SegWit marker
// (followed by a non-zero flag) or the CompactSize encoding of zero
// inputs, and the two cases are told apart by probing one byte ahead.
func decodeInputCountOrSegWit(r *blockstream.Reader, tx *Transaction) (uint64, error) {
	pos0 := r.Pos()
	marker, err := blockstream.U8(r)
	if err != nil {
		return 0, err
	}

	if marker != 0x00 {
		if !r.SetPos(pos0) {
			log.Debugf("failed to rewind past input-count probe at offset %d", pos0)
			return 0, ErrMalformedTransaction
		}
		return blockstream.CompactInt(r)
	}

	posAfterMarker := r.Pos()
	flag, err := blockstream.U8(r)
	if err != nil {
		return 0, err
	}

	if flag != 0x00 {
		tx.SegWit = true
		return blockstream.CompactInt(r)
	}

	// Not SegWit: the marker byte was the whole (zero-valued) input
	// count. Rewind the flag probe so the next read starts at the
	// output count.
	if !r.SetPos(posAfterMarker) {
		log.Debugf("failed to rewind past flag probe at offset %d", posAfterMarker)
		return 0, ErrMalformedTransaction
	}
	return 0, nil
}

func deserializeTxIn(r *blockstream.Reader) (TxIn, error) {
	prevTxid, err := blockstream.ByteArray32(r)
	if err != nil {
		return TxIn{}, err
	}
	prevVout, err := blockstream.U32LE(r)
	if err != nil {
		return TxIn{}, err
	}
	scriptLen, err := blockstream.CompactInt(r)
	if err != nil {
		return TxIn{}, err
	}
	script, err := blockstream.Bytes(r, scriptLen)
	if err != nil {
		return TxIn{}, err
	}
	sequence, err := blockstream.U32LE(r)
	if err != nil {
		return TxIn{}, err
	}
	return TxIn{
		PrevTxid: chainhash.Hash(prevTxid),
		PrevVout: prevVout,
		Script:   script,
		Sequence: sequence,
	}, nil
}

func deserializeTxOut(r *blockstream.Reader) (TxOut, error) {
	value, err := blockstream.U64LE(r)
	if err != nil {
		return TxOut{}, err
	}
	scriptLen, err := blockstream.CompactInt(r)
	if err != nil {
		return TxOut{}, err
	}
	script, err := blockstream.Bytes(r, scriptLen)
	if err != nil {
		return TxOut{}, err
	}
	return TxOut{Value: value, Script: script}, nil
}

func deserializeWitness(r *blockstream.Reader) ([][]byte, error) {
	count, err := blockstream.CompactInt(r)
	if err != nil {
		return nil, err
	}
	stack := make([][]byte, 0, preallocLen(count))
	for i := uint64(0); i < count; i++ {
		itemLen, err := blockstream.CompactInt(r)
		if err != nil {
			return nil, err
		}
		item, err := blockstream.Bytes(r, itemLen)
		if err != nil {
			return nil, err
		}
		stack = append(stack, item)
	}
	return stack, nil
}
