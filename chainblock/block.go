package chainblock

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/speknet/btcaddrscan/blockstream"
)

// BlockHeaderSize is the fixed wire size of a block header, and doubles as
// the minimum legal frame size (spec.md: 80 <= size <= MAX_BLOCK_SIZE).
const BlockHeaderSize = 80

// BlockHeader is the fixed 80-byte block header.
type BlockHeader struct {
	Version    uint32
	PrevHash   chainhash.Hash
	MerkleRoot chainhash.Hash
	Time       uint32
	Bits       uint32
	Nonce      uint32
}

// Hash returns the double-SHA256 block hash of the header.
func (h *BlockHeader) Hash() chainhash.Hash {
	var buf [BlockHeaderSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], h.Version)
	copy(buf[4:36], h.PrevHash[:])
	copy(buf[36:68], h.MerkleRoot[:])
	binary.LittleEndian.PutUint32(buf[68:72], h.Time)
	binary.LittleEndian.PutUint32(buf[72:76], h.Bits)
	binary.LittleEndian.PutUint32(buf[76:80], h.Nonce)
	return chainhash.DoubleHashH(buf[:])
}

// Block is a structurally decoded block: its header plus every transaction
// it contains.
type Block struct {
	Header       BlockHeader
	Transactions []Transaction
}

// DeserializeBlockHeader reads the fixed 80-byte header.
func DeserializeBlockHeader(r *blockstream.Reader) (BlockHeader, error) {
	version, err := blockstream.U32LE(r)
	if err != nil {
		return BlockHeader{}, err
	}
	prevHash, err := blockstream.ByteArray32(r)
	if err != nil {
		return BlockHeader{}, err
	}
	merkleRoot, err := blockstream.ByteArray32(r)
	if err != nil {
		return BlockHeader{}, err
	}
	blockTime, err := blockstream.U32LE(r)
	if err != nil {
		return BlockHeader{}, err
	}
	bits, err := blockstream.U32LE(r)
	if err != nil {
		return BlockHeader{}, err
	}
	nonce, err := blockstream.U32LE(r)
	if err != nil {
		return BlockHeader{}, err
	}
	return BlockHeader{
		Version:    version,
		PrevHash:   chainhash.Hash(prevHash),
		MerkleRoot: chainhash.Hash(merkleRoot),
		Time:       blockTime,
		Bits:       bits,
		Nonce:      nonce,
	}, nil
}

// DeserializeBlock reads a header followed by a compact-int-prefixed list
// of transactions.
func DeserializeBlock(r *blockstream.Reader) (*Block, error) {
	header, err := DeserializeBlockHeader(r)
	if err != nil {
		return nil, err
	}

	txCount, err := blockstream.CompactInt(r)
	if err != nil {
		return nil, err
	}

	txs := make([]Transaction, 0, preallocLen(txCount))
	for i := uint64(0); i < txCount; i++ {
		tx, err := DeserializeTransaction(r)
		if err != nil {
			log.Debugf("block %s: transaction %d/%d: %v",
				header.Hash(), i, txCount, err)
			return nil, err
		}
		txs = append(txs, *tx)
	}

	return &Block{Header: header, Transactions: txs}, nil
}
