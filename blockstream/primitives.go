package blockstream

import "encoding/binary"

// MaxCompactSize is the cap CompactInt enforces on decoded values: the
// largest length prefix the deserializer will ever trust (Bitcoin's
// MAX_SIZE, 2^25).
const MaxCompactSize = 0x02000000

// U8 reads a single byte.
func U8(r *Reader) (uint8, error) {
	var buf [1]byte
	if err := r.Read(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// U16LE reads a little-endian uint16.
func U16LE(r *Reader) (uint16, error) {
	var buf [2]byte
	if err := r.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// U32LE reads a little-endian uint32.
func U32LE(r *Reader) (uint32, error) {
	var buf [4]byte
	if err := r.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// U64LE reads a little-endian uint64.
func U64LE(r *Reader) (uint64, error) {
	var buf [8]byte
	if err := r.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// bytesChunk bounds how much Bytes allocates before it has confirmed that
// many bytes actually exist in the stream: a scriptLen field decodes
// straight from an untrusted compact int, up to MaxCompactSize, and a
// naive make([]byte, n) would let one bogus length field force a
// multi-megabyte allocation for a script that will fail to read a moment
// later.
const bytesChunk = 1 << 16

// Bytes reads exactly n bytes, growing its buffer in bounded chunks rather
// than allocating n bytes up front.
func Bytes(r *Reader, n uint64) ([]byte, error) {
	buf := make([]byte, 0, minU64(n, bytesChunk))
	for remaining := n; remaining > 0; {
		step := minU64(remaining, bytesChunk)
		chunk := make([]byte, step)
		if err := r.Read(chunk); err != nil {
			return nil, err
		}
		buf = append(buf, chunk...)
		remaining -= step
	}
	return buf, nil
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// ByteArray32 reads exactly 32 bytes into a fixed array, for txids, block
// hashes, and merkle roots.
func ByteArray32(r *Reader) ([32]byte, error) {
	var buf [32]byte
	if err := r.Read(buf[:]); err != nil {
		return buf, err
	}
	return buf, nil
}

// CompactInt decodes a Bitcoin CompactSize integer: a leading byte n, then
// (if n is 253, 254, or 255) 2, 4, or 8 little-endian bytes respectively.
// The encoding must be minimal for its value, and the decoded value must
// not exceed MaxCompactSize.
func CompactInt(r *Reader) (uint64, error) {
	n, err := U8(r)
	if err != nil {
		return 0, err
	}

	var v uint64
	switch {
	case n < 253:
		v = uint64(n)
	case n == 253:
		x, err := U16LE(r)
		if err != nil {
			return 0, err
		}
		if x < 253 {
			return 0, ErrNonCanonicalCompactInt
		}
		v = uint64(x)
	case n == 254:
		x, err := U32LE(r)
		if err != nil {
			return 0, err
		}
		if x < 0x10000 {
			return 0, ErrNonCanonicalCompactInt
		}
		v = uint64(x)
	default:
		x, err := U64LE(r)
		if err != nil {
			return 0, err
		}
		if x < 0x100000000 {
			return 0, ErrNonCanonicalCompactInt
		}
		v = x
	}

	if v > MaxCompactSize {
		return 0, ErrCompactIntTooLarge
	}
	return v, nil
}
