// Package blockscan implements the outer block-file scanning loop: locate
// a frame, validate its magic and size, deserialize the block, and emit
// every address its outputs pay to. Any per-frame failure is logged and the
// scanner resynchronizes one byte past the last candidate magic, so a
// single corrupt frame can never stall or abort the file.
package blockscan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"

	"github.com/speknet/btcaddrscan/addrscript"
	"github.com/speknet/btcaddrscan/blockstream"
	"github.com/speknet/btcaddrscan/chainblock"
	"github.com/speknet/btcaddrscan/chainparams"
)

const (
	// maxBlockSerializedSize is MAX_BLOCK_SERIALIZED_SIZE: the largest
	// frame this scanner will trust.
	maxBlockSerializedSize = 4_000_000

	streamBufSize         = 2 * maxBlockSerializedSize
	streamRewindGuarantee = maxBlockSerializedSize + 8
)

// log is the blockscan subsystem logger. It defaults to disabled and is
// wired up by the driver via UseLogger, matching lnd's per-subsystem
// UseLogger convention.
var log = btclog.Disabled

// UseLogger sets the subsystem logger used by blockscan.
func UseLogger(logger btclog.Logger) {
	log = logger
}

type flusher interface {
	Flush() error
}

// Scanner walks block files for a single, fixed network and writes every
// address it discovers to sink, one per line.
type Scanner struct {
	params *chainparams.Params
	sink   io.Writer

	loadedBlocks int
}

// NewScanner constructs a Scanner for the given network, writing addresses
// to sink.
func NewScanner(params *chainparams.Params, sink io.Writer) *Scanner {
	return &Scanner{params: params, sink: sink}
}

// LoadedBlocks returns the number of blocks successfully decoded so far
// across all files scanned by this Scanner.
func (s *Scanner) LoadedBlocks() int {
	return s.loadedBlocks
}

// ScanDirectory walks blk00000.dat, blk00001.dat, ... in dir, stopping at
// the first missing file. It returns the number of files successfully
// scanned; a missing file ends the walk but is not itself an error.
//
// stop is checked between files (never mid-frame, since the core does not
// suspend): a closed stop channel ends the walk early without error, for a
// driver-level graceful shutdown on interrupt. A nil channel disables this.
func (s *Scanner) ScanDirectory(dir string, stop <-chan struct{}) (int, error) {
	filesScanned := 0
	for fileIndex := 0; ; fileIndex++ {
		select {
		case <-stop:
			return filesScanned, nil
		default:
		}

		path := filepath.Join(dir, fmt.Sprintf("blk%05d.dat", fileIndex))
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				break
			}
			return filesScanned, err
		}

		log.Infof("Processing block file %s...", filepath.Base(path))
		if err := s.ScanFile(path); err != nil {
			return filesScanned, err
		}
		filesScanned++

		if f, ok := s.sink.(flusher); ok {
			if err := f.Flush(); err != nil {
				return filesScanned, err
			}
		}
	}
	return filesScanned, nil
}

// ScanFile runs the frame-find / frame-validate / deserialize / emit /
// resync loop over a single block file.
func (s *Scanner) ScanFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	r, err := blockstream.NewReader(f, streamBufSize, streamRewindGuarantee)
	if err != nil {
		f.Close()
		return err
	}
	defer r.Close()

	rewindCursor := r.Pos()
	for !r.Eof() {
		r.SetPos(rewindCursor)
		rewindCursor++
		r.ClearLimit()

		size, found, err := s.findFrame(r, &rewindCursor)
		if err != nil {
			if errors.Is(err, blockstream.ErrUnexpectedEof) {
				break
			}
			return fmt.Errorf("blockscan: %s: %w", path, err)
		}
		if !found {
			continue
		}

		blockPos := r.Pos()
		if !r.SetLimit(blockPos + uint64(size)) {
			continue
		}

		block, err := chainblock.DeserializeBlock(r)
		if err != nil {
			log.Infof("%s: skipping malformed frame at offset %d: %v",
				path, blockPos, err)
			continue
		}
		rewindCursor = r.Pos()

		if err := s.emit(block); err != nil {
			return fmt.Errorf("blockscan: %s: writing addresses: %w", path, err)
		}

		s.loadedBlocks++
		if s.loadedBlocks%100 == 1 {
			log.Infof("%s: block %d loaded (hash %s)",
				path, s.loadedBlocks, block.Header.Hash())
		}
	}
	return nil
}

// findFrame locates the next candidate frame and validates its magic and
// size. It returns (0, false, nil) when the candidate at the current
// position should be skipped (bogus magic or out-of-range size) and lets
// the caller resume its search at *rewindCursor, which findFrame has
// already set one byte past the candidate before any validation —
// guaranteeing forward progress regardless of outcome.
func (s *Scanner) findFrame(r *blockstream.Reader, rewindCursor *uint64) (uint32, bool, error) {
	if err := r.FindByte(s.params.Magic[0]); err != nil {
		return 0, false, err
	}
	*rewindCursor = r.Pos() + 1

	var magic [4]byte
	if err := r.Read(magic[:]); err != nil {
		return 0, false, err
	}
	if magic != s.params.Magic {
		return 0, false, nil
	}

	size, err := blockstream.U32LE(r)
	if err != nil {
		return 0, false, err
	}
	if size < chainblock.BlockHeaderSize || size > maxBlockSerializedSize {
		return 0, false, nil
	}
	return size, true, nil
}

// emit walks every transaction output in block and writes each classified
// address followed by a newline, in file/block/transaction/output/pattern
// order. Addresses are never deduplicated.
func (s *Scanner) emit(block *chainblock.Block) error {
	for _, tx := range block.Transactions {
		for _, out := range tx.Outputs {
			for _, addr := range addrscript.Extract(out.Script, s.params) {
				if _, err := io.WriteString(s.sink, addr+"\n"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
