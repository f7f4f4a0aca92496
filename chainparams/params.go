// Package chainparams selects the Bitcoin network the rest of the tool runs
// against. It is established once at startup from the CLI and threaded
// explicitly into the scanner and address encoder, rather than kept as
// mutable global state.
package chainparams

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
)

// ErrBadConfiguration is returned when the requested network name is not
// one this tool understands.
var ErrBadConfiguration = errors.New("chainparams: unknown network")

// Network identifies one of the three Bitcoin networks this tool
// understands.
type Network int

const (
	// Mainnet is the production Bitcoin network.
	Mainnet Network = iota

	// Testnet is the public test network (testnet3).
	Testnet

	// Regtest is a local regression-test network.
	Regtest
)

// String returns the canonical lowercase name of the network.
func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	case Regtest:
		return "regtest"
	default:
		return "unknown"
	}
}

// Params couples a btcsuite chain-parameter set with the raw 4-byte magic
// that prefixes every block-file frame on this network.
type Params struct {
	*chaincfg.Params

	Network Network
	Magic   [4]byte
}

func magicOf(p *chaincfg.Params) [4]byte {
	var m [4]byte
	binary.LittleEndian.PutUint32(m[:], uint32(p.Net))
	return m
}

// Select resolves a network name ("mainnet", "testnet", "regtest", and the
// empty string defaulting to testnet per this tool's configuration surface)
// to its Params. An unrecognized name is a configuration error, surfaced to
// the driver before scanning begins.
func Select(network string) (*Params, error) {
	switch network {
	case "", "testnet":
		return &Params{
			Params:  &chaincfg.TestNet3Params,
			Network: Testnet,
			Magic:   magicOf(&chaincfg.TestNet3Params),
		}, nil
	case "mainnet":
		return &Params{
			Params:  &chaincfg.MainNetParams,
			Network: Mainnet,
			Magic:   magicOf(&chaincfg.MainNetParams),
		}, nil
	case "regtest":
		return &Params{
			Params:  &chaincfg.RegressionNetParams,
			Network: Regtest,
			Magic:   magicOf(&chaincfg.RegressionNetParams),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadConfiguration, network)
	}
}
