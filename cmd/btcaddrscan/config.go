package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultNetwork    = "testnet"
	defaultDebugLevel = "info"
	defaultOutFile    = "addresses.txt"
)

// config holds the scanner's external configuration surface. The network
// triad (-m/-t/-r) mirrors original_source/addr_parser's getopt surface;
// --network is the long-form equivalent and, if given, overrides the
// triad outright.
type config struct {
	Mainnet bool   `short:"m" long:"mainnet" description:"Parse BTC mainnet data"`
	Testnet bool   `short:"t" long:"testnet" description:"Parse BTC testnet data, default option"`
	Regtest bool   `short:"r" long:"regtest" description:"Parse BTC regtest data"`
	Network string `short:"n" long:"network" description:"Network whose block files are being scanned; overrides -m/-t/-r" choice:"mainnet" choice:"testnet" choice:"regtest"`

	DataDir string `short:"p" long:"db_path" description:"Directory containing blk?????.dat files, e.g. ${HOME}/.bitcoin/blocks; default is the current directory"`
	OutFile string `short:"o" long:"out_file" description:"Path to write the discovered addresses to, one per line"`

	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <global-level>,<subsystem>=<level>,... to set individual subsystem levels"`
}

// defaultConfig returns a config populated with the values spec'd as
// defaults: testnet, the current directory, and ./addresses.txt.
func defaultConfig() config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return config{
		DataDir:    cwd,
		OutFile:    defaultOutFile,
		DebugLevel: defaultDebugLevel,
	}
}

// resolveNetwork folds the -m/-t/-r triad and the --network override down
// to a single network name. --network, if given, wins outright; otherwise
// whichever of -r, -m, -t is set wins in that order; absent all four, the
// spec'd default of testnet applies.
func resolveNetwork(cfg config) string {
	if cfg.Network != "" {
		return cfg.Network
	}
	switch {
	case cfg.Regtest:
		return "regtest"
	case cfg.Mainnet:
		return "mainnet"
	case cfg.Testnet:
		return "testnet"
	default:
		return defaultNetwork
	}
}

// loadConfig parses command-line flags over the spec'd defaults.
func loadConfig() (*config, error) {
	cfg := defaultConfig()

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		return nil, err
	}

	cfg.Network = resolveNetwork(cfg)
	cfg.DataDir = filepath.Clean(cfg.DataDir)
	if cfg.Network == "" {
		return nil, fmt.Errorf("network must not be empty")
	}

	return &cfg, nil
}
