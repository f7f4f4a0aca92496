package main

import (
	"bufio"
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/speknet/btcaddrscan/blockscan"
	"github.com/speknet/btcaddrscan/build"
	"github.com/speknet/btcaddrscan/chainparams"
	"github.com/speknet/btcaddrscan/signal"
)

// run is the true entry point. It is separated from main so that deferred
// cleanup (flushing the output file) always executes, including when the
// scan is cut short by a graceful shutdown.
func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := build.ParseAndSetDebugLevels(cfg.DebugLevel, appLogLevels{}); err != nil {
		return err
	}

	params, err := chainparams.Select(cfg.Network)
	if err != nil {
		return err
	}

	out, err := os.OpenFile(cfg.OutFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	defer out.Close()

	sink := bufio.NewWriter(out)
	defer sink.Flush()

	scnLog.Infof("Scanning %s block files in %s, network %s",
		params.Network, cfg.DataDir, params.Network)

	scanner := blockscan.NewScanner(params, sink)
	filesScanned, err := scanner.ScanDirectory(cfg.DataDir, signal.ShutdownChannel())
	if err != nil {
		return err
	}

	scnLog.Infof("Scanned %d file(s), loaded %d block(s)",
		filesScanned, scanner.LoadedBlocks())

	return sink.Flush()
}

func main() {
	if err := run(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
