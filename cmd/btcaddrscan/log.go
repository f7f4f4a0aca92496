package main

import (
	"os"

	"github.com/btcsuite/btclog"

	"github.com/speknet/btcaddrscan/addrscript"
	"github.com/speknet/btcaddrscan/blockscan"
	"github.com/speknet/btcaddrscan/build"
	"github.com/speknet/btcaddrscan/chainblock"
	"github.com/speknet/btcaddrscan/signal"
)

// Loggers per subsystem. A single backend logger is created and every
// subsystem logger is derived from it, so all output shares one writer.
var (
	backendLog = btclog.NewBackend(os.Stdout)

	scnLog = backendLog.Logger("BSCN")
	blkLog = backendLog.Logger("CHBK")
	adrLog = backendLog.Logger("ADDR")
	sigLog = backendLog.Logger("SGNL")
)

func init() {
	blockscan.UseLogger(scnLog)
	chainblock.UseLogger(blkLog)
	addrscript.UseLogger(adrLog)
	signal.UseLogger(sigLog)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = build.SubLoggers{
	"BSCN": scnLog,
	"CHBK": blkLog,
	"ADDR": adrLog,
	"SGNL": sigLog,
}

// SubLoggers implements build.LeveledSubLogger.
func (s appLogLevels) SubLoggers() build.SubLoggers {
	return subsystemLoggers
}

// SupportedSubsystems implements build.LeveledSubLogger.
func (s appLogLevels) SupportedSubsystems() []string {
	return []string{"BSCN", "CHBK", "ADDR", "SGNL"}
}

// SetLogLevel implements build.LeveledSubLogger.
func (s appLogLevels) SetLogLevel(subsystemID string, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}
	level, _ := btclog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// SetLogLevels implements build.LeveledSubLogger.
func (s appLogLevels) SetLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		s.SetLogLevel(subsystemID, logLevel)
	}
}

// appLogLevels is the receiver used to satisfy build.LeveledSubLogger.
type appLogLevels struct{}
