package addrscript

import "github.com/btcsuite/btclog"

// log is the addrscript subsystem logger. It defaults to disabled and is
// wired up by the driver via UseLogger, matching lnd's per-subsystem
// UseLogger convention.
var log = btclog.Disabled

// UseLogger sets the subsystem logger used by addrscript.
func UseLogger(logger btclog.Logger) {
	log = logger
}
