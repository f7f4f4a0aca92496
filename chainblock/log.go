package chainblock

import "github.com/btcsuite/btclog"

// log is the chainblock subsystem logger. It defaults to disabled and is
// wired up by the driver via UseLogger, matching lnd's per-subsystem
// UseLogger convention.
var log = btclog.Disabled

// UseLogger sets the subsystem logger used by chainblock.
func UseLogger(logger btclog.Logger) {
	log = logger
}
