package signal

import "github.com/btcsuite/btclog"

// log is the signal subsystem logger. It defaults to disabled and is wired
// up by the driver via UseLogger.
var log = btclog.Disabled

// UseLogger sets the subsystem logger used by the signal package.
func UseLogger(logger btclog.Logger) {
	log = logger
}
