package htlcswitch

import "github.com/btcsuite/btclog"

// log is the package-level logger for the htlcswitch package, following the
// same subsystem-logger convention as the rest of the lnd tree: disabled by
// default, wired in by the host process via UseLogger.
var log btclog.Logger

func init() {
	DisableLog()
}

// DisableLog disables all library log output.
func DisableLog() {
	log = btclog.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}
