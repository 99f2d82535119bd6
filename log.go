package scitalk

import "log"

// Global verbose flag, set once at startup from config.
var verboseMode bool

// SetVerbose sets the global verbose mode.
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// VerboseLog logs only when verbose mode is enabled.
func VerboseLog(format string, v ...interface{}) {
	if verboseMode {
		log.Printf(format, v...)
	}
}
