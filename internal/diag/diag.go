// Package diag provides the one shared diagnostics sink every lum package
// warns through. The engine never returns an error from its public API for
// invalid input (see core, solver): it logs and skips the operation instead,
// the same policy PCL_WARN implements in the original C++ source this
// package is modeled on. No complete repo in the retrieval pack imports a
// structured-logging library for this kind of internal warning, so this
// stays on the standard library's log.Logger rather than reaching for one.
package diag

import (
	"io"
	"log"
	"os"
)

// Logger is the package-wide warning sink. Tests and host applications may
// redirect or silence it via SetOutput.
var Logger = log.New(os.Stderr, "lum: ", 0)

// SetOutput redirects all future warnings to w. Passing io.Discard silences
// the engine entirely without changing any call site.
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// Warnf logs a formatted warning. It never returns an error and never
// panics: diagnostics must not change control flow for the caller.
func Warnf(format string, args ...interface{}) {
	Logger.Printf(format, args...)
}
