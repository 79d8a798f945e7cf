// Package internal holds process-wide setup shared by the binaries.
package internal

import (
	"log"
	"os"
)

// InitLogging routes diagnostics to stderr so query results on stdout
// stay machine readable.
func InitLogging() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}
