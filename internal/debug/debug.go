package debug

import (
	"fmt"
	"log"
	"time"
)

// Header opens a named debug section, e.g. "parse 1042" or "batch"
func Header(enabled bool, section string) {
	if enabled {
		log.Printf(">>> %s", section)
	}
}

// Footer closes the section opened by Header
func Footer(enabled bool, section string) {
	if enabled {
		log.Printf("<<< %s", section)
	}
}

// Output logs a timestamped debug line when enabled
func Output(enabled bool, format string, args ...interface{}) {
	if !enabled {
		return
	}
	log.Printf("[%s] %s", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}

// Record is Output tagged with the address record id, so interleaved lines
// from parallel workers can be told apart.
func Record(enabled bool, id string, format string, args ...interface{}) {
	if !enabled {
		return
	}
	Output(enabled, "record=%s %s", id, fmt.Sprintf(format, args...))
}

// Timing logs the start of operation and returns a func that logs its duration
func Timing(enabled bool, operation string) func() {
	if !enabled {
		return func() {}
	}

	start := time.Now()
	Output(enabled, "Starting: %s", operation)
	return func() {
		Output(enabled, "Completed: %s (took %v)", operation, time.Since(start))
	}
}
