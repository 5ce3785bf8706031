package main

import (
	"fmt"

	"github.com/itohio/sailtrim/pkg/control"
)

// formatStatus describes the latest reading for the status bar.
func formatStatus(r control.Reading) string {
	if r.Fallback {
		if !r.Written {
			return fmt.Sprintf("%s  vane timeout, servo untouched", r.Time.Format("15:04:05.000"))
		}
		return fmt.Sprintf("%s  vane timeout, holding pulse=%d", r.Time.Format("15:04:05.000"), r.Pulse)
	}
	return fmt.Sprintf("%s  raw=%d  %s", r.Time.Format("15:04:05.000"), r.Raw, r.Decision)
}
