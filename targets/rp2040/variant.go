//go:build rp2040

package main

import "placebo/firmware"

// GetVariant returns the firmware configuration to run.
// Build with -tags ticktock for the tick-tock firmware.
func GetVariant() firmware.Config {
	if tickTock {
		return firmware.TickTockConfig()
	}
	return firmware.DefaultConfig()
}
