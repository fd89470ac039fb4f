package core

// Level is the electrical level of a digital output
type Level uint8

const (
	Low Level = iota
	High
)

// String returns "high" or "low"
func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

// Invert returns the opposite level
func (l Level) Invert() Level {
	if l == High {
		return Low
	}
	return High
}

// LevelOf converts a pin state to a Level
func LevelOf(high bool) Level {
	if high {
		return High
	}
	return Low
}

// OutputPin is the digital output capability core code drives.
// Board-specific implementations handle the actual pin.
type OutputPin interface {
	// Set drives the pin to the given level
	Set(level Level) error

	// Toggle inverts the current level
	Toggle() error

	// Level reads back the level currently driven
	Level() (Level, error)
}
