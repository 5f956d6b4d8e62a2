package analytics

import "github.com/sadopc/sitelog/internal/store"

// Level is a coarse productivity verdict.
type Level int

const (
	LevelCritical Level = iota
	LevelSlightlyDelayed
	LevelOnTrack
)

func (l Level) String() string {
	switch l {
	case LevelOnTrack:
		return "On Track"
	case LevelSlightlyDelayed:
		return "Slightly Delayed"
	default:
		return "Critical Delay"
	}
}

// Bands are the lower bounds of the On Track and Slightly Delayed levels.
type Bands struct {
	OnTrack     float64
	SlightDelay float64
}

func DefaultBands() Bands {
	return Bands{OnTrack: 90, SlightDelay: 75}
}

func LoadBands(s SettingsReader) Bands {
	d := DefaultBands()
	b := Bands{
		OnTrack:     s.SettingFloat(store.SettingOnTrack, d.OnTrack),
		SlightDelay: s.SettingFloat(store.SettingSlightDelay, d.SlightDelay),
	}
	if b.SlightDelay > b.OnTrack {
		return d
	}
	return b
}

func (b Bands) Level(pct float64) Level {
	switch {
	case pct >= b.OnTrack:
		return LevelOnTrack
	case pct >= b.SlightDelay:
		return LevelSlightlyDelayed
	default:
		return LevelCritical
	}
}
