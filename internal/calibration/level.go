package calibration

import "fmt"

// Level grades a model by its expected calibration error
type Level int

const (
	LevelExcellent Level = iota
	LevelGood
	LevelAcceptable
	LevelPoor
	LevelUnusable
)

var levelNames = [...]string{"excellent", "good", "acceptable", "poor", "unusable"}

// LevelForECE maps an expected calibration error onto the five-level scale.
func LevelForECE(ece float64) Level {
	switch {
	case ece < 0.02:
		return LevelExcellent
	case ece < 0.05:
		return LevelGood
	case ece < 0.10:
		return LevelAcceptable
	case ece < 0.15:
		return LevelPoor
	default:
		return LevelUnusable
	}
}

func (l Level) String() string {
	if l < LevelExcellent || l > LevelUnusable {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if l < LevelExcellent || l > LevelUnusable {
		return nil, fmt.Errorf("invalid calibration level %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	for i, name := range levelNames {
		if name == string(text) {
			*l = Level(i)
			return nil
		}
	}
	return fmt.Errorf("unknown calibration level %q", string(text))
}
