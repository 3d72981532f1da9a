package log

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/openshift-eng/ci-monitor/internal/errors"
)

// Logrus reserves 0 and 1 for the Panic and Fatal levels, which this
// package does not expose, so our levels are shifted by two.
const shiftLogrusLevel = 2

// These are the different logging levels.
const (
	// ErrorLevel level. Used for errors that should definitely be noted.
	ErrorLevel Level = iota
	// WarnLevel level. Non-critical entries that deserve eyes.
	WarnLevel
	// InfoLevel level. General operational entries about what's going on inside the application.
	InfoLevel
	// DebugLevel level. Usually only enabled when debugging. Very verbose logging.
	DebugLevel
	// TraceLevel level. Designates finer-grained informational events than the Debug.
	TraceLevel
)

// AllLevels exposes all logging levels.
var AllLevels = Levels{
	ErrorLevel,
	WarnLevel,
	InfoLevel,
	DebugLevel,
	TraceLevel,
}

var levelNames = map[Level]string{
	ErrorLevel: "error",
	WarnLevel:  "warn",
	InfoLevel:  "info",
	DebugLevel: "debug",
	TraceLevel: "trace",
}

var levelShortNames = map[Level]string{
	ErrorLevel: "E",
	WarnLevel:  "W",
	InfoLevel:  "I",
	DebugLevel: "D",
	TraceLevel: "T",
}

// Level type.
type Level uint32

// ParseLevel takes a string and returns the Level constant.
func ParseLevel(str string) (Level, error) {
	for level, name := range levelNames {
		if strings.EqualFold(name, str) {
			return level, nil
		}
	}

	return Level(0), errors.Errorf("invalid level %q, supported levels: %s", str, AllLevels)
}

// String implements fmt.Stringer.
func (level Level) String() string {
	if name, ok := levelNames[level]; ok {
		return name
	}

	return ""
}

// ShortName returns a single-letter name for the level.
func (level Level) ShortName() string {
	if name, ok := levelShortNames[level]; ok {
		return name
	}

	return ""
}

// ToLogrusLevel converts the level to its logrus counterpart.
func (level Level) ToLogrusLevel() logrus.Level {
	return logrus.Level(level + shiftLogrusLevel)
}

// FromLogrusLevel converts a logrus level back to our Level.
func FromLogrusLevel(lvl logrus.Level) Level {
	return Level(lvl - shiftLogrusLevel)
}

// Levels is a list of levels.
type Levels []Level

// Names returns the string names of all levels in the list.
func (levels Levels) Names() []string {
	strs := make([]string, len(levels))

	for i, level := range levels {
		strs[i] = level.String()
	}

	return strs
}

// String implements fmt.Stringer.
func (levels Levels) String() string {
	return strings.Join(levels.Names(), ", ")
}
