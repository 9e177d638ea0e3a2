// Package tlp implements the Traffic Light Protocol levels used to classify
// how widely events, objects and attributes may be shared.
//
// Levels are totally ordered by their ordinal. White is the most shareable
// level and carries the lowest ordinal.
package tlp

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/intelshare/internal/common"
)

// Level is a TLP sensitivity level.
type Level uint8

const (
	White Level = iota
	Green
	Amber
	Red
)

// Default is the level assumed for entities and callers that carry none.
const Default = White

var names = [...]string{
	White: "White",
	Green: "Green",
	Amber: "Amber",
	Red:   "Red",
}

// Levels returns every defined level in ordinal order.
func Levels() []Level {
	out := make([]Level, len(names))
	for i := range names {
		out[i] = Level(i)
	}
	return out
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return int(l) < len(names)
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
	return names[l]
}

// ByName looks a level up by its name. The match is case-insensitive.
func ByName(name string) (Level, error) {
	for i, n := range names {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("%w: name %q", common.ErrUnknownLevel, name)
}

// ByValue looks a level up by its ordinal.
func ByValue(v int) (Level, error) {
	if v < 0 || v >= len(names) {
		return 0, fmt.Errorf("%w: value %d", common.ErrUnknownLevel, v)
	}
	return Level(v), nil
}

// Min returns the less restrictive of a and b.
func Min(a, b Level) Level {
	if b < a {
		return b
	}
	return a
}
