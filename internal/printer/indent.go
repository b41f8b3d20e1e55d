package printer

import "strings"

// Adjust is the change applied to the indentation counter after an Indent
// call.
type Adjust int

const (
	// KeepLevel leaves the counter unchanged.
	KeepLevel Adjust = iota
	// IncreaseLevel bumps the counter by one after the indent string is
	// produced.
	IncreaseLevel
	// DecreaseLevel drops the counter by one after the indent string is
	// produced.
	DecreaseLevel
)

// NoOverride passed as the level override makes Indent use the internal
// counter.
const NoOverride = -1

// Indenter produces indentation strings and tracks the current level. One
// Indenter belongs to exactly one Print call; state never leaks across
// top-level format invocations.
type Indenter struct {
	unit  string
	level int
}

// NewIndenter returns an Indenter at level zero emitting unit per level.
func NewIndenter(unit string) *Indenter {
	return &Indenter{unit: unit}
}

// Indent returns the indent string for the current level, or for override
// when override is not NoOverride (clamped to zero), then applies adjust to
// the internal counter. The returned string always reflects the
// pre-adjustment state.
func (in *Indenter) Indent(override int, adjust Adjust) string {
	level := in.level
	if override != NoOverride {
		level = max(override, 0)
	}

	switch adjust {
	case IncreaseLevel:
		in.level++
	case DecreaseLevel:
		if in.level > 0 {
			in.level--
		}
	}

	return strings.Repeat(in.unit, level)
}

// Level reports the current indentation level.
func (in *Indenter) Level() int { return in.level }

// Reset returns the counter to the given level.
func (in *Indenter) Reset(level int) { in.level = max(level, 0) }
