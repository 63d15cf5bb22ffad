package potential

// LinesPerSet - every rolled potential has exactly three option lines
const LinesPerSet = 3

// CandidateSet - one complete roll outcome for a single slot, in line order
type CandidateSet []string

// Valid reports whether the set has exactly LinesPerSet lines.
func (s CandidateSet) Valid() bool {
	return len(s) == LinesPerSet
}

// RollCandidates - parallel candidate sets produced by one generation call
type RollCandidates []CandidateSet

// Context - selection snapshot supplied by the host, re-read every cycle
type Context struct {
	Parts  PartsType
	CubeID string
	Stat   Stat
	Level  int
}

// RollKind resolves the roll tier from the selected cube id.
func (c Context) RollKind() RollKind {
	return ResolveRollKind(c.CubeID)
}

// Class is the coarse item class of the selected parts type.
func (c Context) Class() ItemClass {
	return c.Parts.Class()
}

// EffectiveStat resolves the stat preference against the selected item class.
func (c Context) EffectiveStat() Stat {
	return c.Stat.Effective(c.Class())
}
