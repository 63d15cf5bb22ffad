package potential

// Summary - category totals of one candidate set. The zero Summary is what an
// invalid (not exactly three lines) set aggregates to.
type Summary struct {
	options []Option

	attackPercent int
	magicPercent  int
	statPercent   [4]int
	allStat       int
	cooldown      int
	critLines     int
	dropMesoLines int
	iedLines      int
	bossLines     int
}

// Summarize classifies and aggregates a candidate set.
func Summarize(set CandidateSet) Summary {
	if !set.Valid() {
		return Summary{}
	}
	return SummarizeOptions(ClassifySet(set))
}

// SummarizeOptions aggregates already classified lines.
func SummarizeOptions(opts []Option) Summary {
	if len(opts) != LinesPerSet {
		return Summary{}
	}
	s := Summary{options: opts}
	for _, o := range opts {
		if o.Tags.Has(TagAttackPercent) {
			s.attackPercent += o.Value
		}
		if o.Tags.Has(TagMagicPercent) {
			s.magicPercent += o.Value
		}
		if o.Tags.Has(TagStatPercent) {
			if i := statIndex(o.Stat); i >= 0 {
				s.statPercent[i] += o.Value
			}
		}
		if o.Tags.Has(TagAllStatPercent) {
			s.allStat += o.Value
		}
		if sec, ok := o.Cooldown(); ok {
			s.cooldown += sec
		}
		if o.Tags.Has(TagCritDamage) {
			s.critLines++
		}
		if o.Tags.Has(TagDropMeso) {
			s.dropMesoLines++
		}
		if o.Tags.Has(TagIgnoreDefense) {
			s.iedLines++
		}
		if o.Tags.Has(TagBossDamage) {
			s.bossLines++
		}
	}
	return s
}

// Valid reports whether the summary was built from a three-line set.
func (s Summary) Valid() bool {
	return len(s.options) == LinesPerSet
}

// Options returns the classified lines in set order.
func (s Summary) Options() []Option {
	return s.options
}

// TotalAttackPercent sums the attack% (or magic% for INT) lines.
func (s Summary) TotalAttackPercent(stat Stat) int {
	if stat.AttackKeyword() == keywordMagic {
		return s.magicPercent
	}
	return s.attackPercent
}

// StatTotals returns the per-stat percent sums and the all-stat accumulator.
func (s Summary) StatTotals() (map[Stat]int, int) {
	totals := make(map[Stat]int, len(singleStats))
	for i, st := range singleStats {
		totals[st] = s.statPercent[i]
	}
	return totals, s.allStat
}

// StatTotalByType resolves the stat measure for a preference:
// ANY takes the best single stat, ALLSTAT counts a third of STR+DEX+LUK,
// a named stat takes its own total; all-stat lines always add in full.
func (s Summary) StatTotalByType(pref Stat) float64 {
	all := float64(s.allStat)
	switch pref {
	case StatAny:
		best := 0
		for _, v := range s.statPercent {
			if v > best {
				best = v
			}
		}
		return float64(best) + all
	case StatAllStat:
		sum := s.statPercent[0] + s.statPercent[1] + s.statPercent[3]
		return all + float64(sum)/3
	}
	if i := statIndex(pref); i >= 0 {
		return float64(s.statPercent[i]) + all
	}
	return 0
}

func (s Summary) CooldownTotal() int      { return s.cooldown }
func (s Summary) CritDamageLines() int    { return s.critLines }
func (s Summary) DropOrMesoLines() int    { return s.dropMesoLines }
func (s Summary) IgnoreDefenseLines() int { return s.iedLines }
func (s Summary) BossDamageLines() int    { return s.bossLines }
