package criteria

import "github.com/MaaXYZ/MaaCube/agent/go-service/potential"

// glove crit damage lines are worth this much stat% when no crit threshold is set
const critLineWeight = 32

// cooldown seconds of the one cooldown line the additional tier can roll
const additionalCooldownSeconds = 1

// StatPotential - main-tier rule for accessories and armor: stat% measure reaches
// the target, with one optional bonus condition chosen by parts type.
type StatPotential struct {
	TargetPercent    int            `json:"target_percent" yaml:"target_percent"`
	StatType         potential.Stat `json:"stat_type" yaml:"stat_type"`
	MinCooldown      int            `json:"min_cooldown" yaml:"min_cooldown"`
	MinCritLines     int            `json:"min_crit_lines" yaml:"min_crit_lines"`
	MinDropMesoLines int            `json:"min_drop_meso_lines" yaml:"min_drop_meso_lines"`
}

type bonusRule int

const (
	bonusNone bonusRule = iota
	bonusCooldown
	bonusCrit
	bonusDropMeso
)

// bonus picks the single bonus condition that applies to parts.
func (s StatPotential) bonus(parts potential.PartsType) bonusRule {
	switch {
	case parts == potential.PartsHat && s.MinCooldown > 0:
		return bonusCooldown
	case parts == potential.PartsGlove && s.MinCritLines > 0:
		return bonusCrit
	case parts.Class() == potential.ClassAccessory && s.MinDropMesoLines > 0:
		return bonusDropMeso
	}
	return bonusNone
}

func (s StatPotential) Policy() Policy        { return PolicyStatPotential }
func (s StatPotential) NeedsFirstLines() bool { return false }

func (s StatPotential) Validate(c potential.Context) error {
	if err := checkPolicy(c, PolicyStatPotential); err != nil {
		return err
	}
	if !validStatType(s.StatType) {
		return invalid("stat_type", "unknown stat %q", s.StatType)
	}
	if s.MinCooldown < 0 {
		return invalid("min_cooldown", "must not be negative, got %d", s.MinCooldown)
	}
	if s.MinCritLines < 0 || s.MinCritLines > potential.LinesPerSet {
		return invalid("min_crit_lines", "must be between 0 and %d, got %d", potential.LinesPerSet, s.MinCritLines)
	}
	if s.MinDropMesoLines < 0 || s.MinDropMesoLines > potential.LinesPerSet {
		return invalid("min_drop_meso_lines", "must be between 0 and %d, got %d", potential.LinesPerSet, s.MinDropMesoLines)
	}
	if s.TargetPercent < 0 {
		return invalid("target_percent", "must not be negative, got %d", s.TargetPercent)
	}
	if s.TargetPercent == 0 && s.bonus(c.Parts) == bonusNone {
		return invalid("target_percent", "must be positive without a bonus condition")
	}
	return nil
}

func (s StatPotential) Accept(set potential.CandidateSet, env Env) bool {
	if !set.Valid() {
		return false
	}
	sum := potential.Summarize(set)
	pref := s.StatType
	if pref == "" {
		pref = env.Stat
	}

	measure := sum.StatTotalByType(pref)
	if env.Parts == potential.PartsGlove && s.MinCritLines == 0 {
		measure += float64(critLineWeight * sum.CritDamageLines())
	}
	reached := measure >= float64(s.TargetPercent)

	switch s.bonus(env.Parts) {
	case bonusCooldown:
		cd := sum.CooldownTotal()
		if cd >= s.MinCooldown+1 {
			return true
		}
		return reached && cd >= s.MinCooldown
	case bonusCrit:
		crit := sum.CritDamageLines()
		if crit >= s.MinCritLines+1 {
			return true
		}
		return reached && crit >= s.MinCritLines
	case bonusDropMeso:
		dm := sum.DropOrMesoLines()
		if dm >= s.MinDropMesoLines+1 {
			return true
		}
		return reached && dm >= s.MinDropMesoLines
	}
	return reached
}

// AdditionalStat - additional-tier rule for accessories and armor: enough useful
// lines for the stat preference.
type AdditionalStat struct {
	RequiredLines   int            `json:"required_lines" yaml:"required_lines"`
	StatType        potential.Stat `json:"stat_type" yaml:"stat_type"`
	RequireCooldown bool           `json:"require_cooldown" yaml:"require_cooldown"`
}

func (a AdditionalStat) Policy() Policy        { return PolicyAdditionalStat }
func (a AdditionalStat) NeedsFirstLines() bool { return false }

func (a AdditionalStat) Validate(c potential.Context) error {
	if err := checkPolicy(c, PolicyAdditionalStat); err != nil {
		return err
	}
	if a.RequiredLines != 2 && a.RequiredLines != 3 {
		return invalid("required_lines", "must be 2 or 3, got %d", a.RequiredLines)
	}
	if !validStatType(a.StatType) {
		return invalid("stat_type", "unknown stat %q", a.StatType)
	}
	return nil
}

func (a AdditionalStat) Accept(set potential.CandidateSet, env Env) bool {
	if !set.Valid() {
		return false
	}
	opts := potential.ClassifySet(set)
	pref := a.StatType
	if pref == "" {
		pref = env.Stat
	}
	stats := pref.Expand()

	cdLines := 0
	for _, o := range opts {
		if sec, ok := o.Cooldown(); ok && sec == additionalCooldownSeconds {
			cdLines++
		}
	}
	if cdLines >= 2 {
		return true
	}
	if a.RequireCooldown && cdLines == 0 {
		return false
	}

	valid, allStatPct := 0, 0
	for _, o := range opts {
		if usefulLine(o, stats) {
			valid++
		}
		if o.Tags.Has(potential.TagAllStatPercent) {
			allStatPct++
		}
	}

	if pref == potential.StatAllStat {
		need := 1
		if a.RequiredLines == 3 {
			need = 2
		}
		if allStatPct < need {
			return false
		}
	}

	if valid >= 3 {
		return true
	}
	if a.RequiredLines == 2 && valid >= 2 {
		return true
	}
	// two strong stat% lines on top count as a three-line roll
	if a.RequiredLines == 3 && statPercentFor(opts[0], pref, stats) &&
		(statPercentFor(opts[1], pref, stats) || opts[1].Tags.Has(potential.TagAllStatPercent)) {
		return true
	}
	return false
}

func usefulLine(o potential.Option, stats []potential.Stat) bool {
	if o.Tags&(potential.TagAllStatPercent|potential.TagAllStatFlat|potential.TagCritDamage) != 0 {
		return true
	}
	if sec, ok := o.Cooldown(); ok && sec == additionalCooldownSeconds {
		return true
	}
	for _, st := range stats {
		if o.StatPercent(st) || o.StatFlat(st) || o.AttackFlat(st) || o.PerLevelStat(st) {
			return true
		}
	}
	return false
}

func statPercentFor(o potential.Option, pref potential.Stat, stats []potential.Stat) bool {
	if pref == potential.StatAllStat && o.Tags.Has(potential.TagAllStatPercent) {
		return true
	}
	for _, st := range stats {
		if o.StatPercent(st) {
			return true
		}
	}
	return false
}
