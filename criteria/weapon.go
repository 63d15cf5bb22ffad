package criteria

import "github.com/MaaXYZ/MaaCube/agent/go-service/potential"

// MainPotential - main-tier rule for weapon-like items: every line must be
// IED, boss (non-emblem only) or attack%, within the configured maxima.
type MainPotential struct {
	IEDMaxN       int  `json:"ied_max" yaml:"ied_max"`
	BossMaxM      int  `json:"boss_max" yaml:"boss_max"`
	SeekDeparture bool `json:"seek_departure" yaml:"seek_departure"`
}

func (m MainPotential) Policy() Policy        { return PolicyMainPotential }
func (m MainPotential) NeedsFirstLines() bool { return m.SeekDeparture }

func (m MainPotential) Validate(c potential.Context) error {
	if err := checkPolicy(c, PolicyMainPotential); err != nil {
		return err
	}
	if m.IEDMaxN < 0 || m.IEDMaxN > potential.LinesPerSet {
		return invalid("ied_max", "must be between 0 and %d, got %d", potential.LinesPerSet, m.IEDMaxN)
	}
	if ShowsBossRow(c.Parts) {
		maxBoss := potential.LinesPerSet - m.IEDMaxN
		if m.BossMaxM < 0 || m.BossMaxM > maxBoss {
			return invalid("boss_max", "must be between 0 and %d, got %d", maxBoss, m.BossMaxM)
		}
	}
	return nil
}

func (m MainPotential) Accept(set potential.CandidateSet, env Env) bool {
	if !set.Valid() {
		return false
	}
	sum := potential.Summarize(set)
	stat := env.Stat.Effective(potential.ClassWeaponLike)

	if sum.IgnoreDefenseLines() > m.IEDMaxN {
		return false
	}

	if env.Parts == potential.PartsEmblem {
		if sum.BossDamageLines() > 0 {
			return false
		}
		for _, o := range sum.Options() {
			if o.Tags.Has(potential.TagIgnoreDefense) {
				continue
			}
			if _, ok := o.AttackPercent(stat); !ok {
				return false
			}
		}
	} else {
		if sum.BossDamageLines() > m.BossMaxM {
			return false
		}
		for _, o := range sum.Options() {
			if o.Tags.Has(potential.TagIgnoreDefense) || o.Tags.Has(potential.TagBossDamage) {
				continue
			}
			if _, ok := o.AttackPercent(stat); !ok {
				return false
			}
		}
	}

	if m.SeekDeparture && !env.FirstLines.Departed(set) {
		return false
	}
	return true
}

// AdditionalWeapon - additional-tier rule for weapon-like items: attack% total reaches the target.
type AdditionalWeapon struct {
	TargetPercent int `json:"target_percent" yaml:"target_percent"`
}

func (a AdditionalWeapon) Policy() Policy        { return PolicyAdditionalWeapon }
func (a AdditionalWeapon) NeedsFirstLines() bool { return false }

func (a AdditionalWeapon) Validate(c potential.Context) error {
	if err := checkPolicy(c, PolicyAdditionalWeapon); err != nil {
		return err
	}
	if a.TargetPercent <= 0 {
		return invalid("target_percent", "must be positive, got %d", a.TargetPercent)
	}
	return nil
}

func (a AdditionalWeapon) Accept(set potential.CandidateSet, env Env) bool {
	if !set.Valid() {
		return false
	}
	stat := env.Stat.Effective(potential.ClassWeaponLike)
	return potential.Summarize(set).TotalAttackPercent(stat) >= a.TargetPercent
}
