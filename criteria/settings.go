package criteria

import (
	"fmt"

	"github.com/MaaXYZ/MaaCube/agent/go-service/potential"
)

// Settings - every auto-roll field a user can fill in; the active policy reads
// only its own subset.
type Settings struct {
	TargetPercent    int            `json:"target_percent" yaml:"target_percent"`
	IEDMaxN          int            `json:"ied_max" yaml:"ied_max"`
	BossMaxM         int            `json:"boss_max" yaml:"boss_max"`
	SeekDeparture    bool           `json:"seek_departure" yaml:"seek_departure"`
	StatType         potential.Stat `json:"stat_type" yaml:"stat_type"`
	MinCooldown      int            `json:"min_cooldown" yaml:"min_cooldown"`
	MinCritLines     int            `json:"min_crit_lines" yaml:"min_crit_lines"`
	MinDropMesoLines int            `json:"min_drop_meso_lines" yaml:"min_drop_meso_lines"`
	RequiredLines    int            `json:"required_lines" yaml:"required_lines"`
	RequireCooldown  bool           `json:"require_cooldown" yaml:"require_cooldown"`
}

// Clamp pulls a stale boss maximum back into 0..3-IEDMaxN.
func (s *Settings) Clamp() {
	opts := BossMaxOptions(s.IEDMaxN)
	maxBoss := opts[len(opts)-1]
	if s.BossMaxM > maxBoss {
		s.BossMaxM = maxBoss
	}
	if s.BossMaxM < 0 {
		s.BossMaxM = 0
	}
}

// Build extracts the criteria of policy p.
func (s Settings) Build(p Policy) (Criteria, error) {
	switch p {
	case PolicyMainPotential:
		return MainPotential{IEDMaxN: s.IEDMaxN, BossMaxM: s.BossMaxM, SeekDeparture: s.SeekDeparture}, nil
	case PolicyAdditionalWeapon:
		return AdditionalWeapon{TargetPercent: s.TargetPercent}, nil
	case PolicyStatPotential:
		return StatPotential{
			TargetPercent:    s.TargetPercent,
			StatType:         s.StatType,
			MinCooldown:      s.MinCooldown,
			MinCritLines:     s.MinCritLines,
			MinDropMesoLines: s.MinDropMesoLines,
		}, nil
	case PolicyAdditionalStat:
		return AdditionalStat{RequiredLines: s.RequiredLines, StatType: s.StatType, RequireCooldown: s.RequireCooldown}, nil
	}
	return nil, &ValidationError{Reason: fmt.Sprintf("no criteria for policy %s", p), Err: ErrUnsupported}
}

// ForContext builds and validates the criteria serving a selection.
func (s Settings) ForContext(c potential.Context) (Criteria, error) {
	p, ok := PolicyForContext(c)
	if !ok {
		return nil, checkPolicy(c, PolicyUnsupported)
	}
	crit, err := s.Build(p)
	if err != nil {
		return nil, err
	}
	if err := crit.Validate(c); err != nil {
		return nil, err
	}
	return crit, nil
}
