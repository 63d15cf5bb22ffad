package criteria

import (
	"errors"
	"fmt"

	"github.com/MaaXYZ/MaaCube/agent/go-service/departure"
	"github.com/MaaXYZ/MaaCube/agent/go-service/potential"
	"github.com/rs/zerolog/log"
)

// Policy - evaluation rule selected by roll kind and item class
type Policy int

const (
	PolicyUnsupported Policy = iota
	PolicyMainPotential
	PolicyAdditionalWeapon
	PolicyStatPotential
	PolicyAdditionalStat
)

func (p Policy) String() string {
	switch p {
	case PolicyMainPotential:
		return "main_potential"
	case PolicyAdditionalWeapon:
		return "additional_weapon"
	case PolicyStatPotential:
		return "stat_potential"
	case PolicyAdditionalStat:
		return "additional_stat"
	}
	return "unsupported"
}

// PolicyFor is the eligibility table: which policy serves a roll kind on an item class.
func PolicyFor(kind potential.RollKind, class potential.ItemClass) (Policy, bool) {
	switch class {
	case potential.ClassWeaponLike:
		if kind == potential.RollAdditional {
			return PolicyAdditionalWeapon, true
		}
		return PolicyMainPotential, true
	case potential.ClassAccessory, potential.ClassArmor:
		if kind == potential.RollAdditional {
			return PolicyAdditionalStat, true
		}
		return PolicyStatPotential, true
	}
	return PolicyUnsupported, false
}

// PolicyForContext resolves the policy of a selection snapshot.
func PolicyForContext(c potential.Context) (Policy, bool) {
	return PolicyFor(c.RollKind(), c.Class())
}

// Supported reports whether auto-roll can run for the combination.
func Supported(kind potential.RollKind, class potential.ItemClass) bool {
	_, ok := PolicyFor(kind, class)
	return ok
}

// ShowsBossRow reports whether boss-line requirements apply to a parts type.
// Emblems never roll boss lines.
func ShowsBossRow(parts potential.PartsType) bool {
	return parts.Class() == potential.ClassWeaponLike && parts != potential.PartsEmblem
}

// BossMaxOptions lists the selectable boss-line maxima for an IED maximum.
func BossMaxOptions(iedMaxN int) []int {
	maxBoss := potential.LinesPerSet - iedMaxN
	if maxBoss < 0 {
		maxBoss = 0
	}
	opts := make([]int, 0, maxBoss+1)
	for i := 0; i <= maxBoss; i++ {
		opts = append(opts, i)
	}
	return opts
}

var (
	ErrUnsupported    = errors.New("auto-roll is not available for this parts type and cube")
	ErrPolicyMismatch = errors.New("criteria do not match the selected parts type and cube")
)

// ValidationError - a criteria field (or the selection itself) is unusable
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// checkPolicy validates that the selection supports want.
func checkPolicy(c potential.Context, want Policy) error {
	got, ok := PolicyForContext(c)
	if !ok {
		return &ValidationError{
			Reason: fmt.Sprintf("parts %s with %s cube is not supported", c.Parts, c.RollKind()),
			Err:    ErrUnsupported,
		}
	}
	if got != want {
		return &ValidationError{
			Reason: fmt.Sprintf("selection needs %s criteria, got %s", got, want),
			Err:    ErrPolicyMismatch,
		}
	}
	return nil
}

func validStatType(s potential.Stat) bool {
	return s == "" || s.IsSingle() || s == potential.StatAny || s == potential.StatAllStat
}

// Env - per-cycle evaluation inputs besides the candidate itself
type Env struct {
	Parts      potential.PartsType
	Stat       potential.Stat
	FirstLines departure.Lines
}

// EnvOf builds an Env from a selection snapshot; FirstLines is filled by the caller when needed.
func EnvOf(c potential.Context) Env {
	return Env{Parts: c.Parts, Stat: c.Stat}
}

// Criteria - one policy's acceptance rule together with its configured thresholds
type Criteria interface {
	Policy() Policy
	// Validate checks thresholds and that the selection is served by this policy.
	Validate(c potential.Context) error
	// Accept decides one candidate set. Sets without exactly three lines are rejected.
	Accept(set potential.CandidateSet, env Env) bool
	// NeedsFirstLines reports whether Accept reads Env.FirstLines.
	NeedsFirstLines() bool
}

// MatchAll evaluates every parallel candidate and returns the accepted slot indexes.
func MatchAll(c Criteria, cands potential.RollCandidates, env Env) []int {
	var matched []int
	for i, set := range cands {
		if c.Accept(set, env) {
			matched = append(matched, i)
		}
	}
	if len(matched) > 0 {
		log.Debug().Str("policy", c.Policy().String()).Ints("slots", matched).Msg("<AutoRoll> candidates accepted")
	}
	return matched
}
