package potential

import "strings"

// Stat - primary stat preference
type Stat string

const (
	StatSTR     Stat = "STR"
	StatDEX     Stat = "DEX"
	StatINT     Stat = "INT"
	StatLUK     Stat = "LUK"
	StatAny     Stat = "ANY"
	StatAllStat Stat = "ALLSTAT"
)

// singleStats in display order
var singleStats = []Stat{StatSTR, StatDEX, StatINT, StatLUK}

// ParseStat accepts the stat codes case-insensitively plus the in-game all-stat label.
func ParseStat(s string) (Stat, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "STR":
		return StatSTR, true
	case "DEX":
		return StatDEX, true
	case "INT":
		return StatINT, true
	case "LUK":
		return StatLUK, true
	case "ANY":
		return StatAny, true
	case "ALLSTAT", "ALL", "올스탯":
		return StatAllStat, true
	}
	return "", false
}

// IsSingle reports whether s names one concrete stat.
func (s Stat) IsSingle() bool {
	switch s {
	case StatSTR, StatDEX, StatINT, StatLUK:
		return true
	}
	return false
}

// Effective resolves wildcard preferences for keyword matching. Weapon damage lines
// only split into the INT family and everything else, so wildcards collapse to STR.
func (s Stat) Effective(class ItemClass) Stat {
	if class == ClassWeaponLike && !s.IsSingle() {
		return StatSTR
	}
	return s
}

// AttackKeyword - "마력" for INT, "공격력" for every other stat
func (s Stat) AttackKeyword() string {
	if s == StatINT {
		return keywordMagic
	}
	return keywordAttack
}

// Expand lists the concrete stats a preference accepts.
func (s Stat) Expand() []Stat {
	switch s {
	case StatAny:
		return append([]Stat(nil), singleStats...)
	case StatAllStat:
		return []Stat{StatSTR, StatDEX, StatLUK}
	case StatSTR, StatDEX, StatINT, StatLUK:
		return []Stat{s}
	}
	return nil
}

func statIndex(s Stat) int {
	for i, v := range singleStats {
		if v == s {
			return i
		}
	}
	return -1
}
