package potential

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	keywordAttack = "공격력"
	keywordMagic  = "마력"
)

// Tag - semantic category bit; one line may carry several
type Tag uint16

const (
	TagIgnoreDefense Tag = 1 << iota
	TagBossDamage
	TagAttackPercent // "공격력 ... +N%"
	TagMagicPercent  // "마력 ... +N%"
	TagStatPercent
	TagAllStatPercent
	TagStatFlat
	TagAllStatFlat
	TagAttackFlat
	TagMagicFlat
	TagCritDamage
	TagCooldown
	TagDropMeso
	TagPerLevelStat
)

// Has reports whether every bit of x is set.
func (t Tag) Has(x Tag) bool {
	return t&x == x
}

// Option - one classified option line. Value holds the numeric payload of the
// line (percent, flat amount or cooldown seconds); Stat is set for stat lines.
type Option struct {
	Text  string
	Tags  Tag
	Stat  Stat
	Value int
}

var (
	percentRe        = regexp.MustCompile(`\+(\d+)%`)
	statPercentRe    = regexp.MustCompile(`^(STR|DEX|INT|LUK) \+(\d+)%$`)
	allStatPercentRe = regexp.MustCompile(`^올스탯 \+(\d+)%$`)
	statFlatRe       = regexp.MustCompile(`^(STR|DEX|INT|LUK) \+(\d+)$`)
	allStatFlatRe    = regexp.MustCompile(`^올스탯 \+(\d+)$`)
	attackFlatRe     = regexp.MustCompile(`^(공격력|마력) \+(\d+)$`)
	critDamageRe     = regexp.MustCompile(`^크리티컬 데미지 \+(\d+)%$`)
	cooldownRe       = regexp.MustCompile(`모든 스킬의 재사용 대기시간 ?: ?-(\d+)초`)
	dropMesoRe       = regexp.MustCompile(`^(아이템 드롭률|메소 획득량) \+(\d+)%$`)
	perLevelStatRe   = regexp.MustCompile(`^캐릭터 기준 (\d+)레벨 당 (STR|DEX|INT|LUK) \+(\d+)$`)
)

// Classify tags one option line. Unrecognized text yields an Option with no tags.
// Stat-style lines must match their anchored pattern exactly; ignore-defense and
// boss lines accept phrasing variants through substring checks.
func Classify(line string) Option {
	text := Normalize(line)
	o := Option{Text: text}
	if text == "" {
		return o
	}

	if isIgnoreDefense(text) {
		o.Tags |= TagIgnoreDefense
	}
	if isBossDamage(text) {
		o.Tags |= TagBossDamage
	}
	if m := percentRe.FindStringSubmatch(text); m != nil {
		o.Value = atoi(m[1])
		if strings.Contains(text, keywordAttack) {
			o.Tags |= TagAttackPercent
		}
		if strings.Contains(text, keywordMagic) {
			o.Tags |= TagMagicPercent
		}
	}

	switch {
	case matchInto(statPercentRe, text, &o):
		o.Tags |= TagStatPercent
	case matchInto(allStatPercentRe, text, &o):
		o.Tags |= TagAllStatPercent
	case matchInto(statFlatRe, text, &o):
		o.Tags |= TagStatFlat
	case matchInto(allStatFlatRe, text, &o):
		o.Tags |= TagAllStatFlat
	case matchInto(critDamageRe, text, &o):
		o.Tags |= TagCritDamage
	case matchInto(dropMesoRe, text, &o):
		o.Tags |= TagDropMeso
	}

	if m := attackFlatRe.FindStringSubmatch(text); m != nil {
		o.Value = atoi(m[2])
		if m[1] == keywordMagic {
			o.Tags |= TagMagicFlat
		} else {
			o.Tags |= TagAttackFlat
		}
	}
	if m := cooldownRe.FindStringSubmatch(text); m != nil {
		o.Tags |= TagCooldown
		o.Value = atoi(m[1])
	}
	if m := perLevelStatRe.FindStringSubmatch(text); m != nil {
		o.Tags |= TagPerLevelStat
		o.Stat = Stat(m[2])
		o.Value = atoi(m[3])
	}
	return o
}

// ClassifySet classifies every line of a set in order.
func ClassifySet(set CandidateSet) []Option {
	opts := make([]Option, len(set))
	for i, line := range set {
		opts[i] = Classify(line)
	}
	return opts
}

// matchInto fills Stat/Value from a stat-shaped pattern whose last group is the number.
func matchInto(re *regexp.Regexp, text string, o *Option) bool {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return false
	}
	if len(m) == 3 {
		if st := Stat(m[1]); st.IsSingle() {
			o.Stat = st
		}
	}
	o.Value = atoi(m[len(m)-1])
	return true
}

func isIgnoreDefense(text string) bool {
	return strings.Contains(text, "방어") && strings.Contains(text, "무시") &&
		(strings.Contains(text, "율") || strings.Contains(text, "방어력"))
}

func isBossDamage(text string) bool {
	return (strings.Contains(text, "보스") && strings.Contains(text, "데미지")) ||
		strings.Contains(text, "보스 몬스터") || strings.Contains(text, "보스 공격")
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// AttackPercent returns the percent value when the line is an attack% line for
// the stat's keyword family.
func (o Option) AttackPercent(stat Stat) (int, bool) {
	tag := TagAttackPercent
	if stat.AttackKeyword() == keywordMagic {
		tag = TagMagicPercent
	}
	if !o.Tags.Has(tag) {
		return 0, false
	}
	return o.Value, true
}

// StatPercent reports an exact "<STAT> +N%" line for stat.
func (o Option) StatPercent(stat Stat) bool {
	return o.Tags.Has(TagStatPercent) && o.Stat == stat
}

// StatFlat reports an exact "<STAT> +N" line for stat.
func (o Option) StatFlat(stat Stat) bool {
	return o.Tags.Has(TagStatFlat) && o.Stat == stat
}

// AttackFlat reports a flat attack line in the stat's keyword family.
func (o Option) AttackFlat(stat Stat) bool {
	if stat.AttackKeyword() == keywordMagic {
		return o.Tags.Has(TagMagicFlat)
	}
	return o.Tags.Has(TagAttackFlat)
}

// PerLevelStat reports a "캐릭터 기준 N레벨 당 <STAT> +M" line for stat.
func (o Option) PerLevelStat(stat Stat) bool {
	return o.Tags.Has(TagPerLevelStat) && o.Stat == stat
}

// Cooldown returns the cooldown reduction in seconds.
func (o Option) Cooldown() (int, bool) {
	if !o.Tags.Has(TagCooldown) {
		return 0, false
	}
	return o.Value, true
}
