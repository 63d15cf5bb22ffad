package potential

import "testing"

func TestClassify_Tags(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  Tag
		stat  Stat
		value int
	}{
		{name: "ied", line: "몬스터 방어율 무시 +30%", want: TagIgnoreDefense, value: 30},
		{name: "ied defense power variant", line: "방어력 무시 +35%", want: TagIgnoreDefense, value: 35},
		{name: "boss", line: "보스 몬스터 공격 시 데미지 +30%", want: TagBossDamage, value: 30},
		{name: "boss short phrasing", line: "보스 공격 시 +40%", want: TagBossDamage, value: 40},
		{name: "attack percent", line: "공격력 +12%", want: TagAttackPercent, value: 12},
		{name: "magic percent", line: "마력 +9%", want: TagMagicPercent, value: 9},
		{name: "stat percent", line: "STR +12%", want: TagStatPercent, stat: StatSTR, value: 12},
		{name: "all stat percent", line: "올스탯 +9%", want: TagAllStatPercent, value: 9},
		{name: "stat flat", line: "LUK +18", want: TagStatFlat, stat: StatLUK, value: 18},
		{name: "all stat flat", line: "올스탯 +12", want: TagAllStatFlat, value: 12},
		{name: "attack flat", line: "공격력 +10", want: TagAttackFlat, value: 10},
		{name: "magic flat", line: "마력 +10", want: TagMagicFlat, value: 10},
		{name: "crit damage", line: "크리티컬 데미지 +8%", want: TagCritDamage, value: 8},
		{name: "cooldown", line: "모든 스킬의 재사용 대기시간 : -2초(10초 이하는 10%감소, 5초 미만으로 감소 불가)", want: TagCooldown, value: 2},
		{name: "drop", line: "아이템 드롭률 +20%", want: TagDropMeso, value: 20},
		{name: "meso", line: "메소 획득량 +20%", want: TagDropMeso, value: 20},
		{name: "per level", line: "캐릭터 기준 10레벨 당 DEX +2", want: TagPerLevelStat, stat: StatDEX, value: 2},
		{name: "unrecognized", line: "HP 회복 아이템 및 회복 스킬 효율 +30%", want: 0, value: 30},
		{name: "empty", line: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.line)
			if got.Tags != tt.want {
				t.Errorf("Classify(%q).Tags = %b, want %b", tt.line, got.Tags, tt.want)
			}
			if got.Stat != tt.stat {
				t.Errorf("Classify(%q).Stat = %q, want %q", tt.line, got.Stat, tt.stat)
			}
			if got.Value != tt.value {
				t.Errorf("Classify(%q).Value = %d, want %d", tt.line, got.Value, tt.value)
			}
		})
	}
}

func TestClassify_AnchoredStatLines(t *testing.T) {
	for _, line := range []string{"최대 STR +12%", "STR +12%p", "STR+12%", "STR +12% 증가"} {
		if Classify(line).StatPercent(StatSTR) {
			t.Errorf("Classify(%q) should not be a STR%% line", line)
		}
	}
	if !Classify("STR +12% ").StatPercent(StatSTR) {
		t.Error("trailing space should normalize to a STR% line")
	}
}

func TestClassify_StatPercentExclusive(t *testing.T) {
	lines := []string{"STR +12%", "DEX +9%", "INT +6%", "LUK +3%", "올스탯 +9%"}
	for _, line := range lines {
		o := Classify(line)
		n := 0
		for _, st := range []Stat{StatSTR, StatDEX, StatINT, StatLUK} {
			if o.StatPercent(st) {
				n++
			}
		}
		if n > 1 {
			t.Errorf("Classify(%q) matched %d stats", line, n)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	lines := []string{"몬스터 방어율 무시 +40%", "STR +12%", "공격력 +13%", "잡다한 옵션"}
	for _, line := range lines {
		first := Classify(line)
		for i := 0; i < 5; i++ {
			if got := Classify(line); got != first {
				t.Fatalf("Classify(%q) changed between calls: %+v vs %+v", line, got, first)
			}
		}
	}
}

func TestClassify_Normalizes(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "full width plus and percent", line: "STR ＋12％"},
		{name: "extra spaces", line: "  STR   +12%  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if o := Classify(tt.line); !o.StatPercent(StatSTR) || o.Value != 12 {
				t.Errorf("Classify(%q) = %+v, want STR%% 12", tt.line, o)
			}
		})
	}

	if o := Classify("모든 스킬의 재사용 대기시간 : −1초"); !o.Tags.Has(TagCooldown) || o.Value != 1 {
		t.Errorf("minus sign variant should classify as cooldown, got %+v", o)
	}
}

func TestOption_AttackPercentByStat(t *testing.T) {
	atk := Classify("공격력 +12%")
	if v, ok := atk.AttackPercent(StatDEX); !ok || v != 12 {
		t.Errorf("AttackPercent(DEX) = %d, %v", v, ok)
	}
	if _, ok := atk.AttackPercent(StatINT); ok {
		t.Error("attack line should not count for INT")
	}
	mag := Classify("마력 +12%")
	if v, ok := mag.AttackPercent(StatINT); !ok || v != 12 {
		t.Errorf("magic AttackPercent(INT) = %d, %v", v, ok)
	}
}
