package catalog

import "testing"

func TestMatcherSnap(t *testing.T) {
	pool := []string{
		"STR +12%",
		"DEX +12%",
		"공격력 +13%",
		"보스 몬스터 공격 시 데미지 +30%",
		"몬스터 방어율 무시 +40%",
		"모든 스킬의 재사용 대기시간 : -1초",
	}
	m := NewMatcher(map[string]string{"I": "1", "럭": "력"}, 0)

	tests := []struct {
		name   string
		ocr    string
		want   string
		wantOK bool
	}{
		{name: "exact", ocr: "STR +12%", want: "STR +12%", wantOK: true},
		{name: "spacing and width", ocr: "ＳＴＲ  +12%", want: "STR +12%", wantOK: true},
		{name: "similar word", ocr: "STR +I2%", want: "STR +12%", wantOK: true},
		{name: "one typo", ocr: "보스 몬스터 공격 시 데미자 +30%", want: "보스 몬스터 공격 시 데미지 +30%", wantOK: true},
		{name: "dropped char", ocr: "몬스터 방어율 무 +40%", want: "몬스터 방어율 무시 +40%", wantOK: true},
		{name: "similar then exact", ocr: "공격럭 +13%", want: "공격력 +13%", wantOK: true},
		{name: "numbers never change", ocr: "STR +13%", want: "STR +13%", wantOK: false},
		{name: "too far", ocr: "크리티컬 데미지 +8%", want: "크리티컬 데미지 +8%", wantOK: false},
		{name: "empty", ocr: "   ", want: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Snap(tt.ocr, pool)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Snap(%q) = %q, %v; want %q, %v", tt.ocr, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMatcherSnap_TieIsNotSnapped(t *testing.T) {
	m := NewMatcher(nil, 0)
	got, ok := m.Snap("ABE +1%", []string{"ABC +1%", "ABD +1%"})
	if ok || got != "ABE +1%" {
		t.Errorf("Snap = %q, %v; want unsnapped", got, ok)
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		max  int
		want int
	}{
		{"공격력", "공격력", 2, 0},
		{"공격력", "공력격", 2, 1},
		{"공격력", "공격", 2, 1},
		{"abcdef", "ab", 2, 3},
		{"kitten", "sitting", 2, 3},
		{"kitten", "sitting", 3, 3},
	}
	for _, tt := range tests {
		if got := editDistance(tt.a, tt.b, tt.max); got != tt.want {
			t.Errorf("editDistance(%q, %q, %d) = %d, want %d", tt.a, tt.b, tt.max, got, tt.want)
		}
	}
}

func TestDigitsOf(t *testing.T) {
	tests := []struct{ in, want string }{
		{"STR +12%", "12"},
		{"캐릭터 기준 10레벨 당 STR +2", "10 2"},
		{"모든 스킬의 재사용 대기시간 : -1초", "1"},
		{"최대 HP", ""},
	}
	for _, tt := range tests {
		if got := digitsOf(tt.in); got != tt.want {
			t.Errorf("digitsOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
