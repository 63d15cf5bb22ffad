package cuberoll

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/MaaXYZ/MaaCube/agent/go-service/autoroll"
	"github.com/MaaXYZ/MaaCube/agent/go-service/config"
	"github.com/MaaXYZ/MaaCube/agent/go-service/criteria"
	"github.com/MaaXYZ/MaaCube/agent/go-service/potential"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    potential.Context
		wantErr bool
	}{
		{
			name: "full",
			raw:  `{"parts":"weapon","cube":"5062500","stat":"int","level":160}`,
			want: potential.Context{Parts: potential.PartsWeapon, CubeID: potential.CubeIDAdditional, Stat: potential.StatINT, Level: 160},
		},
		{
			name: "defaults",
			raw:  `{"parts":"모자"}`,
			want: potential.Context{Parts: potential.PartsHat, CubeID: potential.CubeIDMain, Stat: potential.StatLUK, Level: defaultLevel},
		},
		{
			name: "empty param",
			raw:  "",
			want: potential.Context{Parts: potential.PartsUnknown, CubeID: potential.CubeIDMain, Stat: potential.StatLUK, Level: defaultLevel},
		},
		{name: "bad stat", raw: `{"parts":"ring","stat":"HP"}`, wantErr: true},
		{name: "bad json", raw: `{"parts":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got, err := parseSelection(tt.raw, potential.StatLUK)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseSelection_InlineSettings(t *testing.T) {
	p, _, err := parseSelection(`{"parts":"1","settings":{"ied_max":1,"boss_max":2,"seek_departure":true}}`, potential.StatSTR)
	if err != nil {
		t.Fatalf("parseSelection: %v", err)
	}
	if p.Settings == nil || p.Settings.IEDMaxN != 1 || p.Settings.BossMaxM != 2 || !p.Settings.SeekDeparture {
		t.Errorf("settings = %+v", p.Settings)
	}
}

func TestResolveSettings(t *testing.T) {
	prev := rollCfg
	rollCfg = &config.AutoRoll{Presets: []config.Preset{
		{Name: "hat", Settings: criteria.Settings{TargetPercent: 9, MinCooldown: 2}},
	}}
	t.Cleanup(func() { rollCfg = prev })

	got, err := resolveSettings(selectionParam{Preset: "hat"})
	if err != nil || got.MinCooldown != 2 {
		t.Errorf("preset: %+v, %v", got, err)
	}

	inline := &criteria.Settings{IEDMaxN: 3, BossMaxM: 2}
	got, err = resolveSettings(selectionParam{Preset: "hat", Settings: inline})
	if err != nil || got.BossMaxM != 0 || got.IEDMaxN != 3 {
		t.Errorf("inline settings should win and be clamped: %+v, %v", got, err)
	}
	if inline.BossMaxM != 2 {
		t.Error("resolveSettings modified the caller's settings")
	}

	if _, err := resolveSettings(selectionParam{Preset: "missing"}); err == nil {
		t.Error("unknown preset accepted")
	}
	if _, err := resolveSettings(selectionParam{}); err == nil {
		t.Error("empty selection accepted")
	}
}

func testSlots() []config.Slot {
	line := func(x, y int) config.Rect { return config.Rect{X: x, Y: y, W: 30, H: 5} }
	return []config.Slot{
		{Lines: []config.Rect{line(10, 10), line(10, 16), line(10, 22)}},
		{Lines: []config.Rect{line(60, 10), line(60, 16), line(60, 22)}},
	}
}

func TestReadCandidates(t *testing.T) {
	texts := map[[2]int]string{
		{10, 10}: "공격력 +12%", {10, 16}: "공격럭 +9%", {10, 22}: "STR +6%",
		{60, 10}: "보스 몬스터 공격 시 데미지 +30%", {60, 16}: "", {60, 22}: "마력 +9%",
	}
	read := func(r config.Rect) (string, error) { return texts[[2]int{r.X, r.Y}], nil }
	snap := func(s string) string { return strings.ReplaceAll(s, "럭", "력") }

	got, err := readCandidates(testSlots(), read, snap)
	if err != nil {
		t.Fatalf("readCandidates: %v", err)
	}
	want := potential.RollCandidates{
		{"공격력 +12%", "공격력 +9%", "STR +6%"},
		{"보스 몬스터 공격 시 데미지 +30%", "", "마력 +9%"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadCandidates_Error(t *testing.T) {
	boom := errors.New("ocr failed")
	read := func(r config.Rect) (string, error) {
		if r.X == 60 && r.Y == 22 {
			return "", boom
		}
		return "x", nil
	}
	_, err := readCandidates(testSlots(), read, nil)
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "slot 2 line 3") {
		t.Errorf("err = %v", err)
	}
}

func whiteFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func TestMarkSlots(t *testing.T) {
	frame := whiteFrame(100, 100)
	marked := markSlots(frame, testSlots(), []int{0, 7})

	white := color.RGBAModel.Convert(color.White)
	tests := []struct {
		name string
		x, y int
		want color.Color
	}{
		{name: "top left corner", x: 7, y: 7, want: markColor},
		{name: "left band", x: 8, y: 20, want: markColor},
		{name: "bottom band", x: 25, y: 29, want: markColor},
		{name: "right band", x: 42, y: 15, want: markColor},
		{name: "inside box", x: 20, y: 18, want: white},
		{name: "unmatched slot", x: 57, y: 7, want: white},
		{name: "outside", x: 5, y: 5, want: white},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := marked.RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
	if frame.RGBAAt(7, 7) != white {
		t.Error("markSlots modified the source frame")
	}
}

func TestScaleDown(t *testing.T) {
	big := image.NewRGBA(image.Rect(0, 0, 2560, 1440))
	if b := scaleDown(big, 1280).Bounds(); b.Dx() != 1280 || b.Dy() != 720 {
		t.Errorf("scaled bounds = %v", b)
	}
	small := image.NewRGBA(image.Rect(0, 0, 800, 600))
	if scaleDown(small, 1280) != image.Image(small) {
		t.Error("small image should be returned as is")
	}
}

func TestSaveSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "debug", "cube")
	path, err := saveSnapshot(dir, "run-1", whiteFrame(40, 20))
	if err != nil {
		t.Fatalf("saveSnapshot: %v", err)
	}
	if filepath.Base(path) != "accepted_run-1.png" {
		t.Errorf("path = %q", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Errorf("bounds = %v", img.Bounds())
	}

	if _, err := saveSnapshot(dir, "nil", nil); err == nil {
		t.Error("nil image accepted")
	}
}

func TestRenderCandidatesHTML(t *testing.T) {
	cands := potential.RollCandidates{
		{"STR +6%", "DEX +6%", "LUK +6%"},
		{"공격력 +12%", "<b>", "STR +6%"},
	}
	out := renderCandidatesHTML(cands, []int{1})
	if !strings.Contains(out, "&lt;b&gt;") || strings.Contains(out, "<b>") {
		t.Error("option text not escaped")
	}
	if n := strings.Count(out, "#ff7000"); n != 4 {
		t.Errorf("highlighted cells = %d, want 4", n)
	}
	if n := strings.Count(out, "<tr>"); n != 2 {
		t.Errorf("rows = %d, want 2", n)
	}
}

func TestRenderResultHTML(t *testing.T) {
	tests := []struct {
		res  autoroll.Result
		want string
	}{
		{autoroll.Result{Reason: autoroll.ReasonAccepted, Cycles: 42}, "42회 만에 조건 달성"},
		{autoroll.Result{Reason: autoroll.ReasonStopped, Cycles: 7}, "7회 후 중지됨"},
		{autoroll.Result{Reason: autoroll.ReasonIneligible}, "선택이 바뀌어"},
		{autoroll.Result{Reason: autoroll.ReasonMaxCycles, Cycles: 100}, "최대 횟수 100회"},
		{autoroll.Result{Reason: autoroll.ReasonGeneratorFailed}, "화면을 읽지 못해"},
		{autoroll.Result{Elapsed: 1500 * time.Millisecond}, "1.5s"},
	}
	for _, tt := range tests {
		if out := renderResultHTML(tt.res); !strings.Contains(out, tt.want) {
			t.Errorf("renderResultHTML(%s) = %q, want it to contain %q", tt.res.Reason, out, tt.want)
		}
	}
}
