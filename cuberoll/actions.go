package cuberoll

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/MaaXYZ/MaaCube/agent/go-service/autoroll"
	"github.com/MaaXYZ/MaaCube/agent/go-service/catalog"
	"github.com/MaaXYZ/MaaCube/agent/go-service/config"
	"github.com/MaaXYZ/MaaCube/agent/go-service/criteria"
	"github.com/MaaXYZ/MaaCube/agent/go-service/potential"
	maa "github.com/MaaXYZ/maa-framework-go/v4"
	"github.com/rs/zerolog/log"
)

const (
	stepNode   = "CubeAutoRollStep"
	finishNode = "CubeAutoRollFinish"
)

var (
	stateMu  sync.Mutex
	agentCfg config.Config
	rollCfg  *config.AutoRoll
	pool     *catalog.Catalog
	host     *maaHost
	sched    *autoroll.ManualScheduler
	session  *autoroll.Session
)

func LogMXU(ctx *maa.Context, content string) bool {
	LogMXUOverrideParam := map[string]any{
		"LogMXU": map[string]any{
			"focus": map[string]any{
				"Node.Action.Starting": content,
			},
		},
	}
	ctx.RunTask("LogMXU", LogMXUOverrideParam)
	return true
}

func LogMXUHTML(ctx *maa.Context, htmlText string) bool {
	htmlText = strings.TrimLeft(htmlText, " \t\r\n")
	return LogMXU(ctx, htmlText)
}

// LogMXUSimpleHTMLWithColor logs a simple styled span, allowing a custom color.
func LogMXUSimpleHTMLWithColor(ctx *maa.Context, text string, color string) bool {
	HTMLTemplate := fmt.Sprintf(`<span style="color: %s; font-weight: 500;">%%s</span>`, color)
	return LogMXUHTML(ctx, fmt.Sprintf(HTMLTemplate, html.EscapeString(text)))
}

func LogMXUSimpleHTML(ctx *maa.Context, text string) bool {
	return LogMXUSimpleHTMLWithColor(ctx, text, "#00bfff")
}

// ensureSession loads the data files and builds the process-wide session on first use.
// A failed load is retried on the next call.
func ensureSession() (*autoroll.Session, error) {
	stateMu.Lock()
	defer stateMu.Unlock()
	if session != nil {
		return session, nil
	}

	ar, err := config.LoadAutoRoll(agentCfg.AutoRollPath())
	if err != nil {
		return nil, err
	}
	mc, err := config.LoadMatcherConfig(agentCfg.MatcherConfigPath())
	if err != nil {
		return nil, err
	}
	p, err := catalog.Load(agentCfg.PoolPath(), catalog.WithMatcher(catalog.NewMatcher(mc.SimilarWordMap, mc.MaxDistance)))
	if err != nil {
		// departure checks never pass and OCR text is used as read
		log.Warn().Err(err).Msg("<CubeRoll> potential pool unavailable")
		p = nil
	}

	opts := []autoroll.Option{autoroll.WithMaxCycles(agentCfg.MaxCycles)}
	if p != nil {
		opts = append(opts, autoroll.WithCatalog(p))
	}
	rollCfg = ar
	pool = p
	host = newMAAHost(ar.Layout, p)
	sched = &autoroll.ManualScheduler{}
	session = autoroll.NewSession(host, append(opts, autoroll.WithScheduler(sched))...)
	return session, nil
}

func currentSession() *autoroll.Session {
	stateMu.Lock()
	defer stateMu.Unlock()
	return session
}

// resolveSettings picks inline settings over the named preset.
func resolveSettings(p selectionParam) (criteria.Settings, error) {
	if p.Settings != nil {
		s := *p.Settings
		s.Clamp()
		return s, nil
	}
	if p.Preset == "" {
		return criteria.Settings{}, errors.New("neither preset nor settings given")
	}
	stateMu.Lock()
	ar := rollCfg
	stateMu.Unlock()
	preset, ok := ar.Preset(p.Preset)
	if !ok {
		return criteria.Settings{}, fmt.Errorf("preset %q not found", p.Preset)
	}
	return preset.Settings, nil
}

func routeNext(ctx *maa.Context, current string, running bool) {
	next := finishNode
	if running {
		next = stepNode
	}
	ctx.OverrideNext(current, []maa.NextItem{
		{Name: next},
	})
}

// CubeAutoRollInitAction - resolve criteria for the selection and start a run
type CubeAutoRollInitAction struct{}

func (a *CubeAutoRollInitAction) Run(ctx *maa.Context, arg *maa.CustomActionArg) bool {
	log.Info().Msg("<CubeRoll> ========== Init ==========")

	param, sel, err := parseSelection(arg.CustomActionParam, agentCfg.Stat())
	if err != nil {
		log.Error().Err(err).Msg("<CubeRoll> Step1 failed: param parse")
		return false
	}
	log.Info().Str("preset", param.Preset).Str("parts", sel.Parts.String()).Str("cube", sel.CubeID).
		Str("stat", string(sel.Stat)).Int("level", sel.Level).Msg("<CubeRoll> Step1 ok")

	s, err := ensureSession()
	if err != nil {
		log.Error().Err(err).Msg("<CubeRoll> Step2 failed: load data")
		return false
	}

	settings, err := resolveSettings(param)
	if err != nil {
		log.Error().Err(err).Msg("<CubeRoll> Step3 failed: settings")
		return false
	}
	crit, err := settings.ForContext(sel)
	if err != nil {
		if errors.Is(err, criteria.ErrUnsupported) {
			LogMXUSimpleHTMLWithColor(ctx, "이 부위와 큐브 조합은 자동 재설정을 지원하지 않습니다", "#ff7000")
		} else {
			LogMXUSimpleHTMLWithColor(ctx, "설정 오류: "+err.Error(), "#ff7000")
		}
		log.Error().Err(err).Msg("<CubeRoll> Step3 failed: criteria")
		return false
	}

	host.bind(ctx)
	host.setSelection(sel)
	if !s.Running() {
		host.resetRun()
	}
	if err := s.Start(crit); err != nil {
		log.Error().Err(err).Msg("<CubeRoll> Step4 failed: start")
		return false
	}
	LogMXUSimpleHTML(ctx, fmt.Sprintf("자동 재설정 시작 (%s, %s)", sel.Parts.Korean(), crit.Policy()))

	routeNext(ctx, arg.CurrentTaskName, s.Running())
	return true
}

// CubeAutoRollStepAction - run the pending cycle and loop back while the run continues
type CubeAutoRollStepAction struct{}

func (a *CubeAutoRollStepAction) Run(ctx *maa.Context, arg *maa.CustomActionArg) bool {
	s := currentSession()
	if s == nil {
		log.Error().Msg("<CubeRoll> step without init")
		return false
	}
	host.bind(ctx)
	sched.RunPending()
	routeNext(ctx, arg.CurrentTaskName, s.Running())
	return true
}

// CubeAutoRollSelectAction - the user changed the parts or cube selection
type CubeAutoRollSelectAction struct{}

func (a *CubeAutoRollSelectAction) Run(ctx *maa.Context, arg *maa.CustomActionArg) bool {
	_, sel, err := parseSelection(arg.CustomActionParam, agentCfg.Stat())
	if err != nil {
		log.Error().Err(err).Msg("<CubeRoll> select: param parse")
		return false
	}
	if currentSession() == nil {
		log.Warn().Msg("<CubeRoll> select before init, ignored")
		return true
	}
	host.setSelection(sel)
	log.Info().Str("parts", sel.Parts.String()).Str("cube", sel.CubeID).Msg("<CubeRoll> selection changed")
	return true
}

// CubeAutoRollStopAction - stop the active run
type CubeAutoRollStopAction struct{}

func (a *CubeAutoRollStopAction) Run(ctx *maa.Context, arg *maa.CustomActionArg) bool {
	s := currentSession()
	if s == nil {
		return true
	}
	wasRunning := s.Running()
	s.Stop()
	if wasRunning {
		LogMXUSimpleHTML(ctx, "자동 재설정을 중지했습니다")
	}
	return true
}

// CubeAutoRollFinishAction - report the finished run and save the marked snapshot
type CubeAutoRollFinishAction struct{}

func (a *CubeAutoRollFinishAction) Run(ctx *maa.Context, arg *maa.CustomActionArg) bool {
	s := currentSession()
	if s == nil {
		return true
	}
	res := s.Result()
	LogMXUHTML(ctx, renderResultHTML(res))

	if res.Reason != autoroll.ReasonAccepted {
		return true
	}
	frame, matched := host.lastFrame()
	if frame == nil {
		return true
	}
	stateMu.Lock()
	slots := rollCfg.Layout.Slots
	stateMu.Unlock()

	marked := scaleDown(markSlots(frame, slots, matched), maxSnapshotWidth)
	path, err := saveSnapshot(agentCfg.SnapshotDir, res.RunID, marked)
	if err != nil {
		log.Error().Err(err).Msg("<CubeRoll> snapshot failed")
		return true
	}
	log.Info().Str("path", path).Msg("<CubeRoll> snapshot saved")
	return true
}

func renderCandidatesHTML(cands potential.RollCandidates, matched []int) string {
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}
	var b strings.Builder
	b.WriteString(`<table style="width: 100%; border-collapse: collapse;">`)
	for i, set := range cands {
		color := "#888888"
		if hit[i] {
			color = "#ff7000"
		}
		b.WriteString("<tr>")
		b.WriteString(fmt.Sprintf(`<td style="padding: 2px 8px; color: %s; font-size: 11px;">#%d</td>`, color, i+1))
		for _, line := range set {
			b.WriteString(fmt.Sprintf(`<td style="padding: 2px 8px; color: %s; font-size: 11px;">%s</td>`, color, html.EscapeString(line)))
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String()
}

func renderResultHTML(res autoroll.Result) string {
	var msg, color string
	switch res.Reason {
	case autoroll.ReasonAccepted:
		msg, color = fmt.Sprintf("%d회 만에 조건 달성", res.Cycles), "#ff7000"
	case autoroll.ReasonStopped:
		msg, color = fmt.Sprintf("%d회 후 중지됨", res.Cycles), "#00bfff"
	case autoroll.ReasonIneligible:
		msg, color = "선택이 바뀌어 자동 재설정을 종료했습니다", "#00bfff"
	case autoroll.ReasonMaxCycles:
		msg, color = fmt.Sprintf("최대 횟수 %d회에 도달했습니다", res.Cycles), "#00bfff"
	case autoroll.ReasonGeneratorFailed:
		msg, color = "화면을 읽지 못해 중단했습니다", "#ff4040"
	default:
		msg, color = "실행 기록이 없습니다", "#888888"
	}
	return fmt.Sprintf(`<span style="color: %s; font-weight: 500;">%s</span> <span style="color: #888888; font-size: 11px;">(%s)</span>`,
		color, html.EscapeString(msg), res.Elapsed.Round(time.Millisecond))
}
