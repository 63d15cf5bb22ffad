package cuberoll

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/MaaXYZ/MaaCube/agent/go-service/catalog"
	"github.com/MaaXYZ/MaaCube/agent/go-service/config"
	"github.com/MaaXYZ/MaaCube/agent/go-service/potential"
	maa "github.com/MaaXYZ/maa-framework-go/v4"
	"github.com/rs/zerolog/log"
)

var errNoContext = errors.New("no MAA context bound")

// lineReader reads the option text inside one line box of the current frame.
type lineReader func(r config.Rect) (string, error)

// readCandidates reads every slot's three lines into candidate sets. snap,
// when set, corrects each OCR text before it is stored.
func readCandidates(slots []config.Slot, read lineReader, snap func(string) string) (potential.RollCandidates, error) {
	cands := make(potential.RollCandidates, 0, len(slots))
	for i, s := range slots {
		set := make(potential.CandidateSet, 0, len(s.Lines))
		for j, r := range s.Lines {
			text, err := read(r)
			if err != nil {
				return nil, fmt.Errorf("slot %d line %d: %w", i+1, j+1, err)
			}
			if snap != nil {
				text = snap(text)
			}
			set = append(set, text)
		}
		cands = append(cands, set)
	}
	return cands, nil
}

// maaHost - autoroll.Host backed by the cube simulator screen. Each pipeline
// step binds its *maa.Context before driving the session.
type maaHost struct {
	mu      sync.Mutex
	ctx     *maa.Context
	layout  config.Layout
	pool    *catalog.Catalog
	sel     potential.Context
	frame   image.Image
	last    potential.RollCandidates
	matched []int
}

func newMAAHost(layout config.Layout, pool *catalog.Catalog) *maaHost {
	return &maaHost{layout: layout, pool: pool}
}

func (h *maaHost) bind(ctx *maa.Context) {
	h.mu.Lock()
	h.ctx = ctx
	h.mu.Unlock()
}

func (h *maaHost) setSelection(sel potential.Context) {
	h.mu.Lock()
	h.sel = sel
	h.mu.Unlock()
}

func (h *maaHost) CurrentContext() potential.Context {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sel
}

// Generate presses the cube once, captures the screen and reads all slots.
func (h *maaHost) Generate(_ context.Context) (potential.RollCandidates, error) {
	h.mu.Lock()
	ctx, layout, pool, sel := h.ctx, h.layout, h.pool, h.sel
	h.mu.Unlock()
	if ctx == nil {
		return nil, errNoContext
	}

	ctx.RunTask(layout.RollTask, map[string]any{})

	controller := ctx.GetTasker().GetController()
	if controller == nil {
		return nil, errors.New("controller nil")
	}
	controller.PostScreencap().Wait()
	img, err := controller.CacheImage()
	if err != nil {
		return nil, fmt.Errorf("get screenshot: %w", err)
	}

	read := func(r config.Rect) (string, error) {
		override := map[string]any{
			layout.OCRTask: map[string]any{
				"roi": maa.Rect{r.X, r.Y, r.W, r.H},
			},
		}
		detail, err := ctx.RunRecognition(layout.OCRTask, img, override)
		if err != nil {
			return "", err
		}
		if detail == nil || !detail.Hit || detail.Results == nil || len(detail.Results.Filtered) == 0 {
			return "", nil
		}
		ocr, ok := detail.Results.Filtered[0].AsOCR()
		if !ok {
			return "", nil
		}
		return ocr.Text, nil
	}
	var snap func(string) string
	if pool != nil {
		snap = func(text string) string {
			snapped, _ := pool.Snap(sel, text)
			return snapped
		}
	}

	cands, err := readCandidates(layout.Slots, read, snap)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.frame = img
	h.last = cands
	h.mu.Unlock()

	for i, set := range cands {
		log.Debug().Int("slot", i+1).Strs("lines", set).Msg("<CubeRoll> slot read")
	}
	return cands, nil
}

// OnAccepted reports the accepted slots to the MXU panel.
func (h *maaHost) OnAccepted(matched []int) {
	h.mu.Lock()
	ctx, last := h.ctx, h.last
	h.matched = append([]int(nil), matched...)
	h.mu.Unlock()

	log.Info().Ints("slots", matched).Msg("<CubeRoll> accepted")
	if ctx == nil {
		return
	}
	LogMXUSimpleHTMLWithColor(ctx, "조건에 맞는 옵션이 나왔습니다", "#ff7000")
	LogMXUHTML(ctx, renderCandidatesHTML(last, matched))
}

// lastFrame returns the frame and matched slots of the last accepted cycle.
func (h *maaHost) lastFrame() (image.Image, []int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame, h.matched
}

func (h *maaHost) resetRun() {
	h.mu.Lock()
	h.frame = nil
	h.last = nil
	h.matched = nil
	h.mu.Unlock()
}
