// Package autoroll drives the auto-roll loop: generate candidates, evaluate
// them against the active criteria and stop on the first acceptance.
package autoroll

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MaaXYZ/MaaCube/agent/go-service/criteria"
	"github.com/MaaXYZ/MaaCube/agent/go-service/departure"
	"github.com/MaaXYZ/MaaCube/agent/go-service/potential"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Host - the surface a session runs against
type Host interface {
	// Generate produces one cycle's candidate sets. It may return several
	// parallel sets (multi-slot simulation); each one is evaluated on its own.
	Generate(ctx context.Context) (potential.RollCandidates, error)
	// CurrentContext snapshots the user's selection; read once per cycle.
	CurrentContext() potential.Context
	// OnAccepted receives every accepted slot index of the final cycle.
	OnAccepted(matched []int)
}

// Reason - why a run ended
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonAccepted        Reason = "accepted"
	ReasonStopped         Reason = "stopped"
	ReasonIneligible      Reason = "ineligible"
	ReasonGeneratorFailed Reason = "generator_failed"
	ReasonMaxCycles       Reason = "max_cycles"
)

var ErrClosed = errors.New("auto-roll session is closed")

// Result - summary of the last finished run
type Result struct {
	RunID    string
	Reason   Reason
	Policy   criteria.Policy
	Cycles   int
	Matched  []int
	Accepted potential.RollCandidates
	Elapsed  time.Duration
	Err      error
}

// Session - owns the running flag, the pending step and the departure cache
// of one auto-roll surface. Safe for concurrent use.
type Session struct {
	host      Host
	sched     Scheduler
	ownSched  *LoopScheduler
	catalog   departure.Catalog
	cache     *departure.Cache
	maxCycles int

	ctx    context.Context
	cancel context.CancelFunc

	// held for a whole cycle so a restarted run never overlaps a stale one
	cycleMu sync.Mutex

	mu      sync.Mutex
	closed  bool
	running bool
	gen     uint64
	crit    criteria.Criteria
	policy  criteria.Policy
	pending Handle
	runID   string
	cycles  int
	started time.Time
	done    chan struct{}
	result  Result
}

type Option func(*Session)

// WithScheduler replaces the default single-goroutine loop.
func WithScheduler(s Scheduler) Option {
	return func(sess *Session) {
		sess.sched = s
	}
}

// WithCatalog sets the first-line pool source used by departure checks.
func WithCatalog(c departure.Catalog) Option {
	return func(sess *Session) {
		sess.catalog = c
	}
}

// WithMaxCycles stops a run after n unaccepted cycles; 0 means unlimited.
func WithMaxCycles(n int) Option {
	return func(sess *Session) {
		if n > 0 {
			sess.maxCycles = n
		}
	}
}

// WithContext sets the parent of the context handed to Generate and catalog fetches.
func WithContext(ctx context.Context) Option {
	return func(sess *Session) {
		sess.ctx = ctx
	}
}

func NewSession(host Host, opts ...Option) *Session {
	s := &Session{
		host: host,
		ctx:  context.Background(),
		done: make(chan struct{}),
	}
	close(s.done)
	for _, opt := range opts {
		opt(s)
	}
	if s.sched == nil {
		s.ownSched = NewLoopScheduler()
		s.sched = s.ownSched
	}
	s.ctx, s.cancel = context.WithCancel(s.ctx)
	s.cache = departure.NewCache(s.catalog)
	return s
}

// Start validates c against the current selection and begins a run. The
// first cycle executes before Start returns. Starting while running is a no-op.
func (s *Session) Start(c criteria.Criteria) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if c == nil {
		return &criteria.ValidationError{Reason: "no criteria given"}
	}
	sel := s.host.CurrentContext()
	if err := c.Validate(sel); err != nil {
		log.Warn().Err(err).Str("parts", sel.Parts.String()).Str("cube", sel.CubeID).Msg("<AutoRoll> criteria rejected")
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.gen++
	gen := s.gen
	s.running = true
	s.crit = c
	s.policy = c.Policy()
	s.pending = nil
	s.runID = uuid.NewString()
	s.cycles = 0
	s.started = time.Now()
	s.done = make(chan struct{})
	s.result = Result{}
	runID := s.runID
	s.mu.Unlock()

	log.Info().
		Str("run_id", runID).
		Str("policy", c.Policy().String()).
		Str("parts", sel.Parts.String()).
		Str("cube", sel.CubeID).
		Int("level", sel.Level).
		Msg("<AutoRoll> run started")

	s.cycle(gen)
	return nil
}

// Stop cancels the pending cycle. A cycle already in progress completes but
// schedules nothing further. Stop while idle is a no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	res := s.endLocked(Result{Reason: ReasonStopped})
	done := s.done
	s.mu.Unlock()

	logResult(res)
	close(done)
}

// Close stops any run and releases the default scheduler. The session is
// unusable afterwards. Close does not wait for a cycle in progress, so it may
// be called from Host callbacks.
func (s *Session) Close() {
	s.Stop()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	if s.ownSched != nil {
		s.ownSched.shutdown()
	}
}

func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Done is closed when the current run ends; it is already closed while idle.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Result returns the summary of the most recent finished run.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// cycle runs one generate-evaluate step of run gen. The end-of-run
// notification runs after the cycle lock is released so callbacks may
// restart or close the session.
func (s *Session) cycle(gen uint64) {
	s.cycleMu.Lock()
	notify := s.runCycle(gen)
	s.cycleMu.Unlock()
	if notify != nil {
		notify()
	}
}

func (s *Session) runCycle(gen uint64) func() {
	s.mu.Lock()
	if !s.running || s.gen != gen {
		s.mu.Unlock()
		return nil
	}
	s.pending = nil
	crit, policy := s.crit, s.policy
	s.mu.Unlock()

	sel := s.host.CurrentContext()
	if p, ok := criteria.PolicyForContext(sel); !ok || p != policy {
		log.Info().Str("parts", sel.Parts.String()).Str("cube", sel.CubeID).Msg("<AutoRoll> selection no longer eligible")
		return s.finish(gen, Result{Reason: ReasonIneligible})
	}

	cands, err := s.host.Generate(s.ctx)
	if err != nil {
		log.Error().Err(err).Msg("<AutoRoll> generator failed")
		return s.finish(gen, Result{Reason: ReasonGeneratorFailed, Err: err})
	}

	env := criteria.EnvOf(sel)
	if crit.NeedsFirstLines() {
		env.FirstLines = s.cache.Lookup(s.ctx, departure.KeyOf(sel))
	}
	matched := criteria.MatchAll(crit, cands, env)

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return nil
	}
	s.cycles++
	cycles := s.cycles
	s.mu.Unlock()

	log.Trace().Int("cycle", cycles).Int("candidates", len(cands)).Int("matched", len(matched)).Msg("<AutoRoll> cycle")

	if len(matched) > 0 {
		accepted := make(potential.RollCandidates, 0, len(matched))
		for _, i := range matched {
			accepted = append(accepted, append(potential.CandidateSet(nil), cands[i]...))
		}
		return s.finish(gen, Result{Reason: ReasonAccepted, Matched: matched, Accepted: accepted})
	}
	if s.maxCycles > 0 && cycles >= s.maxCycles {
		return s.finish(gen, Result{Reason: ReasonMaxCycles})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.gen != gen {
		return nil
	}
	s.pending = s.sched.Schedule(func() { s.cycle(gen) })
	return nil
}

// finish ends run gen unless Stop got there first and returns the
// notification to run once the cycle lock is released. Accepted runs notify
// the host before Done is closed.
func (s *Session) finish(gen uint64, res Result) func() {
	s.mu.Lock()
	if !s.running || s.gen != gen {
		s.mu.Unlock()
		return nil
	}
	res = s.endLocked(res)
	done := s.done
	s.mu.Unlock()

	logResult(res)
	return func() {
		if res.Reason == ReasonAccepted {
			s.host.OnAccepted(res.Matched)
		}
		close(done)
	}
}

func (s *Session) endLocked(res Result) Result {
	s.running = false
	if s.pending != nil {
		s.pending.Cancel()
		s.pending = nil
	}
	res.RunID = s.runID
	res.Policy = s.policy
	res.Cycles = s.cycles
	res.Elapsed = time.Since(s.started)
	s.result = res
	return res
}

func logResult(res Result) {
	ev := log.Info()
	if res.Reason == ReasonGeneratorFailed {
		ev = log.Warn().Err(res.Err)
	}
	ev.Str("run_id", res.RunID).
		Str("reason", string(res.Reason)).
		Int("cycles", res.Cycles).
		Ints("matched", res.Matched).
		Dur("elapsed", res.Elapsed).
		Msg("<AutoRoll> run finished")
}
