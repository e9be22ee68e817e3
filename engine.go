// Package engine infers masking level and energy reserve from text, audio,
// and context signals, detects behavioral-state transitions against learned
// personal baselines, and schedules rate-limited supportive prompts.
package engine

// #region imports
import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/danielpatrickdp/masking-engine/go-engine/internal/baseline"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/correlate"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/energy"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/extract"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/persist"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/prompt"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/ring"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/score"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/signal"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/transition"
)

// #endregion imports

// #region clock

// Clock abstracts wall time so replay and tests can drive the pipeline
// deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall-time clock.
func SystemClock() Clock { return systemClock{} }

// #endregion clock

// #region input

// Input is one ingested observation. Exactly one of Text, Audio, or App is
// meaningful, selected by Channel.
type Input struct {
	Channel signal.Channel
	At      time.Time // zero means "now"

	Text  string                 // ChannelText
	Audio *extract.AudioFeatures // ChannelAudio
	App   string                 // ChannelContext: foreground application name
}

// #endregion input

// #region snapshot

// StateSnapshot is the externally visible state at a point in time.
type StateSnapshot struct {
	MaskingLevel float64
	EnergyLevel  float64
	SafetyLevel  float64
	Environment  signal.Environment
	Timestamp    time.Time
}

// #endregion snapshot

// #region options

// Options wires the engine's collaborators. Nil fields fall back to
// defaults; Store stays nil for a purely in-memory session.
type Options struct {
	Config     *Config
	Scorer     extract.TextScorer
	Classifier *extract.AppClassifier
	Pool       *prompt.Pool
	Store      *persist.Store
	Clock      Clock
	Rand       *rand.Rand
	Logger     zerolog.Logger
}

// #endregion options

// #region engine

// Engine runs the full inference pipeline: bounded ingest queue, extraction,
// baseline tracking, scoring, cross-modal correlation, transition detection,
// the energy model, and the prompt scheduler. All methods are safe for
// concurrent use.
type Engine struct {
	mu  sync.Mutex
	cfg Config
	log zerolog.Logger

	scorer     extract.TextScorer
	classifier *extract.AppClassifier
	clock      Clock
	rng        *rand.Rand
	store      *persist.Store

	base       *baseline.Tracker
	correlator *correlate.Correlator
	budget     *energy.Budget
	detector   *transition.Detector
	sched      *prompt.Scheduler

	queue        *ring.Buffer[Input]
	samples      *ring.Buffer[signal.Sample]
	transitions  *ring.Buffer[transition.Event]
	moments      *ring.Buffer[transition.Event]
	correlations *ring.Buffer[correlate.Result]

	snapshot    StateSnapshot
	environment signal.Environment
	appClass    extract.AppClass

	lastText  *signal.Sample
	lastAudio *signal.Sample
	pairDirty bool

	stats   Stats
	running bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}

	subMu   sync.RWMutex
	subs    map[int]subscription
	nextSub int
}

type subscription struct {
	kind EventKind
	fn   func(Event)
}

// New creates an engine. When Options.Store is set, persisted baselines are
// seeded back into the tracker so an established profile survives restarts.
func New(opts Options) (*Engine, error) {
	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if opts.Scorer == nil {
		opts.Scorer = extract.NewMarkerScorer()
	}
	if opts.Classifier == nil {
		opts.Classifier = extract.NewAppClassifier()
	}
	if opts.Pool == nil {
		opts.Pool = prompt.DefaultPool()
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	now := opts.Clock.Now()
	e := &Engine{
		cfg:        cfg,
		log:        opts.Logger,
		scorer:     opts.Scorer,
		classifier: opts.Classifier,
		clock:      opts.Clock,
		rng:        opts.Rand,
		store:      opts.Store,

		base:       baseline.NewTracker(cfg.Baseline),
		correlator: correlate.New(cfg.Correlator, opts.Logger),
		budget:     energy.NewBudget(cfg.Energy, now),
		detector:   transition.NewDetector(cfg.Transition),
		sched:      prompt.NewScheduler(cfg.Prompt, opts.Pool, opts.Rand, opts.Logger),

		queue:        ring.New[Input](cfg.QueueCap),
		samples:      ring.New[signal.Sample](cfg.SampleHistory),
		transitions:  ring.New[transition.Event](cfg.TransitionHistory),
		moments:      ring.New[transition.Event](cfg.MomentHistory),
		correlations: ring.New[correlate.Result](cfg.TransitionHistory),

		environment: signal.EnvUnknown,
		appClass:    extract.ClassUnknown,
		subs:        make(map[int]subscription),
	}
	e.snapshot = StateSnapshot{
		MaskingLevel: 0,
		EnergyLevel:  e.budget.Current(),
		SafetyLevel:  score.Safety(e.environment, e.appClass, now, cfg.Score),
		Environment:  e.environment,
		Timestamp:    now,
	}

	if e.store != nil {
		rows, err := e.store.LoadBaselines()
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			e.base.Seed(row.Dimension, row.Value, row.WarmupCount)
		}
	}
	return e, nil
}

// #endregion engine

// #region ingest

// Ingest queues one observation without blocking. Malformed inputs are
// dropped and counted, never propagated; when the queue is full the oldest
// unprocessed input is displaced. After Stop, Ingest is a no-op.
func (e *Engine) Ingest(in Input) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}

	if !e.wellFormed(in) {
		e.stats.DroppedInputs++
		e.log.Warn().Str("channel", string(in.Channel)).Msg("dropping malformed input")
		return
	}
	if in.At.IsZero() {
		in.At = e.clock.Now()
	}
	if e.queue.Len() == e.queue.Cap() {
		e.stats.QueueOverflows++
		e.log.Debug().Msg("input queue full, displacing oldest")
	}
	e.queue.Push(in)
}

func (e *Engine) wellFormed(in Input) bool {
	switch in.Channel {
	case signal.ChannelText:
		return in.Text != ""
	case signal.ChannelAudio:
		return in.Audio != nil
	case signal.ChannelContext:
		return in.App != ""
	default:
		return false
	}
}

// #endregion ingest

// #region tick

// Tick drains and processes the queued inputs as one batch, attempts
// cross-modal correlation, and fires due prompts. The run loop calls it on
// the batch interval; replay drives it directly.
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	var events []Event
	for _, in := range e.queue.Drain() {
		e.process(in, &events)
	}
	e.correlatePair(now)
	e.fireDue(now, &events)
	e.mu.Unlock()

	e.dispatch(events)
}

// process handles one input. A failure in one channel's extractor is
// counted and logged without disturbing the others.
func (e *Engine) process(in Input, events *[]Event) {
	switch in.Channel {
	case signal.ChannelText:
		e.processText(in, events)
	case signal.ChannelAudio:
		e.processAudio(in)
	case signal.ChannelContext:
		e.processContext(in)
	}
}

func (e *Engine) processText(in Input, events *[]Event) {
	scores, err := e.scorer.Score(in.Text, e.environment)
	if err != nil {
		e.stats.ExtractorFailures++
		e.log.Warn().Err(err).Msg("text extraction failed, sample skipped")
		return
	}

	sample := signal.NewSample(in.At, signal.ChannelText, scores, in.Text, e.cfg.MaxExcerpt)
	e.samples.Push(sample)
	e.lastText = &sample
	e.pairDirty = true

	for _, dim := range signal.CoreTextDimensions {
		e.base.Update(dim, scores.Get(dim, 0.5))
	}

	masking := score.Masking(scores, e.base, e.cfg.Score)
	e.base.Update(signal.DimMasking, masking)
	e.snapshot.MaskingLevel = masking
	e.snapshot.Timestamp = in.At

	emotional := scores.Get(signal.DimEmotional, 0.5)
	authenticity := scores.Get(signal.DimAuthenticity, 0.5)
	e.detector.Observe(transition.Observation{
		Masking:      masking,
		Emotional:    emotional,
		Authenticity: authenticity,
	})
	if ev := e.detector.ObserveAuthenticity(authenticity, emotional, in.At); ev != nil {
		e.moments.Push(*ev)
		e.recordTransition(*ev, events)
	}
	if ev := e.detector.DetectShift(e.base, in.At); ev != nil {
		e.recordTransition(*ev, events)
	}
}

func (e *Engine) processAudio(in Input) {
	scores := extract.AudioScores(*in.Audio)
	sample := signal.NewSample(in.At, signal.ChannelAudio, scores, "", e.cfg.MaxExcerpt)
	e.samples.Push(sample)
	e.lastAudio = &sample
	e.pairDirty = true
}

func (e *Engine) processContext(in Input) {
	res := e.classifier.Classify(in.App, in.At)
	e.environment = res.Environment
	e.appClass = res.Class
	e.snapshot.SafetyLevel = score.Safety(e.environment, e.appClass, in.At, e.cfg.Score)
	e.snapshot.Environment = e.environment
	e.snapshot.Timestamp = in.At
}

// correlatePair fuses the freshest text/audio pair once. Consumed samples
// are discarded so a stale modality cannot re-enter a later fusion.
func (e *Engine) correlatePair(now time.Time) {
	if !e.pairDirty || e.lastText == nil || e.lastAudio == nil {
		return
	}
	e.pairDirty = false

	cue := signal.Clip01(1 - e.snapshot.SafetyLevel)
	res := e.correlator.Correlate(*e.lastText, *e.lastAudio, cue, now)
	e.stats.CorrelatorOverruns = e.correlator.Overruns()
	e.stats.Degraded = e.correlator.Degraded()
	if res == nil {
		return
	}
	e.correlations.Push(*res)
	e.lastText, e.lastAudio = nil, nil
}

// #endregion tick

// #region reassess

// Reassess is the slow-cadence pass: it advances the energy model, refreshes
// safety for the current environment and time of day, checks for safe-space
// entry, and persists state. The run loop calls it on the slow interval.
func (e *Engine) Reassess(now time.Time) {
	e.mu.Lock()
	var events []Event

	crossings := e.budget.Tick(e.snapshot.MaskingLevel, e.snapshot.SafetyLevel, now)
	e.snapshot.EnergyLevel = e.budget.Current()
	for _, c := range crossings {
		e.handleCrossing(c, now, &events)
	}

	safety := score.Safety(e.environment, e.appClass, now, e.cfg.Score)
	e.snapshot.SafetyLevel = safety
	if ev := e.detector.ObserveSafety(safety, now); ev != nil {
		e.recordTransition(*ev, &events)
		e.scheduleSafePrompt(now)
	}

	e.fireDue(now, &events)
	e.persistState(now)
	e.mu.Unlock()

	e.dispatch(events)
}

func (e *Engine) handleCrossing(c energy.Crossing, now time.Time, events *[]Event) {
	level := e.budget.Current()
	payload := map[string]float64{"energy_level": level}

	var t transition.Type
	var cat prompt.Category
	switch c {
	case energy.CrossWarning:
		t, cat = transition.EnergyWarning, prompt.CategoryEnergyWarning
	case energy.CrossCritical:
		t, cat = transition.EnergyCritical, prompt.CategoryEnergyCritical
	default:
		return
	}

	ev := transition.NewEvent(t, 1-level, payload, now)
	e.recordTransition(ev, events)

	ctx := map[string]string{"environment": string(e.environment)}
	if _, reason := e.sched.Schedule(cat, ctx, e.cfg.EnergyPromptDelay, now); reason != prompt.ReasonNone {
		e.log.Debug().Str("category", string(cat)).Str("reason", string(reason)).Msg("energy prompt rejected")
	}
}

// scheduleSafePrompt queues an unmasking-support prompt a few minutes after
// safe-space entry, so support lands once the user has settled in.
func (e *Engine) scheduleSafePrompt(now time.Time) {
	spread := int64(e.cfg.SafePromptMaxDelay - e.cfg.SafePromptMinDelay)
	delay := e.cfg.SafePromptMinDelay
	if spread > 0 {
		delay += time.Duration(e.rng.Int63n(spread + 1))
	}
	ctx := map[string]string{"environment": string(e.environment)}
	if _, reason := e.sched.Schedule(prompt.CategoryUnmaskingSupport, ctx, delay, now); reason != prompt.ReasonNone {
		e.log.Debug().Str("reason", string(reason)).Msg("safe-space prompt rejected")
	}
}

func (e *Engine) fireDue(now time.Time, events *[]Event) {
	for _, rec := range e.sched.Due(now) {
		if e.store != nil {
			if err := e.store.SavePrompt(rec); err != nil {
				e.log.Warn().Err(err).Msg("persist prompt")
			}
		}
		*events = append(*events, PromptDelivered{Record: rec})
	}
}

func (e *Engine) persistState(now time.Time) {
	if e.store == nil {
		return
	}
	err := e.store.SaveSnapshot(persist.SnapshotRow{
		Masking:     e.snapshot.MaskingLevel,
		Energy:      e.snapshot.EnergyLevel,
		Safety:      e.snapshot.SafetyLevel,
		Environment: e.snapshot.Environment,
		CreatedAt:   now,
	})
	if err != nil {
		e.log.Warn().Err(err).Msg("persist snapshot")
	}
	for dim, b := range e.base.Snapshot() {
		err := e.store.UpsertBaseline(persist.BaselineRow{
			Dimension:   dim,
			Value:       b.Value,
			WarmupCount: b.WarmupCount,
			UpdatedAt:   now,
		})
		if err != nil {
			e.log.Warn().Err(err).Msg("persist baseline")
		}
	}
}

func (e *Engine) recordTransition(ev transition.Event, events *[]Event) {
	e.transitions.Push(ev)
	if e.store != nil {
		if err := e.store.SaveTransition(ev); err != nil {
			e.log.Warn().Err(err).Msg("persist transition")
		}
	}
	*events = append(*events, TransitionEvent{Transition: ev})
}

// #endregion reassess

// #region lifecycle

// Start launches the run loop: queue drains on the batch interval, energy
// and environment reassessment on the slow interval. The loop exits when
// ctx is cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return errors.New("engine: stopped")
	}
	if e.running {
		return errors.New("engine: already started")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.done = make(chan struct{})
	e.running = true
	go e.loop(loopCtx, e.done, e.cfg.BatchInterval, e.cfg.SlowInterval)
	return nil
}

func (e *Engine) loop(ctx context.Context, done chan struct{}, batch, slow time.Duration) {
	defer close(done)
	fast := time.NewTicker(batch)
	defer fast.Stop()
	reassess := time.NewTicker(slow)
	defer reassess.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-fast.C:
			e.Tick(e.clock.Now())
		case <-reassess.C:
			e.Reassess(e.clock.Now())
		}
	}
}

// Stop halts the run loop, discards queued inputs, and cancels pending
// prompts. Idempotent; the engine does not restart after Stop.
func (e *Engine) Stop() {
	e.mu.Lock()
	done := e.done
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.running = false
	e.stopped = true
	e.queue.Clear()
	e.sched.CancelAll()
	e.mu.Unlock()

	if done != nil {
		<-done
	}
}

// #endregion lifecycle

// #region accessors

// Snapshot returns the current state. Absent new inputs and elapsed slow
// ticks, consecutive snapshots are identical.
func (e *Engine) Snapshot() StateSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Stats returns the cumulative absorbed-failure counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.stats
	s.CorrelatorOverruns = e.correlator.Overruns()
	s.Degraded = e.correlator.Degraded()
	return s
}

// Samples returns up to limit most recent processed samples, oldest first.
func (e *Engine) Samples(limit int) []signal.Sample {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.samples.Last(limit)
}

// Transitions returns up to limit most recent transition events, oldest first.
func (e *Engine) Transitions(limit int) []transition.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transitions.Last(limit)
}

// Moments returns up to limit most recent authenticity moments, oldest first.
func (e *Engine) Moments(limit int) []transition.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moments.Last(limit)
}

// Correlations returns up to limit most recent fusion results, oldest first.
func (e *Engine) Correlations(limit int) []correlate.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.correlations.Last(limit)
}

// Prompts returns up to limit most recent delivered prompts, oldest first.
func (e *Engine) Prompts(limit int) []prompt.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sched.History(limit)
}

// Baselines returns a copy of the current per-dimension baselines.
func (e *Engine) Baselines() map[signal.Dimension]baseline.Baseline {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.base.Snapshot()
}

// #endregion accessors

// #region history

// HistoryKind selects a bounded history for History.
type HistoryKind string

const (
	HistorySamples     HistoryKind = "samples"
	HistoryTransitions HistoryKind = "transitions"
	HistoryMoments     HistoryKind = "moments"
	HistoryPrompts     HistoryKind = "prompts"
)

// History returns up to limit entries of the named history, oldest first.
// Entries are signal.Sample, transition.Event, or prompt.Record depending
// on kind; the typed accessors avoid the boxing when the kind is static.
func (e *Engine) History(kind HistoryKind, limit int) []any {
	switch kind {
	case HistorySamples:
		return boxed(e.Samples(limit))
	case HistoryTransitions:
		return boxed(e.Transitions(limit))
	case HistoryMoments:
		return boxed(e.Moments(limit))
	case HistoryPrompts:
		return boxed(e.Prompts(limit))
	default:
		return nil
	}
}

func boxed[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// #endregion history

// #region subscribe

// Subscribe registers a handler for one event kind. Handlers run on the
// goroutine that completed the triggering tick, after internal locks are
// released; a handler may call back into the engine.
func (e *Engine) Subscribe(kind EventKind, fn func(Event)) int {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	e.nextSub++
	e.subs[e.nextSub] = subscription{kind: kind, fn: fn}
	return e.nextSub
}

// Unsubscribe removes a previously registered handler.
func (e *Engine) Unsubscribe(id int) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	delete(e.subs, id)
}

func (e *Engine) dispatch(events []Event) {
	if len(events) == 0 {
		return
	}
	e.subMu.RLock()
	subs := make([]subscription, 0, len(e.subs))
	for _, s := range e.subs {
		subs = append(subs, s)
	}
	e.subMu.RUnlock()

	for _, ev := range events {
		for _, s := range subs {
			if s.kind == ev.EventKind() {
				s.fn(ev)
			}
		}
	}
}

// #endregion subscribe

// #region configure

// Configure validates and applies a new configuration. On rejection the
// previous configuration stays in force. Baseline values, energy level,
// prompt history, and degraded-mode state carry over; changed tick
// intervals take effect on the next Start.
func (e *Engine) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.base.SetConfig(cfg.Baseline)
	e.correlator.SetConfig(cfg.Correlator)
	e.budget.SetConfig(cfg.Energy)
	e.detector.SetConfig(cfg.Transition)
	e.sched.SetConfig(cfg.Prompt)

	if cfg.QueueCap != e.cfg.QueueCap {
		q := ring.New[Input](cfg.QueueCap)
		for _, in := range e.queue.Last(cfg.QueueCap) {
			q.Push(in)
		}
		e.queue = q
	}
	e.cfg = cfg
	return nil
}

// #endregion configure
