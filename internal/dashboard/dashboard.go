/*
Package dashboard sequences the grounded fetches behind the three panels and
tracks which panels are still loading.
*/
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shanehull/shotime/internal/ai"
	"github.com/shanehull/shotime/internal/types"

	"go.uber.org/zap"
)

type Panel string

const (
	PanelStats      Panel = "stats"
	PanelNews       Panel = "news"
	PanelHighlights Panel = "highlights"
)

// Task is one entry of the ordered fetch plan.
type Task struct {
	Panel  Panel
	Prompt string
}

// DefaultTasks returns the fetch plan in execution order. The fetches run one
// after another so the upstream rate limiter is not tripped.
func DefaultTasks() []Task {
	return []Task{
		{Panel: PanelStats, Prompt: ai.StatsPrompt},
		{Panel: PanelNews, Prompt: ai.NewsPrompt},
		{Panel: PanelHighlights, Prompt: ai.HighlightsPrompt},
	}
}

// Fetcher resolves a prompt to a result. Implementations are expected to
// absorb their own failures; *ai.Client is the production fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, prompt string) types.GroundedResult
}

var (
	// ErrSuperseded is returned by Refresh when a newer cycle started before it finished.
	ErrSuperseded = errors.New("refresh superseded by a newer cycle")
	// ErrBusy is returned by TryRefresh while any panel is loading.
	ErrBusy = errors.New("refresh already in progress")
)

// Snapshot is a copy of the dashboard state. A nil result means the panel has
// not received data yet.
type Snapshot struct {
	Generation uint64
	Loading    types.LoadingState
	Stats      *types.GroundedResult
	News       *types.GroundedResult
	Highlights *types.GroundedResult
}

type Option func(*Dashboard)

func WithTasks(tasks []Task) Option {
	return func(d *Dashboard) {
		d.tasks = append([]Task(nil), tasks...)
	}
}

// WithUpdateHook registers fn to be called with a fresh snapshot whenever the
// state changes. fn is called without the dashboard lock held.
func WithUpdateHook(fn func(Snapshot)) Option {
	return func(d *Dashboard) {
		d.onUpdate = fn
	}
}

type Dashboard struct {
	fetcher  Fetcher
	tasks    []Task
	logger   *zap.Logger
	onUpdate func(Snapshot)

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	loading    types.LoadingState
	results    map[Panel]types.GroundedResult
}

// New returns a dashboard whose panels all start in the loading state.
func New(fetcher Fetcher, logger *zap.Logger, opts ...Option) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dashboard{
		fetcher: fetcher,
		tasks:   DefaultTasks(),
		logger:  logger.Named("dashboard"),
		results: make(map[Panel]types.GroundedResult),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.markLoading()
	return d
}

// Refresh runs one fetch cycle. Starting a cycle cancels the previous one, and
// anything the previous cycle settles afterwards is discarded.
func (d *Dashboard) Refresh(ctx context.Context) error {
	ctx, gen, cancel, err := d.begin(ctx, false)
	if err != nil {
		return err
	}
	defer cancel()
	return d.run(ctx, gen)
}

// TryRefresh is the manual refresh control. It refuses with ErrBusy while any
// panel is loading.
func (d *Dashboard) TryRefresh(ctx context.Context) error {
	ctx, gen, cancel, err := d.begin(ctx, true)
	if err != nil {
		return err
	}
	defer cancel()
	return d.run(ctx, gen)
}

func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Dashboard) begin(parent context.Context, requireIdle bool) (context.Context, uint64, context.CancelFunc, error) {
	d.mu.Lock()
	if requireIdle && d.loading.Any() {
		d.mu.Unlock()
		return nil, 0, nil, ErrBusy
	}

	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	d.generation++
	gen := d.generation
	d.cancel = cancel
	d.markLoading()
	snap := d.snapshotLocked()
	d.mu.Unlock()

	d.logger.Info("fetch cycle started", zap.Uint64("generation", gen))
	d.notify(snap)
	return ctx, gen, cancel, nil
}

func (d *Dashboard) run(ctx context.Context, gen uint64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("error in sequential fetch", zap.Uint64("generation", gen), zap.Any("panic", r))
			d.clearLoading(gen)
			err = fmt.Errorf("fetch cycle %d aborted: %v", gen, r)
		}
	}()

	for _, task := range d.tasks {
		if ctx.Err() != nil {
			if !d.clearLoading(gen) {
				return ErrSuperseded
			}
			return ctx.Err()
		}

		result := d.fetcher.Fetch(ctx, task.Prompt)

		if !d.settle(gen, task.Panel, result) {
			d.logger.Info("discarding stale result",
				zap.Uint64("generation", gen),
				zap.String("panel", string(task.Panel)))
			return ErrSuperseded
		}
	}

	d.logger.Info("fetch cycle finished", zap.Uint64("generation", gen))
	return nil
}

// settle stores result and clears its loading flag if gen is still current.
func (d *Dashboard) settle(gen uint64, panel Panel, result types.GroundedResult) bool {
	d.mu.Lock()
	if gen != d.generation {
		d.mu.Unlock()
		return false
	}
	d.results[panel] = result
	setLoading(&d.loading, panel, false)
	snap := d.snapshotLocked()
	d.mu.Unlock()

	d.logger.Debug("panel settled", zap.String("panel", string(panel)), zap.Int("citations", len(result.Citations)))
	d.notify(snap)
	return true
}

// clearLoading forces every flag false if gen is still current.
func (d *Dashboard) clearLoading(gen uint64) bool {
	d.mu.Lock()
	if gen != d.generation {
		d.mu.Unlock()
		return false
	}
	d.loading = types.LoadingState{}
	snap := d.snapshotLocked()
	d.mu.Unlock()

	d.notify(snap)
	return true
}

func (d *Dashboard) markLoading() {
	for _, t := range d.tasks {
		setLoading(&d.loading, t.Panel, true)
	}
}

func (d *Dashboard) notify(snap Snapshot) {
	if d.onUpdate != nil {
		d.onUpdate(snap)
	}
}

func (d *Dashboard) snapshotLocked() Snapshot {
	snap := Snapshot{
		Generation: d.generation,
		Loading:    d.loading,
	}
	if r, ok := d.results[PanelStats]; ok {
		snap.Stats = copyResult(r)
	}
	if r, ok := d.results[PanelNews]; ok {
		snap.News = copyResult(r)
	}
	if r, ok := d.results[PanelHighlights]; ok {
		snap.Highlights = copyResult(r)
	}
	return snap
}

func copyResult(r types.GroundedResult) *types.GroundedResult {
	c := types.GroundedResult{
		Text:      r.Text,
		Citations: append([]types.Citation{}, r.Citations...),
	}
	return &c
}

func setLoading(l *types.LoadingState, panel Panel, v bool) {
	switch panel {
	case PanelStats:
		l.Stats = v
	case PanelNews:
		l.News = v
	case PanelHighlights:
		l.Highlights = v
	}
}
