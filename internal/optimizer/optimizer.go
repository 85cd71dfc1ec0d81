// Package optimizer hill-climbs a deck range: every epoch it evaluates the
// current list and each one-card neighbour, then adds the best card to add
// and removes the best card to remove.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultEpochs = 100

// RunState is the lifecycle of an optimizer run.
type RunState int

const (
	RunStateWaiting RunState = iota
	RunStateRunning
	RunStateFinished
	RunStateCancelled
	RunStateFailed
)

func (s RunState) String() string {
	switch s {
	case RunStateWaiting:
		return "WAITING"
	case RunStateRunning:
		return "RUNNING"
	case RunStateFinished:
		return "FINISHED"
	case RunStateCancelled:
		return "CANCELLED"
	case RunStateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Delta is the score of one neighbour relative to the baseline.
type Delta struct {
	Card  string
	Mean  float64
	Delta float64
}

// EpochReport is the outcome of one epoch.
type EpochReport struct {
	Epoch    int
	Decklist string
	Baseline float64
	// Adds and Removes are sorted by ascending mean, best first.
	Adds    []Delta
	Removes []Delta
	// BestAdd and BestRemove are empty when no neighbour of that kind
	// exists; the range is then left unchanged.
	BestAdd    string
	BestRemove string
	// BestMean averages the best add and the best remove.
	BestMean float64
	Applied  bool
	// TopLines are the most frequent winning log lines of the baseline.
	TopLines []LineCount
	Errors   int
	Duration time.Duration
}

// Observer receives every finished epoch.
type Observer interface {
	OnEpoch(EpochReport)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(EpochReport)

func (f ObserverFunc) OnEpoch(r EpochReport) { f(r) }

// Snapshot is a consistent copy of an optimizer's progress.
type Snapshot struct {
	State     RunState
	Epoch     int
	Epochs    int
	Range     DeckRange
	Reports   []EpochReport
	StartTime *time.Time
	EndTime   *time.Time
}

// Optimizer runs the hill-climb.
type Optimizer struct {
	Epochs    int
	Evaluator *Evaluator
	Observers []Observer
	// TopLines is how many winning log lines each report keeps.
	TopLines int

	mu        sync.RWMutex
	state     RunState
	deckRange DeckRange
	epoch     int
	reports   []EpochReport
	startTime *time.Time
	endTime   *time.Time
	logger    *zap.Logger
}

// New creates an optimizer over r.
func New(r DeckRange, evaluator *Evaluator, logger *zap.Logger) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{
		Epochs:    DefaultEpochs,
		Evaluator: evaluator,
		TopLines:  10,
		state:     RunStateWaiting,
		deckRange: append(DeckRange(nil), r...),
		logger:    logger,
	}
}

// Range returns the current deck range.
func (o *Optimizer) Range() DeckRange {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append(DeckRange(nil), o.deckRange...)
}

// State returns the lifecycle state.
func (o *Optimizer) State() RunState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// RunEpoch evaluates the baseline of r and all its neighbours with the
// seeds of epoch and picks the best add and the best remove.
func (o *Optimizer) RunEpoch(ctx context.Context, r DeckRange, epoch int) (EpochReport, error) {
	start := time.Now()
	baseline, adds, removes := r.Variants()
	o.logger.Info("epoch started",
		zap.Int("epoch", epoch),
		zap.Int("cards", r.Size()),
		zap.Int("adds", len(adds)),
		zap.Int("removes", len(removes)),
	)

	texts := make([]string, 0, 1+len(adds)+len(removes))
	texts = append(texts, baseline)
	for _, v := range adds {
		texts = append(texts, v.Decklist)
	}
	for _, v := range removes {
		texts = append(texts, v.Decklist)
	}
	evals, err := o.Evaluator.evaluateAll(ctx, texts, epoch)
	if err != nil {
		return EpochReport{}, fmt.Errorf("epoch %d: %w", epoch, err)
	}

	base := evals[0]
	report := EpochReport{
		Epoch:    epoch,
		Decklist: baseline,
		Baseline: base.Mean,
		TopLines: base.TopLines(o.TopLines),
	}
	for _, ev := range evals {
		report.Errors += ev.Errors
	}
	report.Adds = deltas(adds, evals[1:1+len(adds)], base.Mean)
	report.Removes = deltas(removes, evals[1+len(adds):], base.Mean)

	if len(report.Adds) > 0 && len(report.Removes) > 0 {
		report.BestAdd = report.Adds[0].Card
		report.BestRemove = report.Removes[0].Card
		report.BestMean = (report.Adds[0].Mean + report.Removes[0].Mean) / 2
	}
	report.Duration = time.Since(start)
	return report, nil
}

func deltas(variants []Variant, evals []*Evaluation, baseline float64) []Delta {
	out := make([]Delta, len(variants))
	for i, v := range variants {
		out[i] = Delta{Card: v.Card, Mean: evals[i].Mean, Delta: evals[i].Mean - baseline}
	}
	// Stable keeps range order among ties.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mean < out[j].Mean })
	return out
}

// Run performs Epochs epochs, applying each epoch's best add and best
// remove to the range before the next. It returns the final range; on
// cancellation the range reached so far is returned with the context error.
func (o *Optimizer) Run(ctx context.Context) (DeckRange, error) {
	o.mu.Lock()
	if o.state != RunStateWaiting {
		o.mu.Unlock()
		return nil, fmt.Errorf("optimizer already %s", o.state)
	}
	now := time.Now()
	o.startTime = &now
	o.state = RunStateRunning
	o.mu.Unlock()

	for epoch := 1; epoch <= o.Epochs; epoch++ {
		current := o.Range()
		report, err := o.RunEpoch(ctx, current, epoch)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				o.finish(RunStateCancelled)
				o.logger.Warn("optimizer stopped", zap.Int("epoch", epoch), zap.Error(err))
			} else {
				o.finish(RunStateFailed)
				o.logger.Error("optimizer failed", zap.Int("epoch", epoch), zap.Error(err))
			}
			return current, err
		}

		next := current
		if report.BestAdd != "" && report.BestRemove != "" {
			next = current.Apply(report.BestAdd, report.BestRemove)
			report.Applied = true
		}

		o.mu.Lock()
		o.deckRange = next
		o.epoch = epoch
		o.reports = append(o.reports, report)
		o.mu.Unlock()

		o.logger.Info("epoch finished",
			zap.Int("epoch", epoch),
			zap.Float64("baseline", report.Baseline),
			zap.String("best_add", report.BestAdd),
			zap.String("best_remove", report.BestRemove),
			zap.Float64("best_mean", report.BestMean),
			zap.Duration("duration", report.Duration),
		)
		for _, obs := range o.Observers {
			obs.OnEpoch(report)
		}
	}

	o.finish(RunStateFinished)
	return o.Range(), nil
}

func (o *Optimizer) finish(state RunState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	o.state = state
	o.endTime = &now
}

// Snapshot returns a consistent copy of the run.
func (o *Optimizer) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()

	reports := make([]EpochReport, len(o.reports))
	copy(reports, o.reports)
	return Snapshot{
		State:     o.state,
		Epoch:     o.epoch,
		Epochs:    o.Epochs,
		Range:     append(DeckRange(nil), o.deckRange...),
		Reports:   reports,
		StartTime: cloneTime(o.startTime),
		EndTime:   cloneTime(o.endTime),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}
