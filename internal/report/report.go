// Package report renders optimizer results for people.
package report

import (
	"io"
	"time"

	"github.com/magefree/mage-goldfish/internal/optimizer"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	epochHeaderKey   = "report.epoch_header"
	baselineListKey  = "report.baseline_list"
	baselineKey      = "report.baseline"
	addsHeaderKey    = "report.adds_header"
	removesHeaderKey = "report.removes_header"
	deltaKey         = "report.delta"
	bestAddKey       = "report.best_add"
	bestRemoveKey    = "report.best_remove"
	bestMeanKey      = "report.best_mean"
	noMoveKey        = "report.no_move"
	errorsKey        = "report.errors"
	linesHeaderKey   = "report.lines_header"
	lineKey          = "report.line"
	evalHeaderKey    = "report.eval_header"
	evalSummaryKey   = "report.eval_summary"
	trialWinKey      = "report.trial_win"
	trialLossKey     = "report.trial_loss"
	trialErrorKey    = "report.trial_error"
	finalHeaderKey   = "report.final_header"
	finalEntryKey    = "report.final_entry"
)

func init() {
	lang := language.English

	message.SetString(lang, epochHeaderKey, "Epoch %d of %d\n")
	message.SetString(lang, baselineListKey, " Baseline decklist:\n%s")
	message.SetString(lang, baselineKey, " Baseline wins: %.3f\n")
	message.SetString(lang, addsHeaderKey, "  Best cards to add:\n")
	message.SetString(lang, removesHeaderKey, "  Best cards to remove:\n")
	message.SetString(lang, deltaKey, "   %s: %+.3f\n")
	message.SetString(lang, bestAddKey, " Best card to add: %s (%.3f)\n")
	message.SetString(lang, bestRemoveKey, " Best card to remove: %s (%.3f)\n")
	message.SetString(lang, bestMeanKey, " Best win: %.3f vs. %.3f (%+.3f)\n")
	message.SetString(lang, noMoveKey, " No card to swap, decklist kept\n")
	message.SetString(lang, errorsKey, " Failed trials: %d\n")
	message.SetString(lang, linesHeaderKey, "  Most frequent winning lines:\n")
	message.SetString(lang, lineKey, "   %d  %s\n")
	message.SetString(lang, evalHeaderKey, "Testing decklist:\n%s")
	message.SetString(lang, evalSummaryKey, " Tested %d trials in %s (%s each): %d wins, average turn %.3f\n")
	message.SetString(lang, trialWinKey, "  Found win in %d expansions on turn %d\n")
	message.SetString(lang, trialLossKey, "  Did not find win. Max leaf nodes: %d\n")
	message.SetString(lang, trialErrorKey, "  Trial %d failed: %v\n")
	message.SetString(lang, finalHeaderKey, "Final decklist:\n")
	message.SetString(lang, finalEntryKey, "%d %s\n")
}

// Printer writes localized reports.
type Printer struct {
	w   io.Writer
	loc *message.Printer
}

// New creates a printer for the given language. Languages without a
// catalog fall back to English.
func New(w io.Writer, tag language.Tag) *Printer {
	return &Printer{w: w, loc: message.NewPrinter(tag)}
}

// Epoch writes one epoch in the layout of the hill-climb log.
func (p *Printer) Epoch(r optimizer.EpochReport, total int) {
	p.loc.Fprintf(p.w, epochHeaderKey, r.Epoch, total)
	p.loc.Fprintf(p.w, baselineListKey, r.Decklist)
	p.loc.Fprintf(p.w, baselineKey, r.Baseline)

	p.loc.Fprintf(p.w, addsHeaderKey)
	for _, d := range r.Adds {
		p.loc.Fprintf(p.w, deltaKey, d.Card, d.Delta)
	}
	p.loc.Fprintf(p.w, removesHeaderKey)
	for _, d := range r.Removes {
		p.loc.Fprintf(p.w, deltaKey, d.Card, d.Delta)
	}

	if r.BestAdd == "" || r.BestRemove == "" {
		p.loc.Fprintf(p.w, noMoveKey)
	} else {
		p.loc.Fprintf(p.w, bestAddKey, r.BestAdd, r.Adds[0].Mean)
		p.loc.Fprintf(p.w, bestRemoveKey, r.BestRemove, r.Removes[0].Mean)
		p.loc.Fprintf(p.w, bestMeanKey, r.BestMean, r.Baseline, r.BestMean-r.Baseline)
	}
	if r.Errors > 0 {
		p.loc.Fprintf(p.w, errorsKey, r.Errors)
	}
	p.lines(r.TopLines)
}

// Evaluation writes the per-trial outcomes and the summary of one
// decklist, with at most top winning lines.
func (p *Printer) Evaluation(ev *optimizer.Evaluation, top int) {
	p.loc.Fprintf(p.w, evalHeaderKey, ev.Decklist)
	for _, t := range ev.Trials {
		switch {
		case t.Err != nil:
			p.loc.Fprintf(p.w, trialErrorKey, t.Index, t.Err)
		case t.Won:
			p.loc.Fprintf(p.w, trialWinKey, t.Expansions, t.Turn)
		default:
			p.loc.Fprintf(p.w, trialLossKey, t.MaxLeaves)
		}
	}
	var each time.Duration
	if len(ev.Trials) > 0 {
		each = ev.Duration / time.Duration(len(ev.Trials))
	}
	p.loc.Fprintf(p.w, evalSummaryKey, len(ev.Trials), ev.Duration.Round(time.Millisecond), each.Round(time.Microsecond), ev.Wins, ev.Mean)
	p.lines(ev.TopLines(top))
}

// Range writes the decklist of a deck range.
func (p *Printer) Range(r optimizer.DeckRange) {
	p.loc.Fprintf(p.w, finalHeaderKey)
	for _, e := range r {
		p.loc.Fprintf(p.w, finalEntryKey, e.Quantity, e.Name)
	}
}

func (p *Printer) lines(lines []optimizer.LineCount) {
	if len(lines) == 0 {
		return
	}
	p.loc.Fprintf(p.w, linesHeaderKey)
	for _, l := range lines {
		p.loc.Fprintf(p.w, lineKey, l.Count, l.Line)
	}
}

// Observer returns an optimizer observer that prints every epoch.
func (p *Printer) Observer(total int) optimizer.Observer {
	return optimizer.ObserverFunc(func(r optimizer.EpochReport) {
		p.Epoch(r, total)
	})
}
