package mana

import (
	"errors"
	"fmt"
)

// ErrInsufficientFunds is returned when a debit cannot be covered.
var ErrInsufficientFunds = errors.New("insufficient mana")

// InvariantError reports a ledger that ended up in an impossible state.
// It is raised with panic: it always means a bug, never a game outcome.
type InvariantError struct {
	Op     string
	Detail string
	Ledger Ledger
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("mana ledger invariant violated during %s: %s (%s)", e.Op, e.Detail, e.Ledger.String())
}

// Ledger holds a player's mana pools.
//
// Temporary mana empties at the start of every turn and is regenerated from
// the source counts. Persistent mana carries across turns.
type Ledger struct {
	TempColored         int
	TempColorless       int
	PersistentColored   int
	PersistentColorless int

	// Sources regenerate the temporary pools on untap.
	ColoredSources   int
	ColorlessSources int
}

// Untap resets the temporary pools to the source counts.
func (l *Ledger) Untap() {
	l.TempColored = l.ColoredSources
	l.TempColorless = l.ColorlessSources
}

// AddSources adds permanent mana sources. When untapped is true the new
// sources are also tapped right away for temporary mana.
func (l *Ledger) AddSources(colored, colorless int, untapped bool) {
	l.ColoredSources += colored
	l.ColorlessSources += colorless
	if untapped {
		l.AddTemporary(colored, colorless)
	}
}

// AddTemporary adds mana that is lost on the next untap.
func (l *Ledger) AddTemporary(colored, colorless int) {
	if colored > 0 {
		l.TempColored += colored
	}
	if colorless > 0 {
		l.TempColorless += colorless
	}
}

// AddPersistent adds mana that survives turn boundaries.
func (l *Ledger) AddPersistent(colored, colorless int) {
	if colored > 0 {
		l.PersistentColored += colored
	}
	if colorless > 0 {
		l.PersistentColorless += colorless
	}
}

// Available returns the total mana across all pools.
func (l *Ledger) Available() int {
	return l.TempColored + l.TempColorless + l.PersistentColored + l.PersistentColorless
}

// Colored returns the colored mana across both pools.
func (l *Ledger) Colored() int {
	return l.TempColored + l.PersistentColored
}

// HasFunds reports whether a cost of total mana, of which colorless may be
// paid by any mana, can be covered.
func (l *Ledger) HasFunds(total, colorless int) bool {
	if total < 0 || colorless < 0 || colorless > total {
		return false
	}
	if l.Colored() < total-colorless {
		return false
	}
	return l.Available() >= total
}

// CanPay is HasFunds for a Cost. An absent cost is never payable.
func (l *Ledger) CanPay(cost *Cost) bool {
	if cost == nil {
		return false
	}
	return l.HasFunds(cost.Total, cost.Colorless)
}

// Pay is Debit for a Cost.
func (l *Ledger) Pay(cost *Cost) error {
	if cost == nil {
		return fmt.Errorf("%w: cost is absent", ErrInsufficientFunds)
	}
	return l.Debit(cost.Total, cost.Colorless)
}

// Debit spends total mana, colorless of which may be paid by any mana.
//
// Payment order:
//  1. temporary colorless pays the colorless sub-cost
//  2. temporary colored beyond what the colored part needs pays colorless
//  3. persistent colorless pays colorless
//  4. temporary colored pays the colored part
//  5. persistent colored pays whatever is left
//
// Temporary mana is spent before persistent mana because it is lost at the
// next untap anyway.
func (l *Ledger) Debit(total, colorless int) error {
	if !l.HasFunds(total, colorless) {
		return fmt.Errorf("%w: need %d (%d colorless), have %s", ErrInsufficientFunds, total, colorless, l.String())
	}

	before := *l
	colored := total - colorless
	remColorless := colorless

	spend := minInt(l.TempColorless, remColorless)
	l.TempColorless -= spend
	remColorless -= spend

	excess := l.TempColored - colored
	if excess > 0 {
		spend = minInt(excess, remColorless)
		l.TempColored -= spend
		remColorless -= spend
	}

	spend = minInt(l.PersistentColorless, remColorless)
	l.PersistentColorless -= spend
	remColorless -= spend

	remColored := colored
	spend = minInt(l.TempColored, remColored)
	l.TempColored -= spend
	remColored -= spend

	l.PersistentColored -= remColored + remColorless

	l.checkDebit(before, total)
	return nil
}

// checkDebit panics when the debit did not conserve mana exactly.
func (l *Ledger) checkDebit(before Ledger, total int) {
	if l.TempColored < 0 || l.TempColorless < 0 || l.PersistentColored < 0 || l.PersistentColorless < 0 {
		panic(&InvariantError{Op: "debit", Detail: "negative pool", Ledger: *l})
	}
	if spent := before.Available() - l.Available(); spent != total {
		panic(&InvariantError{
			Op:     "debit",
			Detail: fmt.Sprintf("spent %d for a cost of %d", spent, total),
			Ledger: *l,
		})
	}
}

func (l Ledger) String() string {
	return fmt.Sprintf("temp %dc/%dx persistent %dc/%dx sources %dc/%dx",
		l.TempColored, l.TempColorless,
		l.PersistentColored, l.PersistentColorless,
		l.ColoredSources, l.ColorlessSources)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
