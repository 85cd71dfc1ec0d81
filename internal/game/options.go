package game

const (
	DefaultOpeningHand  = 7
	DefaultOpponentLife = 20
)

// Options configure a game and are shared, read-only, by every state cloned
// from it.
type Options struct {
	// OpeningHand is the number of cards drawn at the start of turn 1.
	OpeningHand int
	// OpponentLife is the starting life total of the opponent.
	OpponentLife int
	// EventLog records a transcript of every mutation in State.Log.
	EventLog bool
	// AllowDeferral adds a "pass the turn" branch when a deferrable card
	// could have been played.
	AllowDeferral bool
	// Prune marks states that should not be explored any further.
	Prune func(*State) bool
}

// DefaultOptions returns the options used by the optimizer.
func DefaultOptions() Options {
	return Options{
		OpeningHand:  DefaultOpeningHand,
		OpponentLife: DefaultOpponentLife,
		EventLog:     true,
	}
}

func (o Options) withDefaults() Options {
	if o.OpeningHand <= 0 {
		o.OpeningHand = DefaultOpeningHand
	}
	if o.OpponentLife <= 0 {
		o.OpponentLife = DefaultOpponentLife
	}
	return o
}
