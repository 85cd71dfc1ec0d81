package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/magefree/mage-goldfish/internal/game/mana"
)

// cardNamespace seeds the deterministic instance IDs of a game.
var cardNamespace = uuid.MustParse("6f1c1b4e-7f3a-5d0e-9a57-0c2f4d8e6b13")

// State is one timeline of a goldfish game.
//
// A state that has produced children is never mutated again: its children
// are thawed from a snapshot frozen the first time it is cloned.
type State struct {
	Turn int

	Library     Zone
	Hand        Zone
	Battlefield Zone
	Graveyard   Zone
	Exile       Zone

	Ledger mana.Ledger

	LandDrops    int
	CreatureDied bool
	// PendingFreeCast names a library card that may be cast for its cost at
	// the next decision point because the library was just searched.
	PendingFreeCast string
	OpponentLife    int

	Seed     uint64
	shuffles uint64

	// Log is the game transcript. It shares its backing array with the
	// parent state; appends always reallocate.
	Log []string

	// Children are the memoized successors computed by StepNextActions.
	Children []*State
	Pruned   bool

	// Parent is the state this one was cloned from, nil for a root.
	Parent *State
	// Action describes the transition from Parent.
	Action string
	Depth  int

	opts *Options
	snap *frozen
}

// NewState builds a fresh pregame state whose library holds one instance per
// definition, shuffled with seed.
func NewState(defs []*Definition, seed uint64, opts Options) *State {
	o := opts.withDefaults()
	s := &State{
		OpponentLife: o.OpponentLife,
		Seed:         seed,
		opts:         &o,
	}

	slab := make([]Card, len(defs))
	s.Library = make(Zone, 0, len(defs))
	for i, def := range defs {
		id := uuid.NewSHA1(cardNamespace, []byte(fmt.Sprintf("%d/%d", seed, i)))
		slab[i] = *NewCard(id, def)
		s.Library = append(s.Library, &slab[i])
	}
	s.Shuffle()
	return s
}

// Options returns the options the game was created with.
func (s *State) Options() Options {
	return *s.opts
}

// Logf appends a line to the transcript when event logging is enabled.
func (s *State) Logf(format string, args ...any) {
	if !s.opts.EventLog {
		return
	}
	s.Log = append(s.Log, fmt.Sprintf(format, args...))
}

// LastLog returns the latest transcript line.
func (s *State) LastLog() string {
	if len(s.Log) == 0 {
		return ""
	}
	return s.Log[len(s.Log)-1]
}

// IsWin reports whether the opponent has been defeated.
func (s *State) IsWin() bool {
	return s.OpponentLife <= 0
}

// IsLeaf reports whether the state has no computed children yet. A won
// state, whose only child is itself, also counts as a leaf.
func (s *State) IsLeaf() bool {
	return len(s.Children) == 0 || (len(s.Children) == 1 && s.Children[0] == s)
}

// Clone returns an independent copy of the state, thawed from its
// snapshot.
func (s *State) Clone() *State {
	c := s.snapshot().thaw()
	c.Parent = s
	c.Depth = s.Depth + 1
	return c
}

// frozen is the immutable image a state's children are cloned from: the
// scalar fields plus every card laid out in zone order in one slab.
type frozen struct {
	head  State
	cards []Card
	sizes [5]int
}

// snapshot freezes the state on first use. The image is kept until
// StepNextActions has memoized the children and is never invalidated, so
// the state must not be mutated while it holds one.
func (s *State) snapshot() *frozen {
	if s.snap == nil {
		s.snap = s.freeze()
	}
	return s.snap
}

func (s *State) freeze() *frozen {
	f := &frozen{
		head: State{
			Turn:            s.Turn,
			Ledger:          s.Ledger,
			LandDrops:       s.LandDrops,
			CreatureDied:    s.CreatureDied,
			PendingFreeCast: s.PendingFreeCast,
			OpponentLife:    s.OpponentLife,
			Seed:            s.Seed,
			shuffles:        s.shuffles,
			Log:             s.Log[:len(s.Log):len(s.Log)],
			Action:          s.Action,
			Depth:           s.Depth,
			opts:            s.opts,
		},
		cards: make([]Card, 0, s.CardCount()),
	}
	for i, z := range s.Zones() {
		f.sizes[i] = len(*z)
		for _, card := range *z {
			fc := *card
			fc.Counters = card.Counters.Copy()
			f.cards = append(f.cards, fc)
		}
	}
	return f
}

// thaw builds a mutable state from the image with one copy of the card
// slab and one pointer table carved into the five zones.
func (f *frozen) thaw() *State {
	c := new(State)
	*c = f.head

	cards := make([]Card, len(f.cards))
	copy(cards, f.cards)
	ptrs := make([]*Card, len(cards))
	for i := range cards {
		cards[i].Counters = f.cards[i].Counters.Copy()
		ptrs[i] = &cards[i]
	}

	zones := [...]*Zone{&c.Library, &c.Hand, &c.Battlefield, &c.Graveyard, &c.Exile}
	at := 0
	for i, z := range zones {
		n := f.sizes[i]
		// Capped so that growing one zone never writes into the next.
		*z = Zone(ptrs[at : at+n : at+n])
		at += n
	}
	return c
}

// Zones returns the five zones in a fixed order.
func (s *State) Zones() []*Zone {
	return []*Zone{&s.Library, &s.Hand, &s.Battlefield, &s.Graveyard, &s.Exile}
}

var zoneNames = []ZoneName{ZoneLibrary, ZoneHand, ZoneBattlefield, ZoneGraveyard, ZoneExile}

// ZoneOf returns the name of the zone holding c, or "" if none does.
func (s *State) ZoneOf(c *Card) ZoneName {
	for i, z := range s.Zones() {
		if z.Contains(c) {
			return zoneNames[i]
		}
	}
	return ""
}

// CheckZones verifies that no card instance is in two zones, or twice in
// one zone.
func (s *State) CheckZones() error {
	seen := make(map[*Card]ZoneName)
	ids := make(map[uuid.UUID]struct{})
	for i, z := range s.Zones() {
		for _, c := range *z {
			if prev, ok := seen[c]; ok {
				return fmt.Errorf("%s is in both %s and %s", c.Name(), prev, zoneNames[i])
			}
			seen[c] = zoneNames[i]
			if _, ok := ids[c.ID]; ok {
				return fmt.Errorf("duplicate card id %s (%s)", c.ID, c.Name())
			}
			ids[c.ID] = struct{}{}
		}
	}
	return nil
}

// CardCount returns the number of card instances across all zones.
func (s *State) CardCount() int {
	n := 0
	for _, z := range s.Zones() {
		n += z.Len()
	}
	return n
}

// Checksum returns a SHA-256 digest of the game-relevant fields. The
// transcript and the search bookkeeping are left out, so two states that
// differ only in logging have the same checksum.
func (s *State) Checksum() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "STATE:%d|%d|%t|%s|%d|%d|%d\n",
		s.Turn, s.LandDrops, s.CreatureDied, s.PendingFreeCast, s.OpponentLife, s.Seed, s.shuffles)
	fmt.Fprintf(&buf, "LEDGER:%s\n", s.Ledger.String())
	for i, z := range s.Zones() {
		fmt.Fprintf(&buf, "ZONE:%s\n", zoneNames[i])
		for _, c := range *z {
			fmt.Fprintf(&buf, "  CARD:%s|%s|%t|%s\n", c.ID, c.Name(), c.Tapped, c.Counters.String())
		}
	}

	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}

// Short renders a one-line summary of the state.
func (s *State) Short() string {
	return fmt.Sprintf("%d) LID: %d  H: %d  Mana: %d/%d [%d]  OLife: %d '%s'",
		s.Turn,
		s.Library.Count(BasicLand),
		s.Hand.Len(),
		s.Ledger.Available(),
		s.Ledger.ColoredSources+s.Ledger.ColorlessSources,
		s.Hand.Count(OfType(CardTypeLand)),
		s.OpponentLife,
		strings.TrimSpace(s.LastLog()),
	)
}

func (s *State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Turn [%d] - Opponent Life: %d\n", s.Turn, s.OpponentLife)
	fmt.Fprintf(&b, " %d basic lands in library\n", s.Library.Count(BasicLand))
	fmt.Fprintf(&b, " Mana: %s (%d drops avail.)\n", s.Ledger.String(), s.LandDrops)
	fmt.Fprintf(&b, " Hand: %d cards [%s]\n", s.Hand.Len(), s.Hand)
	fmt.Fprintf(&b, " Battlefield: %d cards [%s]\n", s.Battlefield.Len(), s.Battlefield)
	fmt.Fprintf(&b, " Graveyard: %d cards [%s]\n", s.Graveyard.Len(), s.Graveyard)
	fmt.Fprintf(&b, " Library: %d cards\n", s.Library.Len())
	fmt.Fprintf(&b, " Exile: %d cards [%s]\n", s.Exile.Len(), s.Exile)
	return b.String()
}

// Path returns the chain of states from the root down to s.
func (s *State) Path() []*State {
	var path []*State
	for cur := s; cur != nil; cur = cur.Parent {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// DumpPath writes one short line per state from the root down to s.
func (s *State) DumpPath(w io.Writer) {
	for _, st := range s.Path() {
		fmt.Fprintf(w, "%s%s  <%s>\n", strings.Repeat("  ", st.Depth), st.Short(), st.Action)
	}
}

// DumpTree writes the computed subtree rooted at s, depth first.
func (s *State) DumpTree(w io.Writer) {
	type item struct {
		st     *State
		indent int
	}
	stack := []item{{s, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", it.indent), it.st.Short())
		if it.st.IsLeaf() {
			continue
		}
		for i := len(it.st.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.st.Children[i], it.indent + 1})
		}
	}
}

// DumpLog writes the transcript, one line per entry.
func (s *State) DumpLog(w io.Writer) {
	for _, line := range s.Log {
		fmt.Fprintln(w, line)
	}
}
