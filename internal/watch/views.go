package watch

import "github.com/magefree/mage-goldfish/internal/optimizer"

// Message is the envelope of everything sent to clients.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Delta is the JSON view of optimizer.Delta.
type Delta struct {
	Card  string  `json:"card"`
	Mean  float64 `json:"mean"`
	Delta float64 `json:"delta"`
}

// Epoch is the JSON view of optimizer.EpochReport.
type Epoch struct {
	Epoch      int     `json:"epoch"`
	Decklist   string  `json:"decklist"`
	Baseline   float64 `json:"baseline"`
	Adds       []Delta `json:"adds"`
	Removes    []Delta `json:"removes"`
	BestAdd    string  `json:"best_add,omitempty"`
	BestRemove string  `json:"best_remove,omitempty"`
	BestMean   float64 `json:"best_mean"`
	Applied    bool    `json:"applied"`
	Errors     int     `json:"errors"`
	DurationMS int64   `json:"duration_ms"`
}

// Entry is the JSON view of optimizer.Entry.
type Entry struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Min      int    `json:"min"`
	Max      int    `json:"max"`
}

// Status is the JSON view of optimizer.Snapshot.
type Status struct {
	State   string  `json:"state"`
	Epoch   int     `json:"epoch"`
	Epochs  int     `json:"epochs"`
	Cards   int     `json:"cards"`
	Range   []Entry `json:"range"`
	Reports []Epoch `json:"reports"`
}

func epochView(r optimizer.EpochReport) Epoch {
	return Epoch{
		Epoch:      r.Epoch,
		Decklist:   r.Decklist,
		Baseline:   r.Baseline,
		Adds:       deltaViews(r.Adds),
		Removes:    deltaViews(r.Removes),
		BestAdd:    r.BestAdd,
		BestRemove: r.BestRemove,
		BestMean:   r.BestMean,
		Applied:    r.Applied,
		Errors:     r.Errors,
		DurationMS: r.Duration.Milliseconds(),
	}
}

func deltaViews(ds []optimizer.Delta) []Delta {
	out := make([]Delta, len(ds))
	for i, d := range ds {
		out[i] = Delta{Card: d.Card, Mean: d.Mean, Delta: d.Delta}
	}
	return out
}

func statusView(s optimizer.Snapshot) Status {
	st := Status{
		State:   s.State.String(),
		Epoch:   s.Epoch,
		Epochs:  s.Epochs,
		Cards:   s.Range.Size(),
		Range:   make([]Entry, len(s.Range)),
		Reports: make([]Epoch, len(s.Reports)),
	}
	for i, e := range s.Range {
		st.Range[i] = Entry{Name: e.Name, Quantity: e.Quantity, Min: e.Min, Max: e.Max}
	}
	for i, r := range s.Reports {
		st.Reports[i] = epochView(r)
	}
	return st
}
