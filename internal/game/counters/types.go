package counters

// CounterType names a kind of counter.
type CounterType string

const (
	// CounterTypeTime counts down a suspended card.
	CounterTypeTime CounterType = "time"
	// CounterTypeLandfall counts landfall triggers resolved on a permanent.
	CounterTypeLandfall CounterType = "landfall"
)

// String returns the string representation of the counter type.
func (ct CounterType) String() string {
	return string(ct)
}

// CreateInstance creates a counter instance of this type with the given amount.
func (ct CounterType) CreateInstance(amount int) Counter {
	return NewCounter(string(ct), amount)
}
