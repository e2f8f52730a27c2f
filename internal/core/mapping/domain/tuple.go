package domain

// TrackingStatus tells whether a materialized value participates in
// identity deduplication.
type TrackingStatus int

const (
	// Untracked applies to scalar column values.
	Untracked TrackingStatus = iota
	// Tracked values are identity-bearing records stored in the session's
	// identity scope.
	Tracked
	// Detached values are disposable projections never stored in the scope.
	Detached
)

// String returns the status name.
func (s TrackingStatus) String() string {
	switch s {
	case Tracked:
		return "tracked"
	case Detached:
		return "detached"
	default:
		return "untracked"
	}
}

// Element is one value of a result tuple.
type Element struct {
	Value  any
	Kind   SpecKind
	Status TrackingStatus
}

// ResultTuple holds the values produced from one row, in the order of the
// definition's result specs.
type ResultTuple struct {
	elements []Element
}

// NewResultTuple builds a tuple from its elements.
func NewResultTuple(elements ...Element) ResultTuple {
	return ResultTuple{elements: elements}
}

// Len returns the tuple arity.
func (t ResultTuple) Len() int {
	return len(t.elements)
}

// At returns the i-th element.
func (t ResultTuple) At(i int) Element {
	return t.elements[i]
}

// Elements returns a copy of all elements.
func (t ResultTuple) Elements() []Element {
	return append([]Element(nil), t.elements...)
}

// Values returns the element values in order.
func (t ResultTuple) Values() []any {
	out := make([]any, len(t.elements))
	for i, e := range t.elements {
		out[i] = e.Value
	}
	return out
}

// Value returns the single value of a one-element tuple, or all values as
// a []any otherwise.
func (t ResultTuple) Value() any {
	if len(t.elements) == 1 {
		return t.elements[0].Value
	}
	return t.Values()
}
