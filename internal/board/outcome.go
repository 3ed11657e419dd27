package board

// OutcomeKind classifies how a game stands.
type OutcomeKind uint8

const (
	Ongoing OutcomeKind = iota
	Checkmate
	Stalemate
)

// Outcome is the result of a position. Winner is only meaningful for Checkmate.
type Outcome struct {
	Kind   OutcomeKind
	Winner Color
}

// IsOver reports whether the game has ended.
func (o Outcome) IsOver() bool {
	return o.Kind != Ongoing
}

// String describes the outcome.
func (o Outcome) String() string {
	switch o.Kind {
	case Checkmate:
		return "checkmate, " + o.Winner.String() + " wins"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// OutcomeDetector decides whether a position is terminal. The board package
// does not compute check status, so terminal detection is supplied by a layer
// that filters legality.
type OutcomeDetector interface {
	Detect(b *Board) Outcome
}

// OutcomeFunc adapts a function to OutcomeDetector.
type OutcomeFunc func(b *Board) Outcome

// Detect calls f(b).
func (f OutcomeFunc) Detect(b *Board) Outcome {
	return f(b)
}

// NoOutcome never reports a terminal position.
var NoOutcome OutcomeDetector = OutcomeFunc(func(*Board) Outcome {
	return Outcome{Kind: Ongoing, Winner: NoColor}
})

// Outcome asks d whether the position is terminal. A nil detector behaves
// like NoOutcome.
func (b *Board) Outcome(d OutcomeDetector) Outcome {
	if d == nil {
		d = NoOutcome
	}
	return d.Detect(b)
}
