package domain

import "time"

// Sentiment labels as reported by the NLU sentiment trait.
const (
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
	SentimentPositive = "positive"
)

// Money is a monetary amount extracted from an utterance.
type Money struct {
	// Body is the raw text as spoken, e.g. "20 bucks".
	Body  string
	Value float64
}

// Moment is a point in time with the granularity the user expressed
// ("tomorrow" carries grain "day", "next week" grain "week").
type Moment struct {
	Grain string
	Value time.Time
}

// Interval is a time range with granularity.
type Interval struct {
	Grain string
	From  time.Time
	To    time.Time
}

// Facts is the per-turn working set derived from the NLU output.
// It is recomputed on every turn, immutable within the turn, and never
// persisted; only the rule engine may copy values from it into the
// durable Context.
type Facts struct {
	Greetings bool
	Bye       bool
	Thanks    bool

	// Sentiment is negative, neutral, or positive (default neutral).
	Sentiment string

	// Intent is the top-ranked recognized intent name, "" when none.
	Intent string

	Item     string
	Money    *Money
	Moment   *Moment
	Interval *Interval
}
