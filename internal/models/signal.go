package models

import "time"

type Direction string

const (
	DirectionUp       Direction = "UP"
	DirectionDown     Direction = "DOWN"
	DirectionSideways Direction = "SIDEWAYS"
)

// Vote is a single indicator's contribution to the aggregated verdict.
type Vote string

const (
	VoteUp      Vote = "UP"
	VoteDown    Vote = "DOWN"
	VoteNeutral Vote = "NEUTRAL"
)

// Signal is one aggregation result for a (symbol, timeframe) key.
// Produced fresh on every analysis run, never mutated afterwards.
type Signal struct {
	Symbol    string
	Timeframe string
	Direction Direction

	// Confidence is an integer percentage in [0,100]:
	// |up-down| / (up+down) * 100, rounded down. Zero when no indicator
	// voted off-neutral.
	Confidence int

	// Price is the close of the latest candle the signal was computed from.
	Price float64

	// Votes holds the per-indicator verdicts. Indicators whose series was
	// still warming up are absent entirely, not recorded as NEUTRAL.
	Votes map[string]Vote

	GeneratedAt time.Time
}
