package model

import "time"

// PatternKind names a detected crossover.
type PatternKind string

const (
	GoldenCross PatternKind = "Golden Cross"
	DeadCross   PatternKind = "Dead Cross"
)

// Pattern is one detected crossover event.
type Pattern struct {
	Date        time.Time
	Kind        PatternKind
	Price       float64
	Description string
}
