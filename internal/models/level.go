package models

import "fmt"

// Level is a CEFR proficiency level offered by the school
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
)

// DefaultLevel is used for registrations without an assessed level
const DefaultLevel = LevelA1

// Levels returns all levels from lowest to highest
func Levels() []Level {
	return []Level{LevelA1, LevelA2, LevelB1, LevelB2}
}

// Valid reports whether l is a known level tag
func (l Level) Valid() bool {
	switch l {
	case LevelA1, LevelA2, LevelB1, LevelB2:
		return true
	}
	return false
}

// ParseLevel converts a raw tag into a Level
func ParseLevel(raw string) (Level, error) {
	l := Level(raw)
	if !l.Valid() {
		return "", fmt.Errorf("unknown level: %q", raw)
	}
	return l, nil
}

// AssessmentResult is the outcome of one placement evaluation
type AssessmentResult struct {
	Level      Level   `json:"estimatedLevel"`
	Feedback   string  `json:"feedback"`
	Confidence float64 `json:"confidence"`
}

// Unverified reports whether the result was not backed by a real evaluation
func (r AssessmentResult) Unverified() bool {
	return r.Confidence == 0
}
