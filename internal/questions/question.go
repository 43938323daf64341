package questions

import (
	"errors"
	"fmt"
)

const (
	// OptionsPerQuestion is the fixed number of answer options.
	OptionsPerQuestion = 4

	MinWeight = 1
	MaxWeight = 4
)

// ErrNotFound is returned when a question id does not resolve.
var ErrNotFound = errors.New("question not found")

// Option is a single answer choice and the weight it scores.
type Option struct {
	Label  string `json:"label"`
	Weight int    `json:"weight"`
}

// Question is one item of the assessment.
type Question struct {
	ID       int      `json:"id"`
	Category Category `json:"category"`
	Text     string   `json:"text"`
	Options  []Option `json:"options"`
}

// Bank is an immutable, validated, ordered set of questions.
// Ids are dense: question i has ID i.
type Bank struct {
	version   string
	title     string
	questions []Question
	counts    map[Category]int
}

func newBank(version, title string, qs []Question) *Bank {
	b := &Bank{
		version:   version,
		title:     title,
		questions: qs,
		counts:    make(map[Category]int, len(AllCategories())),
	}
	for _, q := range qs {
		b.counts[q.Category]++
	}
	return b
}

// All returns the questions in id order. Callers must treat the
// result as read-only.
func (b *Bank) All() []Question {
	out := make([]Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// ByID returns the question with the given id.
func (b *Bank) ByID(id int) (Question, error) {
	if id < 0 || id >= len(b.questions) {
		return Question{}, fmt.Errorf("question %d: %w", id, ErrNotFound)
	}
	return b.questions[id], nil
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	return len(b.questions)
}

// CountIn returns how many questions belong to the category.
func (b *Bank) CountIn(c Category) int {
	return b.counts[c]
}

// Version returns the bank's semantic version, e.g. "v1.0.0".
func (b *Bank) Version() string {
	return b.version
}

// Title returns the assessment title.
func (b *Bank) Title() string {
	return b.title
}
