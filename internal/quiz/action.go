package quiz

import "fmt"

// Action is a user intent applied through Reduce. The set is closed.
type Action interface {
	fmt.Stringer
	action()
}

// Start begins the quiz from the landing page.
type Start struct{}

// Answer records the selected option for a question.
type Answer struct {
	QuestionID int
	Option     int
}

// Next moves to the following question.
type Next struct{}

// Previous moves to the preceding question.
type Previous struct{}

// SubmitEmail records identity after completion.
type SubmitEmail struct {
	Email string
	User  UserData
}

// SkipEmail leaves identity empty and proceeds to results.
type SkipEmail struct{}

// Reset discards the session and returns to the landing page.
type Reset struct{}

func (Start) action()       {}
func (Answer) action()      {}
func (Next) action()        {}
func (Previous) action()    {}
func (SubmitEmail) action() {}
func (SkipEmail) action()   {}
func (Reset) action()       {}

func (Start) String() string { return "start" }

func (a Answer) String() string {
	return fmt.Sprintf("answer(q=%d, option=%d)", a.QuestionID, a.Option)
}

func (Next) String() string        { return "next" }
func (Previous) String() string    { return "previous" }
func (SubmitEmail) String() string { return "submit_email" }
func (SkipEmail) String() string   { return "skip_email" }
func (Reset) String() string       { return "reset" }
