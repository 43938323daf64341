// Package effects runs the side effects of quiz transitions: analytics
// events and CRM hand-off. It observes a session store and never changes
// quiz state.
package effects

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/abhisek/maturity/internal/analytics"
	"github.com/abhisek/maturity/internal/crm"
	"github.com/abhisek/maturity/internal/persona"
	"github.com/abhisek/maturity/internal/quiz"
	"github.com/abhisek/maturity/internal/session"
)

// DefaultCRMTimeout bounds each background CRM call.
const DefaultCRMTimeout = 15 * time.Second

// MailingList signs respondents up for follow-up email.
type MailingList interface {
	Subscribe(ctx context.Context, s crm.Subscriber) error
}

// LeadSink records respondents as sales leads.
type LeadSink interface {
	CreateLead(ctx context.Context, l crm.Lead) (string, error)
}

// Coordinator maps store transitions to collaborator calls. Any
// collaborator may be nil.
type Coordinator struct {
	tracker *analytics.Tracker
	list    MailingList
	leads   LeadSink
	timeout time.Duration
	wg      sync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithMailingList subscribes respondents who leave an email to l.
func WithMailingList(l MailingList) Option { return func(c *Coordinator) { c.list = l } }

// WithLeadSink creates a sales lead for each submitted email.
func WithLeadSink(l LeadSink) Option { return func(c *Coordinator) { c.leads = l } }

// WithCRMTimeout bounds each background CRM call.
func WithCRMTimeout(d time.Duration) Option { return func(c *Coordinator) { c.timeout = d } }

// New creates a Coordinator. A nil tracker disables analytics.
func New(tracker *analytics.Tracker, opts ...Option) *Coordinator {
	c := &Coordinator{tracker: tracker, timeout: DefaultCRMTimeout}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Attach subscribes c to s and returns the unsubscribe func. A restored
// session keeps measuring elapsed time from its original start.
func (c *Coordinator) Attach(s *session.Store) func() {
	if c.tracker != nil && s.Restored() {
		c.tracker.Resume(s.State().StartedAt)
	}
	return s.Subscribe(c.Observe)
}

// Observe handles one accepted transition.
func (c *Coordinator) Observe(prev, next quiz.State, action quiz.Action) {
	ctx := context.Background()

	if _, ok := action.(quiz.Reset); ok {
		if c.tracker != nil {
			c.tracker.Restart()
		}
		return
	}

	if c.tracker != nil {
		if prev.Phase == quiz.PhaseNotStarted && next.Phase == quiz.PhaseInProgress {
			c.tracker.TrackQuizStart(ctx)
		}
		if a, ok := action.(quiz.Answer); ok && len(next.Answers) > len(prev.Answers) {
			c.tracker.TrackQuestionAnswer(ctx, a.QuestionID, a.Option)
		}
		if !prev.IsComplete() && next.IsComplete() && next.Scores != nil {
			c.tracker.TrackQuizComplete(ctx, *next.Scores)
		}
	}

	if prev.EmailHandled || !next.EmailHandled {
		return
	}
	if next.Email == "" {
		if c.tracker != nil {
			c.tracker.TrackEmailSkip(ctx)
		}
		return
	}
	if c.tracker != nil {
		c.tracker.TrackEmailSubmit(ctx, next.Email)
	}
	c.handOff(next)
}

// handOff sends the respondent to the mailing list and the lead sink in
// the background. Failures are logged only.
func (c *Coordinator) handOff(s quiz.State) {
	var name, company string
	if s.User != nil {
		name, company = s.User.Name, s.User.Company
	}

	if c.list != nil {
		sub := crm.Subscriber{Email: s.Email, Name: name, Company: company}
		if s.Scores != nil {
			overall := s.Scores.Overall
			sub.Score = &overall
			sub.PersonaName = persona.Resolve(overall).Title
		}
		c.background("subscribe", func(ctx context.Context) error {
			return c.list.Subscribe(ctx, sub)
		})
	}

	if c.leads != nil && s.Scores != nil {
		lead := crm.Lead{Email: s.Email, Name: name, Company: company, Scores: *s.Scores}
		c.background("create lead", func(ctx context.Context) error {
			id, err := c.leads.CreateLead(ctx, lead)
			if err == nil {
				log.Printf("[crm] lead created: %s", id)
			}
			return err
		})
	}
}

func (c *Coordinator) background(what string, fn func(ctx context.Context) error) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		err := fn(ctx)
		switch {
		case err == nil:
		case errors.Is(err, crm.ErrNotConfigured):
			log.Printf("[crm] %s skipped: not configured", what)
		default:
			log.Printf("[crm] %s: %v", what, err)
		}
	}()
}

// Wait blocks until background CRM calls finish.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}
