package email

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/quiz"
	"github.com/abhisek/maturity/internal/report"
	"github.com/abhisek/maturity/internal/screen"
	"github.com/abhisek/maturity/internal/session"
)

type fakeReports struct {
	err     error
	path    string
	bundles []report.Bundle
}

func (f *fakeReports) Generate(_ context.Context, b report.Bundle) (*report.Document, string, error) {
	f.bundles = append(f.bundles, b)
	if f.err != nil {
		return nil, "", f.err
	}
	return &report.Document{}, f.path, nil
}

func completedStore(t *testing.T) *session.Store {
	t.Helper()
	bank := questions.Canonical()
	st := session.New(context.Background(), quiz.NewMachine(bank), nil)
	require.NoError(t, st.Dispatch(quiz.Start{}))
	for i := 0; i < bank.Len(); i++ {
		require.NoError(t, st.Dispatch(quiz.Answer{QuestionID: i, Option: 2}))
	}
	require.True(t, st.State().IsComplete())
	return st
}

func typeText(s *EmailScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func enter(s *EmailScreen) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func tab(s *EmailScreen) {
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
}

func TestEmailScreen_SubmitGeneratesReportThenRecords(t *testing.T) {
	st := completedStore(t)
	reports := &fakeReports{path: "/tmp/report.pdf"}
	s := New(st, reports, "sess-1")
	s.Init()

	typeText(s, "ann@example.com")
	tab(s)
	typeText(s, "Ann")
	cmd := enter(s)
	require.NotNil(t, cmd)
	assert.True(t, s.busy)
	assert.False(t, st.State().EmailHandled, "email is recorded only after the PDF exists")

	_, next := s.Update(cmd())
	require.Len(t, reports.bundles, 1)
	b := reports.bundles[0]
	assert.Equal(t, "sess-1", b.SessionID)
	assert.Equal(t, "ann@example.com", b.Email)
	require.NotNil(t, b.User)
	assert.Equal(t, "Ann", b.User.Name)

	state := st.State()
	assert.True(t, state.EmailHandled)
	assert.Equal(t, "ann@example.com", state.Email)
	assert.Equal(t, quiz.PageResults, quiz.PageFor(state))

	require.NotNil(t, next)
	notice, ok := next().(screen.NoticeMsg)
	require.True(t, ok)
	assert.Contains(t, notice.Text, "/tmp/report.pdf")
}

func TestEmailScreen_InvalidEmailStaysPut(t *testing.T) {
	st := completedStore(t)
	reports := &fakeReports{}
	s := New(st, reports, "")
	s.Init()

	typeText(s, "not-an-email")
	enter(s)

	assert.NotEmpty(t, s.inputs[fieldEmail].Err())
	assert.Empty(t, reports.bundles)
	assert.False(t, st.State().EmailHandled)
}

func TestEmailScreen_ReportFailureAllowsRetryOrSkip(t *testing.T) {
	st := completedStore(t)
	reports := &fakeReports{err: report.ErrPDFDependencyMissing}
	s := New(st, reports, "")
	s.Init()

	typeText(s, "ann@example.com")
	cmd := enter(s)
	s.Update(cmd())

	assert.False(t, s.busy)
	assert.Contains(t, s.err, "Chrome")
	assert.Equal(t, quiz.PageEmail, quiz.PageFor(st.State()))

	// Retry succeeds.
	reports.err = nil
	cmd = enter(s)
	require.NotNil(t, cmd)
	s.Update(cmd())
	assert.True(t, st.State().EmailHandled)
	assert.Len(t, reports.bundles, 2)
}

func TestEmailScreen_GenericFailureMessage(t *testing.T) {
	assert.Contains(t, reportError(errors.New("boom")), "boom")
	assert.Contains(t, reportError(context.DeadlineExceeded), "timed out")
}

func TestEmailScreen_CtrlSSkips(t *testing.T) {
	st := completedStore(t)
	s := New(st, &fakeReports{}, "")
	s.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})

	state := st.State()
	assert.True(t, state.EmailHandled)
	assert.Empty(t, state.Email)
	assert.Nil(t, state.User)
}

func TestEmailScreen_SkipButton(t *testing.T) {
	st := completedStore(t)
	s := New(st, &fakeReports{}, "")
	s.Init()
	for s.focus != buttonSkip {
		tab(s)
	}
	enter(s)
	assert.True(t, st.State().EmailHandled)
}

func TestEmailScreen_NoReportsRecordsDirectly(t *testing.T) {
	st := completedStore(t)
	s := New(st, nil, "")
	s.Init()

	typeText(s, "bob@example.org")
	cmd := enter(s)

	assert.Nil(t, cmd)
	assert.Equal(t, "bob@example.org", st.State().Email)
}

func TestEmailScreen_IgnoresKeysWhileBusy(t *testing.T) {
	st := completedStore(t)
	s := New(st, &fakeReports{}, "")
	s.Init()
	typeText(s, "ann@example.com")
	enter(s)

	s.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	assert.False(t, st.State().EmailHandled)
	assert.Len(t, s.KeyHints(), 1)
}

func TestEmailScreen_FocusWraps(t *testing.T) {
	s := New(completedStore(t), nil, "")
	s.Init()
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.Equal(t, buttonSkip, s.focus)
	tab(s)
	assert.Equal(t, fieldEmail, s.focus)
}
