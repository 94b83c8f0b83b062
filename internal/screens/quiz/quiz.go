// Package quiz is the terminal screen for a diagnostic session.
package quiz

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathbuddy/internal/diagnostic"
	"github.com/abhisek/mathbuddy/internal/ui/components"
)

type phase int

const (
	phaseLoading phase = iota
	phaseQuestion
	phaseGrading
	phaseFeedback
	phaseDone
	phaseFailed
)

// Model walks one student through a diagnostic session: it asks every
// planned question, shows the verdict after each answer and ends on the
// level report. Esc stops early and scores what was answered.
type Model struct {
	ctx       context.Context
	engine    *diagnostic.Engine
	studentID string
	grade     int
	now       func() time.Time

	phase     phase
	sessionID string
	session   diagnostic.View
	question  *diagnostic.QuestionView
	asked     time.Time
	input     components.TextInput
	last      *diagnostic.AnswerResult
	result    *diagnostic.Result
	stopped   bool
	err       error
}

var _ tea.Model = (*Model)(nil)

// New returns a quiz for studentID at grade. Engine calls run with ctx.
func New(ctx context.Context, engine *diagnostic.Engine, studentID string, grade int) *Model {
	return &Model{
		ctx:       ctx,
		engine:    engine,
		studentID: studentID,
		grade:     grade,
		now:       time.Now,
		input:     components.NewTextInput("Type your answer...", 32),
	}
}

// Err returns the error that ended the quiz, if any.
func (m *Model) Err() error {
	return m.err
}

// Result returns the scored session once the quiz is done.
func (m *Model) Result() *diagnostic.Result {
	return m.result
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.start(), m.input.Init())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		if msg.Err != nil {
			return m.fail(msg.Err)
		}
		m.sessionID = msg.Start.Session.SessionID
		m.session = msg.Start.Session
		if msg.Start.Question == nil {
			m.phase = phaseLoading
			return m, m.complete()
		}
		m.ask(msg.Start.Question)
		return m, nil

	case answeredMsg:
		if msg.Err != nil {
			return m.fail(msg.Err)
		}
		m.last = msg.Result
		m.input.Grade(msg.Result.IsCorrect)
		m.phase = phaseFeedback
		return m, nil

	case completedMsg:
		if msg.Err != nil {
			return m.fail(msg.Err)
		}
		m.result = msg.Result
		m.phase = phaseDone
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.phase == phaseQuestion {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.phase {
	case phaseQuestion:
		switch msg.String() {
		case "enter":
			answer := m.input.Value()
			if answer == "" {
				return m, nil
			}
			m.phase = phaseGrading
			return m, m.submit(answer)
		case "esc":
			m.stopped = true
			m.phase = phaseLoading
			return m, m.complete()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case phaseFeedback:
		if m.last.Next == nil {
			m.phase = phaseLoading
			return m, m.complete()
		}
		m.ask(m.last.Next)
		return m, nil

	case phaseDone, phaseFailed:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) ask(q *diagnostic.QuestionView) {
	m.question = q
	m.asked = m.now()
	m.input.Reset()
	m.phase = phaseQuestion
}

func (m *Model) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.phase = phaseFailed
	return m, tea.Quit
}

func (m *Model) start() tea.Cmd {
	return func() tea.Msg {
		start, err := m.engine.Start(m.ctx, m.studentID, m.grade)
		return startedMsg{Start: start, Err: err}
	}
}

func (m *Model) submit(answer string) tea.Cmd {
	sub := diagnostic.Submission{
		SessionID:      m.sessionID,
		QuestionID:     m.question.ID,
		Answer:         answer,
		ElapsedSeconds: m.now().Sub(m.asked).Seconds(),
	}
	return func() tea.Msg {
		res, err := m.engine.SubmitAnswer(m.ctx, sub)
		return answeredMsg{Result: res, Err: err}
	}
}

func (m *Model) complete() tea.Cmd {
	id := m.sessionID
	return func() tea.Msg {
		res, err := m.engine.Complete(m.ctx, id)
		return completedMsg{Result: res, Err: err}
	}
}
