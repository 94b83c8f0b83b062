// Package chat is the terminal screen for a tutoring conversation.
package chat

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathbuddy/internal/sse"
	"github.com/abhisek/mathbuddy/internal/tutor"
	"github.com/abhisek/mathbuddy/internal/ui/components"
)

// Options carries the optional parts of a conversation.
type Options struct {
	Grade   int
	Targets []string
}

// Model holds one tutoring conversation about a single problem. Replies
// stream in as they arrive. A turn uses up a message only once the tutor
// has answered it; the conversation ends when the student reaches the
// answer or the quota runs out.
type Model struct {
	ctx     context.Context
	engine  *tutor.Engine
	problem tutor.Problem
	opts    Options
	quota   *tutor.Quota

	input   components.TextInput
	history []tutor.Entry

	pending   string
	reply     string
	streaming bool
	events    <-chan tea.Msg
	cancel    context.CancelFunc

	notice string
	solved bool
	ended  bool
	err    error
}

var _ tea.Model = (*Model)(nil)

// New returns a conversation about problem limited by quota.
func New(ctx context.Context, engine *tutor.Engine, problem tutor.Problem, quota *tutor.Quota, opts Options) *Model {
	return &Model{
		ctx:     ctx,
		engine:  engine,
		problem: problem,
		opts:    opts,
		quota:   quota,
		input:   components.NewTextInput("Ask the tutor or try an answer...", 280),
	}
}

// Err returns the error that ended the conversation, if any.
func (m *Model) Err() error {
	return m.err
}

// Solved reports whether the student reached the answer.
func (m *Model) Solved() bool {
	return m.solved
}

// History returns the completed exchanges.
func (m *Model) History() []tutor.Entry {
	return m.history
}

func (m *Model) Init() tea.Cmd {
	return m.input.Init()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case replyChunkMsg:
		m.reply += msg.Text
		return m, waitFor(m.events)

	case replyDoneMsg:
		return m.finishTurn(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if !m.streaming && !m.ended {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.stop()
		m.ended = true
		return m, tea.Quit
	case "enter":
		if m.streaming || m.ended {
			return m, nil
		}
		text := m.input.Value()
		if text == "" {
			return m, nil
		}
		if m.quota.Exhausted() {
			m.notice = "You've used all your messages for this problem."
			return m, nil
		}
		m.input.Reset()
		return m, m.send(text)
	}

	if m.streaming || m.ended {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send starts a turn. Engine events are relayed to the program through a
// channel that waitFor drains one message at a time.
func (m *Model) send(text string) tea.Cmd {
	ctx, cancel := context.WithCancel(m.ctx)
	ch := make(chan tea.Msg)

	m.pending = text
	m.reply = ""
	m.notice = ""
	m.streaming = true
	m.events = ch
	m.cancel = cancel

	turn := tutor.Turn{
		UserMessage: text,
		Problem:     m.problem,
		History:     append([]tutor.Entry(nil), m.history...),
		Grade:       m.opts.Grade,
		Targets:     m.opts.Targets,
	}
	go func() {
		defer close(ch)
		var correct bool
		err := m.engine.Respond(ctx, turn, func(ev sse.Event) error {
			switch ev.Kind {
			case sse.KindContent:
				select {
				case ch <- replyChunkMsg{Text: ev.Text}:
				case <-ctx.Done():
					return ctx.Err()
				}
			case sse.KindDone:
				correct = ev.IsCorrect
			}
			return nil
		})
		select {
		case ch <- replyDoneMsg{Correct: correct, Err: err}:
		case <-ctx.Done():
		}
	}()
	return waitFor(ch)
}

func waitFor(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) finishTurn(msg replyDoneMsg) (tea.Model, tea.Cmd) {
	m.stop()
	m.streaming = false

	if errors.Is(msg.Err, tutor.ErrUpstreamUnavailable) {
		// Nothing was spent; offer the message again.
		m.notice = "The tutor is unavailable right now. Try again in a moment."
		m.input.Model.SetValue(m.pending)
		m.input.Model.CursorEnd()
		m.pending, m.reply = "", ""
		return m, nil
	}
	if msg.Err != nil {
		m.err = msg.Err
		m.ended = true
		return m, tea.Quit
	}

	_ = m.quota.Use()
	m.history = append(m.history,
		tutor.Entry{Role: tutor.RoleUser, Content: m.pending},
		tutor.Entry{Role: tutor.RoleAssistant, Content: m.reply},
	)
	m.pending, m.reply = "", ""

	switch {
	case msg.Correct:
		m.solved = true
		m.ended = true
		return m, tea.Quit
	case m.quota.Exhausted():
		m.notice = "That was your last message. The answer was " + m.problem.Answer + "."
		m.ended = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}
