package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathbuddy/internal/llm"
	"github.com/abhisek/mathbuddy/internal/tutor"
)

func testProblem() tutor.Problem {
	return tutor.Problem{Question: "What is 7 tens?", Answer: "70", Hints: []string{"Count by tens."}}
}

func newTestChat(mock *llm.MockProvider, limit int, opts Options) *Model {
	return New(context.Background(), tutor.NewEngine(mock), testProblem(), tutor.NewQuota(limit), opts)
}

// say types text, presses Enter and runs the turn to its end. It reports
// whether the model asked to quit.
func say(t *testing.T, m *Model, text string) bool {
	t.Helper()
	for _, r := range text {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("no turn started for %q", text)
	}
	for cmd != nil {
		msg := cmd()
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
		if msg == nil {
			return false
		}
		_, cmd = m.Update(msg)
	}
	return false
}

func TestChat_StreamsReplyIntoHistory(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("Try counting ", "by tens."))
	m := newTestChat(mock, 5, Options{})

	if quit := say(t, m, "is it 5?"); quit {
		t.Fatal("conversation ended after a wrong guess")
	}
	h := m.History()
	if len(h) != 2 {
		t.Fatalf("history = %+v", h)
	}
	if h[0].Content != "is it 5?" || h[1].Content != "Try counting by tens." {
		t.Errorf("history = %+v", h)
	}
	if m.quota.Remaining() != 4 {
		t.Errorf("remaining = %d, want 4", m.quota.Remaining())
	}
	if view := m.render(); !strings.Contains(view, "Try counting by tens.") || !strings.Contains(view, "4 messages left") {
		t.Errorf("view:\n%s", view)
	}
}

func TestChat_StopsWhenCorrect(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("Not yet."), llm.MockText("Yes!"))
	m := newTestChat(mock, 5, Options{Grade: 2, Targets: []string{"place value"}})

	say(t, m, "is it 7?")
	if quit := say(t, m, "70"); !quit {
		t.Fatal("expected quit once the answer is reached")
	}
	if !m.Solved() {
		t.Error("Solved = false")
	}
	if !strings.Contains(m.render(), "You got it!") {
		t.Error("view does not celebrate")
	}

	if mock.CallCount() != 2 {
		t.Fatalf("calls = %d, want 2", mock.CallCount())
	}
	second := mock.Calls[1]
	if len(second.Messages) != 3 {
		t.Fatalf("second turn carries %d messages, want 3", len(second.Messages))
	}
	if second.Messages[1].Content != "Not yet." || second.Messages[2].Content != "70" {
		t.Errorf("second turn messages = %+v", second.Messages)
	}
	if !strings.Contains(second.System, "place value") {
		t.Error("targets missing from the system prompt")
	}
}

func TestChat_QuotaExhausted(t *testing.T) {
	mock := llm.NewMockProvider().WithDefault(llm.MockText("Keep going."))
	m := newTestChat(mock, 1, Options{})

	if quit := say(t, m, "1"); !quit {
		t.Fatal("expected quit after the last message")
	}
	if !strings.Contains(m.render(), "That was your last message. The answer was 70.") {
		t.Errorf("view:\n%s", m.render())
	}
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("ended conversation started another turn")
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestChat_UpstreamFailureKeepsQuota(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
		llm.MockText("Nice work."),
	)
	m := newTestChat(mock, 2, Options{})

	if quit := say(t, m, "hello"); quit {
		t.Fatal("upstream failure ended the conversation")
	}
	if m.quota.Remaining() != 2 {
		t.Errorf("remaining = %d, want 2", m.quota.Remaining())
	}
	if len(m.History()) != 0 {
		t.Errorf("failed turn entered history: %+v", m.History())
	}
	if m.input.Value() != "hello" {
		t.Errorf("input = %q, want the unsent message back", m.input.Value())
	}
	if !strings.Contains(m.render(), "unavailable") {
		t.Error("no notice for the failed turn")
	}

	// The message is still in the input; send it again.
	if quit := say(t, m, ""); quit {
		t.Fatal("unexpected quit")
	}
	if m.quota.Remaining() != 1 || len(m.History()) != 2 {
		t.Errorf("remaining = %d, history = %+v", m.quota.Remaining(), m.History())
	}
}

func TestChat_EmptyMessageIgnored(t *testing.T) {
	m := newTestChat(llm.NewMockProvider(), 5, Options{})
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("empty message started a turn")
	}
}

func TestChat_EscCancelsInFlightTurn(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("a", "b", "c"))
	m := newTestChat(mock, 5, Options{})

	for _, r := range "hi" {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if msg, ok := cmd().(replyChunkMsg); !ok || msg.Text != "a" {
		t.Fatalf("first message = %#v", msg)
	}
	if !m.streaming {
		t.Fatal("expected a turn in flight")
	}

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("esc did not quit")
	}
	if m.quota.Remaining() != 5 {
		t.Errorf("cancelled turn used quota: remaining = %d", m.quota.Remaining())
	}
}
