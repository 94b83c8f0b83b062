package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathbuddy/internal/llm"
	"github.com/abhisek/mathbuddy/internal/sse"
)

func testTurn(message string) Turn {
	return Turn{
		UserMessage: message,
		Problem: Problem{
			Question:   "A class surveyed some students. 35 said yes and 7 said no. How many students were surveyed?",
			Answer:     "42",
			Hints:      []string{"Which operation combines two groups?", "Try adding the tens first."},
			Strategies: []string{"Break numbers into tens and ones"},
		},
		Grade:   3,
		Targets: []string{"two-digit addition"},
	}
}

func collect(t *testing.T, e *Engine, turn Turn) ([]sse.Event, error) {
	t.Helper()
	var events []sse.Event
	err := e.Respond(context.Background(), turn, func(ev sse.Event) error {
		events = append(events, ev)
		return nil
	})
	return events, err
}

func TestRespond_StreamsThenVerdict(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("Great ", "thinking!"))
	e := NewEngine(mock)

	events, err := collect(t, e, testTurn("I think it's 42!"))
	require.NoError(t, err)
	require.Equal(t, []sse.Event{
		sse.Content("Great "),
		sse.Content("thinking!"),
		sse.Done(true),
	}, events)
}

func TestRespond_IncorrectAnswer(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("Close, count again."))
	e := NewEngine(mock)

	events, err := collect(t, e, testTurn("is it 41?"))
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, sse.Done(false), events[len(events)-1])
}

func TestRespond_KnownFalsePositiveKept(t *testing.T) {
	turn := testTurn("42 students were surveyed but I got 7")
	turn.Problem.Answer = "7"

	events, err := collect(t, NewEngine(llm.NewMockProvider(llm.MockText("Hmm."))), turn)
	require.NoError(t, err)
	assert.Equal(t, sse.Done(true), events[len(events)-1])
}

func TestRespond_InvalidInputSkipsProvider(t *testing.T) {
	tests := []struct {
		name string
		turn Turn
	}{
		{"empty message", Turn{Problem: Problem{Question: "1+1", Answer: "2"}}},
		{"missing problem", Turn{UserMessage: "help"}},
		{"missing answer", Turn{UserMessage: "help", Problem: Problem{Question: "1+1"}}},
		{"bad role", Turn{UserMessage: "help", Problem: Problem{Question: "1+1", Answer: "2"}, History: []Entry{{Role: "system", Content: "x"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockText("unused"))
			events, err := collect(t, NewEngine(mock), tt.turn)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, events)
			assert.Equal(t, 0, mock.CallCount())
		})
	}
}

func TestRespond_UpstreamFailureBeforeStream(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}})

	events, err := collect(t, NewEngine(mock), testTurn("42"))
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
	var rl *llm.ErrRateLimit
	assert.ErrorAs(t, err, &rl)
	assert.Empty(t, events)
	assert.Equal(t, 1, mock.CallCount(), "streams are not retried")
}

func TestRespond_UpstreamFailureMidStream(t *testing.T) {
	first := llm.MockText("Let's ")
	mock := llm.NewMockProvider(llm.MockResponse{
		Chunks:  first.Chunks[:1],
		ReadErr: errors.New("connection reset"),
	})

	events, err := collect(t, NewEngine(mock), testTurn("42"))
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, []sse.Event{sse.Content("Let's ")}, events)
}

func TestRespond_EndWithoutSentinel(t *testing.T) {
	first := llm.MockText("Almost")
	mock := llm.NewMockProvider(llm.MockResponse{Chunks: first.Chunks[:1]})

	events, err := collect(t, NewEngine(mock), testTurn("42"))
	require.NoError(t, err)
	assert.Equal(t, []sse.Event{sse.Content("Almost"), sse.Done(false)}, events)
}

func TestRespond_EmitFailureReturned(t *testing.T) {
	boom := errors.New("client gone")
	e := NewEngine(llm.NewMockProvider(llm.MockText("a", "b")))

	calls := 0
	err := e.Respond(context.Background(), testTurn("42"), func(sse.Event) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, 1, calls)
}

func TestRespond_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEngine(llm.NewMockProvider(llm.MockText("a")))
	var events []sse.Event
	err := e.Respond(ctx, testTurn("42"), func(ev sse.Event) error {
		events = append(events, ev)
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, events)
}

func TestRespond_MalformedFramesCounted(t *testing.T) {
	good := llm.MockText("ok")
	mock := llm.NewMockProvider(llm.MockResponse{
		Chunks: append([]string{"data: {not json\n\n"}, good.Chunks...),
	})
	dropped := 0
	e := NewEngine(mock, WithMalformedCounter(func() { dropped++ }))

	events, err := collect(t, e, testTurn("no idea"))
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []sse.Event{sse.Content("ok"), sse.Done(false)}, events)
}

func TestRespond_BuildsRequest(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("ok"))
	e := NewEngine(mock, WithConfig(Config{MaxTokens: 123, Temperature: 0.2}))

	turn := testTurn("is it 42?")
	for i := 0; i < 8; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		turn.History = append(turn.History, Entry{Role: role, Content: "msg"})
	}

	_, err := collect(t, e, turn)
	require.NoError(t, err)
	require.Equal(t, 1, mock.CallCount())

	req := mock.Calls[0]
	assert.Equal(t, 123, req.MaxTokens)
	assert.InDelta(t, 0.2, req.Temperature, 1e-9)
	require.Len(t, req.Messages, 9)
	assert.Equal(t, llm.RoleAssistant, req.Messages[1].Role)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "is it 42?"}, req.Messages[8])
	assert.Contains(t, req.System, "Hints given so far: 2 of 2")
	assert.True(t, strings.Contains(req.System, "Never reveal the answer"))
}
