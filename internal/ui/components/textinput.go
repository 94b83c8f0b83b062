package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathbuddy/internal/ui/theme"
)

// TextInput is a single-line prompt that shows a verdict mark once the
// entry has been graded.
type TextInput struct {
	Model    textinput.Model
	graded   bool
	accepted bool
}

// NewTextInput returns a focused input. limit caps the number of runes;
// zero means no cap.
func NewTextInput(placeholder string, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.Focus()
	if limit > 0 {
		ti.CharLimit = limit
	}
	return TextInput{Model: ti}
}

// Init returns the cursor command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update forwards msg to the input. A graded entry ignores keys until it
// is reset.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok && t.graded {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input and, once graded, the verdict mark.
func (t TextInput) View() string {
	view := t.Model.View()
	if !t.graded {
		return view
	}
	if t.accepted {
		return view + " " + theme.Correct.Render("✓")
	}
	return view + " " + theme.Incorrect.Render("✗")
}

// Value returns the trimmed entry.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Grade marks the entry as accepted or rejected.
func (t *TextInput) Grade(accepted bool) {
	t.graded = true
	t.accepted = accepted
}

// Reset clears the entry and its verdict.
func (t *TextInput) Reset() {
	t.Model.Reset()
	t.graded = false
	t.accepted = false
}
