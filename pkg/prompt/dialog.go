package prompt

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Model ---

// Dialog is a single-key confirmation dialog. Pressing y confirms,
// any other key cancels.
type Dialog struct {
	Prompt    string
	confirmed bool
	done      bool
	keys      keyMap
}

// NewDialog creates a dialog asking prompt.
func NewDialog(prompt string) Dialog {
	return Dialog{
		Prompt: prompt,
		keys:   defaultKeyMap,
	}
}

// Confirmed reports whether the user answered yes.
func (d Dialog) Confirmed() bool { return d.confirmed }

// Done reports whether the user has answered.
func (d Dialog) Done() bool { return d.done }

func (d Dialog) Init() tea.Cmd { return nil }

// --- Update ---

func (d Dialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if d.done {
		return d, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		d.confirmed = key.Matches(msg, d.keys.Confirm)
		d.done = true
		return d, tea.Quit
	}

	return d, nil
}

// --- View ---

var dialogStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("208")).
	Padding(1, 2)

func (d Dialog) View() string {
	if d.done {
		return ""
	}

	dialogBox := dialogStyle.Render(d.Prompt)

	helpText := lipgloss.NewStyle().
		Faint(true).
		Width(lipgloss.Width(dialogBox)).
		Align(lipgloss.Center).
		Render(d.keys.Confirm.Help().Key + "/N")

	return lipgloss.JoinVertical(lipgloss.Left, dialogBox, helpText)
}

// --- KeyMap ---

type keyMap struct {
	Confirm key.Binding
}

var defaultKeyMap = keyMap{
	Confirm: key.NewBinding(
		key.WithKeys(Affirmative),
		key.WithHelp(Affirmative, "confirm"),
	),
}

// TeaConfirmer shows a Dialog for every prompt.
type TeaConfirmer struct {
	in  io.Reader
	out io.Writer
}

// NewTeaConfirmer returns a confirmer running the dialog on in and out.
func NewTeaConfirmer(in io.Reader, out io.Writer) *TeaConfirmer {
	return &TeaConfirmer{in: in, out: out}
}

// Confirm runs the dialog until a key is pressed.
func (c *TeaConfirmer) Confirm(prompt string) (bool, error) {
	p := tea.NewProgram(NewDialog(prompt), tea.WithInput(c.in), tea.WithOutput(c.out))

	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("run confirm dialog: %w", err)
	}

	d, ok := final.(Dialog)
	return ok && d.Confirmed(), nil
}
