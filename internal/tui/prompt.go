package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/sant0-9/gptkit/internal/apperr"
)

// Prompter reads one line of user input.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

// NewPrompter reads from stdin and draws on stderr so stdout stays clean
// for results.
func NewPrompter() *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stderr}
}

// Ask shows title and returns the trimmed answer. A terminal gets an
// interactive text input; anything else is read as a single line.
func (p *Prompter) Ask(title, placeholder string) (string, error) {
	if f, ok := p.In.(*os.File); ok && isTerminal(f) {
		return p.askInteractive(f, title, placeholder)
	}
	return readLine(p.In)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Prompter) askInteractive(in *os.File, title, placeholder string) (string, error) {
	m := newPromptModel(lipgloss.NewRenderer(p.Out), title, placeholder)
	final, err := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(p.Out)).Run()
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}

	result := final.(promptModel)
	if result.cancelled {
		return "", apperr.ErrCancelled
	}
	return result.value, nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("no input given: %w", apperr.ErrMissingInput)
	}
	return line, nil
}

type promptModel struct {
	title     string
	input     textinput.Model
	value     string
	cancelled bool
	done      bool
	st        styles
}

func newPromptModel(r *lipgloss.Renderer, title, placeholder string) promptModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 2000
	ti.Width = 72
	ti.Focus()

	return promptModel{
		title: title,
		input: ti,
		st:    newStyles(r),
	}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Cancel):
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, keys.Submit):
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				return m, nil
			}
			m.value = value
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.st.title.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.st.muted.Render(fmt.Sprintf("[%s] %s  [%s] %s",
		keys.Submit.Help().Key, keys.Submit.Help().Desc,
		keys.Cancel.Help().Key, keys.Cancel.Help().Desc)))
	b.WriteString("\n")
	return b.String()
}
