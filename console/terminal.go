package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/cohort/log"
)

const (
	defaultWidth = 80
	charLimit    = 1024
)

// Terminal is an interactive [Input] and [Output]. Each call to ReadLine runs
// a line editor until the user submits a line or ends the input.
//
// Keys: Enter submits, Tab and Shift+Tab cycle completions, Up and Down walk
// the history, Ctrl+C clears the line, and Ctrl+C or Ctrl+D on an empty line
// ends the input.
type Terminal struct {
	*Writer

	in       io.Reader
	out      io.Writer
	history  *History
	complete Completer
	logger   log.Logger
	prompt   string
}

// TerminalOption configures a [Terminal].
type TerminalOption func(*Terminal)

// WithHistory attaches a history. Lines passed to Remember are added to it.
func WithHistory(h *History) TerminalOption {
	return func(t *Terminal) { t.history = h }
}

// WithCompleter sets the completion source.
func WithCompleter(c Completer) TerminalOption {
	return func(t *Terminal) { t.complete = c }
}

// WithLogger sets the logger receiving key events at trace level.
func WithLogger(l log.Logger) TerminalOption {
	return func(t *Terminal) { t.logger = l }
}

// NewTerminal returns a Terminal reading keys from in and drawing on out.
func NewTerminal(in io.Reader, out io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		Writer:  NewWriter(out),
		in:      in,
		out:     out,
		history: NewHistory(""),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}

	return t
}

// Prompt sets the prompt shown by the next ReadLine.
func (t *Terminal) Prompt(s string) { t.prompt = s }

// Remember adds line to the history.
func (t *Terminal) Remember(line string) error { return t.history.Add(line) }

// ReadLine edits and returns one line. It returns [io.EOF] when the user ends
// the input and the context's cause when ctx is done.
func (t *Terminal) ReadLine(ctx context.Context) (string, error) {
	prompt := t.prompt
	t.prompt = ""

	m := newModel(ctx, prompt, t)

	final, err := tea.NewProgram(
		m,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	).Run()
	if ctx.Err() != nil {
		return "", context.Cause(ctx)
	}

	if err != nil {
		return "", err
	}

	if fm, ok := final.(model); ok && !fm.eof {
		return fm.line, nil
	}

	return "", io.EOF
}

// Close releases nothing; the terminal is owned by the caller.
func (t *Terminal) Close() error { return nil }

type model struct {
	ctx        context.Context
	input      textinput.Model
	style      styles
	history    *History
	complete   Completer
	logger     log.Logger
	matches    fuzzy.Matches
	historyIdx int
	wordStart  int
	wordEnd    int
	suggIdx    int
	width      int
	tabActive  bool
	preTab     string
	preCursor  int
	line       string
	done       bool
	eof        bool
}

func newModel(ctx context.Context, prompt string, t *Terminal) model {
	ti := textinput.New()
	ti.Prompt = t.style.prompt.Render(prompt)
	ti.TextStyle = t.style.input
	ti.CharLimit = charLimit
	ti.Width = defaultWidth
	ti.Focus()

	return model{
		ctx:        ctx,
		input:      ti,
		style:      t.style,
		history:    t.history,
		complete:   t.complete,
		logger:     t.logger,
		historyIdx: t.history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(m.input.Prompt)-2, 1)

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	switch {
	case m.eof:
		return ""
	case m.done:
		return m.input.Prompt + m.style.input.Render(m.line) + "\n"
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		b.WriteString(m.style.hint.Render(fmt.Sprintf(
			"%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len(),
		)))

	case len(m.matches) > 0:
		b.WriteString(m.style.candidateBar(m.matches, m.suggIdx, m.width))
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "console key", slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.eof = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refresh(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.eof = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.refresh(true)

			return m, nil
		}

		m.line = m.input.Value()
		m.done = true

		return m, tea.Quit

	case tea.KeyTab:
		return m.cycle(+1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyPrev(), nil

	case tea.KeyDown:
		return m.historyNext(), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTab)
			m.input.SetCursor(m.preCursor)
			m.refresh(false)
		}

		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refresh(true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(false)

	return m, cmd
}

// cycle moves the selection by step through the current matches and puts the
// selected candidate in place of the current word. A sole candidate is
// accepted immediately.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTab = m.input.Value()
		m.preCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

func (m *model) replaceWord(s string) {
	in := m.input.Value()

	m.input.SetValue(in[:m.wordStart] + s + in[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(s))
	m.wordEnd = m.wordStart + len(s)
}

// refresh recomputes the matches for the word at the cursor. With confirm set,
// a word that already equals its sole candidate clears the completion bar.
func (m *model) refresh(confirm bool) {
	if m.tabActive {
		return
	}

	m.matches, m.wordStart, m.wordEnd = completions(
		m.complete,
		m.input.Value(),
		m.input.Position(),
	)
	m.suggIdx = -1

	if confirm && len(m.matches) == 1 &&
		m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
	}
}

func (m model) historyPrev() model {
	if m.historyIdx == 0 {
		return m
	}

	m.historyIdx--

	return m.recall()
}

func (m model) historyNext() model {
	if m.historyIdx >= m.history.Len()-1 {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refresh(false)

		return m
	}

	m.historyIdx++

	return m.recall()
}

func (m model) recall() model {
	if line, err := m.history.Entry(m.historyIdx); err == nil {
		m.tabActive = false
		m.input.SetValue(line)
		m.input.SetCursor(len(line))
		m.refresh(false)
	}

	return m
}
