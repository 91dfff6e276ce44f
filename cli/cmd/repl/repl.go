package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/lis/lang"
	"github.com/ardnew/lis/log"
)

// Messages delivered when an edit session started by the edit command ends.
type (
	editDoneMsg struct {
		text string
		prog lang.Program
	}
	editCancelledMsg struct{}
	editErrorMsg     struct{ err error }
)

// inputMode selects whether a submitted line is evaluated or interpreted as
// a control command. Esc toggles between them.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

func (m inputMode) prompt() string {
	if m == modeCtrl {
		return ctrlPromptStyle.Render(" :")
	}

	return promptStyle.Render("λ ")
}

// echo renders a submitted line the way it appeared at the prompt.
func (m inputMode) echo(line string) string {
	return m.prompt() + inputStyle.Render(line)
}

// control is a command accepted in control mode, by name or by the first
// letter of its name.
type control struct {
	name  string
	usage string
}

var controls = []control{
	{"help", "show this summary"},
	{"list", "show the definitions made in this session"},
	{"edit", "open a scratch buffer in $EDITOR and load its forms"},
	{"clear", "clear the screen"},
	{"quit", "leave the session (also: exit)"},
}

// lookupControl resolves word to the name of a control, or "" if there is
// none.
func lookupControl(word string) string {
	if word == "exit" {
		return "quit"
	}

	for _, c := range controls {
		if word == c.name || word == c.name[:1] {
			return c.name
		}
	}

	return ""
}

var keyUsage = []string{
	`Enter evaluates the line; "quit" alone ends the session`,
	"Completions for bound symbols are offered while typing",
	"Tab and Shift-Tab cycle candidates, Space or Enter accepts one",
	"Esc switches between evaluation and control mode",
	"Up and Down walk the whole history, changing mode to match",
	"Shift-Up and Shift-Down walk only the current mode's history",
	"Ctrl-C clears the line; on an empty line it exits, as does Ctrl-D",
}

func helpMessage() string {
	var b strings.Builder

	b.WriteString("\nControl commands:\n")

	for _, c := range controls {
		fmt.Fprintf(&b, "  %-6s %s\n", c.name, c.usage)
	}

	b.WriteString("\nKeys:\n")

	for _, line := range keyUsage {
		b.WriteString("  " + line + "\n")
	}

	return b.String()
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

var (
	promptStyle     = fg("6").Bold(true)
	ctrlPromptStyle = fg("5").Bold(true)
	inputStyle      = fg("15")
	resultStyle     = fg("2")
	errorStyle      = fg("1")
	hintStyle       = fg("8")
	suggestionStyle = fg("4")
	selectedStyle   = fg("0").Background(lipgloss.Color("4"))
)

// draft is the unsubmitted input of a mode that is not currently shown.
type draft struct {
	text   string
	cursor int
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	session      *lang.Interpreter
	logger       log.Logger
	history      *History
	historyIdx   int
	scratch      string        // last buffer loaded with the edit command
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	drafts       [2]draft // saved input per mode
}

// Run starts the full-screen REPL on the terminal, evaluating every input in
// session. History is persisted in cacheDir.
func Run(
	ctx context.Context,
	session *lang.Interpreter,
	cacheDir string,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if session == nil {
		return ErrNoSession
	}

	logger := session.Logger()

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("history", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, session, history), tea.WithContext(ctx))
	_, err = p.Run()

	if errors.Is(err, tea.ErrProgramKilled) && context.Cause(ctx) == nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *lang.Interpreter,
	history *History,
) model {
	ti := textinput.New()
	ti.Prompt = modeEval.prompt()
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    session,
		logger:     session.Logger(),
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
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
		m.input.Width = msg.Width - lipgloss.Width(m.input.Prompt) - 2

		return m, nil

	case editDoneMsg:
		return m.loadScratch(msg)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintLine())
	b.WriteString("\n")

	return b.String()
}

// hintLine returns the line shown below the input: a history position, a
// usage hint, a signature or the completion bar.
func (m model) hintLine() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type an expression or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") +
			" (press Esc to return)")
	}

	if m.mode == modeEval && !m.tabActive {
		call := detectFunctionCall(input, m.input.Position())
		if call.inCall {
			if params, ok := getSignature(m.session.Env(), call.name); ok {
				return renderSignatureHint(call.name, params, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.toggleMode(), nil

	case tea.KeyRunes, tea.KeySpace:
		// Space accepts the candidate while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows, ...) edits without
	// auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle selects the next (dir > 0) or previous candidate. A sole candidate
// is completed immediately.
func (m model) cycle(dir int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + n) % n
	case dir > 0:
		m.suggIdx = 0
	default:
		m.suggIdx = n - 1
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true and the typed word already equals the sole
// remaining candidate, the completion is confirmed.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.drafts = [2]draft{}
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Append(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echoCmd := tea.Println(m.mode.echo(input))

	if input == quitCommand {
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)
	}

	out, err := m.session.EvalString(m.ctxFunc(), input)

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.String("input", input),
		slog.Bool("ok", err == nil),
	)

	switch {
	case err != nil:
		return m, tea.Sequence(echoCmd, tea.Println(errorStyle.Render(err.Error())))
	case out == "":
		return m, echoCmd
	default:
		return m, tea.Sequence(echoCmd, tea.Println(resultStyle.Render(out)))
	}
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	word, _, _ := strings.Cut(input, " ")
	name := lookupControl(word)
	echo := tea.Println(m.mode.echo(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("word", word), slog.String("control", name))

	switch name {
	case "quit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "list":
		return m, tea.Sequence(echo, tea.Println(m.listDefinitions()))

	case "clear":
		return m, tea.ClearScreen

	case "edit":
		return m, tea.Sequence(echo, m.edit())
	}

	return m, tea.Println(errorStyle.Render(
		fmt.Sprintf("%q is not a command, enter help to list them", word),
	))
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
		scratch: m.scratch,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editCancelledMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.prog == nil:
			return editCancelledMsg{}
		}

		return editDoneMsg{text: cmd.text, prog: cmd.prog}
	})
}

// loadScratch evaluates every form of an edited buffer in the session.
func (m model) loadScratch(msg editDoneMsg) (model, tea.Cmd) {
	m.scratch = msg.text

	values, err := m.session.EvalProgram(m.ctxFunc(), msg.prog)

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl edit loaded",
		slog.Int("forms", len(msg.prog)),
		slog.Int("evaluated", len(values)),
	)

	if err != nil {
		return m, tea.Println(errorStyle.Render(err.Error()))
	}

	return m, tea.Println(resultStyle.Render(
		fmt.Sprintf("loaded %d form(s)", len(values)),
	))
}

// listDefinitions describes every root binding that is not an unmodified
// standard procedure.
func (m model) listDefinitions() string {
	env := m.session.Env()
	std := lang.StandardEnvironment()

	var b strings.Builder

	names := slices.Sorted(env.Names())

	for _, name := range names {
		x, ok := env.Local(name)
		if !ok {
			continue
		}

		if y, builtin := std.Local(name); builtin && x.Kind() == y.Kind() &&
			(x.Kind() == lang.KindPrimitive || lang.Render(x) == lang.Render(y)) {
			continue
		}

		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(formatPreview(x)))
	}

	if b.Len() == 0 {
		return hintStyle.Render("  (no definitions)")
	}

	return b.String()
}

// historyStep moves through history by dir. With sameMode set, entries of
// the other mode are skipped; otherwise the mode follows the entry.
func (m model) historyStep(dir int, sameMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	// Stepping past the newest entry returns to an empty line.
	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// toggleMode switches between eval and control modes.
func (m model) toggleMode() model {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode shows mode's saved draft, saving the one being replaced.
func (m model) switchToMode(mode inputMode) model {
	m.drafts[m.mode] = draft{m.input.Value(), m.input.Position()}
	m.mode = mode

	d := m.drafts[mode]
	m.input.Prompt = mode.prompt()
	m.input.SetValue(d.text)
	m.input.SetCursor(d.cursor)

	refreshMatches(&m, false)

	return m
}
