package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/dumbo/lang"
)

// editDoneMsg is sent when the editor produced a new base frame.
type editDoneMsg struct{ frame *lang.Frame }

// editCancelledMsg is sent when the user emptied the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to edit again after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit failed for any other reason.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "» "
	ctrlPrompt = " :"
)

// inputMode is the interpretation of submitted lines.
type inputMode int

const (
	modeEval inputMode = iota // render as a template
	modeCtrl                  // run as a command
)

var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	treeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	keywordStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// echo formats a submitted line the way it appeared at the prompt.
func echo(mode inputMode, line string) string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(line)
	}

	return promptStyle.Render(evalPrompt) + inputStyle.Render(line)
}

// stash is the input text and cursor of a mode that is not shown.
type stash struct {
	text   string
	cursor int
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx          context.Context
	session      *session
	input        textinput.Model
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy matches, best first
	candidates   []string      // candidates the matches were drawn from
	wordStart    int           // byte offset of the word being completed
	wordEnd      int           // byte offset just past that word
	suggIdx      int           // selected match while tab-cycling
	tabActive    bool
	preTabText   string // input before tab-cycling began
	preTabCursor int
	width        int
	quitting     bool
	mode         inputMode
	stashed      [2]stash // saved input per mode
}

// Run starts an interactive REPL and blocks until the user quits or ctx is
// done.
func Run(ctx context.Context, opts ...Option) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg := makeConfig(opts...)

	cfg.logger.TraceContext(ctx, "repl start",
		slog.String("history", cfg.history),
		slog.Int("bindings", cfg.data.Len()),
	)

	history := NewHistory(cfg.history)
	if err := history.Load(); err != nil {
		cfg.logger.WarnContext(ctx, "could not load history",
			slog.String("path", cfg.history),
			slog.Any("error", err),
		)
	}

	popts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.in != nil {
		popts = append(popts, tea.WithInput(cfg.in))
	}

	if cfg.out != nil {
		popts = append(popts, tea.WithOutput(cfg.out))
	}

	_, err = tea.NewProgram(newModel(ctx, newSession(cfg), history), popts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, s *session, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctx:        ctx,
		session:    s,
		input:      ti,
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
		m.input.Width = max(msg.Width-lipgloss.Width(evalPrompt)-2, 1)

		return m, nil

	case editDoneMsg:
		m.session.replace(msg.frame)
		m.session.logger.TraceContext(m.ctx, "repl edit complete",
			slog.Int("bindings", msg.frame.Len()),
		)

		return m, tea.Println(resultStyle.Render("bindings updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

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

	return m.input.View() + "\n" + m.hint() + "\n"
}

// hint returns the line shown under the prompt.
func (m model) hint() string {
	input := m.input.Value()
	cursor := m.input.Position()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type a template line or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(commandNames(), ", ") + " (press Esc to return)")
	}

	if m.tabActive || len(m.matches) > 1 {
		return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
	}

	if m.mode == modeCtrl && strings.HasPrefix(strings.TrimSpace(input), "let ") {
		if call := detectFunctionCall(input, cursor); call.inCall {
			if params, ok := exprParams[call.name]; ok {
				return renderSignatureHint(call.name, params, call.argIndex)
			}
		}
	}

	if m.mode == modeEval {
		if kw, seen := statementKeyword(input, cursor); kw != "" {
			return renderKeywordHint(kw, seen)
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.session.logger.TraceContext(m.ctx, "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
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
			return m.submit()
		}

		// Enter while cycling keeps the candidate without submitting.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.recall(-1, false), nil

	case tea.KeyDown:
		return m.recall(1, false), nil

	case tea.KeyShiftUp:
		return m.recall(-1, true), nil

	case tea.KeyShiftDown:
		return m.recall(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchMode(modeCtrl), nil
		}

		return m.switchMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Deletion and cursor movement never auto-complete.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle steps the selected candidate by dir, starting tab-cycling if it is
// not already active. A single match is completed immediately.
func (m model) cycle(dir int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord substitutes text for the word being completed and moves
// the cursor past it.
func replaceCurrentWord(m *model, text string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + text + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(text))

	m.wordEnd = m.wordStart + len(text)
}

// refreshMatches recomputes the matches for the current input. With
// autoConfirm, a word that already equals its only candidate is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// submit records the input in history and evaluates or executes it.
func (m model) submit() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	m.stashed = [2]stash{}
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(line, m.mode); err != nil {
		m.session.logger.WarnContext(m.ctx, "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.execute(line)
	}

	m.session.logger.TraceContext(m.ctx, "repl eval", slog.String("input", line))

	out := []tea.Cmd{tea.Println(echo(modeEval, line))}

	tree, text, err := m.session.evaluate(m.ctx, line)
	if tree != "" {
		out = append(out, tea.Println(treeStyle.Render(tree)))
	}

	if text != "" {
		out = append(out, tea.Println(resultStyle.Render(text)))
	}

	if err != nil {
		out = append(out, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(out...)
}

// execute runs a control-mode command line.
func (m model) execute(line string) (model, tea.Cmd) {
	name, rest, _ := strings.Cut(line, " ")

	m.session.logger.TraceContext(m.ctx, "repl command",
		slog.String("command", name),
		slog.String("args", rest),
	)

	echoCmd := tea.Println(echo(modeCtrl, line))

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.edit())
	}

	out, err := m.session.execute(m.ctx, name, rest)
	if err != nil {
		return m, tea.Sequence(echoCmd, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echoCmd, tea.Println(resultStyle.Render(out)))
}

// edit opens the base frame in the user's editor.
func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		ctx:    m.ctx,
		frame:  m.session.base(),
		logger: m.session.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.result == nil:
			return editCancelledMsg{}
		}

		return editDoneMsg{frame: cmd.result}
	})
}

// recall moves through history by dir (-1 older, 1 newer). With inMode only
// entries of the current mode are visited; otherwise the mode follows the
// recalled entry. Moving past the newest entry clears the input.
func (m model) recall(dir int, inMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if inMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchMode shows the input of mode, saving the input of the current one.
func (m model) switchMode(mode inputMode) model {
	m.stashed[m.mode] = stash{text: m.input.Value(), cursor: m.input.Position()}
	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.input.SetValue(m.stashed[mode].text)
	m.input.SetCursor(m.stashed[mode].cursor)
	m.tabActive = false
	refreshMatches(&m, false)

	return m
}
