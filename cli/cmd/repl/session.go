package repl

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/dumbo/data"
	"github.com/ardnew/dumbo/lang"
	"github.com/ardnew/dumbo/log"
)

// command describes a control-mode command.
type command struct {
	name  string
	args  string
	brief string
}

var commands = []command{
	{"help", "", "Print this cruft"},
	{"vars", "", "List bindings in data syntax"},
	{"set", "NAME := LITERAL[; ...]", "Bind literals in the base frame"},
	{"let", "NAME = EXPR", "Bind the value of an expr-lang expression"},
	{"unset", "NAME...", "Remove bindings from the base frame"},
	{"ast", "", "Toggle syntax tree dump of evaluated lines"},
	{"edit", "", "Edit bindings in external $EDITOR"},
	{"clear", "", "Clear screen"},
	{"quit", "", "Exit REPL"},
}

// commandNames returns the names of all control-mode commands.
func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}

	return names
}

func usage(name string) error {
	i := slices.IndexFunc(commands, func(c command) bool { return c.name == name })
	if i < 0 {
		return ErrUnknownCommand
	}

	return fmt.Errorf("%w: %s %s", ErrUsage, name, commands[i].args)
}

func helpMessage() string {
	var b strings.Builder

	b.WriteString("\n: Commands (press Esc to toggle mode):\n\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "  %-28s %s\n", strings.TrimSpace(c.name+" "+c.args), c.brief)
	}

	b.WriteString(`
Usage:
  Type a template line to render it, e.g. Hello {{ print name }}!
  Assignments update existing bindings; use set or let to add new ones
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`)

	return b.String()
}

// session holds the evaluation state shared by every line entered in a REPL.
// Lines are rendered by one evaluator whose base frame persists for the life
// of the session. A line that assigns to a base binding updates it; names
// first bound inside a block vanish with the block.
type session struct {
	parser  *lang.Parser
	eval    *lang.Evaluator
	logger  log.Logger
	showAST bool
}

func newSession(cfg config) *session {
	opts := []lang.Option{
		lang.WithData(cfg.data),
		lang.WithMaxDepth(cfg.maxDepth),
		lang.WithLogger(cfg.logger),
	}

	return &session{
		parser: lang.NewParser(opts...),
		eval:   lang.NewEvaluator(opts...),
		logger: cfg.logger,
	}
}

// base returns the outermost frame of the session scope.
func (s *session) base() *lang.Frame { return s.eval.Scope().Root() }

// names returns every name visible to evaluated lines.
func (s *session) names() []string { return s.eval.Scope().Names() }

// evaluate renders line as a template fragment. tree holds the syntax tree
// dump when enabled. Output produced before an error is returned along with
// the error.
func (s *session) evaluate(ctx context.Context, line string) (tree, text string, err error) {
	prog, err := s.parser.ParseString(ctx, line)
	if err != nil {
		return "", "", err
	}

	if s.showAST {
		var b strings.Builder
		if err := prog.Print(&b); err != nil {
			return "", "", err
		}

		tree = strings.TrimRight(b.String(), "\n")
	}

	text, err = s.eval.Evaluate(ctx, prog)

	s.logger.TraceContext(ctx, "repl eval result",
		slog.Int("bytes", len(text)),
		slog.Bool("failed", err != nil),
	)

	return tree, text, err
}

// execute runs a control-mode command that does not involve the terminal.
func (s *session) execute(ctx context.Context, name, rest string) (string, error) {
	switch name {
	case "h", "help":
		return helpMessage(), nil

	case "v", "vars":
		return s.vars()

	case "set":
		return s.set(ctx, rest)

	case "let":
		return s.let(rest)

	case "unset":
		return s.unset(strings.Fields(rest))

	case "ast":
		s.showAST = !s.showAST
		if s.showAST {
			return "syntax tree dump on", nil
		}

		return "syntax tree dump off", nil
	}

	return "", fmt.Errorf("%w: %s (try 'help')", ErrUnknownCommand, name)
}

func (s *session) vars() (string, error) {
	if s.base().Len() == 0 {
		return "(no bindings)", nil
	}

	var b strings.Builder
	if err := data.Format(&b, s.base()); err != nil {
		return "", err
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *session) set(ctx context.Context, rest string) (string, error) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", usage("set")
	}

	frame, err := data.Parse(ctx, "{{ "+rest+" }}")
	if err != nil {
		return "", err
	}

	if frame.Len() == 0 {
		return "", usage("set")
	}

	s.base().Merge(frame)

	return bound(frame), nil
}

func (s *session) let(rest string) (string, error) {
	name, src, ok := strings.Cut(rest, "=")
	name, src = strings.TrimSpace(name), strings.TrimSpace(src)

	if !ok || name == "" || src == "" {
		return "", usage("let")
	}

	frame := s.base().Clone()
	if err := data.Bind(frame, []string{name}, map[string]string{name: src}); err != nil {
		return "", err
	}

	v, _ := frame.Get(name)
	s.base().Set(name, v)

	return data.Assignment(name, v), nil
}

func (s *session) unset(names []string) (string, error) {
	if len(names) == 0 {
		return "", usage("unset")
	}

	for _, name := range names {
		if !s.base().Has(name) {
			return "", fmt.Errorf("%w: %s", ErrUndefinedName, name)
		}
	}

	for _, name := range names {
		s.base().Delete(name)
	}

	return "unset " + strings.Join(names, ", "), nil
}

// replace swaps the contents of the base frame for frame.
func (s *session) replace(frame *lang.Frame) {
	base := s.base()

	for _, name := range base.Names() {
		base.Delete(name)
	}

	base.Merge(frame)
}

// bound lists the assignments in frame, one per line.
func bound(frame *lang.Frame) string {
	lines := make([]string, 0, frame.Len())

	for name, v := range frame.All() {
		lines = append(lines, data.Assignment(name, v))
	}

	return strings.Join(lines, "\n")
}
