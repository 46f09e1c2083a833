package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/dumbo/data"
	"github.com/ardnew/dumbo/lang"
	"github.com/ardnew/dumbo/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It writes the base frame to a
// temporary file in the data language, opens the user's editor on it and
// parses the result. On a parse error the user may edit again; declining
// returns [ErrEditDeclined]. An emptied file cancels the edit.
type editCommand struct {
	ctx    context.Context
	frame  *lang.Frame
	result *lang.Frame
	logger log.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop.
func (c *editCommand) Run() error {
	var buf bytes.Buffer
	if err := data.Format(&buf, c.frame); err != nil {
		return err
	}

	f, err := os.CreateTemp("", "dumbo-repl-*.dumbo")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := buf.Bytes()

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(c.ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		if content, err = os.ReadFile(path); err != nil {
			return err
		}

		if len(bytes.TrimSpace(content)) == 0 {
			return nil
		}

		frame, err := data.Parse(c.ctx, string(content), lang.WithLogger(c.logger))

		c.logger.TraceContext(c.ctx, "editor parse attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", err == nil),
		)

		if err == nil {
			c.result = frame

			return nil
		}

		fmt.Fprintf(c.stderr, "\nParse error: %s\n", err)

		if !confirm(c.stdin, c.stdout, "Re-edit? [Y/n] ") {
			return ErrEditDeclined
		}
	}
}

// confirm prompts on out and reports whether the answer read from in is
// anything other than no.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "n", "no":
		return false
	}

	return true
}

// runEditor runs $EDITOR, or vi, on path.
func runEditor(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	// EDITOR may carry arguments, as in "code --wait".
	args := append(strings.Fields(editor), path)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
