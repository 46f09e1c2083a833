package cmd

import (
	"context"

	"github.com/ardnew/dumbo/cli/cmd/repl"
	"github.com/ardnew/dumbo/log"
)

// Repl starts an interactive session rendering template lines against a
// persistent set of bindings.
type Repl struct {
	Data     []string `help:"Data file(s) seeding the session bindings."            placeholder:"FILE" short:"d"`
	History  string   `help:"History file (empty keeps history in memory)."         default:"${history}" placeholder:"FILE"`
	MaxDepth int      `help:"Limit on nested blocks and parentheses (0 disables)." default:"100"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context, std Stdio) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	// The session reads its keystrokes from stdin.
	if err := stdinOnce(r.Data, []string{stdinSource}); err != nil {
		return err
	}

	seed, err := loadData(ctx, r.Data, std.In)
	if err != nil {
		return err
	}

	return repl.Run(ctx,
		repl.WithData(seed),
		repl.WithHistory(r.History),
		repl.WithMaxDepth(r.MaxDepth),
		repl.WithLogger(log.Default()),
		repl.WithIO(std.In, std.Out),
	)
}
