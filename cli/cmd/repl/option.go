package repl

import (
	"io"

	"github.com/ardnew/dumbo/lang"
	"github.com/ardnew/dumbo/log"
)

type config struct {
	data     *lang.Frame
	history  string
	logger   log.Logger
	maxDepth int
	in       io.Reader
	out      io.Writer
}

// Option configures a REPL session.
type Option func(*config)

func makeConfig(opts ...Option) config {
	cfg := config{maxDepth: lang.DefaultMaxDepth}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// WithData seeds the base frame that evaluated lines read from and assign to.
func WithData(frame *lang.Frame) Option {
	return func(c *config) { c.data = frame }
}

// WithHistory sets the file in which submitted lines are persisted. An empty
// path keeps history in memory only.
func WithHistory(path string) Option {
	return func(c *config) { c.history = path }
}

// WithLogger sets the logger for trace events.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMaxDepth limits nesting in evaluated lines.
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.maxDepth = depth }
}

// WithIO sets the terminal streams. Nil values keep the process defaults.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *config) {
		c.in = in
		c.out = out
	}
}
