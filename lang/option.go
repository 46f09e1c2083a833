package lang

import (
	"io"

	"github.com/ardnew/dumbo/log"
)

// DefaultMaxDepth is the default limit on nested blocks and parentheses.
const DefaultMaxDepth = 100

type options struct {
	maxDepth int
	logger   log.Logger
	data     *Frame
	echo     io.Writer
}

// Option configures parsing or evaluation. Options that do not apply to a
// stage are ignored by it, so one option list can be passed to both
// [NewParser] and [NewEvaluator].
type Option func(*options)

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithMaxDepth limits how deeply blocks and parenthesized expressions may
// nest. Values below 1 disable the limit.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// WithLogger sets the logger used for trace events.
// The zero [log.Logger] discards everything.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithData seeds the outermost scope frame of an [Evaluator] with a copy of
// the given bindings.
func WithData(data *Frame) Option {
	return func(o *options) { o.data = data }
}

// WithEcho makes an [Evaluator] also write each chunk of output to w as it
// is produced.
func WithEcho(w io.Writer) Option {
	return func(o *options) { o.echo = w }
}
