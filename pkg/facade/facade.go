// Package facade exposes the two entry points of module1: a runner that
// prints a fixed message through the helper, and a compute operation that
// adds a fixed addend through the helper and reports the sum on stdout.
package facade

import (
	"fmt"
	"io"
	"os"

	"github.com/l3aro/go-relay/internal/log"
	"github.com/l3aro/go-relay/pkg/helper"
)

// Addend is added to every Compute input.
const Addend int32 = 10

// RunMessage is the line Run asks the helper to print.
const RunMessage = "called from module1_run()"

const resultFormat = "module1: result = %d\n"

// Facade routes Run and Compute through a Helper. It holds no mutable state.
type Facade struct {
	helper helper.Helper
	out    io.Writer
	logger log.Logger
}

// Option configures a Facade.
type Option func(*Facade)

// WithOutput sets the stream Compute reports to. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(f *Facade) {
		if w != nil {
			f.out = w
		}
	}
}

// WithLogger sets the diagnostic logger. Defaults to a silent logger.
func WithLogger(l log.Logger) Option {
	return func(f *Facade) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a Facade over h.
func New(h helper.Helper, opts ...Option) *Facade {
	f := &Facade{
		helper: h,
		out:    os.Stdout,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run prints RunMessage through the helper exactly once.
// Helper errors are returned unchanged.
func (f *Facade) Run() error {
	f.logger.Debug("run", "message", RunMessage)
	return f.helper.PrintLine(RunMessage)
}

// Compute returns x + Addend as computed by the helper, after writing
// "module1: result = <sum>" to the output. A write error is returned
// unchanged alongside the sum.
func (f *Facade) Compute(x int32) (int32, error) {
	result := f.helper.Add(x, Addend)
	f.logger.Debug("compute", "input", x, "result", result)

	if _, err := fmt.Fprintf(f.out, resultFormat, result); err != nil {
		return result, err
	}
	return result, nil
}
