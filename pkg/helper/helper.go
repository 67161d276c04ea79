// Package helper provides the line-printing and integer-addition
// capabilities that the facade delegates to.
package helper

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Helper is the capability set consumed by the facade.
type Helper interface {
	// PrintLine writes msg followed by a newline.
	PrintLine(msg string) error

	// Add returns the sum of a and b. Overflow wraps.
	Add(a, b int32) int32
}

// Console prints lines to a writer, os.Stdout by default.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a Console writing to w. A nil w means os.Stdout.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{out: w}
}

// PrintLine writes msg and a newline in a single write, so lines from
// concurrent callers never interleave.
func (c *Console) PrintLine(msg string) error {
	buf := make([]byte, 0, len(msg)+1)
	buf = append(buf, msg...)
	buf = append(buf, '\n')

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.out.Write(buf); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

// Add returns the sum of two integers.
func (c *Console) Add(a, b int32) int32 {
	return a + b
}

// Funcs adapts plain functions to the Helper interface.
// A nil Print discards lines; a nil Sum falls back to a + b.
type Funcs struct {
	Print func(msg string) error
	Sum   func(a, b int32) int32
}

// PrintLine calls Print, or discards msg when Print is nil.
func (f Funcs) PrintLine(msg string) error {
	if f.Print == nil {
		return nil
	}
	return f.Print(msg)
}

// Add calls Sum, or returns a + b when Sum is nil.
func (f Funcs) Add(a, b int32) int32 {
	if f.Sum == nil {
		return a + b
	}
	return f.Sum(a, b)
}
