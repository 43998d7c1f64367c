package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/deploymenttheory/go-clearkey/internal/interfaces"
)

// Context holds application-wide configuration and state
type Context struct {
	context.Context

	// Output preferences
	OutputFormat string
	Verbose      bool
	Quiet        bool

	// Common timeouts
	DefaultTimeout time.Duration

	// Diagnostics destination, os.Stderr unless set
	LogOutput io.Writer
}

// Ensure interface compliance
var _ interfaces.Logger = (*Context)(nil)

// NewContext creates a new application context
func NewContext() *Context {
	return &Context{
		Context:        context.Background(),
		DefaultTimeout: 30 * time.Second,
		LogOutput:      os.Stderr,
	}
}

// WithTimeout creates a context with timeout
func (c *Context) WithTimeout(timeout time.Duration) (*Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.Context, timeout)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// Log outputs a message based on verbosity settings
func (c *Context) Log(message string) {
	if !c.Quiet && c.Verbose {
		fmt.Fprintln(c.output(), message)
	}
}

// Logf formats and outputs a message based on verbosity settings
func (c *Context) Logf(format string, args ...any) {
	if !c.Quiet && c.Verbose {
		fmt.Fprintf(c.output(), format+"\n", args...)
	}
}

// Error outputs an error message unless quiet
func (c *Context) Error(message string) {
	if !c.Quiet {
		fmt.Fprintln(c.output(), "Error:", message)
	}
}

func (c *Context) output() io.Writer {
	if c.LogOutput == nil {
		return os.Stderr
	}
	return c.LogOutput
}
