package app

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContext_Logging(t *testing.T) {
	tests := []struct {
		name     string
		verbose  bool
		quiet    bool
		expected string
	}{
		{name: "default is silent", expected: "Error: boom\n"},
		{name: "verbose", verbose: true, expected: "plain\nformatted 7\nError: boom\n"},
		{name: "quiet wins over verbose", verbose: true, quiet: true, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := NewContext()
			ctx.LogOutput = &buf
			ctx.Verbose = tt.verbose
			ctx.Quiet = tt.quiet

			ctx.Log("plain")
			ctx.Logf("formatted %d", 7)
			ctx.Error("boom")

			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestContext_WithTimeout(t *testing.T) {
	ctx := NewContext()
	ctx.Verbose = true

	child, cancel := ctx.WithTimeout(time.Minute)
	defer cancel()

	_, ok := ctx.Deadline()
	assert.False(t, ok)
	_, ok = child.Deadline()
	assert.True(t, ok)
	assert.True(t, child.Verbose)

	cancel()
	assert.Error(t, child.Err())
	assert.NoError(t, ctx.Err())
}

func TestErrorCode(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NewError(ErrCodeIO, "failed to read", cause)

	assert.Equal(t, "failed to read: disk on fire", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeIO, ErrorCode(err))
	assert.Equal(t, ErrCodeIO, ErrorCode(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, "", ErrorCode(cause))
	assert.Equal(t, "no cause", NewError(ErrCodeInvalidInput, "no cause", nil).Error())
}
