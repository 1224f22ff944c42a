// Package prompt has the confirmation gates used before destructive actions.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Static answers every confirmation with the same value.
type Static bool

// Confirm satisfies the confirmation gate.
func (s Static) Confirm(context.Context, string) (bool, error) { return bool(s), nil }

// Terminal asks on a writer and reads a y/N answer from a reader.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal returns a new terminal prompt. The reader can be shared with other
// line readers by passing a *bufio.Reader.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &Terminal{in: br, out: out}
}

// Confirm shows the question and returns true only for a yes answer.
// End of input is a no.
func (t *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if _, err := fmt.Fprintf(t.out, "%s [y/N]: ", question); err != nil {
		return false, fmt.Errorf("could not write prompt: %w", err)
	}

	line, err := t.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("could not read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
