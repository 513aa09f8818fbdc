// Package console implements core.Prompter over a line-oriented terminal.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console reads answers from in and writes prompts and feedback to out.
type Console struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// New creates a Console.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Ask writes message without a trailing newline and returns the next input
// line with its terminator removed. A final line without a newline is still
// returned; io.EOF is returned only when no input is left.
func (c *Console) Ask(message string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := io.WriteString(c.out, message); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Tell writes message on its own line.
func (c *Console) Tell(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.out, message)
}
