package notifier

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Notifier delivers report text to the user.
type Notifier interface {
	Send(text string) error
}

// ConsoleNotifier writes report text to a stream, stdout by default.
type ConsoleNotifier struct {
	mu  sync.Mutex
	Out io.Writer
}

// NewConsoleNotifier creates a notifier writing to out, or stdout when nil.
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleNotifier{Out: out}
}

// Send writes text followed by a newline unless it already ends in one.
func (c *ConsoleNotifier) Send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(text) == 0 || text[len(text)-1] != '\n' {
		text += "\n"
	}
	if _, err := io.WriteString(c.Out, text); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Sendf formats and sends a line.
func (c *ConsoleNotifier) Sendf(format string, args ...any) error {
	return c.Send(fmt.Sprintf(format, args...))
}
