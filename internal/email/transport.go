package email

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Transport delivers one message to a list of addresses.
type Transport interface {
	Send(ctx context.Context, subject, body, from string, to []string) error
}

// ConsoleTransport writes messages to an io.Writer instead of sending them.
type ConsoleTransport struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleTransport(out io.Writer) *ConsoleTransport {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleTransport{out: out}
}

func (t *ConsoleTransport) Send(ctx context.Context, subject, body, from string, to []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	_, err := fmt.Fprintf(t.out, "From: %s\nTo: %s\nSubject: %s\n\n%s\n%s\n",
		from, strings.Join(to, ", "), subject, body, strings.Repeat("-", 72))
	return err
}
