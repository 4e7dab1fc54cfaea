package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
)

// ConsoleConfirmer asks yes/no questions on a terminal
type ConsoleConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsoleConfirmer creates a confirmer reading answers from in and writing questions to out
func NewConsoleConfirmer(in io.Reader, out io.Writer) *ConsoleConfirmer {
	return &ConsoleConfirmer{in: bufio.NewReader(in), out: out}
}

var _ coreport.Confirmer = (*ConsoleConfirmer)(nil)

type answer struct {
	line string
	err  error
}

// Confirm returns true only for "y" or "yes"; anything else declines.
// A closed input without an answer is an error.
func (c *ConsoleConfirmer) Confirm(ctx context.Context, question string) (bool, error) {
	if _, err := fmt.Fprintf(c.out, "%s\nDo you want to continue? (y/n): ", question); err != nil {
		return false, err
	}

	answers := make(chan answer, 1)
	go func() {
		line, err := c.in.ReadString('\n')
		answers <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a := <-answers:
		if a.err != nil && (!errors.Is(a.err, io.EOF) || a.line == "") {
			return false, a.err
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

// AutoConfirmer answers every question the same way, for unattended runs
type AutoConfirmer struct {
	Answer bool
	logger coreport.Logger
}

// NewAutoConfirmer creates a confirmer that logs each question and returns answer
func NewAutoConfirmer(answer bool, logger coreport.Logger) *AutoConfirmer {
	return &AutoConfirmer{Answer: answer, logger: logger}
}

var _ coreport.Confirmer = (*AutoConfirmer)(nil)

// Confirm returns the fixed answer
func (c *AutoConfirmer) Confirm(_ context.Context, question string) (bool, error) {
	c.logger.Info(question, map[string]any{"confirmed": c.Answer, "source": "auto"})
	return c.Answer, nil
}
