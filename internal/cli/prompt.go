package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// lineConfirmer asks yes/no questions on the terminal. With assumeYes set
// it approves without reading anything.
type lineConfirmer struct {
	mu        sync.Mutex
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func (c *lineConfirmer) Confirm(ctx context.Context, prompt string) bool {
	if c.assumeYes {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	line, err := c.readLine()
	if err != nil {
		fmt.Fprintln(c.out)
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

func (c *lineConfirmer) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// lineNotifier prints editor outcomes, one per line.
type lineNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func (n *lineNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, msg)
}

func (n *lineNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, "error: "+msg)
}
