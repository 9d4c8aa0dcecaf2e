// Package scanner provides QR scan capabilities for the redemption screen.
package scanner

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"github.com/Veraticus/nearby/internal/service"
)

const eventBuffer = 16

// Feed is an in-process scanner driven by Push. The terminal camera modal
// uses it for codes typed or pasted by the user.
type Feed struct {
	ch      chan service.ScanEvent
	frames  int
	mu      sync.Mutex
	granted bool
}

var _ service.Scanner = (*Feed)(nil)

// NewFeed creates a feed. Every Push emits the payload frames times to mimic
// a camera reporting the same code on consecutive frames.
func NewFeed(granted bool, frames int) *Feed {
	if frames <= 0 {
		frames = 1
	}
	return &Feed{granted: granted, frames: frames}
}

// RequestPermission reports the configured consent.
func (f *Feed) RequestPermission(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return f.granted, nil
}

// Open starts a session that lasts until ctx is done.
func (f *Feed) Open(ctx context.Context) (<-chan service.ScanEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := make(chan service.ScanEvent, eventBuffer)

	f.mu.Lock()
	f.ch = ch
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.ch == ch {
			f.ch = nil
		}
		close(ch)
	}()

	return ch, nil
}

// Push delivers a payload to the open session and returns how many events
// were accepted. Events are dropped when no session is open or the buffer
// is full.
func (f *Feed) Push(data string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ch == nil {
		return 0
	}

	delivered := 0
	for i := 0; i < f.frames; i++ {
		select {
		case f.ch <- service.ScanEvent{Data: data}:
			delivered++
		default:
		}
	}
	return delivered
}

// Command reads payloads from an external decoder such as
// "zbarcam --raw --nodisplay", one per output line.
type Command struct {
	lookPath func(string) (string, error)
	name     string
	args     []string
	allowed  bool
}

var _ service.Scanner = (*Command)(nil)

// NewCommand parses a whitespace separated command line.
func NewCommand(commandLine string, allowed bool) (*Command, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("scanner command cannot be empty")
	}
	return &Command{
		name:     fields[0],
		args:     fields[1:],
		allowed:  allowed,
		lookPath: exec.LookPath,
	}, nil
}

// RequestPermission grants access when the user consented and the decoder
// binary is installed.
func (c *Command) RequestPermission(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !c.allowed {
		return false, nil
	}
	if _, err := c.lookPath(c.name); err != nil {
		return false, fmt.Errorf("scanner %q unavailable: %w", c.name, err)
	}
	return true, nil
}

// Open starts the decoder. The process is killed when ctx is done.
func (c *Command) Open(ctx context.Context) (<-chan service.ScanEvent, error) {
	cmd := exec.CommandContext(ctx, c.name, c.args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to attach to scanner output: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scanner %q: %w", c.name, err)
	}

	ch := make(chan service.ScanEvent, eventBuffer)
	go func() {
		defer close(ch)

		lines := bufio.NewScanner(stdout)
	read:
		for lines.Scan() {
			data := strings.TrimSpace(lines.Text())
			if data == "" {
				continue
			}
			select {
			case ch <- service.ScanEvent{Data: data}:
			case <-ctx.Done():
				break read
			}
		}

		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			slog.Warn("scanner exited", "command", c.name, "error", err)
		}
	}()

	return ch, nil
}
