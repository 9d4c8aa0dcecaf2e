package tui

import (
	"context"
	"time"

	"github.com/Veraticus/nearby/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

// emit returns a command that yields msg.
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// delay yields msg after d unless ctx ends first, in which case it yields
// nothing.
func delay(ctx context.Context, d time.Duration, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		if ctx.Err() != nil {
			return nil
		}

		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			return msg
		}
	}
}

// waitForScan blocks until the next event of one camera session.
func waitForScan(env envelope, camera uint64, events <-chan service.ScanEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return scanStreamClosedMsg{envelope: env, camera: camera}
		}
		return scanEventMsg{envelope: env, camera: camera, data: ev.Data}
	}
}
