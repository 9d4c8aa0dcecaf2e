package tui

import (
	"testing"
	"time"

	"github.com/Veraticus/nearby/internal/service"
	"github.com/Veraticus/nearby/internal/testutil"
	"github.com/Veraticus/nearby/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

const testWait = time.Second

func testConfig(gateway service.Gateway, scanner service.Scanner) Config {
	cfg := defaultConfig()
	cfg.Gateway = gateway
	cfg.Scanner = scanner
	cfg.HandoffDelay = 10 * time.Millisecond
	cfg.Width = 120
	cfg.Height = 40
	return cfg
}

// settleDiscovery feeds msgs to m, running every resulting command, until
// no more messages are produced.
func settleDiscovery(t *testing.T, m DiscoveryModel, msgs []tea.Msg) DiscoveryModel {
	t.Helper()

	for len(msgs) > 0 {
		var next []tea.Msg
		for _, msg := range msgs {
			var cmd tea.Cmd
			m, cmd = m.Update(msg)
			next = append(next, testutil.Drain(t, cmd, testWait)...)
		}
		msgs = next
	}
	return m
}

// stepRedemption applies one message and runs the command it returns.
func stepRedemption(t *testing.T, m RedemptionModel, msg tea.Msg) (RedemptionModel, []tea.Msg) {
	t.Helper()

	m, cmd := m.Update(msg)
	return m, testutil.Drain(t, cmd, testWait)
}

// alertText returns the title and message of the alert on screen. The
// rendered view wraps long messages, so tests match on the queued alert.
func alertText(t *testing.T, alerts components.AlertModel) string {
	t.Helper()
	a, ok := alerts.Current()
	require.True(t, ok, "no alert on screen")
	return a.Title + "\n" + a.Message
}
