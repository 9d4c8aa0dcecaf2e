package tui

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/nearby/internal/model"
	"github.com/Veraticus/nearby/internal/testutil"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSession = 7

func venueGateway() *testutil.FakeGateway {
	var coupons atomic.Int32
	coupons.Store(3)

	return &testutil.FakeGateway{
		GetVenueFunc: func(_ context.Context, id string) (*model.VenueDetail, error) {
			return &model.VenueDetail{
				Venue:       model.Venue{ID: id, Name: "Sabor Grill", Address: "Av. Paulista, 1200"},
				Description: "Grilled meats and salads by weight.",
				Coupons:     int(coupons.Load()),
				Rules:       []model.Rule{{ID: "r1", Description: "Valid for lunch only"}},
			}, nil
		},
		RedeemCouponFunc: func(_ context.Context, code string) (model.Coupon, error) {
			if code != "CODE123" {
				return model.Coupon{}, errors.New("unknown code")
			}
			coupons.Add(-1)
			return model.Coupon{Code: "SAVE10"}, nil
		},
	}
}

func newRedemption(t *testing.T, g *testutil.FakeGateway, s *testutil.FakeScanner) RedemptionModel {
	t.Helper()

	cfg := testConfig(g, nil)
	if s != nil {
		cfg.Scanner = s
	}
	m := NewRedemptionModel(context.Background(), testSession, "v1", cfg)
	t.Cleanup(m.Close)
	return m
}

// readyRedemption returns a screen whose first detail load completed.
func readyRedemption(t *testing.T, g *testutil.FakeGateway, s *testutil.FakeScanner) RedemptionModel {
	t.Helper()

	m := newRedemption(t, g, s)
	msgs := testutil.Drain(t, m.Init(), testWait)
	require.Len(t, msgs, 1)

	m, _ = m.Update(msgs[0])
	require.Equal(t, RedemptionReady, m.State())
	return m
}

// openCamera drives a ready screen through permission into an open camera
// and returns the command waiting for the first scan.
func openCamera(t *testing.T, m RedemptionModel) (RedemptionModel, tea.Cmd) {
	t.Helper()

	m, msgs := stepRedemption(t, m, testutil.KeyPress("s"))
	require.Equal(t, RedemptionPermissionPending, m.State())
	perm, ok := testutil.Find[permissionResultMsg](msgs)
	require.True(t, ok)

	m, msgs = stepRedemption(t, m, perm)
	stream, ok := testutil.Find[cameraStreamMsg](msgs)
	require.True(t, ok)
	require.NoError(t, stream.err)

	m, listen := m.Update(stream)
	require.Equal(t, RedemptionCameraOpen, m.State())
	require.True(t, m.cameraOpen)
	require.False(t, m.scanLock)
	require.NotNil(t, listen)
	return m, listen
}

// scan pushes a payload into the open camera and applies the first event.
func scan(t *testing.T, m RedemptionModel, s *testutil.FakeScanner, listen tea.Cmd, data string) (RedemptionModel, tea.Cmd) {
	t.Helper()

	require.Positive(t, s.Push(data))
	ev, ok := testutil.Find[scanEventMsg](testutil.Drain(t, listen, testWait))
	require.True(t, ok)
	require.Equal(t, data, ev.data)

	return m.Update(ev)
}

// confirmScan waits for the handoff and returns the screen in the
// confirmation state.
func confirmScan(t *testing.T, m RedemptionModel, handoff tea.Cmd) RedemptionModel {
	t.Helper()

	msg, ok := testutil.Find[scanHandoffMsg](testutil.Drain(t, handoff, testWait))
	require.True(t, ok)

	m, cmd := m.Update(msg)
	require.Nil(t, cmd)
	require.Equal(t, RedemptionConfirming, m.State())
	require.NotNil(t, m.confirm)
	return m
}

func TestRedemption_LoadsDetail(t *testing.T) {
	g := venueGateway()
	m := newRedemption(t, g, nil)
	assert.Equal(t, RedemptionLoading, m.State())
	assert.Contains(t, testutil.StripANSI(m.View()), "Loading")

	m = readyRedemption(t, g, nil)
	require.NotNil(t, m.detail)
	assert.Equal(t, "Sabor Grill", m.detail.Name)
	assert.Equal(t, []testutil.GatewayCall{{Method: "GetVenue", Arg: "v1"}}, g.Calls())

	view := testutil.StripANSI(m.View())
	assert.Contains(t, view, "Sabor Grill")
	assert.Contains(t, view, "Valid for lunch only")
	assert.Contains(t, view, "Coupons available: 3")
}

func TestRedemption_DetailFailureNavigatesBack(t *testing.T) {
	g := &testutil.FakeGateway{
		GetVenueFunc: func(context.Context, string) (*model.VenueDetail, error) {
			return nil, errors.New("boom")
		},
	}
	m := newRedemption(t, g, nil)
	m, _ = m.Update(testutil.Drain(t, m.Init(), testWait)[0])

	assert.Equal(t, RedemptionFailed, m.State())
	assert.Nil(t, m.detail)
	require.True(t, m.alerts.Active())
	assert.Contains(t, alertText(t, m.alerts), "Could not load the venue data")

	m, msgs := stepRedemption(t, m, testutil.KeyEnter())
	back, ok := testutil.Find[navigateBackMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, uint64(testSession), back.screenSession())
	assert.False(t, m.alerts.Active())
	assert.Empty(t, testutil.StripANSI(m.View()))
}

func TestRedemption_MissingDetailRedirectsHome(t *testing.T) {
	g := &testutil.FakeGateway{
		GetVenueFunc: func(context.Context, string) (*model.VenueDetail, error) {
			return nil, nil
		},
	}
	m := newRedemption(t, g, nil)
	m, msgs := stepRedemption(t, m, testutil.Drain(t, m.Init(), testWait)[0])

	assert.Equal(t, RedemptionNotFound, m.State())
	assert.Equal(t, 1, testutil.Count[redirectHomeMsg](msgs))
	assert.False(t, m.alerts.Active())
}

func TestRedemption_StaleDetailIgnored(t *testing.T) {
	m := readyRedemption(t, venueGateway(), nil)

	m, cmd := m.Update(detailLoadedMsg{envelope: m.env, generation: m.detailGeneration - 1})
	assert.Nil(t, cmd)
	assert.Equal(t, RedemptionReady, m.State())
	assert.NotNil(t, m.detail)
}

func TestRedemption_CameraRequiresIdle(t *testing.T) {
	s := testutil.NewFakeScanner(true, 1)
	m := newRedemption(t, venueGateway(), s)

	m, cmd := m.Update(testutil.KeyPress("s"))
	assert.Nil(t, cmd)
	assert.Equal(t, RedemptionLoading, m.State())
	assert.Equal(t, 0, s.Permissions())
}

func TestRedemption_PermissionDenied(t *testing.T) {
	g := venueGateway()
	s := testutil.NewFakeScanner(false, 3)
	m := readyRedemption(t, g, s)

	m, msgs := stepRedemption(t, m, testutil.KeyPress("s"))
	assert.Equal(t, RedemptionPermissionPending, m.State())

	m, msgs = stepRedemption(t, m, msgs[0])
	assert.Empty(t, msgs)
	assert.Equal(t, RedemptionReady, m.State())
	assert.False(t, m.cameraOpen)
	require.True(t, m.alerts.Active())
	a, ok := m.alerts.Current()
	require.True(t, ok)
	assert.Equal(t, "You need to allow camera access to read the QR code", a.Message)
	assert.False(t, a.Error)

	assert.Equal(t, 1, s.Permissions())
	assert.Equal(t, 0, s.Opens())
	assert.Equal(t, 0, g.CountCalls("RedeemCoupon"))
}

func TestRedemption_CameraErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*testutil.FakeScanner)
	}{
		{"permission error", func(s *testutil.FakeScanner) { s.PermissionErr = errors.New("no device") }},
		{"open error", func(s *testutil.FakeScanner) { s.OpenErr = errors.New("device busy") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testutil.NewFakeScanner(true, 1)
			tt.setup(s)
			m := readyRedemption(t, venueGateway(), s)

			msgs := []tea.Msg{testutil.KeyPress("s")}
			for len(msgs) > 0 {
				var next []tea.Msg
				for _, msg := range msgs {
					var out []tea.Msg
					m, out = stepRedemption(t, m, msg)
					next = append(next, out...)
				}
				msgs = next
			}

			assert.Equal(t, RedemptionReady, m.State())
			assert.False(t, m.cameraOpen)
			require.True(t, m.alerts.Active())
			assert.Contains(t, alertText(t, m.alerts), "Could not open the camera")
		})
	}
}

func TestRedemption_MissingScanner(t *testing.T) {
	m := readyRedemption(t, venueGateway(), nil)

	m, cmd := m.Update(testutil.KeyPress("s"))
	assert.Nil(t, cmd)
	assert.Equal(t, RedemptionReady, m.State())
	assert.Contains(t, alertText(t, m.alerts), "Could not open the camera")
}

func TestRedemption_ScanRedeemScenario(t *testing.T) {
	g := venueGateway()
	s := testutil.NewFakeScanner(true, 3)
	m := readyRedemption(t, g, s)

	m, listen := openCamera(t, m)
	m, handoff := scan(t, m, s, listen, "CODE123")

	assert.True(t, m.scanLock)
	assert.False(t, m.cameraOpen)
	assert.Equal(t, RedemptionScanCaptured, m.State())
	require.NotNil(t, handoff)

	m = confirmScan(t, m, handoff)
	assert.Contains(t, testutil.StripANSI(m.View()), "cannot be reused")
	assert.Equal(t, 0, g.CountCalls("RedeemCoupon"))

	m, redeem := m.Update(testutil.KeyPress("y"))
	assert.Equal(t, RedemptionRedeeming, m.State())
	assert.True(t, m.fetching)

	msgs := testutil.Drain(t, redeem, testWait)
	redeemed, ok := testutil.Find[couponRedeemedMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, 1, testutil.Count[spinner.TickMsg](msgs))

	m, msgs = stepRedemption(t, m, redeemed)
	assert.False(t, m.fetching)
	assert.Equal(t, RedemptionRedeemed, m.State())
	assert.Equal(t, "SAVE10", m.Coupon())
	require.True(t, m.alerts.Active())
	assert.Contains(t, alertText(t, m.alerts), "SAVE10")

	// The coupon change triggers exactly one extra detail load.
	reload, ok := testutil.Find[detailLoadedMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, "SAVE10", reload.coupon)
	m, msgs = stepRedemption(t, m, reload)
	assert.Empty(t, msgs)
	assert.Equal(t, 2, m.detail.Coupons)
	assert.Equal(t, RedemptionRedeemed, m.State())

	assert.Equal(t, []testutil.GatewayCall{
		{Method: "GetVenue", Arg: "v1"},
		{Method: "RedeemCoupon", Arg: "CODE123"},
		{Method: "GetVenue", Arg: "v1"},
	}, g.Calls())

	m, _ = m.Update(testutil.KeyEnter())
	view := testutil.StripANSI(m.View())
	assert.Contains(t, view, "SAVE10")
	assert.Contains(t, view, "Coupons available: 2")
}

func TestRedemption_DoubleScanSingleConfirmation(t *testing.T) {
	g := venueGateway()
	s := testutil.NewFakeScanner(true, 3)
	m := readyRedemption(t, g, s)
	m, _ = openCamera(t, m)

	first := scanEventMsg{envelope: m.env, camera: m.camera, data: "CODE123"}
	m, handoff := m.Update(first)
	require.NotNil(t, handoff)

	// Later frames of the same session are rejected.
	m, cmd := m.Update(first)
	assert.Nil(t, cmd)
	assert.Nil(t, m.onScanEvent("CODE123"))
	assert.Equal(t, RedemptionScanCaptured, m.State())

	m = confirmScan(t, m, handoff)
	assert.Equal(t, "CODE123", m.pendingCode)
	assert.Equal(t, 0, g.CountCalls("RedeemCoupon"))
}

func TestRedemption_EmptyPayloadIgnored(t *testing.T) {
	s := testutil.NewFakeScanner(true, 1)
	m := readyRedemption(t, venueGateway(), s)
	m, _ = openCamera(t, m)

	m, cmd := m.Update(scanEventMsg{envelope: m.env, camera: m.camera, data: ""})
	assert.NotNil(t, cmd, "should keep listening")
	assert.False(t, m.scanLock)
	assert.Equal(t, RedemptionCameraOpen, m.State())
}

func TestRedemption_CancelIssuesNoRequest(t *testing.T) {
	for _, key := range []tea.KeyMsg{testutil.KeyPress("n"), testutil.KeyEsc()} {
		t.Run(key.String(), func(t *testing.T) {
			g := venueGateway()
			s := testutil.NewFakeScanner(true, 1)
			m := readyRedemption(t, g, s)
			m, listen := openCamera(t, m)
			m, handoff := scan(t, m, s, listen, "CODE123")
			m = confirmScan(t, m, handoff)

			m, cmd := m.Update(key)
			assert.Nil(t, cmd)
			assert.Nil(t, m.confirm)
			assert.Equal(t, RedemptionReady, m.State())
			assert.Equal(t, 0, g.CountCalls("RedeemCoupon"))
			assert.Equal(t, 1, g.CountCalls("GetVenue"))
		})
	}
}

func TestRedemption_ReopenResetsLock(t *testing.T) {
	s := testutil.NewFakeScanner(true, 1)
	m := readyRedemption(t, venueGateway(), s)
	m, listen := openCamera(t, m)
	m, handoff := scan(t, m, s, listen, "CODE123")
	m = confirmScan(t, m, handoff)
	m, _ = m.Update(testutil.KeyPress("n"))
	require.True(t, m.scanLock)

	m, listen = openCamera(t, m)
	assert.False(t, m.scanLock)
	assert.Equal(t, uint64(2), m.camera)

	m, handoff = scan(t, m, s, listen, "CODE123")
	assert.NotNil(t, handoff)
	assert.True(t, m.scanLock)
}

func TestRedemption_ManualCloseEndsStream(t *testing.T) {
	s := testutil.NewFakeScanner(true, 1)
	m := readyRedemption(t, venueGateway(), s)
	m, _ = openCamera(t, m)
	events := m.events

	m, cmd := m.Update(testutil.KeyEsc())
	assert.Nil(t, cmd)
	assert.False(t, m.cameraOpen)
	assert.Equal(t, RedemptionReady, m.State())

	select {
	case _, ok := <-events:
		assert.False(t, ok, "stream should be closed")
	case <-time.After(testWait):
		t.Fatal("scan stream was not closed")
	}
}

func TestRedemption_StaleCameraEventsIgnored(t *testing.T) {
	s := testutil.NewFakeScanner(true, 1)
	m := readyRedemption(t, venueGateway(), s)
	m, _ = openCamera(t, m)
	old := m.camera
	m, _ = m.Update(testutil.KeyEsc())
	m, _ = openCamera(t, m)

	m, cmd := m.Update(scanEventMsg{envelope: m.env, camera: old, data: "CODE123"})
	assert.Nil(t, cmd)
	assert.False(t, m.scanLock)
	assert.Equal(t, RedemptionCameraOpen, m.State())
}

func TestRedemption_HandoffSurvivesCameraClose(t *testing.T) {
	s := testutil.NewFakeScanner(true, 1)
	m := readyRedemption(t, venueGateway(), s)
	m, listen := openCamera(t, m)
	m, handoff := scan(t, m, s, listen, "CODE123")

	m.closeCamera()
	confirmScan(t, m, handoff)
}

func TestRedemption_CloseCancelsHandoff(t *testing.T) {
	s := testutil.NewFakeScanner(true, 1)
	m := readyRedemption(t, venueGateway(), s)
	m, listen := openCamera(t, m)
	m, handoff := scan(t, m, s, listen, "CODE123")

	m.Close()
	assert.Empty(t, testutil.Drain(t, handoff, testWait))
}

func TestRedemption_ManualEntry(t *testing.T) {
	s := testutil.NewFakeScanner(true, 2)
	m := readyRedemption(t, venueGateway(), s)
	m, listen := openCamera(t, m)
	assert.Contains(t, testutil.StripANSI(m.View()), "Read QR code")

	for _, r := range "ABC" {
		m, _ = m.Update(testutil.KeyPress(string(r)))
	}
	assert.Equal(t, "ABC", m.input.Value())

	m, _ = m.Update(testutil.KeyEnter())
	assert.Empty(t, m.input.Value())

	ev, ok := testutil.Find[scanEventMsg](testutil.Drain(t, listen, testWait))
	require.True(t, ok)
	assert.Equal(t, "ABC", ev.data)
}

func TestRedemption_RedeemFailureNavigatesBack(t *testing.T) {
	g := venueGateway()
	s := testutil.NewFakeScanner(true, 1)
	m := readyRedemption(t, g, s)
	m, listen := openCamera(t, m)
	m, handoff := scan(t, m, s, listen, "BOGUS")
	m = confirmScan(t, m, handoff)

	m, msgs := stepRedemption(t, m, testutil.KeyPress("y"))
	redeemed, ok := testutil.Find[couponRedeemedMsg](msgs)
	require.True(t, ok)

	m, msgs = stepRedemption(t, m, redeemed)
	assert.Empty(t, msgs)
	assert.False(t, m.fetching)
	assert.Equal(t, RedemptionFailed, m.State())
	assert.Empty(t, m.Coupon())
	assert.Contains(t, alertText(t, m.alerts), "Could not use the coupon")
	assert.Equal(t, 1, g.CountCalls("GetVenue"))

	_, msgs = stepRedemption(t, m, testutil.KeyEnter())
	assert.Equal(t, 1, testutil.Count[navigateBackMsg](msgs))
}

func TestRedemption_BackKey(t *testing.T) {
	m := readyRedemption(t, venueGateway(), nil)

	_, msgs := stepRedemption(t, m, testutil.KeyEsc())
	back, ok := testutil.Find[navigateBackMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, uint64(testSession), back.screenSession())
}

func TestRedemptionState_String(t *testing.T) {
	assert.Equal(t, "camera_open", RedemptionCameraOpen.String())
	assert.Equal(t, "redeemed", RedemptionRedeemed.String())
	assert.Equal(t, "RedemptionState(99)", RedemptionState(99).String())
}
