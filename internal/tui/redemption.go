package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/nearby/internal/common"
	"github.com/Veraticus/nearby/internal/model"
	"github.com/Veraticus/nearby/internal/service"
	"github.com/Veraticus/nearby/internal/tui/components"
	"github.com/Veraticus/nearby/internal/tui/themes"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RedemptionState is the position of the venue screen in the
// scan-to-redeem flow.
type RedemptionState int

const (
	RedemptionLoading RedemptionState = iota
	RedemptionReady
	RedemptionNotFound
	RedemptionPermissionPending
	RedemptionCameraOpen
	RedemptionScanCaptured
	RedemptionConfirming
	RedemptionRedeeming
	RedemptionRedeemed
	RedemptionFailed
)

func (s RedemptionState) String() string {
	switch s {
	case RedemptionLoading:
		return "loading"
	case RedemptionReady:
		return "ready"
	case RedemptionNotFound:
		return "not_found"
	case RedemptionPermissionPending:
		return "permission_pending"
	case RedemptionCameraOpen:
		return "camera_open"
	case RedemptionScanCaptured:
		return "scan_captured"
	case RedemptionConfirming:
		return "confirming"
	case RedemptionRedeeming:
		return "redeeming"
	case RedemptionRedeemed:
		return "redeemed"
	case RedemptionFailed:
		return "failed"
	default:
		return fmt.Sprintf("RedemptionState(%d)", int(s))
	}
}

// manualFeed is implemented by scanners that accept typed payloads.
type manualFeed interface {
	Push(data string) int
}

// RedemptionModel is the venue screen. It loads the venue, reads a QR code
// and redeems the coupon it encodes.
type RedemptionModel struct {
	ctx              context.Context
	gateway          service.Gateway
	scanner          service.Scanner
	cancel           context.CancelFunc
	cameraCancel     context.CancelFunc
	detail           *model.VenueDetail
	confirm          *components.ConfirmModel
	events           <-chan service.ScanEvent
	keys             KeyMap
	theme            themes.Theme
	venueID          string
	coupon           string
	pendingCode      string
	alerts           components.AlertModel
	input            textinput.Model
	spinner          spinner.Model
	handoffDelay     time.Duration
	env              envelope
	detailGeneration uint64
	camera           uint64
	state            RedemptionState
	width            int
	height           int
	scanLock         bool
	cameraOpen       bool
	fetching         bool
}

// NewRedemptionModel creates the screen for one venue. Its commands run
// under a child of ctx that Close cancels.
func NewRedemptionModel(ctx context.Context, session uint64, venueID string, cfg Config) RedemptionModel {
	ctx, cancel := context.WithCancel(ctx)

	input := textinput.New()
	input.Placeholder = "paste or type the code, then Enter"
	input.CharLimit = 128
	input.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(cfg.Theme.Primary)

	m := RedemptionModel{
		ctx:          ctx,
		cancel:       cancel,
		env:          envelope{session: session},
		gateway:      cfg.Gateway,
		scanner:      cfg.Scanner,
		keys:         DefaultKeyMap(),
		theme:        cfg.Theme,
		venueID:      venueID,
		handoffDelay: cfg.HandoffDelay,
		alerts:       components.NewAlertModel(cfg.Theme),
		input:        input,
		spinner:      s,
		state:        RedemptionLoading,
	}
	m.Resize(cfg.Width, cfg.Height)
	return m
}

// Init starts the first detail load.
func (m *RedemptionModel) Init() tea.Cmd {
	return m.loadDetail()
}

// Close cancels every in-flight command of the screen, including an open
// camera and a scheduled handoff.
func (m RedemptionModel) Close() {
	if m.cameraCancel != nil {
		m.cameraCancel()
	}
	m.cancel()
}

// State returns the current flow state.
func (m RedemptionModel) State() RedemptionState {
	return m.state
}

// Coupon returns the code redeemed in this session.
func (m RedemptionModel) Coupon() string {
	return m.coupon
}

// Update handles messages.
func (m RedemptionModel) Update(msg tea.Msg) (RedemptionModel, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		return m, m.handleDetail(msg)

	case permissionResultMsg:
		return m, m.handlePermission(msg)

	case cameraStreamMsg:
		return m, m.handleCameraStream(msg)

	case scanEventMsg:
		if msg.camera != m.camera || !m.cameraOpen {
			return m, nil
		}
		if cmd := m.onScanEvent(msg.data); cmd != nil {
			return m, cmd
		}
		// Rejected event: keep listening on the same session.
		return m, m.listen()

	case scanStreamClosedMsg:
		if msg.camera == m.camera && m.cameraOpen {
			common.LogInfo("scanner stream ended", common.Fields{"venue": m.venueID})
			m.closeCamera()
			m.state = m.idleState()
		}
		return m, nil

	case scanHandoffMsg:
		if m.state != RedemptionScanCaptured {
			return m, nil
		}
		m.confirmRedeem(msg.code)
		return m, nil

	case couponRedeemedMsg:
		return m, m.handleRedeemed(msg)

	case spinner.TickMsg:
		if !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *RedemptionModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.alerts.Active() {
		var cmd tea.Cmd
		m.alerts, cmd = m.alerts.Update(msg)
		return cmd
	}

	if m.state == RedemptionConfirming && m.confirm != nil {
		confirm, _ := m.confirm.Update(msg)
		m.confirm = &confirm
		if !confirm.IsComplete() {
			return nil
		}

		m.confirm = nil
		code := m.pendingCode
		m.pendingCode = ""
		if confirm.Confirmed() {
			return m.getCoupon(code)
		}
		m.state = m.idleState()
		return nil
	}

	if m.cameraOpen {
		switch msg.Type {
		case tea.KeyEsc:
			m.closeCamera()
			m.state = m.idleState()
			return nil

		case tea.KeyEnter:
			data := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if feed, ok := m.scanner.(manualFeed); ok && data != "" {
				feed.Push(data)
			}
			return nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return emit(navigateBackMsg{envelope: m.env})

	case key.Matches(msg, m.keys.Scan):
		return m.requestCameraAccess()
	}
	return nil
}

// idleState is where the flow rests between camera sessions.
func (m RedemptionModel) idleState() RedemptionState {
	if m.coupon != "" {
		return RedemptionRedeemed
	}
	return RedemptionReady
}

// loadDetail fetches the venue. The request is keyed on the venue and the
// coupon held when it was issued; only the latest one is applied.
func (m *RedemptionModel) loadDetail() tea.Cmd {
	m.detailGeneration++
	ctx, env, gateway := m.ctx, m.env, m.gateway
	generation, venueID, coupon := m.detailGeneration, m.venueID, m.coupon

	return func() tea.Msg {
		msg := detailLoadedMsg{envelope: env, generation: generation, coupon: coupon}
		if gateway == nil {
			msg.err = fmt.Errorf("gateway not configured")
			return msg
		}

		msg.detail, msg.err = gateway.GetVenue(ctx, venueID)
		return msg
	}
}

func (m *RedemptionModel) handleDetail(msg detailLoadedMsg) tea.Cmd {
	if msg.generation != m.detailGeneration || msg.coupon != m.coupon {
		return nil
	}

	switch {
	case errors.Is(msg.err, context.Canceled):
		return nil

	case msg.err != nil:
		m.state = RedemptionFailed
		m.detail = nil
		m.fail("load_detail", fmt.Errorf("%w: %w", common.ErrLoadFailure, msg.err),
			"Could not load the venue data", navigateBackMsg{envelope: m.env})
		return nil

	case msg.detail == nil:
		m.state = RedemptionNotFound
		return emit(redirectHomeMsg{envelope: m.env})
	}

	m.detail = msg.detail
	if m.state == RedemptionLoading {
		m.state = m.idleState()
	}
	return nil
}

// requestCameraAccess asks for camera permission. It only runs while the
// flow is idle.
func (m *RedemptionModel) requestCameraAccess() tea.Cmd {
	if m.state != RedemptionReady && m.state != RedemptionRedeemed {
		return nil
	}
	if m.scanner == nil {
		m.fail("request_permission", fmt.Errorf("scanner not configured"), "Could not open the camera", nil)
		return nil
	}

	m.state = RedemptionPermissionPending
	ctx, env, scanner := m.ctx, m.env, m.scanner
	return func() tea.Msg {
		granted, err := scanner.RequestPermission(ctx)
		return permissionResultMsg{envelope: env, granted: granted, err: err}
	}
}

func (m *RedemptionModel) handlePermission(msg permissionResultMsg) tea.Cmd {
	if m.state != RedemptionPermissionPending {
		return nil
	}

	switch {
	case errors.Is(msg.err, context.Canceled):
		return nil

	case msg.err != nil:
		m.state = m.idleState()
		m.fail("request_permission", msg.err, "Could not open the camera", nil)
		return nil

	case !msg.granted:
		m.state = m.idleState()
		common.LogInfo("camera permission denied", common.Fields{"venue": m.venueID})
		m.alerts.Push(components.Alert{
			Title:   "Camera",
			Message: common.UserMessage(common.ErrPermissionDenied, "You need to allow camera access to read the QR code"),
		})
		return nil
	}

	return m.openCamera()
}

// openCamera shows the camera modal and subscribes to a fresh scan stream.
// The scan lock is released for the new session.
func (m *RedemptionModel) openCamera() tea.Cmd {
	m.scanLock = false
	m.cameraOpen = true
	m.state = RedemptionCameraOpen
	m.camera++

	ctx, cancel := context.WithCancel(m.ctx)
	m.cameraCancel = cancel
	m.input.Reset()
	m.input.Focus()

	env, camera, scanner := m.env, m.camera, m.scanner
	return func() tea.Msg {
		events, err := scanner.Open(ctx)
		return cameraStreamMsg{envelope: env, camera: camera, events: events, err: err}
	}
}

func (m *RedemptionModel) handleCameraStream(msg cameraStreamMsg) tea.Cmd {
	if msg.camera != m.camera || !m.cameraOpen {
		return nil
	}

	if msg.err != nil {
		m.closeCamera()
		m.state = m.idleState()
		if !errors.Is(msg.err, context.Canceled) {
			m.fail("open_camera", msg.err, "Could not open the camera", nil)
		}
		return nil
	}

	m.events = msg.events
	return m.listen()
}

func (m RedemptionModel) listen() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return waitForScan(m.env, m.camera, m.events)
}

// closeCamera hides the modal and ends its scan stream.
func (m *RedemptionModel) closeCamera() {
	if m.cameraCancel != nil {
		m.cameraCancel()
		m.cameraCancel = nil
	}
	m.cameraOpen = false
	m.events = nil
	m.input.Blur()
}

// onScanEvent takes the first non-empty payload of a camera session. The
// lock is taken before anything else so later frames of the same code are
// rejected. The confirmation follows after the handoff delay.
func (m *RedemptionModel) onScanEvent(data string) tea.Cmd {
	if data == "" || m.scanLock {
		return nil
	}

	m.scanLock = true
	m.closeCamera()
	m.state = RedemptionScanCaptured
	m.pendingCode = data

	return delay(m.ctx, m.handoffDelay, scanHandoffMsg{envelope: m.env, code: data})
}

// confirmRedeem asks the user whether to spend the coupon.
func (m *RedemptionModel) confirmRedeem(code string) {
	m.closeCamera()
	m.state = RedemptionConfirming
	m.pendingCode = code

	confirm := components.NewConfirmModel(
		"Coupon",
		"A redeemed coupon cannot be reused. Do you really want to redeem it?",
		"No", "Yes",
		m.theme,
	)
	confirm.Resize(m.width, m.height)
	m.confirm = &confirm
}

// getCoupon redeems code.
func (m *RedemptionModel) getCoupon(code string) tea.Cmd {
	m.fetching = true
	m.state = RedemptionRedeeming

	ctx, env, gateway := m.ctx, m.env, m.gateway
	redeem := func() tea.Msg {
		msg := couponRedeemedMsg{envelope: env, code: code}
		if gateway == nil {
			msg.err = fmt.Errorf("gateway not configured")
			return msg
		}

		msg.coupon, msg.err = gateway.RedeemCoupon(ctx, code)
		return msg
	}

	return tea.Batch(redeem, m.spinner.Tick)
}

func (m *RedemptionModel) handleRedeemed(msg couponRedeemedMsg) tea.Cmd {
	if m.state != RedemptionRedeeming {
		return nil
	}
	m.fetching = false

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return nil
		}
		m.state = RedemptionFailed
		m.fail("redeem_coupon", fmt.Errorf("%w: %w", common.ErrRedemptionFailure, msg.err),
			"Could not use the coupon", navigateBackMsg{envelope: m.env})
		return nil
	}

	common.LogInfo("coupon redeemed", common.Fields{"venue": m.venueID, "code": msg.code})
	m.alerts.Push(components.Alert{Title: "Coupon", Message: msg.coupon.Code})

	changed := msg.coupon.Code != m.coupon
	m.coupon = msg.coupon.Code
	m.state = RedemptionRedeemed
	if !changed {
		return nil
	}
	return m.loadDetail()
}

// fail logs err and queues an alert. onAck runs after the user dismisses
// it.
func (m *RedemptionModel) fail(op string, err error, message string, onAck tea.Msg) {
	common.LogWarn(err, "redemption step failed", common.Fields{"operation": op, "venue": m.venueID})
	m.alerts.Push(components.Alert{
		Title:   "Error",
		Message: common.UserMessage(err, message),
		Error:   true,
		OnAck:   onAck,
	})
}

// Resize updates the layout.
func (m *RedemptionModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.alerts.Resize(width, height)
	if m.confirm != nil {
		m.confirm.Resize(width, height)
	}
}

// View renders the screen.
func (m RedemptionModel) View() string {
	switch {
	case m.alerts.Active():
		return m.alerts.View()

	case m.confirm != nil:
		return m.confirm.View()

	case m.cameraOpen:
		input := ""
		if _, ok := m.scanner.(manualFeed); ok {
			input = m.input.View()
		}
		return components.RenderCameraModal(input, m.fetching, m.spinner.View(), m.width, m.height, m.theme)
	}

	switch m.state {
	case RedemptionLoading:
		return m.theme.StatusPending.Render("Loading venue...")
	case RedemptionNotFound, RedemptionFailed:
		return ""
	}
	if m.detail == nil {
		return ""
	}

	status := ""
	switch m.state {
	case RedemptionPermissionPending:
		status = m.theme.StatusPending.Render("Waiting for camera permission...")
	case RedemptionScanCaptured:
		status = m.theme.StatusInfo.Render("QR code read")
	case RedemptionRedeeming:
		status = m.spinner.View() + " " + m.theme.StatusPending.Render("Redeeming coupon...")
	}

	sections := []string{components.RenderVenueDetail(*m.detail, m.coupon, m.width, m.theme)}
	if status != "" {
		sections = append(sections, "", status)
	}
	sections = append(sections, "", renderHelp(m.keys.RedemptionHelp(), m.theme))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
