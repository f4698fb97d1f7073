package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/roomprefs/internal/logger"
	"github.com/mark3labs/roomprefs/internal/notification"
	"github.com/mark3labs/roomprefs/internal/optimistic"
	"github.com/mark3labs/roomprefs/internal/state"
	"github.com/mark3labs/roomprefs/internal/troubleshoot"
	"github.com/mark3labs/roomprefs/internal/tui/theme"
)

// Options wires an App to its collaborators.
type Options struct {
	Room      notification.Room
	Presenter Presenter
	DataDir   string

	// TestNotifications and Click enable the click-test responder. Both
	// are optional.
	TestNotifications <-chan troubleshoot.TestNotification
	Click             func(id string) error
}

// notice is an error dialog that is not tied to presenter state.
type notice struct {
	title   string
	message string
}

// App is the Bubbletea model for one room's notification settings.
type App struct {
	opts      Options
	presenter Presenter

	settings *SettingsView
	dialog   *Dialog
	toast    *Toast
	help     help.Model
	keys     keyMap

	state       optimistic.State[notification.Mode]
	failures    []optimistic.ActionKind
	reported    [2]error
	notices     []notice
	lastFetched *optimistic.Setting[notification.Mode]
	requested   *notification.Mode
	wantDefault *bool
	pendingTest *troubleshoot.TestNotification
	uiState     *state.UIState

	width    int
	height   int
	quitting bool
}

// NewApp creates the TUI for opts.Room.
func NewApp(opts Options) *App {
	uiState := state.Load(opts.DataDir)
	uiState.LastRoom = opts.Room.ID

	return &App{
		opts:      opts,
		presenter: opts.Presenter,
		settings:  NewSettingsView(opts.Room),
		dialog:    NewDialog(),
		toast:     NewToast(),
		help:      help.New(),
		keys:      newKeyMap(),
		uiState:   uiState,
	}
}

// Init starts listening to the presenter and, if configured, to test
// notifications.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.waitForState(),
		a.waitForTestNotification(),
		a.settings.Tick(),
	)
}

// Update handles incoming messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.settings.SetSize(msg.Width, msg.Height)
		a.dialog.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyPressMsg:
		return a.handleKeyPress(msg)

	case StateMsg:
		cmd := a.applyState(msg.State)
		return a, tea.Batch(cmd, a.waitForState())

	case PresenterClosedMsg:
		logger.Debug("Presenter closed, quitting")
		return a, a.quit()

	case TestNotificationMsg:
		n := msg.Notification
		a.pendingTest = &n
		a.keys.Click.SetEnabled(true)
		return a, tea.Batch(
			a.toast.Show(fmt.Sprintf("%s: press c to click", n.Title)),
			a.waitForTestNotification(),
		)

	case ErrMsg:
		a.notify("Something went wrong", msg.Err.Error())
		return a, nil

	case ToastDismissMsg:
		return a, a.toast.Update(msg)
	}

	return a, a.settings.Update(msg)
}

func (a *App) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, a.quit()
	}
	if a.dialog.IsVisible() {
		cmd := a.dialog.Update(msg)
		a.showNextDialog()
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, a.quit()
	case key.Matches(msg, a.keys.Up):
		a.settings.MoveUp()
	case key.Matches(msg, a.keys.Down):
		a.settings.MoveDown()
	case key.Matches(msg, a.keys.Select):
		return a, a.selectRow()
	case key.Matches(msg, a.keys.Default):
		return a, a.toggleDefault()
	case key.Matches(msg, a.keys.Reload):
		return a, a.send(optimistic.Reload{})
	case key.Matches(msg, a.keys.Click):
		return a, a.clickTest()
	case key.Matches(msg, a.keys.Help):
		a.uiState.ShowHelp = !a.uiState.ShowHelp
	}
	return a, nil
}

func (a *App) selectRow() tea.Cmd {
	mode, ok := a.settings.SelectedMode()
	if !ok {
		return a.toggleDefault()
	}
	a.requested = &mode
	a.wantDefault = nil
	return a.send(optimistic.ChangeValue[notification.Mode]{Value: mode})
}

func (a *App) toggleDefault() tea.Cmd {
	shown, ok := a.state.Displayed()
	if !ok {
		return nil
	}
	want := !shown.IsDefault
	a.requested = nil
	a.wantDefault = &want
	return a.send(optimistic.SetDefault{IsDefault: want})
}

func (a *App) clickTest() tea.Cmd {
	if a.pendingTest == nil || a.opts.Click == nil {
		return nil
	}
	id := a.pendingTest.ID
	a.pendingTest = nil
	a.keys.Click.SetEnabled(false)
	if err := a.opts.Click(id); err != nil {
		a.notify("Click test", fmt.Sprintf("reporting click: %v", err))
		return nil
	}
	return a.toast.Show("Test notification clicked")
}

// send delivers ev to the presenter off the UI goroutine.
func (a *App) send(ev optimistic.Event) tea.Cmd {
	p := a.presenter
	return func() tea.Msg {
		if err := p.Send(ev); err != nil {
			return ErrMsg{Err: err}
		}
		return nil
	}
}

// applyState takes a new snapshot, queueing a dialog for every failure
// not reported yet and a toast for changes made elsewhere.
func (a *App) applyState(s optimistic.State[notification.Mode]) tea.Cmd {
	a.state = s
	a.settings.SetState(s)
	a.queueFailures()
	a.showNextDialog()

	if s.Authoritative.Status != optimistic.Success {
		return nil
	}
	fetched := s.Authoritative.Value
	last := a.lastFetched
	a.lastFetched = &fetched
	if last == nil || *last == fetched {
		return nil
	}
	if a.expected(fetched) {
		a.requested = nil
		a.wantDefault = nil
		return nil
	}
	return a.toast.Show(describeChange(fetched))
}

// expected reports whether fetched is the outcome of our own request.
func (a *App) expected(fetched optimistic.Setting[notification.Mode]) bool {
	if a.requested != nil && !fetched.IsDefault && fetched.Value == *a.requested {
		return true
	}
	return a.wantDefault != nil && fetched.IsDefault == *a.wantDefault
}

func describeChange(s optimistic.Setting[notification.Mode]) string {
	if s.IsDefault {
		return fmt.Sprintf("Changed elsewhere: following default (%s)", s.Value.Label())
	}
	return fmt.Sprintf("Changed elsewhere: %s", s.Value.Label())
}

var failureTitles = [2]string{
	optimistic.ActionChange:         "Couldn't change notification mode",
	optimistic.ActionRestoreDefault: "Couldn't update default setting",
}

// queueFailures queues a dialog for each action that is Failed with an
// error not reported before. Errors are compared by identity, so a new
// failure of the same kind is reported even if no other status was seen
// in between.
func (a *App) queueFailures() {
	for _, kind := range []optimistic.ActionKind{optimistic.ActionChange, optimistic.ActionRestoreDefault} {
		act := a.state.Action(kind)
		if act.Status != optimistic.Failed || act.Err == a.reported[kind] {
			continue
		}
		a.reported[kind] = act.Err
		a.failures = append(a.failures, kind)

		// The request did not take effect; whatever arrives later was done elsewhere.
		if kind == optimistic.ActionChange {
			a.requested = nil
		} else {
			a.requested = nil
			a.wantDefault = nil
		}
	}
}

func (a *App) notify(title, message string) {
	a.notices = append(a.notices, notice{title: title, message: message})
	a.showNextDialog()
}

// showNextDialog opens the next queued dialog unless one is on screen.
// Action failures come first; a queued failure that has since been
// replaced by a newer outcome is dropped.
func (a *App) showNextDialog() {
	if a.dialog.IsVisible() {
		return
	}
	for len(a.failures) > 0 {
		kind := a.failures[0]
		act := a.state.Action(kind)
		if act.Status != optimistic.Failed || act.Err != a.reported[kind] {
			a.failures = a.failures[1:]
			continue
		}
		a.dialog.Show(failureTitles[kind], errorText(act.Err), func() tea.Cmd {
			a.failures = a.failures[1:]
			return a.send(optimistic.DismissError{Kind: kind})
		})
		return
	}
	if len(a.notices) > 0 {
		n := a.notices[0]
		a.notices = a.notices[1:]
		a.dialog.Show(n.title, n.message, nil)
	}
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func (a *App) quit() tea.Cmd {
	a.quitting = true
	a.saveUIState()
	return tea.Quit
}

func (a *App) saveUIState() {
	if a.opts.DataDir == "" {
		return
	}
	if err := state.Save(a.opts.DataDir, a.uiState); err != nil {
		logger.Warn("Failed to save UI state: %v", err)
	}
}

// waitForState blocks on the next presenter snapshot.
func (a *App) waitForState() tea.Cmd {
	updates := a.presenter.Updates()
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return PresenterClosedMsg{}
		}
		return StateMsg{State: s}
	}
}

func (a *App) waitForTestNotification() tea.Cmd {
	notes := a.opts.TestNotifications
	if notes == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-notes
		if !ok {
			return nil
		}
		return TestNotificationMsg{Notification: n}
	}
}

// Render returns the screen content as a string.
func (a *App) Render() string {
	content := a.settings.View()
	if a.uiState.ShowHelp {
		content = lipgloss.JoinVertical(lipgloss.Left, content, " "+a.help.ShortHelpView(a.keys.ShortHelp()))
	}
	return content
}

// View renders the current view. In Bubbletea v2, this returns tea.View
// with display options like AltScreen.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if a.quitting {
		view.AltScreen = false
		view.Content = lipgloss.NewLayer("")
		return view
	}

	if a.width == 0 || a.height == 0 {
		view.Content = lipgloss.NewLayer(a.Render())
		return view
	}

	canvas := uv.NewScreenBuffer(a.width, a.height)
	a.Draw(canvas, canvas.Bounds())
	view.Content = lipgloss.NewLayer(canvas.Render())
	view.BackgroundColor = theme.HexToColor(theme.Current().BgCrust)
	return view
}

// Draw renders all components to the screen buffer.
func (a *App) Draw(scr uv.Screen, area uv.Rectangle) {
	body := a.Render()
	uv.NewStyledString(body).Draw(scr, uv.Rectangle{
		Min: uv.Position{X: area.Min.X + 1, Y: area.Min.Y},
		Max: uv.Position{
			X: min(area.Min.X+1+lipgloss.Width(body), area.Max.X),
			Y: min(area.Min.Y+strings.Count(body, "\n")+1, area.Max.Y),
		},
	})

	if a.dialog.IsVisible() {
		a.dialog.Draw(scr, area)
	}
	a.toast.Draw(scr, area)
}
