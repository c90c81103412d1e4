package ui

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"photogrip/internal/config"
	"photogrip/internal/domain"
	"photogrip/internal/eventbus"
	"photogrip/internal/logger"
	"photogrip/internal/ui/coordinator"
	"photogrip/internal/ui/input"
	inputtypes "photogrip/internal/ui/input/types"
	"photogrip/internal/ui/services/navigation"
	"photogrip/internal/ui/views"
)

// EnvE2E makes the view print a readiness marker for terminal tests
const EnvE2E = "PHOTOGRIP_E2E_TEST"

// Model represents the UI state
type Model struct {
	coord  *coordinator.Coordinator
	config *config.Config
	log    *logger.Logger

	width  int
	height int

	snapshot        domain.Snapshot
	suggestions     []string
	suggestionIndex int
	storageDegraded bool
	statusMessage   string

	showHelp         bool
	helpScrollOffset int
	showInfo         bool
	infoContent      string
	inPagerMode      bool
	initialQuery     string
	e2e              bool

	spinner      spinner.Model
	navigator    *navigation.Service
	renderer     *views.Renderer
	inputHandler *input.Handler
	photoOps     *PhotoOps

	// Program reference for terminal management
	program *tea.Program
}

// Option configures a Model
type Option func(*Model)

// WithInitialQuery starts with a search instead of the recent feed
func WithInitialQuery(query string) Option {
	return func(m *Model) {
		m.initialQuery = query
	}
}

// WithLogger sets the logger
func WithLogger(log *logger.Logger) Option {
	return func(m *Model) {
		m.log = log
	}
}

// NewModel creates a new UI model
func NewModel(coord *coordinator.Coordinator, cfg *config.Config, opts ...Option) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		coord:        coord,
		config:       cfg,
		log:          logger.Discard(),
		spinner:      sp,
		navigator:    navigation.NewService(),
		renderer:     views.NewRenderer(cfg.UI.ShowURLs),
		inputHandler: input.New(),
		photoOps:     NewPhotoOps(),
		e2e:          os.Getenv(EnvE2E) == "1",
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.WithComponent("ui")

	m.navigator.SetRowHeight(m.renderer.RowHeight())
	m.navigator.SetCountFunction(func() int {
		return len(m.snapshot.Results)
	})
	m.snapshot = coord.Snapshot()
	// a store that failed to open degrades before anyone subscribes
	m.storageDegraded = coord.Suggestions.Degraded()
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.photoOps.SetProgram(p)
}

// Init starts the spinner and loads the first page
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start())
}

func (m *Model) start() tea.Cmd {
	if m.initialQuery != "" {
		m.inputHandler.SetValue(m.initialQuery)
		m.coord.OnTextChanged(m.initialQuery)
		query := m.initialQuery
		return func() tea.Msg {
			m.coord.Flush()
			m.log.WithField(logger.FieldQuery, query).Debug("initial search issued")
			return startedMsg{}
		}
	}
	return func() tea.Msg {
		return startedMsg{err: m.coord.Start()}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewportHeight()
		m.syncVisibility()
		return m, nil

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}
		if m.showHelp {
			return m, m.handleHelpKey(msg)
		}
		if m.showInfo {
			switch msg.String() {
			case "esc", "i", "I", "q":
				m.showInfo = false
				m.infoContent = ""
			}
			return m, nil
		}
		return m, m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		// Resync in case a state event was dropped
		m.refresh()
		return m, cmd

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case startedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("initial load rejected")
		}
		m.refresh()
		return m, nil

	case photoPagerMsg:
		m.inPagerMode = false
		if msg.err != nil {
			m.statusMessage = "Could not open pager: " + msg.err.Error()
			m.log.WithError(msg.err).WithField("photo", msg.photoID).Warn("pager failed")
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil
	}

	if cmd := m.inputHandler.Update(msg); cmd != nil {
		return m, cmd
	}
	return m, nil
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.inPagerMode {
		return ""
	}

	ti := m.inputHandler.TextInput()
	state := views.ViewState{
		Width:            m.width,
		Height:           m.height,
		SearchInput:      ti.View(),
		SearchFocused:    m.inputHandler.CurrentMode() == inputtypes.ModeSearch,
		Suggestions:      m.suggestions,
		SuggestionIndex:  m.suggestionIndex,
		Snapshot:         m.snapshot,
		Cursor:           m.navigator.GetCursor(),
		ViewportOffset:   m.navigator.GetViewportOffset(),
		ViewportHeight:   m.navigator.GetViewportHeight(),
		Spinner:          m.spinner.View(),
		ShowHelp:         m.showHelp,
		HelpScrollOffset: m.helpScrollOffset,
		ShowInfo:         m.showInfo,
		InfoContent:      m.infoContent,
		StatusMessage:    m.statusMessage,
		StorageDegraded:  m.storageDegraded,
	}
	out := m.renderer.Render(state)
	if m.e2e {
		out += "\n__READY__"
	}
	return out
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	ctx := &input.ModelContext{
		Cursor:      m.navigator.GetCursor(),
		Count:       len(m.snapshot.Results),
		Suggestions: len(m.suggestions),
		Failed:      m.snapshot.Errored,
	}

	actions, cmd := m.inputHandler.HandleKey(msg, ctx)

	cmds := []tea.Cmd{}
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	for _, action := range actions {
		if actionCmd := m.processAction(action); actionCmd != nil {
			cmds = append(cmds, actionCmd)
		}
	}
	// the suggestion dropdown changes the space left for rows
	m.updateViewportHeight()
	return tea.Batch(cmds...)
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "?", "q":
		m.showHelp = false
		m.helpScrollOffset = 0
	case "j", "down":
		m.helpScrollOffset++
	case "k", "up":
		if m.helpScrollOffset > 0 {
			m.helpScrollOffset--
		}
	case "ctrl+c":
		m.coord.Close()
		return tea.Quit
	}
	return nil
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigator.Navigate(navigation.Direction(a.Direction))
		m.syncVisibility()

	case inputtypes.UpdateTextAction:
		m.changeQuery(a.Text)

	case inputtypes.ClearTextAction:
		m.inputHandler.SetValue("")
		m.changeQuery("")

	case inputtypes.SubmitTextAction:
		m.coord.Flush()
		m.suggestions = nil
		m.refresh()

	case inputtypes.MoveSuggestionAction:
		n := len(m.suggestions)
		if n > views.MaxDropdown {
			n = views.MaxDropdown
		}
		if n > 0 {
			m.suggestionIndex = ((m.suggestionIndex+a.Delta)%n + n) % n
		}

	case inputtypes.AcceptSuggestionAction:
		if m.suggestionIndex < 0 || m.suggestionIndex >= len(m.suggestions) {
			return nil
		}
		picked := m.suggestions[m.suggestionIndex]
		m.inputHandler.SetValue(picked)
		m.coord.OnSuggestionSelected(picked)
		m.suggestions = nil
		m.suggestionIndex = 0
		m.resetList()

	case inputtypes.OpenPhotoAction:
		photo, ok := m.currentPhoto()
		if !ok {
			return nil
		}
		return m.openPhotoPager(photo)

	case inputtypes.ToggleInfoAction:
		photo, ok := m.currentPhoto()
		if !ok {
			return nil
		}
		m.showInfo = !m.showInfo
		if m.showInfo {
			m.infoContent = PhotoDetails(photo, m.navigator.GetCursor()+1, len(m.snapshot.Results), m.snapshot.Query)
		}

	case inputtypes.ToggleHelpAction:
		m.showHelp = !m.showHelp
		m.helpScrollOffset = 0

	case inputtypes.RetryAction:
		m.statusMessage = ""
		if err := m.coord.Retry(); err != nil {
			m.log.WithError(err).Debug("retry rejected")
		}
		m.refresh()

	case inputtypes.QuitAction:
		m.coord.Close()
		return tea.Quit
	}
	return nil
}

// changeQuery handles every edit of the search text
func (m *Model) changeQuery(text string) {
	m.coord.OnTextChanged(text)
	m.suggestions = m.coord.VisibleSuggestions()
	m.suggestionIndex = 0
	m.resetList()
}

func (m *Model) resetList() {
	m.navigator.Reset()
	m.refresh()
}

func (m *Model) handleEvent(event eventbus.DomainEvent) {
	switch e := event.(type) {
	case domain.StateChangedEvent, domain.FetchCompletedEvent:
		m.refresh()

	case domain.SuggestionsChangedEvent:
		m.suggestions = m.coord.VisibleSuggestions()
		if m.suggestionIndex >= len(m.suggestions) {
			m.suggestionIndex = 0
		}

	case domain.StorageDegradedEvent:
		m.storageDegraded = true
		m.statusMessage = "Search history unavailable, continuing without suggestions"

	case domain.ErrorEvent:
		m.statusMessage = e.Message
	}
}

// refresh pulls the latest session state and re-arms the scroll sentinel
func (m *Model) refresh() {
	snap := m.coord.Snapshot()
	if snap.Generation != m.snapshot.Generation {
		m.navigator.Reset()
	}
	m.snapshot = snap
	m.syncVisibility()
}

// syncVisibility watches the last rendered photo and reports whether it
// is on screen
func (m *Model) syncVisibility() {
	last, ok := m.snapshot.LastPhoto()
	if !ok || m.height == 0 {
		m.coord.RegisterLastItem("")
		return
	}
	m.coord.RegisterLastItem(last.ID)
	m.coord.ReportVisibility(last.ID, m.navigator.IsVisible(len(m.snapshot.Results)-1))
}

func (m *Model) currentPhoto() (domain.Photo, bool) {
	i := m.navigator.GetCursor()
	if i < 0 || i >= len(m.snapshot.Results) {
		return domain.Photo{}, false
	}
	return m.snapshot.Results[i], true
}

// updateViewportHeight recalculates how many rows fit below the search box
func (m *Model) updateViewportHeight() {
	height := m.height
	if m.inputHandler.CurrentMode() == inputtypes.ModeSearch && len(m.suggestions) > 0 {
		rows := len(m.suggestions)
		if rows > views.MaxDropdown {
			rows = views.MaxDropdown + 1
		}
		height -= rows
	}
	m.navigator.SetViewportHeight(height)
}

// openPhotoPager returns a command that shows photo details in the pager,
// pausing and resuming rendering around it
func (m *Model) openPhotoPager(photo domain.Photo) tea.Cmd {
	content := PhotoDetails(photo, m.navigator.GetCursor()+1, len(m.snapshot.Results), m.snapshot.Query)
	if m.program == nil {
		m.showInfo = true
		m.infoContent = content
		return nil
	}
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.photoOps.ShowInPager(content)
		m.program.Send(resumeRenderingMsg{})
		return photoPagerMsg{photoID: photo.ID, err: err}
	}
}
