package widget

import (
	"context"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/hoachau/nowplaying/internal/shared"
	"github.com/hoachau/nowplaying/internal/spotify"
)

type widgetID int

const (
	widgetNowPlaying widgetID = iota
	widgetTopTracks
	widgetRecent
)

const (
	nowPlayingPeriod = 2 * time.Second
	recentPeriod     = 10 * time.Second
	topTracksPeriod  = 60 * time.Second

	// maxJitter desynchronizes the three timers (and other running
	// clients) so polls don't land in lockstep.
	maxJitter = 500 * time.Millisecond

	fadeInterval = 120 * time.Millisecond
)

type pollMsg struct{ id widgetID }

type fadeMsg struct{ id widgetID }

type resultMsg struct {
	id          widgetID
	key         string
	fingerprint string
	content     string
	err         error
}

// keyMap defines the key bindings for the widget TUI.
type keyMap struct {
	short  key.Binding
	medium key.Binding
	long   key.Binding
	retry  key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		short: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "last 4 weeks"),
		),
		medium: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "last 6 months"),
		),
		long: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "all time"),
		),
		retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.short, k.medium, k.long, k.retry, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.short, k.medium, k.long},
		{k.retry, k.quit},
	}
}

// Model drives the three widget panels from one bubbletea event loop.
// Each panel polls on its own jittered timer; fetches run as commands so
// the loop itself never blocks.
type Model struct {
	ctx     context.Context
	client  *Client
	logger  *log.Logger
	panels  map[widgetID]*Panel
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates the widget TUI model.
func NewModel(ctx context.Context, client *Client, policy FailurePolicy, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		ctx:    ctx,
		client: client,
		logger: logger,
		panels: map[widgetID]*Panel{
			widgetNowPlaying: NewPanel("Now Playing", "now-playing", policy),
			widgetTopTracks:  NewPanel("Top Tracks", string(spotify.MediumTerm), policy),
			widgetRecent:     NewPanel("Recently Played", "recent", policy),
		},
		spinner: sp,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts the spinner and fires the first poll for every panel.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		pollNow(widgetNowPlaying),
		pollNow(widgetTopTracks),
		pollNow(widgetRecent),
	)
}

func pollNow(id widgetID) tea.Cmd {
	return func() tea.Msg { return pollMsg{id: id} }
}

func (m *Model) schedule(id widgetID) tea.Cmd {
	var period time.Duration
	switch id {
	case widgetNowPlaying:
		period = nowPlayingPeriod
	case widgetRecent:
		period = recentPeriod
	default:
		period = topTracksPeriod
	}

	jitter := time.Duration(rand.Int63n(int64(maxJitter)))
	return tea.Tick(period+jitter, func(time.Time) tea.Msg { return pollMsg{id: id} })
}

func fadeTick(id widgetID) tea.Cmd {
	return tea.Tick(fadeInterval, func(time.Time) tea.Msg { return fadeMsg{id: id} })
}

// fetch builds the command that polls one widget. The active cache key
// is captured up front so a result for a bucket the user has already
// left is dropped instead of applied.
func (m *Model) fetch(id widgetID) tea.Cmd {
	cacheKey := m.panels[id].Key()

	return func() tea.Msg {
		switch id {
		case widgetNowPlaying:
			payload, err := m.client.NowPlaying(m.ctx)
			if err != nil {
				return resultMsg{id: id, key: cacheKey, err: err}
			}
			return resultMsg{
				id:          id,
				key:         cacheKey,
				fingerprint: FingerprintNowPlaying(payload),
				content:     RenderNowPlaying(payload),
			}
		case widgetTopTracks:
			payload, err := m.client.TopTracks(m.ctx, spotify.TimeRange(cacheKey))
			if err != nil {
				return resultMsg{id: id, key: cacheKey, err: err}
			}
			return resultMsg{
				id:          id,
				key:         cacheKey,
				fingerprint: FingerprintTopTracks(payload),
				content:     RenderTopTracks(payload),
			}
		default:
			payload, err := m.client.Recent(m.ctx)
			if err != nil {
				return resultMsg{id: id, key: cacheKey, err: err}
			}
			return resultMsg{
				id:          id,
				key:         cacheKey,
				fingerprint: FingerprintRecent(payload),
				content:     RenderRecent(payload),
			}
		}
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pollMsg:
		m.panels[msg.id].StartLoad()
		return m, tea.Batch(m.fetch(msg.id), m.schedule(msg.id))

	case resultMsg:
		return m.applyResult(msg)

	case fadeMsg:
		if m.panels[msg.id].StepFade() {
			return m, fadeTick(msg.id)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

func (m *Model) applyResult(msg resultMsg) (tea.Model, tea.Cmd) {
	panel := m.panels[msg.id]

	// A result for a bucket the panel no longer shows must not touch
	// the display.
	if msg.key != panel.Key() {
		return m, nil
	}

	if msg.err != nil {
		if shown := panel.Fail(msg.err); shown {
			m.logger.Warn("widget poll failed", "widget", panel.Title(), "error", msg.err)
		} else {
			m.logger.Debug("transient poll failure, keeping content", "widget", panel.Title(), "error", msg.err)
		}
		return m, nil
	}

	if outcome := panel.Apply(msg.fingerprint, msg.content); outcome == ApplyFading {
		return m, fadeTick(msg.id)
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.retry):
		// Fetch directly instead of injecting a pollMsg: poll messages
		// reschedule themselves, and a retry must not start a second
		// timer chain for the widget.
		var cmds []tea.Cmd
		for id, panel := range m.panels {
			if panel.Phase() == PhaseError {
				panel.StartLoad()
				cmds = append(cmds, m.fetch(id))
			}
		}
		return m, tea.Batch(cmds...)

	case key.Matches(msg, m.keys.short):
		return m.selectRange(spotify.ShortTerm)
	case key.Matches(msg, m.keys.medium):
		return m.selectRange(spotify.MediumTerm)
	case key.Matches(msg, m.keys.long):
		return m.selectRange(spotify.LongTerm)
	}

	return m, nil
}

// selectRange switches the top-tracks bucket. A cached bucket renders
// instantly with no network call; an unseen bucket triggers one fetch.
func (m *Model) selectRange(tr spotify.TimeRange) (tea.Model, tea.Cmd) {
	panel := m.panels[widgetTopTracks]
	if needFetch := panel.SetKey(string(tr)); needFetch {
		return m, m.fetch(widgetTopTracks)
	}
	return m, nil
}

var (
	selectorStyle       = lipgloss.NewStyle().Faint(true)
	selectorActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
)

func (m *Model) rangeSelector() string {
	active := m.panels[widgetTopTracks].Key()
	render := func(label string, tr spotify.TimeRange) string {
		if string(tr) == active {
			return selectorActiveStyle.Render(label)
		}
		return selectorStyle.Render(label)
	}

	return "  " + render("[1] 4 weeks", spotify.ShortTerm) +
		"  " + render("[2] 6 months", spotify.MediumTerm) +
		"  " + render("[3] all time", spotify.LongTerm)
}

// View renders the three panels stacked with the range selector and help.
func (m *Model) View() string {
	sp := m.spinner.View()

	return lipgloss.JoinVertical(lipgloss.Left,
		m.panels[widgetNowPlaying].View(sp),
		m.panels[widgetTopTracks].View(sp),
		m.rangeSelector(),
		m.panels[widgetRecent].View(sp),
		m.help.View(m.keys),
	) + "\n"
}
