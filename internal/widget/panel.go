package widget

import (
	"github.com/charmbracelet/lipgloss"
)

// Phase is a panel's position in its poll/render cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseRendered
	PhaseError
	PhaseFadingOut
	PhaseFadingIn
)

// FailurePolicy decides what a panel offers after a failed first load.
// The two behaviors used to be two near-identical renderers; they are
// one configurable panel now.
type FailurePolicy int

const (
	// PolicyRetryHint shows a "press r to retry" hint under the error.
	PolicyRetryHint FailurePolicy = iota
	// PolicySilent shows only the typed error message.
	PolicySilent
)

// ParseFailurePolicy maps the config string onto a policy, defaulting to
// the retry hint.
func ParseFailurePolicy(s string) FailurePolicy {
	if s == "silent" {
		return PolicySilent
	}
	return PolicyRetryHint
}

// fadeSteps is the number of ticks each fade direction takes.
const fadeSteps = 3

// ApplyOutcome reports what a poll result did to the panel.
type ApplyOutcome int

const (
	// ApplyUnchanged means the fingerprint matched and nothing was touched.
	ApplyUnchanged ApplyOutcome = iota
	// ApplySwapped means content was replaced without a visible transition.
	ApplySwapped
	// ApplyFading means a fade-out/swap/fade-in transition has started.
	ApplyFading
)

// Panel is one widget's state machine:
// Idle → Loading → {Rendered | Error} → Loading → …, with Rendered
// content passing through FadingOut/FadingIn on change.
type Panel struct {
	title  string
	policy FailurePolicy
	cache  *Cache

	phase   Phase
	key     string
	content string
	pending string
	fade    int
	errMsg  string
}

// NewPanel creates an idle panel caching under the given initial key.
func NewPanel(title, key string, policy FailurePolicy) *Panel {
	return &Panel{
		title:  title,
		policy: policy,
		cache:  NewCache(),
		phase:  PhaseIdle,
		key:    key,
	}
}

// Title returns the panel's display title.
func (p *Panel) Title() string { return p.title }

// Phase returns the current lifecycle phase.
func (p *Panel) Phase() Phase { return p.phase }

// Key returns the active cache key.
func (p *Panel) Key() string { return p.key }

// HasContent reports whether usable content is on screen.
func (p *Panel) HasContent() bool { return p.content != "" }

// SetKey switches the panel to another cache bucket. A previously
// fetched bucket re-renders instantly from cache with no transition; an
// unseen bucket clears the panel and reports that a fetch is needed.
func (p *Panel) SetKey(key string) (needFetch bool) {
	if key == p.key && (p.phase != PhaseIdle || p.cache.Has(key)) {
		return false
	}
	p.key = key
	p.pending = ""
	p.fade = 0
	p.errMsg = ""

	if e, ok := p.cache.Get(key); ok {
		p.content = e.Content
		p.phase = PhaseRendered
		return false
	}

	p.content = ""
	p.phase = PhaseLoading
	return true
}

// StartLoad marks the start of a poll cycle. The loading placeholder
// only appears when there is nothing worth keeping on screen; steady-
// state refreshes leave the current content visible.
func (p *Panel) StartLoad() {
	if p.content == "" || p.phase == PhaseError {
		p.errMsg = ""
		p.phase = PhaseLoading
	}
}

// Apply feeds a successful poll result into the panel.
//
// A fingerprint matching the cached one for the active key is a no-op,
// which is the property that keeps unchanged data from flickering.
// Changed content is cached together with its fingerprint, then either
// swapped silently (identical visible text, or empty panel) or pushed
// through the fade transition.
func (p *Panel) Apply(fingerprint, content string) ApplyOutcome {
	p.errMsg = ""

	switch p.phase {
	case PhaseRendered, PhaseFadingOut, PhaseFadingIn:
		// A match mid-fade is unchanged too; restarting the transition
		// from a fast poll would stall it indefinitely.
		if e, ok := p.cache.Get(p.key); ok && e.Fingerprint == fingerprint {
			return ApplyUnchanged
		}
	}

	p.cache.Put(p.key, fingerprint, content)

	if p.content == content || p.content == "" {
		p.content = content
		p.pending = ""
		p.fade = 0
		p.phase = PhaseRendered
		return ApplySwapped
	}

	p.pending = content
	p.fade = fadeSteps
	p.phase = PhaseFadingOut
	return ApplyFading
}

// StepFade advances the transition by one tick and reports whether the
// panel is still animating.
func (p *Panel) StepFade() bool {
	switch p.phase {
	case PhaseFadingOut:
		p.fade--
		if p.fade <= 0 {
			p.content = p.pending
			p.pending = ""
			p.phase = PhaseFadingIn
			p.fade = fadeSteps
		}
		return true
	case PhaseFadingIn:
		p.fade--
		if p.fade <= 0 {
			p.fade = 0
			p.phase = PhaseRendered
			return false
		}
		return true
	default:
		return false
	}
}

// Fail feeds a poll failure into the panel. Valid content already on
// screen is never clobbered by a transient error; the typed message only
// shows when the panel is empty or already showing an error. Reports
// whether the error became visible.
func (p *Panel) Fail(err error) bool {
	if p.content != "" && p.phase != PhaseError {
		return false
	}

	p.content = ""
	p.pending = ""
	p.fade = 0
	p.errMsg = ErrorMessage(err)
	p.phase = PhaseError
	return true
}

// ErrorShown returns the visible error message, if any.
func (p *Panel) ErrorShown() string { return p.errMsg }

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(52)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	hintStyle    = lipgloss.NewStyle().Faint(true)
	loadingStyle = lipgloss.NewStyle().Faint(true)

	// fadeRamp approximates opacity in a terminal: index 0 is nearly
	// invisible, the last entry is full brightness.
	fadeRamp = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		lipgloss.NewStyle(),
	}
)

func (p *Panel) fadeStyle() lipgloss.Style {
	switch p.phase {
	case PhaseFadingOut:
		return fadeRamp[p.fade]
	case PhaseFadingIn:
		return fadeRamp[fadeSteps-p.fade]
	default:
		return fadeRamp[fadeSteps]
	}
}

// View renders the panel with its border and title. spinnerView is the
// shared spinner frame shown while loading.
func (p *Panel) View(spinnerView string) string {
	var body string
	switch p.phase {
	case PhaseIdle, PhaseLoading:
		body = loadingStyle.Render(spinnerView + " Loading…")
	case PhaseError:
		body = errorStyle.Render(p.errMsg)
		if p.policy == PolicyRetryHint {
			body += "\n" + hintStyle.Render("press r to retry")
		}
	default:
		body = p.fadeStyle().Render(p.content)
	}

	return panelStyle.Render(titleStyle.Render(p.title) + "\n" + body)
}
