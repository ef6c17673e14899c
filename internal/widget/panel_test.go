package widget

import (
	"strings"
	"testing"

	"github.com/hoachau/nowplaying/internal/shared"
)

func TestPanelLifecycle(t *testing.T) {
	t.Run("first load renders without transition", func(t *testing.T) {
		p := NewPanel("Now Playing", "now-playing", PolicyRetryHint)
		p.StartLoad()
		if p.Phase() != PhaseLoading {
			t.Fatalf("expected loading phase, got %v", p.Phase())
		}

		if outcome := p.Apply("fp1", "body"); outcome != ApplySwapped {
			t.Errorf("expected ApplySwapped on empty panel, got %v", outcome)
		}
		if p.Phase() != PhaseRendered {
			t.Errorf("expected rendered phase, got %v", p.Phase())
		}
	})

	t.Run("matching fingerprint is a no-op", func(t *testing.T) {
		p := NewPanel("Now Playing", "now-playing", PolicyRetryHint)
		p.StartLoad()
		p.Apply("fp1", "body")

		if outcome := p.Apply("fp1", "body"); outcome != ApplyUnchanged {
			t.Errorf("expected ApplyUnchanged, got %v", outcome)
		}
	})

	t.Run("steady-state refresh keeps content visible", func(t *testing.T) {
		p := NewPanel("Now Playing", "now-playing", PolicyRetryHint)
		p.StartLoad()
		p.Apply("fp1", "body")

		p.StartLoad()
		if p.Phase() != PhaseRendered {
			t.Errorf("refresh replaced content with a loading placeholder, phase %v", p.Phase())
		}
	})

	t.Run("changed content fades out then in", func(t *testing.T) {
		p := NewPanel("Now Playing", "now-playing", PolicyRetryHint)
		p.StartLoad()
		p.Apply("fp1", "old body")

		if outcome := p.Apply("fp2", "new body"); outcome != ApplyFading {
			t.Fatalf("expected ApplyFading, got %v", outcome)
		}
		if p.Phase() != PhaseFadingOut {
			t.Fatalf("expected fading-out phase, got %v", p.Phase())
		}

		// Fade out still shows the old content.
		for range fadeSteps - 1 {
			if !p.StepFade() {
				t.Fatal("fade finished early")
			}
		}
		if p.Phase() != PhaseFadingOut {
			t.Fatalf("expected still fading out, got %v", p.Phase())
		}

		// Swap happens at the fade-out/fade-in boundary.
		if !p.StepFade() {
			t.Fatal("fade finished at swap boundary")
		}
		if p.Phase() != PhaseFadingIn {
			t.Fatalf("expected fading-in phase, got %v", p.Phase())
		}
		if !strings.Contains(p.View(""), "new body") {
			t.Error("new content not visible after swap")
		}

		for range fadeSteps - 1 {
			p.StepFade()
		}
		if p.StepFade() {
			t.Error("fade still animating past its last step")
		}
		if p.Phase() != PhaseRendered {
			t.Errorf("expected rendered phase after fade, got %v", p.Phase())
		}
	})

	t.Run("same fingerprint mid-fade does not restart the transition", func(t *testing.T) {
		p := NewPanel("Now Playing", "now-playing", PolicyRetryHint)
		p.StartLoad()
		p.Apply("fp1", "old body")
		p.Apply("fp2", "new body")

		if !p.StepFade() {
			t.Fatal("fade finished early")
		}

		// A fast poll can land while the fade is still running.
		if outcome := p.Apply("fp2", "new body"); outcome != ApplyUnchanged {
			t.Fatalf("mid-fade match restarted the transition, got %v", outcome)
		}
		if p.Phase() != PhaseFadingOut {
			t.Fatalf("expected fade to keep running, got %v", p.Phase())
		}

		// The transition still completes at its normal pace.
		for range fadeSteps - 1 {
			p.StepFade()
		}
		if p.Phase() != PhaseFadingIn {
			t.Fatalf("expected fading-in phase, got %v", p.Phase())
		}
		if outcome := p.Apply("fp2", "new body"); outcome != ApplyUnchanged {
			t.Errorf("fade-in match restarted the transition, got %v", outcome)
		}
		for range fadeSteps {
			p.StepFade()
		}
		if p.Phase() != PhaseRendered {
			t.Errorf("expected rendered phase after fade, got %v", p.Phase())
		}
	})

	t.Run("identical visible text swaps silently", func(t *testing.T) {
		p := NewPanel("Now Playing", "now-playing", PolicyRetryHint)
		p.StartLoad()
		p.Apply("fp1", "body")

		if outcome := p.Apply("fp2", "body"); outcome != ApplySwapped {
			t.Errorf("expected silent swap for identical text, got %v", outcome)
		}
		if p.Phase() != PhaseRendered {
			t.Errorf("expected rendered phase, got %v", p.Phase())
		}
	})
}

func TestPanelFailure(t *testing.T) {
	t.Run("error never clobbers valid content", func(t *testing.T) {
		p := NewPanel("Recently Played", "recent", PolicyRetryHint)
		p.StartLoad()
		p.Apply("fp1", "body")

		if shown := p.Fail(shared.ErrNetwork); shown {
			t.Error("transient failure replaced valid content")
		}
		if p.Phase() != PhaseRendered || !p.HasContent() {
			t.Errorf("content lost after failure: phase %v", p.Phase())
		}
		if !strings.Contains(p.View(""), "body") {
			t.Error("previous content not visible after failure")
		}
	})

	t.Run("failure on empty panel shows typed message", func(t *testing.T) {
		p := NewPanel("Recently Played", "recent", PolicyRetryHint)
		p.StartLoad()

		if shown := p.Fail(shared.ErrTimeout); !shown {
			t.Fatal("failure on empty panel was not shown")
		}
		if p.Phase() != PhaseError {
			t.Fatalf("expected error phase, got %v", p.Phase())
		}
		if !strings.Contains(p.ErrorShown(), "timed out") {
			t.Errorf("unexpected error message: %q", p.ErrorShown())
		}
	})

	t.Run("retry hint policy", func(t *testing.T) {
		p := NewPanel("Top Tracks", "medium_term", PolicyRetryHint)
		p.StartLoad()
		p.Fail(shared.ErrNetwork)
		if !strings.Contains(p.View(""), "press r to retry") {
			t.Error("retry hint missing")
		}
	})

	t.Run("silent policy omits the hint", func(t *testing.T) {
		p := NewPanel("Top Tracks", "medium_term", PolicySilent)
		p.StartLoad()
		p.Fail(shared.ErrNetwork)
		if strings.Contains(p.View(""), "press r to retry") {
			t.Error("silent policy rendered a retry hint")
		}
	})

	t.Run("recovery clears the error", func(t *testing.T) {
		p := NewPanel("Top Tracks", "medium_term", PolicyRetryHint)
		p.StartLoad()
		p.Fail(shared.ErrNetwork)

		p.StartLoad()
		p.Apply("fp1", "body")
		if p.Phase() != PhaseRendered || p.ErrorShown() != "" {
			t.Errorf("error state survived a successful poll: phase %v, err %q", p.Phase(), p.ErrorShown())
		}
	})
}

func TestPanelBuckets(t *testing.T) {
	t.Run("unseen bucket needs one fetch, cached bucket none", func(t *testing.T) {
		p := NewPanel("Top Tracks", "medium_term", PolicyRetryHint)
		p.StartLoad()
		p.Apply("fp-medium", "medium body")

		if need := p.SetKey("short_term"); !need {
			t.Fatal("unseen bucket did not request a fetch")
		}
		if p.Phase() != PhaseLoading {
			t.Fatalf("expected loading for unseen bucket, got %v", p.Phase())
		}
		p.Apply("fp-short", "short body")

		// Switching back hits the cache: instant render, no fetch.
		if need := p.SetKey("medium_term"); need {
			t.Error("cached bucket requested a fetch")
		}
		if p.Phase() != PhaseRendered {
			t.Errorf("cached bucket did not render instantly, phase %v", p.Phase())
		}
		if !strings.Contains(p.View(""), "medium body") {
			t.Error("cached bucket content not restored")
		}

		if need := p.SetKey("short_term"); need {
			t.Error("previously fetched bucket requested a second fetch")
		}
	})

	t.Run("reselecting the active bucket is a no-op", func(t *testing.T) {
		p := NewPanel("Top Tracks", "medium_term", PolicyRetryHint)
		p.StartLoad()
		p.Apply("fp", "body")

		if need := p.SetKey("medium_term"); need {
			t.Error("active bucket requested a fetch")
		}
	})
}

func TestParseFailurePolicy(t *testing.T) {
	if ParseFailurePolicy("silent") != PolicySilent {
		t.Error("expected silent policy")
	}
	if ParseFailurePolicy("retry") != PolicyRetryHint {
		t.Error("expected retry-hint policy")
	}
	if ParseFailurePolicy("") != PolicyRetryHint {
		t.Error("expected retry-hint default")
	}
}
