// Package widget implements the polling terminal client: three panels
// (now playing, top tracks, recently played) that poll the proxy on
// independent jittered timers and re-render only when content has
// materially changed.
//
// Change detection is an explicit fingerprint function per payload type,
// decoupled from rendering, so the comparison logic is testable without
// any UI toolkit. A matched fingerprint makes the poll cycle a no-op,
// which is what keeps the display from flickering on unchanged data.
//
// Content swaps run through a fade-out/swap/fade-in transition unless the
// visible text is identical, in which case the swap is applied silently.
// A panel that already shows valid content is never clobbered by a
// transient fetch error; typed error messages appear only on first-load
// failures.
package widget
