// Package navigation holds the view state machine of a visitor: which
// top-level view is displayed, whether the mobile menu is open, and the
// deferred scroll to an in-page anchor.
package navigation

import (
	"errors"

	"github.com/frenchcercle/cercle/internal/models"
)

// ErrUnknownView is returned when navigating to a tag that is not a view
var ErrUnknownView = errors.New("unknown view")

// Anchors rendered inside each view. Only HOME has in-page sections.
var viewAnchors = map[models.ViewState][]string{
	models.ViewHome: {"levels", "services", "testimonials"},
}

// Anchors returns the in-page anchors of a view
func Anchors(view models.ViewState) []string {
	return append([]string(nil), viewAnchors[view]...)
}

// HasAnchor reports whether the anchor is rendered when view is active
func HasAnchor(view models.ViewState, anchor string) bool {
	for _, a := range viewAnchors[view] {
		if a == anchor {
			return true
		}
	}
	return false
}

// Navigator is the view state machine. It is not safe for concurrent use;
// the owning site store serializes access.
type Navigator struct {
	view     models.ViewState
	menuOpen bool

	// pendingScroll is set by ScrollToAnchor and handed out once by
	// TakeScroll, after the target view has been rendered.
	pendingScroll string
}

// New returns a navigator on the HOME view
func New() *Navigator {
	return &Navigator{view: models.ViewHome}
}

// Current returns the active view
func (n *Navigator) Current() models.ViewState {
	return n.view
}

// MenuOpen reports whether the mobile menu is visible
func (n *Navigator) MenuOpen() bool {
	return n.menuOpen
}

// NavigateTo makes view the active view and closes the mobile menu.
// A pending scroll is dropped when leaving HOME.
func (n *Navigator) NavigateTo(view models.ViewState) error {
	if !view.Valid() {
		return ErrUnknownView
	}
	n.view = view
	n.menuOpen = false
	if view != models.ViewHome {
		n.pendingScroll = ""
	}
	return nil
}

// ToggleMenu flips the mobile menu visibility
func (n *Navigator) ToggleMenu() {
	n.menuOpen = !n.menuOpen
}

// ScrollToAnchor switches to HOME when needed and schedules a scroll to the
// anchor for after the next render. Unknown anchors are skipped silently.
// It reports whether a scroll was scheduled.
func (n *Navigator) ScrollToAnchor(anchor string) bool {
	if n.view != models.ViewHome {
		n.view = models.ViewHome
	}
	n.menuOpen = false

	if !HasAnchor(n.view, anchor) {
		n.pendingScroll = ""
		return false
	}
	n.pendingScroll = anchor
	return true
}

// TakeScroll returns the scheduled anchor and clears it. Callers invoke it
// after rendering the current view so the anchor exists in the output.
func (n *Navigator) TakeScroll() (string, bool) {
	anchor := n.pendingScroll
	n.pendingScroll = ""
	if anchor == "" || !HasAnchor(n.view, anchor) {
		return "", false
	}
	return anchor, true
}
