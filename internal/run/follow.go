package run

// DefaultFollowThreshold is how close to the bottom (in scroll units) the
// view must be for auto-follow to stay engaged. Chosen to tolerate rounding
// and animation jitter near the bottom edge.
const DefaultFollowThreshold = 120

// ScrollMetrics describes the scrollable container at observation time.
// Units are whatever the surface uses (pixels for a web view, lines for a
// terminal viewport); the anchor only compares them against its threshold.
type ScrollMetrics struct {
	ContentHeight int
	Offset        int
	ViewHeight    int
}

// FollowAnchor decides whether newly arrived content should force-scroll the
// view to the bottom. It never scrolls on its own; callers ask ShouldFollow
// after each content change and perform the scroll themselves, so a reader
// who scrolled up is never interrupted.
type FollowAnchor struct {
	threshold int
	stick     bool
}

func NewFollowAnchor() *FollowAnchor {
	return NewFollowAnchorWithThreshold(DefaultFollowThreshold)
}

func NewFollowAnchorWithThreshold(threshold int) *FollowAnchor {
	if threshold < 0 {
		threshold = DefaultFollowThreshold
	}
	// Views start pinned to the bottom.
	return &FollowAnchor{threshold: threshold, stick: true}
}

// Observe records the latest scroll position. A container that does not
// overflow has nothing to scroll, so the anchor stays engaged and the
// eventual scroll call is a harmless no-op.
func (a *FollowAnchor) Observe(m ScrollMetrics) {
	if a == nil {
		return
	}
	if m.ContentHeight <= m.ViewHeight {
		a.stick = true
		return
	}
	remaining := m.ContentHeight - m.Offset - m.ViewHeight
	a.stick = remaining <= a.threshold
}

// ShouldFollow reports whether a content change should scroll the view.
func (a *FollowAnchor) ShouldFollow() bool {
	if a == nil {
		return false
	}
	return a.stick
}
