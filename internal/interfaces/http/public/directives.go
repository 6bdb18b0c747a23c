package public

import (
	"context"
	"time"
)

// The review flow runs server-side; its effects are returned to the browser
// as instructions instead of being performed here.

// stagedClipboard records the text the browser is asked to copy.
type stagedClipboard struct {
	text string
}

func (c *stagedClipboard) WriteText(_ context.Context, text string) error {
	c.text = text
	return nil
}

// directiveNavigator records where the browser is asked to go.
type directiveNavigator struct {
	target string
	newTab bool
}

func (n *directiveNavigator) Open(_ context.Context, target string, newTab bool) error {
	n.target = target
	n.newTab = newTab
	return nil
}

// deferredScheduler hands the delay to the browser and runs f immediately.
type deferredScheduler struct {
	delay time.Duration
}

func (s *deferredScheduler) AfterFunc(d time.Duration, f func()) {
	s.delay = d
	f()
}
