// Package redirect sequences the visitor review flow: offer prompts, copy
// the chosen one to the clipboard, then open the external review page.
package redirect

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/sngm3741/qr-review/api/internal/prompt"
)

// State is a step of the review flow.
type State string

const (
	StateIdle        State = "idle"
	StatePromptShown State = "prompt_shown"
	StateSelecting   State = "selecting"
	StateCopyPending State = "copy_pending"
	StateRedirecting State = "redirecting"
	StateDone        State = "done"
	StateDismissed   State = "dismissed"
	StateUnavailable State = "unavailable"
)

// Terminal reports whether no further transition can leave s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateDismissed || s == StateUnavailable
}

var (
	// ErrUnavailable is returned when the owner has not configured a review destination.
	ErrUnavailable = errors.New("review destination not configured")
	// ErrClipboardDenied is what Clipboard implementations return on permission or platform refusal.
	ErrClipboardDenied   = errors.New("clipboard write denied")
	ErrInvalidTransition = errors.New("invalid review flow transition")
	ErrEmptySelection    = errors.New("selected review text is empty")
)

// UnavailableNotice is shown to the visitor instead of the prompt list.
const UnavailableNotice = "Review link not set up yet. Please contact the business owner."

// DefaultDelay gives the "copied" confirmation time to render before navigating away.
const DefaultDelay = 800 * time.Millisecond

// DefaultPromptCount is how many prompts the modal shows at once.
const DefaultPromptCount = 3

// Clipboard writes text to the visitor's clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Navigator opens the review destination. newTab keeps the current view alive.
type Navigator interface {
	Open(ctx context.Context, target string, newTab bool) error
}

// Scheduler runs f after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// Sampler draws k prompts from a pool.
type Sampler interface {
	Sample(pool prompt.Pool, k int) ([]prompt.Prompt, error)
}

// TimerScheduler schedules on the runtime timer.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Config wires one flow.
type Config struct {
	Destination string
	Pool        prompt.Pool
	PromptCount int
	Sampler     Sampler
	Clipboard   Clipboard
	Navigator   Navigator
	Scheduler   Scheduler
	Delay       time.Duration
	Logger      *log.Logger
}

// Outcome describes the flow after a selection.
type Outcome struct {
	State         State
	Copied        bool
	ClipboardText string
	Destination   string
	Delay         time.Duration
	NewTab        bool
}

// Flow is the per-visitor state machine. The scheduled navigation runs on
// another goroutine, so all state is guarded by mu.
type Flow struct {
	mu       sync.Mutex
	cfg      Config
	state    State
	offered  []prompt.Prompt
	outcome  Outcome
	navErr   error
	settled  chan struct{}
	settleMu sync.Once
}

// NewFlow returns a flow in StateIdle.
func NewFlow(cfg Config) *Flow {
	if cfg.PromptCount <= 0 {
		cfg.PromptCount = DefaultPromptCount
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = TimerScheduler{}
	}
	return &Flow{cfg: cfg, state: StateIdle, settled: make(chan struct{})}
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Offered returns the prompts currently shown.
func (f *Flow) Offered() []prompt.Prompt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]prompt.Prompt(nil), f.offered...)
}

// Settled is closed once the flow reaches a state it will not leave on its own.
func (f *Flow) Settled() <-chan struct{} {
	return f.settled
}

// NavigationErr returns the error of the scheduled navigation, if any.
func (f *Flow) NavigationErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.navErr
}

// Open shows the first set of prompts, or moves to StateUnavailable when there is no destination.
func (f *Flow) Open() ([]prompt.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateIdle {
		return nil, fmt.Errorf("%w: open from %s", ErrInvalidTransition, f.state)
	}
	if strings.TrimSpace(f.cfg.Destination) == "" {
		f.state = StateUnavailable
		f.offered = nil
		f.settle()
		return nil, ErrUnavailable
	}
	offered, err := f.cfg.Sampler.Sample(f.cfg.Pool, f.cfg.PromptCount)
	if err != nil {
		return nil, err
	}
	f.offered = offered
	f.state = StatePromptShown
	return append([]prompt.Prompt(nil), offered...), nil
}

// ShowMore replaces the offered prompts wholesale.
func (f *Flow) ShowMore() ([]prompt.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StatePromptShown {
		return nil, f.transitionErr("show more")
	}
	offered, err := f.cfg.Sampler.Sample(f.cfg.Pool, f.cfg.PromptCount)
	if err != nil {
		return nil, err
	}
	f.offered = offered
	return append([]prompt.Prompt(nil), offered...), nil
}

// Dismiss closes the prompt list without side effects.
func (f *Flow) Dismiss() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StatePromptShown {
		return f.transitionErr("dismiss")
	}
	f.state = StateDismissed
	f.offered = nil
	f.settle()
	return nil
}

// Select copies text and schedules the redirect. A clipboard failure only
// clears Outcome.Copied; the redirect still happens.
func (f *Flow) Select(ctx context.Context, text string) (Outcome, error) {
	f.mu.Lock()
	if f.state != StatePromptShown {
		err := f.transitionErr("select")
		f.mu.Unlock()
		return Outcome{}, err
	}
	if strings.TrimSpace(text) == "" {
		f.mu.Unlock()
		return Outcome{}, ErrEmptySelection
	}
	// the choice is already made by the time Select runs, so Selecting is passed through
	f.state = StateSelecting
	f.offered = nil
	f.state = StateCopyPending
	f.mu.Unlock()

	// the clipboard call may block on the platform; no lock held
	copyErr := f.cfg.Clipboard.WriteText(ctx, text)
	if copyErr != nil {
		f.logf("clipboard write failed, redirecting without confirmation: %v", copyErr)
	}

	f.mu.Lock()
	f.state = StateRedirecting
	f.outcome = Outcome{
		State:         StateRedirecting,
		Copied:        copyErr == nil,
		ClipboardText: text,
		Destination:   f.cfg.Destination,
		Delay:         f.cfg.Delay,
		NewTab:        true,
	}
	outcome := f.outcome
	f.mu.Unlock()

	navCtx := context.WithoutCancel(ctx)
	f.cfg.Scheduler.AfterFunc(f.cfg.Delay, func() {
		f.navigate(navCtx)
	})
	return outcome, nil
}

func (f *Flow) navigate(ctx context.Context) {
	err := f.cfg.Navigator.Open(ctx, f.cfg.Destination, true)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.navErr = err
		f.logf("navigation to review destination failed: %v", err)
	} else {
		f.state = StateDone
		f.outcome.State = StateDone
	}
	f.settle()
}

func (f *Flow) transitionErr(action string) error {
	if f.state == StateUnavailable {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, f.state)
}

func (f *Flow) settle() {
	f.settleMu.Do(func() { close(f.settled) })
}

func (f *Flow) logf(format string, args ...any) {
	if f.cfg.Logger != nil {
		f.cfg.Logger.Printf(format, args...)
	}
}
