package application

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/qr-review/api/internal/domain"
	"github.com/sngm3741/qr-review/api/internal/infrastructure/memory"
	"github.com/sngm3741/qr-review/api/internal/media"
	"github.com/sngm3741/qr-review/api/internal/prompt"
	"github.com/sngm3741/qr-review/api/internal/qrcode"
	"github.com/sngm3741/qr-review/api/internal/redirect"
)

type countingProfiles struct {
	ProfileReader
	calls int
}

func (p *countingProfiles) Load(ctx context.Context, ownerID string) (*domain.Profile, error) {
	p.calls++
	return p.ProfileReader.Load(ctx, ownerID)
}

type failingCounter struct{}

func (failingCounter) RecordVisit(context.Context, string) error {
	return domain.ErrCounterUpdateFailed
}

type recordingClipboard struct{ text string }

func (c *recordingClipboard) WriteText(_ context.Context, text string) error {
	c.text = text
	return nil
}

type recordingNavigator struct{ target string }

func (n *recordingNavigator) Open(_ context.Context, target string, _ bool) error {
	n.target = target
	return nil
}

type immediateScheduler struct{}

func (immediateScheduler) AfterFunc(_ time.Duration, f func()) { f() }

type fixture struct {
	profiles *memory.ProfileStore
	counters *memory.CounterStore
	logs     *bytes.Buffer
	service  ResolutionService
}

func newFixture(t *testing.T, counters VisitRecorder) fixture {
	t.Helper()
	urls, err := qrcode.NewURLBuilder("https://app.example")
	require.NoError(t, err)

	f := fixture{profiles: memory.NewProfileStore(), counters: memory.NewCounterStore(), logs: &bytes.Buffer{}}
	if counters == nil {
		counters = f.counters
	}
	f.service = NewResolutionService(Config{
		Profiles: f.profiles,
		Counters: counters,
		URLs:     urls,
		Sampler:  prompt.NewSeededSelector(11),
		Media:    media.NewResolver("https://media.example"),
		Logger:   log.New(f.logs, "", 0),
	})
	return f
}

func TestResolveCountsVisitAndRendersProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	_, err := f.profiles.Save(ctx, "u1", domain.ProfilePatch{
		Name:              domain.StringPtr("Joe's Cafe"),
		LogoRef:           domain.StringPtr("u1/logo.png"),
		Category:          domain.CategoryPtr("cafe"),
		ExternalReviewURL: domain.StringPtr("https://g.page/r/abc"),
	})
	require.NoError(t, err)

	view, err := f.service.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Joe's Cafe", view.DisplayName)
	assert.Equal(t, "https://media.example/u1/logo.png", view.LogoURL)
	assert.Equal(t, "https://app.example/review/u1", view.PublicURL)
	assert.True(t, view.ReviewAvailable)

	counters, err := f.counters.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.FirstVisitCounters(), counters)

	_, err = f.service.Resolve(ctx, "u1")
	require.NoError(t, err)
	counters, err = f.counters.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), counters.ScanCount)
}

func TestResolveUnknownOwnerNeverCreatesCounters(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.service.Resolve(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, f.counters.Exists("ghost"))
}

func TestResolveRejectsMalformedIdentifierBeforeStore(t *testing.T) {
	urls, err := qrcode.NewURLBuilder("https://app.example")
	require.NoError(t, err)
	profiles := &countingProfiles{ProfileReader: memory.NewProfileStore()}
	service := NewResolutionService(Config{Profiles: profiles, Counters: memory.NewCounterStore(), URLs: urls, Sampler: prompt.NewSeededSelector(1)})

	_, err = service.Resolve(context.Background(), "bad id")
	assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
	assert.Zero(t, profiles.calls)
}

func TestResolveSwallowsCounterFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, failingCounter{})
	_, err := f.profiles.Save(ctx, "u1", domain.ProfilePatch{Name: domain.StringPtr("Joe's Cafe")})
	require.NoError(t, err)

	view, err := f.service.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Joe's Cafe", view.DisplayName)
	assert.Contains(t, f.logs.String(), "visit counter update failed")
}

func TestResolveFallsBackToStoredOwnerName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	_, err := f.profiles.Save(ctx, "u2", domain.ProfilePatch{OwnerDisplayName: domain.StringPtr("Maria")})
	require.NoError(t, err)
	_, err = f.profiles.Save(ctx, "u3", domain.ProfilePatch{})
	require.NoError(t, err)

	view, err := f.service.Resolve(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "Maria", view.DisplayName)
	assert.False(t, view.ReviewAvailable)

	view, err = f.service.Resolve(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, domain.PlaceholderName, view.DisplayName)
}

func TestConcurrentResolutionsAreAllCounted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	_, err := f.profiles.Save(ctx, "u1", domain.ProfilePatch{Name: domain.StringPtr("Joe's Cafe")})
	require.NoError(t, err)
	_, err = f.service.Resolve(ctx, "u1")
	require.NoError(t, err)

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Resolve(ctx, "u1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	counters, err := f.counters.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(n+1), counters.ScanCount)
}

func TestStartReviewRedirectsToConfiguredDestination(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	_, err := f.profiles.Save(ctx, "u1", domain.ProfilePatch{ExternalReviewURL: domain.StringPtr("https://g.page/r/abc")})
	require.NoError(t, err)

	clip := &recordingClipboard{}
	nav := &recordingNavigator{}
	flow, offered, err := f.service.StartReview(ctx, "u1", ReviewOptions{Clipboard: clip, Navigator: nav, Scheduler: immediateScheduler{}})
	require.NoError(t, err)
	require.Len(t, offered, redirect.DefaultPromptCount)

	outcome, err := flow.Select(ctx, offered[2].Text)
	require.NoError(t, err)
	assert.Equal(t, redirect.StateRedirecting, outcome.State)
	assert.Equal(t, offered[2].Text, clip.text)
	assert.Equal(t, "https://g.page/r/abc", nav.target)
	assert.Equal(t, redirect.StateDone, flow.State())
	assert.False(t, f.counters.Exists("u1"), "starting a review is not a visit")
}

func TestStartReviewWithoutDestinationIsUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	_, err := f.profiles.Save(ctx, "u1", domain.ProfilePatch{Name: domain.StringPtr("Joe's Cafe")})
	require.NoError(t, err)

	flow, offered, err := f.service.StartReview(ctx, "u1", ReviewOptions{Clipboard: &recordingClipboard{}, Navigator: &recordingNavigator{}})
	assert.True(t, errors.Is(err, redirect.ErrUnavailable))
	assert.Nil(t, offered)
	require.NotNil(t, flow)
	assert.Equal(t, redirect.StateUnavailable, flow.State())
}

func TestStartReviewHonoursPromptCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	_, err := f.profiles.Save(ctx, "u1", domain.ProfilePatch{ExternalReviewURL: domain.StringPtr("https://g.page/r/abc")})
	require.NoError(t, err)

	_, offered, err := f.service.StartReview(ctx, "u1", ReviewOptions{PromptCount: 5})
	require.NoError(t, err)
	assert.Len(t, offered, 5)

	_, _, err = f.service.StartReview(ctx, "u1", ReviewOptions{PromptCount: prompt.DefaultPoolSize + 1})
	assert.ErrorIs(t, err, prompt.ErrInvalidSampleSize)
}

func TestStartReviewUnknownOwner(t *testing.T) {
	f := newFixture(t, nil)
	_, _, err := f.service.StartReview(context.Background(), "ghost", ReviewOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPromptLookup(t *testing.T) {
	f := newFixture(t, nil)
	p, ok := f.service.Prompt(1)
	require.True(t, ok)
	assert.Equal(t, 1, p.ID)
	_, ok = f.service.Prompt(0)
	assert.False(t, ok)
}
