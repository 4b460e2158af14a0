// Package poller keeps a view's copy of the studio job list fresh while any
// job is still pending or processing, and goes quiet once every job is
// terminal.
//
// A Poller owns at most one timer. Refreshes never overlap: the next tick is
// armed only after the previous refresh settles, and concurrent manual
// refreshes share one request. Stop is synchronous with respect to the timer;
// a request already in flight is allowed to finish and its result is dropped.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
	"github.com/yungbote/studio-tracker/internal/observability"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
)

const (
	DefaultInterval = 10 * time.Second
	tracerName      = "github.com/yungbote/studio-tracker/internal/studio/poller"
)

type State int

const (
	StateIdle State = iota
	StatePolling
)

func (s State) String() string {
	if s == StatePolling {
		return "polling"
	}
	return "idle"
}

// FetchFunc lists the current jobs for one view.
type FetchFunc func(ctx context.Context) ([]*studio.Video, error)

// Snapshot is one whole-list result. Videos is shared between subscribers and
// must be treated as read-only.
type Snapshot struct {
	Videos    []*studio.Video
	FetchedAt time.Time
}

type Options struct {
	// Interval between refreshes while polling; DefaultInterval when zero.
	Interval time.Duration
	// OnSnapshot receives every applied snapshot.
	OnSnapshot func(Snapshot)
	// OnError receives refresh failures. The loop keeps running regardless.
	OnError func(error)
	// OnIdle fires when polling stops because every job reached a terminal state.
	OnIdle func()
}

type timer interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) timer

func realAfterFunc(d time.Duration, f func()) timer { return time.AfterFunc(d, f) }

type Poller struct {
	log   *logger.Logger
	fetch FetchFunc
	opts  Options
	after afterFunc
	sf    singleflight.Group

	mu       sync.Mutex
	ctx      context.Context
	unwatch  func() bool
	started  bool
	epoch    uint64
	snapshot Snapshot
	timer    timer
	timerSeq uint64
	ticking  bool
	failures int
}

func New(log *logger.Logger, fetch FetchFunc, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	return &Poller{
		log:   log.With("component", "StatusPoller"),
		fetch: fetch,
		opts:  opts,
		after: realAfterFunc,
		ctx:   context.Background(),
	}
}

// Start subscribes the poller and performs the initial load. The poller stops
// on its own when ctx is done. An initial fetch error is returned so the caller
// can offer a retry; the poller stays started and Refresh may be called again.
func (p *Poller) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return nil
	}
	p.started = true
	p.epoch++
	p.ctx = ctx
	p.unwatch = context.AfterFunc(ctx, p.Stop)
	p.mu.Unlock()

	observability.Current().ActivePollersInc()
	_, err := p.Refresh(ctx)
	return err
}

// Stop cancels the pending timer and discards any refresh still in flight.
// It is safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.epoch++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.ticking = false
	unwatch := p.unwatch
	p.unwatch = nil
	p.mu.Unlock()

	if unwatch != nil {
		unwatch()
	}
	observability.Current().ActivePollersDec()
	p.log.Debug("Status poller stopped")
}

// State reports Polling while a tick is armed or running.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

func (p *Poller) stateLocked() State {
	if p.started && (p.timer != nil || p.ticking) {
		return StatePolling
	}
	return StateIdle
}

// Snapshot returns the latest applied list.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// Refresh fetches the list now. Concurrent calls share one request.
func (p *Poller) Refresh(ctx context.Context) ([]*studio.Video, error) {
	p.mu.Lock()
	epoch := p.epoch
	p.mu.Unlock()

	v, err, _ := p.sf.Do("refresh", func() (interface{}, error) {
		return p.fetchOnce(ctx)
	})
	if err != nil {
		p.observeFailure(epoch, err)
		return nil, err
	}
	videos, _ := v.([]*studio.Video)
	if videos == nil {
		videos = []*studio.Video{}
	}
	p.apply(epoch, Snapshot{Videos: videos, FetchedAt: time.Now()})
	return videos, nil
}

// Apply replaces the snapshot with a list obtained elsewhere and re-evaluates
// whether polling is needed.
func (p *Poller) Apply(videos []*studio.Video) {
	p.mu.Lock()
	epoch := p.epoch
	p.mu.Unlock()
	if videos == nil {
		videos = []*studio.Video{}
	}
	p.apply(epoch, Snapshot{Videos: videos, FetchedAt: time.Now()})
}

func (p *Poller) fetchOnce(ctx context.Context) (videos []*studio.Video, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "studio.poller.refresh")
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("refresh panic: %v", r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "refresh failed")
			return
		}
		span.SetAttributes(attribute.Int("studio.video_count", len(videos)))
	}()
	return p.fetch(ctx)
}

func (p *Poller) apply(epoch uint64, snap Snapshot) {
	p.mu.Lock()
	if epoch != p.epoch {
		p.mu.Unlock()
		p.log.Debug("Discarding refresh from a stopped subscription")
		return
	}
	p.snapshot = snap
	p.failures = 0
	becameIdle := p.reconcileLocked()
	onSnapshot := p.opts.OnSnapshot
	p.mu.Unlock()

	observability.Current().ObservePollerRefresh("ok")
	if onSnapshot != nil {
		onSnapshot(snap)
	}
	if becameIdle {
		p.fireIdle()
	}
}

func (p *Poller) observeFailure(epoch uint64, err error) {
	p.mu.Lock()
	current := epoch == p.epoch
	if current {
		p.failures++
	}
	failures := p.failures
	state := p.stateLocked()
	onError := p.opts.OnError
	p.mu.Unlock()

	observability.Current().ObservePollerRefresh("error")
	if !current {
		return
	}
	p.log.Warn("Status poller refresh failed",
		"error", err,
		"consecutive_failures", failures,
		"state", state.String(),
	)
	if onError != nil {
		onError(err)
	}
}

// reconcileLocked arms or clears the timer for the current snapshot and
// reports whether polling just ended because nothing is in flight.
func (p *Poller) reconcileLocked() bool {
	if !p.started {
		return false
	}
	if studio.AnyInFlight(p.snapshot.Videos) {
		if p.timer == nil && !p.ticking {
			p.armLocked()
		}
		return false
	}
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
		return true
	}
	return false
}

func (p *Poller) armLocked() {
	p.timerSeq++
	seq := p.timerSeq
	p.timer = p.after(p.opts.Interval, func() { p.tick(seq) })
}

func (p *Poller) tick(seq uint64) {
	p.mu.Lock()
	if !p.started || p.timer == nil || seq != p.timerSeq {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	p.ticking = true
	epoch := p.epoch
	ctx := p.ctx
	p.mu.Unlock()

	func() {
		defer func() {
			if r := recover(); r != nil {
				p.log.Error("Status poller tick panic", "panic", r)
			}
		}()
		// failures are logged and surfaced through OnError by Refresh
		_, _ = p.Refresh(ctx)
	}()

	p.mu.Lock()
	if epoch != p.epoch {
		p.mu.Unlock()
		return
	}
	p.ticking = false
	becameIdle := false
	if studio.AnyInFlight(p.snapshot.Videos) {
		p.armLocked()
	} else {
		becameIdle = true
	}
	p.mu.Unlock()

	if becameIdle {
		p.fireIdle()
	}
}

func (p *Poller) fireIdle() {
	p.log.Debug("Status poller idle; no jobs in flight")
	if p.opts.OnIdle != nil {
		p.opts.OnIdle()
	}
}
