package scrollspy

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tinytelemetry/scrollspy/internal/model"
	"github.com/tinytelemetry/scrollspy/internal/visibility"
)

// Scroller moves the viewport. Requests are fire-and-forget: nothing
// reports when a smooth scroll has finished.
type Scroller interface {
	ScrollTo(offset int, smooth bool)
}

// NavLink is a navigation element that can be highlighted.
type NavLink interface {
	SetActive(active bool)
}

// LinkResolver returns the nav link for a region, or nil for sections
// without one.
type LinkResolver func(id string) NavLink

// Options tunes a Coordinator.
type Options struct {
	// SuppressDuration is how long passive activation stays muted after a
	// programmatic scroll. It is a guess at how long scrolling takes to
	// settle, not a guarantee.
	SuppressDuration time.Duration
	// ScrollOffset is the number of rows left above a navigation target.
	ScrollOffset int
	Smooth       bool
	Logger       *zap.Logger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		SuppressDuration: model.DefaultSuppressDuration,
		ScrollOffset:     model.DefaultDeadZoneTop,
		Smooth:           true,
	}
}

// Coordinator owns the active section for one tracked document and
// arbitrates between navigation commands and passive visibility.
//
// A Coordinator is not safe for concurrent use. Visibility batches,
// scheduler expiries and method calls must all arrive on one goroutine.
type Coordinator struct {
	id        string
	scroller  Scroller
	scheduler Scheduler
	opts      Options
	logger    *zap.Logger

	tracker *visibility.Tracker
	links   map[string]NavLink

	activeID   string
	hasActive  bool
	suppressed bool
	timer      Timer
	gen        uint64

	listeners []func(id string)
	closed    bool
}

// New creates a coordinator that scrolls with scroller and times
// suppression windows with scheduler.
func New(scroller Scroller, scheduler Scheduler, opts Options) *Coordinator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ScrollOffset < 0 {
		opts.ScrollOffset = 0
	}
	c := &Coordinator{
		id:        uuid.NewString(),
		scroller:  scroller,
		scheduler: scheduler,
		opts:      opts,
		links:     map[string]NavLink{},
	}
	c.logger = logger.With(zap.String("instance", c.id))
	return c
}

// ID returns the coordinator's instance ID, used in logs.
func (c *Coordinator) ID() string { return c.id }

// Bind wires tracker into the coordinator and resolves nav links for every
// tracked region once. Binding again replaces the tracker and the link map;
// events from the previous tracker are ignored afterwards.
func (c *Coordinator) Bind(tracker *visibility.Tracker, resolve LinkResolver) {
	for _, l := range c.links {
		l.SetActive(false)
	}
	c.tracker = tracker
	c.links = map[string]NavLink{}
	if tracker == nil {
		return
	}

	orphans := 0
	for _, id := range tracker.IDs() {
		var link NavLink
		if resolve != nil {
			link = resolve(id)
		}
		if link == nil {
			orphans++
			continue
		}
		c.links[id] = link
	}

	tracker.OnVisible(func(id string) {
		c.handleVisible(tracker, id)
	})
	tracker.OnUnobserve(func(id string) {
		c.handleUnobserved(tracker, id)
	})

	if c.hasActive && !tracker.Has(c.activeID) {
		c.hasActive = false
		c.activeID = ""
	}
	if c.hasActive {
		c.mark(c.activeID)
	}

	c.logger.Debug("bound tracker",
		zap.String("observation", tracker.Handle().ID),
		zap.Int("links", len(c.links)),
		zap.Int("orphans", orphans))
}

// NavigateTo scrolls to the region with the given id and makes it active at
// once, muting passive updates until the suppression window expires. It
// fails with model.ErrNotFound for regions that are not tracked and then
// changes nothing.
func (c *Coordinator) NavigateTo(id string) error {
	if c.closed || c.tracker == nil {
		return fmt.Errorf("navigate to %q: no tracked regions: %w", id, model.ErrNotFound)
	}
	region, ok := c.tracker.Region(id)
	if !ok {
		return fmt.Errorf("navigate to %q: %w", id, model.ErrNotFound)
	}

	c.suppressed = true
	target := max(0, region.Area.Top()-c.opts.ScrollOffset)
	if c.scroller != nil {
		c.scroller.ScrollTo(target, c.opts.Smooth)
	}
	c.setActive(id)
	c.arm(c.opts.SuppressDuration)

	c.logger.Debug("navigate",
		zap.String("section", id),
		zap.Int("offset", target),
		zap.Duration("duration", c.opts.SuppressDuration))
	return nil
}

// SuppressFor mutes passive activation for d, replacing any pending window.
// A non-positive d lifts suppression now.
func (c *Coordinator) SuppressFor(d time.Duration) {
	if c.closed {
		return
	}
	c.arm(d)
}

// OnActiveChange registers fn to run with the new active ID on every change.
func (c *Coordinator) OnActiveChange(fn func(id string)) {
	if fn == nil {
		return
	}
	c.listeners = append(c.listeners, fn)
}

// ActiveID returns the active region, if any.
func (c *Coordinator) ActiveID() (string, bool) {
	return c.activeID, c.hasActive
}

// Suppressed reports whether passive updates are currently muted.
func (c *Coordinator) Suppressed() bool { return c.suppressed }

// Close cancels the pending window and stops the bound tracker.
func (c *Coordinator) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancelTimer()
	c.suppressed = false
	for _, l := range c.links {
		l.SetActive(false)
	}
	if c.tracker != nil {
		c.tracker.Stop()
	}
}

func (c *Coordinator) handleVisible(from *visibility.Tracker, id string) {
	if c.closed || from != c.tracker {
		return
	}
	if c.suppressed {
		c.logger.Debug("dropped visibility event while suppressed", zap.String("section", id))
		return
	}
	if !from.Has(id) {
		return
	}
	c.setActive(id)
}

// handleUnobserved drops a region that left the tracked set. An active
// region is cleared without notifying listeners; the next visibility event
// picks the new one.
func (c *Coordinator) handleUnobserved(from *visibility.Tracker, id string) {
	if c.closed || from != c.tracker {
		return
	}
	if l, ok := c.links[id]; ok {
		l.SetActive(false)
		delete(c.links, id)
	}
	if c.hasActive && c.activeID == id {
		c.activeID = ""
		c.hasActive = false
		c.logger.Debug("active region unobserved", zap.String("section", id))
	}
}

func (c *Coordinator) setActive(id string) {
	if c.hasActive && c.activeID == id {
		return
	}
	c.activeID = id
	c.hasActive = true
	c.mark(id)

	listeners := c.listeners
	for _, fn := range listeners {
		fn(id)
	}
}

// mark leaves at most one link highlighted.
func (c *Coordinator) mark(id string) {
	for lid, l := range c.links {
		if lid != id {
			l.SetActive(false)
		}
	}
	if l, ok := c.links[id]; ok {
		l.SetActive(true)
		return
	}
	c.logger.Debug("no nav link for section", zap.String("section", id))
}

func (c *Coordinator) arm(d time.Duration) {
	c.cancelTimer()
	if d <= 0 {
		c.suppressed = false
		return
	}
	c.suppressed = true
	gen := c.gen
	c.timer = c.scheduler.AfterFunc(d, func() { c.expire(gen) })
}

func (c *Coordinator) cancelTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	// An expiry already queued by the host carries the old generation.
	c.gen++
}

func (c *Coordinator) expire(gen uint64) {
	if gen != c.gen {
		return
	}
	c.timer = nil
	c.suppressed = false
	c.logger.Debug("suppression window expired")
}
