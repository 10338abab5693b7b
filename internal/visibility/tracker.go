package visibility

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tinytelemetry/scrollspy/internal/model"
)

// Handle identifies one successful Observe call.
type Handle struct {
	ID      string
	Regions int
}

// Tracker turns raw intersection batches into "region entered the watch
// band" notifications. It is not safe for concurrent use; the mechanism
// and every caller must share one goroutine.
type Tracker struct {
	mech   Mechanism
	logger *zap.Logger

	regions   []model.Region
	index     map[string]int
	listeners []func(id string)
	removed   []func(id string)
	handle    Handle
	observing bool
}

// NewTracker creates a tracker on top of mech. A nil logger disables logging.
func NewTracker(mech Mechanism, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		mech:   mech,
		logger: logger,
	}
}

// Observe starts watching regions with the band derived from cfg. It fails
// with model.ErrInvalidArgument when regions is empty, an ID is empty or
// repeated, an area is missing, or cfg is out of range. An active
// observation is stopped first.
func (t *Tracker) Observe(regions []model.Region, cfg model.ObserverConfig) (Handle, error) {
	if len(regions) == 0 {
		return Handle{}, fmt.Errorf("observe: empty region set: %w", model.ErrInvalidArgument)
	}
	if err := cfg.Validate(); err != nil {
		return Handle{}, fmt.Errorf("observe: %w", err)
	}
	index := make(map[string]int, len(regions))
	for i, r := range regions {
		if r.ID == "" {
			return Handle{}, fmt.Errorf("observe: region %d has empty id: %w", i, model.ErrInvalidArgument)
		}
		if r.Area == nil {
			return Handle{}, fmt.Errorf("observe: region %q has no area: %w", r.ID, model.ErrInvalidArgument)
		}
		if _, dup := index[r.ID]; dup {
			return Handle{}, fmt.Errorf("observe: duplicate region id %q: %w", r.ID, model.ErrInvalidArgument)
		}
		index[r.ID] = i
	}

	t.Stop()

	t.regions = append([]model.Region(nil), regions...)
	t.index = index
	t.handle = Handle{ID: uuid.NewString(), Regions: len(regions)}
	t.observing = true

	if err := t.mech.Observe(OptionsFor(cfg), t.regions, t.deliver); err != nil {
		t.reset()
		return Handle{}, fmt.Errorf("observe: %w", err)
	}

	t.logger.Debug("observing regions",
		zap.String("instance", t.handle.ID),
		zap.Int("regions", len(regions)),
		zap.Int("dead_zone_top", cfg.DeadZoneTop),
		zap.Float64("dead_zone_bottom", cfg.DeadZoneBottomFraction))
	return t.handle, nil
}

// OnVisible registers fn to run once for every region that enters the band.
// Listeners run in registration order.
func (t *Tracker) OnVisible(fn func(id string)) {
	if fn == nil {
		return
	}
	t.listeners = append(t.listeners, fn)
}

// OnUnobserve registers fn to run after a single region is unobserved.
// Stop does not report the regions it releases.
func (t *Tracker) OnUnobserve(fn func(id string)) {
	if fn == nil {
		return
	}
	t.removed = append(t.removed, fn)
}

// Unobserve stops watching one region. Unknown IDs are ignored.
func (t *Tracker) Unobserve(id string) {
	i, ok := t.index[id]
	if !ok {
		return
	}
	t.regions = append(t.regions[:i:i], t.regions[i+1:]...)
	t.rebuildIndex()
	t.mech.Unobserve(id)
	for _, fn := range t.removed {
		fn(id)
	}
}

// Stop releases every region. Stopping a stopped tracker does nothing.
func (t *Tracker) Stop() {
	if !t.observing {
		return
	}
	t.mech.Disconnect()
	t.logger.Debug("stopped observing", zap.String("instance", t.handle.ID))
	t.reset()
}

// Observing reports whether an observation is active.
func (t *Tracker) Observing() bool { return t.observing }

// Handle returns the active observation handle, or the zero Handle.
func (t *Tracker) Handle() Handle { return t.handle }

// Has reports whether id is currently tracked.
func (t *Tracker) Has(id string) bool {
	_, ok := t.index[id]
	return ok
}

// Region returns the tracked region with the given id.
func (t *Tracker) Region(id string) (model.Region, bool) {
	i, ok := t.index[id]
	if !ok {
		return model.Region{}, false
	}
	return t.regions[i], true
}

// IDs returns the tracked IDs in registration order.
func (t *Tracker) IDs() []string {
	ids := make([]string, len(t.regions))
	for i, r := range t.regions {
		ids[i] = r.ID
	}
	return ids
}

func (t *Tracker) deliver(batch []Entry) {
	listeners := t.listeners
	for _, e := range batch {
		if !e.Intersecting {
			continue
		}
		// Entries may still arrive for regions dropped mid-batch.
		if !t.Has(e.ID) {
			continue
		}
		for _, fn := range listeners {
			fn(e.ID)
		}
	}
}

func (t *Tracker) rebuildIndex() {
	t.index = make(map[string]int, len(t.regions))
	for i, r := range t.regions {
		t.index[r.ID] = i
	}
}

func (t *Tracker) reset() {
	t.regions = nil
	t.index = nil
	t.handle = Handle{}
	t.observing = false
}
