package visibility

import (
	"fmt"
	"math"

	"github.com/tinytelemetry/scrollspy/internal/model"
)

// BandObserver is a Mechanism for a row-addressed viewport such as a
// terminal pane. The host reports scroll position through SetViewport and
// the observer delivers a batch with every target whose state changed.
type BandObserver struct {
	offset int
	height int

	opts    Options
	targets []model.Region
	state   map[string]bool
	deliver func([]Entry)
}

// NewBandObserver returns an observer with an empty viewport.
func NewBandObserver() *BandObserver {
	return &BandObserver{}
}

// Observe starts watching targets, replacing any previous observation.
// An initial batch with the state of every target is delivered at once.
func (b *BandObserver) Observe(opts Options, targets []model.Region, deliver func([]Entry)) error {
	if deliver == nil {
		return fmt.Errorf("band observer: nil deliver func: %w", model.ErrInvalidArgument)
	}
	b.opts = opts
	b.targets = append([]model.Region(nil), targets...)
	b.state = make(map[string]bool, len(targets))
	b.deliver = deliver

	batch := make([]Entry, 0, len(b.targets))
	for _, r := range b.targets {
		in := b.intersects(r)
		b.state[r.ID] = in
		batch = append(batch, Entry{ID: r.ID, Intersecting: in})
	}
	if len(batch) > 0 {
		deliver(batch)
	}
	return nil
}

// Unobserve stops watching one target. Unknown IDs are ignored.
func (b *BandObserver) Unobserve(id string) {
	for i, r := range b.targets {
		if r.ID == id {
			b.targets = append(b.targets[:i:i], b.targets[i+1:]...)
			delete(b.state, id)
			return
		}
	}
}

// Disconnect drops every target.
func (b *BandObserver) Disconnect() {
	b.targets = nil
	b.state = nil
	b.deliver = nil
}

// SetViewport records the scroll offset and visible height, then reports
// changes.
func (b *BandObserver) SetViewport(offset, height int) {
	if height < 0 {
		height = 0
	}
	b.offset = offset
	b.height = height
	b.check()
}

// Refresh delivers the current state of every target again, as a fresh
// observation would. Hosts call it after attaching late listeners.
func (b *BandObserver) Refresh() {
	if b.deliver == nil {
		return
	}
	batch := make([]Entry, 0, len(b.targets))
	for _, r := range b.targets {
		in := b.intersects(r)
		b.state[r.ID] = in
		batch = append(batch, Entry{ID: r.ID, Intersecting: in})
	}
	if len(batch) > 0 {
		b.deliver(batch)
	}
}

// Relayout re-reads target geometry after the document was re-rendered.
func (b *BandObserver) Relayout() {
	b.check()
}

// Viewport returns the last reported offset and height.
func (b *BandObserver) Viewport() (offset, height int) {
	return b.offset, b.height
}

// Band returns the watched document rows as a half-open range.
func (b *BandObserver) Band() (top, bottom int) {
	top = b.offset - b.opts.Margin.TopPx
	// Floor, with a small epsilon so 0.66*100 style float noise does not
	// cost a row on exact products.
	cut := int(math.Floor(float64(b.height)*b.opts.Margin.BottomPercent/100 + 1e-9))
	bottom = b.offset + b.height + cut
	return top, bottom
}

func (b *BandObserver) intersects(r model.Region) bool {
	if r.Area == nil {
		return false
	}
	h := r.Area.Height()
	if h <= 0 {
		return false
	}
	top, bottom := b.Band()
	if bottom <= top {
		return false
	}
	rTop := r.Area.Top()
	overlap := min(rTop+h, bottom) - max(rTop, top)
	if overlap <= 0 {
		return false
	}
	if b.opts.Threshold > 0 && float64(overlap)/float64(h) < b.opts.Threshold {
		return false
	}
	return true
}

func (b *BandObserver) check() {
	deliver := b.deliver
	if deliver == nil {
		return
	}
	// Delivery may re-enter Unobserve; iterate a snapshot.
	targets := append([]model.Region(nil), b.targets...)

	var batch []Entry
	for _, r := range targets {
		in := b.intersects(r)
		prev, ok := b.state[r.ID]
		if !ok || prev == in {
			continue
		}
		b.state[r.ID] = in
		batch = append(batch, Entry{ID: r.ID, Intersecting: in})
	}
	if len(batch) > 0 {
		deliver(batch)
	}
}
