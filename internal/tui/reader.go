package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tinytelemetry/scrollspy/internal/document"
	"github.com/tinytelemetry/scrollspy/internal/model"
	"github.com/tinytelemetry/scrollspy/internal/scrollspy"
	"github.com/tinytelemetry/scrollspy/internal/visibility"
)

// Focus is the pane that receives navigation keys.
type Focus int

const (
	FocusContent Focus = iota // document viewport
	FocusSidebar              // section list
)

// wheelRows is how far one mouse wheel notch scrolls.
const wheelRows = 3

// ReaderOptions configures a ReaderPage.
type ReaderOptions struct {
	// Path is re-read on the reload key. Empty disables reloading.
	Path               string
	ParseOptions       []document.Option
	Observer           model.ObserverConfig
	SuppressDuration   time.Duration
	ScrollOffset       int
	Smooth             bool
	SmoothFrames       int
	ReverseScrollWheel bool
	// Remote, when set, receives a snapshot after every update.
	Remote *Remote
	Logger *zap.Logger
}

// ReaderPage shows a document with a section sidebar whose highlight follows
// scrolling.
type ReaderPage struct {
	ModalStackState

	opts   ReaderOptions
	keys   KeyMap
	logger *zap.Logger

	doc     *document.Document
	layout  *document.Layout
	vp      viewport.Model
	band    *visibility.BandObserver
	tracker *visibility.Tracker
	coord   *scrollspy.Coordinator

	scroller *SmoothScroller
	sched    *TeaScheduler

	links map[string]*navLink
	nav   []*navLink

	focus          Focus
	sidebarVisible bool
	sidebarCursor  int

	width  int
	height int

	// Last error for status line display (auto-clears after 30s).
	lastError   string
	lastErrorAt time.Time
}

// NewReaderPage builds a reader for doc.
func NewReaderPage(doc *document.Document, opts ReaderOptions) (*ReaderPage, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.SmoothFrames <= 0 {
		opts.SmoothFrames = model.DefaultSmoothFrames
	}

	p := &ReaderPage{
		opts:           opts,
		keys:           DefaultKeyMap(),
		logger:         logger,
		vp:             viewport.New(80, 20),
		band:           visibility.NewBandObserver(),
		sched:          NewTeaScheduler(),
		sidebarVisible: true,
	}
	p.vp.MouseWheelEnabled = false
	p.scroller = NewSmoothScroller(&p.vp, opts.SmoothFrames, p.band.SetViewport)
	p.coord = scrollspy.New(p.scroller, p.sched, scrollspy.Options{
		SuppressDuration: opts.SuppressDuration,
		ScrollOffset:     opts.ScrollOffset,
		Smooth:           opts.Smooth,
		Logger:           logger,
	})
	p.coord.OnActiveChange(func(id string) {
		p.followActive(id)
		p.logger.Debug("active section changed", zap.String("section", id))
	})

	if err := p.load(doc); err != nil {
		return nil, err
	}
	p.publish()
	return p, nil
}

func (p *ReaderPage) ID() string { return "reader" }

func (p *ReaderPage) Init() tea.Cmd { return nil }

// Close stops tracking and cancels the suppression timer.
func (p *ReaderPage) Close() {
	p.coord.Close()
}

// Update handles messages. Commands queued by the scroller and scheduler
// during the update are returned with the handler's own.
func (p *ReaderPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		cmd = p.handleKeyPress(msg)

	case tea.MouseMsg:
		cmd = p.handleMouseEvent(msg)

	case timerFiredMsg:
		p.sched.handle(msg)

	case scrollFrameMsg:
		_, cmd = p.scroller.handle(msg)

	case NavigateMsg:
		p.navigate(msg.ID)

	case SuppressMsg:
		p.coord.SuppressFor(msg.Duration)

	case document.ReloadedMsg:
		p.applyReload(msg)
	}

	p.publish()
	return tea.Batch(cmd, p.scroller.Drain(), p.sched.Drain()), nil
}

// ActiveID returns the highlighted section.
func (p *ReaderPage) ActiveID() (string, bool) { return p.coord.ActiveID() }

func (p *ReaderPage) navigate(id string) {
	if err := p.coord.NavigateTo(id); err != nil {
		p.setError(err)
	}
}

// navigateRelative moves to the section delta steps from the active one.
func (p *ReaderPage) navigateRelative(delta int) {
	sections := p.doc.Sections
	if len(sections) == 0 {
		return
	}
	idx := 0
	if active, ok := p.coord.ActiveID(); ok {
		for i, s := range sections {
			if s.ID == active {
				idx = i + delta
				break
			}
		}
	}
	idx = min(max(idx, 0), len(sections)-1)
	p.navigate(sections[idx].ID)
}

// load swaps in doc: a new layout, new sidebar links and a new observation
// bound to the coordinator. The active section survives when it still exists.
func (p *ReaderPage) load(doc *document.Document) error {
	layout := doc.Layout(p.contentInnerWidth())

	links := make(map[string]*navLink, len(doc.Nav))
	nav := make([]*navLink, 0, len(doc.Nav))
	for _, id := range doc.Nav {
		s, _ := doc.Section(id)
		l := &navLink{id: id, label: s.Label}
		links[id] = l
		nav = append(nav, l)
	}

	if p.tracker != nil {
		p.tracker.Stop()
	}
	p.vp.SetContent(layout.Content())
	p.scroller.JumpTo(p.vp.YOffset)

	tracker := visibility.NewTracker(p.band, p.logger)
	if _, err := tracker.Observe(layout.Regions(), p.opts.Observer); err != nil {
		return fmt.Errorf("track %s: %w", doc.Name, err)
	}

	p.doc, p.layout, p.links, p.nav, p.tracker = doc, layout, links, nav, tracker
	p.coord.Bind(tracker, p.resolveLink)
	p.band.Refresh()
	for _, w := range doc.Warnings {
		p.logger.Warn("document warning", zap.String("document", doc.Name), zap.String("warning", w))
	}
	return nil
}

func (p *ReaderPage) applyReload(msg document.ReloadedMsg) {
	if msg.Err != nil {
		p.setError(msg.Err)
		return
	}
	active, hadActive := p.coord.ActiveID()
	if err := p.load(msg.Doc); err != nil {
		p.setError(err)
		return
	}
	if hadActive {
		if r, ok := p.tracker.Region(active); ok {
			p.scroller.JumpTo(r.Area.Top() - p.opts.ScrollOffset)
		}
	}
	p.logger.Info("document reloaded", zap.String("document", msg.Doc.Name))
}

func (p *ReaderPage) reloadCmd() tea.Cmd {
	path := p.opts.Path
	if path == "" {
		return nil
	}
	opts := p.opts.ParseOptions
	return func() tea.Msg {
		doc, err := document.Load(path, opts...)
		return document.ReloadedMsg{Doc: doc, Err: err}
	}
}

// resize re-wraps the document and keeps the active section at the top of
// the viewport.
func (p *ReaderPage) resize(width, height int) {
	p.width, p.height = width, height
	p.vp.Width = p.contentInnerWidth()
	p.vp.Height = max(p.bodyHeight()-2, 1)

	p.layout.Reflow(p.vp.Width)
	p.vp.SetContent(p.layout.Content())

	if active, ok := p.coord.ActiveID(); ok {
		if r, ok := p.tracker.Region(active); ok {
			p.scroller.JumpTo(r.Area.Top() - p.opts.ScrollOffset)
			return
		}
	}
	p.scroller.Sync()
}

func (p *ReaderPage) bodyHeight() int {
	return max(p.height-1, 3)
}

func (p *ReaderPage) contentWidth() int {
	if p.sidebarVisible {
		return max(p.width-sidebarWidth, 20)
	}
	return p.width
}

func (p *ReaderPage) contentInnerWidth() int {
	if p.width <= 0 {
		return 78
	}
	return max(p.contentWidth()-2, document.MinWidth)
}

func (p *ReaderPage) setError(err error) {
	p.lastError = err.Error()
	p.lastErrorAt = time.Now()
	p.logger.Warn("reader error", zap.Error(err))
}

func (p *ReaderPage) publish() {
	if p.opts.Remote == nil {
		return
	}
	active, ok := p.coord.ActiveID()
	p.opts.Remote.Publish(model.Snapshot{
		Title:      p.doc.Title,
		Sections:   p.doc.Summary(),
		Active:     active,
		HasActive:  ok,
		Suppressed: p.coord.Suppressed(),
	})
}
