package tui

import tea "github.com/charmbracelet/bubbletea"

// App is the top-level Bubble Tea model that routes between pages.
type App struct {
	pages      map[string]Page
	order      []string
	activePage string
	width      int
	height     int
}

// NewApp creates a new App with the given pages. The first page is the default.
func NewApp(pages ...Page) *App {
	pageMap := make(map[string]Page, len(pages))
	order := make([]string, 0, len(pages))
	for _, p := range pages {
		pageMap[p.ID()] = p
		order = append(order, p.ID())
	}
	a := &App{pages: pageMap, order: order}
	if len(order) > 0 {
		a.activePage = order[0]
	}
	return a
}

func (a *App) Init() tea.Cmd {
	if p, ok := a.pages[a.activePage]; ok {
		return p.Init()
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Every page tracks the terminal size, not just the visible one.
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = wsm.Width
		a.height = wsm.Height
		var cmds []tea.Cmd
		for _, id := range a.order {
			cmd, _ := a.pages[id].Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)
	}

	p, ok := a.pages[a.activePage]
	if !ok {
		return a, nil
	}

	cmd, nav := p.Update(msg)

	if nav != nil {
		if _, exists := a.pages[nav.PageID]; exists {
			a.activePage = nav.PageID
			initCmd := a.pages[a.activePage].Init()
			return a, tea.Batch(cmd, initCmd)
		}
	}

	return a, cmd
}

func (a *App) View() string {
	if p, ok := a.pages[a.activePage]; ok {
		return p.View(a.width, a.height)
	}
	return "No active page"
}

// Close releases every page that holds resources.
func (a *App) Close() {
	for _, id := range a.order {
		if c, ok := a.pages[id].(interface{ Close() }); ok {
			c.Close()
		}
	}
}
