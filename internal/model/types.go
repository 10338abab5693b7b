package model

// Area is a non-owning handle to a rendered part of a document.
// Top is the document row of its first line; Height is its row count.
type Area interface {
	Top() int
	Height() int
}

// Region is a tracked document area identified by a unique ID.
// The Area stays owned by whoever rendered it.
type Region struct {
	ID   string
	Area Area
}

// StaticArea is a fixed-geometry Area, used for pre-computed layouts and tests.
type StaticArea struct {
	Row  int
	Rows int
}

func (a StaticArea) Top() int    { return a.Row }
func (a StaticArea) Height() int { return a.Rows }

// Section describes a navigable document section for read surfaces
// (control API, status line).
type Section struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	// Linked is false for orphan sections that have no navigation entry.
	Linked bool `json:"linked"`
}

// Snapshot is the reader state published for readers outside the UI
// goroutine.
type Snapshot struct {
	Title      string    `json:"title"`
	Sections   []Section `json:"sections"`
	Active     string    `json:"active,omitempty"`
	HasActive  bool      `json:"-"`
	Suppressed bool      `json:"suppressed"`
}

// HasSection reports whether id names a section in the snapshot.
func (s Snapshot) HasSection(id string) bool {
	for _, sec := range s.Sections {
		if sec.ID == id {
			return true
		}
	}
	return false
}
