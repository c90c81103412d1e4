package sentinel

// Handle identifies a rendered item. Photo ids are used as handles.
type Handle string

// GateFunc reports whether a reach-end signal may be delivered right now
type GateFunc func() bool

// State holds the single watch slot
type State struct {
	Watched Handle
	Active  bool
	Visible bool
	Fired   int
}
