package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventStateChanged       EventType = "StateChanged"
	EventSuggestionsChanged EventType = "SuggestionsChanged"
	EventFetchStarted       EventType = "FetchStarted"
	EventFetchCompleted     EventType = "FetchCompleted"
	EventStorageDegraded    EventType = "StorageDegraded"
	EventError              EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// StateChangedEvent is emitted whenever the search session state changes
type StateChangedEvent struct {
	Snapshot Snapshot
}

func (e StateChangedEvent) Type() EventType { return EventStateChanged }

// SuggestionsChangedEvent is emitted when the visible suggestion list changes
type SuggestionsChangedEvent struct {
	Text        string
	Suggestions []string
}

func (e SuggestionsChangedEvent) Type() EventType { return EventSuggestionsChanged }

// FetchStartedEvent is emitted when a page request is issued
type FetchStartedEvent struct {
	Query string
	Page  int
}

func (e FetchStartedEvent) Type() EventType { return EventFetchStarted }

// FetchCompletedEvent is emitted when a page request resolves for the current session
type FetchCompletedEvent struct {
	Query string
	Page  int
	Count int
	Total int
	Err   error
}

func (e FetchCompletedEvent) Type() EventType { return EventFetchCompleted }

// StorageDegradedEvent is emitted once when suggestion persistence is disabled
type StorageDegradedEvent struct {
	Err error
}

func (e StorageDegradedEvent) Type() EventType { return EventStorageDegraded }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
