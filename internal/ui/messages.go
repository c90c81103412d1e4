package ui

import (
	"photogrip/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// startedMsg reports the result of loading the first page
type startedMsg struct {
	err error
}

// photoPagerMsg is sent when the photo detail pager closes
type photoPagerMsg struct {
	photoID string
	err     error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
