package ui

import (
	"rocketgrip/internal/eventbus"
	"rocketgrip/internal/search"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// resultMsg carries one emission of the result pipeline
type resultMsg struct {
	result search.Result
}

// feedClosedMsg signals that the pipeline will deliver nothing more
type feedClosedMsg struct{}
