package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventQueryDispatched EventType = "QueryDispatched"
	EventQuerySuppressed EventType = "QuerySuppressed"
	EventFetchStarted    EventType = "FetchStarted"
	EventFetchCompleted  EventType = "FetchCompleted"
	EventFetchFailed     EventType = "FetchFailed"
	EventFetchSuperseded EventType = "FetchSuperseded"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// QueryDispatchedEvent is emitted when a debounced, distinct query leaves the pipeline front
type QueryDispatchedEvent struct {
	Seq   uint64
	Query string
}

func (e QueryDispatchedEvent) Type() EventType { return EventQueryDispatched }

// QuerySuppressedEvent is emitted when a debounced query equals the previous one and no fetch is made
type QuerySuppressedEvent struct {
	Query string
}

func (e QuerySuppressedEvent) Type() EventType { return EventQuerySuppressed }

// FetchStartedEvent is emitted right before the catalog request goes out
type FetchStartedEvent struct {
	Seq   uint64
	Query string
}

func (e FetchStartedEvent) Type() EventType { return EventFetchStarted }

// FetchCompletedEvent is emitted when a fetch settled successfully
type FetchCompletedEvent struct {
	Seq     uint64
	Query   string
	Count   int
	Elapsed time.Duration
}

func (e FetchCompletedEvent) Type() EventType { return EventFetchCompleted }

// FetchFailedEvent is emitted when a fetch failed; the feed terminates after it
type FetchFailedEvent struct {
	Seq   uint64
	Query string
	Err   error
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// FetchSupersededEvent is emitted when a newer query cancelled an in-flight fetch
type FetchSupersededEvent struct {
	Seq   uint64
	Query string
}

func (e FetchSupersededEvent) Type() EventType { return EventFetchSuperseded }
