package state

import (
	"rocketgrip/internal/domain"
)

// SearchState is everything the view renders from. It is changed only by
// the input handler (Type) and the pipeline handlers (Settle, Fail, ...).
type SearchState struct {
	Query      string            // current text of the search box
	Results    domain.ResultSet  // most recently settled result set
	Loading    bool              // a fetch for the latest query is outstanding
	Err        error             // set once the feed failed
	FeedClosed bool              // the pipeline delivers nothing more
	InFlight   map[uint64]string // seq -> query of fetches currently running
	Dispatched string            // last query the pipeline sent to the catalog
	LastSeq    uint64            // seq of Dispatched, 0 before the first dispatch
}

// NewSearchState creates the initial state. The query source replays the
// empty query on subscribe, so the first fetch is already on its way.
func NewSearchState() *SearchState {
	return &SearchState{
		Loading:  true,
		InFlight: make(map[uint64]string),
	}
}

// Type records new search text. It reports whether the text changed.
func (s *SearchState) Type(q string) bool {
	if q == s.Query {
		return false
	}
	s.Query = q
	if !s.FeedClosed {
		s.Loading = true
	}
	return true
}

// Settle replaces the result set wholesale
func (s *SearchState) Settle(rs domain.ResultSet) {
	s.Results = rs
	s.Loading = false
	delete(s.InFlight, rs.Seq)
}

// Fail records the error that ended the feed
func (s *SearchState) Fail(err error) {
	s.Err = err
	s.Loading = false
}

// Close marks the feed as finished
func (s *SearchState) Close() {
	s.FeedClosed = true
	s.Loading = false
	s.InFlight = make(map[uint64]string)
}

// Suppressed handles a debounced query that matched the previous one. No
// fetch is issued for it, so unless its earlier fetch is still running
// nothing will settle Loading. The results on screen may belong to an older
// query that settled late; Stale reports that case.
func (s *SearchState) Suppressed(q string) {
	if q != s.Query || s.fetching(q) {
		return
	}
	s.Loading = false
}

// Dispatch records a query the pipeline sent to the catalog
func (s *SearchState) Dispatch(seq uint64, q string) {
	s.Dispatched = q
	s.LastSeq = seq
}

func (s *SearchState) fetching(q string) bool {
	for _, inflight := range s.InFlight {
		if inflight == q {
			return true
		}
	}
	return false
}

// FetchStarted tracks a running fetch
func (s *SearchState) FetchStarted(seq uint64, q string) {
	if s.FeedClosed {
		return
	}
	s.InFlight[seq] = q
}

// FetchEnded stops tracking a fetch, whatever its outcome
func (s *SearchState) FetchEnded(seq uint64) {
	delete(s.InFlight, seq)
}

// Stale reports whether the results on screen belong to an older query
// than the one in the search box
func (s *SearchState) Stale() bool {
	return s.Results.Seq != 0 && s.Results.Query != s.Query
}
