package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"rocketgrip/internal/domain"
	"rocketgrip/internal/eventbus"
	"rocketgrip/internal/stream"
)

// DefaultQuiet is how long typing has to pause before a query is dispatched
const DefaultQuiet = 750 * time.Millisecond

// Policy decides what happens to an in-flight fetch when a newer query is dispatched
type Policy string

const (
	// PolicyMerge lets every fetch run to completion. Results are delivered
	// in completion order, so a slow older query can settle after a newer one.
	PolicyMerge Policy = "merge"
	// PolicyCancel cancels the previous fetch when a newer query is dispatched.
	// Superseded results are never delivered.
	PolicyCancel Policy = "cancel"
)

// ParsePolicy converts a config string into a Policy
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyMerge:
		return PolicyMerge, nil
	case PolicyCancel:
		return PolicyCancel, nil
	default:
		return "", fmt.Errorf("unknown policy %q (want %q or %q)", s, PolicyMerge, PolicyCancel)
	}
}

// Fetcher retrieves the rockets whose name contains name
type Fetcher interface {
	FetchByName(ctx context.Context, name string) ([]domain.Rocket, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, name string) ([]domain.Rocket, error)

func (f FetcherFunc) FetchByName(ctx context.Context, name string) ([]domain.Rocket, error) {
	return f(ctx, name)
}

// Result is one emission of the pipeline. A Result with a non-nil Err is
// always the last one: the feed is closed right after it.
type Result struct {
	domain.ResultSet
	Err error
}

// FetchError carries the query whose fetch failed
type FetchError struct {
	Seq   uint64
	Query string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("search %q: %v", e.Query, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Options configures a Pipeline
type Options struct {
	Quiet  time.Duration
	Policy Policy
	Bus    eventbus.EventBus  // optional, receives lifecycle events
	Log    logrus.FieldLogger // optional
}

// Pipeline turns the query source into a feed of filtered rocket lists:
// debounce, drop consecutive duplicates, then fetch and filter.
type Pipeline struct {
	source  *stream.Subject[string]
	fetcher Fetcher
	quiet   time.Duration
	policy  Policy
	bus     eventbus.EventBus
	log     logrus.FieldLogger
	seq     atomic.Uint64
}

// New creates a pipeline reading from source
func New(source *stream.Subject[string], fetcher Fetcher, opts Options) *Pipeline {
	if opts.Quiet <= 0 {
		opts.Quiet = DefaultQuiet
	}
	if opts.Policy == "" {
		opts.Policy = PolicyMerge
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	return &Pipeline{
		source:  source,
		fetcher: fetcher,
		quiet:   opts.Quiet,
		policy:  opts.Policy,
		bus:     opts.Bus,
		log:     opts.Log.WithField("component", "pipeline"),
	}
}

// Subscription is a running feed of results
type Subscription struct {
	results chan Result
	done    chan struct{}
	cancel  context.CancelFunc
	release func()

	mu       sync.Mutex
	released bool
	once     sync.Once
}

// Results returns the feed. It is closed when the subscription ends,
// either by Unsubscribe, parent context cancellation or a fetch failure.
func (s *Subscription) Results() <-chan Result {
	return s.results
}

// Done is closed once every goroutine of the subscription has exited
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Unsubscribe stops the feed. Once it returns nothing more is delivered.
// Safe to call more than once and from any goroutine.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.cancel()
		s.release()
		s.mu.Lock()
		s.released = true
		s.mu.Unlock()
	})
}

func (s *Subscription) deliver(ctx context.Context, r Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released || ctx.Err() != nil {
		return false
	}
	select {
	case s.results <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// Subscribe starts a feed. The source replays its current value, so a
// fresh subscription dispatches the latest query once typing is quiet.
func (p *Pipeline) Subscribe(parent context.Context) *Subscription {
	ctx, cancel := context.WithCancel(parent)
	queries, release := p.source.Subscribe()

	sub := &Subscription{
		results: make(chan Result),
		done:    make(chan struct{}),
		cancel:  cancel,
		release: release,
	}

	debounced := stream.Debounce(ctx, queries, p.quiet)
	distinct := stream.Distinct(ctx, debounced, p.suppressed)

	go func() {
		defer close(sub.done)
		defer close(sub.results)
		defer release()
		defer cancel()
		p.expand(ctx, distinct, sub)
	}()

	return sub
}

func (p *Pipeline) suppressed(q string) {
	p.log.WithField("query", q).Debug("duplicate query suppressed")
	p.publish(eventbus.QuerySuppressedEvent{Query: q})
}

// expand starts one fetch per dispatched query. The first failure cancels
// the group and ends the feed.
func (p *Pipeline) expand(ctx context.Context, queries <-chan string, sub *Subscription) {
	g, gctx := errgroup.WithContext(ctx)
	var cancelPrev context.CancelFunc

loop:
	for {
		select {
		case <-gctx.Done():
			break loop
		case q, ok := <-queries:
			if !ok {
				break loop
			}

			seq := p.seq.Add(1)
			p.log.WithFields(logrus.Fields{"seq": seq, "query": q}).Debug("query dispatched")
			p.publish(eventbus.QueryDispatchedEvent{Seq: seq, Query: q})

			fctx, fcancel := context.WithCancel(gctx)
			if p.policy == PolicyCancel {
				if cancelPrev != nil {
					cancelPrev()
				}
				cancelPrev = fcancel
			}

			g.Go(func() error {
				defer fcancel()
				return p.fetch(gctx, fctx, seq, q, sub)
			})
		}
	}

	err := g.Wait()
	if err == nil || ctx.Err() != nil {
		return
	}

	var fe *FetchError
	r := Result{Err: err}
	if errors.As(err, &fe) {
		r.Seq, r.Query = fe.Seq, fe.Query
	}
	sub.deliver(ctx, r)
}

func (p *Pipeline) fetch(gctx, fctx context.Context, seq uint64, q string, sub *Subscription) error {
	log := p.log.WithFields(logrus.Fields{"seq": seq, "query": q})
	p.publish(eventbus.FetchStartedEvent{Seq: seq, Query: q})
	start := time.Now()

	rockets, err := p.fetcher.FetchByName(fctx, q)

	switch {
	case gctx.Err() != nil:
		// Torn down or another fetch already failed
		return nil
	case fctx.Err() != nil:
		log.Debug("fetch superseded")
		p.publish(eventbus.FetchSupersededEvent{Seq: seq, Query: q})
		return nil
	case err != nil:
		log.WithError(err).Error("fetch failed")
		p.publish(eventbus.FetchFailedEvent{Seq: seq, Query: q, Err: err})
		return &FetchError{Seq: seq, Query: q, Err: err}
	}

	elapsed := time.Since(start)
	log.WithFields(logrus.Fields{"count": len(rockets), "elapsed": elapsed}).Info("fetch settled")
	p.publish(eventbus.FetchCompletedEvent{Seq: seq, Query: q, Count: len(rockets), Elapsed: elapsed})

	sub.deliver(fctx, Result{ResultSet: domain.ResultSet{Seq: seq, Query: q, Rockets: rockets}})
	return nil
}

func (p *Pipeline) publish(e eventbus.DomainEvent) {
	if p.bus != nil {
		p.bus.Publish(e)
	}
}
