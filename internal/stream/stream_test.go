package stream

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const quiet = 60 * time.Millisecond

func recv[T any](t *testing.T, ch <-chan T, within time.Duration) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return v
	case <-time.After(within):
		t.Fatalf("nothing received within %s", within)
	}
	var zero T
	return zero
}

func requireSilent[T any](t *testing.T, ch <-chan T, d time.Duration) {
	t.Helper()
	select {
	case v, ok := <-ch:
		if ok {
			t.Fatalf("unexpected value %v", v)
		}
	case <-time.After(d):
	}
}

func TestSubjectReplaysLatestToNewSubscriber(t *testing.T) {
	s := NewSubject("")
	s.Next("F")
	s.Next("Falcon")

	ch, unsub := s.Subscribe()
	defer unsub()

	require.Equal(t, "Falcon", recv(t, ch, time.Second))
	require.Equal(t, "Falcon", s.Value())
}

func TestSubjectLatestWinsForSlowSubscriber(t *testing.T) {
	s := NewSubject("")
	ch, unsub := s.Subscribe()
	defer unsub()

	// Initial replay is still unread; these must not block
	s.Next("F")
	s.Next("Fa")
	s.Next("Falcon")

	require.Equal(t, "Falcon", recv(t, ch, time.Second))
	requireSilent(t, ch, 20*time.Millisecond)
}

func TestSubjectUnsubscribeClosesChannel(t *testing.T) {
	s := NewSubject("x")
	ch, unsub := s.Subscribe()
	<-ch

	unsub()
	unsub() // idempotent

	_, ok := <-ch
	require.False(t, ok)
	require.NotPanics(t, func() { s.Next("y") })
}

func TestSubjectCloseCompletesSubscribers(t *testing.T) {
	s := NewSubject(0)
	a, unsubA := s.Subscribe()
	b, _ := s.Subscribe()
	<-a
	<-b

	s.Close()
	_, okA := <-a
	_, okB := <-b
	require.False(t, okA)
	require.False(t, okB)
	require.NotPanics(t, unsubA)

	late, _ := s.Subscribe()
	_, ok := <-late
	require.False(t, ok, "subscribing to a closed subject yields a closed channel")
}

func TestSubjectConcurrentNext(t *testing.T) {
	s := NewSubject(0)
	ch, unsub := s.Subscribe()
	defer unsub()

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			s.Next(v)
		}(i)
	}
	wg.Wait()

	v := recv(t, ch, time.Second)
	require.Equal(t, s.Value(), v, "the unread slot holds the latest value")
}

func TestDebounceOnlyLastOfBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan string)
	out := Debounce(ctx, in, quiet)

	for _, q := range []string{"F", "Fa", "Falcon"} {
		in <- q
	}

	require.Equal(t, "Falcon", recv(t, out, time.Second))
	requireSilent(t, out, 3*quiet)
}

func TestDebounceSeparatedValuesAllPass(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan string)
	out := Debounce(ctx, in, quiet)

	in <- "Fal"
	require.Equal(t, "Fal", recv(t, out, time.Second))
	in <- "Falcon"
	require.Equal(t, "Falcon", recv(t, out, time.Second))
}

func TestDebounceWaitsForQuiet(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan int)
	out := Debounce(ctx, in, quiet)

	start := time.Now()
	in <- 1
	recv(t, out, time.Second)
	require.GreaterOrEqual(t, time.Since(start), quiet)
}

func TestDebounceFlushesPendingOnClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan string)
	out := Debounce(ctx, in, time.Hour)

	in <- "Starship"
	close(in)

	require.Equal(t, "Starship", recv(t, out, time.Second))
	_, ok := <-out
	require.False(t, ok)
}

func TestDebounceStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan string)
	out := Debounce(ctx, in, quiet)

	in <- "F"
	cancel()

	select {
	case _, ok := <-out:
		require.False(t, ok, "no value after cancel")
	case <-time.After(time.Second):
		t.Fatal("output not closed after cancel")
	}
}

func TestDistinctDropsConsecutiveDuplicates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan string)
	var mu sync.Mutex
	var dropped []string
	out := Distinct(ctx, in, func(v string) {
		mu.Lock()
		defer mu.Unlock()
		dropped = append(dropped, v)
	})

	go func() {
		for _, v := range []string{"a", "a", "b", "a", "a", "a", "c"} {
			in <- v
		}
		close(in)
	}()

	var got []string
	for v := range out {
		got = append(got, v)
	}

	require.Equal(t, []string{"a", "b", "a", "c"}, got)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"a", "a", "a"}, dropped)
}

func TestDistinctFirstValueAlwaysPasses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan string, 1)
	out := Distinct(ctx, in, nil)

	// The zero value is not treated as "seen"
	in <- ""
	require.Equal(t, "", recv(t, out, time.Second))
}
