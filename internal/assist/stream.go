package assist

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultDebounce is how long a Stream waits after the last submission
// before calling the provider.
const DefaultDebounce = 1500 * time.Millisecond

// GrammarFunc performs one grammar check. Service.Grammar satisfies it.
type GrammarFunc func(ctx context.Context, text string) (GrammarResult, error)

// StreamResult is the outcome of the check for one submission.
type StreamResult struct {
	Seq    uint64        `json:"seq"`
	Text   string        `json:"-"`
	Result GrammarResult `json:"result"`
	Err    error         `json:"-"`
}

// Stream debounces grammar checks for a text that keeps changing, such as
// an editor buffer. Each Submit supersedes the previous one: its pending
// timer is reset and any in-flight call is cancelled. At most one call
// runs at a time, and only results for the latest submission are
// delivered.
type Stream struct {
	check   GrammarFunc
	delay   time.Duration
	ctx     context.Context
	results chan StreamResult
	done    chan struct{}
	running chan struct{} // holds a token while a call is in flight

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

// NewStream creates a stream calling check. A non-positive delay uses
// DefaultDebounce. Calls inherit ctx, so cancelling it stops the stream's
// work; Close must still be called.
func NewStream(ctx context.Context, check GrammarFunc, delay time.Duration) *Stream {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Stream{
		check:   check,
		delay:   delay,
		ctx:     ctx,
		results: make(chan StreamResult, 1),
		done:    make(chan struct{}),
		running: make(chan struct{}, 1),
	}
}

// Stream returns a stream over s.Grammar.
func (s *Service) Stream(ctx context.Context, delay time.Duration) *Stream {
	return NewStream(ctx, s.Grammar, delay)
}

// Results delivers outcomes. It is closed by Close.
func (st *Stream) Results() <-chan StreamResult {
	return st.results
}

// Submit schedules a check of text and returns its sequence number.
// Submitting to a closed stream is a no-op returning 0.
func (st *Stream) Submit(text string) uint64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.closed {
		return 0
	}
	st.seq++
	seq := st.seq
	st.stopLocked()
	st.timer = time.AfterFunc(st.delay, func() { st.run(seq, text) })
	return seq
}

// Cancel drops the pending submission and cancels any in-flight call.
func (st *Stream) Cancel() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.seq++
	st.stopLocked()
}

func (st *Stream) stopLocked() {
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	if st.cancel != nil {
		st.cancel()
		st.cancel = nil
	}
}

func (st *Stream) run(seq uint64, text string) {
	st.mu.Lock()
	if st.closed || seq != st.seq {
		st.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(st.ctx)
	st.cancel = cancel
	st.wg.Add(1)
	st.mu.Unlock()
	defer st.wg.Done()
	defer cancel()

	// Wait for a superseded call to wind down.
	select {
	case st.running <- struct{}{}:
	case <-ctx.Done():
		return
	}
	res, err := st.check(ctx, text)
	<-st.running

	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return
	}
	st.mu.Lock()
	stale := seq != st.seq || st.closed
	st.mu.Unlock()
	if stale {
		return
	}

	select {
	case st.results <- StreamResult{Seq: seq, Text: text, Result: res, Err: err}:
	case <-st.done:
	}
}

// Close stops the stream, waits for in-flight work and closes Results.
func (st *Stream) Close() {
	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return
	}
	st.closed = true
	st.stopLocked()
	st.mu.Unlock()

	close(st.done)
	st.wg.Wait()
	close(st.results)
}
