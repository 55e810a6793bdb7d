package ledger

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

const subscriptionBuffer = 8

// Subscription delivers ledger events to one listener
type Subscription interface {
	GetEvent() <-chan *Event

	IsClosed() bool
	Unsubscribe()
}

type subscription struct {
	// closed by the stream
	updateCh chan *Event

	closed *atomic.Bool
}

// GetEvent returns the event channel of the subscription
func (s *subscription) GetEvent() <-chan *Event {
	return s.updateCh
}

func (s *subscription) IsClosed() bool {
	return s.closed.Load()
}

// Unsubscribe marks the subscription closed. The stream drops and closes
// it on the next event.
func (s *subscription) Unsubscribe() {
	s.closed.CAS(false, true)
}

// eventStream fans ledger events out to the subscriptions. A subscriber
// that falls behind by more than its buffer misses events.
type eventStream struct {
	lock sync.RWMutex

	ctx       context.Context
	ctxCancel context.CancelFunc

	subs map[*subscription]struct{}

	subCh   chan *subscription
	eventCh chan *Event

	isClosed *atomic.Bool
}

func newEventStream(ctx context.Context) *eventStream {
	streamCtx, cancel := context.WithCancel(ctx)

	stream := &eventStream{
		ctx:       streamCtx,
		ctxCancel: cancel,
		subs:      make(map[*subscription]struct{}),
		subCh:     make(chan *subscription),
		eventCh:   make(chan *Event),
		isClosed:  atomic.NewBool(false),
	}

	go stream.run()

	return stream
}

func (e *eventStream) run() {
	var closed []*subscription

	for {
		select {
		case <-e.ctx.Done():
			return
		case sub := <-e.subCh:
			e.lock.Lock()
			e.subs[sub] = struct{}{}
			e.lock.Unlock()
		case event := <-e.eventCh:
			e.lock.RLock()

			for sub := range e.subs {
				if sub.IsClosed() {
					closed = append(closed, sub)

					continue
				}

				select {
				case sub.updateCh <- event:
				default:
				}
			}

			e.lock.RUnlock()

			if len(closed) == 0 {
				continue
			}

			e.lock.Lock()

			for _, sub := range closed {
				if _, ok := e.subs[sub]; ok {
					delete(e.subs, sub)
					close(sub.updateCh)
				}
			}

			e.lock.Unlock()

			closed = closed[:0]
		}
	}
}

// Close stops the stream and closes every subscription channel
func (e *eventStream) Close() {
	if !e.isClosed.CAS(false, true) {
		return
	}

	e.ctxCancel()

	e.lock.Lock()
	defer e.lock.Unlock()

	for sub := range e.subs {
		delete(e.subs, sub)
		close(sub.updateCh)
	}
}

// subscribe registers a new subscription, nil once the stream is closed
func (e *eventStream) subscribe() *subscription {
	if e.isClosed.Load() {
		return nil
	}

	sub := &subscription{
		updateCh: make(chan *Event, subscriptionBuffer),
		closed:   atomic.NewBool(false),
	}

	select {
	case <-e.ctx.Done():
		return nil
	case e.subCh <- sub:
	}

	return sub
}

// push hands event to the stream. It is a no-op once the stream is closed.
func (e *eventStream) push(event *Event) {
	select {
	case <-e.ctx.Done():
	case e.eventCh <- event:
	}
}
