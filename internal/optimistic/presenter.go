// Package optimistic binds an editable setting to a slow, eventually
// consistent service. The user's intent is shown immediately and
// reconciled against the service once its change notifications settle.
package optimistic

import (
	"context"
	"sync"
	"time"

	"github.com/mark3labs/roomprefs/internal/logger"
)

// DefaultDebounce is the quiet period after the last change notification
// before the authoritative value is fetched again.
const DefaultDebounce = 500 * time.Millisecond

// Service is the authoritative owner of a setting.
type Service[T any] interface {
	Fetch(ctx context.Context) (Setting[T], error)
	Submit(ctx context.Context, value T) error
	RestoreDefault(ctx context.Context) error
	// Changes signals that the setting may have changed. Signals carry no
	// value and may arrive in bursts. The channel lives until ctx is done.
	Changes(ctx context.Context) (<-chan struct{}, error)
}

// Option configures a Presenter.
type Option[T any] func(*options[T])

type options[T any] struct {
	debounce time.Duration
	onFetch  func(Setting[T])
}

// WithDebounce sets the notification quiet period.
func WithDebounce[T any](d time.Duration) Option[T] {
	return func(o *options[T]) {
		o.debounce = d
	}
}

// WithOnFetch registers fn to be called with every successfully fetched
// setting. fn runs on the presenter goroutine and must not block.
func WithOnFetch[T any](fn func(Setting[T])) Option[T] {
	return func(o *options[T]) {
		o.onFetch = fn
	}
}

type fetchResult[T any] struct {
	seq     uint64
	setting Setting[T]
	err     error
}

type actionResult struct {
	kind ActionKind
	seq  uint64
	err  error
}

// Presenter owns the State of one setting. All state changes happen on a
// single goroutine started by Attach; service calls run on their own
// goroutines and report back to it.
type Presenter[T comparable] struct {
	svc  Service[T]
	opts options[T]

	events  chan Event
	fetches chan fetchResult[T]
	actions chan actionResult
	updates chan State[T]

	mu       sync.Mutex
	snapshot State[T]
	attached bool
	cancel   context.CancelFunc
	done     chan struct{}

	// Owned by the run goroutine.
	state      State[T]
	fetchSeq   uint64
	seq        [2]uint64
	valueOwner ActionKind
	workers    sync.WaitGroup
}

// New creates a detached presenter for svc.
func New[T comparable](svc Service[T], opts ...Option[T]) *Presenter[T] {
	o := options[T]{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&o)
	}
	return &Presenter[T]{
		svc:     svc,
		opts:    o,
		events:  make(chan Event),
		fetches: make(chan fetchResult[T]),
		actions: make(chan actionResult),
		updates: make(chan State[T], 1),
		done:    make(chan struct{}),
	}
}

// Attach subscribes to change notifications, starts the initial load and
// runs the presenter until ctx is cancelled or Detach is called.
func (p *Presenter[T]) Attach(ctx context.Context) error {
	p.mu.Lock()
	attached := p.attached
	p.mu.Unlock()
	if attached {
		return ErrAlreadyAttached
	}

	// Subscribing may take network round trips; p.mu stays free meanwhile.
	ctx, cancel := context.WithCancel(ctx)
	changes, err := p.svc.Changes(ctx)
	if err != nil {
		cancel()
		return &Error{Op: OpFetch, Err: err}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.attached {
		cancel()
		return ErrAlreadyAttached
	}
	p.attached = true
	p.cancel = cancel
	go p.run(ctx, changes)
	return nil
}

// Detach stops the presenter and waits for its goroutines to exit.
// Updates is closed afterwards.
func (p *Presenter[T]) Detach() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-p.done
}

// Done is closed once the presenter has stopped.
func (p *Presenter[T]) Done() <-chan struct{} {
	return p.done
}

// Send delivers a user action. It blocks until the presenter has taken it.
func (p *Presenter[T]) Send(ev Event) error {
	p.mu.Lock()
	attached := p.attached
	p.mu.Unlock()
	if !attached {
		return ErrNotAttached
	}
	select {
	case p.events <- ev:
		return nil
	case <-p.done:
		return ErrNotAttached
	}
}

// Updates delivers snapshots. Only the newest unread snapshot is kept.
func (p *Presenter[T]) Updates() <-chan State[T] {
	return p.updates
}

// State returns the current snapshot.
func (p *Presenter[T]) State() State[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

func (p *Presenter[T]) run(ctx context.Context, changes <-chan struct{}) {
	defer close(p.done)
	defer close(p.updates)

	timer := time.NewTimer(p.opts.debounce)
	timer.Stop()
	var pending bool

	p.startFetch(ctx)
	p.publish()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			p.workers.Wait()
			return

		case ev := <-p.events:
			p.handle(ctx, ev)

		case res := <-p.fetches:
			p.applyFetch(res)

		case res := <-p.actions:
			p.applyAction(res)

		case _, ok := <-changes:
			if !ok {
				logger.Debug("Change notifications closed")
				changes = nil
				continue
			}
			timer.Reset(p.opts.debounce)
			pending = true
			continue

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			logger.Debug("Change notifications settled, reconciling")
			p.startFetch(ctx)
		}
		p.publish()
	}
}

func (p *Presenter[T]) publish() {
	s := p.state
	p.mu.Lock()
	p.snapshot = s
	p.mu.Unlock()

	select {
	case <-p.updates:
	default:
	}
	p.updates <- s
}

func (p *Presenter[T]) handle(ctx context.Context, ev Event) {
	switch ev := ev.(type) {
	case ChangeValue[T]:
		p.submitChange(ctx, ev.Value)
	case SetDefault:
		if ev.IsDefault {
			p.restoreDefault(ctx)
		} else {
			p.pinDefault(ctx)
		}
	case DismissError:
		p.setAction(ev.Kind, Action{Status: NotStarted})
	case Reload:
		p.startFetch(ctx)
	default:
		logger.Warn("Ignoring unsupported event %T", ev)
	}
}

// startFetch clears pending intent in the same step that marks the value
// as loading, so a snapshot never shows both.
func (p *Presenter[T]) startFetch(ctx context.Context) {
	p.state.PendingValue = nil
	p.state.PendingDefault = nil
	p.state.Authoritative = p.state.Authoritative.loading()
	p.fetchSeq++
	seq := p.fetchSeq

	p.workers.Go(func() {
		setting, err := p.svc.Fetch(ctx)
		select {
		case p.fetches <- fetchResult[T]{seq: seq, setting: setting, err: err}:
		case <-ctx.Done():
		}
	})
}

func (p *Presenter[T]) applyFetch(res fetchResult[T]) {
	if res.seq != p.fetchSeq {
		logger.Debug("Discarding superseded fetch %d (latest %d)", res.seq, p.fetchSeq)
		return
	}
	if res.err != nil {
		logger.Warn("Fetching setting failed: %v", res.err)
		p.state.Authoritative = p.state.Authoritative.failed(&Error{Op: OpFetch, Err: res.err})
		return
	}
	p.state.Authoritative = succeeded(res.setting)
	if p.opts.onFetch != nil {
		p.opts.onFetch(res.setting)
	}
}

func (p *Presenter[T]) submitChange(ctx context.Context, value T) {
	p.state.PendingValue = ptr(value)
	p.state.PendingDefault = nil
	p.valueOwner = ActionChange
	p.startAction(ctx, ActionChange, func(ctx context.Context) error {
		return p.svc.Submit(ctx, value)
	})
}

func (p *Presenter[T]) restoreDefault(ctx context.Context) {
	p.state.PendingDefault = ptr(true)
	p.state.PendingValue = nil
	p.startAction(ctx, ActionRestoreDefault, p.svc.RestoreDefault)
}

func (p *Presenter[T]) pinDefault(ctx context.Context) {
	current, ok := p.state.Authoritative.Get()
	if !ok {
		p.seq[ActionRestoreDefault]++
		p.setAction(ActionRestoreDefault, Action{Status: Failed, Err: &Error{Op: OpRestore, Err: ErrNotLoaded}})
		return
	}
	value := current.Default
	p.state.PendingDefault = ptr(false)
	p.state.PendingValue = ptr(value)
	p.valueOwner = ActionRestoreDefault
	p.startAction(ctx, ActionRestoreDefault, func(ctx context.Context) error {
		return p.svc.Submit(ctx, value)
	})
}

func (p *Presenter[T]) startAction(ctx context.Context, kind ActionKind, call func(context.Context) error) {
	p.seq[kind]++
	seq := p.seq[kind]
	p.setAction(kind, Action{Status: InProgress})

	p.workers.Go(func() {
		err := call(ctx)
		select {
		case p.actions <- actionResult{kind: kind, seq: seq, err: err}:
		case <-ctx.Done():
		}
	})
}

func (p *Presenter[T]) applyAction(res actionResult) {
	if res.seq != p.seq[res.kind] {
		logger.Debug("Discarding superseded %s result %d (latest %d)", res.kind, res.seq, p.seq[res.kind])
		return
	}
	if res.err == nil {
		p.setAction(res.kind, Action{Status: Succeeded})
		return
	}

	op := OpSubmit
	if res.kind == ActionRestoreDefault {
		op = OpRestore
		p.state.PendingDefault = nil
	}
	if p.valueOwner == res.kind {
		p.state.PendingValue = nil
	}
	logger.Warn("%s failed: %v", res.kind, res.err)
	p.setAction(res.kind, Action{Status: Failed, Err: &Error{Op: op, Err: res.err}})
}

func (p *Presenter[T]) setAction(kind ActionKind, a Action) {
	if kind == ActionRestoreDefault {
		p.state.Restore = a
	} else {
		p.state.Change = a
	}
}
