// Package queue implements a bounded, in-memory FIFO queue for deferred jobs.
// Every admitted job carries its own residency timer: jobs not retrieved
// within a configured time are evicted and broadcast to subscribers, and
// pushes beyond a configured capacity are rejected and broadcast likewise.
// The queue holds jobs but never invokes them.
package queue

import (
	"container/list"
	"log/slog"
	"sync"
	"time"

	"github.com/alphadose/haxmap"
	"go.opentelemetry.io/otel/metric"
	kclock "k8s.io/utils/clock"

	"github.com/avocajs/mq/events"
)

// Job is a unit of work held by the queue. The queue never calls it; it is
// handed back whole on retrieval, rejection, or expiry.
type Job[T any] func() T

// Unbounded disables the capacity limit when used as Options.MaxQueueSize.
const Unbounded = -1

// Options are options for New.
type Options struct {
	// MaxQueueTime is how long a job may reside in the queue before it is
	// evicted and broadcast to the expired-job subscribers.
	// Required, must be positive.
	MaxQueueTime time.Duration

	// MaxQueueSize is the maximum number of jobs resident at once, or
	// Unbounded for no limit.
	// Required, must be positive or Unbounded.
	MaxQueueSize int

	// Logger used for debug-level records on rejections and expiries.
	// This is optional, and defaults to slog.Default().
	Logger *slog.Logger

	// Meter registers job counters and a queue-length gauge, if set.
	Meter metric.Meter

	// Internal clock property, used for testing
	clock kclock.WithDelayedExecution
}

// Queue is a FIFO queue of jobs with a per-job residency limit and a
// capacity limit. Retrieval order is strictly the order of admission.
type Queue[T any] struct {
	mu     sync.Mutex
	order  *list.List
	index  *haxmap.Map[uint64, *list.Element]
	nextID uint64

	clock   kclock.WithDelayedExecution
	log     *slog.Logger
	metrics *queueMetrics

	maxQueueTime time.Duration
	maxQueueSize int

	// Outbound notification channels. Subscribers are invoked in
	// subscription order; the queue never inspects their outcome.
	expired  events.Emitter[Job[T]]
	rejected events.Emitter[Job[T]]
}

// Each admitted job is wrapped in an item, which pairs it with the unique id
// used to locate it on expiry and the handle to its pending expiry timer.
type item[T any] struct {
	id    uint64
	job   Job[T]
	timer kclock.Timer
}

// New returns a queue with the residency and capacity limits in opts.
// It returns a *ConfigError if either limit is invalid.
func New[T any](opts Options) (*Queue[T], error) {
	if opts.MaxQueueTime <= 0 {
		return nil, NewConfigError("maxQueueTime must be a positive duration")
	}
	if opts.MaxQueueSize <= 0 && opts.MaxQueueSize != Unbounded {
		return nil, NewConfigError("maxQueueSize must be a positive integer or Unbounded")
	}

	if opts.clock == nil {
		opts.clock = kclock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	q := &Queue[T]{
		order:        list.New(),
		index:        haxmap.New[uint64, *list.Element](),
		clock:        opts.clock,
		log:          opts.Logger,
		maxQueueTime: opts.MaxQueueTime,
		maxQueueSize: opts.MaxQueueSize,
	}

	metrics, err := newQueueMetrics(opts.Meter, func() int64 {
		return int64(q.Len())
	})
	if err != nil {
		return nil, err
	}
	q.metrics = metrics

	return q, nil
}

// AdmissionAllowed reports whether a push issued now would be admitted.
// Pure query with no side effect; Push re-checks under the same lock.
func (q *Queue[T]) AdmissionAllowed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.admissionAllowedLocked()
}

func (q *Queue[T]) admissionAllowedLocked() bool {
	return q.maxQueueSize == Unbounded || q.order.Len() < q.maxQueueSize
}

// Push admits a job into the queue and schedules its expiry timer.
// A nil job is refused with an *InvalidJobError and the queue is unchanged.
// A push while the queue is at capacity is not an error: the job is not
// enqueued and is broadcast synchronously to the rejected-job subscribers.
func (q *Queue[T]) Push(job Job[T]) error {
	if job == nil {
		return NewInvalidJobError("job must not be nil")
	}

	q.mu.Lock()
	if !q.admissionAllowedLocked() {
		q.mu.Unlock()
		q.log.Debug("job rejected: queue at capacity",
			slog.Int("maxQueueSize", q.maxQueueSize),
		)
		q.metrics.AddRejected()
		q.rejected.Emit(job)
		return nil
	}

	q.nextID++
	it := &item[T]{
		id:  q.nextID,
		job: job,
	}
	// One-shot timer owned by the queue; Pull stops it, expire releases it.
	it.timer = q.clock.AfterFunc(q.maxQueueTime, func() {
		q.expire(it.id)
	})
	q.index.Set(it.id, q.order.PushBack(it))
	q.mu.Unlock()

	q.metrics.AddAdmitted()
	return nil
}

// expire is the timer callback for a single item. The item may already have
// been removed by a pull that raced with the timer firing; in that case this
// is a no-op.
func (q *Queue[T]) expire(id uint64) {
	q.mu.Lock()
	el, ok := q.index.Get(id)
	if !ok {
		q.mu.Unlock()
		return
	}
	q.index.Del(id)
	it := q.order.Remove(el).(*item[T])
	q.mu.Unlock()

	q.log.Debug("job expired",
		slog.Uint64("id", it.id),
		slog.Duration("maxQueueTime", q.maxQueueTime),
	)
	q.metrics.AddExpired()
	q.expired.Emit(it.job)
}

// Pull removes and returns the oldest job in the queue.
// It returns false if the queue is empty.
func (q *Queue[T]) Pull() (Job[T], bool) {
	q.mu.Lock()
	el := q.order.Front()
	if el == nil {
		q.mu.Unlock()
		return nil, false
	}
	it := q.order.Remove(el).(*item[T])
	q.index.Del(it.id)
	// The timer must have no observable effect after retrieval. Stop is not
	// guaranteed to win against an in-flight callback, so expire also checks
	// the index before acting.
	it.timer.Stop()
	q.mu.Unlock()

	q.metrics.AddPulled()
	return it.job, true
}

// Batch removes and returns all queued jobs in FIFO order.
// It returns nil if the queue is empty.
func (q *Queue[T]) Batch() []Job[T] {
	var jobs []Job[T]
	for {
		job, ok := q.Pull()
		if !ok {
			return jobs
		}
		jobs = append(jobs, job)
	}
}

// Len returns the number of jobs currently in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.order.Len()
}

// HasJob reports whether at least one job is queued.
func (q *Queue[T]) HasJob() bool {
	return q.Len() > 0
}

// HasNoJob reports whether the queue is empty.
func (q *Queue[T]) HasNoJob() bool {
	return q.Len() == 0
}

// MaxQueueTime returns the residency limit the queue was built with.
func (q *Queue[T]) MaxQueueTime() time.Duration {
	return q.maxQueueTime
}

// MaxQueueSize returns the capacity the queue was built with, or Unbounded.
func (q *Queue[T]) MaxQueueSize() int {
	return q.maxQueueSize
}

// OnExpired subscribes fn to jobs evicted after residing longer than
// MaxQueueTime. Subscribers are invoked in subscription order, from the
// timer's goroutine.
func (q *Queue[T]) OnExpired(fn func(Job[T])) {
	q.expired.Subscribe(fn)
}

// OnRejected subscribes fn to jobs refused admission because the queue was
// at capacity. Subscribers are invoked in subscription order, synchronously
// inside Push.
func (q *Queue[T]) OnRejected(fn func(Job[T])) {
	q.rejected.Subscribe(fn)
}

// Stop discards all queued jobs, cancels their pending expiry timers and
// unregisters metric callbacks. No notification is emitted for the discarded
// jobs. The queue remains usable after Stop.
func (q *Queue[T]) Stop() {
	q.mu.Lock()
	for el := q.order.Front(); el != nil; el = el.Next() {
		it := el.Value.(*item[T])
		it.timer.Stop()
		q.index.Del(it.id)
	}
	q.order.Init()
	q.mu.Unlock()

	q.metrics.Stop()
}
