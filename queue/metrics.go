package queue

import (
	"context"
	"fmt"
	"sync/atomic"

	api "go.opentelemetry.io/otel/metric"
)

// queueMetrics holds the instruments registered on the caller-supplied meter.
// A nil *queueMetrics is valid and records nothing, so the queue can call the
// Add methods unconditionally.
type queueMetrics struct {
	admitted api.Int64Counter
	pulled   api.Int64Counter
	rejected api.Int64Counter
	expired  api.Int64Counter

	lengthReg api.Registration
	stopped   atomic.Bool
}

func newQueueMetrics(meter api.Meter, length func() int64) (*queueMetrics, error) {
	if meter == nil {
		return nil, nil
	}

	m := &queueMetrics{}

	var err error
	m.admitted, err = meter.Int64Counter("mq.queue.jobs.admitted",
		api.WithDescription("Jobs admitted into the queue"),
		api.WithUnit("{job}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter mq.queue.jobs.admitted: %w", err)
	}
	m.pulled, err = meter.Int64Counter("mq.queue.jobs.pulled",
		api.WithDescription("Jobs retrieved from the queue"),
		api.WithUnit("{job}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter mq.queue.jobs.pulled: %w", err)
	}
	m.rejected, err = meter.Int64Counter("mq.queue.jobs.rejected",
		api.WithDescription("Jobs refused admission because the queue was at capacity"),
		api.WithUnit("{job}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter mq.queue.jobs.rejected: %w", err)
	}
	m.expired, err = meter.Int64Counter("mq.queue.jobs.expired",
		api.WithDescription("Jobs evicted after exceeding the residency limit"),
		api.WithUnit("{job}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter mq.queue.jobs.expired: %w", err)
	}

	gauge, err := meter.Int64ObservableGauge("mq.queue.length",
		api.WithDescription("Jobs currently resident in the queue"),
		api.WithUnit("{job}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge mq.queue.length: %w", err)
	}
	m.lengthReg, err = meter.RegisterCallback(func(_ context.Context, o api.Observer) error {
		o.ObserveInt64(gauge, length())
		return nil
	}, gauge)
	if err != nil {
		return nil, fmt.Errorf("failed to register callback for mq.queue.length: %w", err)
	}

	return m, nil
}

func (m *queueMetrics) AddAdmitted() {
	if m == nil {
		return
	}
	m.admitted.Add(context.Background(), 1)
}

func (m *queueMetrics) AddPulled() {
	if m == nil {
		return
	}
	m.pulled.Add(context.Background(), 1)
}

func (m *queueMetrics) AddRejected() {
	if m == nil {
		return
	}
	m.rejected.Add(context.Background(), 1)
}

func (m *queueMetrics) AddExpired() {
	if m == nil {
		return
	}
	m.expired.Add(context.Background(), 1)
}

// Stop unregisters the length gauge. Safe to call more than once.
func (m *queueMetrics) Stop() {
	if m == nil {
		return
	}
	if m.stopped.CompareAndSwap(false, true) {
		_ = m.lengthReg.Unregister() //nolint:errcheck
	}
}
