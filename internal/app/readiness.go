package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Readiness tracks whether the store answered the last check. The server
// keeps serving while not ready; every request still fails on its own.
type Readiness struct {
	ready   atomic.Bool
	check   func(context.Context) error
	timeout time.Duration
}

// NewReadiness wraps a check function. A nil check is always ready.
func NewReadiness(check func(context.Context) error, timeout time.Duration) *Readiness {
	return &Readiness{check: check, timeout: timeout}
}

// Check runs the check, records the outcome and returns its error.
func (r *Readiness) Check(ctx context.Context) error {
	if r == nil {
		return nil
	}
	if r.check == nil {
		r.ready.Store(true)
		return nil
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	err := r.check(ctx)
	r.ready.Store(err == nil)
	return err
}

// Ready reports the outcome of the last check.
func (r *Readiness) Ready() bool {
	return r != nil && r.ready.Load()
}

// RegisterGauge exports terceros_store_ready. Each scrape re-runs the check,
// so the gauge follows the store even when nothing polls /readyz.
func (r *Readiness) RegisterGauge(reg prometheus.Registerer) error {
	return reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "terceros_store_ready",
		Help: "1 when the record store answered the last readiness check.",
	}, func() float64 {
		if err := r.Check(context.Background()); err != nil {
			return 0
		}
		return 1
	}))
}
