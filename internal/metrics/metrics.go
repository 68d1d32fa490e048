// Package metrics counts what a run did. The registry is private to the run
// and is written out as a Prometheus textfile when asked.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cleared-dev/teller/internal/model"
)

// Outcome label values.
const (
	OutcomeOK = "ok"
)

// Recorder holds the per-run counters. A nil *Recorder records nothing.
type Recorder struct {
	reg *prometheus.Registry

	Transactions *prometheus.CounterVec
	Sessions     *prometheus.CounterVec
	Truncations  prometheus.Counter
}

// New creates a Recorder on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		reg: reg,
		Transactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teller_transactions_total",
				Help: "Transactions processed by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		Sessions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teller_sessions_total",
				Help: "Sessions opened by privilege",
			},
			[]string{"privilege"},
		),
		Truncations: factory.NewCounter(prometheus.CounterOpts{
			Name: "teller_truncations_total",
			Help: "Runs ended by a truncated command stream",
		}),
	}
}

// Registry returns the registry the counters live on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// Transaction counts one command. A nil err counts as ok; otherwise the
// outcome is the error kind.
func (r *Recorder) Transaction(kind model.Kind, err error) {
	if r == nil {
		return
	}
	r.Transactions.WithLabelValues(string(kind), outcome(err)).Inc()
}

// Session counts a successful login.
func (r *Recorder) Session(privilege string) {
	if r == nil {
		return
	}
	r.Sessions.WithLabelValues(privilege).Inc()
}

// Truncated counts a run cut short by missing arguments.
func (r *Recorder) Truncated() {
	if r == nil {
		return
	}
	r.Truncations.Inc()
}

// WriteTextfile writes every counter to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

func outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	return model.KindOf(err).String()
}
