package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/gamekit/pkg/statemachine"
)

// Collector counts transitions. It implements prometheus.Collector.
type Collector struct {
	transitions     *prometheus.CounterVec
	invalid         *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
}

// New creates a collector whose metric names start with namespace.
func New(namespace string) *Collector {
	return &Collector{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Number of successful state transitions.",
		}, []string{"machine", "from", "to"}),
		invalid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_transitions_total",
			Help:      "Number of transitions rejected by the graph.",
		}, []string{"machine", "from", "to"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Number of machine states that could not be saved.",
		}, []string{"machine"}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.transitions.Describe(ch)
	c.invalid.Describe(ch)
	c.persistFailures.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.transitions.Collect(ch)
	c.invalid.Collect(ch)
	c.persistFailures.Collect(ch)
}

// Register adds the collector to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	if err := reg.Register(c); err != nil {
		return errors.Join(ErrRegisterFailed, err)
	}
	return nil
}

// ObserveTransition counts one successful transition.
func (c *Collector) ObserveTransition(machine string, from, to any) {
	c.transitions.WithLabelValues(machine, fmt.Sprint(from), fmt.Sprint(to)).Inc()
}

// ObserveError counts err if it is a rejected transition or a persistence
// failure. Other errors, including nil, are ignored.
func (c *Collector) ObserveError(machine string, err error) {
	var invalid *statemachine.ErrInvalidTransition
	switch {
	case errors.As(err, &invalid):
		c.invalid.WithLabelValues(machine, fmt.Sprint(invalid.From), fmt.Sprint(invalid.To)).Inc()
	case errors.Is(err, statemachine.ErrPersistFailed):
		c.persistFailures.WithLabelValues(machine).Inc()
	}
}

// Attach counts every transition dispatched by reg under the machine label.
// The collector is the subscription owner, so
// reg.UnsubscribeOwner(c) detaches it from every machine at once.
func Attach[S comparable](c *Collector, reg *statemachine.Registry[S], machine string) (statemachine.Subscription, error) {
	if c == nil || reg == nil {
		return statemachine.Subscription{}, statemachine.ErrInvalidArgument
	}
	return reg.SubscribeToAllTransitions(c, func(from, to S) {
		c.ObserveTransition(machine, from, to)
	})
}
