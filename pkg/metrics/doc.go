// Package metrics exposes state machine activity as Prometheus metrics.
//
// A Collector owns three counters, all labelled by machine name:
//
//   - <ns>_transitions_total{machine,from,to} counts successful transitions.
//   - <ns>_invalid_transitions_total{machine,from,to} counts rejected ones.
//   - <ns>_persist_failures_total{machine} counts failed state saves.
//
// Attach subscribes the collector to a statemachine.Registry, so successful
// transitions are counted without touching call sites. Rejected transitions
// never reach listeners; pass the error returned by TransitionTo or
// Machine.Transition to ObserveError instead.
//
//	c := metrics.New("arena")
//	if err := c.Register(prometheus.DefaultRegisterer); err != nil { ... }
//	_, _ = metrics.Attach(c, graph.Registry(), "match")
//
//	if _, err := m.Transition(ctx, Playing); err != nil {
//	    c.ObserveError("match", err)
//	}
package metrics
