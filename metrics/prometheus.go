package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lockfree"

// Metrics holds the counter vectors shared by every structure registered on
// the same registry. Each structure gets its own label value.
type Metrics struct {
	reg prometheus.Registerer

	pushes    *prometheus.CounterVec
	pops      *prometheus.CounterVec
	retired   *prometheus.CounterVec
	reclaimed *prometheus.CounterVec
	kept      *prometheus.CounterVec
	waits     *prometheus.CounterVec
}

// New creates the counter vectors and registers them on reg. Registering
// twice on the same registry reuses the existing collectors.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{reg: reg}
	var err error
	if m.pushes, err = counterVec(reg, "push_total",
		"Values pushed.", "structure"); err != nil {
		return nil, err
	}
	if m.pops, err = counterVec(reg, "pop_total",
		"Pop calls by result.", "structure", "result"); err != nil {
		return nil, err
	}
	if m.retired, err = counterVec(reg, "retired_total",
		"Nodes removed from the live chain by disposal.", "structure", "disposal"); err != nil {
		return nil, err
	}
	if m.reclaimed, err = counterVec(reg, "garbage_reclaimed_total",
		"Deferred nodes freed by a drain pass.", "structure"); err != nil {
		return nil, err
	}
	if m.kept, err = counterVec(reg, "garbage_kept_total",
		"Deferred nodes still protected during a drain pass.", "structure"); err != nil {
		return nil, err
	}
	if m.waits, err = counterVec(reg, "hazard_slot_waits_total",
		"Full hazard registry scans that found no free slot.", "structure"); err != nil {
		return nil, err
	}
	return m, nil
}

func counterVec(reg prometheus.Registerer, name, help string, labels ...string) (*prometheus.CounterVec, error) {
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labels)
	if err := reg.Register(cv); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return cv, nil
}

// Observer returns an Observer whose events are labelled with structure.
func (m *Metrics) Observer(structure string) Observer {
	return &observer{
		pushes:    m.pushes.WithLabelValues(structure),
		popHit:    m.pops.WithLabelValues(structure, "hit"),
		popEmpty:  m.pops.WithLabelValues(structure, "empty"),
		immediate: m.retired.WithLabelValues(structure, "immediate"),
		deferred:  m.retired.WithLabelValues(structure, "deferred"),
		reclaimed: m.reclaimed.WithLabelValues(structure),
		kept:      m.kept.WithLabelValues(structure),
		waits:     m.waits.WithLabelValues(structure),
	}
}

// Track registers gauges sampling the element count and the garbage list
// length of one structure.
func (m *Metrics) Track(structure string, size, pending func() int) error {
	labels := prometheus.Labels{"structure": structure}
	gauges := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "size",
			Help:        "Elements currently held.",
			ConstLabels: labels,
		}, func() float64 { return float64(size()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "garbage_pending",
			Help:        "Retired nodes waiting on the garbage list.",
			ConstLabels: labels,
		}, func() float64 { return float64(pending()) }),
	}
	for _, g := range gauges {
		if err := m.reg.Register(g); err != nil {
			return err
		}
	}
	return nil
}

type observer struct {
	pushes    prometheus.Counter
	popHit    prometheus.Counter
	popEmpty  prometheus.Counter
	immediate prometheus.Counter
	deferred  prometheus.Counter
	reclaimed prometheus.Counter
	kept      prometheus.Counter
	waits     prometheus.Counter
}

func (o *observer) Pushed() { o.pushes.Inc() }

func (o *observer) Popped(ok bool) {
	if ok {
		o.popHit.Inc()
	} else {
		o.popEmpty.Inc()
	}
}

func (o *observer) Retired(deferred bool) {
	if deferred {
		o.deferred.Inc()
	} else {
		o.immediate.Inc()
	}
}

func (o *observer) Collected(freed, kept int) {
	o.reclaimed.Add(float64(freed))
	o.kept.Add(float64(kept))
}

func (o *observer) SlotWait() { o.waits.Inc() }
