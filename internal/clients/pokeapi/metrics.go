package pokeapi

import (
	stderrors "errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes recorded by the metrics
const (
	outcomeSuccess = "success"
	outcomeError   = "error"
	outcomeRetry   = "retry"
)

// Resources recorded by the metrics
const (
	resourceList      = "list"
	resourceCreature  = "creature"
	resourceSpecies   = "species"
	resourceEvolution = "evolution_chain"
)

// Metrics counts upstream fetches
type Metrics struct {
	fetches *prometheus.CounterVec
}

// NewMetrics registers the fetch counters. Registering twice on the same
// registerer reuses the existing collector.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pokedex",
		Name:      "catalog_fetch_total",
		Help:      "Upstream catalog fetches by resource and outcome.",
	}, []string{"resource", "outcome"})

	if reg != nil {
		if err := reg.Register(fetches); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !stderrors.As(err, &already) {
				return nil, err
			}
			existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, err
			}
			fetches = existing
		}
	}

	return &Metrics{fetches: fetches}, nil
}

// FetchCounter exposes the counter vector for inspection
func (m *Metrics) FetchCounter() *prometheus.CounterVec {
	return m.fetches
}

func (m *Metrics) observe(resource, outcome string) {
	m.fetches.WithLabelValues(resource, outcome).Inc()
}
