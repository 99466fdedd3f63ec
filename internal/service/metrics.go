package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts conversion outcomes. A nil *Metrics records nothing.
type Metrics struct {
	images    *prometheus.CounterVec
	documents *prometheus.CounterVec
}

// NewMetrics registers the gallery counters with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		images: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gallery_images_total",
				Help: "Images processed, partitioned by embed result.",
			},
			[]string{"result"},
		),
		documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gallery_documents_total",
				Help: "Documents generated, partitioned by delivery mode.",
			},
			[]string{"mode"},
		),
	}
	for _, c := range []prometheus.Collector{m.images, m.documents} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeImages(embedded, failed int) {
	if m == nil {
		return
	}
	m.images.WithLabelValues("embedded").Add(float64(embedded))
	m.images.WithLabelValues("placeholder").Add(float64(failed))
}

// ObserveDocument counts one generated document for mode.
func (m *Metrics) ObserveDocument(mode string) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(mode).Inc()
}
