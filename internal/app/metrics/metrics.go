package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "tongen"

type Metrics struct {
	reg prometheus.Registerer

	WalletsGenerated   *prometheus.CounterVec
	DerivationFailures *prometheus.CounterVec
	BuildDuration      prometheus.Histogram
	BatchSize          prometheus.Gauge
	OutputWrites       *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		reg: reg,
		WalletsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallets_generated_total",
			Help:      "Amount of wallet records built, by mode.",
		}, []string{"mode"}),
		DerivationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "derivation_failures_total",
			Help:      "Wallet derivation failures grouped by failing step.",
		}, []string{"op"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "wallet_build_duration_seconds",
			Help:      "Time spent deriving a single wallet record.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		BatchSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Amount of wallets requested by the last batch run.",
		}),
		OutputWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "output_writes_total",
			Help:      "Batch output file writes grouped by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.WalletsGenerated,
		m.DerivationFailures,
		m.BuildDuration,
		m.BatchSize,
		m.OutputWrites,
	)

	return m
}

// WriteTextfile dumps everything gathered by g in the text exposition format,
// suitable for the node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
