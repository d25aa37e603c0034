package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// TextfileName is picked up by the node_exporter textfile collector.
const TextfileName = "safe_rm.prom"

var (
	initOnce sync.Once
	registry *prometheus.Registry

	// LastRunTimestamp is the unix time of the last wrapper invocation.
	LastRunTimestamp prometheus.Gauge
	// LastRunSkipped is how many arguments the last invocation dropped.
	LastRunSkipped prometheus.Gauge
	// LastRunForwarded is how many arguments the last invocation forwarded.
	LastRunForwarded prometheus.Gauge
	// LastRunExitCode is the exit code relayed by the last invocation.
	LastRunExitCode prometheus.Gauge
)

// Init registers all gauges on a private registry. A one-shot wrapper
// has no scrape endpoint, so metrics are exported through the textfile
// collector instead of an HTTP server. Safe to call multiple times.
func Init() {
	initOnce.Do(func() {
		registry = prometheus.NewRegistry()

		LastRunTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "safe_rm_last_run_timestamp_seconds",
			Help: "Unix time of the last safe-rm invocation.",
		})
		LastRunSkipped = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "safe_rm_last_run_skipped_args",
			Help: "Arguments dropped as protected in the last invocation.",
		})
		LastRunForwarded = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "safe_rm_last_run_forwarded_args",
			Help: "Arguments forwarded to the real rm in the last invocation.",
		})
		LastRunExitCode = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "safe_rm_last_run_exit_code",
			Help: "Exit code relayed from the real rm in the last invocation.",
		})

		registry.MustRegister(LastRunTimestamp, LastRunSkipped, LastRunForwarded, LastRunExitCode)
	})
}

// WriteTextfile dumps the registry in Prometheus text format into
// dir/safe_rm.prom. Written to a temp file and renamed so a concurrent
// scrape never sees a partial file.
func WriteTextfile(dir string) error {
	mfs, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	tmp, err := os.CreateTemp(dir, TextfileName+".*")
	if err != nil {
		return fmt.Errorf("create metrics textfile: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := expfmt.NewEncoder(tmp, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			tmp.Close()
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, TextfileName))
}
