package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "testops"
)

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	runResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_results",
		Help:      "Result of unit-test runs",
	}, []string{
		"run_id",
		"result",
	})

	unitTestsTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "unit_tests_total",
		Help:      "Total number of on-device unit tests",
	}, []string{
		"run_id",
	})

	unitTestsFailed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "unit_tests_failed",
		Help:      "Number of failed on-device unit tests",
	}, []string{
		"run_id",
	})

	unitTestsDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "unit_tests_duration_seconds",
		Help:      "On-device elapsed time of the unit-test suite",
	}, []string{
		"run_id",
	})

	memoryLeakBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "memory_leak_bytes",
		Help:      "Bytes the device reported as leaked during the run",
	}, []string{
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

// RecordError counts one occurrence of an error label. The trace line goes
// through the global logger, so it only surfaces at debug log level.
func RecordError(error string) {
	log.Debug("metric inc",
		"m", "errors_total",
		"error", error,
	)
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordRun publishes the outcome of one unit-test run.
func RecordRun(
	runID string,
	result string,
	total int,
	failed int,
	elapsed time.Duration,
	leakBytes int,
) {
	log.Debug("metric set",
		"m", "run_results",
		"run_id", runID,
		"result", result,
		"total", total,
		"failed", failed)
	runResults.WithLabelValues(runID, result).Set(1)
	unitTestsTotal.WithLabelValues(runID).Set(float64(total))
	unitTestsFailed.WithLabelValues(runID).Set(float64(failed))
	unitTestsDuration.WithLabelValues(runID).Set(elapsed.Seconds())
	memoryLeakBytes.WithLabelValues(runID).Set(float64(leakBytes))
}
