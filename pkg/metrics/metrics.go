// Package metrics holds the prometheus collectors of the driver and the
// server exposing them.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "infinibox_driver"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"

	DiscoveryFound   = "found"
	DiscoveryTimeout = "timeout"
	DiscoveryError   = "error"
)

var (
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "The total number of driver operations",
		},
		[]string{"operation", "result"},
	)

	OperationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "The duration of driver operations",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"operation"},
	)

	GatewayDiscoveryDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_discovery_duration_seconds",
			Help:      "The time spent polling for iSCSI gateway state",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"result"},
	)
)

// ObserveOperation record one finished operation.
func ObserveOperation(operation string, start time.Time, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	OperationsTotal.WithLabelValues(operation, result).Inc()
	OperationDurationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveDiscovery record one gateway discovery poll.
func ObserveDiscovery(result string, elapsed time.Duration) {
	GatewayDiscoveryDurationSeconds.WithLabelValues(result).Observe(elapsed.Seconds())
}

type Server struct {
	server *http.Server
}

// NewMetricsServer create the exposition server, it does not listen until Activate.
func NewMetricsServer(address string, port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s := &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", address, port),
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
	glog.Infof("Initializing metrics frontend on %s.", s.server.Addr)
	return s
}

func (s *Server) Activate() {
	go func() {
		glog.Infof("Activating metrics frontend on %s.", s.server.Addr)
		err := s.server.ListenAndServe()
		if err == http.ErrServerClosed {
			glog.Infof("Metrics frontend server has closed.")
		} else if err != nil {
			glog.Errorf("Metrics frontend failed %s", err)
		}
	}()
}

func (s *Server) Deactivate() error {
	glog.Infof("Deactivating metrics frontend on %s.", s.server.Addr)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
